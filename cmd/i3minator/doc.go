// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// i3minator manages project sessions for the i3 window manager.
//
// A project template (YAML, one file per project) names workspaces,
// optional i3 layout files and the applications that belong on each
// workspace. "i3minator start <name>" reconciles the running i3 session
// with the template: missing workspaces are created, layouts appended,
// windows already in place kept, matching windows elsewhere adopted and
// the rest launched in dependency order, each one waited for before
// the next. "i3minator stop <name>" closes what start brought up.
//
// Run "i3minator --help" for the full command list.
package main
