// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package session reconciles a project template with the live i3 tree.
//
// Reconciliation is split in two so that "status" and "start --dry-run"
// can show exactly what "start" would do:
//
//   - [Plan] compares an expanded project with a tree snapshot and
//     produces an ordered list of [Step] values. It sends nothing to i3.
//   - [Applier.Apply] executes a plan: workspace and layout commands go
//     straight to i3, launches go through a [launch.Launcher] in
//     dependency order. The result is a [state.Record] naming every
//     window the project now owns.
//
// A window already matching its criteria on the right workspace is
// kept; one matching elsewhere is adopted (moved over) when adoption is
// enabled; only the rest are launched. Running "start" twice therefore
// launches nothing the second time.
//
// [Stop] closes the windows of a record and [Capture] goes the other
// way, turning live workspaces into layout files plus a template.
package session
