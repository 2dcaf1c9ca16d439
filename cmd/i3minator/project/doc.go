// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package project implements the project commands: new, edit, start,
// stop, status, list, show, copy, delete, validate, save and pick.
//
// Every command takes a [cli.Environment] so tests can run it against
// a temporary configuration and a fake i3.
package project
