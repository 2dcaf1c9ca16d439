// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package picker is the interactive project chooser behind
// "i3minator pick": a filter line above a list of projects ranked by
// fzf's fuzzy matcher, with running projects marked.
//
// [Rank] is the pure ranking function; [Model] is the bubbletea model
// and [Run] drives it on a terminal.
package picker
