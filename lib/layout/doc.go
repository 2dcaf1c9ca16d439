// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout reads and writes i3 layout files, the format consumed
// by i3's append_layout command and produced by i3-save-tree.
//
// A layout file is not a single JSON document: it is a sequence of
// top-level container objects, usually annotated with "//" comments.
// [Parse] strips the comments and decodes the whole stream. Leaf
// containers carry "swallows" criteria; i3 replaces the placeholder
// with the first window that matches.
//
// [Capture] converts a live workspace subtree into layout containers
// with i3-save-tree's conventions, so "i3minator save" can snapshot an
// arrangement and replay it later.
package layout
