// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for i3minator.
//
// The central type is [Command], a named command with optional nested
// [Command.Subcommands], a parameter struct whose tagged fields become
// pflag flags ([BindFlags]), and a Run function that receives a
// context, the positional args and a logger. Commands are assembled
// into a tree in cmd/i3minator/commands and dispatched with
// [Command.Execute], which handles flag parsing, subcommand routing,
// aliases and structured help output with examples.
//
// Unknown subcommands and flags get a suggestion computed by
// Levenshtein edit distance (threshold: distance <= 3). Unknown project
// names use [SuggestNames], which falls back to fuzzy matching.
//
// [Environment] carries the global flags ([Globals]), the standard
// streams and the injectable pieces commands need: the clock, the i3
// connection, the editor and the interactive picker.
package cli
