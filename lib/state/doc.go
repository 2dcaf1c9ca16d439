// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package state persists what "start" did so that "stop" and "status"
// can find a project's windows again.
//
// Each started project has one CBOR record file, <dir>/<project>.cbor,
// written atomically (temporary file, fsync, rename) so readers never
// see a partial record. Commands that change the session (start, stop,
// save) serialise on an exclusive flock of <dir>/.lock; a second
// i3minator waits briefly and then fails with [ErrLocked] instead of
// racing the first one for the same windows.
//
// Records name windows by i3 container ID. Container IDs are only
// meaningful while i3 keeps running; [Running] checks a record against
// the live tree.
package state
