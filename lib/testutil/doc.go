// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests waiting on window events or launcher results never
// hang. [XDGHome] points the XDG base directories (and HOME) at a fresh
// temporary tree so config, project and state lookups in tests never
// touch the real user's files.
//
// All helpers call t.Fatalf on failure.
package testutil
