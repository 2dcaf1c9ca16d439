// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the CBOR encoding used for i3minator's on-disk
// session records.
//
// Records are small, written often (every start and stop), and never
// edited by hand, so they use a compact binary encoding rather than the
// YAML used for templates. Encoding is Core Deterministic (RFC 8949
// §4.2): the same record always produces the same bytes, which keeps
// record files diffable by hash.
//
// Callers import this package rather than fxamacker/cbor directly.
package codec
