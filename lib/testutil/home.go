// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// XDGHome creates a temporary home directory and points HOME,
// XDG_CONFIG_HOME and XDG_STATE_HOME into it. I3MINATOR_CONFIG is
// cleared. Returns the home directory. Uses t.Setenv, so the calling
// test must not be parallel.
func XDGHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))
	t.Setenv("I3MINATOR_CONFIG", "")
	return home
}
