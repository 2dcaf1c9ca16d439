// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads i3minator's global YAML configuration.
//
// The file is located by, in order: an explicit path (the --config
// flag), the I3MINATOR_CONFIG environment variable, and
// $XDG_CONFIG_HOME/i3minator/config.yaml. When none exists the built-in
// defaults are used unchanged; an explicitly named file that does not
// exist is an error.
//
// Path fields support ${VAR} and ${VAR:-default} expansion and a
// leading "~/". Durations are Go duration strings ("10s", "250ms") and
// are checked by [Config.Validate].
//
// This package depends on no other i3minator packages.
package config
