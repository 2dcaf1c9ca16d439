// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package version carries build version information.
//
// GitCommit and BuildTime are injected with -ldflags:
//
//	go build -ldflags "-X github.com/i3minator/i3minator/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/i3minator
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the release version.
	Version = "0.0.1"
)

// Info returns "<version> (<commit>, <build time>)".
func Info() string {
	return fmt.Sprintf("%s (%s, %s)", Version, GitCommit, BuildTime)
}

// Full returns Info plus the Go toolchain and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
