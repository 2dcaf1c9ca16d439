// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that waits for windows to appear, retries launches, or stamps
// session records takes a Clock instead of calling the time package.
// Production wiring passes Real(); tests pass Fake() and move time with
// Advance:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go launcher.Launch(ctx, request) // registers a timeout via c.After
//	c.WaitForTimers(1)
//	c.Advance(10 * time.Second)      // the timeout fires deterministically
package clock
