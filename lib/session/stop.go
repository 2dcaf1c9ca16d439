// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/i3minator/i3minator/lib/state"
	"github.com/i3minator/i3minator/lib/wm"
)

// StopResult reports what Stop did.
type StopResult struct {
	// Closed are the windows that were killed.
	Closed []string `json:"closed"`

	// Gone are recorded windows that no longer existed.
	Gone []string `json:"gone,omitempty"`

	// Hooks counts the on_stop hooks run.
	Hooks int `json:"hooks"`
}

// Stop kills the record's windows that still exist, newest first, then
// runs its on_stop hooks. Adopted windows are closed too: adopting
// made them part of the session.
func Stop(ctx context.Context, conn wm.Conn, record *state.Record, logger *slog.Logger) (StopResult, error) {
	var result StopResult
	root, err := conn.Tree(ctx)
	if err != nil {
		return result, err
	}

	alive, gone := state.Running(record, root)
	for _, window := range gone {
		result.Gone = append(result.Gone, window.Name)
	}

	var errs []error
	for i := len(alive) - 1; i >= 0; i-- {
		window := alive[i]
		if err := conn.Run(ctx, wm.Kill(window.ConID)); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", window.Name, err))
			continue
		}
		logger.Info("closed window", "window", window.Name, "con_id", window.ConID)
		result.Closed = append(result.Closed, window.Name)
	}

	for _, hook := range record.OnStop {
		if err := conn.Run(ctx, wm.Exec(hook)); err != nil {
			errs = append(errs, fmt.Errorf("on_stop hook: %w", err))
			continue
		}
		result.Hooks++
	}
	return result, errors.Join(errs...)
}
