// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/session"
	"github.com/i3minator/i3minator/lib/state"
)

type stopParams struct {
	cli.JSONOutput
}

// StopCommand returns "i3minator stop".
func StopCommand(environment *cli.Environment) *cli.Command {
	var params stopParams

	return &cli.Command{
		Name:    "stop",
		Summary: "Close the windows of a started project",
		Description: `Close every window recorded by the project's last "start", including
windows it adopted, then run the on_stop hooks recorded at start time.
The template itself is not consulted, so stop works after it has been
edited or deleted.`,
		Usage:  "i3minator stop <name> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator stop <name> [flags]")
			if err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			logger = logger.With("project", name)

			lock, err := s.states.Lock(ctx)
			if err != nil {
				return err
			}
			defer lock.Unlock()

			record, err := s.states.Load(name)
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("project %q is not running", name)
			}
			if err != nil {
				return err
			}

			conn, err := s.connect(ctx, logger)
			if err != nil {
				return err
			}
			result, err := session.Stop(ctx, conn, record, logger)
			if err != nil {
				return err
			}
			if err := s.states.Delete(name); err != nil {
				return err
			}

			if done, err := params.EmitJSON(environment.Stdout, result); done {
				return err
			}
			fmt.Fprintf(environment.Stdout, "%s: closed %d windows", name, len(result.Closed))
			if len(result.Gone) > 0 {
				fmt.Fprintf(environment.Stdout, " (%d already gone)", len(result.Gone))
			}
			fmt.Fprintln(environment.Stdout)
			return nil
		},
	}
}
