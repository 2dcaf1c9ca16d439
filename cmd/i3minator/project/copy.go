// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/state"
)

// CopyCommand returns "i3minator copy".
func CopyCommand(environment *cli.Environment) *cli.Command {
	return &cli.Command{
		Name:    "copy",
		Aliases: []string{"cp"},
		Summary: "Duplicate a project template under a new name",
		Description: `Duplicate a template. Comments are kept unless the template sets its
name explicitly, in which case it is re-encoded with the new name.`,
		Usage: "i3minator copy <source> <destination>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 2 {
				return fmt.Errorf("source and destination required\n\nUsage: i3minator copy <source> <destination>")
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			path, err := s.projects.Copy(args[0], args[1])
			if err != nil {
				return s.notFound(args[0], err)
			}
			fmt.Fprintf(environment.Stdout, "created %s\n", path)
			return nil
		},
	}
}

type deleteParams struct {
	Force bool `flag:"force,f" desc:"delete even while the project is running"`
}

// DeleteCommand returns "i3minator delete".
func DeleteCommand(environment *cli.Environment) *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:    "delete",
		Aliases: []string{"rm"},
		Summary: "Remove a project template",
		Description: `Remove a project template. A project with a session record is refused
unless --force is given; with --force the record is dropped too and the
project's windows are left open.`,
		Usage:  "i3minator delete <name> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator delete <name> [flags]")
			if err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			if !s.projects.Exists(name) {
				_, _, err := s.projects.Read(name)
				return s.notFound(name, err)
			}

			_, err = s.states.Load(name)
			switch {
			case errors.Is(err, state.ErrNotFound):
			case err != nil && !params.Force:
				return err
			case !params.Force:
				return fmt.Errorf("project %q is running; stop it first or use --force", name)
			default:
				if err := s.states.Delete(name); err != nil {
					return err
				}
				logger.Debug("dropped session record", "project", name)
			}

			if err := s.projects.Delete(name); err != nil {
				return err
			}
			fmt.Fprintf(environment.Stdout, "deleted %s\n", name)
			return nil
		},
	}
}
