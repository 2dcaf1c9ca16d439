// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	libproject "github.com/i3minator/i3minator/lib/project"
)

type newParams struct {
	From   string `flag:"from" desc:"copy an existing project instead of the skeleton"`
	NoEdit bool   `flag:"no-edit" desc:"do not open the new template in the editor"`
}

// NewCommand returns "i3minator new".
func NewCommand(environment *cli.Environment) *cli.Command {
	var params newParams

	return &cli.Command{
		Name:    "new",
		Summary: "Create a project template and open it in the editor",
		Description: `Create a project template from a commented skeleton, or from an existing
project with --from, and open it in $EDITOR. The template is checked
after the editor exits; problems are reported but the file is kept.`,
		Usage: "i3minator new <name> [flags]",
		Examples: []cli.Example{
			{Description: "Start a template from the skeleton", Command: "i3minator new webdev"},
			{Description: "Base a project on another one", Command: "i3minator new shop --from webdev --no-edit"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator new <name> [flags]")
			if err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}

			var path string
			if params.From != "" {
				path, err = s.projects.Copy(params.From, name)
				if err != nil {
					return s.notFound(params.From, err)
				}
			} else {
				path, err = s.projects.Create(name, libproject.Skeleton(name))
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(environment.Stdout, "created %s\n", path)

			if params.NoEdit {
				return nil
			}
			return editAndCheck(ctx, s, name, path, logger)
		},
	}
}

// EditCommand returns "i3minator edit".
func EditCommand(environment *cli.Environment) *cli.Command {
	return &cli.Command{
		Name:    "edit",
		Summary: "Open a project template in the editor",
		Usage:   "i3minator edit <name>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator edit <name>")
			if err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			_, path, err := s.projects.Read(name)
			if err != nil {
				return s.notFound(name, err)
			}
			return editAndCheck(ctx, s, name, path, logger)
		},
	}
}

// editAndCheck opens path in the editor and reports problems in the
// result without failing: the user may be midway through a template.
func editAndCheck(ctx context.Context, s *stores, name, path string, logger *slog.Logger) error {
	argv := s.config.EditorCommand(path)
	logger.Debug("opening editor", "command", argv)
	if err := s.environment.Edit(ctx, argv); err != nil {
		return err
	}

	proj, err := libproject.LoadFile(path)
	if err == nil {
		err = libproject.Validate(proj, name)
	}
	if err != nil {
		fmt.Fprintf(s.environment.Stderr, "warning: %s has problems:\n%v\n", path, err)
	}
	return nil
}
