// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/picker"
)

type pickParams struct {
	DryRun bool `flag:"dry-run,n" desc:"print the plan for the chosen project instead of starting it"`
}

// PickCommand returns "i3minator pick".
func PickCommand(environment *cli.Environment) *cli.Command {
	var params pickParams

	return &cli.Command{
		Name:    "pick",
		Summary: "Choose a project interactively and start it",
		Description: `Open a fuzzy finder over the project templates, running projects first,
and start the chosen one. Type to filter, arrows to move, Enter to
start, Esc to cancel. Useful from an i3 binding:

  bindsym $mod+p exec i3-sensible-terminal -e i3minator pick`,
		Usage:  "i3minator pick [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			entries, err := listEntries(ctx, s, logger)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no projects in %s", s.projects.Dir)
			}

			items := make([]picker.Item, 0, len(entries))
			for _, entry := range entries {
				if entry.Invalid != "" {
					continue
				}
				items = append(items, picker.Item{
					Name:        entry.Name,
					Description: entry.Description,
					Running:     entry.Running,
				})
			}
			chosen, ok, err := environment.Pick(items)
			if err != nil {
				return fmt.Errorf("picker: %w", err)
			}
			if !ok {
				logger.Debug("nothing picked")
				return nil
			}
			return runStart(ctx, environment, chosen.Name, startParams{DryRun: params.DryRun}, logger)
		},
	}
}
