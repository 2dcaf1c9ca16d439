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

type startParams struct {
	cli.JSONOutput
	DryRun  bool `flag:"dry-run,n" desc:"print the plan without changing anything"`
	NoAdopt bool `flag:"no-adopt" desc:"launch new windows instead of moving matching ones from other workspaces"`
}

// startOutput is the JSON result of "start".
type startOutput struct {
	Plan   *session.Plan `json:"plan"`
	Record *state.Record `json:"record,omitempty"`
	Errors []string      `json:"errors,omitempty"`
}

// StartCommand returns "i3minator start" (alias "open").
func StartCommand(environment *cli.Environment) *cli.Command {
	var params startParams

	return &cli.Command{
		Name:    "start",
		Aliases: []string{"open"},
		Summary: "Bring up a project's workspaces and windows",
		Description: `Reconcile i3 with a project template. Workspaces are created and moved to
their outputs, layout files are appended, windows already in place are
kept, matching windows on other workspaces are adopted, and the rest are
launched in dependency order. Starting a running project only fills in
what is missing.

The windows that came up are recorded so "stop" can close them.`,
		Usage: "i3minator start <name> [flags]",
		Examples: []cli.Example{
			{Description: "Start a project", Command: "i3minator start webdev"},
			{Description: "Show what would happen", Command: "i3minator start webdev --dry-run"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator start <name> [flags]")
			if err != nil {
				return err
			}
			return runStart(ctx, environment, name, params, logger)
		},
	}
}

func runStart(ctx context.Context, environment *cli.Environment, name string, params startParams, logger *slog.Logger) error {
	s, err := openStores(environment)
	if err != nil {
		return err
	}
	template, err := s.load(name)
	if err != nil {
		return err
	}
	logger = logger.With("project", name)

	conn, err := s.connect(ctx, logger)
	if err != nil {
		return err
	}
	adopt := s.config.Launch.Adopt && !params.NoAdopt

	if params.DryRun {
		root, err := conn.Tree(ctx)
		if err != nil {
			return err
		}
		plan, err := session.NewPlan(template.expanded, root, template.fingerprint, s.planOptions(adopt))
		if err != nil {
			return err
		}
		if done, err := params.EmitJSON(environment.Stdout, startOutput{Plan: plan}); done {
			return err
		}
		printPlan(environment.Stdout, plan, newStyles(environment.StdoutIsTerminal()))
		return nil
	}

	lock, err := s.states.Lock(ctx)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	// Read the tree under the lock so a concurrent start cannot claim
	// the same windows.
	root, err := conn.Tree(ctx)
	if err != nil {
		return err
	}
	plan, err := session.NewPlan(template.expanded, root, template.fingerprint, s.planOptions(adopt))
	if err != nil {
		return err
	}
	logger.Debug("starting project", "steps", len(plan.Steps), "launches", plan.Launches())

	record, applyErr := s.applier(conn, logger).Apply(ctx, plan)
	if record != nil && (len(record.Windows) > 0 || applyErr == nil) {
		if err := s.states.Save(record); err != nil {
			return errors.Join(applyErr, fmt.Errorf("saving session record: %w", err))
		}
	}

	output := startOutput{Plan: plan, Record: record}
	if applyErr != nil {
		output.Errors = problemLines(applyErr)
	}
	if done, err := params.EmitJSON(environment.Stdout, output); done {
		if err != nil {
			return err
		}
		if applyErr != nil {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}

	printStartSummary(environment, plan, record)
	return applyErr
}

func printStartSummary(environment *cli.Environment, plan *session.Plan, record *state.Record) {
	launched, kept, adopted := startCounts(plan, record)

	style := newStyles(environment.StdoutIsTerminal())
	fmt.Fprintf(environment.Stdout, "%s: %d launched, %d kept, %d adopted",
		style.name.Render(plan.Project), launched, kept, adopted)
	if len(record.Failed) > 0 {
		fmt.Fprintf(environment.Stdout, ", %s", style.warning.Render(fmt.Sprintf("%d failed", len(record.Failed))))
	}
	fmt.Fprintln(environment.Stdout)
}

// startCounts counts what the record says came up. An aborted apply
// records fewer windows than the plan names.
func startCounts(plan *session.Plan, record *state.Record) (launched, kept, adopted int) {
	keep := make(map[string]bool)
	for _, step := range plan.Steps {
		if step.Action == session.ActionKeep {
			keep[step.Window] = true
		}
	}
	for _, window := range record.Windows {
		switch {
		case !window.Adopted:
			launched++
		case keep[window.Name]:
			kept++
		default:
			adopted++
		}
	}
	return launched, kept, adopted
}
