// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/codec"
	"github.com/i3minator/i3minator/lib/session"
	"github.com/i3minator/i3minator/lib/state"
)

type statusParams struct {
	cli.JSONOutput
	Raw bool `flag:"raw" desc:"print the stored session record in CBOR diagnostic notation"`
}

// statusOutput is the JSON result of "status".
type statusOutput struct {
	Project         string               `json:"project"`
	Running         bool                 `json:"running"`
	StartedAt       *time.Time           `json:"started_at,omitempty"`
	Alive           []state.WindowRecord `json:"alive"`
	Gone            []state.WindowRecord `json:"gone"`
	TemplateChanged bool                 `json:"template_changed"`
	Plan            *session.Plan        `json:"plan"`
}

// StatusCommand returns "i3minator status".
func StatusCommand(environment *cli.Environment) *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Show what start would do and which recorded windows are alive",
		Description: `Compare a project template with the live i3 tree and print the plan
"start" would execute, without executing it. When the project has been
started, also report which of its recorded windows still exist and
whether the template changed since.`,
		Usage:  "i3minator status <name> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator status <name> [flags]")
			if err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}

			if params.Raw {
				data, err := s.states.Raw(name)
				if errors.Is(err, state.ErrNotFound) {
					return fmt.Errorf("project %q has no session record", name)
				}
				if err != nil {
					return err
				}
				notation, err := codec.Diagnose(data)
				if err != nil {
					return err
				}
				fmt.Fprintln(environment.Stdout, notation)
				return nil
			}

			template, err := s.load(name)
			if err != nil {
				return err
			}
			conn, err := s.connect(ctx, logger.With("project", name))
			if err != nil {
				return err
			}
			root, err := conn.Tree(ctx)
			if err != nil {
				return err
			}
			plan, err := session.NewPlan(template.expanded, root, template.fingerprint, s.planOptions(s.config.Launch.Adopt))
			if err != nil {
				return err
			}

			output := statusOutput{Project: name, Plan: plan}
			record, err := s.states.Load(name)
			switch {
			case errors.Is(err, state.ErrNotFound):
			case err != nil:
				return err
			default:
				output.Alive, output.Gone = state.Running(record, root)
				output.Running = len(output.Alive) > 0
				output.StartedAt = &record.StartedAt
				output.TemplateChanged = record.Fingerprint != template.fingerprint
			}

			if done, err := params.EmitJSON(environment.Stdout, output); done {
				return err
			}
			printStatus(environment, output)
			return nil
		},
	}
}

func printStatus(environment *cli.Environment, output statusOutput) {
	w := environment.Stdout
	style := newStyles(environment.StdoutIsTerminal())

	switch {
	case output.Running:
		fmt.Fprintf(w, "%s: %s, %d of %d windows alive, started %s\n",
			style.name.Render(output.Project), style.running.Render("running"),
			len(output.Alive), len(output.Alive)+len(output.Gone),
			output.StartedAt.Local().Format(time.DateTime))
	case output.StartedAt != nil:
		fmt.Fprintf(w, "%s: %s, all recorded windows are gone\n",
			style.name.Render(output.Project), style.stopped.Render("stopped"))
	default:
		fmt.Fprintf(w, "%s: %s\n", style.name.Render(output.Project), style.stopped.Render("not started"))
	}
	for _, window := range output.Gone {
		fmt.Fprintf(w, "  %s %s (%s)\n", style.warning.Render("gone:"), window.Name, window.Workspace)
	}
	if output.TemplateChanged {
		fmt.Fprintln(w, style.warning.Render("  template changed since start"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Plan:")
	printPlan(w, output.Plan, style)
}
