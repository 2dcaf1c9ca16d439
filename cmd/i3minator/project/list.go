// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	libproject "github.com/i3minator/i3minator/lib/project"
	"github.com/i3minator/i3minator/lib/state"
)

type listParams struct {
	cli.JSONOutput
}

// listEntry is one row of "list".
type listEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Path        string `json:"path"`
	Shadowed    string `json:"shadowed,omitempty"`
	Invalid     string `json:"invalid,omitempty"`

	// Windows counts recorded windows still alive; Recorded is set
	// when a session record exists at all.
	Recorded bool `json:"recorded"`
	Running  bool `json:"running"`
	Windows  int  `json:"windows"`
}

// ListCommand returns "i3minator list".
func ListCommand(environment *cli.Environment) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Summary: "List project templates and whether they are running",
		Usage:   "i3minator list [flags]",
		Params:  func() any { return &params },
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

			if done, err := params.EmitJSON(environment.Stdout, entries); done {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(environment.Stdout, "no projects in %s\n\nRun 'i3minator new <name>' to create one.\n", s.projects.Dir)
				return nil
			}
			printList(environment, entries)
			return nil
		},
	}
}

// listEntries reads every template and joins it with its session
// record. Liveness needs i3; without it, recorded projects are shown
// as recorded but not running.
func listEntries(ctx context.Context, s *stores, logger *slog.Logger) ([]listEntry, error) {
	templates, err := s.projects.List()
	if err != nil {
		return nil, err
	}
	records, err := s.states.List()
	if err != nil {
		return nil, err
	}
	byProject := make(map[string]*state.Record, len(records))
	for _, record := range records {
		byProject[record.Project] = record
	}

	alive := make(map[string]int)
	if len(records) > 0 {
		if conn, err := s.connect(ctx, logger); err != nil {
			logger.Debug("not checking running projects", "error", err)
		} else if root, err := conn.Tree(ctx); err != nil {
			logger.Debug("not checking running projects", "error", err)
		} else {
			for _, record := range records {
				running, _ := state.Running(record, root)
				alive[record.Project] = len(running)
			}
		}
	}

	entries := make([]listEntry, 0, len(templates))
	for _, template := range templates {
		entry := listEntry{Name: template.Name, Path: template.Path, Shadowed: template.Shadowed}
		if proj, err := libproject.LoadFile(template.Path); err != nil {
			entry.Invalid = err.Error()
		} else {
			entry.Description = proj.Description
		}
		if _, ok := byProject[template.Name]; ok {
			entry.Recorded = true
			entry.Windows = alive[template.Name]
			entry.Running = entry.Windows > 0
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func printList(environment *cli.Environment, entries []listEntry) {
	style := newStyles(environment.StdoutIsTerminal())
	nameWidth := 0
	for _, entry := range entries {
		nameWidth = max(nameWidth, len(entry.Name))
	}

	for _, entry := range entries {
		var status string
		switch {
		case entry.Running:
			status = style.running.Render(fmt.Sprintf("running (%d)", entry.Windows))
		case entry.Recorded:
			status = style.stopped.Render("recorded")
		default:
			status = style.stopped.Render("stopped")
		}

		description := entry.Description
		if entry.Invalid != "" {
			description = style.warning.Render("invalid template")
		}
		line := pad(style.name.Render(entry.Name), nameWidth) + "  " + pad(status, len("running (00)"))
		if description != "" {
			line += "  " + style.faint.Render(description)
		}
		fmt.Fprintln(environment.Stdout, strings.TrimRight(line, " "))
	}
}
