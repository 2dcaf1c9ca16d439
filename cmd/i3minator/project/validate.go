// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/layout"
	libproject "github.com/i3minator/i3minator/lib/project"
)

type validateParams struct {
	cli.JSONOutput
}

// validateOutput is the JSON result of "validate".
type validateOutput struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems"`
	Warnings []string `json:"warnings"`
}

// ValidateCommand returns "i3minator validate".
func ValidateCommand(environment *cli.Environment) *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check a project template for problems",
		Description: `Check a template without touching i3: names, workspaces, window
criteria, dependencies between windows and the layout files it
references. The argument is a project name or a path to a template file.
Exits 1 when problems are found.`,
		Usage: "i3minator validate <name-or-file> [flags]",
		Examples: []cli.Example{
			{Description: "Check a stored project", Command: "i3minator validate webdev"},
			{Description: "Check a file before installing it", Command: "i3minator validate ./webdev.yml"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			target, err := requireName(args, "i3minator validate <name-or-file> [flags]")
			if err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			output, err := validateTarget(s, target)
			if err == nil && output.Valid {
				output.Warnings = append(output.Warnings, outputWarnings(ctx, s, target, logger)...)
			}
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(environment.Stdout, output); !done {
				printValidation(environment, output)
			} else if err != nil {
				return err
			}
			if !output.Valid {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// validateTarget checks a stored project or a template file. Only
// failing to find the template is an error; everything else is
// reported in the output.
func validateTarget(s *stores, target string) (validateOutput, error) {
	output := validateOutput{Problems: []string{}, Warnings: []string{}}

	var proj *libproject.Project
	var loadErr error
	if isFile(target) {
		output.Name = libproject.NameFromPath(target)
		output.Path = target
		proj, loadErr = libproject.LoadFile(target)
	} else {
		if _, _, err := s.projects.Read(target); err != nil {
			return output, s.notFound(target, err)
		}
		output.Name = target
		output.Path, _ = s.projects.Path(target)
		proj, loadErr = s.projects.Load(target)
		if entries, err := s.projects.List(); err == nil {
			for _, entry := range entries {
				if entry.Name == target && entry.Shadowed != "" {
					output.Warnings = append(output.Warnings, fmt.Sprintf("%s is ignored: %s takes precedence", entry.Shadowed, entry.Path))
				}
			}
		}
	}

	if loadErr != nil {
		output.Problems = append(output.Problems, loadErr.Error())
		return output, nil
	}
	output.Problems = append(output.Problems, problemLines(libproject.Validate(proj, output.Name))...)

	expanded := libproject.Expand(proj, s.config.Paths.Layouts)
	for _, workspace := range expanded.Workspaces {
		if workspace.Layout == "" {
			continue
		}
		containers, err := layout.ReadFile(workspace.Layout)
		if err != nil {
			output.Problems = append(output.Problems, fmt.Sprintf("workspace %q: %v", workspace.Name, err))
			continue
		}
		empty := 0
		for _, swallow := range layout.Swallows(containers) {
			if swallow.Empty() {
				empty++
			}
		}
		if empty > 0 {
			output.Warnings = append(output.Warnings, fmt.Sprintf(
				"workspace %q: %d placeholder(s) in %s have no class, instance, title or window_role and will never be filled",
				workspace.Name, empty, workspace.Layout))
		}
	}
	output.Valid = len(output.Problems) == 0
	return output, nil
}

// outputWarnings names workspace outputs that are not connected. It is
// best effort: without i3 nothing is reported.
func outputWarnings(ctx context.Context, s *stores, target string, logger *slog.Logger) []string {
	var proj *libproject.Project
	var err error
	if isFile(target) {
		proj, err = libproject.LoadFile(target)
	} else {
		proj, err = s.projects.Load(target)
	}
	if err != nil {
		return nil
	}
	conn, err := s.connect(ctx, logger)
	if err != nil {
		logger.Debug("skipping output check", "error", err)
		return nil
	}
	outputs, err := conn.Outputs(ctx)
	if err != nil {
		logger.Debug("skipping output check", "error", err)
		return nil
	}
	active := make(map[string]bool)
	for _, output := range outputs {
		if output.Active {
			active[output.Name] = true
		}
	}
	var warnings []string
	for _, workspace := range proj.Workspaces {
		if workspace.Output != "" && !active[workspace.Output] {
			warnings = append(warnings, fmt.Sprintf("workspace %q: output %s is not connected; the workspace stays where i3 puts it",
				workspace.Name, workspace.Output))
		}
	}
	return warnings
}

// isFile reports whether target names a template file rather than a
// stored project.
func isFile(target string) bool {
	if !strings.ContainsRune(target, os.PathSeparator) && !strings.HasSuffix(target, ".yml") && !strings.HasSuffix(target, ".yaml") {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && !info.IsDir()
}

func problemLines(err error) []string {
	if err == nil {
		return nil
	}
	var lines []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			lines = append(lines, problemLines(inner)...)
		}
		return lines
	}
	return []string{err.Error()}
}

func printValidation(environment *cli.Environment, output validateOutput) {
	style := newStyles(environment.StdoutIsTerminal())
	for _, warning := range output.Warnings {
		fmt.Fprintf(environment.Stdout, "%s %s\n", style.warning.Render("warning:"), warning)
	}
	if output.Valid {
		fmt.Fprintf(environment.Stdout, "%s: %s\n", output.Path, style.running.Render("ok"))
		return
	}
	fmt.Fprintf(environment.Stdout, "%s: %d problem(s)\n", output.Path, len(output.Problems))
	for _, problem := range output.Problems {
		fmt.Fprintf(environment.Stdout, "  - %s\n", problem)
	}
}
