// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor implements "i3minator doctor".
package doctor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/cmd/i3minator/cli/doctor"
	"github.com/i3minator/i3minator/lib/config"
	"github.com/i3minator/i3minator/lib/project"
)

// append_layout and swallows arrived in i3 4.8.
const (
	minimumMajor = 4
	minimumMinor = 8
)

type commandParams struct {
	cli.JSONOutput
	Fix    bool `flag:"fix" desc:"repair what can be repaired (create missing directories)"`
	DryRun bool `flag:"dry-run" desc:"with --fix, show what would be repaired"`
}

// Command returns "i3minator doctor".
func Command(environment *cli.Environment) *cli.Command {
	var params commandParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Check the i3minator environment",
		Description: `Check everything i3minator depends on: the configuration, the template,
layout and state directories, the i3 IPC socket and i3 version, the
editor and the terminal emulator, and the stored templates. Prints what
to do about each failure. Exits 1 when a check fails.`,
		Usage: "i3minator doctor [flags]",
		Examples: []cli.Example{
			{Description: "Check the environment", Command: "i3minator doctor"},
			{Description: "Create missing directories", Command: "i3minator doctor --fix"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			results := runChecks(ctx, environment, logger)
			var outcome doctor.Outcome
			if params.Fix {
				outcome = doctor.ExecuteFixes(ctx, results, params.DryRun)
			}

			if params.OutputJSON {
				output := doctor.BuildJSON(results, params.DryRun)
				if err := cli.WriteJSON(environment.Stdout, output); err != nil {
					return err
				}
				if !output.OK {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}
			return doctor.PrintChecklist(environment.Stdout, results, params.Fix, params.DryRun, outcome)
		},
	}
}

func runChecks(ctx context.Context, environment *cli.Environment, logger *slog.Logger) []doctor.Result {
	var results []doctor.Result

	cfg, err := environment.LoadConfig()
	if err != nil {
		results = append(results, doctor.Fail("configuration", err.Error(), "fix the configuration file"))
		return append(results, doctor.Skip("remaining checks", "configuration did not load"))
	}
	source := cfg.Source
	if source == "" {
		source = "built-in defaults"
	}
	results = append(results, doctor.Pass("configuration", source))

	results = append(results,
		checkDirectory("projects directory", cfg.Paths.Projects),
		checkDirectory("layouts directory", cfg.Paths.Layouts),
		checkDirectory("state directory", cfg.Paths.State),
	)
	results = append(results, checkI3(ctx, environment, cfg, logger)...)
	results = append(results,
		checkEditor(cfg),
		checkTerminal(cfg),
		checkTemplates(cfg),
	)
	return results
}

func checkDirectory(name, path string) doctor.Result {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return doctor.Pass(name, path)
	case err == nil:
		return doctor.Fail(name, path+" is not a directory", "move it aside")
	case os.IsNotExist(err):
		return doctor.FailWithFix(name, path+" does not exist", "create "+path,
			func(context.Context) error { return os.MkdirAll(path, 0o755) })
	default:
		return doctor.Fail(name, err.Error(), "")
	}
}

func checkI3(ctx context.Context, environment *cli.Environment, cfg *config.Config, logger *slog.Logger) []doctor.Result {
	conn, err := environment.Connect(ctx, cfg, logger)
	if err != nil {
		return []doctor.Result{
			doctor.Fail("i3 connection", err.Error(), "run inside an i3 session, or set i3.socket or $I3SOCK"),
			doctor.Skip("i3 version", "no connection"),
		}
	}
	socket := cfg.I3.Socket
	if socket == "" {
		socket = os.Getenv("I3SOCK")
	}
	if socket == "" {
		socket = "discovered socket"
	}
	results := []doctor.Result{doctor.Pass("i3 connection", socket)}

	version, err := conn.Version(ctx)
	switch {
	case err != nil:
		results = append(results, doctor.Fail("i3 version", err.Error(), ""))
	case version.Major < minimumMajor || (version.Major == minimumMajor && version.Minor < minimumMinor):
		results = append(results, doctor.Fail("i3 version", version.HumanReadable,
			fmt.Sprintf("i3 %d.%d or newer is required for layouts", minimumMajor, minimumMinor)))
	default:
		results = append(results, doctor.Pass("i3 version", version.HumanReadable))
	}
	return results
}

func checkEditor(cfg *config.Config) doctor.Result {
	argv := strings.Fields(cfg.Editor)
	if len(argv) == 0 {
		return doctor.Fail("editor", "not configured", "set editor, $VISUAL or $EDITOR")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return doctor.Fail("editor", argv[0]+" not found in PATH", "install it or set editor in the configuration")
	}
	return doctor.Pass("editor", path)
}

// checkTerminal only warns: the terminal is needed just for windows
// with terminal: true.
func checkTerminal(cfg *config.Config) doctor.Result {
	path, err := cfg.TerminalPath()
	if err != nil {
		return doctor.Warn("terminal", err.Error()+"; terminal windows will not start")
	}
	return doctor.Pass("terminal", path)
}

func checkTemplates(cfg *config.Config) doctor.Result {
	store := project.NewStore(cfg.Paths.Projects)
	entries, err := store.List()
	if err != nil {
		return doctor.Fail("templates", err.Error(), "")
	}
	var invalid, shadowed []string
	for _, entry := range entries {
		if entry.Shadowed != "" {
			shadowed = append(shadowed, entry.Shadowed)
		}
		proj, err := project.LoadFile(entry.Path)
		if err == nil {
			err = project.Validate(proj, entry.Name)
		}
		if err != nil {
			invalid = append(invalid, entry.Name)
		}
	}
	switch {
	case len(invalid) > 0:
		return doctor.Warn("templates", fmt.Sprintf("%d of %d invalid: %s (run 'i3minator validate <name>')",
			len(invalid), len(entries), strings.Join(invalid, ", ")))
	case len(shadowed) > 0:
		return doctor.Warn("templates", "ignored in favour of .yml: "+strings.Join(shadowed, ", "))
	default:
		return doctor.Pass("templates", fmt.Sprintf("%d valid", len(entries)))
	}
}

