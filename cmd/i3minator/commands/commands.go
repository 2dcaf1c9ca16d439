// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete i3minator command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	doctorcmd "github.com/i3minator/i3minator/cmd/i3minator/doctor"
	projectcmd "github.com/i3minator/i3minator/cmd/i3minator/project"
	"github.com/i3minator/i3minator/lib/version"
)

// Root builds the command tree around environment. The root binds the
// global flags into environment and builds every command's logger
// from it.
func Root(environment *cli.Environment) *cli.Command {
	return &cli.Command{
		Name: "i3minator",
		Description: `i3minator: project sessions for the i3 window manager.

A project is a YAML template naming workspaces, their layouts and the
applications that belong on them. "start" brings a project up, adopting
windows that are already open; "stop" closes what it started.`,
		Examples: []cli.Example{
			{Description: "Create a project and open it in the editor", Command: "i3minator new webdev"},
			{Description: "Start it", Command: "i3minator start webdev"},
		},
		Persistent: &environment.Globals,
		Logger:     environment.NewLogger,
		HelpOutput: environment.Stderr,
		Subcommands: []*cli.Command{
			projectcmd.NewCommand(environment),
			projectcmd.EditCommand(environment),
			projectcmd.StartCommand(environment),
			projectcmd.StopCommand(environment),
			projectcmd.StatusCommand(environment),
			projectcmd.ListCommand(environment),
			projectcmd.ShowCommand(environment),
			projectcmd.CopyCommand(environment),
			projectcmd.DeleteCommand(environment),
			projectcmd.ValidateCommand(environment),
			projectcmd.SaveCommand(environment),
			projectcmd.PickCommand(environment),
			doctorcmd.Command(environment),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Fprintf(environment.Stdout, "i3minator %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
