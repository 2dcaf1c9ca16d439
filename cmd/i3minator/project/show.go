// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
)

type showParams struct {
	Raw bool `flag:"raw" desc:"print the file without syntax highlighting"`
}

// ShowCommand returns "i3minator show".
func ShowCommand(environment *cli.Environment) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Aliases: []string{"cat"},
		Summary: "Print a project template",
		Usage:   "i3minator show <name> [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator show <name> [flags]")
			if err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			data, _, err := s.projects.Read(name)
			if err != nil {
				return s.notFound(name, err)
			}

			if params.Raw || !environment.StdoutIsTerminal() {
				_, err := environment.Stdout.Write(data)
				return err
			}
			var buffer bytes.Buffer
			if err := quick.Highlight(&buffer, string(data), "yaml", "terminal256", "monokai"); err != nil {
				logger.Debug("highlighting failed", "error", err)
				_, err := environment.Stdout.Write(data)
				return err
			}
			_, err = environment.Stdout.Write(buffer.Bytes())
			return err
		},
	}
}
