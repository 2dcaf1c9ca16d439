// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/layout"
	libproject "github.com/i3minator/i3minator/lib/project"
	"github.com/i3minator/i3minator/lib/session"
	"github.com/i3minator/i3minator/lib/wm"
)

type saveParams struct {
	cli.JSONOutput
	Workspaces []string `flag:"workspace,w" desc:"workspace to capture (repeatable; default: the focused workspace)"`
	Force      bool     `flag:"force,f" desc:"overwrite an existing template and layout files"`
}

// saveOutput is the JSON result of "save".
type saveOutput struct {
	Template string            `json:"template"`
	Layouts  map[string]string `json:"layouts"`
	Windows  int               `json:"windows"`
}

// SaveCommand returns "i3minator save".
func SaveCommand(environment *cli.Environment) *cli.Command {
	var params saveParams

	return &cli.Command{
		Name:    "save",
		Summary: "Capture live workspaces as a project",
		Description: `Write the current layout of one or more workspaces to layout files and
generate a template that recreates them. Windows are matched by their
exact class and instance; their commands are guessed from the instance
name and usually need editing.`,
		Usage: "i3minator save <name> [flags]",
		Examples: []cli.Example{
			{Description: "Capture two workspaces", Command: "i3minator save webdev -w 1:code -w 2:web"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			name, err := requireName(args, "i3minator save <name> [flags]")
			if err != nil {
				return err
			}
			if err := libproject.ValidateName(name); err != nil {
				return err
			}
			s, err := openStores(environment)
			if err != nil {
				return err
			}
			if s.projects.Exists(name) && !params.Force {
				return fmt.Errorf("%w: %s (use --force to overwrite)", libproject.ErrExists, name)
			}

			conn, err := s.connect(ctx, logger)
			if err != nil {
				return err
			}
			workspaces := params.Workspaces
			if len(workspaces) == 0 {
				focused, err := focusedWorkspace(ctx, conn)
				if err != nil {
					return err
				}
				workspaces = []string{focused}
			}
			root, err := conn.Tree(ctx)
			if err != nil {
				return err
			}
			captured, err := session.Capture(root, name, workspaces)
			if err != nil {
				return err
			}

			output := saveOutput{
				Layouts: make(map[string]string),
				Windows: len(captured.Project.Windows()),
			}
			for _, fileName := range slices.Sorted(maps.Keys(captured.Layouts)) {
				containers := captured.Layouts[fileName]
				path := filepath.Join(s.config.Paths.Layouts, fileName)
				if err := writeLayout(path, name, containers, params.Force); err != nil {
					return err
				}
				output.Layouts[path] = layout.Fingerprint(containers)
			}

			data, err := libproject.Marshal(captured.Project)
			if err != nil {
				return err
			}
			data = append([]byte("# Captured by i3minator save. Check the window commands.\n"), data...)
			if params.Force {
				output.Template, err = s.projects.Replace(name, data)
			} else {
				output.Template, err = s.projects.Create(name, data)
			}
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(environment.Stdout, output); done {
				return err
			}
			fmt.Fprintf(environment.Stdout, "saved %s (%d windows)\n", output.Template, output.Windows)
			for _, path := range slices.Sorted(maps.Keys(output.Layouts)) {
				fmt.Fprintf(environment.Stdout, "  layout %s\n", path)
			}
			return nil
		},
	}
}

func focusedWorkspace(ctx context.Context, conn wm.Conn) (string, error) {
	workspaces, err := conn.Workspaces(ctx)
	if err != nil {
		return "", err
	}
	for _, workspace := range workspaces {
		if workspace.Focused {
			return workspace.Name, nil
		}
	}
	return "", fmt.Errorf("no focused workspace; name one with --workspace")
}

// writeLayout writes one layout file, refusing to overwrite without
// force.
func writeLayout(path, projectName string, containers []*layout.Container, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("layout %s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := layout.Write(file, "i3minator layout for project "+projectName, containers); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
