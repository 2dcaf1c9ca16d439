// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/i3minator/i3minator/lib/config"
)

// Expand returns a copy of project with variables and relative paths
// resolved:
//
//   - Environment values, Root, window Dir and workspace Layout expand
//     ${VAR}, ${VAR:-default} and "~/". Variables resolve against the
//     project's own environment, then PROJECT and ROOT, then the process
//     environment.
//   - A relative window Dir is joined to Root.
//   - A relative Layout is joined to layoutsDir.
//
// The input project is not modified.
func Expand(project *Project, layoutsDir string) *Project {
	expanded := *project
	vars := map[string]string{"PROJECT": project.Name}

	expanded.Environment = make(map[string]string, len(project.Environment))
	// Sorted so values referencing other entries expand the same way
	// every run.
	for _, key := range slices.Sorted(maps.Keys(project.Environment)) {
		value := config.ExpandVars(project.Environment[key], vars)
		expanded.Environment[key] = value
		vars[key] = value
	}

	expanded.Root = config.ExpandPath(project.Root, vars)
	vars["ROOT"] = expanded.Root

	expanded.Workspaces = make([]Workspace, len(project.Workspaces))
	for i, workspace := range project.Workspaces {
		workspace.Layout = config.ExpandPath(workspace.Layout, vars)
		if workspace.Layout != "" && !filepath.IsAbs(workspace.Layout) && layoutsDir != "" {
			workspace.Layout = filepath.Join(layoutsDir, workspace.Layout)
		}

		windows := make([]Window, len(workspace.Windows))
		for j, window := range workspace.Windows {
			window.Dir = config.ExpandPath(window.Dir, vars)
			switch {
			case window.Dir == "":
				window.Dir = expanded.Root
			case !filepath.IsAbs(window.Dir) && expanded.Root != "":
				window.Dir = filepath.Join(expanded.Root, window.Dir)
			}
			window.After = slices.Clone(window.After)
			windows[j] = window
		}
		workspace.Windows = windows
		expanded.Workspaces[i] = workspace
	}

	expanded.OnStart = slices.Clone(project.OnStart)
	expanded.OnStop = slices.Clone(project.OnStop)
	return &expanded
}
