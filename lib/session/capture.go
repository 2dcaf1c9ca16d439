// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/i3minator/i3minator/lib/layout"
	"github.com/i3minator/i3minator/lib/project"
	"github.com/i3minator/i3minator/lib/wm"
)

// Captured is a snapshot of live workspaces.
type Captured struct {
	// Project references the layouts by file name.
	Project *project.Project

	// Layouts maps layout file names to their containers.
	Layouts map[string][]*layout.Container
}

// Capture snapshots the named workspaces as project name. Each
// workspace gets a layout file "<name>-<n>.json" and one window per
// live window, matched by exact class and instance. Commands are
// guessed from the instance (or class) and usually need editing.
func Capture(root *wm.Node, name string, workspaces []string) (*Captured, error) {
	if len(workspaces) == 0 {
		return nil, fmt.Errorf("no workspaces to capture")
	}
	captured := &Captured{
		Project: &project.Project{Name: name},
		Layouts: make(map[string][]*layout.Container),
	}
	used := make(map[string]int)

	for i, workspaceName := range workspaces {
		live := wm.FindWorkspace(root, workspaceName)
		if live == nil {
			return nil, fmt.Errorf("workspace %q does not exist", workspaceName)
		}
		containers := layout.Capture(live)
		workspace := project.Workspace{
			Name:   workspaceName,
			Output: wm.OutputOf(root, live.ID),
		}
		if len(containers) > 0 {
			fileName := fmt.Sprintf("%s-%d.json", name, i+1)
			captured.Layouts[fileName] = containers
			workspace.Layout = fileName
		}

		floating := make(map[wm.NodeID]bool)
		for _, container := range live.FloatingNodes {
			for _, node := range wm.Windows(container) {
				floating[node.ID] = true
			}
		}

		for _, node := range wm.Windows(live) {
			command := guessCommand(node.WindowProperties)
			windowName := command
			used[windowName]++
			if used[windowName] > 1 {
				windowName = fmt.Sprintf("%s-%d", windowName, used[windowName])
			}
			workspace.Windows = append(workspace.Windows, project.Window{
				Name:     windowName,
				Command:  command,
				Match:    exactCriteria(node.WindowProperties),
				Floating: floating[node.ID],
			})
		}
		captured.Project.Workspaces = append(captured.Project.Workspaces, workspace)
	}
	return captured, nil
}

var unsafeName = regexp.MustCompile(`[^a-z0-9._-]+`)

func guessCommand(properties wm.WindowProperties) string {
	source := properties.Instance
	if source == "" {
		source = properties.Class
	}
	command := unsafeName.ReplaceAllString(strings.ToLower(source), "-")
	command = strings.Trim(command, "-._")
	if command == "" {
		return "window"
	}
	return command
}

func exactCriteria(properties wm.WindowProperties) project.Criteria {
	var criteria project.Criteria
	if properties.Class != "" {
		criteria.Class = "^" + regexp.QuoteMeta(properties.Class) + "$"
	}
	if properties.Instance != "" {
		criteria.Instance = "^" + regexp.QuoteMeta(properties.Instance) + "$"
	}
	if criteria.IsZero() && properties.Title != "" {
		criteria.Title = "^" + regexp.QuoteMeta(properties.Title) + "$"
	}
	return criteria
}
