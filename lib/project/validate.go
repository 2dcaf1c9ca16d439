// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/i3minator/i3minator/lib/launch"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// validSplits are the i3 container layouts a workspace may request.
var validSplits = map[string]bool{
	"splith":  true,
	"splitv":  true,
	"tabbed":  true,
	"stacked": true,
}

// ValidateName checks that name can be used as a project (file) name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid project name %q: use letters, digits, '.', '_' and '-', starting with a letter or digit", name)
	}
	return nil
}

// Validate checks a project for structural problems and returns all of
// them joined. fileName is the name derived from the template's path;
// pass "" when validating a project with no backing file.
func Validate(project *Project, fileName string) error {
	var errs []error

	if err := ValidateName(project.Name); err != nil {
		errs = append(errs, err)
	}
	if fileName != "" && project.Name != fileName {
		errs = append(errs, fmt.Errorf("name %q does not match file name %q", project.Name, fileName))
	}

	if len(project.Workspaces) == 0 {
		errs = append(errs, fmt.Errorf("at least one workspace is required"))
	}

	workspaceNames := make(map[string]bool)
	windowNames := make(map[string]bool)
	graph := launch.NewGraph()

	for i, workspace := range project.Workspaces {
		label := fmt.Sprintf("workspaces[%d]", i)
		if workspace.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", label))
		} else {
			label = fmt.Sprintf("workspace %q", workspace.Name)
			if workspaceNames[workspace.Name] {
				errs = append(errs, fmt.Errorf("%s: declared more than once", label))
			}
			workspaceNames[workspace.Name] = true
		}

		if workspace.Split != "" && !validSplits[workspace.Split] {
			errs = append(errs, fmt.Errorf("%s: split %q must be one of splith, splitv, tabbed, stacked", label, workspace.Split))
		}
		if workspace.Split != "" && workspace.Layout != "" {
			errs = append(errs, fmt.Errorf("%s: split and layout are mutually exclusive", label))
		}

		for j, window := range workspace.Windows {
			windowLabel := fmt.Sprintf("%s windows[%d]", label, j)
			if window.Name == "" {
				errs = append(errs, fmt.Errorf("%s: name is required", windowLabel))
			} else {
				windowLabel = fmt.Sprintf("window %q", window.Name)
				if windowNames[window.Name] {
					errs = append(errs, fmt.Errorf("%s: declared more than once", windowLabel))
				}
				windowNames[window.Name] = true
				graph.AddNode(window.Name)
			}
			if window.Command == "" {
				errs = append(errs, fmt.Errorf("%s: command is required", windowLabel))
			}
			errs = append(errs, validateCriteria(windowLabel, window.Match)...)
			if window.Timeout != "" {
				if timeout, err := time.ParseDuration(window.Timeout); err != nil {
					errs = append(errs, fmt.Errorf("%s: timeout: %w", windowLabel, err))
				} else if timeout <= 0 {
					errs = append(errs, fmt.Errorf("%s: timeout must be positive", windowLabel))
				}
			}
			if window.Retries != nil && *window.Retries < 0 {
				errs = append(errs, fmt.Errorf("%s: retries must not be negative", windowLabel))
			}
		}
	}

	// Dependencies are checked once every window name is known so that
	// "after" may refer forward.
	for _, ref := range project.Windows() {
		if ref.Window.Name == "" {
			continue
		}
		for _, dependency := range ref.Window.After {
			if !windowNames[dependency] {
				errs = append(errs, fmt.Errorf("window %q: after refers to unknown window %q", ref.Window.Name, dependency))
				continue
			}
			if err := graph.AddEdge(dependency, ref.Window.Name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if _, err := graph.Order(); err != nil {
		errs = append(errs, err)
	}

	if project.Focus != "" && !workspaceNames[project.Focus] {
		errs = append(errs, fmt.Errorf("focus %q is not a declared workspace", project.Focus))
	}

	return errors.Join(errs...)
}

func validateCriteria(label string, criteria Criteria) []error {
	var errs []error
	fields := []struct {
		name    string
		pattern string
	}{
		{"class", criteria.Class},
		{"instance", criteria.Instance},
		{"title", criteria.Title},
		{"role", criteria.Role},
	}
	for _, field := range fields {
		if field.pattern == "" {
			continue
		}
		if _, err := regexp.Compile(field.pattern); err != nil {
			errs = append(errs, fmt.Errorf("%s: match.%s: %w", label, field.name, err))
		}
	}
	return errs
}
