// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Project is a named, reusable i3 session template.
type Project struct {
	// Name identifies the project. Defaults to the template's file name
	// and must match it when set.
	Name string `yaml:"name,omitempty" json:"name"`

	// Description is shown by "list".
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Root is the working directory for every window command. Relative
	// window directories are resolved against it.
	Root string `yaml:"root,omitempty" json:"root,omitempty"`

	// Environment is exported to hooks and window commands. Values may
	// reference ${VAR} from the process environment.
	Environment map[string]string `yaml:"environment,omitempty" json:"environment,omitempty"`

	// OnStart commands run (through i3 exec, in Root) before any
	// workspace is touched.
	OnStart []string `yaml:"on_start,omitempty" json:"on_start,omitempty"`

	// OnStop commands run after "stop" has closed the project's windows.
	OnStop []string `yaml:"on_stop,omitempty" json:"on_stop,omitempty"`

	// Focus names the workspace focused once the project is up.
	// Defaults to the first workspace.
	Focus string `yaml:"focus,omitempty" json:"focus,omitempty"`

	// Workspaces are reconciled in declaration order.
	Workspaces []Workspace `yaml:"workspaces" json:"workspaces"`

	// Path is the file the project was loaded from.
	Path string `yaml:"-" json:"path,omitempty"`
}

// Workspace describes one i3 workspace of a project.
type Workspace struct {
	// Name is the i3 workspace name, e.g. "3:mail" or "web".
	Name string `yaml:"name" json:"name"`

	// Output moves the workspace to this RandR output (e.g. "DP-1").
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	// Layout is an i3 layout file appended to the workspace before its
	// windows launch. Relative paths resolve against the layouts
	// directory.
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty"`

	// Split sets the workspace container layout when no layout file is
	// used: splith, splitv, tabbed or stacked.
	Split string `yaml:"split,omitempty" json:"split,omitempty"`

	// Windows belong on this workspace.
	Windows []Window `yaml:"windows,omitempty" json:"windows,omitempty"`
}

// Window describes one application window of a project.
type Window struct {
	// Name identifies the window within the project; "after" lists
	// refer to it. Unique across all workspaces.
	Name string `yaml:"name" json:"name"`

	// Command is the shell command that launches the window.
	Command string `yaml:"command" json:"command"`

	// Dir is the working directory; relative to the project root.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Terminal runs Command inside the configured terminal emulator.
	Terminal bool `yaml:"terminal,omitempty" json:"terminal,omitempty"`

	// Match recognises the window once it exists.
	Match Criteria `yaml:"match,omitempty" json:"match,omitempty"`

	// After names windows that must be up before this one launches.
	After []string `yaml:"after,omitempty" json:"after,omitempty"`

	// Timeout overrides launch.timeout for this window ("30s").
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Retries overrides launch.retries for this window.
	Retries *int `yaml:"retries,omitempty" json:"retries,omitempty"`

	// Floating makes the window floating once it appears.
	Floating bool `yaml:"floating,omitempty" json:"floating,omitempty"`
}

// Criteria are regular expressions matched against i3 window
// properties. All non-empty fields must match.
type Criteria struct {
	Class    string `yaml:"class,omitempty" json:"class,omitempty"`
	Instance string `yaml:"instance,omitempty" json:"instance,omitempty"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Role     string `yaml:"role,omitempty" json:"role,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// LaunchTimeout returns the window's timeout, or fallback when unset.
// The value has been checked by Validate.
func (w Window) LaunchTimeout(fallback time.Duration) time.Duration {
	if w.Timeout == "" {
		return fallback
	}
	timeout, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return fallback
	}
	return timeout
}

// LaunchRetries returns the window's retry count, or fallback when
// unset.
func (w Window) LaunchRetries(fallback int) int {
	if w.Retries == nil {
		return fallback
	}
	return *w.Retries
}

// WindowRef locates a window within its project.
type WindowRef struct {
	Workspace string
	Window    Window
}

// Windows returns every window in declaration order.
func (p *Project) Windows() []WindowRef {
	var refs []WindowRef
	for _, workspace := range p.Workspaces {
		for _, window := range workspace.Windows {
			refs = append(refs, WindowRef{Workspace: workspace.Name, Window: window})
		}
	}
	return refs
}

// FocusWorkspace returns the workspace to focus after starting.
func (p *Project) FocusWorkspace() string {
	if p.Focus != "" {
		return p.Focus
	}
	if len(p.Workspaces) > 0 {
		return p.Workspaces[0].Name
	}
	return ""
}

// Parse decodes a template. name is the file-derived project name and
// fills Name when the template omits it. Unknown keys are rejected so
// typos ("comand:") fail loudly instead of silently launching nothing.
func Parse(data []byte, name string) (*Project, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var project Project
	if err := decoder.Decode(&project); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("template is empty")
		}
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	if project.Name == "" {
		project.Name = name
	}
	return &project, nil
}

// Marshal encodes a project as YAML.
func Marshal(project *Project) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(project); err != nil {
		return nil, fmt.Errorf("encoding project %q: %w", project.Name, err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Fingerprint returns the hex BLAKE3 digest of template bytes. Session
// records store it so "status" can tell that a running project's
// template has been edited since it was started.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:16])
}
