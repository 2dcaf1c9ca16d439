// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/i3minator/i3minator/lib/launch"
	"github.com/i3minator/i3minator/lib/layout"
	"github.com/i3minator/i3minator/lib/project"
	"github.com/i3minator/i3minator/lib/wm"
)

// Action is what a step does.
type Action string

const (
	ActionRunHook         Action = "run-hook"
	ActionCreateWorkspace Action = "create-workspace"
	ActionFocusWorkspace  Action = "focus-workspace"
	ActionMoveToOutput    Action = "move-to-output"
	ActionAppendLayout    Action = "append-layout"
	ActionSetSplit        Action = "set-split"
	ActionKeep            Action = "keep"
	ActionAdopt           Action = "adopt"
	ActionLaunch          Action = "launch"
	ActionFocus           Action = "focus"
)

// Step is one reconciliation action. Only the fields relevant to the
// action are set.
type Step struct {
	Action    Action `json:"action"`
	Workspace string `json:"workspace,omitempty"`
	Window    string `json:"window,omitempty"`

	// Output is the target output of ActionMoveToOutput.
	Output string `json:"output,omitempty"`

	// Layout is the layout file of ActionAppendLayout.
	Layout string `json:"layout,omitempty"`

	// Split is the container layout of ActionSetSplit.
	Split string `json:"split,omitempty"`

	// Command is the shell line of ActionLaunch and ActionRunHook.
	Command string `json:"command,omitempty"`

	// ConID and From identify the live window of ActionKeep and
	// ActionAdopt; From is the workspace an adopted window leaves.
	ConID wm.NodeID `json:"con_id,omitempty"`
	XID   int64     `json:"xid,omitempty"`
	From  string    `json:"from,omitempty"`

	// Launch parameters.
	Criteria wm.Criteria   `json:"criteria,omitzero"`
	After    []string      `json:"after,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
	Retries  int           `json:"retries,omitempty"`
	Floating bool          `json:"floating,omitempty"`
}

// String renders the step for humans.
func (s Step) String() string {
	switch s.Action {
	case ActionRunHook:
		return fmt.Sprintf("run hook: %s", s.Command)
	case ActionCreateWorkspace:
		return fmt.Sprintf("create workspace %s", s.Workspace)
	case ActionFocusWorkspace:
		return fmt.Sprintf("switch to workspace %s", s.Workspace)
	case ActionMoveToOutput:
		return fmt.Sprintf("move workspace %s to output %s", s.Workspace, s.Output)
	case ActionAppendLayout:
		return fmt.Sprintf("append layout %s to workspace %s", s.Layout, s.Workspace)
	case ActionSetSplit:
		return fmt.Sprintf("set workspace %s layout to %s", s.Workspace, s.Split)
	case ActionKeep:
		return fmt.Sprintf("keep %s (container %d) on %s", s.Window, s.ConID, s.Workspace)
	case ActionAdopt:
		return fmt.Sprintf("adopt %s (container %d) from %s to %s", s.Window, s.ConID, s.From, s.Workspace)
	case ActionLaunch:
		line := fmt.Sprintf("launch %s on %s: %s", s.Window, s.Workspace, s.Command)
		if len(s.After) > 0 {
			line += " (after " + strings.Join(s.After, ", ") + ")"
		}
		return line
	case ActionFocus:
		return fmt.Sprintf("focus workspace %s", s.Workspace)
	}
	return string(s.Action)
}

// Plan is the ordered reconciliation of one project.
type Plan struct {
	Project     string   `json:"project"`
	Template    string   `json:"template,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Workspaces  []string `json:"workspaces"`
	Steps       []Step   `json:"steps"`
	OnStop      []string `json:"on_stop,omitempty"`
}

// Launches counts the launch steps.
func (p *Plan) Launches() int {
	count := 0
	for _, step := range p.Steps {
		if step.Action == ActionLaunch {
			count++
		}
	}
	return count
}

// Options tune planning.
type Options struct {
	// Terminal wraps windows with terminal: true.
	Terminal string

	// Timeout and Retries apply to windows that do not set their own.
	Timeout time.Duration
	Retries int

	// Adopt moves matching windows from other workspaces instead of
	// launching new ones.
	Adopt bool

	// LoadLayout reads a layout file. Defaults to layout.ReadFile.
	LoadLayout func(path string) ([]*layout.Container, error)
}

// claim tracks live windows already assigned to a template window.
type claim struct {
	window    project.Window
	workspace string
	node      *wm.Node
	from      string
}

// NewPlan compares an expanded, validated project with the live tree.
// fingerprint is recorded for "status".
func NewPlan(proj *project.Project, root *wm.Node, fingerprint string, options Options) (*Plan, error) {
	if options.LoadLayout == nil {
		options.LoadLayout = layout.ReadFile
	}
	plan := &Plan{
		Project:     proj.Name,
		Template:    proj.Path,
		Fingerprint: fingerprint,
	}
	for _, hook := range proj.OnStop {
		plan.OnStop = append(plan.OnStop, launch.ShellCommand(proj.Root, proj.Environment, hook))
	}
	for _, hook := range proj.OnStart {
		plan.Steps = append(plan.Steps, Step{
			Action:  ActionRunHook,
			Command: launch.ShellCommand(proj.Root, proj.Environment, hook),
		})
	}

	matchers := make(map[string]*wm.Matcher)
	for _, ref := range proj.Windows() {
		matcher, err := wm.Compile(wm.Criteria(ref.Window.Match))
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", ref.Window.Name, err)
		}
		matchers[ref.Window.Name] = matcher
	}
	claims := claimWindows(proj, root, matchers, options.Adopt)
	claimedByWindow := make(map[string]claim, len(claims))
	for _, c := range claims {
		claimedByWindow[c.window.Name] = c
	}

	for _, workspace := range proj.Workspaces {
		plan.Workspaces = append(plan.Workspaces, workspace.Name)
		live := wm.FindWorkspace(root, workspace.Name)
		if live == nil {
			plan.Steps = append(plan.Steps, Step{Action: ActionCreateWorkspace, Workspace: workspace.Name})
		} else {
			plan.Steps = append(plan.Steps, Step{Action: ActionFocusWorkspace, Workspace: workspace.Name})
		}

		if workspace.Output != "" && (live == nil || wm.OutputOf(root, live.ID) != workspace.Output) {
			plan.Steps = append(plan.Steps, Step{Action: ActionMoveToOutput, Workspace: workspace.Name, Output: workspace.Output})
		}

		if workspace.Layout != "" {
			containers, err := options.LoadLayout(workspace.Layout)
			if err != nil {
				return nil, fmt.Errorf("workspace %q: %w", workspace.Name, err)
			}
			satisfied := false
			if live != nil {
				satisfied, err = layout.Satisfied(containers, wm.Windows(live))
				if err != nil {
					return nil, fmt.Errorf("workspace %q: %w", workspace.Name, err)
				}
			}
			if !satisfied {
				plan.Steps = append(plan.Steps, Step{Action: ActionAppendLayout, Workspace: workspace.Name, Layout: workspace.Layout})
			}
		} else if workspace.Split != "" && (live == nil || string(live.Layout) != workspace.Split) {
			plan.Steps = append(plan.Steps, Step{Action: ActionSetSplit, Workspace: workspace.Name, Split: workspace.Split})
		}

		for _, window := range workspace.Windows {
			c, ok := claimedByWindow[window.Name]
			if !ok {
				continue
			}
			step := Step{
				Workspace: workspace.Name,
				Window:    window.Name,
				ConID:     c.node.ID,
				XID:       c.node.Window,
				Floating:  window.Floating,
			}
			if c.from == workspace.Name {
				step.Action = ActionKeep
			} else {
				step.Action = ActionAdopt
				step.From = c.from
			}
			plan.Steps = append(plan.Steps, step)
		}
	}

	launches, err := launchSteps(proj, claimedByWindow, options)
	if err != nil {
		return nil, err
	}
	plan.Steps = append(plan.Steps, launches...)

	if focus := proj.FocusWorkspace(); focus != "" {
		plan.Steps = append(plan.Steps, Step{Action: ActionFocus, Workspace: focus})
	}
	return plan, nil
}

// claimWindows assigns live windows to template windows. Windows
// already on their workspace are claimed first so a later adoption
// cannot steal them; each live window is claimed at most once.
func claimWindows(proj *project.Project, root *wm.Node, matchers map[string]*wm.Matcher, adopt bool) []claim {
	taken := make(map[wm.NodeID]bool)
	claimed := make(map[string]bool)
	var claims []claim

	for _, ref := range proj.Windows() {
		live := wm.FindWorkspace(root, ref.Workspace)
		if live == nil {
			continue
		}
		for _, node := range wm.Windows(live) {
			if taken[node.ID] || !matchers[ref.Window.Name].Matches(node.WindowProperties) {
				continue
			}
			taken[node.ID] = true
			claimed[ref.Window.Name] = true
			claims = append(claims, claim{window: ref.Window, workspace: ref.Workspace, node: node, from: ref.Workspace})
			break
		}
	}
	if !adopt {
		return claims
	}

	windows := wm.Windows(root)
	for _, ref := range proj.Windows() {
		if claimed[ref.Window.Name] {
			continue
		}
		for _, node := range windows {
			if taken[node.ID] || !matchers[ref.Window.Name].Matches(node.WindowProperties) {
				continue
			}
			from := ""
			if workspace := wm.WorkspaceOf(root, node.ID); workspace != nil {
				from = workspace.Name
			}
			if from == "__i3_scratch" {
				continue
			}
			taken[node.ID] = true
			claimed[ref.Window.Name] = true
			claims = append(claims, claim{window: ref.Window, workspace: ref.Workspace, node: node, from: from})
			break
		}
	}
	return claims
}

// launchSteps orders the unclaimed windows by their dependencies.
func launchSteps(proj *project.Project, claimed map[string]claim, options Options) ([]Step, error) {
	graph := launch.NewGraph()
	refs := make(map[string]project.WindowRef)
	for _, ref := range proj.Windows() {
		graph.AddNode(ref.Window.Name)
		refs[ref.Window.Name] = ref
	}
	for _, ref := range proj.Windows() {
		for _, dependency := range ref.Window.After {
			if err := graph.AddEdge(dependency, ref.Window.Name); err != nil {
				return nil, err
			}
		}
	}
	order, err := graph.Order()
	if err != nil {
		return nil, err
	}

	var steps []Step
	for _, name := range order {
		if _, ok := claimed[name]; ok {
			continue
		}
		ref := refs[name]
		window := ref.Window
		command := window.Command
		if window.Terminal {
			command = launch.TerminalCommand(options.Terminal, command)
		}
		steps = append(steps, Step{
			Action:    ActionLaunch,
			Workspace: ref.Workspace,
			Window:    window.Name,
			Command:   launch.ShellCommand(window.Dir, proj.Environment, command),
			Criteria:  wm.Criteria(window.Match),
			After:     window.After,
			Timeout:   window.LaunchTimeout(options.Timeout),
			Retries:   window.LaunchRetries(options.Retries),
			Floating:  window.Floating,
		})
	}
	return steps, nil
}
