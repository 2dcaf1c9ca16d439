// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

// Package wmtest provides an in-memory i3 for tests.
//
// A Fake holds a layout tree with one or more outputs, interprets the
// commands produced by package wm (workspace focus, move, kill, ...)
// against that tree, and records every command it receives. Tests make
// applications "start" by installing an OnRun hook that reacts to exec
// commands with AddWindow, which also emits the "new" window event a
// real i3 would send.
package wmtest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/i3minator/i3minator/lib/wm"
)

// Fake is an in-memory wm.Conn. It is safe for concurrent use.
type Fake struct {
	mu          sync.Mutex
	root        *wm.Node
	nextID      wm.NodeID
	nextWindow  int64
	focused     string
	commands    []string
	subscribers map[int]chan wm.WindowEvent
	nextSub     int

	// OnRun, when set, is called after each command in a command list
	// has been applied to the tree. A non-nil error fails Run.
	OnRun func(fake *Fake, command string) error

	// FailRun makes every Run fail with this error.
	FailRun error

	// MuteEvents suppresses window events, as when a subscription
	// misses them.
	MuteEvents bool

	// VersionReply is returned by Version.
	VersionReply wm.Version
}

// NewFake returns a Fake with the given outputs (default "eDP-1").
func NewFake(outputs ...string) *Fake {
	if len(outputs) == 0 {
		outputs = []string{"eDP-1"}
	}
	fake := &Fake{
		nextID:      1,
		nextWindow:  0x1000001,
		subscribers: make(map[int]chan wm.WindowEvent),
		VersionReply: wm.Version{
			Major: 4, Minor: 23, Patch: 0,
			HumanReadable: "4.23 (fake)",
		},
	}
	fake.root = &wm.Node{ID: fake.allocateID(), Type: wm.TypeRoot, Name: "root"}
	for _, name := range outputs {
		content := &wm.Node{ID: fake.allocateID(), Type: wm.TypeCon, Name: "content"}
		output := &wm.Node{ID: fake.allocateID(), Type: wm.TypeOutput, Name: name, Nodes: []*wm.Node{content}}
		fake.root.Nodes = append(fake.root.Nodes, output)
	}
	return fake
}

func (f *Fake) allocateID() wm.NodeID {
	id := f.nextID
	f.nextID++
	return id
}

// AddWorkspace creates a workspace on output ("" for the first
// output) and returns its ID. An existing workspace is returned as is.
func (f *Fake) AddWorkspace(name, output string) wm.NodeID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ensureWorkspace(name, output).ID
}

func (f *Fake) ensureWorkspace(name, output string) *wm.Node {
	if workspace := wm.FindWorkspace(f.root, name); workspace != nil {
		return workspace
	}
	content := f.content(output)
	workspace := &wm.Node{ID: f.allocateID(), Type: wm.TypeWorkspace, Name: name, Layout: "splith"}
	content.Nodes = append(content.Nodes, workspace)
	return workspace
}

func (f *Fake) content(output string) *wm.Node {
	for _, outputNode := range f.root.Nodes {
		if output == "" || outputNode.Name == output {
			return outputNode.Nodes[0]
		}
	}
	panic(fmt.Sprintf("wmtest: no output %q", output))
}

// AddWindow places a new window on workspace (created if needed, ""
// for the focused one), emits a "new" window event and returns the
// container.
func (f *Fake) AddWindow(workspace string, properties wm.WindowProperties) wm.Node {
	f.mu.Lock()
	if workspace == "" {
		workspace = f.focused
	}
	parent := f.ensureWorkspace(workspace, "")
	window := &wm.Node{
		ID:               f.allocateID(),
		Type:             wm.TypeCon,
		Name:             properties.Title,
		Window:           f.nextWindow,
		WindowProperties: properties,
	}
	f.nextWindow++
	parent.Nodes = append(parent.Nodes, window)
	snapshot := *window
	f.mu.Unlock()

	f.Emit("new", snapshot)
	return snapshot
}

// Emit sends a window event to every subscriber. Events are dropped
// for subscribers whose buffer is full.
func (f *Fake) Emit(change string, container wm.Node) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MuteEvents {
		return
	}
	for _, subscriber := range f.subscribers {
		select {
		case subscriber <- wm.WindowEvent{Change: change, Container: container}:
		default:
		}
	}
}

// Subscribers returns the number of active window event subscriptions.
func (f *Fake) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

// Commands returns every command received so far, one entry per
// command of each command list.
func (f *Fake) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

// Focused returns the focused workspace name.
func (f *Fake) Focused() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// Tree implements wm.Conn. The returned tree is a copy.
func (f *Fake) Tree(ctx context.Context) (*wm.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneNode(f.root), nil
}

// Workspaces implements wm.Conn.
func (f *Fake) Workspaces(ctx context.Context) ([]wm.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var workspaces []wm.Workspace
	for _, output := range f.root.Nodes {
		for _, node := range output.Nodes[0].Nodes {
			workspaces = append(workspaces, wm.Workspace{
				ID:      wm.WorkspaceID(node.ID),
				Name:    node.Name,
				Output:  output.Name,
				Focused: node.Name == f.focused,
				Visible: node.Name == f.focused,
			})
		}
	}
	return workspaces, nil
}

// Outputs implements wm.Conn.
func (f *Fake) Outputs(ctx context.Context) ([]wm.Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var outputs []wm.Output
	for i, output := range f.root.Nodes {
		outputs = append(outputs, wm.Output{Name: output.Name, Active: true, Primary: i == 0})
	}
	return outputs, nil
}

// Version implements wm.Conn.
func (f *Fake) Version(ctx context.Context) (wm.Version, error) {
	if err := ctx.Err(); err != nil {
		return wm.Version{}, err
	}
	return f.VersionReply, nil
}

// WindowEvents implements wm.Conn.
func (f *Fake) WindowEvents(ctx context.Context) (<-chan wm.WindowEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events := make(chan wm.WindowEvent, 64)
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subscribers[id] = events
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subscribers, id)
		close(events)
		f.mu.Unlock()
	}()
	return events, nil
}

// Run implements wm.Conn. Each command of the list is recorded,
// applied to the tree and passed to OnRun, in order.
func (f *Fake) Run(ctx context.Context, commandList string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.FailRun != nil {
		return f.FailRun
	}
	for _, command := range SplitCommands(commandList) {
		f.mu.Lock()
		f.commands = append(f.commands, command)
		closed, err := f.apply(command)
		f.mu.Unlock()
		if err != nil {
			return fmt.Errorf("fake i3 %q: %w", command, err)
		}
		if closed != nil {
			f.Emit("close", *closed)
		}
		if f.OnRun != nil {
			if err := f.OnRun(f, command); err != nil {
				return err
			}
		}
	}
	return nil
}

var (
	conCommand       = regexp.MustCompile(`^\[con_id=(\d+)\] (.*)$`)
	workspaceCommand = regexp.MustCompile(`^workspace (?:--no-auto-back-and-forth )?"((?:[^"\\]|\\.)*)"$`)
	moveToWorkspace  = regexp.MustCompile(`^move container to workspace (?:--no-auto-back-and-forth )?"((?:[^"\\]|\\.)*)"$`)
	moveToOutput     = regexp.MustCompile(`^move workspace to output "((?:[^"\\]|\\.)*)"$`)
)

// apply interprets command against the tree. It returns the container
// removed by a kill.
func (f *Fake) apply(command string) (*wm.Node, error) {
	if match := conCommand.FindStringSubmatch(command); match != nil {
		id, _ := strconv.ParseInt(match[1], 10, 64)
		return f.applyToContainer(wm.NodeID(id), match[2])
	}
	if match := workspaceCommand.FindStringSubmatch(command); match != nil {
		name := unquote(match[1])
		f.ensureWorkspace(name, "")
		f.focused = name
		return nil, nil
	}
	if match := moveToOutput.FindStringSubmatch(command); match != nil {
		output := unquote(match[1])
		workspace := wm.FindWorkspace(f.root, f.focused)
		if workspace == nil {
			return nil, fmt.Errorf("no focused workspace")
		}
		f.detach(workspace.ID)
		content := f.content(output)
		content.Nodes = append(content.Nodes, workspace)
		return nil, nil
	}
	if strings.HasPrefix(command, "layout ") {
		if workspace := wm.FindWorkspace(f.root, f.focused); workspace != nil {
			workspace.Layout = wm.Layout(strings.TrimPrefix(command, "layout "))
		}
		return nil, nil
	}
	// exec, append_layout and anything else are only recorded.
	return nil, nil
}

func (f *Fake) applyToContainer(id wm.NodeID, operation string) (*wm.Node, error) {
	container := wm.FindContainer(f.root, id)
	if container == nil {
		return nil, fmt.Errorf("no container with id %d", id)
	}
	switch {
	case operation == "kill":
		f.detach(id)
		return container, nil
	case moveToWorkspace.MatchString(operation):
		name := unquote(moveToWorkspace.FindStringSubmatch(operation)[1])
		f.detach(id)
		workspace := f.ensureWorkspace(name, "")
		workspace.Nodes = append(workspace.Nodes, container)
	case operation == "floating enable":
		workspace := wm.WorkspaceOf(f.root, id)
		f.detach(id)
		wrapper := &wm.Node{ID: f.allocateID(), Type: wm.TypeFloatingCon, Nodes: []*wm.Node{container}}
		workspace.FloatingNodes = append(workspace.FloatingNodes, wrapper)
	case operation == "focus":
	default:
		return nil, fmt.Errorf("unsupported container operation %q", operation)
	}
	return nil, nil
}

// detach removes the container id from its parent.
func (f *Fake) detach(id wm.NodeID) {
	wm.Walk(f.root, func(node *wm.Node) bool {
		for _, list := range []*[]*wm.Node{&node.Nodes, &node.FloatingNodes} {
			for i, child := range *list {
				if child.ID == id {
					*list = append((*list)[:i], (*list)[i+1:]...)
					return false
				}
			}
		}
		return true
	})
}

// SplitCommands splits an i3 command list on ';' outside quotes and
// trims each command.
func SplitCommands(commandList string) []string {
	var commands []string
	var current strings.Builder
	quoted, escaped := false, false
	for _, r := range commandList {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quoted:
			escaped = true
		case r == '"':
			quoted = !quoted
		case r == ';' && !quoted:
			if command := strings.TrimSpace(current.String()); command != "" {
				commands = append(commands, command)
			}
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	if command := strings.TrimSpace(current.String()); command != "" {
		commands = append(commands, command)
	}
	return commands
}

func unquote(s string) string {
	return strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(s)
}

func cloneNode(node *wm.Node) *wm.Node {
	if node == nil {
		return nil
	}
	clone := *node
	clone.Nodes = make([]*wm.Node, len(node.Nodes))
	for i, child := range node.Nodes {
		clone.Nodes[i] = cloneNode(child)
	}
	clone.FloatingNodes = make([]*wm.Node, len(node.FloatingNodes))
	for i, child := range node.FloatingNodes {
		clone.FloatingNodes[i] = cloneNode(child)
	}
	return &clone
}

// ExecCommand returns the shell command of an exec command, or "" if
// command is not an exec.
func ExecCommand(command string) string {
	const prefix = `exec --no-startup-id "`
	if !strings.HasPrefix(command, prefix) || !strings.HasSuffix(command, `"`) {
		return ""
	}
	return unquote(command[len(prefix) : len(command)-1])
}
