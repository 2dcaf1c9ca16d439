// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package wm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.i3wm.org/i3/v4"
)

// i3 tree and reply types, re-exported.
type (
	Node             = i3.Node
	NodeID           = i3.NodeID
	NodeType         = i3.NodeType
	Layout           = i3.Layout
	Rect             = i3.Rect
	WindowProperties = i3.WindowProperties
	Workspace        = i3.Workspace
	WorkspaceID      = i3.WorkspaceID
	Output           = i3.Output
	Version          = i3.Version
	WindowEvent      = i3.WindowEvent
)

// Node types as reported in the tree.
const (
	TypeRoot        = "root"
	TypeOutput      = "output"
	TypeCon         = "con"
	TypeFloatingCon = "floating_con"
	TypeWorkspace   = "workspace"
	TypeDockarea    = "dockarea"
)

const scratchpadWorkspace = "__i3_scratch"

// Conn is a connection to a running i3.
type Conn interface {
	// Tree returns the root of the layout tree.
	Tree(ctx context.Context) (*Node, error)

	// Workspaces returns the workspaces currently in existence.
	Workspaces(ctx context.Context) ([]Workspace, error)

	// Outputs returns the RandR outputs.
	Outputs(ctx context.Context) ([]Output, error)

	// Version returns the running i3 version.
	Version(ctx context.Context) (Version, error)

	// Run sends a command list. It fails if i3 reports any command as
	// unsuccessful.
	Run(ctx context.Context, command string) error

	// WindowEvents subscribes to window events. The channel is closed
	// when ctx is done or the subscription fails.
	WindowEvents(ctx context.Context) (<-chan WindowEvent, error)
}

// Config configures Connect.
type Config struct {
	// SocketPath overrides socket discovery. When empty, $I3SOCK is
	// used, then "i3 --get-socketpath".
	SocketPath string

	// Logger receives debug output for every command sent. Required.
	Logger *slog.Logger
}

// Client is a Conn backed by the i3 IPC socket.
type Client struct {
	logger *slog.Logger

	// One event receiver per Client, read by a single goroutine and
	// fanned out to subscribers. The receiver is never touched from
	// any other goroutine.
	eventsMu       sync.Mutex
	eventsRunning  bool
	subscribers    map[int]chan WindowEvent
	nextSubscriber int
}

// socketHookMu guards the process-wide socket hook of the i3 binding.
var socketHookMu sync.Mutex

// Connect locates the i3 socket and verifies that i3 answers.
func Connect(ctx context.Context, config Config) (*Client, error) {
	if config.Logger == nil {
		return nil, errors.New("wm: Logger is required")
	}

	socketPath := config.SocketPath
	if socketPath == "" {
		socketPath = os.Getenv("I3SOCK")
	}
	if socketPath != "" {
		socketHookMu.Lock()
		path := socketPath
		i3.SocketPathHook = func() (string, error) { return path, nil }
		socketHookMu.Unlock()
	}

	client := &Client{logger: config.Logger}
	version, err := client.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to i3: %w", err)
	}
	client.logger.Debug("connected to i3",
		"version", version.HumanReadable,
		"socket", socketPath,
	)
	return client, nil
}

// Tree implements Conn.
func (c *Client) Tree(ctx context.Context) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := i3.GetTree()
	if err != nil {
		return nil, fmt.Errorf("i3 get_tree: %w", err)
	}
	return tree.Root, nil
}

// Workspaces implements Conn.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	workspaces, err := i3.GetWorkspaces()
	if err != nil {
		return nil, fmt.Errorf("i3 get_workspaces: %w", err)
	}
	return workspaces, nil
}

// Outputs implements Conn.
func (c *Client) Outputs(ctx context.Context) ([]Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outputs, err := i3.GetOutputs()
	if err != nil {
		return nil, fmt.Errorf("i3 get_outputs: %w", err)
	}
	return outputs, nil
}

// Version implements Conn.
func (c *Client) Version(ctx context.Context) (Version, error) {
	if err := ctx.Err(); err != nil {
		return Version{}, err
	}
	version, err := i3.GetVersion()
	if err != nil {
		return Version{}, fmt.Errorf("i3 get_version: %w", err)
	}
	return version, nil
}

// Run implements Conn.
func (c *Client) Run(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.logger.Debug("i3 command", "command", command)
	results, err := i3.RunCommand(command)
	if err != nil {
		return fmt.Errorf("i3 command %q: %w", command, err)
	}
	var failures []string
	for _, result := range results {
		if !result.Success {
			failures = append(failures, result.Error)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("i3 command %q: %s", command, strings.Join(failures, "; "))
	}
	return nil
}

// WindowEvents implements Conn. The binding sends SUBSCRIBE lazily
// from the reader goroutine, so events for windows that open right
// after the first call may be missed; callers re-read the tree.
// Cancelling ctx removes the subscriber. The shared receiver stays open
// for later subscribers until i3 closes it.
func (c *Client) WindowEvents(ctx context.Context) (<-chan WindowEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events := make(chan WindowEvent, 16)

	c.eventsMu.Lock()
	if c.subscribers == nil {
		c.subscribers = make(map[int]chan WindowEvent)
	}
	id := c.nextSubscriber
	c.nextSubscriber++
	c.subscribers[id] = events
	if !c.eventsRunning {
		c.eventsRunning = true
		go c.readEvents(i3.Subscribe(i3.WindowEventType))
	}
	c.eventsMu.Unlock()

	go func() {
		<-ctx.Done()
		c.eventsMu.Lock()
		defer c.eventsMu.Unlock()
		if subscriber, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(subscriber)
		}
	}()
	return events, nil
}

// readEvents owns receiver. Subscribers that are not keeping up lose
// events rather than stalling the others.
func (c *Client) readEvents(receiver *i3.EventReceiver) {
	for receiver.Next() {
		event, ok := receiver.Event().(*i3.WindowEvent)
		if !ok {
			continue
		}
		c.eventsMu.Lock()
		for _, subscriber := range c.subscribers {
			select {
			case subscriber <- *event:
			default:
				c.logger.Debug("dropped window event", "change", event.Change, "con_id", event.Container.ID)
			}
		}
		c.eventsMu.Unlock()
	}
	err := receiver.Err()
	receiver.Close()
	if err != nil {
		c.logger.Warn("i3 window event subscription ended", "error", err)
	}

	c.eventsMu.Lock()
	defer c.eventsMu.Unlock()
	for id, subscriber := range c.subscribers {
		delete(c.subscribers, id)
		close(subscriber)
	}
	c.eventsRunning = false
}
