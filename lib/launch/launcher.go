// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/i3minator/i3minator/lib/clock"
	"github.com/i3minator/i3minator/lib/wm"
)

// DefaultPoll is the tree re-read interval when Launcher.Poll is zero.
const DefaultPoll = 500 * time.Millisecond

// ErrTimeout is returned when no matching window appeared within the
// timeout of the last attempt.
var ErrTimeout = errors.New("window did not appear")

// Request describes one application to start.
type Request struct {
	// Name identifies the window in logs and errors.
	Name string

	// Command is the shell line handed to i3 exec.
	Command string

	// Workspace is focused before exec so the window opens there.
	Workspace string

	// Criteria recognise the window. With no criteria the first new
	// window is taken.
	Criteria wm.Criteria

	// Timeout bounds each attempt.
	Timeout time.Duration

	// Retries is the number of additional attempts after a timeout.
	Retries int
}

// Result identifies the window a launch produced.
type Result struct {
	ConID      wm.NodeID
	XID        int64
	Properties wm.WindowProperties
	Attempts   int
}

// Launcher starts applications through i3 and waits for their windows.
type Launcher struct {
	Conn   wm.Conn
	Clock  clock.Clock
	Logger *slog.Logger

	// Poll re-reads the tree at this interval while waiting, finding
	// windows whose event was missed. Zero means DefaultPoll.
	Poll time.Duration

	// Settle is slept after a window appears, before the next launch.
	Settle time.Duration
}

// Launch execs the request's command and waits for its window,
// retrying after timeouts. Window events are requested before exec, but
// the subscription may only become live later, so the tree is read once
// right after exec and then every Poll until the window shows up.
func (l *Launcher) Launch(ctx context.Context, request Request) (Result, error) {
	matcher, err := wm.Compile(request.Criteria)
	if err != nil {
		return Result{}, fmt.Errorf("window %q: %w", request.Name, err)
	}
	if request.Timeout <= 0 {
		return Result{}, fmt.Errorf("window %q: timeout must be positive", request.Name)
	}

	attempts := request.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := l.attempt(ctx, request, matcher)
		if err == nil {
			result.Attempts = attempt
			l.Logger.Info("window appeared",
				"window", request.Name,
				"con_id", result.ConID,
				"class", result.Properties.Class,
				"attempt", attempt,
			)
			if l.Settle > 0 {
				l.Clock.Sleep(l.Settle)
			}
			return result, nil
		}
		if !errors.Is(err, ErrTimeout) {
			return Result{Attempts: attempt}, fmt.Errorf("window %q: %w", request.Name, err)
		}
		if attempt < attempts {
			l.Logger.Warn("window did not appear, retrying",
				"window", request.Name,
				"timeout", request.Timeout,
				"attempt", attempt,
				"criteria", matcher.String(),
			)
		}
	}
	return Result{Attempts: attempts}, fmt.Errorf("window %q: %w after %d attempt(s) of %v", request.Name, ErrTimeout, attempts, request.Timeout)
}

func (l *Launcher) attempt(ctx context.Context, request Request, matcher *wm.Matcher) (Result, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := l.Conn.WindowEvents(attemptCtx)
	if err != nil {
		return Result{}, fmt.Errorf("subscribing to window events: %w", err)
	}

	// Windows that exist before exec are never taken.
	known := make(map[wm.NodeID]bool)
	tree, err := l.Conn.Tree(ctx)
	if err != nil {
		return Result{}, err
	}
	for _, window := range wm.Windows(tree) {
		known[window.ID] = true
	}

	command := wm.Exec(request.Command)
	if request.Workspace != "" {
		command = wm.FocusWorkspace(request.Workspace) + "; " + command
	}
	l.Logger.Debug("launching", "window", request.Name, "command", request.Command)
	if err := l.Conn.Run(ctx, command); err != nil {
		return Result{}, err
	}

	accept := func(window wm.Node) bool {
		if known[window.ID] || window.Window == 0 {
			return false
		}
		if matcher.Empty() {
			return true
		}
		if matcher.Matches(window.WindowProperties) {
			return true
		}
		known[window.ID] = true
		return false
	}
	found := func(window wm.Node) Result {
		return Result{ConID: window.ID, XID: window.Window, Properties: window.WindowProperties}
	}
	scan := func() (Result, bool, error) {
		tree, err := l.Conn.Tree(ctx)
		if err != nil {
			return Result{}, false, err
		}
		for _, window := range wm.Windows(tree) {
			if accept(*window) {
				return found(*window), true, nil
			}
		}
		return Result{}, false, nil
	}

	if result, ok, err := scan(); err != nil || ok {
		return result, err
	}

	interval := l.Poll
	if interval <= 0 {
		interval = DefaultPoll
	}
	deadline := l.Clock.After(request.Timeout)
	poll := l.Clock.After(interval)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Change == "new" && accept(event.Container) {
				return found(event.Container), nil
			}
		case <-poll:
			if result, ok, err := scan(); err != nil || ok {
				return result, err
			}
			poll = l.Clock.After(interval)
		case <-deadline:
			return Result{}, ErrTimeout
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}
