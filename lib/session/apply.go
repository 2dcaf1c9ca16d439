// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/i3minator/i3minator/lib/clock"
	"github.com/i3minator/i3minator/lib/launch"
	"github.com/i3minator/i3minator/lib/state"
	"github.com/i3minator/i3minator/lib/wm"
)

// ErrSkipped marks windows not launched because a dependency failed.
var ErrSkipped = errors.New("dependency did not start")

// Applier executes plans against i3.
type Applier struct {
	Conn     wm.Conn
	Launcher *launch.Launcher
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Apply executes plan. Workspace, layout and focus failures abort.
// Launch failures do not: the remaining windows still start unless
// they depend on a failed one, and every failure is joined into the
// returned error. The record describes whatever did come up and is
// returned even alongside an error.
func (a *Applier) Apply(ctx context.Context, plan *Plan) (*state.Record, error) {
	record := &state.Record{
		Project:     plan.Project,
		Template:    plan.Template,
		Fingerprint: plan.Fingerprint,
		Workspaces:  plan.Workspaces,
		OnStop:      plan.OnStop,
	}
	failed := make(map[string]bool)
	var launchErrors []error

	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return a.finish(record), err
		}
		a.Logger.Debug("applying step", "step", step.String())

		switch step.Action {
		case ActionRunHook:
			if err := a.Conn.Run(ctx, wm.Exec(step.Command)); err != nil {
				return a.finish(record), fmt.Errorf("on_start hook: %w", err)
			}

		case ActionCreateWorkspace, ActionFocusWorkspace, ActionFocus:
			if err := a.Conn.Run(ctx, wm.FocusWorkspace(step.Workspace)); err != nil {
				return a.finish(record), err
			}

		case ActionMoveToOutput:
			if err := a.Conn.Run(ctx, wm.MoveWorkspaceToOutput(step.Workspace, step.Output)); err != nil {
				return a.finish(record), err
			}

		case ActionAppendLayout:
			if err := a.Conn.Run(ctx, wm.AppendLayout(step.Workspace, step.Layout)); err != nil {
				return a.finish(record), err
			}

		case ActionSetSplit:
			if err := a.Conn.Run(ctx, wm.SetLayout(step.Workspace, step.Split)); err != nil {
				return a.finish(record), err
			}

		case ActionKeep, ActionAdopt:
			if step.Action == ActionAdopt {
				if err := a.Conn.Run(ctx, wm.MoveToWorkspace(step.ConID, step.Workspace)); err != nil {
					return a.finish(record), fmt.Errorf("adopting %s: %w", step.Window, err)
				}
				a.Logger.Info("adopted window", "window", step.Window, "from", step.From, "workspace", step.Workspace)
			}
			a.makeFloating(ctx, step, step.ConID)
			record.Windows = append(record.Windows, state.WindowRecord{
				Name:      step.Window,
				Workspace: step.Workspace,
				ConID:     step.ConID,
				XID:       step.XID,
				Adopted:   true,
			})

		case ActionLaunch:
			if blocker := firstFailed(step.After, failed); blocker != "" {
				failed[step.Window] = true
				launchErrors = append(launchErrors, fmt.Errorf("window %q: %w (%s)", step.Window, ErrSkipped, blocker))
				a.Logger.Warn("skipping window", "window", step.Window, "failed_dependency", blocker)
				continue
			}
			result, err := a.Launcher.Launch(ctx, launch.Request{
				Name:      step.Window,
				Command:   step.Command,
				Workspace: step.Workspace,
				Criteria:  step.Criteria,
				Timeout:   step.Timeout,
				Retries:   step.Retries,
			})
			if err != nil {
				if ctx.Err() != nil {
					return a.finish(record), err
				}
				failed[step.Window] = true
				launchErrors = append(launchErrors, err)
				a.Logger.Error("window failed to start", "window", step.Window, "error", err)
				continue
			}
			a.makeFloating(ctx, step, result.ConID)
			record.Windows = append(record.Windows, state.WindowRecord{
				Name:      step.Window,
				Workspace: step.Workspace,
				ConID:     result.ConID,
				XID:       result.XID,
			})

		default:
			return a.finish(record), fmt.Errorf("unknown step action %q", step.Action)
		}
	}

	for name := range failed {
		record.Failed = append(record.Failed, name)
	}
	slices.Sort(record.Failed)
	return a.finish(record), errors.Join(launchErrors...)
}

func (a *Applier) finish(record *state.Record) *state.Record {
	record.StartedAt = a.Clock.Now()
	return record
}

// makeFloating applies the floating flag. Failure is logged only: the
// window is up, just tiled.
func (a *Applier) makeFloating(ctx context.Context, step Step, id wm.NodeID) {
	if !step.Floating {
		return
	}
	if err := a.Conn.Run(ctx, wm.Floating(id)); err != nil {
		a.Logger.Warn("could not float window", "window", step.Window, "error", err)
	}
}

func firstFailed(dependencies []string, failed map[string]bool) string {
	for _, dependency := range dependencies {
		if failed[dependency] {
			return dependency
		}
	}
	return ""
}
