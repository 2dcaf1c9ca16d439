// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/i3minator/i3minator/lib/session"
)

// styles colour terminal output. Off a terminal every style is the
// zero style, which renders text unchanged.
type styles struct {
	name    lipgloss.Style
	running lipgloss.Style
	stopped lipgloss.Style
	faint   lipgloss.Style
	warning lipgloss.Style
	action  lipgloss.Style
}

func newStyles(terminal bool) styles {
	if !terminal {
		return styles{}
	}
	return styles{
		name:    lipgloss.NewStyle().Bold(true),
		running: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		stopped: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		faint:   lipgloss.NewStyle().Faint(true),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		action:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// printPlan writes the numbered steps of plan.
func printPlan(w io.Writer, plan *session.Plan, style styles) {
	if len(plan.Steps) == 0 {
		fmt.Fprintln(w, "nothing to do")
		return
	}
	width := len(fmt.Sprint(len(plan.Steps)))
	for i, step := range plan.Steps {
		marker := "  "
		switch step.Action {
		case session.ActionLaunch, session.ActionAdopt, session.ActionAppendLayout:
			marker = style.action.Render("+ ")
		case session.ActionKeep:
			marker = style.faint.Render("= ")
		}
		fmt.Fprintf(w, "%*d. %s%s\n", width, i+1, marker, step)
	}
}

// pad left-justifies s to width cells, measured without escape codes.
func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + fmt.Sprintf("%*s", gap, "")
	}
	return s
}
