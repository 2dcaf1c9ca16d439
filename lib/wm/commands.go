// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package wm

import (
	"fmt"
	"strings"
)

// Quote renders s as an i3 double-quoted string.
func Quote(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + replacer.Replace(s) + `"`
}

// FocusWorkspace switches to the named workspace, creating it if it
// does not exist. Auto back-and-forth is disabled so focusing the
// current workspace is a no-op.
func FocusWorkspace(name string) string {
	return "workspace --no-auto-back-and-forth " + Quote(name)
}

// MoveWorkspaceToOutput focuses workspace and moves it to output.
func MoveWorkspaceToOutput(workspace, output string) string {
	return FocusWorkspace(workspace) + "; move workspace to output " + Quote(output)
}

// AppendLayout focuses workspace and appends the layout file to it.
func AppendLayout(workspace, path string) string {
	return FocusWorkspace(workspace) + "; append_layout " + Quote(path)
}

// SetLayout focuses workspace and sets its container layout.
func SetLayout(workspace, layout string) string {
	return FocusWorkspace(workspace) + "; layout " + layout
}

// Exec runs a shell command through i3. i3 hands the string to
// "sh -c"; the command is passed through unchanged apart from quoting.
func Exec(command string) string {
	return "exec --no-startup-id " + Quote(command)
}

func forContainer(id NodeID) string {
	return fmt.Sprintf("[con_id=%d]", id)
}

// MoveToWorkspace moves a container to the named workspace.
func MoveToWorkspace(id NodeID, workspace string) string {
	return forContainer(id) + " move container to workspace --no-auto-back-and-forth " + Quote(workspace)
}

// Kill closes a container.
func Kill(id NodeID) string {
	return forContainer(id) + " kill"
}

// Floating makes a container floating.
func Floating(id NodeID) string {
	return forContainer(id) + " floating enable"
}
