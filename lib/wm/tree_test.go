// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package wm

import (
	"slices"
	"testing"
)

// sampleTree builds root > output HDMI-1 > content > {1:code, 2:web}
// with an editor and a terminal on 1:code and a floating browser on
// 2:web.
func sampleTree() *Node {
	editor := &Node{ID: 10, Type: TypeCon, Window: 1001, WindowProperties: WindowProperties{Class: "Emacs", Instance: "emacs", Title: "main.go"}}
	terminal := &Node{ID: 11, Type: TypeCon, Window: 1002, WindowProperties: WindowProperties{Class: "URxvt", Instance: "urxvt", Title: "make serve"}}
	split := &Node{ID: 9, Type: TypeCon, Layout: "splitv", Nodes: []*Node{editor, terminal}}
	code := &Node{ID: 5, Type: TypeWorkspace, Name: "1:code", Nodes: []*Node{split}}

	browser := &Node{ID: 12, Type: TypeCon, Window: 1003, WindowProperties: WindowProperties{Class: "firefox", Instance: "Navigator"}}
	floating := &Node{ID: 13, Type: TypeFloatingCon, Nodes: []*Node{browser}}
	web := &Node{ID: 6, Type: TypeWorkspace, Name: "2:web", FloatingNodes: []*Node{floating}}

	scratch := &Node{ID: 7, Type: TypeWorkspace, Name: "__i3_scratch"}
	content := &Node{ID: 4, Type: TypeCon, Name: "content", Nodes: []*Node{code, web, scratch}}
	output := &Node{ID: 3, Type: TypeOutput, Name: "HDMI-1", Nodes: []*Node{content}}
	return &Node{ID: 1, Type: TypeRoot, Name: "root", Nodes: []*Node{output}}
}

func TestFindWorkspace(t *testing.T) {
	root := sampleTree()
	if workspace := FindWorkspace(root, "2:web"); workspace == nil || workspace.ID != 6 {
		t.Errorf("FindWorkspace(2:web) = %v", workspace)
	}
	if workspace := FindWorkspace(root, "content"); workspace != nil {
		t.Errorf("FindWorkspace matched a non-workspace: %v", workspace.Name)
	}
	if workspace := FindWorkspace(root, "9"); workspace != nil {
		t.Errorf("FindWorkspace(9) = %v, want nil", workspace)
	}
}

func TestWindows(t *testing.T) {
	root := sampleTree()
	var ids []NodeID
	for _, window := range Windows(root) {
		ids = append(ids, window.ID)
	}
	if !slices.Equal(ids, []NodeID{10, 11, 12}) {
		t.Errorf("Windows(root) = %v", ids)
	}
	if got := len(Windows(FindWorkspace(root, "1:code"))); got != 2 {
		t.Errorf("Windows(1:code) = %d windows, want 2", got)
	}
}

func TestWorkspaceOfAndOutputOf(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		id            NodeID
		wantWorkspace string
		wantOutput    string
	}{
		{10, "1:code", "HDMI-1"},
		{12, "2:web", "HDMI-1"},
		{6, "2:web", "HDMI-1"},
		{4, "", "HDMI-1"},
		{99, "", ""},
	}
	for _, test := range tests {
		workspace := WorkspaceOf(root, test.id)
		name := ""
		if workspace != nil {
			name = workspace.Name
		}
		if name != test.wantWorkspace {
			t.Errorf("WorkspaceOf(%d) = %q, want %q", test.id, name, test.wantWorkspace)
		}
		if got := OutputOf(root, test.id); got != test.wantOutput {
			t.Errorf("OutputOf(%d) = %q, want %q", test.id, got, test.wantOutput)
		}
	}
}

func TestWorkspaceNames(t *testing.T) {
	if got := WorkspaceNames(sampleTree()); !slices.Equal(got, []string{"1:code", "2:web"}) {
		t.Errorf("WorkspaceNames = %v", got)
	}
}

func TestWalkStops(t *testing.T) {
	visited := 0
	Walk(sampleTree(), func(node *Node) bool {
		visited++
		return node.ID != 5
	})
	// root, output, content, 1:code
	if visited != 4 {
		t.Errorf("visited %d nodes, want 4", visited)
	}
}

func TestFindContainer(t *testing.T) {
	if node := FindContainer(sampleTree(), 13); node == nil || string(node.Type) != TypeFloatingCon {
		t.Errorf("FindContainer(13) = %v", node)
	}
}
