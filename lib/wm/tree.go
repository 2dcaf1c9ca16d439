// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package wm

// Walk visits node and its descendants depth first, tiling children
// before floating ones. Returning false from visit stops the walk.
func Walk(node *Node, visit func(node *Node) bool) bool {
	if node == nil {
		return true
	}
	if !visit(node) {
		return false
	}
	for _, child := range node.Nodes {
		if !Walk(child, visit) {
			return false
		}
	}
	for _, child := range node.FloatingNodes {
		if !Walk(child, visit) {
			return false
		}
	}
	return true
}

// FindWorkspace returns the workspace named name, or nil.
func FindWorkspace(root *Node, name string) *Node {
	var found *Node
	Walk(root, func(node *Node) bool {
		if string(node.Type) == TypeWorkspace && node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindContainer returns the container with the given ID, or nil.
func FindContainer(root *Node, id NodeID) *Node {
	var found *Node
	Walk(root, func(node *Node) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Windows returns the containers under node that hold an X window.
func Windows(node *Node) []*Node {
	var windows []*Node
	Walk(node, func(child *Node) bool {
		if child.Window != 0 {
			windows = append(windows, child)
		}
		return true
	})
	return windows
}

// WorkspaceNames returns every workspace name in tree order, skipping
// the scratchpad.
func WorkspaceNames(root *Node) []string {
	var names []string
	Walk(root, func(node *Node) bool {
		if string(node.Type) == TypeWorkspace && node.Name != scratchpadWorkspace {
			names = append(names, node.Name)
		}
		return true
	})
	return names
}

// WorkspaceOf returns the workspace containing the container id, or
// nil when the container is absent or not on a workspace.
func WorkspaceOf(root *Node, id NodeID) *Node {
	return ancestorOfType(root, id, TypeWorkspace)
}

// OutputOf returns the name of the output containing the container
// id, or "".
func OutputOf(root *Node, id NodeID) string {
	output := ancestorOfType(root, id, TypeOutput)
	if output == nil {
		return ""
	}
	return output.Name
}

func ancestorOfType(root *Node, id NodeID, nodeType string) *Node {
	path := pathTo(root, id)
	for i := len(path) - 1; i >= 0; i-- {
		if string(path[i].Type) == nodeType {
			return path[i]
		}
	}
	return nil
}

// pathTo returns the chain of nodes from root to id inclusive.
func pathTo(node *Node, id NodeID) []*Node {
	if node == nil {
		return nil
	}
	if node.ID == id {
		return []*Node{node}
	}
	for _, children := range [][]*Node{node.Nodes, node.FloatingNodes} {
		for _, child := range children {
			if path := pathTo(child, id); path != nil {
				return append([]*Node{node}, path...)
			}
		}
	}
	return nil
}
