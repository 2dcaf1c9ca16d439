// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/tidwall/jsonc"
	"github.com/zeebo/blake3"

	"github.com/i3minator/i3minator/lib/wm"
)

// Container is one node of an i3 layout.
type Container struct {
	Type          string       `json:"type,omitempty"`
	Name          string       `json:"name,omitempty"`
	Layout        string       `json:"layout,omitempty"`
	Percent       float64      `json:"percent,omitempty"`
	Border        string       `json:"border,omitempty"`
	Floating      string       `json:"floating,omitempty"`
	Marks         []string     `json:"marks,omitempty"`
	Geometry      *Rect        `json:"geometry,omitempty"`
	Swallows      []Swallow    `json:"swallows,omitempty"`
	Nodes         []*Container `json:"nodes,omitempty"`
	FloatingNodes []*Container `json:"floating_nodes,omitempty"`
}

// Rect is a floating container's geometry.
type Rect struct {
	X      int64 `json:"x"`
	Y      int64 `json:"y"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// Swallow holds the criteria a placeholder uses to claim a window.
// Values are regular expressions.
type Swallow struct {
	Class      string `json:"class,omitempty"`
	Instance   string `json:"instance,omitempty"`
	Title      string `json:"title,omitempty"`
	WindowRole string `json:"window_role,omitempty"`
}

// Criteria converts the swallow to window criteria.
func (s Swallow) Criteria() wm.Criteria {
	return wm.Criteria{Class: s.Class, Instance: s.Instance, Title: s.Title, Role: s.WindowRole}
}

// Empty reports whether the swallow has no criterion i3minator can
// match, as with a swallow naming only "machine" or i3-save-tree output
// whose keys are all still commented out.
func (s Swallow) Empty() bool {
	return s.Class == "" && s.Instance == "" && s.Title == "" && s.WindowRole == ""
}

// Parse decodes a layout file.
func Parse(data []byte) ([]*Container, error) {
	// Unknown keys (fullscreen_mode, workspace_layout, ...) are ignored
	// the way i3 ignores them.
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))

	var containers []*Container
	for {
		var container Container
		err := decoder.Decode(&container)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("layout container %d: %w", len(containers)+1, err)
		}
		containers = append(containers, &container)
	}
	if len(containers) == 0 {
		return nil, errors.New("layout contains no containers")
	}
	return containers, nil
}

// ReadFile reads and parses a layout file.
func ReadFile(path string) ([]*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	containers, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return containers, nil
}

// Swallows returns the swallow criteria of every placeholder in
// document order, floating placeholders after tiling ones.
func Swallows(containers []*Container) []Swallow {
	var swallows []Swallow
	var visit func(container *Container)
	visit = func(container *Container) {
		swallows = append(swallows, container.Swallows...)
		for _, child := range container.Nodes {
			visit(child)
		}
		for _, child := range container.FloatingNodes {
			visit(child)
		}
	}
	for _, container := range containers {
		visit(container)
	}
	return swallows
}

// Satisfied reports whether every placeholder in containers can be
// paired with a distinct window from windows. A workspace that
// satisfies its layout does not need the layout appended again. Empty
// swallows are not counted: no window can ever satisfy them.
func Satisfied(containers []*Container, windows []*wm.Node) (bool, error) {
	claimed := make(map[wm.NodeID]bool)
	for _, swallow := range Swallows(containers) {
		if swallow.Empty() {
			continue
		}
		matcher, err := wm.Compile(swallow.Criteria())
		if err != nil {
			return false, fmt.Errorf("swallow %+v: %w", swallow, err)
		}
		found := false
		for _, window := range windows {
			if claimed[window.ID] || !matcher.Matches(window.WindowProperties) {
				continue
			}
			claimed[window.ID] = true
			found = true
			break
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// Capture converts the contents of a live workspace into layout
// containers. Windows become placeholders swallowing their exact class
// and instance; split containers keep their layout and size.
func Capture(workspace *wm.Node) []*Container {
	var containers []*Container
	for _, child := range workspace.Nodes {
		if container := captureNode(child); container != nil {
			containers = append(containers, container)
		}
	}
	for _, child := range workspace.FloatingNodes {
		if container := captureNode(child); container != nil {
			containers = append(containers, container)
		}
	}
	return containers
}

func captureNode(node *wm.Node) *Container {
	container := &Container{
		Type:    string(node.Type),
		Percent: node.Percent,
		Border:  string(node.Border),
	}
	if node.Window != 0 {
		container.Name = node.Name
		container.Swallows = []Swallow{exactSwallow(node.WindowProperties)}
		return container
	}

	container.Layout = string(node.Layout)
	if string(node.Type) == wm.TypeFloatingCon {
		container.Geometry = &Rect{X: node.Rect.X, Y: node.Rect.Y, Width: node.Rect.Width, Height: node.Rect.Height}
	}
	for _, child := range node.Nodes {
		if captured := captureNode(child); captured != nil {
			container.Nodes = append(container.Nodes, captured)
		}
	}
	for _, child := range node.FloatingNodes {
		if captured := captureNode(child); captured != nil {
			container.FloatingNodes = append(container.FloatingNodes, captured)
		}
	}
	// Split containers whose windows are all gone have nothing to
	// restore.
	if len(container.Nodes) == 0 && len(container.FloatingNodes) == 0 {
		return nil
	}
	return container
}

func exactSwallow(properties wm.WindowProperties) Swallow {
	var swallow Swallow
	if properties.Class != "" {
		swallow.Class = "^" + regexp.QuoteMeta(properties.Class) + "$"
	}
	if properties.Instance != "" {
		swallow.Instance = "^" + regexp.QuoteMeta(properties.Instance) + "$"
	}
	if swallow == (Swallow{}) && properties.Title != "" {
		swallow.Title = "^" + regexp.QuoteMeta(properties.Title) + "$"
	}
	return swallow
}

// Write writes containers as a layout file headed by a comment.
func Write(w io.Writer, header string, containers []*Container) error {
	var buffer bytes.Buffer
	if header != "" {
		fmt.Fprintf(&buffer, "// %s\n", header)
	}
	for i, container := range containers {
		if i > 0 {
			buffer.WriteString("\n")
		}
		data, err := json.MarshalIndent(container, "", "    ")
		if err != nil {
			return fmt.Errorf("encoding layout container: %w", err)
		}
		buffer.Write(data)
		buffer.WriteString("\n")
	}
	_, err := w.Write(buffer.Bytes())
	return err
}

// Fingerprint returns a hex BLAKE3 digest of the containers' canonical
// JSON. Comments and formatting of the source file do not affect it.
func Fingerprint(containers []*Container) string {
	hasher := blake3.New()
	for _, container := range containers {
		data, err := json.Marshal(container)
		if err != nil {
			// Container holds only strings, numbers and slices.
			panic("layout: encoding container: " + err.Error())
		}
		hasher.Write(data)
	}
	return hex.EncodeToString(hasher.Sum(nil)[:16])
}
