// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the bubbletea model of the picker.
type Model struct {
	items   []Item
	matches []Match
	cursor  int
	offset  int
	height  int
	width   int

	input textinput.Model
	keys  KeyMap
	theme Theme

	chosen *Item
}

// New returns a picker over items.
func New(items []Item, theme Theme) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "filter projects"
	input.PromptStyle = lipgloss.NewStyle().Foreground(theme.PromptForeground)
	input.Focus()

	model := Model{
		items:  items,
		input:  input,
		keys:   DefaultKeyMap,
		theme:  theme,
		height: 10,
	}
	model.matches = Rank(items, "")
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		// Filter line, blank line and help line.
		model.height = max(message.Height-3, 1)
		model.clampOffset()
		return model, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.Select):
			if len(model.matches) == 0 {
				return model, nil
			}
			item := model.matches[model.cursor].Item
			model.chosen = &item
			return model, tea.Quit

		case key.Matches(message, model.keys.Up):
			if model.cursor > 0 {
				model.cursor--
			}
			model.clampOffset()
			return model, nil

		case key.Matches(message, model.keys.Down):
			if model.cursor < len(model.matches)-1 {
				model.cursor++
			}
			model.clampOffset()
			return model, nil

		case key.Matches(message, model.keys.Clear):
			model.input.SetValue("")
			model.refilter()
			return model, nil
		}
	}

	previous := model.input.Value()
	var command tea.Cmd
	model.input, command = model.input.Update(message)
	if model.input.Value() != previous {
		model.refilter()
	}
	return model, command
}

func (model *Model) refilter() {
	model.matches = Rank(model.items, model.input.Value())
	model.cursor = 0
	model.offset = 0
}

// clampOffset scrolls so the cursor is visible.
func (model *Model) clampOffset() {
	if model.cursor < model.offset {
		model.offset = model.cursor
	}
	if model.cursor >= model.offset+model.height {
		model.offset = model.cursor - model.height + 1
	}
}

// View implements tea.Model.
func (model Model) View() string {
	var builder strings.Builder
	builder.WriteString(model.input.View())
	builder.WriteString("\n\n")

	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if len(model.matches) == 0 {
		builder.WriteString(faint.Render("  no matching projects"))
		builder.WriteString("\n")
	}
	end := min(model.offset+model.height, len(model.matches))
	for index := model.offset; index < end; index++ {
		builder.WriteString(model.renderRow(model.matches[index], index == model.cursor))
		builder.WriteString("\n")
	}

	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	builder.WriteString(help.Render(fmt.Sprintf("%d/%d  enter start  esc cancel", len(model.matches), len(model.items))))
	return builder.String()
}

func (model Model) renderRow(match Match, selected bool) string {
	base := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if selected {
		base = base.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground)
	}
	highlight := base.Foreground(model.theme.MatchForeground).Bold(true)

	marker := "  "
	if selected {
		marker = "▸ "
	}
	var row strings.Builder
	row.WriteString(base.Render(marker))

	matched := make(map[int]bool, len(match.Positions))
	for _, position := range match.Positions {
		matched[position] = true
	}
	for index, r := range []rune(match.Item.Name) {
		if matched[index] {
			row.WriteString(highlight.Render(string(r)))
		} else {
			row.WriteString(base.Render(string(r)))
		}
	}

	if match.Item.Running {
		row.WriteString(base.Foreground(model.theme.RunningForeground).Render(" ●"))
	}
	if match.Item.Description != "" {
		row.WriteString(base.Foreground(model.theme.FaintText).Render("  " + match.Item.Description))
	}
	return row.String()
}

// Chosen returns the selected item, or false if the picker was
// cancelled.
func (model Model) Chosen() (Item, bool) {
	if model.chosen == nil {
		return Item{}, false
	}
	return *model.chosen, true
}

// Run shows the picker on the given terminal streams and returns the
// chosen item.
func Run(items []Item, input io.Reader, output io.Writer) (Item, bool, error) {
	program := tea.NewProgram(New(items, DefaultTheme),
		tea.WithInput(input),
		tea.WithOutput(output),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return Item{}, false, fmt.Errorf("running picker: %w", err)
	}
	item, ok := final.(Model).Chosen()
	return item, ok, nil
}
