// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import "github.com/charmbracelet/lipgloss"

// Theme is the picker's color palette, in ANSI 256-color codes.
type Theme struct {
	NormalText         lipgloss.Color
	FaintText          lipgloss.Color
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	MatchForeground    lipgloss.Color
	RunningForeground  lipgloss.Color
	PromptForeground   lipgloss.Color
	HelpText           lipgloss.Color
}

// DefaultTheme suits dark terminals.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	MatchForeground:    lipgloss.Color("214"),
	RunningForeground:  lipgloss.Color("76"),
	PromptForeground:   lipgloss.Color("39"),
	HelpText:           lipgloss.Color("241"),
}
