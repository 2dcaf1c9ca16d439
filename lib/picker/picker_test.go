// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testItems() []Item {
	return []Item{
		{Name: "webdev", Description: "shop frontend"},
		{Name: "blog", Description: "personal site"},
		{Name: "work-dev", Running: true},
		{Name: "mail"},
	}
}

func names(matches []Match) []string {
	var result []string
	for _, match := range matches {
		result = append(result, match.Item.Name)
	}
	return result
}

func TestRankEmptyQuery(t *testing.T) {
	got := names(Rank(testItems(), ""))
	if want := []string{"work-dev", "blog", "mail", "webdev"}; !slices.Equal(got, want) {
		t.Errorf("Rank(\"\") = %v, want %v", got, want)
	}
}

func TestRankFuzzy(t *testing.T) {
	matches := Rank(testItems(), "wdv")
	got := names(matches)
	slices.Sort(got)
	if want := []string{"webdev", "work-dev"}; !slices.Equal(got, want) {
		t.Fatalf("Rank(wdv) = %v, want %v", got, want)
	}
	for _, match := range matches {
		if len(match.Positions) != 3 || match.Score <= 0 {
			t.Errorf("%s: positions %v score %d", match.Item.Name, match.Positions, match.Score)
		}
		if !slices.IsSorted(match.Positions) {
			t.Errorf("%s: positions not sorted: %v", match.Item.Name, match.Positions)
		}
	}
}

func TestRankDescription(t *testing.T) {
	matches := Rank(testItems(), "site")
	if len(matches) != 1 || matches[0].Item.Name != "blog" {
		t.Fatalf("Rank(site) = %v", names(matches))
	}
	if len(matches[0].Positions) != 0 {
		t.Errorf("description match has name positions %v", matches[0].Positions)
	}
}

func TestRankCaseSensitivity(t *testing.T) {
	if got := names(Rank(testItems(), "MAIL")); len(got) != 0 {
		t.Errorf("upper-case query matched case-insensitively: %v", got)
	}
	if got := names(Rank(testItems(), "mAi")); len(got) != 0 {
		t.Errorf("mixed-case query = %v", got)
	}
	if got := names(Rank(testItems(), "mai")); !slices.Equal(got, []string{"mail"}) {
		t.Errorf("Rank(mai) = %v", got)
	}
}

func typeText(model tea.Model, text string) tea.Model {
	for _, r := range text {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return model
}

func TestModelSelect(t *testing.T) {
	var model tea.Model = New(testItems(), DefaultTheme)
	model = typeText(model, "blo")
	model, command := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if command == nil {
		t.Fatal("enter did not quit")
	}
	item, ok := model.(Model).Chosen()
	if !ok || item.Name != "blog" {
		t.Errorf("Chosen = %+v, %v", item, ok)
	}
}

func TestModelNavigation(t *testing.T) {
	var model tea.Model = New(testItems(), DefaultTheme)
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	item, ok := model.(Model).Chosen()
	if !ok || item.Name != "blog" {
		t.Errorf("Chosen = %+v, want second row (blog)", item)
	}
}

func TestModelCancel(t *testing.T) {
	var model tea.Model = New(testItems(), DefaultTheme)
	model, command := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if command == nil {
		t.Fatal("esc did not quit")
	}
	if _, ok := model.(Model).Chosen(); ok {
		t.Error("cancelled picker reports a choice")
	}
}

func TestModelNoMatches(t *testing.T) {
	var model tea.Model = New(testItems(), DefaultTheme)
	model = typeText(model, "zzz")
	if !strings.Contains(model.View(), "no matching projects") {
		t.Errorf("view:\n%s", model.View())
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := model.(Model).Chosen(); ok {
		t.Error("enter with no matches chose something")
	}
}

func TestModelViewListsProjects(t *testing.T) {
	model := New(testItems(), DefaultTheme)
	view := model.View()
	for _, name := range []string{"webdev", "blog", "shop frontend", "4/4"} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing %q:\n%s", name, view)
		}
	}
}
