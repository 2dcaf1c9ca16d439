// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"sort"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Item is one selectable project.
type Item struct {
	Name        string
	Description string
	Running     bool
}

// Match is an item that matched the query.
type Match struct {
	Item  Item
	Score int

	// Positions are the rune offsets of the matched characters in
	// Item.Name, ascending. Empty when the match came from the
	// description.
	Positions []int
}

// Rank returns the items matching query, best first. Names are matched
// before descriptions: a description match scores half. Ties go to the
// running project, then to the name. An empty query keeps every item
// in name order with running projects first. The query is
// case-insensitive unless it contains an upper-case letter.
func Rank(items []Item, query string) []Match {
	pattern := []rune(query)
	caseSensitive := strings.IndexFunc(query, unicode.IsUpper) >= 0
	slab := util.MakeSlab(100*1024, 2048)

	var matches []Match
	for _, item := range items {
		if len(pattern) == 0 {
			matches = append(matches, Match{Item: item})
			continue
		}
		if score, positions, ok := fuzzyMatch(item.Name, pattern, caseSensitive, slab); ok {
			matches = append(matches, Match{Item: item, Score: score, Positions: positions})
			continue
		}
		if item.Description == "" {
			continue
		}
		if score, _, ok := fuzzyMatch(item.Description, pattern, caseSensitive, slab); ok {
			matches = append(matches, Match{Item: item, Score: score / 2})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Item.Running != matches[j].Item.Running {
			return matches[i].Item.Running
		}
		return matches[i].Item.Name < matches[j].Item.Name
	})
	return matches
}

func fuzzyMatch(text string, pattern []rune, caseSensitive bool, slab *util.Slab) (int, []int, bool) {
	if !caseSensitive {
		pattern = []rune(strings.ToLower(string(pattern)))
	}
	chars := util.ToChars([]byte(text))
	result, positions := algo.FuzzyMatchV2(caseSensitive, true, true, &chars, pattern, true, slab)
	if result.Start < 0 {
		return 0, nil, false
	}
	var sorted []int
	if positions != nil {
		sorted = append(sorted, *positions...)
		sort.Ints(sorted)
	}
	return result.Score, sorted, true
}
