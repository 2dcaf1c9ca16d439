// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/i3minator/i3minator/lib/picker"
)

// suggestionDistance is the largest edit distance still suggested.
const suggestionDistance = 3

// suggestCommand returns the name of the closest matching subcommand
// (or alias) to the unknown input, or "" if nothing is close enough.
func suggestCommand(unknown string, commands []*Command) string {
	bestName := ""
	bestDistance := suggestionDistance + 1

	for _, command := range commands {
		for _, name := range append([]string{command.Name}, command.Aliases...) {
			if distance := levenshtein(unknown, name); distance < bestDistance {
				bestDistance = distance
				bestName = command.Name
			}
		}
	}

	return bestName
}

// suggestFlag looks at the args for the first unrecognized flag and returns
// the closest defined flag name, formatted with the appropriate prefix
// (-- or -). Returns "" if no good suggestion is found.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}

		long := strings.HasPrefix(arg, "--")
		name := strings.TrimLeft(arg, "-")
		if index := strings.IndexByte(name, '='); index >= 0 {
			name = name[:index]
		}
		if long && flagSet.Lookup(name) != nil {
			continue
		}
		if !long && len(name) >= 1 && flagSet.ShorthandLookup(name[:1]) != nil {
			continue
		}

		bestName := ""
		bestDistance := suggestionDistance + 1
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if distance := levenshtein(name, flag.Name); distance < bestDistance {
				bestDistance = distance
				bestName = flag.Name
			}
		})
		if bestName != "" {
			return "--" + bestName
		}

		// Only check the first unrecognized flag.
		break
	}

	return ""
}

// SuggestNames returns the candidates worth offering for an unknown
// name: those within a small edit distance, or failing that, the best
// fuzzy matches. At most limit names are returned.
func SuggestNames(unknown string, candidates []string, limit int) []string {
	var suggestions []string
	for _, candidate := range candidates {
		if levenshtein(unknown, candidate) <= suggestionDistance {
			suggestions = append(suggestions, candidate)
		}
	}
	if len(suggestions) == 0 {
		items := make([]picker.Item, len(candidates))
		for i, candidate := range candidates {
			items[i] = picker.Item{Name: candidate}
		}
		for _, match := range picker.Rank(items, unknown) {
			suggestions = append(suggestions, match.Item.Name)
		}
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// levenshtein computes the Levenshtein edit distance between two strings:
// the minimum number of single-character insertions, deletions or
// substitutions that turn one into the other.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// A single row of the distance matrix, updated in place.
	if len(a) > len(b) {
		a, b = b, a
	}

	previous := make([]int, len(a)+1)
	for i := range previous {
		previous[i] = i
	}

	for j := 1; j <= len(b); j++ {
		current := make([]int, len(a)+1)
		current[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[i] = min(previous[i]+1, current[i-1]+1, previous[i-1]+cost)
		}

		previous = current
	}

	return previous[len(a)]
}
