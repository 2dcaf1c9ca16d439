// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"maps"
	"slices"
	"strings"
)

// ShellQuote quotes s for POSIX sh.
func ShellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:=@%+,", r)
}

// ShellCommand builds the line i3 hands to sh: change to dir, export
// environment, then run command. Empty dir and env are omitted.
func ShellCommand(dir string, environment map[string]string, command string) string {
	var parts []string
	if dir != "" {
		parts = append(parts, "cd "+ShellQuote(dir))
	}
	if len(environment) > 0 {
		var assignments []string
		for _, key := range slices.Sorted(maps.Keys(environment)) {
			assignments = append(assignments, key+"="+ShellQuote(environment[key]))
		}
		parts = append(parts, "export "+strings.Join(assignments, " "))
	}
	parts = append(parts, command)
	return strings.Join(parts, " && ")
}

// TerminalCommand runs command inside terminal.
func TerminalCommand(terminal, command string) string {
	return terminal + " -e sh -c " + ShellQuote(command)
}
