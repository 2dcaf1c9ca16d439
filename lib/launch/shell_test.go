// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import "testing"

func TestShellQuote(t *testing.T) {
	tests := map[string]string{
		"":                 "''",
		"plain":            "plain",
		"/home/me/src":     "/home/me/src",
		"with space":       "'with space'",
		"it's":             `'it'\''s'`,
		"$HOME":            "'$HOME'",
		"http://x:80/?a=b": "'http://x:80/?a=b'",
	}
	for input, want := range tests {
		if got := ShellQuote(input); got != want {
			t.Errorf("ShellQuote(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestShellCommand(t *testing.T) {
	got := ShellCommand("/src/my shop", map[string]string{"PORT": "8080", "A": "x y"}, "make serve")
	want := `cd '/src/my shop' && export A='x y' PORT=8080 && make serve`
	if got != want {
		t.Errorf("ShellCommand =\n%s\nwant\n%s", got, want)
	}
	if got := ShellCommand("", nil, "firefox"); got != "firefox" {
		t.Errorf("bare ShellCommand = %q", got)
	}
}

func TestTerminalCommand(t *testing.T) {
	got := TerminalCommand("i3-sensible-terminal", "cd /src && htop")
	if want := "i3-sensible-terminal -e sh -c 'cd /src && htop'"; got != want {
		t.Errorf("TerminalCommand = %s, want %s", got, want)
	}
}
