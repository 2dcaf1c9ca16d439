// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer
	output := JSONOutput{}
	if done, err := output.EmitJSON(&buffer, []string{"x"}); done || err != nil {
		t.Fatalf("without --json: done=%v err=%v", done, err)
	}
	if buffer.Len() != 0 {
		t.Errorf("wrote %q without --json", buffer.String())
	}

	output.OutputJSON = true
	var names []string
	if done, err := output.EmitJSON(&buffer, names); !done || err != nil {
		t.Fatalf("with --json: done=%v err=%v", done, err)
	}
	if got := buffer.String(); got != "[]\n" {
		t.Errorf("nil slice encoded as %q, want %q", got, "[]\n")
	}

	buffer.Reset()
	if _, err := output.EmitJSON(&buffer, map[string]int{"windows": 2}); err != nil {
		t.Fatal(err)
	}
	if got, want := buffer.String(), "{\n  \"windows\": 2\n}\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
