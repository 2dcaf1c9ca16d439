// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlagsBasicTypes(t *testing.T) {
	type params struct {
		Name      string        `flag:"name" desc:"the name"`
		Force     bool          `flag:"force,f" desc:"overwrite"`
		Count     int           `flag:"count" desc:"number of items"`
		Timeout   time.Duration `flag:"timeout" desc:"launch timeout"`
		Workspace []string      `flag:"workspace,w" desc:"workspaces"`
		Untagged  string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	err := flagSet.Parse([]string{
		"--name", "webdev",
		"-f",
		"--count", "3",
		"--timeout", "2s",
		"-w", "1:code", "--workspace", "2:web",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "webdev" || !p.Force || p.Count != 3 || p.Timeout != 2*time.Second {
		t.Errorf("parsed %+v", p)
	}
	if strings.Join(p.Workspace, ",") != "1:code,2:web" {
		t.Errorf("Workspace = %v", p.Workspace)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlagsDefaults(t *testing.T) {
	type params struct {
		Retries int           `flag:"retries" default:"1"`
		Settle  time.Duration `flag:"settle" default:"200ms"`
		Adopt   bool          `flag:"adopt" default:"true"`
		Editor  string        `flag:"editor" default:"vi"`
		Tags    []string      `flag:"tags" default:"a,b"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Retries != 1 || p.Settle != 200*time.Millisecond || !p.Adopt || p.Editor != "vi" || len(p.Tags) != 2 {
		t.Errorf("defaults = %+v", p)
	}
}

func TestBindFlagsEmbedded(t *testing.T) {
	type params struct {
		JSONOutput
		Globals
		Force bool `flag:"force"`
	}

	var p params
	flagSet := FlagsFromParams("test", &p)
	if err := flagSet.Parse([]string{"--json", "--config", "/tmp/c.yaml", "--force"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON {
		t.Error("embedded JSONOutput was not bound")
	}
	if p.ConfigPath != "/tmp/c.yaml" {
		t.Error("embedded FlagBinder was not bound")
	}
	if !p.Force {
		t.Error("Force was not bound")
	}
}

func TestBindFlagsErrors(t *testing.T) {
	type unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}

	tests := []struct {
		name   string
		params any
	}{
		{"not a pointer", struct{}{}},
		{"pointer to non-struct", new(int)},
		{"unsupported type", &unsupported{}},
		{"bad default", &badDefault{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
			if err := BindFlags(test.params, flagSet); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
