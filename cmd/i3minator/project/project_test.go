// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/clock"
	"github.com/i3minator/i3minator/lib/config"
	"github.com/i3minator/i3minator/lib/layout"
	"github.com/i3minator/i3minator/lib/picker"
	libproject "github.com/i3minator/i3minator/lib/project"
	"github.com/i3minator/i3minator/lib/state"
	"github.com/i3minator/i3minator/lib/testutil"
	"github.com/i3minator/i3minator/lib/wm"
	"github.com/i3minator/i3minator/lib/wm/wmtest"
)

const webdevTemplate = `description: Web development
root: /srv/shop
workspaces:
  - name: "1:code"
    windows:
      - name: editor
        command: emacs
        match: {class: "^Emacs$"}
  - name: "2:web"
    split: tabbed
    windows:
      - name: browser
        command: firefox
        match: {class: "^firefox$"}
        after: [editor]
`

var (
	emacs   = wm.WindowProperties{Class: "Emacs", Instance: "emacs"}
	firefox = wm.WindowProperties{Class: "firefox", Instance: "Navigator"}
)

// harness runs commands against a temporary configuration and a fake
// i3 whose exec commands open the matching windows.
type harness struct {
	t           *testing.T
	environment *cli.Environment
	fake        *wmtest.Fake
	stdout      *bytes.Buffer
	stderr      *bytes.Buffer
	config      *config.Config
	edited      [][]string
	picked      string
}

func newHarness(t *testing.T) *harness {
	home := testutil.XDGHome(t)
	configDir := filepath.Join(home, ".config", "i3minator")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	configYAML := "editor: myeditor --wait\nterminal: xterm\nlaunch:\n  settle: 0s\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	h := &harness{
		t:      t,
		fake:   wmtest.NewFake("eDP-1"),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.fake.OnRun = func(fake *wmtest.Fake, command string) error {
		line := wmtest.ExecCommand(command)
		switch {
		case strings.HasSuffix(line, "emacs"):
			fake.AddWindow("", emacs)
		case strings.HasSuffix(line, "firefox"):
			fake.AddWindow("", firefox)
		}
		return nil
	}
	h.environment = &cli.Environment{
		Stdin:  strings.NewReader(""),
		Stdout: h.stdout,
		Stderr: h.stderr,
		Clock:  clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		Connect: func(context.Context, *config.Config, *slog.Logger) (wm.Conn, error) {
			return h.fake, nil
		},
		Edit: func(_ context.Context, argv []string) error {
			h.edited = append(h.edited, argv)
			return nil
		},
		Pick: func(items []picker.Item) (picker.Item, bool, error) {
			for _, item := range items {
				if item.Name == h.picked {
					return item, true, nil
				}
			}
			return picker.Item{}, false, nil
		},
	}

	cfg, err := h.environment.LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	h.config = cfg
	return h
}

func (h *harness) root() *cli.Command {
	environment := h.environment
	return &cli.Command{
		Name:       "i3minator",
		Persistent: &environment.Globals,
		Logger:     func() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) },
		HelpOutput: io.Discard,
		Subcommands: []*cli.Command{
			NewCommand(environment),
			EditCommand(environment),
			StartCommand(environment),
			StopCommand(environment),
			StatusCommand(environment),
			ListCommand(environment),
			ShowCommand(environment),
			CopyCommand(environment),
			DeleteCommand(environment),
			ValidateCommand(environment),
			SaveCommand(environment),
			PickCommand(environment),
		},
	}
}

// run executes one command line and returns its stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	err := h.root().Execute(context.Background(), args)
	return h.stdout.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	output, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return output
}

func (h *harness) writeTemplate(name, content string) string {
	h.t.Helper()
	path, err := libproject.NewStore(h.config.Paths.Projects).Create(name, []byte(content))
	if err != nil {
		h.t.Fatal(err)
	}
	return path
}

func (h *harness) states() *state.Store {
	return state.NewStore(h.config.Paths.State, h.environment.Clock)
}

func TestNewAndEdit(t *testing.T) {
	h := newHarness(t)

	output := h.mustRun("new", "webdev")
	path := filepath.Join(h.config.Paths.Projects, "webdev.yml")
	if !strings.Contains(output, "created "+path) {
		t.Errorf("output = %q", output)
	}
	if len(h.edited) != 1 || strings.Join(h.edited[0], " ") != "myeditor --wait "+path {
		t.Errorf("editor calls = %v", h.edited)
	}
	if _, err := libproject.LoadFile(path); err != nil {
		t.Errorf("skeleton does not parse: %v", err)
	}

	if _, err := h.run("new", "webdev", "--no-edit"); !errors.Is(err, libproject.ErrExists) {
		t.Errorf("second new: err = %v, want ErrExists", err)
	}

	h.mustRun("new", "shop", "--from", "webdev", "--no-edit")
	if len(h.edited) != 1 {
		t.Errorf("--no-edit opened the editor")
	}
	if _, err := os.Stat(filepath.Join(h.config.Paths.Projects, "shop.yml")); err != nil {
		t.Error(err)
	}

	h.mustRun("edit", "shop")
	if len(h.edited) != 2 {
		t.Errorf("edit did not open the editor")
	}
	if _, err := h.run("edit", "shpo"); err == nil || !strings.Contains(err.Error(), `did you mean "shop"?`) {
		t.Errorf("edit of a typo: err = %v", err)
	}
}

func TestEditWarnsAboutProblems(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("broken", "workspaces: []\n")

	h.mustRun("edit", "broken")
	if !strings.Contains(h.stderr.String(), "at least one workspace is required") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestStartStatusStop(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)

	output := h.mustRun("start", "webdev")
	if !strings.Contains(output, "webdev: 2 launched, 0 kept, 0 adopted") {
		t.Errorf("start output = %q", output)
	}
	if h.fake.Focused() != "1:code" {
		t.Errorf("focused = %q, want 1:code", h.fake.Focused())
	}
	record, err := h.states().Load("webdev")
	if err != nil {
		t.Fatalf("no record after start: %v", err)
	}
	if len(record.Windows) != 2 || record.Windows[0].Name != "editor" {
		t.Errorf("record windows = %+v", record.Windows)
	}

	output = h.mustRun("status", "webdev", "--json")
	var status statusOutput
	if err := json.Unmarshal([]byte(output), &status); err != nil {
		t.Fatalf("status JSON: %v\n%s", err, output)
	}
	if !status.Running || len(status.Alive) != 2 || status.TemplateChanged || status.Plan.Launches() != 0 {
		t.Errorf("status = %+v", status)
	}

	output = h.mustRun("status", "webdev")
	if !strings.Contains(output, "running, 2 of 2 windows alive") {
		t.Errorf("status text = %q", output)
	}

	output = h.mustRun("status", "webdev", "--raw")
	if !strings.Contains(output, `"webdev"`) {
		t.Errorf("raw status = %q", output)
	}

	// Starting again keeps everything.
	output = h.mustRun("open", "webdev")
	if !strings.Contains(output, "0 launched, 2 kept") {
		t.Errorf("second start output = %q", output)
	}

	output = h.mustRun("stop", "webdev")
	if !strings.Contains(output, "webdev: closed 2 windows") {
		t.Errorf("stop output = %q", output)
	}
	root, _ := h.fake.Tree(context.Background())
	if windows := wm.Windows(root); len(windows) != 0 {
		t.Errorf("%d windows left after stop", len(windows))
	}
	if _, err := h.states().Load("webdev"); !errors.Is(err, state.ErrNotFound) {
		t.Errorf("record after stop: %v", err)
	}

	if _, err := h.run("stop", "webdev"); err == nil || !strings.Contains(err.Error(), "not running") {
		t.Errorf("second stop: err = %v", err)
	}
}

func TestStartDryRun(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)

	output := h.mustRun("start", "webdev", "--dry-run", "--json")
	var result startOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("JSON: %v\n%s", err, output)
	}
	if result.Record != nil || result.Plan.Launches() != 2 {
		t.Errorf("dry run result = %+v", result)
	}
	if commands := h.fake.Commands(); len(commands) != 0 {
		t.Errorf("dry run sent commands: %q", commands)
	}

	output = h.mustRun("start", "webdev", "-n")
	for _, want := range []string{"1. ", "create workspace 1:code", "set workspace 2:web layout to tabbed"} {
		if !strings.Contains(output, want) {
			t.Errorf("plan lacks %q:\n%s", want, output)
		}
	}
}

func TestStartAdoptsWindowsUnlessDisabled(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)
	h.fake.AddWorkspace("9:misc", "eDP-1")
	h.fake.AddWindow("9:misc", firefox)

	output := h.mustRun("start", "webdev", "--no-adopt", "--dry-run")
	if strings.Contains(output, "adopt") {
		t.Errorf("--no-adopt plan adopts:\n%s", output)
	}

	output = h.mustRun("start", "webdev")
	if !strings.Contains(output, "1 launched, 0 kept, 1 adopted") {
		t.Errorf("start output = %q", output)
	}
	record, err := h.states().Load("webdev")
	if err != nil {
		t.Fatal(err)
	}
	adopted := 0
	for _, window := range record.Windows {
		if window.Adopted {
			adopted++
		}
	}
	if adopted != 1 {
		t.Errorf("adopted windows = %d, want 1", adopted)
	}
}

func TestStartReportsLaunchFailures(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)
	h.fake.FailRun = errors.New("i3 refused")

	if _, err := h.run("start", "webdev"); err == nil {
		t.Fatal("start succeeded although i3 refused every command")
	}
	if _, err := h.states().Load("webdev"); !errors.Is(err, state.ErrNotFound) {
		t.Errorf("a start that brought nothing up was recorded: %v", err)
	}
}

func TestStartUnknownProject(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)

	_, err := h.run("start", "webdve")
	if !errors.Is(err, libproject.ErrNotFound) || !strings.Contains(err.Error(), `did you mean "webdev"?`) {
		t.Errorf("err = %v", err)
	}
	if _, err := h.run("start"); err == nil || !strings.Contains(err.Error(), "project name required") {
		t.Errorf("missing name: err = %v", err)
	}
}

func TestListShowsRunningState(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)
	h.writeTemplate("blog", "description: Writing\nworkspaces:\n  - name: blog\n")
	h.writeTemplate("broken", "workspaces: {\n")

	h.mustRun("start", "webdev")

	output := h.mustRun("list", "--json")
	var entries []listEntry
	if err := json.Unmarshal([]byte(output), &entries); err != nil {
		t.Fatalf("JSON: %v\n%s", err, output)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %+v", entries)
	}
	byName := make(map[string]listEntry)
	for _, entry := range entries {
		byName[entry.Name] = entry
	}
	if entry := byName["webdev"]; !entry.Running || entry.Windows != 2 || entry.Description != "Web development" {
		t.Errorf("webdev = %+v", entry)
	}
	if entry := byName["blog"]; entry.Running || entry.Recorded {
		t.Errorf("blog = %+v", entry)
	}
	if byName["broken"].Invalid == "" {
		t.Error("broken template not flagged")
	}

	output = h.mustRun("ls")
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "blog    stopped") || !strings.Contains(lines[2], "running (2)") {
		t.Errorf("list output:\n%s", output)
	}
}

func TestListEmpty(t *testing.T) {
	h := newHarness(t)
	if output := h.mustRun("list"); !strings.Contains(output, "no projects in") {
		t.Errorf("output = %q", output)
	}
	if output := h.mustRun("list", "--json"); strings.TrimSpace(output) != "[]" {
		t.Errorf("JSON output = %q", output)
	}
}

func TestShowCopyDelete(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", "# my project\n"+webdevTemplate)

	if output := h.mustRun("show", "webdev"); output != "# my project\n"+webdevTemplate {
		t.Errorf("show = %q", output)
	}

	h.mustRun("copy", "webdev", "shop")
	if output := h.mustRun("cat", "shop", "--raw"); !strings.HasPrefix(output, "# my project\n") {
		t.Errorf("copy lost comments: %q", output)
	}
	if _, err := h.run("copy", "webdev"); err == nil {
		t.Error("copy with one argument succeeded")
	}

	h.mustRun("start", "shop")
	if _, err := h.run("delete", "shop"); err == nil || !strings.Contains(err.Error(), "is running") {
		t.Errorf("delete of a running project: err = %v", err)
	}
	h.mustRun("rm", "shop", "--force")
	if _, err := h.states().Load("shop"); !errors.Is(err, state.ErrNotFound) {
		t.Errorf("record survived delete --force: %v", err)
	}
	if _, err := h.run("show", "shop"); !errors.Is(err, libproject.ErrNotFound) {
		t.Errorf("show after delete: err = %v", err)
	}

	h.mustRun("delete", "webdev")
	if _, err := h.run("delete", "webdev"); !errors.Is(err, libproject.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)
	h.writeTemplate("broken", `workspaces:
  - name: one
    layout: missing.json
    windows:
      - name: a
        command: x
        after: [b]
`)

	if output := h.mustRun("validate", "webdev"); !strings.HasSuffix(strings.TrimSpace(output), "ok") {
		t.Errorf("output = %q", output)
	}

	output, err := h.run("validate", "broken", "--json")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("err = %v, want exit code 1", err)
	}
	var result validateOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("JSON: %v\n%s", err, output)
	}
	if result.Valid || len(result.Problems) < 2 {
		t.Errorf("result = %+v", result)
	}
	foundLayout := false
	for _, problem := range result.Problems {
		if strings.Contains(problem, "missing.json") {
			foundLayout = true
		}
	}
	if !foundLayout {
		t.Errorf("missing layout not reported: %v", result.Problems)
	}

	outside := filepath.Join(t.TempDir(), "draft.yml")
	if err := os.WriteFile(outside, []byte(webdevTemplate), 0o644); err != nil {
		t.Fatal(err)
	}
	if output := h.mustRun("validate", outside); !strings.Contains(output, outside+": ok") {
		t.Errorf("file validation = %q", output)
	}
}

func TestValidateWarnings(t *testing.T) {
	h := newHarness(t)
	if err := os.MkdirAll(h.config.Paths.Layouts, 0o755); err != nil {
		t.Fatal(err)
	}
	layoutFile := filepath.Join(h.config.Paths.Layouts, "docs.json")
	if err := os.WriteFile(layoutFile, []byte(`{"type": "con", "nodes": [
    {"swallows": [{"class": "^Zathura$"}]},
    {"swallows": [{"machine": "^laptop$"}]}
]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	h.writeTemplate("docs", `workspaces:
  - name: docs
    output: HDMI-9
    layout: docs.json
  - name: notes
    output: eDP-1
`)

	output := h.mustRun("validate", "docs", "--json")
	var result validateOutput
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("JSON: %v\n%s", err, output)
	}
	if !result.Valid {
		t.Fatalf("warnings made the template invalid: %+v", result)
	}
	if len(result.Warnings) != 2 ||
		!strings.Contains(result.Warnings[0], "1 placeholder(s) in "+layoutFile) ||
		!strings.Contains(result.Warnings[1], `"docs": output HDMI-9 is not connected`) {
		t.Errorf("warnings = %q", result.Warnings)
	}

	h.environment.Connect = func(context.Context, *config.Config, *slog.Logger) (wm.Conn, error) {
		return nil, errors.New("no i3")
	}
	result = validateOutput{}
	output = h.mustRun("validate", "docs", "--json")
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("without i3 the output check should be skipped: %q", result.Warnings)
	}
}

func TestSave(t *testing.T) {
	h := newHarness(t)
	h.fake.AddWorkspace("1:code", "eDP-1")
	h.fake.AddWindow("1:code", emacs)
	h.fake.AddWindow("1:code", wm.WindowProperties{Class: "URxvt", Instance: "urxvt"})

	output := h.mustRun("save", "captured", "-w", "1:code")
	templatePath := filepath.Join(h.config.Paths.Projects, "captured.yml")
	layoutPath := filepath.Join(h.config.Paths.Layouts, "captured-1.json")
	if !strings.Contains(output, "saved "+templatePath+" (2 windows)") || !strings.Contains(output, layoutPath) {
		t.Errorf("output = %q", output)
	}

	proj, err := libproject.LoadFile(templatePath)
	if err != nil {
		t.Fatal(err)
	}
	if err := libproject.Validate(proj, "captured"); err != nil {
		t.Errorf("captured template is invalid: %v", err)
	}
	containers, err := layout.ReadFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if swallows := layout.Swallows(containers); len(swallows) != 2 {
		t.Errorf("layout swallows = %+v", swallows)
	}

	if _, err := h.run("save", "captured", "-w", "1:code"); !errors.Is(err, libproject.ErrExists) {
		t.Errorf("second save: err = %v", err)
	}
	h.mustRun("save", "captured", "-w", "1:code", "--force")

	if _, err := h.run("save", "other", "-w", "7:nothing"); err == nil {
		t.Error("saving a missing workspace succeeded")
	}
}

func TestPick(t *testing.T) {
	h := newHarness(t)
	h.writeTemplate("webdev", webdevTemplate)

	h.picked = ""
	if output := h.mustRun("pick"); output != "" {
		t.Errorf("cancelled pick printed %q", output)
	}

	h.picked = "webdev"
	if output := h.mustRun("pick"); !strings.Contains(output, "webdev: 2 launched") {
		t.Errorf("pick output = %q", output)
	}
}
