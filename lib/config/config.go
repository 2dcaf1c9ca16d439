// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable consulted when no --config
// flag is given.
const EnvironmentVariable = "I3MINATOR_CONFIG"

// Config is the global i3minator configuration.
type Config struct {
	// Paths configures where templates, layouts and session records live.
	Paths PathsConfig `yaml:"paths"`

	// I3 configures the window manager connection.
	I3 I3Config `yaml:"i3"`

	// Editor opens templates for "new" and "edit".
	// Default: $VISUAL, then $EDITOR, then vi.
	Editor string `yaml:"editor"`

	// Terminal is the emulator used for windows with terminal: true.
	// The window command is passed after "-e".
	// Default: i3-sensible-terminal
	Terminal string `yaml:"terminal"`

	// Launch configures application launching.
	Launch LaunchConfig `yaml:"launch"`

	// Source is the file the configuration was read from. Empty when
	// only defaults are in effect.
	Source string `yaml:"-"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Projects holds one <name>.yml template per project.
	// Default: $XDG_CONFIG_HOME/i3minator/projects, or ~/.i3minator when
	// that legacy directory exists and the XDG one does not.
	Projects string `yaml:"projects"`

	// Layouts holds i3 layout files referenced by templates with
	// relative paths. Default: <projects>/layouts
	Layouts string `yaml:"layouts"`

	// State holds session records. Default: $XDG_STATE_HOME/i3minator
	State string `yaml:"state"`
}

// I3Config configures the i3 IPC connection.
type I3Config struct {
	// Socket overrides IPC socket discovery ($I3SOCK, then
	// "i3 --get-socketpath").
	Socket string `yaml:"socket"`
}

// LaunchConfig configures how windows are launched and matched.
type LaunchConfig struct {
	// Timeout is how long to wait for a launched window to appear.
	// Windows may override it. Default: 10s
	Timeout string `yaml:"timeout"`

	// Retries is how many times a launch is re-issued after a timeout.
	// Windows may override it. Default: 1
	Retries int `yaml:"retries"`

	// Settle is the pause after appending a layout, before launching
	// the windows it swallows. Default: 200ms
	Settle string `yaml:"settle"`

	// Adopt moves matching windows found on other workspaces into the
	// project instead of launching duplicates. Default: true
	Adopt bool `yaml:"adopt"`
}

// Default returns the built-in configuration.
func Default() *Config {
	homeDirectory, _ := os.UserHomeDir()
	configHome := xdgDirectory("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))
	stateHome := xdgDirectory("XDG_STATE_HOME", filepath.Join(homeDirectory, ".local", "state"))

	projects := filepath.Join(configHome, "i3minator", "projects")
	legacy := filepath.Join(homeDirectory, ".i3minator")
	if !isDirectory(projects) && isDirectory(legacy) {
		projects = legacy
	}

	return &Config{
		Paths: PathsConfig{
			Projects: projects,
			State:    filepath.Join(stateHome, "i3minator"),
		},
		Editor:   defaultEditor(),
		Terminal: "i3-sensible-terminal",
		Launch: LaunchConfig{
			Timeout: "10s",
			Retries: 1,
			Settle:  "200ms",
			Adopt:   true,
		},
	}
}

// Load resolves and loads the configuration. explicitPath is the value
// of the --config flag and may be empty.
func Load(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return LoadFile(explicitPath)
	}
	if fromEnvironment := os.Getenv(EnvironmentVariable); fromEnvironment != "" {
		return LoadFile(fromEnvironment)
	}

	homeDirectory, _ := os.UserHomeDir()
	configHome := xdgDirectory("XDG_CONFIG_HOME", filepath.Join(homeDirectory, ".config"))
	discovered := filepath.Join(configHome, "i3minator", "config.yaml")
	if _, err := os.Stat(discovered); err == nil {
		return LoadFile(discovered)
	}

	cfg := Default()
	cfg.finish()
	return cfg, nil
}

// LoadFile loads configuration from path, layered over Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Source = path
	cfg.finish()
	return cfg, nil
}

// finish expands variables and fills derived defaults.
func (c *Config) finish() {
	c.expandVariables()
	if c.Paths.Layouts == "" {
		c.Paths.Layouts = filepath.Join(c.Paths.Projects, "layouts")
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Paths.Projects = ExpandPath(c.Paths.Projects, vars)
	vars["I3MINATOR_PROJECTS"] = c.Paths.Projects
	c.Paths.Layouts = ExpandPath(c.Paths.Layouts, vars)
	c.Paths.State = ExpandPath(c.Paths.State, vars)
	c.I3.Socket = ExpandPath(c.I3.Socket, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// ExpandVars expands ${VAR} and ${VAR:-default} in s. vars is consulted
// before the process environment.
func ExpandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// ExpandPath is ExpandVars plus "~" and "~/" expansion to $HOME.
func ExpandPath(path string, vars map[string]string) string {
	path = ExpandVars(path, vars)
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDirectory, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDirectory, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Projects == "" {
		errs = append(errs, fmt.Errorf("paths.projects is required"))
	}
	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}
	if c.Editor == "" {
		errs = append(errs, fmt.Errorf("editor is required"))
	}
	if c.Terminal == "" {
		errs = append(errs, fmt.Errorf("terminal is required"))
	}
	if timeout, err := time.ParseDuration(c.Launch.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("launch.timeout: %w", err))
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("launch.timeout must be positive, got %s", c.Launch.Timeout))
	}
	if settle, err := time.ParseDuration(c.Launch.Settle); err != nil {
		errs = append(errs, fmt.Errorf("launch.settle: %w", err))
	} else if settle < 0 {
		errs = append(errs, fmt.Errorf("launch.settle must not be negative, got %s", c.Launch.Settle))
	}
	if c.Launch.Retries < 0 {
		errs = append(errs, fmt.Errorf("launch.retries must not be negative, got %d", c.Launch.Retries))
	}

	return errors.Join(errs...)
}

// LaunchTimeout returns launch.timeout. Call Validate first; an
// unparseable value yields zero.
func (c *Config) LaunchTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Launch.Timeout)
	return timeout
}

// LaunchSettle returns launch.settle. Call Validate first.
func (c *Config) LaunchSettle() time.Duration {
	settle, _ := time.ParseDuration(c.Launch.Settle)
	return settle
}

// EnsurePaths creates the projects, layouts and state directories.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Projects, c.Paths.Layouts, c.Paths.State} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}

// EditorCommand splits the editor setting into argv for exec, so
// "code --wait" works.
func (c *Config) EditorCommand(file string) []string {
	argv := strings.Fields(c.Editor)
	return append(argv, file)
}

// TerminalPath resolves the terminal binary on PATH.
func (c *Config) TerminalPath() (string, error) {
	fields := strings.Fields(c.Terminal)
	if len(fields) == 0 {
		return "", fmt.Errorf("terminal is not configured")
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH", fields[0])
	}
	return path, nil
}

func defaultEditor() string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return "vi"
}

func xdgDirectory(variable, fallback string) string {
	if value := os.Getenv(variable); value != "" && filepath.IsAbs(value) {
		return value
	}
	return fallback
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
