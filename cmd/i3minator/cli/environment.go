// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/pflag"

	"github.com/i3minator/i3minator/lib/clock"
	"github.com/i3minator/i3minator/lib/config"
	"github.com/i3minator/i3minator/lib/picker"
	"github.com/i3minator/i3minator/lib/wm"
)

// Globals are the flags accepted by every command.
type Globals struct {
	// ConfigPath is --config; empty means $I3MINATOR_CONFIG or the
	// default location.
	ConfigPath string

	// Verbose lowers the log level to debug, which includes every
	// command sent to i3.
	Verbose bool
}

// AddFlags binds the global flags. Current values become the defaults,
// so binding again for a subcommand keeps what an earlier parse set.
func (g *Globals) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&g.ConfigPath, "config", "c", g.ConfigPath,
		fmt.Sprintf("configuration file (default $%s or $XDG_CONFIG_HOME/i3minator/config.yaml)", config.EnvironmentVariable))
	flagSet.BoolVarP(&g.Verbose, "verbose", "v", g.Verbose, "log debug output, including i3 commands")
}

// Environment is everything commands take from the outside world.
// Tests replace the streams, the clock and the i3 connection.
type Environment struct {
	Globals

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Clock clock.Clock

	// Connect opens the i3 IPC connection.
	Connect func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (wm.Conn, error)

	// Edit runs an editor command line and waits for it to exit.
	Edit func(ctx context.Context, argv []string) error

	// Pick runs the interactive project picker.
	Pick func(items []picker.Item) (picker.Item, bool, error)
}

// NewEnvironment returns the process environment: standard streams, the
// real clock, the i3 socket and an interactive editor.
func NewEnvironment() *Environment {
	return &Environment{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Clock:   clock.Real(),
		Connect: connectI3,
		Edit:    runEditor,
		Pick: func(items []picker.Item) (picker.Item, bool, error) {
			return picker.Run(items, os.Stdin, os.Stderr)
		},
	}
}

// NewLogger builds the command logger on Stderr, at debug level when
// --verbose is set.
func (e *Environment) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	if e.Verbose {
		level = slog.LevelDebug
	}
	return NewCommandLogger(e.Stderr, level)
}

// LoadConfig loads and validates the configuration named by the
// global flags.
func (e *Environment) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		source := cfg.Source
		if source == "" {
			source = "configuration"
		}
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// StdoutIsTerminal reports whether output goes to a terminal, which
// enables colour and syntax highlighting.
func (e *Environment) StdoutIsTerminal() bool {
	return IsTerminal(e.Stdout)
}

func connectI3(ctx context.Context, cfg *config.Config, logger *slog.Logger) (wm.Conn, error) {
	return wm.Connect(ctx, wm.Config{SocketPath: cfg.I3.Socket, Logger: logger})
}

func runEditor(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("no editor configured")
	}
	command := exec.CommandContext(ctx, argv[0], argv[1:]...)
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	if err := command.Run(); err != nil {
		return fmt.Errorf("running editor %s: %w", argv[0], err)
	}
	return nil
}
