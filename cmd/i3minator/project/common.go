// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/i3minator/i3minator/cmd/i3minator/cli"
	"github.com/i3minator/i3minator/lib/config"
	"github.com/i3minator/i3minator/lib/launch"
	libproject "github.com/i3minator/i3minator/lib/project"
	"github.com/i3minator/i3minator/lib/session"
	"github.com/i3minator/i3minator/lib/state"
	"github.com/i3minator/i3minator/lib/wm"
)

// pollInterval is how often a waiting launch re-reads the tree in case
// a window event was missed.
const pollInterval = 500 * time.Millisecond

// stores is the loaded configuration with the template and state
// stores it names.
type stores struct {
	environment *cli.Environment
	config      *config.Config
	projects    *libproject.Store
	states      *state.Store
}

func openStores(environment *cli.Environment) (*stores, error) {
	cfg, err := environment.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &stores{
		environment: environment,
		config:      cfg,
		projects:    libproject.NewStore(cfg.Paths.Projects),
		states:      state.NewStore(cfg.Paths.State, environment.Clock),
	}, nil
}

// loaded is a validated template with its fingerprint.
type loaded struct {
	project     *libproject.Project
	expanded    *libproject.Project
	fingerprint string
}

// load reads, validates and expands the template for name.
func (s *stores) load(name string) (*loaded, error) {
	data, path, err := s.projects.Read(name)
	if err != nil {
		return nil, s.notFound(name, err)
	}
	proj, err := libproject.Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	proj.Path = path
	if err := libproject.Validate(proj, name); err != nil {
		return nil, fmt.Errorf("%s is invalid:\n%w", path, err)
	}
	return &loaded{
		project:     proj,
		expanded:    libproject.Expand(proj, s.config.Paths.Layouts),
		fingerprint: libproject.Fingerprint(data),
	}, nil
}

// notFound adds "did you mean" names to a project.ErrNotFound.
func (s *stores) notFound(name string, err error) error {
	if !errors.Is(err, libproject.ErrNotFound) {
		return err
	}
	names, listErr := s.projects.Names()
	if listErr != nil || len(names) == 0 {
		return fmt.Errorf("%w\n\nRun 'i3minator new %s' to create it.", err, name)
	}
	suggestions := cli.SuggestNames(name, names, 3)
	if len(suggestions) == 0 {
		return fmt.Errorf("%w\n\nRun 'i3minator list' to see the projects in %s.", err, s.projects.Dir)
	}
	return fmt.Errorf("%w (did you mean %s?)", err, quoteJoin(suggestions))
}

func (s *stores) connect(ctx context.Context, logger *slog.Logger) (wm.Conn, error) {
	return s.environment.Connect(ctx, s.config, logger)
}

// planOptions derives planning options from the configuration.
func (s *stores) planOptions(adopt bool) session.Options {
	return session.Options{
		Terminal: s.config.Terminal,
		Timeout:  s.config.LaunchTimeout(),
		Retries:  s.config.Launch.Retries,
		Adopt:    adopt,
	}
}

func (s *stores) applier(conn wm.Conn, logger *slog.Logger) *session.Applier {
	return &session.Applier{
		Conn:   conn,
		Clock:  s.environment.Clock,
		Logger: logger,
		Launcher: &launch.Launcher{
			Conn:   conn,
			Clock:  s.environment.Clock,
			Logger: logger,
			Poll:   pollInterval,
			Settle: s.config.LaunchSettle(),
		},
	}
}

// requireName checks for exactly one positional project name.
func requireName(args []string, usage string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("project name required\n\nUsage: %s", usage)
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("unexpected argument: %s\n\nUsage: %s", args[1], usage)
	}
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return strings.Join(quoted, " or ")
}
