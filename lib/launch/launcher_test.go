// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i3minator/i3minator/lib/clock"
	"github.com/i3minator/i3minator/lib/testutil"
	"github.com/i3minator/i3minator/lib/wm"
	"github.com/i3minator/i3minator/lib/wm/wmtest"
)

type launchOutcome struct {
	result Result
	err    error
}

func newLauncher(fake *wmtest.Fake, fakeClock *clock.FakeClock) *Launcher {
	return &Launcher{
		Conn:   fake,
		Clock:  fakeClock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func launchAsync(launcher *Launcher, request Request) <-chan launchOutcome {
	outcome := make(chan launchOutcome, 1)
	go func() {
		result, err := launcher.Launch(context.Background(), request)
		outcome <- launchOutcome{result, err}
	}()
	return outcome
}

// spawnOnExec makes the fake open a window with properties on the
// execution number "on" of command (counting from 1).
func spawnOnExec(fake *wmtest.Fake, command string, on int32, properties ...wm.WindowProperties) *atomic.Int32 {
	var execs atomic.Int32
	fake.OnRun = func(fake *wmtest.Fake, received string) error {
		if wmtest.ExecCommand(received) != command {
			return nil
		}
		if execs.Add(1) == on {
			for _, window := range properties {
				fake.AddWindow("", window)
			}
		}
		return nil
	}
	return &execs
}

func TestLaunchMatchesNewWindow(t *testing.T) {
	fake := wmtest.NewFake()
	fake.AddWindow("1:code", wm.WindowProperties{Class: "Emacs", Title: "old"})
	spawnOnExec(fake, "emacs", 1,
		wm.WindowProperties{Class: "URxvt"},
		wm.WindowProperties{Class: "Emacs", Title: "new"},
	)
	launcher := newLauncher(fake, clock.Fake(time.Unix(0, 0)))

	outcome := testutil.RequireReceive(t, launchAsync(launcher, Request{
		Name:      "editor",
		Command:   "emacs",
		Workspace: "1:code",
		Criteria:  wm.Criteria{Class: "^Emacs$"},
		Timeout:   10 * time.Second,
	}), 5*time.Second, "launch")

	if outcome.err != nil {
		t.Fatalf("Launch: %v", outcome.err)
	}
	if outcome.result.Properties.Title != "new" {
		t.Errorf("took window %+v, want the new Emacs", outcome.result.Properties)
	}
	if outcome.result.Attempts != 1 || outcome.result.XID == 0 {
		t.Errorf("result = %+v", outcome.result)
	}

	commands := fake.Commands()
	if len(commands) != 2 || commands[0] != wm.FocusWorkspace("1:code") || commands[1] != wm.Exec("emacs") {
		t.Errorf("commands = %q", commands)
	}
}

func TestLaunchEmptyCriteriaTakesFirstNewWindow(t *testing.T) {
	fake := wmtest.NewFake()
	spawnOnExec(fake, "xterm", 1,
		wm.WindowProperties{Class: "XTerm", Title: "first"},
		wm.WindowProperties{Class: "XTerm", Title: "second"},
	)
	launcher := newLauncher(fake, clock.Fake(time.Unix(0, 0)))

	outcome := testutil.RequireReceive(t, launchAsync(launcher, Request{
		Name: "shell", Command: "xterm", Timeout: time.Second,
	}), 5*time.Second, "launch")
	if outcome.err != nil {
		t.Fatal(outcome.err)
	}
	if outcome.result.Properties.Title != "first" {
		t.Errorf("took %q, want first", outcome.result.Properties.Title)
	}
}

func TestLaunchRetriesAfterTimeout(t *testing.T) {
	fake := wmtest.NewFake()
	execs := spawnOnExec(fake, "slack", 2, wm.WindowProperties{Class: "Slack"})
	fakeClock := clock.Fake(time.Unix(0, 0))
	launcher := newLauncher(fake, fakeClock)

	outcome := launchAsync(launcher, Request{
		Name: "chat", Command: "slack", Criteria: wm.Criteria{Class: "Slack"},
		Timeout: 10 * time.Second, Retries: 2,
	})
	// Deadline and poll.
	fakeClock.WaitForTimers(2)
	fakeClock.Advance(10 * time.Second)

	result := testutil.RequireReceive(t, outcome, 5*time.Second, "launch")
	if result.err != nil {
		t.Fatalf("Launch: %v", result.err)
	}
	if result.result.Attempts != 2 || execs.Load() != 2 {
		t.Errorf("attempts = %d, execs = %d; want 2 and 2", result.result.Attempts, execs.Load())
	}
}

func TestLaunchTimesOut(t *testing.T) {
	fake := wmtest.NewFake()
	execs := spawnOnExec(fake, "ghost", 99)
	fakeClock := clock.Fake(time.Unix(0, 0))
	launcher := newLauncher(fake, fakeClock)

	outcome := launchAsync(launcher, Request{
		Name: "ghost", Command: "ghost", Criteria: wm.Criteria{Class: "Ghost"},
		Timeout: 5 * time.Second, Retries: 1,
	})
	for range 2 {
		fakeClock.WaitForTimers(2)
		fakeClock.Advance(5 * time.Second)
	}

	result := testutil.RequireReceive(t, outcome, 5*time.Second, "launch")
	if !errors.Is(result.err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", result.err)
	}
	if result.result.Attempts != 2 || execs.Load() != 2 {
		t.Errorf("attempts = %d, execs = %d; want 2 and 2", result.result.Attempts, execs.Load())
	}
}

func TestLaunchFindsWindowWithoutEvents(t *testing.T) {
	tests := []struct {
		name string
		// late opens the window only after the launcher started waiting;
		// otherwise it is already in the tree when exec returns.
		late bool
		poll time.Duration
	}{
		{name: "present right after exec"},
		{name: "default poll", late: true},
		{name: "custom poll", late: true, poll: 3 * time.Second},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fake := wmtest.NewFake()
			fake.MuteEvents = true
			if !test.late {
				spawnOnExec(fake, "zathura", 1, wm.WindowProperties{Class: "Zathura"})
			}
			fakeClock := clock.Fake(time.Unix(0, 0))
			launcher := newLauncher(fake, fakeClock)
			launcher.Poll = test.poll

			outcome := launchAsync(launcher, Request{
				Name: "docs", Command: "zathura", Criteria: wm.Criteria{Class: "Zathura"},
				Timeout: 10 * time.Second,
			})
			if test.late {
				fakeClock.WaitForTimers(2)
				fake.AddWindow("", wm.WindowProperties{Class: "Zathura"})
				interval := test.poll
				if interval == 0 {
					interval = DefaultPoll
				}
				fakeClock.Advance(interval)
			}

			result := testutil.RequireReceive(t, outcome, 5*time.Second, "launch")
			if result.err != nil {
				t.Fatalf("Launch: %v", result.err)
			}
			if result.result.Properties.Class != "Zathura" {
				t.Errorf("result = %+v", result.result)
			}
		})
	}
}

func TestLaunchRunError(t *testing.T) {
	fake := wmtest.NewFake()
	fake.FailRun = errors.New("i3 went away")
	launcher := newLauncher(fake, clock.Fake(time.Unix(0, 0)))

	_, err := launcher.Launch(context.Background(), Request{Name: "x", Command: "x", Timeout: time.Second, Retries: 3})
	if err == nil || errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want the run error without retries", err)
	}
}

func TestLaunchInvalidRequest(t *testing.T) {
	launcher := newLauncher(wmtest.NewFake(), clock.Fake(time.Unix(0, 0)))
	if _, err := launcher.Launch(context.Background(), Request{Name: "x", Command: "x", Criteria: wm.Criteria{Class: "("}, Timeout: time.Second}); err == nil {
		t.Error("invalid criteria accepted")
	}
	if _, err := launcher.Launch(context.Background(), Request{Name: "x", Command: "x"}); err == nil {
		t.Error("zero timeout accepted")
	}
}

func TestLaunchContextCancel(t *testing.T) {
	launcher := newLauncher(wmtest.NewFake(), clock.Fake(time.Unix(0, 0)))
	ctx, cancel := context.WithCancel(context.Background())
	outcome := make(chan error, 1)
	go func() {
		_, err := launcher.Launch(ctx, Request{Name: "x", Command: "x", Timeout: time.Hour})
		outcome <- err
	}()
	launcher.Clock.(*clock.FakeClock).WaitForTimers(1)
	cancel()
	if err := testutil.RequireReceive(t, outcome, 5*time.Second, "launch"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
