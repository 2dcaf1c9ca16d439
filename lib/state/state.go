// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/i3minator/i3minator/lib/clock"
	"github.com/i3minator/i3minator/lib/codec"
	"github.com/i3minator/i3minator/lib/wm"
)

const (
	recordExtension = ".cbor"
	lockFileName    = ".lock"

	// DefaultLockTimeout bounds how long Lock waits for another
	// i3minator to finish.
	DefaultLockTimeout = 5 * time.Second

	lockPollInterval = 50 * time.Millisecond
)

var (
	// ErrNotFound is returned when a project has no record.
	ErrNotFound = errors.New("no session record")

	// ErrLocked is returned when another process holds the state lock
	// for longer than the lock timeout.
	ErrLocked = errors.New("another i3minator is changing the session")
)

// Record is the outcome of starting a project.
type Record struct {
	// Project is the project name.
	Project string `cbor:"project" json:"project"`

	// Template is the template file the project was started from.
	Template string `cbor:"template,omitempty" json:"template,omitempty"`

	// Fingerprint is the template fingerprint at start time.
	Fingerprint string `cbor:"fingerprint" json:"fingerprint"`

	// StartedAt is when the start finished.
	StartedAt time.Time `cbor:"started_at" json:"started_at"`

	// Workspaces are the workspaces the project declared.
	Workspaces []string `cbor:"workspaces" json:"workspaces"`

	// Windows are the windows launched, kept or adopted.
	Windows []WindowRecord `cbor:"windows" json:"windows"`

	// OnStop are the expanded stop hooks, run by "stop" even if the
	// template has changed since.
	OnStop []string `cbor:"on_stop,omitempty" json:"on_stop,omitempty"`

	// Failed names windows that did not come up.
	Failed []string `cbor:"failed,omitempty" json:"failed,omitempty"`
}

// WindowRecord is one window of a started project.
type WindowRecord struct {
	Name      string    `cbor:"name" json:"name"`
	Workspace string    `cbor:"workspace" json:"workspace"`
	ConID     wm.NodeID `cbor:"con_id" json:"con_id"`
	XID       int64     `cbor:"xid" json:"xid"`

	// Adopted is set for windows that existed before the start.
	Adopted bool `cbor:"adopted,omitempty" json:"adopted,omitempty"`
}

// Running splits the record's windows into those still present in
// the tree and those that are gone. A container ID reused by a
// different X window counts as gone.
func Running(record *Record, root *wm.Node) (alive, gone []WindowRecord) {
	for _, window := range record.Windows {
		container := wm.FindContainer(root, window.ConID)
		if container != nil && (window.XID == 0 || container.Window == window.XID) {
			alive = append(alive, window)
		} else {
			gone = append(gone, window)
		}
	}
	return alive, gone
}

// Store is the directory of session records.
type Store struct {
	Dir   string
	Clock clock.Clock

	// LockTimeout overrides DefaultLockTimeout.
	LockTimeout time.Duration
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string, clk clock.Clock) *Store {
	return &Store{Dir: dir, Clock: clk}
}

func (s *Store) recordPath(project string) string {
	return filepath.Join(s.Dir, project+recordExtension)
}

// Lock is a held state lock.
type Lock struct {
	file *os.File
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	return errors.Join(err, closeErr)
}

// Lock takes the exclusive state lock, waiting up to the lock timeout.
func (s *Store) Lock(ctx context.Context) (*Lock, error) {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	path := filepath.Join(s.Dir, lockFileName)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	timeout := s.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	deadline := s.Clock.After(timeout)
	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &Lock{file: file}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			file.Close()
			return nil, fmt.Errorf("locking %s: %w", path, err)
		}
		select {
		case <-s.Clock.After(lockPollInterval):
		case <-deadline:
			file.Close()
			return nil, fmt.Errorf("%w (lock %s held for %v)", ErrLocked, path, timeout)
		case <-ctx.Done():
			file.Close()
			return nil, ctx.Err()
		}
	}
}

// Save writes record atomically.
func (s *Store) Save(record *Record) error {
	if record.Project == "" {
		return errors.New("record has no project name")
	}
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record for %s: %w", record.Project, err)
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	path := s.recordPath(record.Project)
	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temporary record file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary record file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary record file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary record file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming record into place: %w", err)
	}
	return nil
}

// Raw returns the encoded record for project.
func (s *Store) Raw(project string) ([]byte, error) {
	data, err := os.ReadFile(s.recordPath(project))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, project)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record for %s: %w", project, err)
	}
	return data, nil
}

// Load reads the record for project.
func (s *Store) Load(project string) (*Record, error) {
	data, err := s.Raw(project)
	if err != nil {
		return nil, err
	}
	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding record for %s: %w", project, err)
	}
	return &record, nil
}

// Delete removes the record for project. A missing record is not an
// error.
func (s *Store) Delete(project string) error {
	if err := os.Remove(s.recordPath(project)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing record for %s: %w", project, err)
	}
	return nil
}

// List returns every readable record, sorted by project. Undecodable
// files are skipped.
func (s *Store) List() ([]*Record, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	var records []*Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordExtension) {
			continue
		}
		record, err := s.Load(strings.TrimSuffix(name, recordExtension))
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Project < records[j].Project })
	return records, nil
}
