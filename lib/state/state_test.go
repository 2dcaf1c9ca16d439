// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i3minator/i3minator/lib/clock"
	"github.com/i3minator/i3minator/lib/codec"
	"github.com/i3minator/i3minator/lib/wm"
)

func sampleRecord() *Record {
	return &Record{
		Project:     "webdev",
		Template:    "/home/me/.config/i3minator/projects/webdev.yml",
		Fingerprint: "0123abcd",
		StartedAt:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Workspaces:  []string{"1:code", "2:web"},
		Windows: []WindowRecord{
			{Name: "editor", Workspace: "1:code", ConID: 94, XID: 0x1000001},
			{Name: "browser", Workspace: "2:web", ConID: 97, XID: 0x1200003, Adopted: true},
		},
		OnStop: []string{"docker compose stop"},
	}
}

func TestSaveLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state"), clock.Real())
	record := sampleRecord()
	if err := store.Save(record); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load("webdev")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.StartedAt.Equal(record.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", loaded.StartedAt, record.StartedAt)
	}
	if len(loaded.Windows) != 2 || loaded.Windows[1] != record.Windows[1] {
		t.Errorf("Windows = %+v", loaded.Windows)
	}
	if loaded.OnStop[0] != "docker compose stop" {
		t.Errorf("OnStop = %v", loaded.OnStop)
	}

	raw, err := store.Raw("webdev")
	if err != nil {
		t.Fatal(err)
	}
	diagnostic, err := codec.Diagnose(raw)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if diagnostic == "" {
		t.Error("empty diagnostic output")
	}

	if _, err := os.Stat(filepath.Join(store.Dir, "webdev.cbor.tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file left behind")
	}
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), clock.Real())
	if _, err := store.Load("nothing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load error = %v, want ErrNotFound", err)
	}
	if err := store.Delete("nothing"); err != nil {
		t.Errorf("Delete of missing record: %v", err)
	}
}

func TestListSkipsJunk(t *testing.T) {
	store := NewStore(t.TempDir(), clock.Real())
	for _, name := range []string{"zeta", "alpha"} {
		record := sampleRecord()
		record.Project = name
		if err := store.Save(record); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(store.Dir, "broken.cbor"), []byte{0xff, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Project != "alpha" || records[1].Project != "zeta" {
		t.Errorf("List = %v", records)
	}

	if err := store.Delete("alpha"); err != nil {
		t.Fatal(err)
	}
	records, _ = store.List()
	if len(records) != 1 {
		t.Errorf("List after Delete = %d records", len(records))
	}
}

func TestLockExcludes(t *testing.T) {
	dir := t.TempDir()
	first := NewStore(dir, clock.Real())
	second := NewStore(dir, clock.Real())
	second.LockTimeout = 100 * time.Millisecond

	lock, err := first.Lock(context.Background())
	if err != nil {
		t.Fatalf("first Lock: %v", err)
	}
	if _, err := second.Lock(context.Background()); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Lock error = %v, want ErrLocked", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	again, err := second.Lock(context.Background())
	if err != nil {
		t.Fatalf("Lock after Unlock: %v", err)
	}
	again.Unlock()
}

func TestRunning(t *testing.T) {
	record := sampleRecord()
	root := &wm.Node{ID: 1, Nodes: []*wm.Node{
		{ID: 94, Window: 0x1000001},
		// Container 97 now holds a different X window.
		{ID: 97, Window: 0x1500000},
	}}
	alive, gone := Running(record, root)
	if len(alive) != 1 || alive[0].Name != "editor" {
		t.Errorf("alive = %+v", alive)
	}
	if len(gone) != 1 || gone[0].Name != "browser" {
		t.Errorf("gone = %+v", gone)
	}
}
