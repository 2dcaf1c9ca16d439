// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Template file extensions. ".yml" is preferred: it is what "new"
// writes and it wins when both exist for the same name.
const (
	Extension          = ".yml"
	alternateExtension = ".yaml"
)

var (
	// ErrNotFound is returned when no template exists for a name.
	ErrNotFound = errors.New("project not found")

	// ErrExists is returned when creating over an existing template.
	ErrExists = errors.New("project already exists")
)

// Store is the directory of project templates.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Entry is one template file in the store.
type Entry struct {
	// Name is the project name (file name without extension).
	Name string `json:"name"`

	// Path is the template file.
	Path string `json:"path"`

	// Shadowed is a second file for the same name (a ".yaml" next to a
	// ".yml") that is ignored.
	Shadowed string `json:"shadowed,omitempty"`
}

// List returns all templates sorted by name. A missing store directory
// yields an empty list.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing projects in %s: %w", s.Dir, err)
	}

	byName := make(map[string]*Entry)
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		fileName := dirEntry.Name()
		extension := filepath.Ext(fileName)
		if extension != Extension && extension != alternateExtension {
			continue
		}
		name := strings.TrimSuffix(fileName, extension)
		if ValidateName(name) != nil {
			continue
		}
		path := filepath.Join(s.Dir, fileName)

		existing, ok := byName[name]
		switch {
		case !ok:
			byName[name] = &Entry{Name: name, Path: path}
		case extension == Extension:
			existing.Shadowed = existing.Path
			existing.Path = path
		default:
			existing.Shadowed = path
		}
	}

	entries := make([]Entry, 0, len(byName))
	for _, entry := range byName {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Names returns the names of all templates.
func (s *Store) Names() ([]string, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name
	}
	return names, nil
}

// Path returns the template file for name: the existing file if there
// is one, otherwise where "new" would create it.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	preferred := filepath.Join(s.Dir, name+Extension)
	if _, err := os.Stat(preferred); err == nil {
		return preferred, nil
	}
	alternate := filepath.Join(s.Dir, name+alternateExtension)
	if _, err := os.Stat(alternate); err == nil {
		return alternate, nil
	}
	return preferred, nil
}

// Exists reports whether a template exists for name.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Read returns the raw template bytes for name.
func (s *Store) Read(name string) ([]byte, string, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, path, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, path, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, path, nil
}

// Load reads and parses the template for name. The result is not
// validated.
func (s *Store) Load(name string) (*Project, error) {
	data, path, err := s.Read(name)
	if err != nil {
		return nil, err
	}
	project, err := Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	project.Path = path
	return project, nil
}

// LoadFile reads and parses a template outside the store. The project
// name defaults to the file name without extension.
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	project, err := Parse(data, NameFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	project.Path = path
	return project, nil
}

// NameFromPath strips directory and extension: "~/p/webdev.yml" is
// "webdev".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Create writes a new template. It fails with ErrExists rather than
// overwrite.
func (s *Store) Create(name string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if s.Exists(name) {
		return "", fmt.Errorf("%w: %s", ErrExists, name)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, name+Extension)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrExists, name)
	}
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Replace atomically overwrites (or creates) the template for name.
func (s *Store) Replace(name string, data []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.Dir, err)
	}
	temporary, err := os.CreateTemp(s.Dir, "."+name+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temporary file in %s: %w", s.Dir, err)
	}
	defer os.Remove(temporary.Name())

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return "", fmt.Errorf("writing %s: %w", temporary.Name(), err)
	}
	if err := temporary.Chmod(0o644); err != nil {
		temporary.Close()
		return "", err
	}
	if err := temporary.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return "", fmt.Errorf("replacing %s: %w", path, err)
	}
	return path, nil
}

// Copy duplicates the template source as destination. A template
// without a name key is copied byte for byte, comments included; one
// with an explicit name is re-encoded with the new name.
func (s *Store) Copy(source, destination string) (string, error) {
	if err := ValidateName(destination); err != nil {
		return "", err
	}
	data, _, err := s.Read(source)
	if err != nil {
		return "", err
	}
	project, err := Parse(data, source)
	if err != nil {
		return "", fmt.Errorf("%s: %w", source, err)
	}

	output := data
	if hasExplicitName(data) {
		project.Name = destination
		output, err = Marshal(project)
		if err != nil {
			return "", err
		}
	}
	return s.Create(destination, output)
}

// hasExplicitName reports whether the template sets a top-level name
// key.
func hasExplicitName(data []byte) bool {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "name:") {
			return true
		}
	}
	return false
}

// Delete removes the template for name, including a shadowed file.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	removed := false
	for _, extension := range []string{Extension, alternateExtension} {
		path := filepath.Join(s.Dir, name+extension)
		err := os.Remove(path)
		if err == nil {
			removed = true
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
