// Package project implements the ProjectResolver: a persisted registry
// mapping project names to absolute path prefixes (spec.md §4.1).
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/go-ports/mnemo/internal/merr"
)

// Record is one registry entry.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Paths       []string  `json:"paths"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Registry is the persisted name -> Record mapping, loaded once per process
// and re-persisted atomically on every mutation (spec.md §5).
type Registry struct {
	path    string
	entries map[string]*Record
	order   []string // insertion order, for detect() tie-breaking
}

// Load reads the registry at path, or returns an empty Registry if the
// file does not exist.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path, entries: make(map[string]*Record)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("project: invalid registry json: %w", err)
	}
	for _, rec := range records {
		r.entries[rec.Name] = rec
		r.order = append(r.order, rec.Name)
	}
	return r, nil
}

// save persists the registry atomically (temp file + rename).
func (r *Registry) save() error {
	records := make([]*Record, 0, len(r.order))
	for _, name := range r.order {
		records = append(records, r.entries[name])
	}
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// Create registers a new project. Fails with merr.ErrAlreadyExists if name
// is already registered.
func (r *Registry) Create(name, path, description string) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: project name is empty", merr.ErrInvalidInput)
	}
	if _, exists := r.entries[name]; exists {
		return nil, fmt.Errorf("%w: project %q", merr.ErrAlreadyExists, name)
	}

	var paths []string
	if path != "" {
		abs, err := canonicalize(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", merr.ErrInvalidInput, err)
		}
		paths = []string{abs}
	}

	rec := &Record{
		ID:          uuid.NewString(),
		Name:        name,
		Paths:       paths,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	r.entries[name] = rec
	r.order = append(r.order, name)
	return rec, r.save()
}

// AddPath registers an additional path prefix under an existing project.
// Fails with merr.ErrAlreadyExists if the path is already registered under
// name, merr.ErrNotFound if name doesn't exist.
func (r *Registry) AddPath(name, path string) error {
	rec, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: project %q", merr.ErrNotFound, name)
	}
	abs, err := canonicalize(path)
	if err != nil {
		return fmt.Errorf("%w: %v", merr.ErrInvalidInput, err)
	}
	for _, p := range rec.Paths {
		if p == abs {
			return fmt.Errorf("%w: path %q already registered under %q", merr.ErrAlreadyExists, abs, name)
		}
	}
	rec.Paths = append(rec.Paths, abs)
	return r.save()
}

// Delete removes the mapping for name. It does not touch stored memories
// (spec.md §4.1). Fails with merr.ErrNotFound if name doesn't exist.
func (r *Registry) Delete(name string) error {
	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%w: project %q", merr.ErrNotFound, name)
	}
	delete(r.entries, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return r.save()
}

// UpdateDescription sets the description for an existing project.
func (r *Registry) UpdateDescription(name, description string) error {
	rec, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: project %q", merr.ErrNotFound, name)
	}
	rec.Description = description
	return r.save()
}

// Get returns the record for name.
func (r *Registry) Get(name string) (*Record, error) {
	rec, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: project %q", merr.ErrNotFound, name)
	}
	return rec, nil
}

// List returns all records in registry insertion order.
func (r *Registry) List() []*Record {
	out := make([]*Record, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}
	return out
}

// Detect returns the name of the first project whose any path is a prefix
// of the canonicalized cwd, in registry insertion order. Returns ("", false)
// if no project matches.
func (r *Registry) Detect(cwd string) (string, bool) {
	abs, err := canonicalize(cwd)
	if err != nil {
		return "", false
	}
	for _, name := range r.order {
		rec := r.entries[name]
		for _, p := range rec.Paths {
			if abs == p || strings.HasPrefix(abs, p+string(filepath.Separator)) {
				return name, true
			}
		}
	}
	return "", false
}

// canonicalize resolves symlinks and makes path absolute, so registry
// comparisons are insensitive to relative-path or symlink variation.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
