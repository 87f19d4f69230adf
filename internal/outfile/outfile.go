// Package outfile manages the lifecycle of the per-category output files.
package outfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"filefilter/internal/classifier"
)

// State is the per-run lifecycle state of one output file.
type State int

const (
	// NotCreated means the next write must create or truncate the file first.
	NotCreated State = iota
	// Created means writes append to the file.
	Created
)

func (s State) String() string {
	if s == Created {
		return "created"
	}
	return "not-created"
}

// WriteErrorType represents the type of write error.
type WriteErrorType string

const (
	// CreateFailed indicates the file could not be created or truncated.
	CreateFailed WriteErrorType = "CREATE_FAILED"
	// AppendFailed indicates a line could not be appended.
	AppendFailed WriteErrorType = "APPEND_FAILED"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied WriteErrorType = "PERMISSION_DENIED"
)

// WriteError represents an error that occurred while writing an output file.
type WriteError struct {
	Type WriteErrorType
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Target is one category's destination file and its state.
type Target struct {
	Category classifier.Category
	Path     string
	State    State
}

// Set holds the three output targets for the lifetime of one run.
type Set struct {
	fs      afero.Fs
	targets map[classifier.Category]*Target
}

// NewSet creates targets <dir>/<prefix><name> for every category, all NotCreated.
func NewSet(fsys afero.Fs, dir, prefix string) *Set {
	s := &Set{
		fs:      fsys,
		targets: make(map[classifier.Category]*Target, len(classifier.Categories)),
	}
	for _, cat := range classifier.Categories {
		s.targets[cat] = &Target{
			Category: cat,
			Path:     filepath.Join(dir, prefix+cat.FileName()),
			State:    NotCreated,
		}
	}
	return s
}

// SeedFromDisk marks every target whose file already exists as Created, so
// that writes append to it. It reports whether any target existed.
func (s *Set) SeedFromDisk() (bool, error) {
	anyExists := false
	for _, cat := range classifier.Categories {
		t := s.targets[cat]
		exists, err := afero.Exists(s.fs, t.Path)
		if err != nil {
			return false, fmt.Errorf("failed to stat %s: %w", t.Path, err)
		}
		if exists {
			t.State = Created
			anyExists = true
		}
	}
	return anyExists, nil
}

// Append writes line plus a newline to the category's file. The first write
// for a NotCreated target creates or truncates the file; created reports
// whether that happened on this call. Each call opens and closes the file.
func (s *Set) Append(cat classifier.Category, line string) (created bool, err error) {
	t, ok := s.targets[cat]
	if !ok {
		return false, fmt.Errorf("no output file for category %s", cat)
	}

	if t.State == NotCreated {
		if err := s.truncate(t.Path); err != nil {
			return false, err
		}
		t.State = Created
		created = true
	}

	f, err := s.fs.OpenFile(t.Path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return created, wrapWriteError(AppendFailed, t.Path, err)
	}
	if _, err := f.Write([]byte(line + "\n")); err != nil {
		f.Close()
		return created, wrapWriteError(AppendFailed, t.Path, err)
	}
	if err := f.Close(); err != nil {
		return created, wrapWriteError(AppendFailed, t.Path, err)
	}
	return created, nil
}

func (s *Set) truncate(path string) error {
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return wrapWriteError(CreateFailed, path, err)
	}
	if err := f.Close(); err != nil {
		return wrapWriteError(CreateFailed, path, err)
	}
	return nil
}

// Target returns a copy of the category's target.
func (s *Set) Target(cat classifier.Category) Target {
	if t, ok := s.targets[cat]; ok {
		return *t
	}
	return Target{Category: cat}
}

// Targets returns copies of all targets in category order.
func (s *Set) Targets() []Target {
	out := make([]Target, 0, len(classifier.Categories))
	for _, cat := range classifier.Categories {
		out = append(out, *s.targets[cat])
	}
	return out
}

func wrapWriteError(kind WriteErrorType, path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		kind = PermissionDenied
	}
	return &WriteError{Type: kind, Path: path, Err: err}
}
