package watcher

import (
	"path/filepath"
	"sort"
)

// InputSet is the set of watched input files, keyed by absolute path.
type InputSet struct {
	paths map[string]struct{}
}

// NewInputSet resolves paths to absolute form.
func NewInputSet(paths []string) (*InputSet, error) {
	s := &InputSet{paths: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		s.paths[filepath.Clean(abs)] = struct{}{}
	}
	return s, nil
}

// Contains reports whether path refers to one of the inputs.
func (s *InputSet) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := s.paths[filepath.Clean(abs)]
	return ok
}

// Dirs returns the distinct parent directories of the inputs, sorted.
// Watching directories instead of files keeps working when an editor
// replaces a file by renaming over it.
func (s *InputSet) Dirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	for p := range s.paths {
		dir := filepath.Dir(p)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Paths returns the absolute input paths, sorted.
func (s *InputSet) Paths() []string {
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of inputs.
func (s *InputSet) Len() int {
	return len(s.paths)
}
