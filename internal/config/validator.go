package config

import (
	"errors"
	"io/fs"
	"os"
)

// WarningKind classifies why an input was dropped.
type WarningKind int

const (
	InputMissing WarningKind = iota
	InputUnreadable
	InputDirectory
	InputEmpty
)

// InputWarning describes an input file that was dropped during validation.
type InputWarning struct {
	Path    string
	Kind    WarningKind
	Message string
}

func (w InputWarning) String() string {
	return "file " + w.Path + " " + w.Message + ", skipping"
}

// InputValidation lists the usable inputs and the ones that were dropped.
type InputValidation struct {
	Valid    []string
	Warnings []InputWarning
}

// ValidateInputs keeps the paths that exist, are readable regular files and
// are not empty, preserving order. It fails when paths is empty or when no
// path survives.
func ValidateInputs(paths []string) (*InputValidation, error) {
	if len(paths) == 0 {
		return nil, &ConfigError{Type: NoInputFiles}
	}

	result := &InputValidation{}
	for _, path := range paths {
		if kind, msg := checkInput(path); msg != "" {
			result.Warnings = append(result.Warnings, InputWarning{Path: path, Kind: kind, Message: msg})
			continue
		}
		result.Valid = append(result.Valid, path)
	}

	if len(result.Valid) == 0 {
		return result, &ConfigError{Type: NoValidInputFiles}
	}
	return result, nil
}

func checkInput(path string) (WarningKind, string) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return InputMissing, "does not exist"
		}
		return InputUnreadable, "is not accessible"
	}
	if info.IsDir() {
		return InputDirectory, "is a directory"
	}

	f, err := os.Open(path)
	if err != nil {
		return InputUnreadable, "is not readable"
	}
	f.Close()

	if info.Size() == 0 {
		return InputEmpty, "is empty"
	}
	return 0, ""
}

// ValidateOutputDir checks that dir is set, exists, is a directory and is writable.
func ValidateOutputDir(dir string) error {
	if dir == "" {
		return &ConfigError{Type: MissingOutputDir}
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return &ConfigError{Type: InvalidOutputDir, Path: dir, Message: "output path is not a directory"}
	}

	if !isWritableDir(dir) {
		return &ConfigError{Type: InvalidOutputDir, Path: dir, Message: "output directory is not writable"}
	}
	return nil
}
