// Package config handles run options, the optional TOML config file and
// validation of input files and the output directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"filefilter/internal/exitcode"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound      ConfigErrorType = "FILE_NOT_FOUND"
	InvalidTOML       ConfigErrorType = "INVALID_TOML"
	NoInputFiles      ConfigErrorType = "NO_INPUT_FILES"
	NoValidInputFiles ConfigErrorType = "NO_VALID_INPUT_FILES"
	MissingOutputDir  ConfigErrorType = "MISSING_OUTPUT_DIR"
	InvalidOutputDir  ConfigErrorType = "INVALID_OUTPUT_DIR"
)

// ConfigError represents an error detected before any output file is touched.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not readable: %s: %s", e.Path, e.Message)
	case InvalidTOML:
		return fmt.Sprintf("invalid TOML in configuration file %s: %s", e.Path, e.Message)
	case NoInputFiles:
		return "no input files given"
	case NoValidInputFiles:
		return "none of the input files can be processed"
	case MissingOutputDir:
		return "output directory is not set"
	case InvalidOutputDir:
		return fmt.Sprintf("%s: %s", e.Message, e.Path)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// ExitCode maps the error type to the process exit status.
func (e *ConfigError) ExitCode() exitcode.Code {
	switch e.Type {
	case NoInputFiles, NoValidInputFiles:
		return exitcode.NoInput
	case MissingOutputDir:
		return exitcode.MissingOutputDir
	case InvalidOutputDir:
		return exitcode.InvalidOutputDir
	default:
		return exitcode.Usage
	}
}

// Options are the validated inputs of one batch run.
type Options struct {
	InputFiles []string
	OutputDir  string
	Prefix     string
	ShortStats bool
	FullStats  bool
	AppendMode bool
	DryRun     bool
	Verbose    bool
	AuditDir   string

	// AuditRotationSize rotates the audit log once it reaches this many bytes.
	AuditRotationSize int64
}

const (
	DefaultOutputDir         = "./"
	DefaultAuditRotationSize = 10 * 1024 * 1024
	DefaultWatchDebounceMs   = 500
)

// DefaultOptions returns Options with the command-line defaults applied.
func DefaultOptions() Options {
	return Options{
		OutputDir:         DefaultOutputDir,
		AuditRotationSize: DefaultAuditRotationSize,
	}
}

// FileConfig represents the TOML configuration file. Unset keys stay nil so
// that only values present in the file override flag defaults.
type FileConfig struct {
	Output OutputConfig `toml:"output"`
	Stats  StatsConfig  `toml:"stats"`
	Audit  AuditConfig  `toml:"audit"`
	Watch  WatchConfig  `toml:"watch"`
}

// OutputConfig maps output-related settings.
type OutputConfig struct {
	Dir    *string `toml:"dir"`
	Prefix *string `toml:"prefix"`
	Append *bool   `toml:"append"`
}

// StatsConfig maps statistics verbosity settings.
type StatsConfig struct {
	Short *bool `toml:"short"`
	Full  *bool `toml:"full"`
}

// AuditConfig maps audit trail settings.
type AuditConfig struct {
	Dir          *string `toml:"dir"`
	RotationSize *int64  `toml:"rotation-size"`
}

// WatchConfig maps watch mode settings.
type WatchConfig struct {
	DebounceMs *int `toml:"debounce-ms"`
}

// LoadFile reads a TOML config from path. A missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, &ConfigError{Type: FileNotFound, Path: path, Message: err.Error()}
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, &ConfigError{Type: InvalidTOML, Path: path, Message: err.Error()}
	}
	return cfg, nil
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "filefilter", "config.toml")
}
