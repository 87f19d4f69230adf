package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"filefilter/internal/exitcode"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_MissingIsNotAnError(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Output.Dir != nil || cfg.Stats.Full != nil {
		t.Error("expected empty config")
	}
}

func TestLoadFile_ParsesValues(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[output]
dir = "/tmp/out"
prefix = "run_"
append = true

[stats]
full = true

[audit]
dir = "/tmp/audit"
rotation-size = 2048

[watch]
debounce-ms = 250
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Output.Dir == nil || *cfg.Output.Dir != "/tmp/out" {
		t.Errorf("unexpected output dir %v", cfg.Output.Dir)
	}
	if cfg.Output.Prefix == nil || *cfg.Output.Prefix != "run_" {
		t.Errorf("unexpected prefix %v", cfg.Output.Prefix)
	}
	if cfg.Output.Append == nil || !*cfg.Output.Append {
		t.Error("expected append = true")
	}
	if cfg.Stats.Short != nil {
		t.Error("expected short to stay unset")
	}
	if cfg.Stats.Full == nil || !*cfg.Stats.Full {
		t.Error("expected full = true")
	}
	if cfg.Audit.RotationSize == nil || *cfg.Audit.RotationSize != 2048 {
		t.Errorf("unexpected rotation size %v", cfg.Audit.RotationSize)
	}
	if cfg.Watch.DebounceMs == nil || *cfg.Watch.DebounceMs != 250 {
		t.Errorf("unexpected debounce %v", cfg.Watch.DebounceMs)
	}
}

func TestLoadFile_InvalidTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", "[output\ndir = ")

	_, err := LoadFile(path)
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cerr.Type != InvalidTOML {
		t.Errorf("expected %s, got %s", InvalidTOML, cerr.Type)
	}
	if exitcode.For(err) != exitcode.Usage {
		t.Errorf("expected usage exit code, got %v", exitcode.For(err))
	}
}

func TestDefaultConfigPath_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	want := filepath.Join("/xdg", "filefilter", "config.toml")
	if got := DefaultConfigPath(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestValidateInputs(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "in1.txt", "1\n")
	empty := writeFile(t, dir, "empty.txt", "")
	missing := filepath.Join(dir, "in44.txt")

	result, err := ValidateInputs([]string{valid, missing, empty, dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Valid) != 1 || result.Valid[0] != valid {
		t.Errorf("expected only %s to be valid, got %v", valid, result.Valid)
	}
	if len(result.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", result.Warnings)
	}

	want := []struct {
		kind WarningKind
		msg  string
	}{
		{InputMissing, "does not exist"},
		{InputEmpty, "is empty"},
		{InputDirectory, "is a directory"},
	}
	for i, w := range result.Warnings {
		if w.Kind != want[i].kind || w.Message != want[i].msg {
			t.Errorf("warning %d = %v %q, want %v %q", i, w.Kind, w.Message, want[i].kind, want[i].msg)
		}
	}
}

func TestValidateInputs_Errors(t *testing.T) {
	_, err := ValidateInputs(nil)
	if exitcode.For(err) != exitcode.NoInput {
		t.Errorf("expected NoInput for empty list, got %v", err)
	}

	dir := t.TempDir()
	empty := writeFile(t, dir, "corrupt.txt", "")
	result, err := ValidateInputs([]string{empty})
	var cerr *ConfigError
	if !errors.As(err, &cerr) || cerr.Type != NoValidInputFiles {
		t.Fatalf("expected NoValidInputFiles, got %v", err)
	}
	if exitcode.For(err) != exitcode.NoInput {
		t.Errorf("expected NoInput exit code, got %v", exitcode.For(err))
	}
	if result == nil || len(result.Warnings) != 1 {
		t.Error("expected the dropped file to be reported")
	}
}

func TestValidateOutputDir(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", "x")

	tests := []struct {
		name string
		dir  string
		want exitcode.Code
	}{
		{"valid", dir, exitcode.OK},
		{"empty", "", exitcode.MissingOutputDir},
		{"missing", filepath.Join(dir, "invalid_dir"), exitcode.InvalidOutputDir},
		{"not a directory", file, exitcode.InvalidOutputDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitcode.For(ValidateOutputDir(tt.dir)); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
