// Package output handles CLI output: plain messages, verbose diagnostics,
// progress, run summaries and the history table.
package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Messages and summaries (default: os.Stdout)
	ErrWriter io.Writer // Errors, warnings and logs (default: os.Stderr)
	IsTTY     bool      // Writer is a terminal
}

// Output writes user-facing text. Progress is drawn on a single line that
// is erased before any other message is printed.
type Output struct {
	config Config

	mu       sync.Mutex
	progress *progressLine
}

// progressLine is the in-place "Reading input n/total" indicator.
type progressLine struct {
	total int
	width int // display width of the last rendering
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Logger returns a structured logger writing to the error writer. Debug
// records are emitted only in verbose mode.
func (o *Output) Logger() *slog.Logger {
	level := slog.LevelWarn
	if o.config.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(o.config.ErrWriter, &slog.HandlerOptions{Level: level}))
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.print(o.config.Writer, format, args...)
}

// Info prints a message to stdout.
func (o *Output) Info(format string, args ...interface{}) {
	o.print(o.config.Writer, format, args...)
}

// Error prints a message to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.print(o.config.ErrWriter, format, args...)
}

// Warn prints a warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.print(o.config.ErrWriter, "Warning: "+format, args...)
}

func (o *Output) print(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.eraseProgressLocked()
	fmt.Fprint(w, msg)
}

// showProgress reports whether the progress line is drawn at all. Verbose
// mode prints per-input details instead.
func (o *Output) showProgress() bool {
	return o.config.IsTTY && !o.config.Verbose
}

// StartProgress begins a progress line over total inputs.
func (o *Output) StartProgress(total int) {
	if !o.showProgress() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = &progressLine{total: total}
}

// UpdateProgress redraws the progress line after done inputs.
func (o *Output) UpdateProgress(done int) {
	if !o.showProgress() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.progress == nil {
		return
	}
	text := fmt.Sprintf("Reading input %d/%d...", done, o.progress.total)
	pad := o.progress.width - runewidth.StringWidth(text)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprint(o.config.Writer, "\r"+text+strings.Repeat(" ", pad))
	o.progress.width = runewidth.StringWidth(text) + pad
}

// EndProgress erases the progress line.
func (o *Output) EndProgress() {
	if !o.showProgress() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.eraseProgressLocked()
	o.progress = nil
}

func (o *Output) eraseProgressLocked() {
	if o.progress == nil || o.progress.width == 0 {
		return
	}
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", o.progress.width)+"\r")
	o.progress.width = 0
}
