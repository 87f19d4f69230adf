// Package exitcode maps errors to process exit statuses.
package exitcode

import "errors"

// Code is a process exit status.
type Code int

const (
	OK                 Code = 0
	NoInput            Code = 1 // no input files, or none valid
	Usage              Code = 2 // bad flags or arguments
	MissingOutputDir   Code = 3
	InvalidOutputDir   Code = 4 // not a directory or not writable
	IOError            Code = 5 // read/write failure during the batch
	AppendPrecondition Code = 6 // append mode but no output file exists yet
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case NoInput:
		return "no-input"
	case Usage:
		return "usage"
	case MissingOutputDir:
		return "missing-output-dir"
	case InvalidOutputDir:
		return "invalid-output-dir"
	case IOError:
		return "io-error"
	case AppendPrecondition:
		return "append-precondition"
	default:
		return "unknown"
	}
}

// Coder is implemented by errors that know their exit status.
type Coder interface {
	ExitCode() Code
}

// For returns the exit status for err. Errors that carry no status are
// treated as I/O failures, the only unclassified failure a run can hit.
func For(err error) Code {
	if err == nil {
		return OK
	}
	var c Coder
	if errors.As(err, &c) {
		return c.ExitCode()
	}
	return IOError
}
