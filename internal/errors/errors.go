// Package errors defines the error kinds produced while checking packages and
// the exit codes they map to.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for scripting integration.
const (
	// ExitSuccess indicates every package was checked (and updated, if asked) without error.
	ExitSuccess = 0

	// ExitPartialFailure indicates at least one lookup or update failed.
	// Other packages in the same run were still processed.
	ExitPartialFailure = 1

	// ExitFailure indicates the run could not proceed: bad input, flags or config.
	ExitFailure = 2

	// ExitOutdated indicates outdated packages were found and --fail-on-outdated was set.
	ExitOutdated = 3
)

// ErrPackageNotFound is wrapped by LookupError when the index has no such package.
var ErrPackageNotFound = errors.New("package not found")

// ParseError reports an input that could not be turned into package specs.
// It aborts the run.
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.File
	if loc == "" {
		loc = "input"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return fmt.Sprintf("parse error at %s: %s", loc, msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LookupError reports that the latest version of a package could not be determined.
type LookupError struct {
	Package string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Package, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// UpdateError reports a failed package manager invocation.
type UpdateError struct {
	Package string
	Version string
	Output  string
	Err     error
}

func (e *UpdateError) Error() string {
	target := e.Package
	if e.Version != "" {
		target += " to " + e.Version
	}
	return fmt.Sprintf("update %s: %v", target, e.Err)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and underlying error.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// GetExitCode extracts the exit code from an error.
//
// nil maps to ExitSuccess, an ExitError to its code, a ParseError to ExitFailure,
// lookup and update errors to ExitPartialFailure, and anything else to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var lookupErr *LookupError
	var updateErr *UpdateError
	if errors.As(err, &lookupErr) || errors.As(err, &updateErr) {
		return ExitPartialFailure
	}

	return ExitFailure
}

// IsNotFound reports whether err means the index does not know the package.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPackageNotFound)
}
