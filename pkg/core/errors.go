// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure surfaced by onepkg matches exactly one of these
// through errors.Is.
var (
	// ErrConfigDirUnavailable indicates no configuration directory could be determined
	ErrConfigDirUnavailable = errors.New("config directory unavailable")

	// ErrIoFailure indicates a local filesystem operation failed
	ErrIoFailure = errors.New("io failure")

	// ErrNetworkFailure indicates a download or clone failed
	ErrNetworkFailure = errors.New("network failure")

	// ErrParseFailure indicates the package catalog is malformed
	ErrParseFailure = errors.New("parse failure")

	// ErrPackageNotFound indicates no catalog entry matches the name
	ErrPackageNotFound = errors.New("package not found")

	// ErrNoInstallCandidate indicates the entry exists but offers no format
	ErrNoInstallCandidate = errors.New("no install candidate")

	// ErrAmbiguousSelection indicates no install method could be selected
	ErrAmbiguousSelection = errors.New("ambiguous or invalid selection")

	// ErrBackendExecution indicates an external package manager failed
	ErrBackendExecution = errors.New("backend execution failure")

	// ErrDependencyFailure indicates a source build dependency failed to install
	ErrDependencyFailure = errors.New("dependency failure")

	// ErrBuildStepFailure indicates a source build step exited non-zero
	ErrBuildStepFailure = errors.New("build step failure")
)

// Error wraps an error kind with the context needed to diagnose it
type Error struct {
	Kind       error  // One of the Err* kinds above
	Op         string // Operation that failed (install, uninstall, sync, ...)
	Package    string // Package name if applicable
	Backend    string // External tool name if applicable
	Dependency string // Failed dependency for ErrDependencyFailure
	Step       int    // 1-based build step for ErrBuildStepFailure
	ExitCode   int    // Exit status of the external tool, -1 if it never ran
	Err        error  // Underlying error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Package != "" {
		b.WriteString(" ")
		b.WriteString(e.Package)
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())

	var details []string
	if e.Dependency != "" {
		details = append(details, "dependency "+e.Dependency)
	}
	if e.Backend != "" {
		details = append(details, "backend "+e.Backend)
	}
	if e.Step > 0 {
		details = append(details, fmt.Sprintf("step %d", e.Step))
	}
	if e.Kind == ErrBackendExecution || e.Kind == ErrBuildStepFailure {
		details = append(details, fmt.Sprintf("exit status %d", e.ExitCode))
	}
	if len(details) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(details, ", "))
		b.WriteString(")")
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Errorf builds an *Error of the given kind with a formatted cause
func Errorf(kind error, op, pkg, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Package: pkg, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain, or nil
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}
