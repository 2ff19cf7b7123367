// errors.go
package onepkg

import "github.com/arc-language/onepkg/pkg/core"

// Error kinds, matched with errors.Is
var (
	ErrConfigDirUnavailable = core.ErrConfigDirUnavailable
	ErrIoFailure            = core.ErrIoFailure
	ErrNetworkFailure       = core.ErrNetworkFailure
	ErrParseFailure         = core.ErrParseFailure
	ErrPackageNotFound      = core.ErrPackageNotFound
	ErrNoInstallCandidate   = core.ErrNoInstallCandidate
	ErrAmbiguousSelection   = core.ErrAmbiguousSelection
	ErrBackendExecution     = core.ErrBackendExecution
	ErrDependencyFailure    = core.ErrDependencyFailure
	ErrBuildStepFailure     = core.ErrBuildStepFailure
)

// Error wraps an error kind with the operation and package it came from
type Error = core.Error

// KindOf returns the error kind of err, or nil if it carries none
func KindOf(err error) error {
	return core.KindOf(err)
}
