package composeenv

import (
	"github.com/giantswarm/composeenv/internal/compose"
	"github.com/giantswarm/composeenv/internal/core"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrNotIdle is returned by Setup while a previous stack of the same
	// harness is still up or being torn down.
	ErrNotIdle = core.ErrNotIdle

	// ErrEmptyStackName is returned by Setup when no stack name was
	// supplied by either configuration source.
	ErrEmptyStackName = core.ErrEmptyStackName

	// ErrNoFiles is returned by Setup when no stack definition file was
	// supplied by either configuration source.
	ErrNoFiles = core.ErrNoFiles

	// ErrEmptyTestClass is returned by Setup when no test class identifier
	// was supplied.
	ErrEmptyTestClass = core.ErrEmptyTestClass

	// ErrEmptyTestMethod is returned by Setup under ScopeMethod when no
	// test method identifier was supplied.
	ErrEmptyTestMethod = core.ErrEmptyTestMethod

	// ErrFileNotFound is wrapped into Setup errors when a configured stack
	// definition or env file does not exist. The error names the path.
	ErrFileNotFound = compose.ErrFileNotFound

	// ErrUnknownService is wrapped into Setup errors when a wait target
	// names a service not declared in the definition files.
	ErrUnknownService = compose.ErrUnknownService

	// ErrInvalidPropertyValue is wrapped into Setup errors when a property
	// override cannot be parsed. The error names the property key.
	ErrInvalidPropertyValue = core.ErrInvalidPropertyValue
)

// Error types for inspection with errors.As. All are type aliases so values
// produced by the internal packages match directly.
type (
	// ConflictError reports a configuration field supplied by both
	// declared options and a property override.
	ConflictError = core.ConflictError

	// StartError reports a failed stack start, carrying the engine's exit
	// code and captured stderr.
	StartError = compose.StartError

	// StopError reports a failed stack stop. It is returned only by
	// explicit callers; Cleanup logs and swallows it.
	StopError = compose.StopError

	// TimeoutError reports a readiness wait that exhausted its budget,
	// naming every unsatisfied service.
	TimeoutError = compose.TimeoutError
)
