package core

import (
	"errors"
	"time"

	"github.com/giantswarm/composeenv/internal/sentinel"
)

// Validation errors returned by Config.Validate, combined via errors.Join.
const (
	ErrEmptyStackName    = sentinel.Error("stack name must not be empty")
	ErrNoFiles           = sentinel.Error("at least one stack definition file is required")
	ErrEmptyTestClass    = sentinel.Error("test class identifier must not be empty")
	ErrEmptyTestMethod   = sentinel.Error("test method identifier is required under method scope")
	ErrInvalidScope      = sentinel.Error("scope must be class or method")
	ErrTimeoutInvalid    = sentinel.Error("readiness timeout must be positive")
	ErrIntervalInvalid   = sentinel.Error("poll interval must be positive")
	ErrEmptyOutputDir    = sentinel.Error("output directory must not be empty")
	ErrEmptyBaseDataDir  = sentinel.Error("base data directory must not be empty")
	ErrNoComposeCommand  = sentinel.Error("compose command must not be empty")
	ErrEmptyEngineBinary = sentinel.Error("engine binary must not be empty")
)

// Scope selects how long one stack instance lives relative to the test suite.
type Scope int

const (
	// ScopeUnspecified means neither the declared configuration nor the
	// property overrides named a scope; resolution applies ScopeClass.
	ScopeUnspecified Scope = iota
	// ScopeClass shares one stack instance across all tests of a class.
	ScopeClass
	// ScopeMethod gives each test method its own stack instance.
	ScopeMethod
)

// String returns the lifecycle wire form of the scope ("class" or "method").
func (s Scope) String() string {
	switch s {
	case ScopeClass:
		return "class"
	case ScopeMethod:
		return "method"
	case ScopeUnspecified:
		return "unspecified"
	default:
		return "unknown"
	}
}

// ParseScope converts a lifecycle string to a Scope.
func ParseScope(v string) (Scope, error) {
	switch v {
	case "class":
		return ScopeClass, nil
	case "method":
		return ScopeMethod, nil
	default:
		return ScopeUnspecified, ErrInvalidScope
	}
}

// Config is the declared stack configuration before resolution. Zero values
// mean "not declared"; Resolve fills them from property overrides or
// defaults. Only a resolved Config passes Validate.
type Config struct {
	// StackName is the logical stack identity. Required after resolution.
	StackName string
	// Files are the stack definition files, applied in order.
	Files []string
	// EnvFiles are engine env files passed through to every invocation.
	EnvFiles []string
	// ProjectName overrides the base used for unique project naming.
	// Defaults to StackName.
	ProjectName string
	// Scope selects class- or method-scoped stack lifetime.
	Scope Scope
	// TestClass identifies the owning test class. Required.
	TestClass string
	// TestMethod identifies the owning test method. Required under
	// ScopeMethod, ignored under ScopeClass.
	TestMethod string
	// WaitForRunning lists services that must reach a running status.
	WaitForRunning []string
	// WaitForHealthy lists services that must report a healthy status.
	WaitForHealthy []string
	// Timeout bounds each readiness wait.
	Timeout time.Duration
	// PollInterval separates readiness checks.
	PollInterval time.Duration
	// OutputDir is where state files are written.
	OutputDir string
	// BaseDataDir holds composeenv's own bookkeeping (the stack registry).
	BaseDataDir string
	// ComposeCommand is the engine compose invocation, e.g. docker compose.
	ComposeCommand []string
	// EngineBinary is the container engine CLI used for raw container
	// operations outside compose, e.g. docker.
	EngineBinary string
	// CommandTimeout bounds each engine process invocation.
	CommandTimeout time.Duration
	// Env is extra environment for engine invocations, for compose file
	// variable interpolation.
	Env map[string]string
}

// Validate checks a resolved configuration. All violations are reported at
// once via errors.Join.
func (c Config) Validate() error {
	var errs []error
	if c.StackName == "" {
		errs = append(errs, ErrEmptyStackName)
	}
	if len(c.Files) == 0 {
		errs = append(errs, ErrNoFiles)
	}
	if c.TestClass == "" {
		errs = append(errs, ErrEmptyTestClass)
	}
	switch c.Scope {
	case ScopeClass:
	case ScopeMethod:
		if c.TestMethod == "" {
			errs = append(errs, ErrEmptyTestMethod)
		}
	default:
		errs = append(errs, ErrInvalidScope)
	}
	if c.Timeout <= 0 {
		errs = append(errs, ErrTimeoutInvalid)
	}
	if c.PollInterval <= 0 {
		errs = append(errs, ErrIntervalInvalid)
	}
	if c.OutputDir == "" {
		errs = append(errs, ErrEmptyOutputDir)
	}
	if c.BaseDataDir == "" {
		errs = append(errs, ErrEmptyBaseDataDir)
	}
	if len(c.ComposeCommand) == 0 {
		errs = append(errs, ErrNoComposeCommand)
	}
	if c.EngineBinary == "" {
		errs = append(errs, ErrEmptyEngineBinary)
	}
	return errors.Join(errs...)
}
