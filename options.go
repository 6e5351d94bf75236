package composeenv

import (
	"fmt"
	"maps"
	"time"

	"github.com/giantswarm/composeenv/internal/core"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("composeenv: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("composeenv: %s must not be empty", name))
	}
}

// Scope selects how long one stack instance lives relative to the test
// suite.
//
// Scope is a type alias (not a named type) so that the underlying
// [core.Scope] String method is part of the public API without
// redeclaration.
type Scope = core.Scope

const (
	// ScopeClass shares one stack instance across all tests of a class.
	// This is the default.
	ScopeClass = core.ScopeClass

	// ScopeMethod gives each test method its own stack instance. Requires
	// WithTestMethod.
	ScopeMethod = core.ScopeMethod
)

// Option configures a Harness during construction via New. Each With*
// function returns an Option that sets a specific field.
//
// Several With* functions panic on invalid input (empty names, non-positive
// durations). These panics are intentional: option values are typically
// compile-time constants, so an invalid value indicates a programmer error
// rather than a runtime condition. The pattern mirrors [regexp.MustCompile],
// failing fast during initialization instead of returning errors that would
// be universally fatal anyway.
//
// Option values count as declared configuration: a field set through an
// option and also through a property override is a conflict reported by
// Setup.
type Option func(*stackConfig)

// WithStackName sets the logical stack identity. It keys the state-file
// location and, unless WithProjectName is used, seeds the unique project
// name. Panics if name is empty.
func WithStackName(name string) Option {
	requireNonEmpty("stack name", name)
	return func(c *stackConfig) {
		c.StackName = name
	}
}

// WithFiles sets the stack definition files, applied in the given order.
// Later files override earlier ones, following engine semantics. Every file
// must exist at Setup time. Panics if no file or an empty path is given.
func WithFiles(files ...string) Option {
	if len(files) == 0 {
		panic("composeenv: at least one stack definition file is required")
	}
	for _, f := range files {
		requireNonEmpty("stack definition file path", f)
	}
	return func(c *stackConfig) {
		c.Files = append([]string(nil), files...)
	}
}

// WithEnvFiles sets engine env files passed to every compose invocation for
// variable interpolation. Panics if an empty path is given.
func WithEnvFiles(files ...string) Option {
	for _, f := range files {
		requireNonEmpty("env file path", f)
	}
	return func(c *stackConfig) {
		c.EnvFiles = append([]string(nil), files...)
	}
}

// WithProjectName overrides the base used for unique project naming.
// Defaults to the stack name. The final project name additionally carries
// the test identifiers and a timestamp suffix. Panics if name is empty.
func WithProjectName(name string) Option {
	requireNonEmpty("project name", name)
	return func(c *stackConfig) {
		c.ProjectName = name
	}
}

// WithScope sets the stack lifetime scope. Default: ScopeClass.
// Panics if s is not ScopeClass or ScopeMethod.
func WithScope(s Scope) Option {
	if s != ScopeClass && s != ScopeMethod {
		panic(fmt.Sprintf("composeenv: invalid scope %d", s))
	}
	return func(c *stackConfig) {
		c.Scope = s
	}
}

// WithTestClass sets the test class/suite identifier used in project naming
// and the state-file path. Required. Panics if id is empty.
func WithTestClass(id string) Option {
	requireNonEmpty("test class identifier", id)
	return func(c *stackConfig) {
		c.TestClass = id
	}
}

// WithTestMethod sets the test method identifier. Required under
// ScopeMethod, ignored under ScopeClass. Panics if id is empty.
func WithTestMethod(id string) Option {
	requireNonEmpty("test method identifier", id)
	return func(c *stackConfig) {
		c.TestMethod = id
	}
}

// WithWaitForRunning lists services that must reach a running status before
// Setup returns. Every name must be declared in the definition files.
// Panics if a name is empty.
func WithWaitForRunning(services ...string) Option {
	for _, s := range services {
		requireNonEmpty("wait target service name", s)
	}
	return func(c *stackConfig) {
		c.WaitForRunning = append([]string(nil), services...)
	}
}

// WithWaitForHealthy lists services that must report a healthy status before
// Setup returns. Requires a healthcheck in the service definition; a service
// without one never satisfies this target. Panics if a name is empty.
func WithWaitForHealthy(services ...string) Option {
	for _, s := range services {
		requireNonEmpty("wait target service name", s)
	}
	return func(c *stackConfig) {
		c.WaitForHealthy = append([]string(nil), services...)
	}
}

// WithTimeout bounds each readiness wait (running and healthy waits each get
// the full budget). Default: 60 seconds. Panics if d <= 0.
func WithTimeout(d time.Duration) Option {
	requirePositive("readiness timeout", d)
	return func(c *stackConfig) {
		c.Timeout = d
	}
}

// WithPollInterval sets the delay between readiness checks.
// Default: 2 seconds. Panics if d <= 0.
func WithPollInterval(d time.Duration) Option {
	requirePositive("poll interval", d)
	return func(c *stackConfig) {
		c.PollInterval = d
	}
}

// WithOutputDir sets where state files are written. Defaults to a composeenv
// directory under the system temp directory. Panics if dir is empty.
func WithOutputDir(dir string) Option {
	requireNonEmpty("output directory", dir)
	return func(c *stackConfig) {
		c.OutputDir = dir
	}
}

// WithBaseDataDir sets the directory for composeenv's own bookkeeping (the
// stack registry shared between test processes). Useful in CI environments
// where multiple projects need isolated data directories. Panics if dir is
// empty.
func WithBaseDataDir(dir string) Option {
	requireNonEmpty("base data directory", dir)
	return func(c *stackConfig) {
		c.BaseDataDir = dir
	}
}

// WithComposeCommand sets the compose CLI invocation prefix, e.g.
// "docker", "compose" (the default) or "docker-compose" or
// "podman", "compose". Panics if no argument or an empty argument is given.
func WithComposeCommand(command ...string) Option {
	if len(command) == 0 {
		panic("composeenv: compose command must not be empty")
	}
	for _, c := range command {
		requireNonEmpty("compose command argument", c)
	}
	return func(c *stackConfig) {
		c.ComposeCommand = append([]string(nil), command...)
	}
}

// WithEngineBinary sets the container engine CLI used for container-level
// operations outside compose (residue enumeration and forced removal).
// Default: "docker". Panics if binary is empty.
func WithEngineBinary(binary string) Option {
	requireNonEmpty("engine binary", binary)
	return func(c *stackConfig) {
		c.EngineBinary = binary
	}
}

// WithCommandTimeout bounds each individual engine invocation.
// Default: 2 minutes. Panics if d <= 0.
func WithCommandTimeout(d time.Duration) Option {
	requirePositive("command timeout", d)
	return func(c *stackConfig) {
		c.CommandTimeout = d
	}
}

// WithEnv sets extra environment variables for engine invocations, used for
// compose file variable interpolation. The map is copied.
func WithEnv(env map[string]string) Option {
	return func(c *stackConfig) {
		c.Env = maps.Clone(env)
	}
}

// WithProperties replaces the process-wide property collaborator used for
// configuration overrides and for publishing the state-file path and project
// name. Defaults to the process environment. Panics if p is nil.
func WithProperties(p Properties) Option {
	if p == nil {
		panic("composeenv: properties must not be nil")
	}
	return func(c *stackConfig) {
		c.props = p
	}
}
