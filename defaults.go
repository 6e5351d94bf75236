package composeenv

import "github.com/giantswarm/composeenv/internal/core"

// Default configuration values applied during resolution on Setup.
// These constants are exported so callers can reference the defaults when
// building custom configurations relative to them (e.g. 2 * DefaultTimeout).
const (
	// DefaultTimeout is the budget for each readiness wait. The running
	// and healthy waits each get the full budget.
	DefaultTimeout = core.DefaultTimeout

	// DefaultPollInterval is the delay between readiness checks.
	DefaultPollInterval = core.DefaultPollInterval

	// DefaultCommandTimeout bounds each individual engine invocation.
	DefaultCommandTimeout = core.DefaultCommandTimeout

	// DefaultEngineBinary is the container engine CLI used for
	// container-level operations outside compose.
	DefaultEngineBinary = core.DefaultEngineBinary
)

// DefaultComposeCommand returns the compose CLI invocation used when none is
// configured: "docker", "compose".
func DefaultComposeCommand() []string {
	return core.DefaultComposeCommand()
}

// DefaultOutputDir returns the state-file directory used when none is
// configured, under the system temp directory.
func DefaultOutputDir() string {
	return core.DefaultOutputDir()
}

// DefaultBaseDataDir returns the bookkeeping directory used when none is
// configured, under the system temp directory.
func DefaultBaseDataDir() string {
	return core.DefaultBaseDataDir()
}
