package compose

import (
	"fmt"
	"os"
	"time"

	"github.com/giantswarm/composeenv/internal/sentinel"
)

// ErrNoFiles is returned when a stack definition declares no compose files.
const ErrNoFiles = sentinel.Error("stack definition must list at least one compose file")

// ErrFileNotFound is returned (wrapped with the offending path) when a
// declared compose or env file does not exist at resolution time.
const ErrFileNotFound = sentinel.Error("compose file not found")

// ErrEmptyProject is returned when a stack definition has no project name.
const ErrEmptyProject = sentinel.Error("project name must not be empty")

// StackDefinition describes one stack instance to start. File order is
// significant: later files override earlier ones, and the same order is used
// for both start and stop so teardown mirrors startup composition exactly.
type StackDefinition struct {
	// Stack is the logical stack name.
	Stack string
	// Project is the resolved compose project name, the namespace under
	// which the engine groups this stack's resources.
	Project string
	// Files are the compose definition files, in override order.
	Files []string
	// EnvFiles are optional --env-file arguments, in order.
	EnvFiles []string
	// Env holds extra environment variables for the engine invocation.
	Env map[string]string
}

// Validate checks the definition's invariants: a project name, at least one
// compose file, and the existence of every referenced file. Violations are
// reported together via errors.Join-style wrapping of sentinel errors so
// callers can match with errors.Is.
func (d StackDefinition) Validate() error {
	if d.Project == "" {
		return ErrEmptyProject
	}
	if len(d.Files) == 0 {
		return ErrNoFiles
	}
	for _, f := range append(append([]string{}, d.Files...), d.EnvFiles...) {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("%w: %s", ErrFileNotFound, f)
		}
	}
	return nil
}

// PortMapping is one published port of a service container.
type PortMapping struct {
	// Container is the port inside the container.
	Container int
	// Host is the port published on the host.
	Host int
	// Protocol is "tcp" or "udp".
	Protocol string
}

// ServiceInfo is the observed state of one service within a running stack.
type ServiceInfo struct {
	// ContainerID is the engine's container identifier.
	ContainerID string
	// ContainerName is the engine-assigned container name.
	ContainerName string
	// Status is the engine's free-text status (e.g. "Up 3 seconds (healthy)").
	// Readiness predicates interpret this text; see Readiness.Satisfied.
	Status string
	// Ports are the service's published port mappings.
	Ports []PortMapping
}

// StackState is the result of a successful start: the resolved project name
// and the observed per-service state. It is produced once per start and never
// mutated afterwards.
type StackState struct {
	// Stack is the logical stack name.
	Stack string
	// Project is the resolved compose project name.
	Project string
	// Services maps logical service name to observed state.
	Services map[string]ServiceInfo
	// CreatedAt is the wall-clock creation time of the state.
	CreatedAt time.Time
}

// StartError reports a failed stack start. Stderr carries the engine's
// captured error output verbatim.
type StartError struct {
	Project  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *StartError) Error() string {
	return fmt.Sprintf("start stack project %s: engine exited with code %d: %s",
		e.Project, e.ExitCode, e.Stderr)
}

// StopError reports a failed stack stop. Callers on the cleanup path log and
// swallow it; it is returned only to callers explicitly willing to handle it.
type StopError struct {
	Project  string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *StopError) Error() string {
	return fmt.Sprintf("stop stack project %s: engine exited with code %d: %s",
		e.Project, e.ExitCode, e.Stderr)
}
