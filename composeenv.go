package composeenv

import (
	"context"

	"github.com/giantswarm/composeenv/internal/compose"
	"github.com/giantswarm/composeenv/internal/core"
)

// Run is the per-invocation handle for one started stack. Setup returns it
// and Cleanup requires it back; it is never stored globally, so concurrent
// stacks in one process cannot observe each other's state.
//
// Run is a type alias (not a named type) so the exported fields of
// [core.Run] (Project, StateFilePath, State) are part of the public API
// without redeclaration.
type Run = core.Run

// StackState is the observed state of a started stack, keyed by logical
// service name. Available via Run.State.
type StackState = compose.StackState

// ServiceInfo is one service's container identity, status text, and
// published ports.
type ServiceInfo = compose.ServiceInfo

// PortMapping is one container-to-host port publication.
type PortMapping = compose.PortMapping

// Compile-time interface satisfaction check.
var _ Harness = (*core.Harness)(nil)

// Harness drives the stack lifecycle around one test unit.
//
// Callers follow this ordering:
//
//	New → Setup → (test runs) → Cleanup
//
// or use Around, which wraps all three. One Harness owns at most one running
// stack at a time; concurrent stacks use separate Harness values.
type Harness interface {
	// Setup resolves configuration, starts the stack, waits until every
	// configured wait target is satisfied, writes the state file, and
	// publishes the state-file path and project name as properties.
	//
	// On any failure after configuration resolution, whatever was started
	// is torn down before the error is returned: no partially started
	// stack survives a failed Setup. Returns ErrNotIdle while a previous
	// stack of this harness is still up.
	Setup(ctx context.Context) (*Run, error)

	// Cleanup stops the run's stack, force-removes any residue containers
	// by project label, and releases the harness for the next Setup. Stop
	// failures are logged, never returned, so the caller's own cleanup
	// always proceeds. Safe to call with a nil run and safe to defer.
	Cleanup(ctx context.Context, run *Run)

	// Around runs fn between Setup and Cleanup. A Setup failure means fn
	// never runs and the setup error is returned. Once setup succeeded,
	// Cleanup always runs after fn, panics included, and fn's error is
	// what propagates.
	Around(ctx context.Context, fn func(ctx context.Context, run *Run) error) error
}

// New creates a Harness from the given options. This performs no I/O;
// configuration is resolved and validated on Setup, so conflicting or
// invalid values surface there, not here.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
//
//nolint:ireturn // Returns Harness interface by design for testability (mockable).
func New(opts ...Option) Harness {
	cfg := stackConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return core.NewHarness(cfg.Config, core.Deps{Properties: cfg.props})
}
