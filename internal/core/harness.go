package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/giantswarm/composeenv/internal/compose"
	"github.com/giantswarm/composeenv/internal/naming"
	"github.com/giantswarm/composeenv/internal/sentinel"
	"github.com/giantswarm/composeenv/internal/statefile"
)

// ErrNotIdle is returned when Setup is called while a previous setup is still
// in progress or its stack has not been cleaned up yet.
const ErrNotIdle = sentinel.Error("harness is not idle")

// harnessState tracks the lifecycle position of a Harness. Transitions:
// idle → setup-in-progress → ready → cleanup-in-progress → idle, with
// failed setups returning directly to idle.
type harnessState uint32

const (
	stateIdle harnessState = iota
	stateSetupInProgress
	stateReady
	stateCleanupInProgress
)

func (s harnessState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateSetupInProgress:
		return "setup-in-progress"
	case stateReady:
		return "ready"
	case stateCleanupInProgress:
		return "cleanup-in-progress"
	default:
		return "unknown"
	}
}

// StackService is the engine surface the harness drives. *compose.Service
// implements it; tests substitute fakes.
type StackService interface {
	Up(ctx context.Context, def compose.StackDefinition) (*compose.StackState, error)
	Down(ctx context.Context, def compose.StackDefinition) error
	Ps(ctx context.Context, def compose.StackDefinition) (map[string]compose.ServiceInfo, error)
	Logs(ctx context.Context, def compose.StackDefinition) (string, error)
	WaitForServices(ctx context.Context, def compose.StackDefinition, spec compose.WaitSpec) error
	ForceRemoveProject(ctx context.Context, project string)
}

// ServiceFactory builds a StackService from resolved engine settings. Engine
// settings are only known after resolution, so the harness constructs its
// service per setup rather than per harness.
type ServiceFactory func(cfg compose.ServiceConfig) StackService

// Deps are the harness collaborators. Zero values select production
// defaults: environment-backed properties, the real clock, the package
// logger, and *compose.Service.
type Deps struct {
	Properties Properties
	Clock      compose.Clock
	Logger     *slog.Logger
	NewService ServiceFactory
}

// Run is the per-invocation handle for one started stack. It is returned
// from Setup and must be passed back into Cleanup; it is never stored
// globally, so concurrent stacks in one process cannot observe each other.
type Run struct {
	// Project is the resolved unique compose project name.
	Project string
	// StateFilePath is where the connectivity state file was written.
	StateFilePath string
	// State is the stack state captured once readiness was reached.
	State *compose.StackState

	def compose.StackDefinition
	cfg Config
	svc StackService
}

// Harness drives the stack lifecycle around one test unit: resolve
// configuration, start the stack, wait for readiness, publish the state
// file, and guarantee teardown. One Harness owns at most one running stack
// at a time; concurrent stacks use separate Harness values.
type Harness struct {
	declared   Config
	props      Properties
	clock      compose.Clock
	log        *slog.Logger
	newService ServiceFactory
	state      atomic.Uint32
}

// NewHarness creates a Harness over the declared (unresolved) configuration.
func NewHarness(declared Config, deps Deps) *Harness {
	h := &Harness{
		declared:   declared,
		props:      deps.Properties,
		clock:      deps.Clock,
		log:        deps.Logger,
		newService: deps.NewService,
	}
	if h.props == nil {
		h.props = EnvProperties()
	}
	if h.clock == nil {
		h.clock = compose.RealClock()
	}
	if h.log == nil {
		h.log = Logger()
	}
	if h.newService == nil {
		h.newService = func(cfg compose.ServiceConfig) StackService {
			return compose.NewService(cfg)
		}
	}
	return h
}

// Setup resolves configuration, starts the stack, waits for readiness, and
// publishes the state file and properties. On any failure after resolution
// it tears down whatever was started and returns the original error; no
// partially started stack survives a failed Setup.
func (h *Harness) Setup(ctx context.Context) (*Run, error) {
	if !h.state.CompareAndSwap(uint32(stateIdle), uint32(stateSetupInProgress)) {
		return nil, fmt.Errorf("%w: state is %s", ErrNotIdle, harnessState(h.state.Load()))
	}
	run, err := h.setup(ctx)
	if err != nil {
		h.state.Store(uint32(stateIdle))
		return nil, err
	}
	h.state.Store(uint32(stateReady))
	return run, nil
}

func (h *Harness) setup(ctx context.Context) (*Run, error) {
	cfg, err := Resolve(h.declared, h.props)
	if err != nil {
		return nil, err
	}

	project := naming.ProjectName(cfg.ProjectName, cfg.TestClass, cfg.TestMethod, h.clock.Now())
	def := compose.StackDefinition{
		Stack:    cfg.StackName,
		Project:  project,
		Files:    cfg.Files,
		EnvFiles: cfg.EnvFiles,
		Env:      cfg.Env,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	declared, err := compose.DeclaredServices(def.Files)
	if err != nil {
		return nil, err
	}
	if err := compose.ValidateTargets(declared, cfg.WaitForRunning); err != nil {
		return nil, err
	}
	if err := compose.ValidateTargets(declared, cfg.WaitForHealthy); err != nil {
		return nil, err
	}

	svc := h.newService(compose.ServiceConfig{
		ComposeCommand: cfg.ComposeCommand,
		EngineBinary:   cfg.EngineBinary,
		CommandTimeout: cfg.CommandTimeout,
		Clock:          h.clock,
		Logger:         h.log,
	})

	// A crashed earlier run can leave containers whose project name
	// collides with ours. Remove them before starting.
	svc.ForceRemoveProject(ctx, project)

	h.log.Info("starting stack", "stack", cfg.StackName, "project", project, "files", len(def.Files))
	state, err := svc.Up(ctx, def)
	if err != nil {
		h.rollback(svc, def, cfg)
		return nil, err
	}

	if err := h.await(ctx, svc, def, cfg, compose.Running, cfg.WaitForRunning); err != nil {
		h.rollback(svc, def, cfg)
		return nil, err
	}
	if err := h.await(ctx, svc, def, cfg, compose.Healthy, cfg.WaitForHealthy); err != nil {
		h.rollback(svc, def, cfg)
		return nil, err
	}

	// Refresh service states so the published file reflects the stack
	// after readiness, not the instant after up. Best-effort.
	if services, psErr := svc.Ps(ctx, def); psErr == nil {
		state.Services = services
	}

	path, err := statefile.Write(state, statefile.Spec{
		OutputDir:  cfg.OutputDir,
		TestClass:  cfg.TestClass,
		TestMethod: cfg.TestMethod,
		Timestamp:  h.clock.Now(),
	})
	if err != nil {
		h.rollback(svc, def, cfg)
		return nil, err
	}
	h.props.Set(PropStateFile, path)
	h.props.Set(PropComposeProject, project)

	// Registry recording is bookkeeping for the cross-process purge; its
	// failure must not fail an otherwise healthy setup.
	if err := NewRegistry(cfg.BaseDataDir, h.log).Record(ctx, project, cfg.StackName, os.Getpid(), state.CreatedAt); err != nil {
		h.log.Warn("record stack in registry failed", "project", project, "error", err)
	}

	h.log.Info("stack ready", "project", project, "state_file", path)
	return &Run{
		Project:       project,
		StateFilePath: path,
		State:         state,
		def:           def,
		cfg:           cfg,
		svc:           svc,
	}, nil
}

// await waits for the listed services to satisfy target. On timeout it
// captures the stack's logs for diagnostics before returning the error.
func (h *Harness) await(ctx context.Context, svc StackService, def compose.StackDefinition, cfg Config, target compose.Readiness, services []string) error {
	if len(services) == 0 {
		return nil
	}
	err := svc.WaitForServices(ctx, def, compose.WaitSpec{
		Services: services,
		Target:   target,
		Timeout:  cfg.Timeout,
		Interval: cfg.PollInterval,
	})
	if err == nil {
		return nil
	}
	if logs, logsErr := svc.Logs(ctx, def); logsErr == nil && logs != "" {
		h.log.Error("stack failed to become ready",
			"project", def.Project, "target", target.String(), "logs", logs)
	}
	return err
}

// rollback tears down whatever a failed setup left behind. It runs on a
// fresh bounded context so it still executes when the caller's context is
// already canceled or expired.
func (h *Harness) rollback(svc StackService, def compose.StackDefinition, cfg Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.CommandTimeout)
	defer cancel()

	if err := svc.Down(ctx, def); err != nil {
		h.log.Warn("rollback: stack stop failed", "project", def.Project, "error", err)
	}
	svc.ForceRemoveProject(ctx, def.Project)
}

// Cleanup stops the run's stack and removes residue. Stop failures are
// logged and swallowed so the caller's own cleanup always proceeds. Safe to
// call with a nil run (setup never succeeded) and safe to defer.
func (h *Harness) Cleanup(ctx context.Context, run *Run) {
	h.state.Store(uint32(stateCleanupInProgress))
	defer h.state.Store(uint32(stateIdle))

	if run == nil {
		return
	}

	if err := run.svc.Down(ctx, run.def); err != nil {
		h.log.Error("stack stop failed", "project", run.Project, "error", err)
	}
	run.svc.ForceRemoveProject(ctx, run.Project)
	if err := NewRegistry(run.cfg.BaseDataDir, h.log).Remove(ctx, run.Project); err != nil {
		h.log.Warn("registry remove failed", "project", run.Project, "error", err)
	}
	h.log.Info("stack stopped", "project", run.Project)
}

// Around runs fn between Setup and Cleanup. A Setup failure means fn never
// runs and the setup error is returned. Once setup succeeded, Cleanup always
// runs after fn, panics included, and fn's error is what propagates; stop
// failures during cleanup never mask it.
func (h *Harness) Around(ctx context.Context, fn func(ctx context.Context, run *Run) error) error {
	run, err := h.Setup(ctx)
	if err != nil {
		return err
	}
	defer h.Cleanup(ctx, run)
	return fn(ctx, run)
}
