package compose

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/composeenv/internal/process"
)

// projectLabel is the label the engine stamps on every container belonging
// to a compose project. Used to enumerate residue containers for forced
// cleanup.
const projectLabel = "com.docker.compose.project"

// removeConcurrency caps parallel force-removals during forced cleanup so a
// stack with many residue containers does not overwhelm the engine daemon.
const removeConcurrency = 10

// runFunc matches process.Run and is injectable for tests.
type runFunc func(ctx context.Context, spec process.Spec) (process.Result, error)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// ComposeCommand is the compose CLI invocation prefix, e.g.
	// ["docker", "compose"] or ["docker-compose"] or ["podman", "compose"].
	ComposeCommand []string
	// EngineBinary is the bare engine binary used for container-level
	// operations (ps, rm) outside the compose subcommand, e.g. "docker".
	EngineBinary string
	// CommandTimeout bounds each individual engine invocation.
	CommandTimeout time.Duration
	// Clock provides wall-clock time for StackState timestamps and wait
	// sleeps. Nil means the real clock.
	Clock Clock
	// Logger is the logger for operational messages. Nil means slog.Default().
	Logger *slog.Logger
	// Run overrides command execution; nil means process.Run. Test-only.
	Run runFunc
}

// Service starts and stops compose stacks, queries per-service status, and
// captures logs. It is stateless apart from configuration; one Service can
// drive any number of stack definitions.
type Service struct {
	command []string
	engine  string
	timeout time.Duration
	clock   Clock
	log     *slog.Logger
	run     runFunc
}

// NewService creates a Service from cfg. Panics if the compose command, the
// engine binary, or the command timeout is missing; these come from
// validated configuration, so a missing value is a programmer error.
func NewService(cfg ServiceConfig) *Service {
	if len(cfg.ComposeCommand) == 0 {
		panic("composeenv: compose command must not be empty")
	}
	if cfg.EngineBinary == "" {
		panic("composeenv: engine binary must not be empty")
	}
	if cfg.CommandTimeout <= 0 {
		panic("composeenv: command timeout must be positive")
	}
	s := &Service{
		command: cfg.ComposeCommand,
		engine:  cfg.EngineBinary,
		timeout: cfg.CommandTimeout,
		clock:   cfg.Clock,
		log:     cfg.Logger,
		run:     cfg.Run,
	}
	if s.clock == nil {
		s.clock = RealClock()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.run == nil {
		s.run = process.Run
	}
	return s
}

// composeArgs builds the compose CLI argument list for def and the given
// subcommand: -p <project> -f <file>... [--env-file <file>]... <subcommand>.
// File order is preserved from the definition so start and stop see the
// identical composition.
func (s *Service) composeArgs(def StackDefinition, sub ...string) (path string, args []string) {
	path = s.command[0]
	args = append(args, s.command[1:]...)
	args = append(args, "-p", def.Project)
	for _, f := range def.Files {
		args = append(args, "-f", f)
	}
	for _, f := range def.EnvFiles {
		args = append(args, "--env-file", f)
	}
	args = append(args, sub...)
	return path, args
}

// envPairs flattens def.Env into KEY=VALUE pairs in deterministic order.
func envPairs(def StackDefinition) []string {
	if len(def.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(def.Env))
	for k := range def.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+def.Env[k])
	}
	return pairs
}

// Up starts the stack in detached mode and returns the observed state of its
// services. A non-zero engine exit yields a *StartError carrying the
// captured stderr.
func (s *Service) Up(ctx context.Context, def StackDefinition) (*StackState, error) {
	path, args := s.composeArgs(def, "up", "-d")
	res, err := s.run(ctx, process.Spec{
		Path:    path,
		Args:    args,
		Env:     envPairs(def),
		Timeout: s.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("compose up: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, &StartError{
			Project:  def.Project,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(res.Stderr),
		}
	}

	services, err := s.Ps(ctx, def)
	if err != nil {
		return nil, fmt.Errorf("query services after up: %w", err)
	}

	return &StackState{
		Stack:     def.Stack,
		Project:   def.Project,
		Services:  services,
		CreatedAt: s.clock.Now(),
	}, nil
}

// Down tears down all resources scoped to the definition's project,
// including volumes and orphan containers. Idempotent: tearing down a
// project that no longer exists succeeds. A non-zero engine exit yields a
// *StopError; cleanup-critical callers log and swallow it.
func (s *Service) Down(ctx context.Context, def StackDefinition) error {
	path, args := s.composeArgs(def, "down", "--volumes", "--remove-orphans")
	res, err := s.run(ctx, process.Spec{
		Path:    path,
		Args:    args,
		Env:     envPairs(def),
		Timeout: s.timeout,
	})
	if err != nil {
		return fmt.Errorf("compose down: %w", err)
	}
	if res.ExitCode != 0 {
		return &StopError{
			Project:  def.Project,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(res.Stderr),
		}
	}
	return nil
}

// Ps queries the current state of the stack's services, keyed by logical
// service name.
func (s *Service) Ps(ctx context.Context, def StackDefinition) (map[string]ServiceInfo, error) {
	path, args := s.composeArgs(def, "ps", "-a", "--format", "json")
	res, err := s.run(ctx, process.Spec{
		Path:    path,
		Args:    args,
		Env:     envPairs(def),
		Timeout: s.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("compose ps: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("compose ps for project %s: engine exited with code %d: %s",
			def.Project, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return parsePsOutput(res.Stdout)
}

// Logs captures the stack's aggregated service logs for diagnostics.
// Best-effort: whatever output was captured is returned even when the engine
// reports an error.
func (s *Service) Logs(ctx context.Context, def StackDefinition) (string, error) {
	path, args := s.composeArgs(def, "logs", "--no-color")
	res, err := s.run(ctx, process.Spec{
		Path:    path,
		Args:    args,
		Env:     envPairs(def),
		Timeout: s.timeout,
	})
	if err != nil {
		return res.Stdout, fmt.Errorf("compose logs: %w", err)
	}
	if res.ExitCode != 0 {
		return res.Stdout, fmt.Errorf("compose logs for project %s: engine exited with code %d",
			def.Project, res.ExitCode)
	}
	return res.Stdout, nil
}

// WaitForServices delegates to the wait engine, polling Ps until the spec's
// services satisfy the target readiness or the budget is exhausted.
func (s *Service) WaitForServices(ctx context.Context, def StackDefinition, spec WaitSpec) error {
	return Wait(ctx, s.clock, s.log, spec, func(ctx context.Context) (map[string]ServiceInfo, error) {
		return s.Ps(ctx, def)
	})
}

// ProjectContainerIDs enumerates all container ids labeled with the given
// compose project, including stopped ones.
func (s *Service) ProjectContainerIDs(ctx context.Context, project string) ([]string, error) {
	res, err := s.run(ctx, process.Spec{
		Path:    s.engine,
		Args:    []string{"ps", "-aq", "--filter", "label=" + projectLabel + "=" + project},
		Timeout: s.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("list project containers: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("list containers for project %s: engine exited with code %d: %s",
			project, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var ids []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if id := strings.TrimSpace(line); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// ForceRemoveProject enumerates every container belonging to the project and
// force-removes each. All failures are logged and swallowed: this is the
// safety net behind ordinary stop and must never destabilize the caller.
// Removals run in a bounded errgroup since each is an independent engine call.
func (s *Service) ForceRemoveProject(ctx context.Context, project string) {
	ids, err := s.ProjectContainerIDs(ctx, project)
	if err != nil {
		s.log.Warn("forced cleanup: enumerate containers failed",
			"project", project, "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	s.log.Warn("forced cleanup: removing residue containers",
		"project", project, "count", len(ids))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(removeConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			res, runErr := s.run(gCtx, process.Spec{
				Path:    s.engine,
				Args:    []string{"rm", "-f", id},
				Timeout: s.timeout,
			})
			if runErr != nil {
				s.log.Warn("forced cleanup: remove container failed",
					"project", project, "container", id, "error", runErr)
				return nil
			}
			if res.ExitCode != 0 {
				s.log.Warn("forced cleanup: remove container failed",
					"project", project, "container", id,
					"exit_code", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
			}
			return nil
		})
	}
	// Goroutines always return nil; errors are logged above.
	_ = g.Wait()
}
