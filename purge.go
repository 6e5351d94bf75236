package composeenv

import (
	"context"

	"github.com/giantswarm/composeenv/internal/compose"
	"github.com/giantswarm/composeenv/internal/core"
)

// Purge force-removes the containers of every registered stack whose owner
// test process has died, for example after a crashed or killed CI run, and
// clears their registry rows. It returns the number of stacks purged.
//
// Only engine-related options are honored: WithBaseDataDir,
// WithComposeCommand, WithEngineBinary, and WithCommandTimeout. Stacks owned
// by live processes are never touched. Container removal failures are logged
// and swallowed; registry access failures are returned.
//
// Typical use is a TestMain or CI pre-step:
//
//	if n, err := composeenv.Purge(ctx); err == nil && n > 0 {
//	    log.Printf("purged %d stale stacks", n)
//	}
func Purge(ctx context.Context, opts ...Option) (int, error) {
	cfg := stackConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BaseDataDir == "" {
		cfg.BaseDataDir = core.DefaultBaseDataDir()
	}
	if len(cfg.ComposeCommand) == 0 {
		cfg.ComposeCommand = core.DefaultComposeCommand()
	}
	if cfg.EngineBinary == "" {
		cfg.EngineBinary = core.DefaultEngineBinary
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = core.DefaultCommandTimeout
	}

	log := core.Logger()
	svc := compose.NewService(compose.ServiceConfig{
		ComposeCommand: cfg.ComposeCommand,
		EngineBinary:   cfg.EngineBinary,
		CommandTimeout: cfg.CommandTimeout,
		Logger:         log,
	})
	return core.PurgeStale(ctx, core.NewRegistry(cfg.BaseDataDir, log), svc, log)
}
