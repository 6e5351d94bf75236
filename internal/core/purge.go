package core

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// purgeConcurrency caps parallel project removals during a purge. Each
// removal fans out further engine calls of its own, so this stays lower than
// the per-project removal concurrency.
const purgeConcurrency = 4

// stackRemover is the engine surface the purge needs.
type stackRemover interface {
	ForceRemoveProject(ctx context.Context, project string)
}

// PurgeStale force-removes the containers of every registered stack whose
// owner process has died and deletes their registry rows. Returns the number
// of stacks purged. Container removal failures are logged and swallowed;
// registry errors are returned.
func PurgeStale(ctx context.Context, reg *Registry, remover stackRemover, log *slog.Logger) (int, error) {
	stale, err := reg.Stale(ctx)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		log.Debug("purge: no stale stacks")
		return 0, nil
	}

	log.Info("purge: removing stale stacks", "count", len(stale))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(purgeConcurrency)
	for _, entry := range stale {
		entry := entry
		g.Go(func() error {
			log.Info("purge: removing stale stack",
				"project", entry.Project, "stack", entry.Stack, "pid", entry.PID)
			remover.ForceRemoveProject(gCtx, entry.Project)
			return reg.Remove(gCtx, entry.Project)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(stale), nil
}
