package core

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/giantswarm/composeenv/internal/fileutil"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"
)

const (
	registryFileName = "registry.db"
	registryLockName = "registry.lock"

	// registryLockRetryInterval is the interval between attempts to acquire
	// the registry file lock. 50ms balances responsiveness against CPU
	// overhead from busy-polling.
	registryLockRetryInterval = 50 * time.Millisecond
)

// registrySchema holds one row per live stack instance. The pid column is the
// owner test process; a dead pid marks the row as stale residue.
const registrySchema = `
CREATE TABLE IF NOT EXISTS stacks (
	project    TEXT PRIMARY KEY,
	stack      TEXT NOT NULL,
	pid        INTEGER NOT NULL,
	created_at TEXT NOT NULL
)`

// RegistryEntry is one recorded stack instance.
type RegistryEntry struct {
	Project   string
	Stack     string
	PID       int
	CreatedAt time.Time
}

// Registry records which compose projects this and other composeenv processes
// currently own. It backs the stale-stack purge: rows whose owner process has
// died identify containers to force-remove. The registry is shared between
// test processes, so every operation takes an exclusive file lock before
// touching the database.
type Registry struct {
	dbPath   string
	lockPath string
	log      *slog.Logger
}

// NewRegistry returns a registry stored under baseDataDir.
func NewRegistry(baseDataDir string, log *slog.Logger) *Registry {
	return &Registry{
		dbPath:   filepath.Join(baseDataDir, registryFileName),
		lockPath: filepath.Join(baseDataDir, registryLockName),
		log:      log,
	}
}

// Record inserts or replaces the row for a project, claiming it for the
// current process.
func (r *Registry) Record(ctx context.Context, project, stack string, pid int, createdAt time.Time) error {
	return r.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT OR REPLACE INTO stacks (project, stack, pid, created_at) VALUES (?, ?, ?, ?)`,
			project, stack, pid, createdAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("record stack %s: %w", project, err)
		}
		return nil
	})
}

// Remove deletes the row for a project. Removing an absent project is not an
// error.
func (r *Registry) Remove(ctx context.Context, project string) error {
	return r.withDB(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, `DELETE FROM stacks WHERE project = ?`, project); err != nil {
			return fmt.Errorf("remove stack %s: %w", project, err)
		}
		return nil
	})
}

// Stale returns entries whose owner process is no longer alive.
func (r *Registry) Stale(ctx context.Context) ([]RegistryEntry, error) {
	var stale []RegistryEntry
	err := r.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT project, stack, pid, created_at FROM stacks`)
		if err != nil {
			return fmt.Errorf("query stacks: %w", err)
		}
		defer rows.Close() //nolint:errcheck // rows.Err() below catches read errors

		for rows.Next() {
			var entry RegistryEntry
			var createdAt string
			if err := rows.Scan(&entry.Project, &entry.Stack, &entry.PID, &createdAt); err != nil {
				return fmt.Errorf("scan stack row: %w", err)
			}
			// A malformed timestamp leaves CreatedAt zero; liveness is
			// decided by the pid alone.
			entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
			if !pidAlive(entry.PID) {
				stale = append(stale, entry)
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return stale, nil
}

// withDB runs fn against the registry database under the exclusive file lock.
// The database and its parent directory are created on first use.
func (r *Registry) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	if err := fileutil.EnsureDirForFile(r.dbPath); err != nil {
		return err
	}

	fl, err := r.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer r.releaseLock(fl)

	// Busy timeout as a second line of defense in case a reader outside the
	// file lock (e.g. sqlite tooling) holds the database.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)", r.dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open registry %s: %w", r.dbPath, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			r.log.Warn("registry: close sqlite", "error", closeErr)
		}
	}()

	// Single connection; registry sessions are short-lived, not pooled.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, registrySchema); err != nil {
		return fmt.Errorf("ensure registry schema: %w", err)
	}
	return fn(db)
}

// acquireLock takes the exclusive registry lock, retrying until success or
// context cancellation.
func (r *Registry) acquireLock(ctx context.Context) (*flock.Flock, error) {
	fl := flock.New(r.lockPath)

	locked, err := fl.TryLockContext(ctx, registryLockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring registry lock %s: %w", r.lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring registry lock %s: %w", r.lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring registry lock %s: lock not acquired", r.lockPath)
	}
	return fl, nil
}

// releaseLock releases the registry lock. The lock file stays on disk to
// avoid a race where removing it invalidates a lock another process just
// acquired. Close() calls Unlock() internally.
func (r *Registry) releaseLock(fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		r.log.Debug("failed to release registry lock", "path", fl.Path(), "err", err)
	}
}
