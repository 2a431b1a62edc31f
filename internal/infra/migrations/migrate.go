package migrations

import (
	"context"
	"embed"
	"log/slog"
	"sort"
	"strings"

	"slot-engine/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var migrationFiles embed.FS

const advisoryLockID int64 = 720_451_003

var ErrMigrationFailed = errs.New("migration failed")

// Names lists the embedded migrations in apply order.
func Names() ([]string, error) {
	entries, err := migrationFiles.ReadDir(".")
	if err != nil {
		return nil, errs.Wrap(err, "read migrations")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs pending migrations under a session advisory lock so concurrent
// instances apply each file once.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (applied []string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	names, err := Names()
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "acquire conn")
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockID); err != nil {
		return nil, errs.Wrap(err, "acquire migration lock")
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockID)
	}()

	if _, err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`); err != nil {
		return nil, errs.Wrap(err, "ensure schema_migrations")
	}

	for _, name := range names {
		var done bool
		if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&done); err != nil {
			return applied, errs.Wrapf(err, "check migration %s", name)
		}
		if done {
			continue
		}

		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return applied, errs.Wrapf(err, "read migration %s", name)
		}
		stmt := strings.TrimSpace(string(body))
		if stmt == "" {
			continue
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			return applied, errs.Wrapf(err, "begin migration %s", name)
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return applied, errs.Mark(errs.Wrapf(err, "exec migration %s", name), ErrMigrationFailed)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			return applied, errs.Wrapf(err, "record migration %s", name)
		}
		if err := tx.Commit(ctx); err != nil {
			return applied, errs.Wrapf(err, "commit migration %s", name)
		}

		logger.Info("migration applied", "name", name)
		applied = append(applied, name)
	}
	return applied, nil
}
