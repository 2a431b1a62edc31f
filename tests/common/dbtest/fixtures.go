//go:build e2e

package dbtest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by a pool, a conn or a tx, so fixtures can run
// inside a test's own transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestComplex(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO complexes (id, name) VALUES ($1, $2)", id, name)
	require.NoError(t, err)
	return id
}

func CreateTestField(t *testing.T, db DBLike, complexID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO fields (id, complex_id, name, sport) VALUES ($1, $2, $3, 'futbol5')", id, complexID, name)
	require.NoError(t, err)
	return id
}

func CreateTestService(t *testing.T, db DBLike, name, category string, durationMin int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO services (id, name, category, duration_min, base_price) VALUES ($1, $2, $3, $4, 15000)",
		id, name, category, durationMin)
	require.NoError(t, err)
	return id
}

// CreateTestBeautyCenter links services to the center. A non-nil fixedServiceID
// puts the center in fixed booking mode.
func CreateTestBeautyCenter(t *testing.T, db DBLike, name string, fixedServiceID *uuid.UUID, services ...uuid.UUID) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	mode := "flexible"
	if fixedServiceID != nil {
		mode = "fixed"
	}
	_, err := db.Exec(ctx,
		"INSERT INTO beauty_centers (id, name, booking_mode, fixed_service_id) VALUES ($1, $2, $3, $4)",
		id, name, mode, fixedServiceID)
	require.NoError(t, err)

	for _, sid := range services {
		_, err := db.Exec(ctx,
			"INSERT INTO beauty_center_services (beauty_center_id, service_id) VALUES ($1, $2)", id, sid)
		require.NoError(t, err)
	}
	return id
}

func CreateTestProfessional(t *testing.T, db DBLike, name, mode string, dailyQuota int, services ...uuid.UUID) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	_, err := db.Exec(ctx,
		"INSERT INTO professionals (id, name, booking_mode, daily_quota) VALUES ($1, $2, $3, $4)",
		id, name, mode, dailyQuota)
	require.NoError(t, err)

	for _, sid := range services {
		_, err := db.Exec(ctx,
			"INSERT INTO professional_services (professional_id, service_id) VALUES ($1, $2)", id, sid)
		require.NoError(t, err)
	}
	return id
}

func SlotStatus(t *testing.T, db DBLike, slotID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM slots WHERE id = $1", slotID).Scan(&status)
	require.NoError(t, err)
	return status
}

// CountRows counts rows of table matching an optional WHERE clause.
func CountRows(t *testing.T, db DBLike, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

// truncateStmts caches the reset statement per pool; suites share a schema
// but not a database.
var truncateStmts sync.Map // *pgxpool.Pool -> string

const truncateStmtSQL = `
SELECT coalesce(
  'TRUNCATE ' || string_agg(format('%I.%I', schemaname, tablename), ', ') || ' CASCADE',
  'SELECT 1')
FROM pg_tables
WHERE schemaname = 'public' AND tablename <> 'schema_migrations'`

// ResetDB empties every table except the migration ledger.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmt, ok := truncateStmts.Load(pool)
	if !ok {
		var built string
		if err := pool.QueryRow(ctx, truncateStmtSQL).Scan(&built); err != nil {
			return fmt.Errorf("build truncate statement: %w", err)
		}
		stmt, _ = truncateStmts.LoadOrStore(pool, built)
	}
	_, err := pool.Exec(ctx, stmt.(string))
	return err
}
