//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"slot-engine/cmd/bootstrap"
	"slot-engine/cmd/bootstrap/components"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/infra/migrations"
	"slot-engine/internal/pkg/config"
	"slot-engine/internal/pkg/jwt"
	"slot-engine/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "slots"
	pgPassword = "slots"
	pgPort     = nat.Port("5432/tcp")
)

// One PostgreSQL container serves the whole test process; every suite gets
// its own database inside it.
var (
	pgOnce      sync.Once
	pgContainer testcontainers.Container
	pgStartErr  error
)

type pgHarness struct {
	host string
	port string
}

func (h pgHarness) dsn(database string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, h.host, h.port, database)
}

func sharedPostgres(t *testing.T) pgHarness {
	t.Helper()
	pgOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		pgContainer, pgStartErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "postgres:17",
				ExposedPorts: []string{string(pgPort)},
				Env: map[string]string{
					"POSTGRES_USER":     pgUser,
					"POSTGRES_PASSWORD": pgPassword,
					"POSTGRES_DB":       "postgres",
				},
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				// Durability off: the data dir is tmpfs anyway.
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "synchronous_commit=off",
					"-c", "full_page_writes=off",
					"-c", "max_connections=200",
				},
				WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
					return pgHarness{host: host, port: port.Port()}.dsn("postgres")
				}).WithStartupTimeout(time.Minute),
				Labels: map[string]string{"purpose": "slot-engine-e2e"},
			},
		})
	})
	require.NoError(t, pgStartErr, "start postgres container")

	ctx := context.Background()
	host, err := pgContainer.Host(ctx)
	require.NoError(t, err, "postgres container host")
	port, err := pgContainer.MappedPort(ctx, pgPort)
	require.NoError(t, err, "postgres container port")
	return pgHarness{host: host, port: port.Port()}
}

// createDatabase makes a throwaway database, migrates it and drops it when
// the test ends.
func (h pgHarness) createDatabase(t *testing.T) (*pgxpool.Pool, config.DBConfig) {
	t.Helper()
	name := "slots_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, h.dsn("postgres"))
	require.NoError(t, err, "admin connection")
	defer admin.Close()

	// CREATE DATABASE races on the template lock when suites start together.
	var createErr error
	for attempt := 1; attempt <= 5; attempt++ {
		if _, createErr = admin.Exec(ctx, "CREATE DATABASE "+name); createErr == nil {
			break
		}
		slog.Warn("create test database failed", "attempt", attempt, "error", createErr.Error())
		time.Sleep(min(time.Duration(attempt)*500*time.Millisecond, 3*time.Second))
	}
	require.NoError(t, createErr, "create test database")

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		dropper, err := pgxpool.New(dropCtx, h.dsn("postgres"))
		if err != nil {
			slog.Warn("drop test database: connect", "database", name, "error", err.Error())
			return
		}
		defer dropper.Close()
		if _, err := dropper.Exec(dropCtx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("drop test database", "database", name, "error", err.Error())
		}
	})

	dbCfg := config.DBConfig{
		Host:     h.host,
		Port:     h.port,
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
	}
	pool, _, err := db.Connect(ctx, dbCfg)
	require.NoError(t, err, "connect test database")
	t.Cleanup(pool.Close)

	applied, err := migrations.Apply(ctx, pool, slog.Default())
	require.NoError(t, err, "migrate test database")
	slog.Debug("test database ready", "database", name, "migrations", applied)
	return pool, dbCfg
}

// startEngine runs the full slot engine graph against pool, minus the HTTP
// listener, and returns the router the server would mount.
func startEngine(t *testing.T, pool *pgxpool.Pool, dbCfg config.DBConfig) (*gin.Engine, config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.NewTestConfig()
	cfg.DB = dbCfg

	var router *gin.Engine
	app := fx.New(
		fx.Supply(pool, cfg),
		fx.Provide(bootstrap.NewSlotLocation, gin.New),
		bootstrap.LoggerModule,
		bootstrap.MetricsModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.AdapterModule,
		components.UseCaseModule,
		components.WorkerModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "start slot engine")
	require.NotNil(t, router, "slot engine started without a router")

	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		if err := app.Stop(stopCtx); err != nil {
			slog.Warn("stop slot engine", "error", err.Error())
		}
	})
	return router, cfg
}

// SharedSuite gives each e2e suite a migrated database and a running engine.
// Tables are truncated before every subtest.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	t := s.T()
	pool, dbCfg := sharedPostgres(t).createDatabase(t)
	s.DB = pool
	s.Router, s.Config = startEngine(t, pool, dbCfg)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "reset database")
}

// AdminToken signs a scope token for the given claims.
func (s *SharedSuite) AdminToken(claims jwt.Claims) string {
	s.T().Helper()
	token, err := jwt.NewService(s.Config.Scope.TokenSecret, s.Config.Scope.TokenTTL).
		GenerateToken("e2e-admin", claims)
	require.NoError(s.T(), err)
	return token
}

func (s *SharedSuite) SuperAdminToken() string {
	return s.AdminToken(jwt.Claims{SuperAdmin: true})
}
