// Package database opens the company store.
//
// Two drivers are supported:
//   - postgres: a pgx connection pool with optional New Relic tracing and,
//     in local env, SQL logging through pgx-zerolog.
//   - sqlite: a single-writer database/sql handle on the pure Go modernc
//     driver, meant for local runs and tests.
//
// Schema changes live in migrations/ and are applied by Migrate.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/company-tracker/internal/config"
	loggerConfig "github.com/deppfellow/company-tracker/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Database holds whichever handle the configured driver opened. Exactly one
// of Pool and SQL is set.
type Database struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB

	slowQueryThreshold time.Duration
	log                *zerolog.Logger
}

// multiTracer fans pgx query callbacks out to several tracers, since
// ConnConfig only has room for one.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// DatabasePingTimeout is how long startup waits for the store, in seconds.
const DatabasePingTimeout = 10

// New opens the store selected by cfg.Database.Driver and pings it.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	db := &Database{
		Driver:             cfg.Database.Driver,
		slowQueryThreshold: cfg.Observability.Logging.SlowQueryThreshold,
		log:                logger,
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := newPostgresPool(cfg, logger, loggerService, db.slowQueryThreshold)
		if err != nil {
			return nil, err
		}
		db.Pool = pool
	case config.DriverSQLite:
		sqlDB, err := OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		db.SQL = sqlDB
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", db.Driver).Msg("connected to the database")

	return db, nil
}

// NewFromSQL wraps an already opened SQLite handle.
func NewFromSQL(sqlDB *sql.DB, logger *zerolog.Logger, slowQueryThreshold time.Duration) *Database {
	return &Database{
		Driver:             config.DriverSQLite,
		SQL:                sqlDB,
		slowQueryThreshold: slowQueryThreshold,
		log:                logger,
	}
}

func newPostgresPool(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService, slow time.Duration) (*pgxpool.Pool, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	tracers := []any{&slowQueryTracer{threshold: slow, log: logger}}

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// Every statement is logged in local env, so keep it out of the others.
	if cfg.IsLocal() {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	return pool, nil
}

func postgresDSN(cfg *config.Config) string {
	hostPort := net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))
	encodedPassword := url.QueryEscape(cfg.Database.Password)

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.Database.User,
		encodedPassword,
		hostPort,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

// Ping checks the store is reachable.
func (db *Database) Ping(ctx context.Context) error {
	switch {
	case db.Pool != nil:
		return db.Pool.Ping(ctx)
	case db.SQL != nil:
		return db.SQL.PingContext(ctx)
	default:
		return fmt.Errorf("database not initialized")
	}
}

// LogSlow warns about a store call that took longer than the configured
// threshold. A zero threshold disables it.
func (db *Database) LogSlow(operation string, startedAt time.Time) {
	elapsed := time.Since(startedAt)
	if db.slowQueryThreshold <= 0 || elapsed < db.slowQueryThreshold || db.log == nil {
		return
	}

	db.log.Warn().
		Str("operation", operation).
		Dur("duration", elapsed).
		Dur("threshold", db.slowQueryThreshold).
		Msg("slow query")
}

func (db *Database) Close() error {
	if db.log != nil {
		db.log.Info().Str("driver", db.Driver).Msg("closing database connection")
	}

	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.SQL != nil {
		return db.SQL.Close()
	}

	return nil
}

type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if t.threshold <= 0 {
		return ctx
	}
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: time.Now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	if elapsed := time.Since(start.at); elapsed >= t.threshold {
		t.log.Warn().
			Str("sql", start.sql).
			Dur("duration", elapsed).
			Dur("threshold", t.threshold).
			Msg("slow query")
	}
}
