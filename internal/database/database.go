package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// sqlitePragmas are applied to every connection modernc.org/sqlite opens.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
}

// DB holds the open handle for whichever backend DATABASE_URL selected.
// Pool is set only for PostgreSQL. SQL is always set; for PostgreSQL it is a
// database/sql view over Pool used by the migrator.
type DB struct {
	Driver Driver
	Pool   *pgxpool.Pool
	SQL    *sql.DB
}

// DriverFor picks the backend from the URL scheme. Anything that is not a
// postgres URL is treated as a SQLite location.
func DriverFor(databaseURL string) Driver {
	lower := strings.ToLower(strings.TrimSpace(databaseURL))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// SQLiteDSN turns sqlite://path, file:path or a bare path into a
// modernc.org/sqlite DSN with the connection pragmas attached.
func SQLiteDSN(databaseURL string) string {
	dsn := strings.TrimSpace(databaseURL)
	if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		dsn = rest
	} else if rest, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		dsn = rest
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(sqlitePragmas, "&")
}

func New(ctx context.Context, databaseURL string, maxConns int32, minConns int32) (*DB, error) {
	switch DriverFor(databaseURL) {
	case DriverPostgres:
		return newPostgres(ctx, databaseURL, maxConns, minConns)
	default:
		return newSQLite(ctx, databaseURL)
	}
}

func newPostgres(ctx context.Context, databaseURL string, maxConns int32, minConns int32) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected", "driver", DriverPostgres, "max_conns", maxConns, "min_conns", minConns)
	return &DB{Driver: DriverPostgres, Pool: pool, SQL: stdlib.OpenDBFromPool(pool)}, nil
}

func newSQLite(ctx context.Context, databaseURL string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", SQLiteDSN(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// A single writer avoids SQLITE_BUSY between pooled connections.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	slog.Info("database connected", "driver", DriverSQLite)
	return &DB{Driver: DriverSQLite, SQL: sqlDB}, nil
}

func (db *DB) Close() {
	if db.SQL != nil {
		_ = db.SQL.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *DB) Health(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	if db.SQL != nil {
		return db.SQL.PingContext(ctx)
	}
	return fmt.Errorf("database is not initialized")
}
