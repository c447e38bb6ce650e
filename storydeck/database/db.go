package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/storydeck/marketplace/storydeck"
	"github.com/storydeck/marketplace/storydeck/config"
	"github.com/storydeck/marketplace/storydeck/database/models"
	"github.com/storydeck/marketplace/storydeck/logger"
	"github.com/storydeck/marketplace/storydeck/utils"
)

const (
	dialAttempts  = 3
	schemaVersion = 1 // bump when schema changes
)

// DB pairs a pgx pool (LISTEN, raw exec) with a bun handle (models, transactions).
type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg storydeck.DBConfig) (*DB, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	err := utils.Retry(ctx, utils.RetryPolicy{MaxRetries: dialAttempts - 1, InitialBackoff: time.Second, MaxBackoff: time.Second},
		func(error) bool { return true },
		func(attempt int, err error) {
			slog.Warn("Database unreachable, retrying",
				slog.String("type", "db"),
				slog.String("addr", addr),
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
		},
		func() error {
			conn, err := net.DialTimeout("tcp", addr, config.NetworkDialTimeout)
			if err != nil {
				return err
			}
			return conn.Close()
		})
	if err != nil {
		return nil, fmt.Errorf("database server unreachable: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime.Std()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN())))
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return &DB{pool: pool, bunDB: bun.NewDB(sqldb, pgdialect.New())}, nil
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return err
	}
	return db.bunDB.PingContext(ctx)
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	took := time.Since(start)

	if err != nil {
		logger.LogQuery(sql, took, err)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", took),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

// InitializeSchema creates the listings and trades tables with their indexes.
// It is idempotent.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if _, err := db.ExecWithLog(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}

	tables := []any{
		(*models.Listing)(nil),
		(*models.Trade)(nil),
	}
	for _, model := range tables {
		_, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []*bun.CreateIndexQuery{
		db.bunDB.NewCreateIndex().
			Model((*models.Listing)(nil)).
			Index("idx_listings_open_feed").
			IfNotExists().
			ColumnExpr("status, card_id, created_at DESC"),
		db.bunDB.NewCreateIndex().
			Model((*models.Listing)(nil)).
			Index("idx_listings_creator").
			IfNotExists().
			ColumnExpr("created_by_uid, created_at DESC"),
		db.bunDB.NewCreateIndex().
			Model((*models.Trade)(nil)).
			Index("idx_trades_participants").
			IfNotExists().
			Using("GIN").
			Column("participants"),
	}
	for _, idx := range indexes {
		if _, err := idx.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	_, err := db.ExecWithLog(ctx,
		`INSERT INTO app_meta (key, value) VALUES ('schema_version', $1)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		strconv.Itoa(schemaVersion))
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	slog.Info("Database schema ready",
		slog.String("type", "db"),
		slog.Int("schema_version", schemaVersion),
	)
	return nil
}

// ResetAppTables truncates listings and trades for a fresh start.
func (db *DB) ResetAppTables(ctx context.Context) error {
	if _, err := db.ExecWithLog(ctx, `TRUNCATE TABLE "trades", "listings" CASCADE`); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	slog.Info("App tables truncated successfully", slog.String("type", "db"))
	return nil
}
