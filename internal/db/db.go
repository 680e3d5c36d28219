package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"sullendaAPI/internal/config"
)

// Connect opens the pool and pings it before returning.
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.DB.MaxConns
	poolConfig.MinConns = cfg.DB.MinConns
	poolConfig.MaxConnLifetime = cfg.DB.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DB.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Connected to database",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
	)
	return pool, nil
}

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
	`CREATE TABLE IF NOT EXISTS drink_logs (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id   TEXT NOT NULL,
		date       DATE NOT NULL,
		category   TEXT NOT NULL,
		servings   DOUBLE PRECISION NOT NULL CHECK (servings > 0),
		volume_ml  DOUBLE PRECISION NOT NULL,
		note       TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS drink_logs_owner_date_idx ON drink_logs (owner_id, date)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id     TEXT NOT NULL,
		type         TEXT NOT NULL,
		target_value DOUBLE PRECISION NOT NULL,
		start_date   DATE,
		end_date     DATE,
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS goals_owner_type_idx ON goals (owner_id, type)`,
	`UPDATE goals g SET is_active = false, end_date = COALESCE(g.end_date, CURRENT_DATE)
	WHERE g.is_active AND EXISTS (
		SELECT 1 FROM goals o
		WHERE o.owner_id = g.owner_id AND o.type = g.type AND o.is_active
		AND (o.updated_at, o.id) > (g.updated_at, g.id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS goals_one_active_idx ON goals (owner_id, type) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS device_tokens (
		id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id   TEXT NOT NULL,
		token      TEXT NOT NULL UNIQUE,
		platform   TEXT NOT NULL DEFAULT 'android',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS device_tokens_owner_idx ON device_tokens (owner_id)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		owner_id   TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		weight_kg  DOUBLE PRECISION,
		height_cm  DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the tables the services use. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	log.Info("Schema migration finished", zap.Int("statements", len(schema)))
	return nil
}
