package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrMissingDSN = errors.New("DATABASE_URL not set")

// ConnectPostgres opens a pool, pings it and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Info("connected to postgres")

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return db, nil
}

// InitSchema creates the tables if they are missing.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	// -------------------------------
	// USERS
	// -------------------------------
	userTableSQL := `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'USER',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, userTableSQL); err != nil {
		return err
	}

	// -------------------------------
	// SEARCH EVENTS
	// -------------------------------
	searchEventsSQL := `
		CREATE TABLE IF NOT EXISTS search_events (
			id UUID PRIMARY KEY,
			session_id VARCHAR(64) NOT NULL,
			surface VARCHAR(32) NOT NULL,
			query TEXT NOT NULL,
			result_count INTEGER NOT NULL DEFAULT 0,
			outcome VARCHAR(32) NOT NULL,
			latency_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(ctx, searchEventsSQL); err != nil {
		return err
	}

	indexSQL := `
		CREATE INDEX IF NOT EXISTS search_events_created_at_idx
		ON search_events (created_at DESC)
	`
	if _, err := db.Exec(ctx, indexSQL); err != nil {
		return err
	}

	log.Info("schema initialized")
	return nil
}
