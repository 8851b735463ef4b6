package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"dexscreener-analysis-bot/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the PostgreSQL connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB creates a new database connection
func NewDB(cfg config.DatabaseConfig) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	// Configure connection pool
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Printf("Successfully connected to PostgreSQL database: %s", cfg.Database)

	return &DB{Pool: pool}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	if db != nil && db.Pool != nil {
		db.Pool.Close()
		log.Println("Database connection closed")
	}
}

// RunMigrations executes database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return nil
	}

	log.Println("Running database migrations...")

	migrations := []string{
		// Every classified pair becomes a scan row, signal or not.
		`CREATE TABLE IF NOT EXISTS scans (
			id SERIAL PRIMARY KEY,
			scan_id UUID NOT NULL,
			pair_address VARCHAR(64) NOT NULL,
			token_address VARCHAR(64) NOT NULL,
			symbol VARCHAR(32) NOT NULL,
			chain_id VARCHAR(32),
			pattern VARCHAR(32) NOT NULL,
			price_usd DECIMAL(30, 12),
			liquidity_usd DECIMAL(20, 2),
			volume_h24_usd DECIMAL(20, 2),
			market_cap_usd DECIMAL(20, 2),
			price_change_m5 DECIMAL(10, 4),
			scanned_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_token ON scans(token_address)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_pattern ON scans(pattern)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at)`,

		// Completed paper trades only; open positions live in memory.
		`CREATE TABLE IF NOT EXISTS paper_trades (
			id SERIAL PRIMARY KEY,
			token_address VARCHAR(64) NOT NULL,
			symbol VARCHAR(32) NOT NULL,
			entry_price DECIMAL(30, 12) NOT NULL,
			exit_price DECIMAL(30, 12) NOT NULL,
			size_sol DECIMAL(20, 8) NOT NULL,
			pnl_percent DECIMAL(10, 4) NOT NULL,
			opened_at TIMESTAMP NOT NULL,
			closed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_trades_token ON paper_trades(token_address)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_trades_closed_at ON paper_trades(closed_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
