package database

import (
	"context"
	"fmt"
	"time"
)

// Repository provides data access methods. A nil underlying pool turns
// every method into a no-op so the bot runs without persistence.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) available() bool {
	return r != nil && r.db != nil && r.db.Pool != nil
}

// HealthCheck performs a database health check
func (r *Repository) HealthCheck(ctx context.Context) error {
	if !r.available() {
		return fmt.Errorf("database not configured")
	}
	return r.db.Pool.Ping(ctx)
}

// ============================================================================
// SCANS
// ============================================================================

// SaveScan inserts a scan record
func (r *Repository) SaveScan(ctx context.Context, rec *ScanRecord) error {
	if !r.available() {
		return nil
	}
	if rec.ScannedAt.IsZero() {
		rec.ScannedAt = time.Now()
	}
	query := `
		INSERT INTO scans (scan_id, pair_address, token_address, symbol, chain_id, pattern,
			price_usd, liquidity_usd, volume_h24_usd, market_cap_usd, price_change_m5, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.db.Pool.QueryRow(
		ctx, query,
		rec.ScanID, rec.PairAddress, rec.TokenAddress, rec.Symbol, rec.ChainID, rec.Pattern,
		rec.PriceUsd, rec.LiquidityUsd, rec.VolumeH24Usd, rec.MarketCapUsd, rec.PriceChangeM5, rec.ScannedAt,
	).Scan(&rec.ID)
}

// RecentScans returns the newest scan records, optionally filtered by pattern
func (r *Repository) RecentScans(ctx context.Context, pattern string, limit int) ([]*ScanRecord, error) {
	if !r.available() {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, scan_id, pair_address, token_address, symbol, chain_id, pattern,
			price_usd, liquidity_usd, volume_h24_usd, market_cap_usd, price_change_m5, scanned_at
		FROM scans
		WHERE ($1 = '' OR pattern = $1)
		ORDER BY scanned_at DESC
		LIMIT $2
	`
	rows, err := r.db.Pool.Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var records []*ScanRecord
	for rows.Next() {
		rec := &ScanRecord{}
		err := rows.Scan(
			&rec.ID, &rec.ScanID, &rec.PairAddress, &rec.TokenAddress, &rec.Symbol, &rec.ChainID, &rec.Pattern,
			&rec.PriceUsd, &rec.LiquidityUsd, &rec.VolumeH24Usd, &rec.MarketCapUsd, &rec.PriceChangeM5, &rec.ScannedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ============================================================================
// PAPER TRADES
// ============================================================================

// SaveClosedTrade inserts a completed paper trade
func (r *Repository) SaveClosedTrade(ctx context.Context, trade *PaperTrade) error {
	if !r.available() {
		return nil
	}
	if trade.ClosedAt.IsZero() {
		trade.ClosedAt = time.Now()
	}
	query := `
		INSERT INTO paper_trades (token_address, symbol, entry_price, exit_price, size_sol, pnl_percent, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.db.Pool.QueryRow(
		ctx, query,
		trade.TokenAddress, trade.Symbol, trade.EntryPrice, trade.ExitPrice,
		trade.SizeSol, trade.PnLPercent, trade.OpenedAt, trade.ClosedAt,
	).Scan(&trade.ID)
}

// RecentClosedTrades returns the newest completed paper trades
func (r *Repository) RecentClosedTrades(ctx context.Context, limit int) ([]*PaperTrade, error) {
	if !r.available() {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, token_address, symbol, entry_price, exit_price, size_sol, pnl_percent, opened_at, closed_at
		FROM paper_trades
		ORDER BY closed_at DESC
		LIMIT $1
	`
	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query paper trades: %w", err)
	}
	defer rows.Close()

	var trades []*PaperTrade
	for rows.Next() {
		trade := &PaperTrade{}
		err := rows.Scan(
			&trade.ID, &trade.TokenAddress, &trade.Symbol, &trade.EntryPrice, &trade.ExitPrice,
			&trade.SizeSol, &trade.PnLPercent, &trade.OpenedAt, &trade.ClosedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}
