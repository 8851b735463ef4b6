package database

import "time"

// ScanRecord is one classified pair from a scan cycle
type ScanRecord struct {
	ID            int64     `json:"id"`
	ScanID        string    `json:"scan_id"`
	PairAddress   string    `json:"pair_address"`
	TokenAddress  string    `json:"token_address"`
	Symbol        string    `json:"symbol"`
	ChainID       string    `json:"chain_id"`
	Pattern       string    `json:"pattern"`
	PriceUsd      *float64  `json:"price_usd,omitempty"`
	LiquidityUsd  *float64  `json:"liquidity_usd,omitempty"`
	VolumeH24Usd  *float64  `json:"volume_h24_usd,omitempty"`
	MarketCapUsd  *float64  `json:"market_cap_usd,omitempty"`
	PriceChangeM5 *float64  `json:"price_change_m5,omitempty"`
	ScannedAt     time.Time `json:"scanned_at"`
}

// PaperTrade is a completed simulated trade
type PaperTrade struct {
	ID           int64     `json:"id"`
	TokenAddress string    `json:"token_address"`
	Symbol       string    `json:"symbol"`
	EntryPrice   float64   `json:"entry_price"`
	ExitPrice    float64   `json:"exit_price"`
	SizeSol      float64   `json:"size_sol"`
	PnLPercent   float64   `json:"pnl_percent"`
	OpenedAt     time.Time `json:"opened_at"`
	ClosedAt     time.Time `json:"closed_at"`
}
