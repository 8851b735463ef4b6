// Package papertrade tracks simulated positions opened on scan signals.
//
// The open-position set is shared between the scan loop (which opens) and
// the monitor loop (which reviews and closes); all mutations happen under
// one mutex. A position is either open or gone: closing removes it from
// the set, historical records are the persistence subscriber's concern.
package papertrade

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"dexscreener-analysis-bot/config"
	"dexscreener-analysis-bot/internal/dexscreener"
	"dexscreener-analysis-bot/internal/events"
)

// Position is one simulated trade. Positions are never mutated after
// creation.
type Position struct {
	TokenAddress string    `json:"token_address"`
	Symbol       string    `json:"symbol"`
	EntryPrice   float64   `json:"entry_price"`
	Size         float64   `json:"size"`
	EntryTime    time.Time `json:"entry_time"`
}

// PriceLookup fetches the current USD price for a token. A false second
// return or an error means "no price this cycle" and is not fatal.
type PriceLookup func(ctx context.Context, tokenAddress string) (float64, bool, error)

// Notifier receives entered/closed trade events. notification.Manager
// satisfies it.
type Notifier interface {
	SendTradeOpen(symbol, tokenAddress string, price float64) error
	SendTradeClose(symbol, tokenAddress string, entryPrice, exitPrice, pnlPercent float64) error
}

// Manager owns the set of open simulated positions.
type Manager struct {
	mu   sync.Mutex
	open map[string]*Position

	cfg      config.PaperTradingConfig
	notifier Notifier
	bus      *events.EventBus
	logger   zerolog.Logger

	opensCount  int64
	closesCount int64
}

// NewManager creates a paper-trade manager. notifier and bus may be nil.
func NewManager(cfg config.PaperTradingConfig, notifier Notifier, bus *events.EventBus, logger zerolog.Logger) *Manager {
	return &Manager{
		open:     make(map[string]*Position),
		cfg:      cfg,
		notifier: notifier,
		bus:      bus,
		logger:   logger.With().Str("component", "papertrade").Logger(),
	}
}

// OpenOnSignal opens a position for the pair's base token. The caller has
// already classified the pair as a qualifying signal. Returns false when
// no position was opened: one already exists for the token (duplicate
// signals are an expected race, not an error) or the snapshot carries no
// parsable price.
func (m *Manager) OpenOnSignal(pair *dexscreener.Pair) bool {
	price, ok := pair.PriceUSD()
	if !ok || price <= 0 {
		m.logger.Debug().
			Str("symbol", pair.BaseToken.Symbol).
			Msg("Signal without parsable price, skipping entry")
		return false
	}

	pos := &Position{
		TokenAddress: pair.BaseToken.Address,
		Symbol:       pair.BaseToken.Symbol,
		EntryPrice:   price,
		Size:         m.cfg.BuyAmountSol,
		EntryTime:    time.Now(),
	}

	m.mu.Lock()
	if _, exists := m.open[pos.TokenAddress]; exists {
		m.mu.Unlock()
		return false
	}
	m.open[pos.TokenAddress] = pos
	m.mu.Unlock()

	atomic.AddInt64(&m.opensCount, 1)
	m.logger.Info().
		Str("symbol", pos.Symbol).
		Str("token", pos.TokenAddress).
		Float64("entry_price", pos.EntryPrice).
		Float64("size", pos.Size).
		Msg("Paper trade opened")

	if m.notifier != nil {
		if err := m.notifier.SendTradeOpen(pos.Symbol, pos.TokenAddress, pos.EntryPrice); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to send trade-open notification")
		}
	}
	if m.bus != nil {
		m.bus.PublishTradeOpened(pos.TokenAddress, pos.Symbol, pos.EntryPrice, pos.Size)
	}
	return true
}

// closedPosition pairs a removed position with its exit numbers.
type closedPosition struct {
	pos        *Position
	exitPrice  float64
	pnlPercent float64
}

// ReviewOpenPositions evaluates every open position against the current
// price and closes those past the take-profit or stop-loss threshold.
//
// Price lookups run outside the lock; removals are applied in a second,
// locked pass keyed on the exact position pointer so a position that was
// concurrently closed and reopened is never double-closed. A lookup
// failure leaves its position untouched and never affects the rest of
// the pass.
func (m *Manager) ReviewOpenPositions(ctx context.Context, lookup PriceLookup) {
	m.mu.Lock()
	snapshot := make([]*Position, 0, len(m.open))
	for _, pos := range m.open {
		snapshot = append(snapshot, pos)
	}
	m.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}

	var toClose []closedPosition
	for _, pos := range snapshot {
		price, ok, err := lookup(ctx, pos.TokenAddress)
		if err != nil {
			m.logger.Warn().
				Err(err).
				Str("symbol", pos.Symbol).
				Msg("Price lookup failed, position left open")
			continue
		}
		if !ok || price <= 0 {
			continue
		}

		pnl := (price - pos.EntryPrice) / pos.EntryPrice * 100.0
		m.logger.Debug().
			Str("symbol", pos.Symbol).
			Float64("pnl_percent", pnl).
			Msg("Paper trade reviewed")

		if pnl >= m.cfg.TakeProfitPercent || pnl <= -m.cfg.StopLossPercent {
			toClose = append(toClose, closedPosition{pos: pos, exitPrice: price, pnlPercent: pnl})
		}
	}

	if len(toClose) == 0 {
		return
	}

	closed := make([]closedPosition, 0, len(toClose))
	m.mu.Lock()
	for _, c := range toClose {
		if current, exists := m.open[c.pos.TokenAddress]; exists && current == c.pos {
			delete(m.open, c.pos.TokenAddress)
			closed = append(closed, c)
		}
	}
	m.mu.Unlock()

	for _, c := range closed {
		atomic.AddInt64(&m.closesCount, 1)
		m.logger.Info().
			Str("symbol", c.pos.Symbol).
			Float64("entry_price", c.pos.EntryPrice).
			Float64("exit_price", c.exitPrice).
			Float64("pnl_percent", c.pnlPercent).
			Msg("Paper trade closed")

		if m.notifier != nil {
			if err := m.notifier.SendTradeClose(c.pos.Symbol, c.pos.TokenAddress, c.pos.EntryPrice, c.exitPrice, c.pnlPercent); err != nil {
				m.logger.Warn().Err(err).Msg("Failed to send trade-close notification")
			}
		}
		if m.bus != nil {
			m.bus.PublishTradeClosed(c.pos.TokenAddress, c.pos.Symbol, c.pos.EntryPrice, c.exitPrice, c.pnlPercent, c.pos.EntryTime)
		}
	}
}

// Monitor drives ReviewOpenPositions on a fixed cadence until the context
// is cancelled. Cancellation is honored between passes; a pass in flight
// finishes.
func (m *Manager) Monitor(ctx context.Context, lookup PriceLookup, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info().Dur("interval", interval).Msg("Position monitor started")
	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Position monitor stopped")
			return
		case <-ticker.C:
			m.ReviewOpenPositions(ctx, lookup)
		}
	}
}

// OpenPositions returns a copy of the currently open positions.
func (m *Manager) OpenPositions() []Position {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Position, 0, len(m.open))
	for _, pos := range m.open {
		out = append(out, *pos)
	}
	return out
}

// HasOpenPosition reports whether a position exists for the token.
func (m *Manager) HasOpenPosition(tokenAddress string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.open[tokenAddress]
	return ok
}

// Stats reports lifetime open/close counters.
func (m *Manager) Stats() (opens, closes int64) {
	return atomic.LoadInt64(&m.opensCount), atomic.LoadInt64(&m.closesCount)
}
