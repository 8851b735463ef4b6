// Package scanner runs the periodic DexScreener discovery loop: search
// each configured query, classify every returned pair, persist the
// results, and hand signals to notifications and paper trading.
package scanner

import (
	"context"
	"log"
	"sync"
	"time"

	"dexscreener-analysis-bot/config"
	"dexscreener-analysis-bot/internal/analysis"
	"dexscreener-analysis-bot/internal/database"
	"dexscreener-analysis-bot/internal/dexscreener"
	"dexscreener-analysis-bot/internal/events"
	"dexscreener-analysis-bot/internal/rugcheck"

	"github.com/google/uuid"
)

// PairSource searches DexScreener for pairs matching a query
type PairSource interface {
	SearchPairs(ctx context.Context, query string) ([]dexscreener.Pair, error)
}

// ReportSource fetches rugcheck security reports
type ReportSource interface {
	ScanToken(ctx context.Context, tokenAddress string) (*rugcheck.Report, error)
}

// ReportCache caches rugcheck reports between cycles
type ReportCache interface {
	GetReport(ctx context.Context, tokenAddress string) (*rugcheck.Report, error)
	SetReport(ctx context.Context, tokenAddress string, report *rugcheck.Report) error
}

// ScanStore persists classified pairs
type ScanStore interface {
	SaveScan(ctx context.Context, rec *database.ScanRecord) error
}

// SignalNotifier delivers buy signals to notification providers
type SignalNotifier interface {
	SendSignal(symbol, tokenAddress, pattern string, price, marketCap, liquidity, volumeH24 float64, bonkbotRef string) error
}

// TradeOpener opens simulated positions on signals
type TradeOpener interface {
	OpenOnSignal(pair *dexscreener.Pair) bool
}

// CycleSummary describes the most recent completed scan cycle
type CycleSummary struct {
	ScanID        string        `json:"scan_id"`
	StartTime     time.Time     `json:"start_time"`
	Duration      time.Duration `json:"duration"`
	PairsScanned  int           `json:"pairs_scanned"`
	Signals       int           `json:"signals"`
	Blacklisted   int           `json:"blacklisted"`
	QueryFailures int           `json:"query_failures"`
}

// Scanner orchestrates the scan loop
type Scanner struct {
	pairs     PairSource
	reports   ReportSource
	cache     ReportCache
	store     ScanStore
	notifier  SignalNotifier
	trader    TradeOpener
	blacklist *analysis.Blacklist
	bus       *events.EventBus

	filters      config.FilterConfig
	scanCfg      config.ScannerConfig
	paperEnabled bool
	bonkbotRef   string

	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	lastScan *CycleSummary
}

// NewScanner creates a new scanner instance. reports, cache, store,
// notifier and trader may be nil; the corresponding step is skipped.
func NewScanner(
	pairs PairSource,
	reports ReportSource,
	cache ReportCache,
	store ScanStore,
	notifier SignalNotifier,
	trader TradeOpener,
	blacklist *analysis.Blacklist,
	bus *events.EventBus,
	cfg *config.Config,
) *Scanner {
	return &Scanner{
		pairs:        pairs,
		reports:      reports,
		cache:        cache,
		store:        store,
		notifier:     notifier,
		trader:       trader,
		blacklist:    blacklist,
		bus:          bus,
		filters:      cfg.FilterConfig,
		scanCfg:      cfg.ScannerConfig,
		paperEnabled: cfg.PaperTradingConfig.Enabled,
		bonkbotRef:   cfg.NotificationConfig.Telegram.BonkbotRef,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the background scan loop
func (sc *Scanner) Start() {
	if !sc.scanCfg.Enabled {
		log.Println("Pair scanner is disabled")
		return
	}

	sc.wg.Add(1)
	go sc.runScanLoop()
	log.Println("Pair scanner started")
}

// Stop signals the scan loop to exit and waits for it
func (sc *Scanner) Stop() {
	close(sc.stopChan)
	sc.wg.Wait()
}

// runScanLoop executes scans at configured intervals
func (sc *Scanner) runScanLoop() {
	defer sc.wg.Done()

	interval := time.Duration(sc.scanCfg.ScanInterval) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately
	sc.scan()

	for {
		select {
		case <-ticker.C:
			sc.scan()
		case <-sc.stopChan:
			log.Println("Pair scanner stopped")
			return
		}
	}
}

// Scan executes a single scan cycle (public method for manual triggering)
func (sc *Scanner) Scan() {
	sc.scan()
}

// LastScan returns the most recent cycle summary, or nil before the first cycle
func (sc *Scanner) LastScan() *CycleSummary {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.lastScan
}

// scan executes a single scan cycle
func (sc *Scanner) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary := &CycleSummary{
		ScanID:    uuid.New().String(),
		StartTime: time.Now(),
	}

	log.Printf("[Scanner] Starting scan %s", summary.ScanID)

	for i, query := range sc.scanCfg.Queries {
		if i > 0 && sc.scanCfg.QueryDelay > 0 {
			select {
			case <-time.After(time.Duration(sc.scanCfg.QueryDelay) * time.Second):
			case <-sc.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}

		pairs, err := sc.pairs.SearchPairs(ctx, query)
		if err != nil {
			log.Printf("[Scanner] Query %q failed: %v", query, err)
			summary.QueryFailures++
			continue
		}

		for j := range pairs {
			sc.processPair(ctx, summary, &pairs[j])
		}
	}

	summary.Duration = time.Since(summary.StartTime)

	sc.mu.Lock()
	sc.lastScan = summary
	sc.mu.Unlock()

	if sc.bus != nil {
		sc.bus.Publish(events.Event{
			Type: events.EventScanCycleDone,
			Data: map[string]interface{}{
				"scan_id":       summary.ScanID,
				"pairs_scanned": summary.PairsScanned,
				"signals":       summary.Signals,
				"blacklisted":   summary.Blacklisted,
				"duration_ms":   summary.Duration.Milliseconds(),
			},
		})
	}

	log.Printf("[Scanner] Scan %s completed in %v: %d pairs, %d signals, %d blacklisted",
		summary.ScanID, summary.Duration, summary.PairsScanned, summary.Signals, summary.Blacklisted)
}

// processPair classifies a single pair and routes the outcome
func (sc *Scanner) processPair(ctx context.Context, summary *CycleSummary, pair *dexscreener.Pair) {
	summary.PairsScanned++

	report := sc.fetchReport(ctx, pair.BaseToken.Address)
	pattern := analysis.Classify(pair, sc.filters, sc.blacklist, report)

	sc.persistScan(ctx, summary.ScanID, pair, pattern)

	if sc.bus != nil {
		sc.bus.PublishPairClassified(pair.PairAddress, pair.BaseToken.Address, pair.BaseToken.Symbol, string(pattern))
	}

	if pattern.IsSecurityRisk() && sc.scanCfg.AutoBlacklist && sc.blacklist != nil {
		if !sc.blacklist.Contains(pair.PairAddress) {
			sc.blacklist.Add(pair.PairAddress)
			summary.Blacklisted++
			log.Printf("[Scanner] Blacklisted %s (%s): %s", pair.BaseToken.Symbol, pair.PairAddress, pattern)
			if sc.bus != nil {
				sc.bus.PublishPairBlacklisted(pair.PairAddress, pair.BaseToken.Address, pair.BaseToken.Symbol, string(pattern))
			}
		}
		return
	}

	if !pattern.IsSignal() {
		return
	}
	summary.Signals++

	price, _ := pair.PriceUSD()
	liquidity, _ := pair.LiquidityUSD()
	marketCap, _ := pair.MarketCapUSD()

	if sc.notifier != nil {
		if err := sc.notifier.SendSignal(
			pair.BaseToken.Symbol, pair.BaseToken.Address, string(pattern),
			price, marketCap, liquidity, pair.Volume.H24, sc.bonkbotRef,
		); err != nil {
			log.Printf("[Scanner] Signal notification failed for %s: %v", pair.BaseToken.Symbol, err)
		}
	}

	if sc.bus != nil {
		sc.bus.PublishSignal(pair.BaseToken.Address, pair.BaseToken.Symbol, string(pattern), price)
	}

	if sc.paperEnabled && sc.trader != nil {
		sc.trader.OpenOnSignal(pair)
	}
}

// fetchReport returns the rugcheck report for a token, consulting the
// cache first. Any failure degrades to a nil report; classification
// then proceeds without security data.
func (sc *Scanner) fetchReport(ctx context.Context, tokenAddress string) *rugcheck.Report {
	if sc.reports == nil || tokenAddress == "" {
		return nil
	}

	if sc.cache != nil {
		if report, err := sc.cache.GetReport(ctx, tokenAddress); err == nil && report != nil {
			return report
		}
	}

	report, err := sc.reports.ScanToken(ctx, tokenAddress)
	if err != nil {
		log.Printf("[Scanner] Rugcheck lookup failed for %s: %v", tokenAddress, err)
		return nil
	}

	if sc.cache != nil {
		if err := sc.cache.SetReport(ctx, tokenAddress, report); err != nil {
			log.Printf("[Scanner] Report cache write failed for %s: %v", tokenAddress, err)
		}
	}
	return report
}

// persistScan writes a scan record, logging on failure without
// interrupting the cycle.
func (sc *Scanner) persistScan(ctx context.Context, scanID string, pair *dexscreener.Pair, pattern analysis.MarketPattern) {
	if sc.store == nil {
		return
	}

	rec := &database.ScanRecord{
		ScanID:       scanID,
		PairAddress:  pair.PairAddress,
		TokenAddress: pair.BaseToken.Address,
		Symbol:       pair.BaseToken.Symbol,
		ChainID:      pair.ChainID,
		Pattern:      string(pattern),
		ScannedAt:    time.Now(),
	}
	if price, ok := pair.PriceUSD(); ok {
		rec.PriceUsd = &price
	}
	if liq, ok := pair.LiquidityUSD(); ok {
		rec.LiquidityUsd = &liq
	}
	vol := pair.Volume.H24
	rec.VolumeH24Usd = &vol
	if mcap, ok := pair.MarketCapUSD(); ok {
		rec.MarketCapUsd = &mcap
	}
	if m5, ok := pair.PriceChangeM5(); ok {
		rec.PriceChangeM5 = &m5
	}

	if err := sc.store.SaveScan(ctx, rec); err != nil {
		log.Printf("[Scanner] Failed to persist scan for %s: %v", pair.PairAddress, err)
	}
}
