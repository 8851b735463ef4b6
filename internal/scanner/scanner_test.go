package scanner

import (
	"context"
	"errors"
	"testing"

	"dexscreener-analysis-bot/config"
	"dexscreener-analysis-bot/internal/analysis"
	"dexscreener-analysis-bot/internal/database"
	"dexscreener-analysis-bot/internal/dexscreener"
	"dexscreener-analysis-bot/internal/rugcheck"
)

type fakePairSource struct {
	results map[string][]dexscreener.Pair
	errs    map[string]error
	calls   []string
}

func (f *fakePairSource) SearchPairs(ctx context.Context, query string) ([]dexscreener.Pair, error) {
	f.calls = append(f.calls, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	return f.results[query], nil
}

type fakeReportSource struct {
	reports map[string]*rugcheck.Report
	err     error
	calls   int
}

func (f *fakeReportSource) ScanToken(ctx context.Context, tokenAddress string) (*rugcheck.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.reports[tokenAddress], nil
}

type fakeReportCache struct {
	reports map[string]*rugcheck.Report
	sets    int
}

func (f *fakeReportCache) GetReport(ctx context.Context, tokenAddress string) (*rugcheck.Report, error) {
	if r, ok := f.reports[tokenAddress]; ok {
		return r, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeReportCache) SetReport(ctx context.Context, tokenAddress string, report *rugcheck.Report) error {
	if f.reports == nil {
		f.reports = map[string]*rugcheck.Report{}
	}
	f.reports[tokenAddress] = report
	f.sets++
	return nil
}

type fakeScanStore struct {
	records []*database.ScanRecord
}

func (f *fakeScanStore) SaveScan(ctx context.Context, rec *database.ScanRecord) error {
	f.records = append(f.records, rec)
	return nil
}

type fakeSignalNotifier struct {
	signals []string
}

func (f *fakeSignalNotifier) SendSignal(symbol, tokenAddress, pattern string, price, marketCap, liquidity, volumeH24 float64, bonkbotRef string) error {
	f.signals = append(f.signals, tokenAddress)
	return nil
}

type fakeTradeOpener struct {
	opened []string
}

func (f *fakeTradeOpener) OpenOnSignal(pair *dexscreener.Pair) bool {
	f.opened = append(f.opened, pair.BaseToken.Address)
	return true
}

func fptr(v float64) *float64 { return &v }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.FilterConfig = config.FilterConfig{
		MinLiquidityUSD:         1000,
		MinVolumeH24USD:         5000,
		MinMarketCapUSD:         10000,
		MaxVolumeLiquidityRatio: 50,
		MaxBundledSupplyPercent: 25,
		MomentumProfile:         config.MomentumProfileGrowthBand,
	}
	cfg.ScannerConfig = config.ScannerConfig{
		Enabled:       true,
		Queries:       []string{"pump"},
		AutoBlacklist: true,
	}
	cfg.PaperTradingConfig.Enabled = true
	return cfg
}

func healthyPair(token string) dexscreener.Pair {
	return dexscreener.Pair{
		ChainID:     "solana",
		PairAddress: "pair-" + token,
		BaseToken:   dexscreener.Token{Address: token, Symbol: "TKN"},
		PriceUsd:    "0.5",
		Liquidity:   &dexscreener.Liquidity{Usd: fptr(20000)},
		Volume:      dexscreener.PairVolume{H24: 30000},
		MarketCap:   fptr(50000),
		PriceChange: dexscreener.PriceChange{M5: fptr(10)},
	}
}

func goodReport() *rugcheck.Report {
	return &rugcheck.Report{Status: rugcheck.StatusGood, FileMeta: &rugcheck.FileMeta{BundleRatio: fptr(0.05)}}
}

func TestScanSignalFlow(t *testing.T) {
	pairs := &fakePairSource{results: map[string][]dexscreener.Pair{
		"pump": {healthyPair("TOKEN1")},
	}}
	reports := &fakeReportSource{reports: map[string]*rugcheck.Report{"TOKEN1": goodReport()}}
	store := &fakeScanStore{}
	notifier := &fakeSignalNotifier{}
	trader := &fakeTradeOpener{}

	sc := NewScanner(pairs, reports, nil, store, notifier, trader, analysis.NewBlacklist(nil), nil, testConfig())
	sc.Scan()

	if len(store.records) != 1 {
		t.Fatalf("expected 1 scan record, got %d", len(store.records))
	}
	if store.records[0].Pattern != string(analysis.PatternGoodCandidate) {
		t.Errorf("expected GoodCandidate record, got %s", store.records[0].Pattern)
	}
	if len(notifier.signals) != 1 || notifier.signals[0] != "TOKEN1" {
		t.Errorf("expected signal for TOKEN1, got %v", notifier.signals)
	}
	if len(trader.opened) != 1 {
		t.Errorf("expected paper trade open, got %v", trader.opened)
	}

	last := sc.LastScan()
	if last == nil || last.Signals != 1 || last.PairsScanned != 1 {
		t.Errorf("unexpected cycle summary: %+v", last)
	}
}

func TestScanAutoBlacklistsSecurityRisk(t *testing.T) {
	pair := healthyPair("TOKEN1")
	pairs := &fakePairSource{results: map[string][]dexscreener.Pair{"pump": {pair}}}
	reports := &fakeReportSource{reports: map[string]*rugcheck.Report{
		"TOKEN1": {Status: "warn"},
	}}
	store := &fakeScanStore{}
	notifier := &fakeSignalNotifier{}
	blacklist := analysis.NewBlacklist(nil)

	sc := NewScanner(pairs, reports, nil, store, notifier, nil, blacklist, nil, testConfig())
	sc.Scan()

	if !blacklist.Contains(pair.PairAddress) {
		t.Error("security risk pair should be auto-blacklisted")
	}
	if len(notifier.signals) != 0 {
		t.Errorf("security risk must not produce a signal, got %v", notifier.signals)
	}
	if store.records[0].Pattern != string(analysis.PatternRugcheckRisk) {
		t.Errorf("expected RugcheckRisk record, got %s", store.records[0].Pattern)
	}

	// A second cycle sees the pair first on the blacklist.
	sc.Scan()
	if got := store.records[1].Pattern; got != string(analysis.PatternBlacklisted) {
		t.Errorf("expected Blacklisted on second pass, got %s", got)
	}
}

func TestScanDegradesWhenRugcheckFails(t *testing.T) {
	pairs := &fakePairSource{results: map[string][]dexscreener.Pair{
		"pump": {healthyPair("TOKEN1")},
	}}
	reports := &fakeReportSource{err: errors.New("rugcheck down")}
	store := &fakeScanStore{}
	notifier := &fakeSignalNotifier{}

	sc := NewScanner(pairs, reports, nil, store, notifier, nil, analysis.NewBlacklist(nil), nil, testConfig())
	sc.Scan()

	// Classification proceeds without security data.
	if len(store.records) != 1 {
		t.Fatalf("expected pair to still be classified, got %d records", len(store.records))
	}
	if store.records[0].Pattern != string(analysis.PatternGoodCandidate) {
		t.Errorf("expected GoodCandidate without report, got %s", store.records[0].Pattern)
	}
	if len(notifier.signals) != 1 {
		t.Errorf("expected signal despite rugcheck outage, got %v", notifier.signals)
	}
}

func TestScanUsesReportCache(t *testing.T) {
	pairs := &fakePairSource{results: map[string][]dexscreener.Pair{
		"pump": {healthyPair("TOKEN1")},
	}}
	reports := &fakeReportSource{reports: map[string]*rugcheck.Report{"TOKEN1": goodReport()}}
	cache := &fakeReportCache{}

	sc := NewScanner(pairs, reports, cache, nil, nil, nil, analysis.NewBlacklist(nil), nil, testConfig())
	sc.Scan()
	sc.Scan()

	if reports.calls != 1 {
		t.Errorf("expected a single rugcheck call across two cycles, got %d", reports.calls)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}
}

func TestScanContinuesAfterQueryFailure(t *testing.T) {
	pairs := &fakePairSource{
		results: map[string][]dexscreener.Pair{"moon": {healthyPair("TOKEN2")}},
		errs:    map[string]error{"pump": errors.New("rate limited")},
	}
	store := &fakeScanStore{}

	cfg := testConfig()
	cfg.ScannerConfig.Queries = []string{"pump", "moon"}

	sc := NewScanner(pairs, nil, nil, store, nil, nil, analysis.NewBlacklist(nil), nil, cfg)
	sc.Scan()

	if len(pairs.calls) != 2 {
		t.Fatalf("expected both queries attempted, got %v", pairs.calls)
	}
	if len(store.records) != 1 {
		t.Errorf("expected second query's pair recorded, got %d", len(store.records))
	}
	if last := sc.LastScan(); last == nil || last.QueryFailures != 1 {
		t.Errorf("expected one query failure in summary: %+v", sc.LastScan())
	}
}
