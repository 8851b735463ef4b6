package analysis

import (
	"testing"

	"dexscreener-analysis-bot/config"
	"dexscreener-analysis-bot/internal/dexscreener"
	"dexscreener-analysis-bot/internal/rugcheck"
)

func testFilters() config.FilterConfig {
	return config.FilterConfig{
		MinLiquidityUSD:         1000.0,
		MinVolumeH24USD:         5000.0,
		MinMarketCapUSD:         10000.0,
		MaxVolumeLiquidityRatio: 50.0,
		MaxBundledSupplyPercent: 25.0,
		MomentumProfile:         config.MomentumProfileGrowthBand,
	}
}

func fptr(v float64) *float64 { return &v }

// healthyPair builds a pair that clears every gate and matches no
// heuristic, so rule effects can be isolated per test.
func healthyPair() *dexscreener.Pair {
	return &dexscreener.Pair{
		PairAddress: "PAIR",
		BaseToken:   dexscreener.Token{Address: "TOKEN", Symbol: "TKN", Name: "Token"},
		PriceUsd:    "0.5",
		Volume:      dexscreener.PairVolume{H24: 6000},
		Liquidity:   &dexscreener.Liquidity{Usd: fptr(2000)},
		MarketCap:   fptr(50000),
	}
}

func goodReport() *rugcheck.Report {
	return &rugcheck.Report{Status: rugcheck.StatusGood}
}

func TestBlacklistDominatesEverything(t *testing.T) {
	bl := NewBlacklist([]string{"PAIR"})

	// Even a pair with a malformed report and rug-grade numbers reports
	// Blacklisted first.
	pair := healthyPair()
	pair.PriceChange.M5 = fptr(-90)
	badReport := &rugcheck.Report{Status: "danger"}

	if got := Classify(pair, testFilters(), bl, badReport); got != PatternBlacklisted {
		t.Errorf("expected Blacklisted, got %s", got)
	}
}

func TestRugcheckStatusNotGood(t *testing.T) {
	bl := NewBlacklist(nil)
	report := &rugcheck.Report{Status: "warning"}

	if got := Classify(healthyPair(), testFilters(), bl, report); got != PatternRugcheckRisk {
		t.Errorf("expected RugcheckRisk, got %s", got)
	}
}

func TestMissingReportIsNotARisk(t *testing.T) {
	bl := NewBlacklist(nil)
	if got := Classify(healthyPair(), testFilters(), bl, nil); got == PatternRugcheckRisk {
		t.Error("absent report must not classify as RugcheckRisk")
	}
}

func TestBundledSupply(t *testing.T) {
	bl := NewBlacklist(nil)
	report := &rugcheck.Report{
		Status:   rugcheck.StatusGood,
		FileMeta: &rugcheck.FileMeta{BundleRatio: fptr(0.30)},
	}

	// 0.30 * 100 = 30 > 25
	if got := Classify(healthyPair(), testFilters(), bl, report); got != PatternBundledSupply {
		t.Errorf("expected BundledSupply, got %s", got)
	}

	// At 20% the ratio is under the cutoff.
	report.FileMeta.BundleRatio = fptr(0.20)
	if got := Classify(healthyPair(), testFilters(), bl, report); got == PatternBundledSupply {
		t.Error("ratio under cutoff must not classify as BundledSupply")
	}
}

func TestFakeVolume(t *testing.T) {
	bl := NewBlacklist(nil)
	pair := healthyPair()
	pair.Liquidity = &dexscreener.Liquidity{Usd: fptr(500)}
	pair.Volume.H24 = 30000 // VLR 60 > 50

	if got := Classify(pair, testFilters(), bl, goodReport()); got != PatternFakeVolume {
		t.Errorf("expected FakeVolume, got %s", got)
	}
}

func TestFakeVolumeSkippedWithoutLiquidity(t *testing.T) {
	bl := NewBlacklist(nil)
	pair := healthyPair()
	pair.Liquidity = nil
	pair.Volume.H24 = 1e9

	// Unknown liquidity skips the ratio check and the pair falls to the
	// size floor instead.
	if got := Classify(pair, testFilters(), bl, nil); got != PatternUnknown {
		t.Errorf("expected Unknown, got %s", got)
	}
}

func TestSizeFloors(t *testing.T) {
	bl := NewBlacklist(nil)
	cases := []struct {
		name   string
		mutate func(*dexscreener.Pair)
	}{
		{"liquidity below floor", func(p *dexscreener.Pair) { p.Liquidity.Usd = fptr(500) }},
		{"liquidity unknown", func(p *dexscreener.Pair) { p.Liquidity = nil }},
		{"volume below floor", func(p *dexscreener.Pair) { p.Volume.H24 = 100 }},
		{"market cap below floor", func(p *dexscreener.Pair) { p.MarketCap = fptr(5000) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pair := healthyPair()
			pair.PriceChange.M5 = fptr(10) // would be GoodCandidate if floors passed
			tc.mutate(pair)
			if got := Classify(pair, testFilters(), bl, nil); got != PatternUnknown {
				t.Errorf("expected Unknown, got %s", got)
			}
		})
	}
}

func TestRugCandidate(t *testing.T) {
	bl := NewBlacklist(nil)
	pair := healthyPair()
	pair.PriceChange.M5 = fptr(-60)

	if got := Classify(pair, testFilters(), bl, nil); got != PatternRugCandidate {
		t.Errorf("expected RugCandidate, got %s", got)
	}
}

func TestGrowthBandProfile(t *testing.T) {
	bl := NewBlacklist(nil)
	cfg := testFilters()

	cases := []struct {
		m5   float64
		want MarketPattern
	}{
		{10, PatternGoodCandidate},
		{49.9, PatternGoodCandidate},
		{5, PatternUnknown},  // boundary excluded
		{50, PatternUnknown}, // boundary excluded
		{60, PatternUnknown}, // above band, pump threshold not active
		{2, PatternUnknown},
	}

	for _, tc := range cases {
		pair := healthyPair()
		pair.PriceChange.M5 = fptr(tc.m5)
		if got := Classify(pair, cfg, bl, nil); got != tc.want {
			t.Errorf("m5=%v: expected %s, got %s", tc.m5, tc.want, got)
		}
	}
}

func TestPumpProfile(t *testing.T) {
	bl := NewBlacklist(nil)
	cfg := testFilters()
	cfg.MomentumProfile = config.MomentumProfilePump

	pair := healthyPair()
	pair.PriceChange.M5 = fptr(25)
	if got := Classify(pair, cfg, bl, nil); got != PatternPumpCandidate {
		t.Errorf("expected PumpCandidate, got %s", got)
	}

	// In the pump profile a moderate rise is not a verdict.
	pair.PriceChange.M5 = fptr(10)
	if got := Classify(pair, cfg, bl, nil); got != PatternUnknown {
		t.Errorf("expected Unknown, got %s", got)
	}
}

func TestMissingM5SkipsMomentum(t *testing.T) {
	bl := NewBlacklist(nil)
	pair := healthyPair()
	pair.PriceChange.M5 = nil

	if got := Classify(pair, testFilters(), bl, nil); got != PatternUnknown {
		t.Errorf("expected Unknown, got %s", got)
	}
}

func TestStableTier1(t *testing.T) {
	bl := NewBlacklist(nil)
	pair := healthyPair()
	pair.MarketCap = fptr(20_000_000)
	pair.Liquidity = &dexscreener.Liquidity{Usd: fptr(600_000)}
	pair.Volume.H24 = 2_000_000

	if got := Classify(pair, testFilters(), bl, nil); got != PatternStableTier1 {
		t.Errorf("expected StableTier1, got %s", got)
	}

	// Tier 1 requires all three legs.
	pair.Volume.H24 = 500_000
	if got := Classify(pair, testFilters(), bl, nil); got != PatternUnknown {
		t.Errorf("expected Unknown without tier volume, got %s", got)
	}
}

func TestClassifyIsPure(t *testing.T) {
	bl := NewBlacklist(nil)
	pair := healthyPair()
	pair.PriceChange.M5 = fptr(12)
	report := goodReport()

	first := Classify(pair, testFilters(), bl, report)
	for i := 0; i < 100; i++ {
		if got := Classify(pair, testFilters(), bl, report); got != first {
			t.Fatalf("classification not deterministic: %s then %s", first, got)
		}
	}
	if first != PatternGoodCandidate {
		t.Errorf("expected GoodCandidate, got %s", first)
	}
}

func TestBlacklistSet(t *testing.T) {
	bl := NewBlacklist([]string{"A"})
	if !bl.Contains("A") {
		t.Error("seeded address missing")
	}
	bl.Add("B")
	bl.Add("B")
	if bl.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", bl.Len())
	}
	if bl.Contains("C") {
		t.Error("unexpected member")
	}
}
