// Package analysis classifies pair snapshots into market patterns.
//
// Classification is a pure, ordered rule cascade: the first matching rule
// wins. Safety rules (blacklist, security report) dominate market
// heuristics, and size floors gate the momentum rules so that a 5-minute
// spike on a $200 pool never becomes a signal. A field the API did not
// send never satisfies a comparison; the rule is skipped instead.
package analysis

import (
	"dexscreener-analysis-bot/config"
	"dexscreener-analysis-bot/internal/dexscreener"
	"dexscreener-analysis-bot/internal/rugcheck"
)

// Fixed heuristic cutoffs. Thresholds that vary by deployment live in
// config.FilterConfig; these are part of the pattern definitions.
const (
	rugDropPercent    = -50.0 // 5m drop below this is a rug in progress
	pumpRisePercent   = 20.0  // 5m rise above this is a pump (pump profile)
	growthBandLow     = 5.0   // healthy growth band (growth_band profile)
	growthBandHigh    = 50.0
	tier1MarketCapUSD = 10_000_000.0
	tier1LiquidityUSD = 500_000.0
	tier1VolumeH24USD = 1_000_000.0
)

// input bundles everything one classification looks at.
type input struct {
	pair      *dexscreener.Pair
	cfg       config.FilterConfig
	blacklist *Blacklist
	report    *rugcheck.Report
}

// rule is one step of the cascade. It returns its verdict and whether it
// fired; a rule that does not fire falls through to the next one.
type rule func(in input) (MarketPattern, bool)

// cascade is the rule order. It is deliberate: cheap certain checks
// before remote-sourced ones, safety before size, size before momentum.
var cascade = []rule{
	blacklistRule,
	rugcheckStatusRule,
	bundledSupplyRule,
	fakeVolumeRule,
	sizeFloorRule,
	rugCandidateRule,
	momentumRule,
	stableTier1Rule,
}

// Classify assigns exactly one market pattern to a pair snapshot. It is
// side-effect free; report may be nil when no security scan was available.
func Classify(pair *dexscreener.Pair, cfg config.FilterConfig, blacklist *Blacklist, report *rugcheck.Report) MarketPattern {
	in := input{pair: pair, cfg: cfg, blacklist: blacklist, report: report}
	for _, r := range cascade {
		if pattern, ok := r(in); ok {
			return pattern
		}
	}
	return PatternUnknown
}

func blacklistRule(in input) (MarketPattern, bool) {
	if in.blacklist != nil && in.blacklist.Contains(in.pair.PairAddress) {
		return PatternBlacklisted, true
	}
	return "", false
}

func rugcheckStatusRule(in input) (MarketPattern, bool) {
	// No report means "not evaluated", not "failed".
	if in.report != nil && !in.report.IsGood() {
		return PatternRugcheckRisk, true
	}
	return "", false
}

func bundledSupplyRule(in input) (MarketPattern, bool) {
	ratio, ok := in.report.BundleRatio()
	if ok && ratio*100.0 > in.cfg.MaxBundledSupplyPercent {
		return PatternBundledSupply, true
	}
	return "", false
}

func fakeVolumeRule(in input) (MarketPattern, bool) {
	liq, ok := in.pair.LiquidityUSD()
	if !ok || liq <= 0 {
		return "", false
	}
	if in.pair.Volume.H24/liq > in.cfg.MaxVolumeLiquidityRatio {
		return PatternFakeVolume, true
	}
	return "", false
}

// sizeFloorRule disqualifies pairs too small or illiquid to evaluate.
// Unknown liquidity fails the floor; unknown market cap passes it, since
// DexScreener omits mcap for many legitimate fresh pairs.
func sizeFloorRule(in input) (MarketPattern, bool) {
	liq, ok := in.pair.LiquidityUSD()
	if !ok || liq < in.cfg.MinLiquidityUSD {
		return PatternUnknown, true
	}
	if in.pair.Volume.H24 < in.cfg.MinVolumeH24USD {
		return PatternUnknown, true
	}
	if mcap, ok := in.pair.MarketCapUSD(); ok && mcap < in.cfg.MinMarketCapUSD {
		return PatternUnknown, true
	}
	return "", false
}

func rugCandidateRule(in input) (MarketPattern, bool) {
	if m5, ok := in.pair.PriceChangeM5(); ok && m5 < rugDropPercent {
		return PatternRugCandidate, true
	}
	return "", false
}

// momentumRule applies the configured profile: a tight healthy-growth
// band producing GoodCandidate signals, or the plain pump threshold.
func momentumRule(in input) (MarketPattern, bool) {
	m5, ok := in.pair.PriceChangeM5()
	if !ok {
		return "", false
	}
	switch in.cfg.MomentumProfile {
	case config.MomentumProfilePump:
		if m5 > pumpRisePercent {
			return PatternPumpCandidate, true
		}
	default: // growth band
		if m5 > growthBandLow && m5 < growthBandHigh {
			return PatternGoodCandidate, true
		}
	}
	return "", false
}

func stableTier1Rule(in input) (MarketPattern, bool) {
	mcap, ok := in.pair.MarketCapUSD()
	if !ok || mcap <= tier1MarketCapUSD {
		return "", false
	}
	liq, ok := in.pair.LiquidityUSD()
	if !ok || liq <= tier1LiquidityUSD {
		return "", false
	}
	if in.pair.Volume.H24 > tier1VolumeH24USD {
		return PatternStableTier1, true
	}
	return "", false
}
