package analysis

// MarketPattern is the verdict of classifying one pair snapshot. Exactly
// one pattern is assigned per classification.
type MarketPattern string

const (
	// Safety verdicts, checked first.
	PatternBlacklisted   MarketPattern = "Blacklisted"
	PatternRugcheckRisk  MarketPattern = "RugcheckRisk"
	PatternBundledSupply MarketPattern = "BundledSupply"
	PatternFakeVolume    MarketPattern = "FakeVolume"

	// Momentum and quality verdicts, only reachable once the pair cleared
	// the safety and size gates.
	PatternRugCandidate  MarketPattern = "RugCandidate"
	PatternPumpCandidate MarketPattern = "PumpCandidate"
	PatternGoodCandidate MarketPattern = "GoodCandidate"
	PatternStableTier1   MarketPattern = "StableTier1"

	// PatternUnknown covers pairs that are too small or illiquid to
	// evaluate, and pairs matching no heuristic.
	PatternUnknown MarketPattern = "Unknown"
)

// IsSecurityRisk reports whether the pattern marks the pair as unsafe.
// The scan loop auto-blacklists these.
func (p MarketPattern) IsSecurityRisk() bool {
	return p == PatternRugcheckRisk || p == PatternBundledSupply
}

// IsSignal reports whether the pattern qualifies for a trade signal.
func (p MarketPattern) IsSignal() bool {
	return p == PatternGoodCandidate
}
