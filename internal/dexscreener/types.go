package dexscreener

import "strconv"

// SearchResponse is the payload returned by the search and token endpoints.
type SearchResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// Pair represents a single trading pair snapshot from DexScreener.
// Several fields are optional in the API: liquidity and marketCap may be
// absent for fresh pairs, priceUsd arrives as a string and may be empty.
// Optional numerics are pointers so that "no data" stays distinguishable
// from zero.
type Pair struct {
	ChainID       string       `json:"chainId"`
	DexID         string       `json:"dexId"`
	URL           string       `json:"url"`
	PairAddress   string       `json:"pairAddress"`
	BaseToken     Token        `json:"baseToken"`
	QuoteToken    Token        `json:"quoteToken"`
	PriceNative   string       `json:"priceNative"`
	PriceUsd      string       `json:"priceUsd"`
	Txns          PairTxns     `json:"txns"`
	Volume        PairVolume   `json:"volume"`
	PriceChange   PriceChange  `json:"priceChange"`
	Liquidity     *Liquidity   `json:"liquidity"`
	Fdv           *float64     `json:"fdv"`
	MarketCap     *float64     `json:"marketCap"`
	PairCreatedAt int64        `json:"pairCreatedAt"`
}

// Token identifies one side of a pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity holds pooled liquidity figures. Usd may be missing even when
// the liquidity object is present.
type Liquidity struct {
	Usd   *float64 `json:"usd"`
	Base  float64  `json:"base"`
	Quote float64  `json:"quote"`
}

// PairTxns counts buys and sells per window.
type PairTxns struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

// TxnCount is a buy/sell tally.
type TxnCount struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairVolume holds traded volume in USD per window.
type PairVolume struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// PriceChange holds percentage price changes per window. Windows the API
// has no data for are omitted.
type PriceChange struct {
	M5  *float64 `json:"m5"`
	H1  *float64 `json:"h1"`
	H6  *float64 `json:"h6"`
	H24 *float64 `json:"h24"`
}

// PriceUSD parses the pair's USD price. The second return is false when
// the API sent no price or an unparsable one.
func (p *Pair) PriceUSD() (float64, bool) {
	if p.PriceUsd == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(p.PriceUsd, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// LiquidityUSD reports pooled USD liquidity, false when unknown.
func (p *Pair) LiquidityUSD() (float64, bool) {
	if p.Liquidity == nil || p.Liquidity.Usd == nil {
		return 0, false
	}
	return *p.Liquidity.Usd, true
}

// MarketCapUSD reports market capitalization, false when unknown.
func (p *Pair) MarketCapUSD() (float64, bool) {
	if p.MarketCap == nil {
		return 0, false
	}
	return *p.MarketCap, true
}

// PriceChangeM5 reports the 5-minute price change percent, false when the
// API had no 5-minute window for the pair.
func (p *Pair) PriceChangeM5() (float64, bool) {
	if p.PriceChange.M5 == nil {
		return 0, false
	}
	return *p.PriceChange.M5, true
}
