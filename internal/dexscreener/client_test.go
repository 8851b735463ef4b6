package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchPayload = `{
	"schemaVersion": "1.0.0",
	"pairs": [
		{
			"chainId": "solana",
			"dexId": "raydium",
			"pairAddress": "PAIR1",
			"baseToken": {"address": "TOKEN1", "name": "Moon Token", "symbol": "MOON"},
			"quoteToken": {"address": "SOL", "name": "Solana", "symbol": "SOL"},
			"priceUsd": "0.00042",
			"volume": {"h24": 6000},
			"priceChange": {"m5": 12.5, "h24": 80},
			"liquidity": {"usd": 2000, "base": 100, "quote": 50},
			"marketCap": 50000
		},
		{
			"chainId": "solana",
			"dexId": "orca",
			"pairAddress": "PAIR2",
			"baseToken": {"address": "TOKEN2", "name": "Fresh Token", "symbol": "FRESH"},
			"quoteToken": {"address": "SOL", "name": "Solana", "symbol": "SOL"},
			"volume": {"h24": 100},
			"priceChange": {}
		}
	]
}`

func TestSearchPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "moon" {
			t.Errorf("unexpected query %q", got)
		}
		w.Write([]byte(searchPayload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	pairs, err := client.SearchPairs(context.Background(), "moon")
	if err != nil {
		t.Fatalf("SearchPairs failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}

	first := pairs[0]
	if price, ok := first.PriceUSD(); !ok || price != 0.00042 {
		t.Errorf("expected price 0.00042, got %v (ok=%v)", price, ok)
	}
	if liq, ok := first.LiquidityUSD(); !ok || liq != 2000 {
		t.Errorf("expected liquidity 2000, got %v (ok=%v)", liq, ok)
	}
	if m5, ok := first.PriceChangeM5(); !ok || m5 != 12.5 {
		t.Errorf("expected m5 change 12.5, got %v (ok=%v)", m5, ok)
	}

	// The second pair has no price, liquidity, mcap or m5 change. None of
	// the accessors should report data.
	second := pairs[1]
	if _, ok := second.PriceUSD(); ok {
		t.Error("absent priceUsd should not parse")
	}
	if _, ok := second.LiquidityUSD(); ok {
		t.Error("absent liquidity should not report a value")
	}
	if _, ok := second.MarketCapUSD(); ok {
		t.Error("absent marketCap should not report a value")
	}
	if _, ok := second.PriceChangeM5(); ok {
		t.Error("absent m5 change should not report a value")
	}
}

func TestSearchPairsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.SearchPairs(context.Background(), "moon"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestTokenPriceUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/tokens/TOKEN1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		// First pair has no price, the lookup should fall through to the
		// second one.
		w.Write([]byte(`{"pairs": [
			{"pairAddress": "A", "baseToken": {"address": "TOKEN1"}},
			{"pairAddress": "B", "baseToken": {"address": "TOKEN1"}, "priceUsd": "1.25"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	price, ok, err := client.TokenPriceUSD(context.Background(), "TOKEN1")
	if err != nil {
		t.Fatalf("TokenPriceUSD failed: %v", err)
	}
	if !ok || price != 1.25 {
		t.Errorf("expected price 1.25, got %v (ok=%v)", price, ok)
	}
}

func TestUnparsablePrice(t *testing.T) {
	p := Pair{PriceUsd: "not-a-number"}
	if _, ok := p.PriceUSD(); ok {
		t.Error("unparsable priceUsd must not report a value")
	}
}
