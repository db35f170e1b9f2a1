// Package domain defines the core data structures of the portfolio service.
package domain

import "github.com/shopspring/decimal"

// yieldPrefix marks assets held in flexible earn products. Binance reports
// them as a separate asset (e.g. LDBTC) that must be merged with spot BTC.
const yieldPrefix = "LD"

// lookupRenames maps canonical asset names to the ticker actually traded.
var lookupRenames = map[string]string{
	"SHIB2": "SHIB",
}

// QuoteAsset is the quote currency used for every price and trade lookup.
const QuoteAsset = "USDT"

// NormalizeAsset strips the yield-product prefix so that a wrapped earn
// position and its underlying spot asset aggregate under one key.
func NormalizeAsset(raw string) string {
	if len(raw) > len(yieldPrefix) && raw[:len(yieldPrefix)] == yieldPrefix {
		return raw[len(yieldPrefix):]
	}
	return raw
}

// LookupAsset resolves the ticker used for price and trade queries.
// It never changes aggregation identity, only the exchange-facing symbol.
func LookupAsset(asset string) string {
	if renamed, ok := lookupRenames[asset]; ok {
		return renamed
	}
	return asset
}

// Symbol builds the trading symbol for an asset against the quote currency.
func Symbol(asset string) string {
	return LookupAsset(asset) + QuoteAsset
}

// BalanceSource identifies where a raw balance was reported from.
type BalanceSource string

const (
	SourceSpot BalanceSource = "Spot"
	SourceEarn BalanceSource = "Earn"
)

// RawBalance is a single balance row as reported by the exchange,
// before normalization and aggregation. Free is kept as the raw string;
// the aggregator coerces it and drops rows it cannot parse.
type RawBalance struct {
	Asset  string
	Free   string
	Source BalanceSource
}

// NormalizedHolding is one aggregated position per normalized asset.
// TotalBalance is always strictly positive.
type NormalizedHolding struct {
	Asset        string
	TotalBalance decimal.Decimal
}
