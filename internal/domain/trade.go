package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a single account trade as returned by the exchange, flattened
// into the shape the transactions endpoint exposes.
type Trade struct {
	Asset           string          `json:"asset"`
	Symbol          string          `json:"symbol"`
	OrderID         int64           `json:"orderId"`
	Price           decimal.Decimal `json:"price"`
	Qty             decimal.Decimal `json:"qty"`
	QuoteQty        decimal.Decimal `json:"quoteQty"`
	Commission      decimal.Decimal `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
	// Time is the execution instant in epoch milliseconds.
	Time int64 `json:"time"`
	// TimestampHuman is Time rendered as UTC "YYYY-MM-DD HH:MM:SS".
	TimestampHuman string `json:"timestamp_human"`
	IsBuyer        bool   `json:"isBuyer"`
}

// HumanTime renders an epoch-milliseconds instant the way the
// transactions endpoint exposes it.
func HumanTime(epochMs int64) string {
	return time.UnixMilli(epochMs).UTC().Format("2006-01-02 15:04:05")
}
