package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is one recorded observation of the total portfolio value.
type PortfolioSnapshot struct {
	Timestamp      time.Time       `json:"ts"`
	TotalValueUSDT decimal.Decimal `json:"total_value_usdt"`
}

// PortfolioSnapshotRecord bundles a snapshot with its WAL index so readers
// can resume from the last index they have seen.
type PortfolioSnapshotRecord struct {
	Index    uint64
	Snapshot PortfolioSnapshot
}
