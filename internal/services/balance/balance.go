// Package balance retrieves raw exchange balances and aggregates them into
// normalized holdings.
package balance

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"binfolio/internal/domain"
)

// Source reports raw balances from the exchange.
type Source interface {
	SpotBalances(ctx context.Context) ([]domain.RawBalance, error)
	EarnPositions(ctx context.Context) ([]domain.RawBalance, error)
}

// Aggregate merges raw balance rows from any number of sources into one
// holding per normalized asset. Rows with unparsable or non-positive amounts
// are dropped. The result is sorted by asset for stable output; grouping
// itself is order-insensitive.
func Aggregate(raws []domain.RawBalance) []domain.NormalizedHolding {
	totals := make(map[string]decimal.Decimal)
	for _, raw := range raws {
		amount, err := decimal.NewFromString(raw.Free)
		if err != nil || !amount.IsPositive() {
			continue
		}
		key := domain.NormalizeAsset(raw.Asset)
		totals[key] = totals[key].Add(amount)
	}

	holdings := lo.MapToSlice(totals, func(asset string, total decimal.Decimal) domain.NormalizedHolding {
		return domain.NormalizedHolding{Asset: asset, TotalBalance: total}
	})
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Asset < holdings[j].Asset
	})
	return holdings
}
