// Package trades fetches account trade history per asset.
package trades

import (
	"context"

	"binfolio/internal/domain"
)

// History returns all account trades for the asset's trading symbol,
// oldest first, as reported by the exchange.
type History interface {
	GetTrades(ctx context.Context, asset string) ([]domain.Trade, error)
}
