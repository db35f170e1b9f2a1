// Package pricer resolves current unit prices for trading symbols.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"
)

type Pricer interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
