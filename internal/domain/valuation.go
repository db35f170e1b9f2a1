package domain

import "github.com/shopspring/decimal"

// AssetValuation is the per-asset output of the valuation engine.
// Pointer fields are absent when the corresponding lookup failed or the
// value is not derivable; absence is part of the contract, not an error.
type AssetValuation struct {
	Asset               string           `json:"asset"`
	TotalBalance        decimal.Decimal  `json:"total_balance"`
	CurrentPriceUSDT    *decimal.Decimal `json:"current_price_usdt"`
	CurrentValueUSDT    *decimal.Decimal `json:"current_value_usdt"`
	AverageBuyPriceUSDT *decimal.Decimal `json:"average_buy_price_usdt"`
	TotalCostUSDT       *decimal.Decimal `json:"total_cost_usdt"`
	ProfitLossUSDT      *decimal.Decimal `json:"profit_loss_usdt"`
	ProfitLossPercent   *decimal.Decimal `json:"profit_loss_percent"`
	AcquiredFree        bool             `json:"acquired_free"`
}

// Portfolio wraps the per-asset valuations with the portfolio total.
type Portfolio struct {
	TotalPortfolioValueUSDT decimal.Decimal  `json:"total_portfolio_value_usdt"`
	Assets                  []AssetValuation `json:"assets"`
}
