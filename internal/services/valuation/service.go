// Package valuation computes per-asset valuations, cost basis and
// profit/loss for a set of normalized holdings.
package valuation

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"binfolio/internal/domain"
	"binfolio/internal/services/pricer"
	"binfolio/internal/services/trades"
)

var hundred = decimal.NewFromInt(100)

// Service is the valuation engine. Every external lookup failure degrades to
// absent fields on the affected asset only; Valuate never fails as a whole.
type Service struct {
	pricer  pricer.Pricer
	history trades.History
	fiat    map[string]struct{}
	logger  *zap.Logger
}

// NewService builds the engine. fiatAssets are treated as pegged 1:1 to the
// quote currency and bypass price lookup entirely.
func NewService(p pricer.Pricer, h trades.History, fiatAssets []string, logger *zap.Logger) *Service {
	fiat := make(map[string]struct{}, len(fiatAssets))
	for _, a := range fiatAssets {
		fiat[a] = struct{}{}
	}
	return &Service{pricer: p, history: h, fiat: fiat, logger: logger}
}

// IsFiat reports whether the asset belongs to the fiat/stable reference set.
func (s *Service) IsFiat(asset string) bool {
	_, ok := s.fiat[asset]
	return ok
}

// Valuate produces one AssetValuation per holding, sequentially.
func (s *Service) Valuate(ctx context.Context, holdings []domain.NormalizedHolding) []domain.AssetValuation {
	valuations := make([]domain.AssetValuation, 0, len(holdings))
	for _, h := range holdings {
		valuations = append(valuations, s.valuateOne(ctx, h))
	}
	return valuations
}

func (s *Service) valuateOne(ctx context.Context, h domain.NormalizedHolding) domain.AssetValuation {
	v := domain.AssetValuation{Asset: h.Asset, TotalBalance: h.TotalBalance}

	s.resolvePrice(ctx, &v)
	s.resolveCostBasis(ctx, &v)
	s.deriveProfitLoss(&v)

	return v
}

func (s *Service) resolvePrice(ctx context.Context, v *domain.AssetValuation) {
	if s.IsFiat(v.Asset) {
		price := decimal.NewFromInt(1)
		value := v.TotalBalance
		v.CurrentPriceUSDT = &price
		v.CurrentValueUSDT = &value
		return
	}

	symbol := domain.Symbol(v.Asset)
	price, err := s.pricer.GetPrice(ctx, symbol)
	if err != nil {
		s.logger.Debug("price unavailable", zap.String("symbol", symbol), zap.Error(err))
		return
	}

	value := v.TotalBalance.Mul(price)
	v.CurrentPriceUSDT = &price
	v.CurrentValueUSDT = &value
}

// resolveCostBasis averages over every returned trade, buys and sells alike.
func (s *Service) resolveCostBasis(ctx context.Context, v *domain.AssetValuation) {
	history, err := s.history.GetTrades(ctx, v.Asset)
	if err != nil {
		s.logger.Debug("trade history unavailable", zap.String("asset", v.Asset), zap.Error(err))
		return
	}
	if len(history) == 0 {
		return
	}

	totalQty, totalSpent := decimal.Zero, decimal.Zero
	for _, t := range history {
		totalQty = totalQty.Add(t.Qty)
		totalSpent = totalSpent.Add(t.Qty.Mul(t.Price))
	}
	if !totalQty.IsPositive() {
		return
	}

	avg := totalSpent.Div(totalQty)
	cost := v.TotalBalance.Mul(avg)
	v.AverageBuyPriceUSDT = &avg
	v.TotalCostUSDT = &cost
}

func (s *Service) deriveProfitLoss(v *domain.AssetValuation) {
	switch {
	case s.IsFiat(v.Asset):
		pl := v.TotalBalance
		pct := hundred
		v.ProfitLossUSDT = &pl
		v.ProfitLossPercent = &pct
		v.AcquiredFree = true

	case v.CurrentValueUSDT != nil && (v.TotalCostUSDT == nil || v.TotalCostUSDT.IsZero()):
		pl := *v.CurrentValueUSDT
		pct := hundred
		v.ProfitLossUSDT = &pl
		v.ProfitLossPercent = &pct
		v.AcquiredFree = true

	case v.CurrentValueUSDT != nil:
		pl := v.CurrentValueUSDT.Sub(*v.TotalCostUSDT)
		pct := pl.Div(*v.TotalCostUSDT).Mul(hundred)
		v.ProfitLossUSDT = &pl
		v.ProfitLossPercent = &pct
	}
}

// TotalValue sums the portfolio: balance for fiat assets, current value when
// known, zero otherwise.
func (s *Service) TotalValue(valuations []domain.AssetValuation) decimal.Decimal {
	total := decimal.Zero
	for _, v := range valuations {
		switch {
		case s.IsFiat(v.Asset):
			total = total.Add(v.TotalBalance)
		case v.CurrentValueUSDT != nil:
			total = total.Add(*v.CurrentValueUSDT)
		}
	}
	return total
}

// Portfolio wraps valuations with the portfolio total.
func (s *Service) Portfolio(valuations []domain.AssetValuation) domain.Portfolio {
	return domain.Portfolio{
		TotalPortfolioValueUSDT: s.TotalValue(valuations),
		Assets:                  valuations,
	}
}

// Transactions flattens trade history across all non-fiat holdings.
// A failed fetch contributes zero rows for that asset.
func (s *Service) Transactions(ctx context.Context, holdings []domain.NormalizedHolding) []domain.Trade {
	all := make([]domain.Trade, 0)
	for _, h := range holdings {
		if s.IsFiat(h.Asset) {
			continue
		}
		history, err := s.history.GetTrades(ctx, h.Asset)
		if err != nil {
			s.logger.Debug("skipping asset in transactions", zap.String("asset", h.Asset), zap.Error(err))
			continue
		}
		all = append(all, history...)
	}
	return all
}
