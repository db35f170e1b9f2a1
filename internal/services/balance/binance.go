package balance

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"binfolio/internal/domain"
)

// BinanceSource reads spot balances and flexible earn positions.
type BinanceSource struct {
	client *binance.Client
	logger *zap.Logger
}

func NewBinanceSource(client *binance.Client, logger *zap.Logger) *BinanceSource {
	return &BinanceSource{client: client, logger: logger}
}

func (s *BinanceSource) SpotBalances(ctx context.Context) ([]domain.RawBalance, error) {
	account, err := s.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account")
	}

	raws := make([]domain.RawBalance, 0, len(account.Balances))
	for _, b := range account.Balances {
		raws = append(raws, domain.RawBalance{
			Asset:  b.Asset,
			Free:   b.Free,
			Source: domain.SourceSpot,
		})
	}
	return raws, nil
}

// EarnPositions returns flexible savings positions. An account without any
// earn product is an empty result, never an error for the overall valuation.
func (s *BinanceSource) EarnPositions(ctx context.Context) ([]domain.RawBalance, error) {
	positions, err := s.client.NewSavingFlexibleProductPositionsService().Do(ctx)
	if err != nil {
		s.logger.Warn("earn positions unavailable, treating as empty", zap.Error(err))
		return nil, nil
	}

	raws := make([]domain.RawBalance, 0, len(positions))
	for _, p := range positions {
		raws = append(raws, domain.RawBalance{
			Asset:  p.Asset,
			Free:   p.TotalAmount,
			Source: domain.SourceEarn,
		})
	}
	return raws, nil
}

// Holdings fetches all sources and aggregates them.
func Holdings(ctx context.Context, source Source) ([]domain.NormalizedHolding, error) {
	spot, err := source.SpotBalances(ctx)
	if err != nil {
		return nil, err
	}
	earn, err := source.EarnPositions(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(append(spot, earn...)), nil
}
