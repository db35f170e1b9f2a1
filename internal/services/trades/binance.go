package trades

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"binfolio/internal/domain"
)

type BinanceHistory struct {
	client *binance.Client
}

func NewBinanceHistory(client *binance.Client) *BinanceHistory {
	return &BinanceHistory{client: client}
}

func (h *BinanceHistory) GetTrades(ctx context.Context, asset string) ([]domain.Trade, error) {
	symbol := domain.Symbol(asset)

	rows, err := h.client.NewListTradesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list trades for %s", symbol)
	}

	result := make([]domain.Trade, 0, len(rows))
	for _, row := range rows {
		trade, err := convertTrade(asset, symbol, row)
		if err != nil {
			return nil, err
		}
		result = append(result, trade)
	}
	return result, nil
}

func convertTrade(asset, symbol string, row *binance.TradeV3) (domain.Trade, error) {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "failed to parse trade price")
	}
	qty, err := decimal.NewFromString(row.Quantity)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "failed to parse trade quantity")
	}
	quoteQty, err := decimal.NewFromString(row.QuoteQuantity)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "failed to parse trade quote quantity")
	}
	commission, err := decimal.NewFromString(row.Commission)
	if err != nil {
		return domain.Trade{}, errors.Wrap(err, "failed to parse trade commission")
	}

	return domain.Trade{
		Asset:           asset,
		Symbol:          symbol,
		OrderID:         row.OrderID,
		Price:           price,
		Qty:             qty,
		QuoteQty:        quoteQty,
		Commission:      commission,
		CommissionAsset: row.CommissionAsset,
		Time:            row.Time,
		TimestampHuman:  domain.HumanTime(row.Time),
		IsBuyer:         row.IsBuyer,
	}, nil
}
