package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient builds the REST client used by every exchange-facing service.
func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret)
}
