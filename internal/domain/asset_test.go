package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAsset(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "earn-wrapped asset", raw: "LDBTC", expected: "BTC"},
		{name: "plain spot asset", raw: "ETH", expected: "ETH"},
		{name: "prefix alone is kept", raw: "LD", expected: "LD"},
		{name: "prefix in the middle is kept", raw: "SOLD", expected: "SOLD"},
		{name: "stablecoin untouched", raw: "USDT", expected: "USDT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeAsset(tt.raw))
		})
	}
}

func TestLookupAsset(t *testing.T) {
	assert.Equal(t, "SHIB", LookupAsset("SHIB2"))
	assert.Equal(t, "BTC", LookupAsset("BTC"))
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", Symbol("BTC"))
	// lookup rename applies to the symbol, not the aggregation key
	assert.Equal(t, "SHIBUSDT", Symbol("SHIB2"))
}

func TestHumanTime(t *testing.T) {
	assert.Equal(t, "2021-06-01 12:30:45", HumanTime(1622550645000))
}
