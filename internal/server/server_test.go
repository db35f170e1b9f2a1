package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"binfolio/internal/domain"
)

type stubSource struct {
	spot []domain.RawBalance
	err  error
}

func (s *stubSource) SpotBalances(context.Context) ([]domain.RawBalance, error) {
	return s.spot, s.err
}

func (s *stubSource) EarnPositions(context.Context) ([]domain.RawBalance, error) {
	return nil, nil
}

type stubEngine struct {
	valuations   []domain.AssetValuation
	transactions []domain.Trade
}

func (e *stubEngine) Valuate(context.Context, []domain.NormalizedHolding) []domain.AssetValuation {
	return e.valuations
}

func (e *stubEngine) Portfolio(valuations []domain.AssetValuation) domain.Portfolio {
	total := decimal.Zero
	for _, v := range valuations {
		if v.CurrentValueUSDT != nil {
			total = total.Add(*v.CurrentValueUSDT)
		}
	}
	return domain.Portfolio{TotalPortfolioValueUSDT: total, Assets: valuations}
}

func (e *stubEngine) Transactions(context.Context, []domain.NormalizedHolding) []domain.Trade {
	return e.transactions
}

type stubStore struct {
	records []domain.PortfolioSnapshotRecord
}

func (s *stubStore) SnapshotsAfter(uint64) ([]domain.PortfolioSnapshotRecord, error) {
	return s.records, nil
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func newTestServer(source *stubSource, engine *stubEngine, store snapshotReader, wrapTotals bool) *httptest.Server {
	s := New(":0", source, engine, store, wrapTotals, zap.NewNop())
	return httptest.NewServer(s.Handler())
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestBalancesWrapped(t *testing.T) {
	engine := &stubEngine{valuations: []domain.AssetValuation{
		{Asset: "BTC", TotalBalance: decimal.NewFromInt(1), CurrentValueUSDT: ptr(decimal.NewFromInt(100))},
		{Asset: "USDT", TotalBalance: decimal.NewFromInt(50), CurrentValueUSDT: ptr(decimal.NewFromInt(50))},
	}}
	ts := newTestServer(&stubSource{}, engine, nil, true)
	defer ts.Close()

	resp, body := get(t, ts.URL+"/balances")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p domain.Portfolio
	require.NoError(t, json.Unmarshal(body, &p))
	assert.True(t, p.TotalPortfolioValueUSDT.Equal(decimal.NewFromInt(150)))
	assert.Len(t, p.Assets, 2)
}

func TestBalancesPlainList(t *testing.T) {
	engine := &stubEngine{valuations: []domain.AssetValuation{
		{Asset: "BTC", TotalBalance: decimal.NewFromInt(1)},
	}}
	ts := newTestServer(&stubSource{}, engine, nil, false)
	defer ts.Close()

	resp, body := get(t, ts.URL+"/balances")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []domain.AssetValuation
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "BTC", list[0].Asset)
	assert.Nil(t, list[0].CurrentValueUSDT)
}

func TestBalancesSourceFailure(t *testing.T) {
	ts := newTestServer(&stubSource{err: errors.New("exchange unreachable")}, &stubEngine{}, nil, true)
	defer ts.Close()

	resp, body := get(t, ts.URL+"/balances")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var e errorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Contains(t, e.Error, "exchange unreachable")
	assert.NotEmpty(t, e.Message)
}

func TestTransactions(t *testing.T) {
	now := time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC)
	engine := &stubEngine{transactions: []domain.Trade{{
		Asset:          "BTC",
		Symbol:         "BTCUSDT",
		OrderID:        42,
		Price:          decimal.NewFromInt(100),
		Qty:            decimal.NewFromInt(1),
		Time:           now.UnixMilli(),
		TimestampHuman: domain.HumanTime(now.UnixMilli()),
		IsBuyer:        true,
	}}}
	ts := newTestServer(&stubSource{}, engine, nil, true)
	defer ts.Close()

	resp, body := get(t, ts.URL+"/transactions")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "BTCUSDT", list[0]["symbol"])
	assert.Equal(t, float64(42), list[0]["orderId"])
	assert.Equal(t, "2025-08-30 10:00:00", list[0]["timestamp_human"])
	assert.Equal(t, true, list[0]["isBuyer"])
}

func TestHistory(t *testing.T) {
	store := &stubStore{records: []domain.PortfolioSnapshotRecord{
		{Index: 1, Snapshot: domain.PortfolioSnapshot{
			Timestamp:      time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
			TotalValueUSDT: decimal.NewFromInt(150),
		}},
	}}
	ts := newTestServer(&stubSource{}, &stubEngine{}, store, true)
	defer ts.Close()

	resp, body := get(t, ts.URL+"/history")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []domain.PortfolioSnapshot
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.True(t, list[0].TotalValueUSDT.Equal(decimal.NewFromInt(150)))
}

func TestHistoryUnavailableWithoutStore(t *testing.T) {
	ts := newTestServer(&stubSource{}, &stubEngine{}, nil, true)
	defer ts.Close()

	resp, _ := get(t, ts.URL+"/history")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(&stubSource{}, &stubEngine{}, nil, true)
	defer ts.Close()

	resp, _ := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
