package history

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"binfolio/pkg/retrier"
)

func fixedNow() time.Time {
	return time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
}

func newFastRetrier() *retrier.Retrier {
	return retrier.New(retrier.WithMaxRetries(1), retrier.WithInitialInterval(time.Millisecond))
}

func TestCollectorRunPlainList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"asset":"BTC","total_balance":"1","current_value_usdt":"100"},
			{"asset":"ETH","total_balance":"2","current_value_usdt":"50"},
			{"asset":"ZZZ","total_balance":"3","current_value_usdt":null}
		]`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.csv")
	c := NewCollector(srv.URL, NewCSVRecorder(path, PolicyUpsert), nil, zap.NewNop())
	c.now = fixedNow

	require.NoError(t, c.Run(context.Background()))

	rows := readLog(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2025-08-30 12:00:00", "150"}, rows[1])
}

func TestCollectorRunWrappedPortfolio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"total_portfolio_value_usdt":"150",
			"assets":[{"asset":"BTC","total_balance":"1","current_value_usdt":"150"}]
		}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.csv")
	c := NewCollector(srv.URL, NewCSVRecorder(path, PolicyUpsert), nil, zap.NewNop())
	c.now = fixedNow

	require.NoError(t, c.Run(context.Background()))

	rows := readLog(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "150", rows[1][1])
}

func TestCollectorFailureLeavesLogUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "history.csv")
	c := NewCollector(srv.URL, NewCSVRecorder(path, PolicyUpsert), nil, zap.NewNop())
	c.now = fixedNow
	c.retrier = newFastRetrier()

	assert.Error(t, c.Run(context.Background()))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
