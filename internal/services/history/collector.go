package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"binfolio/internal/domain"
	"binfolio/pkg/retrier"
)

// SnapshotSink receives every recorded snapshot in addition to the CSV log.
type SnapshotSink interface {
	Save(snapshot domain.PortfolioSnapshot) error
}

// Collector fetches the balances endpoint, sums current values and records
// one snapshot. A failed fetch or decode leaves the log untouched.
type Collector struct {
	url      string
	client   *http.Client
	retrier  *retrier.Retrier
	recorder *CSVRecorder
	sink     SnapshotSink
	logger   *zap.Logger
	now      func() time.Time
}

func NewCollector(url string, recorder *CSVRecorder, sink SnapshotSink, logger *zap.Logger) *Collector {
	return &Collector{
		url:      url,
		client:   &http.Client{Timeout: 30 * time.Second},
		retrier:  retrier.New(retrier.WithMaxRetries(3)),
		recorder: recorder,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

// Run performs one collection: fetch, sum, record.
func (c *Collector) Run(ctx context.Context) error {
	valuations, err := retrier.DoWithData(c.retrier, ctx, c.fetch)
	if err != nil {
		c.logger.Error("failed to collect portfolio value, log unchanged", zap.Error(err))
		return err
	}

	total := decimal.Zero
	for _, v := range valuations {
		if v.CurrentValueUSDT != nil {
			total = total.Add(*v.CurrentValueUSDT)
		}
	}

	snapshot := domain.PortfolioSnapshot{Timestamp: c.now(), TotalValueUSDT: total}
	if err := c.recorder.Record(snapshot); err != nil {
		c.logger.Error("failed to record portfolio snapshot", zap.Error(err))
		return err
	}
	if c.sink != nil {
		if err := c.sink.Save(snapshot); err != nil {
			c.logger.Warn("failed to mirror snapshot to WAL", zap.Error(err))
		}
	}

	c.logger.Info("portfolio value recorded",
		zap.Time("ts", snapshot.Timestamp),
		zap.String("total_value_usdt", total.String()))
	return nil
}

func (c *Collector) fetch(ctx context.Context) ([]domain.AssetValuation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build balances request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch balances")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("balances endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read balances response")
	}
	return decodeValuations(body)
}

// decodeValuations accepts both endpoint shapes: the portfolio-wrapped
// object and the plain valuation list.
func decodeValuations(body []byte) ([]domain.AssetValuation, error) {
	var list []domain.AssetValuation
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var portfolio domain.Portfolio
	if err := json.Unmarshal(body, &portfolio); err != nil {
		return nil, errors.Wrap(err, "failed to decode balances response")
	}
	return portfolio.Assets, nil
}
