package history

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"binfolio/internal/domain"
	"binfolio/internal/services/balance"
)

// Engine is the subset of the valuation engine the recorder needs.
type Engine interface {
	Valuate(ctx context.Context, holdings []domain.NormalizedHolding) []domain.AssetValuation
}

// Service records portfolio value observations straight from the valuation
// engine, without going through HTTP. Used by the in-process recorder loop.
type Service struct {
	source   balance.Source
	engine   Engine
	recorder *CSVRecorder
	sink     SnapshotSink
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(source balance.Source, engine Engine, recorder *CSVRecorder, sink SnapshotSink, logger *zap.Logger) *Service {
	return &Service{
		source:   source,
		engine:   engine,
		recorder: recorder,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

// RunOnce values the portfolio and records one snapshot. A failure to reach
// the exchange leaves the log untouched.
func (s *Service) RunOnce(ctx context.Context) error {
	holdings, err := balance.Holdings(ctx, s.source)
	if err != nil {
		s.logger.Error("failed to load balances, log unchanged", zap.Error(err))
		return err
	}

	valuations := s.engine.Valuate(ctx, holdings)
	total := decimal.Zero
	for _, v := range valuations {
		if v.CurrentValueUSDT != nil {
			total = total.Add(*v.CurrentValueUSDT)
		}
	}

	snapshot := domain.PortfolioSnapshot{Timestamp: s.now(), TotalValueUSDT: total}
	if err := s.recorder.Record(snapshot); err != nil {
		s.logger.Error("failed to record portfolio snapshot", zap.Error(err))
		return err
	}
	if s.sink != nil {
		if err := s.sink.Save(snapshot); err != nil {
			s.logger.Warn("failed to mirror snapshot to WAL", zap.Error(err))
		}
	}

	s.logger.Info("portfolio value recorded",
		zap.Time("ts", snapshot.Timestamp),
		zap.String("total_value_usdt", total.String()))
	return nil
}

// RunPeriodic records immediately and then on every tick until ctx ends.
// Individual failed runs are logged and do not stop the loop.
func (s *Service) RunPeriodic(ctx context.Context, interval time.Duration) error {
	_ = s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = s.RunOnce(ctx)
		}
	}
}
