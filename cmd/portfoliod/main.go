// Command portfoliod serves the portfolio valuation API and, when
// record_interval is set, periodically records the total portfolio value.
//
// Usage:
//
//	portfoliod --config config.yaml
//
// Required environment variables (a local .env file is also honored):
//
//	BINANCE_API_KEY, BINANCE_API_SECRET
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"binfolio/config"
	"binfolio/internal/clients"
	"binfolio/internal/server"
	"binfolio/internal/services/balance"
	"binfolio/internal/services/history"
	"binfolio/internal/services/pricer"
	"binfolio/internal/services/trades"
	"binfolio/internal/services/valuation"
	"binfolio/internal/storage/snapshots"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	client := clients.NewBinanceClient(cfg.APIKey, cfg.APISecret)
	source := balance.NewBinanceSource(client, logger)
	engine := valuation.NewService(
		pricer.NewBinancePricer(client),
		trades.NewBinanceHistory(client),
		cfg.FiatAssets,
		logger,
	)

	store, err := snapshots.NewWALStore(cfg.SnapshotWALDir)
	if err != nil {
		logger.Fatal("failed to open snapshot store", zap.Error(err))
	}
	defer store.Close()

	srv := server.New(cfg.ListenAddr, source, engine, store, cfg.WrapTotals, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(cfg.TLSDomains) > 0 {
			return srv.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.TLSCacheDir)
		}
		return srv.Start(ctx)
	})

	if cfg.RecordInterval > 0 {
		recorder := history.NewCSVRecorder(cfg.HistoryFile, history.Policy(cfg.HistoryPolicy))
		svc := history.NewService(source, engine, recorder, store, logger)
		g.Go(func() error {
			return svc.RunPeriodic(ctx, cfg.RecordInterval)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service stopped", zap.Error(err))
	}
}
