// Command collector performs one portfolio value collection run against a
// running portfoliod instance and updates the CSV history log.
//
// Usage:
//
//	collector --url http://localhost:8000/balances --file portfolio_history.csv
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"binfolio/internal/services/history"
)

func main() {
	url := flag.String("url", "http://localhost:8000/balances", "balances endpoint URL")
	file := flag.String("file", "portfolio_history.csv", "path to the history CSV log")
	policy := flag.String("policy", "upsert", "recording policy: upsert or append")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall run timeout")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if *policy != string(history.PolicyUpsert) && *policy != string(history.PolicyAppend) {
		logger.Fatal("invalid policy", zap.String("policy", *policy))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	recorder := history.NewCSVRecorder(*file, history.Policy(*policy))
	collector := history.NewCollector(*url, recorder, nil, logger)

	if err := collector.Run(ctx); err != nil {
		os.Exit(1)
	}
}
