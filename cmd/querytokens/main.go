// Command querytokens analyzes a query string and prints the resulting
// token weight map, every distinct token with weight 1.
//
// Usage:
//
//	go run ./cmd/querytokens [-config configs/development.yaml] [-query "..."] [-invalidate-cache]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/internal/querytokens"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/analyzer"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/redis"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file")
	query := flag.String("query", "", "query to analyze (overrides tokenizer.query)")
	invalidate := flag.Bool("invalidate-cache", false, "drop cached weight maps before analyzing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return apperrors.ExitCode(err)
	}
	if *query != "" {
		cfg.Tokenizer.Query = *query
	}
	if err := cfg.ValidateTokenizer(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return apperrors.ExitCode(err)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy := querytokens.PolicyFromConfig(cfg.Tokenizer.Analyzer)
	a, err := analyzer.New(policy)
	if err != nil {
		err = apperrors.Newf(apperrors.ErrAnalyzerUnavailable, "configuring analyzer: %v", err)
		fmt.Fprintf(os.Stderr, "querytokens: %v\n", err)
		return apperrors.ExitCode(err)
	}

	m := metrics.New()
	defer metrics.ServeIfEnabled(cfg.Metrics, m)()

	var cache *querytokens.Cache
	if cfg.Cache.Enabled {
		client, err := pkgredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("token cache disabled", "error", err)
		} else {
			defer client.Close()
			cache = querytokens.NewCache(client, querytokens.Namespace(a.Policy()), cfg.Cache.TTL, m)
		}
	}
	if *invalidate {
		if cache == nil {
			slog.Warn("-invalidate-cache ignored, cache is not available")
		} else if _, err := cache.Invalidate(ctx); err != nil {
			slog.Error("cache invalidation failed", "error", err)
		}
	}

	weights, err := querytokens.NewService(a, cache, m).Weights(ctx, cfg.Tokenizer.Query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "querytokens: %v\n", err)
		return apperrors.ExitCode(err)
	}
	if err := querytokens.Print(os.Stdout, weights); err != nil {
		fmt.Fprintf(os.Stderr, "querytokens: writing output: %v\n", err)
		return apperrors.ExitInternal
	}
	return apperrors.ExitOK
}
