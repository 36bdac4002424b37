// Command convert turns a JSON-lines query file into a tab-separated file
// with one "<_id>\t<text>" line per record.
//
// Converted records can also be published to Kafka and upserted into
// PostgreSQL when the corresponding sinks are enabled in the config.
//
// Usage:
//
//	go run ./cmd/convert [-config configs/development.yaml] [-in queries.jsonl] [-out queries.tsv]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/internal/converter"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/internal/sink"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/postgres"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file")
	in := flag.String("in", "", "source JSON-lines file (overrides converter.input)")
	out := flag.String("out", "", "destination TSV file (overrides converter.output)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return apperrors.ExitCode(err)
	}
	if *in != "" {
		cfg.Converter.Input = *in
	}
	if *out != "" {
		cfg.Converter.Output = *out
	}
	if err := cfg.ValidateConverter(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return apperrors.ExitCode(err)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	defer metrics.ServeIfEnabled(cfg.Metrics, m)()

	sinks, closeSinks, err := buildSinks(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return apperrors.ExitCode(err)
	}
	defer closeSinks()

	stats, err := converter.New(m, sinks...).ConvertFile(ctx, cfg.Converter.Input, cfg.Converter.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return apperrors.ExitCode(err)
	}
	slog.Info("conversion complete",
		"source", cfg.Converter.Input,
		"destination", cfg.Converter.Output,
		"records", stats.Lines,
		"empty_lines", stats.Empty,
	)
	return apperrors.ExitOK
}

// buildSinks connects the sinks enabled in cfg. The returned func releases
// every connection that was opened.
func buildSinks(ctx context.Context, cfg *config.Config) ([]converter.Sink, func(), error) {
	var (
		sinks   []converter.Sink
		closers []func() error
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				slog.Error("closing sink", "error", err)
			}
		}
	}

	if cfg.Sinks.Postgres {
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			closeAll()
			return nil, func() {}, apperrors.Newf(apperrors.ErrSinkFailed, "postgres: %v", err)
		}
		closers = append(closers, db.Close)
		pg := sink.NewPostgresSink(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, func() {}, apperrors.Newf(apperrors.ErrSinkFailed, "postgres: %v", err)
		}
		sinks = append(sinks, pg)
		slog.Info("postgres sink enabled", "database", cfg.Postgres.Database)
	}

	if cfg.Sinks.Kafka {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.Queries)
		closers = append(closers, producer.Close)
		sinks = append(sinks, sink.NewKafkaSink(producer))
		slog.Info("kafka sink enabled", "topic", cfg.Kafka.Topics.Queries)
	}

	return sinks, closeAll, nil
}
