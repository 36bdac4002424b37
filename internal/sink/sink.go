// Package sink forwards converted query records to Kafka and PostgreSQL.
package sink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/internal/converter"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/postgres"
)

// QueryEvent is the Kafka message payload for one converted record.
type QueryEvent struct {
	QueryID     string    `json:"query_id"`
	Text        string    `json:"text"`
	ConvertedAt time.Time `json:"converted_at"`
}

type publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// KafkaSink publishes each record keyed by its query ID.
type KafkaSink struct {
	producer publisher
	now      func() time.Time
}

func NewKafkaSink(producer publisher) *KafkaSink {
	return &KafkaSink{producer: producer, now: time.Now}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Put(ctx context.Context, r converter.Record) error {
	event := kafka.Event{
		Key: r.ID,
		Value: QueryEvent{
			QueryID:     r.ID,
			Text:        r.Text,
			ConvertedAt: s.now().UTC(),
		},
	}
	return s.producer.Publish(ctx, event)
}

type store interface {
	postgres.Execer
	InTx(ctx context.Context, fn func(tx postgres.Execer) error) error
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS queries (
	query_id   TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS queries_updated_at_idx ON queries (updated_at)`,
}

const upsertQuery = `INSERT INTO queries (query_id, text, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (query_id) DO UPDATE SET text = EXCLUDED.text, updated_at = now()`

// PostgresSink upserts records into the queries table. A later record with
// the same ID replaces the earlier text.
type PostgresSink struct {
	db     store
	logger *slog.Logger
}

func NewPostgresSink(db store) *PostgresSink {
	return &PostgresSink{
		db:     db,
		logger: slog.Default().With("component", "postgres-sink"),
	}
}

func (s *PostgresSink) Name() string { return "postgres" }

// EnsureSchema creates the queries table and its index in one transaction.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	err := s.db.InTx(ctx, func(tx postgres.Execer) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("creating queries table: %w", err)
	}
	s.logger.Debug("schema ready")
	return nil
}

func (s *PostgresSink) Put(ctx context.Context, r converter.Record) error {
	if _, err := s.db.ExecContext(ctx, upsertQuery, r.ID, r.Text); err != nil {
		return fmt.Errorf("upserting query %s: %w", r.ID, err)
	}
	return nil
}
