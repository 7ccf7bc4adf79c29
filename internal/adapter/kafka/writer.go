// Package kafka publishes computed dashboard snapshots to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/happiness-data-service/internal/config"
	"github.com/couchcryptid/happiness-data-service/internal/domain"
	"github.com/couchcryptid/happiness-data-service/internal/observability"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer produces snapshot messages to the configured topic.
// It implements dashboard.SnapshotPublisher.
type Writer struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		// Snapshots are published one per request; don't wait to fill a batch.
		BatchTimeout: 10 * time.Millisecond,
	}
	return newWriter(w, logger, metrics)
}

func newWriter(w messageWriter, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes a snapshot and writes it keyed by its ID.
func (w *Writer) Publish(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s snapshot %s: %w", snap.Kind, snap.ID, err)
	}
	w.metrics.SnapshotsPublished.Inc()
	w.logger.Debug("snapshot published", "kind", snap.Kind, "subject", snap.Subject, "id", snap.ID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Snapshot into a Kafka message.
func serializeToMessage(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(snap.Kind)},
			{Key: "subject", Value: []byte(snap.Subject)},
			{Key: "generated_at", Value: []byte(snap.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
