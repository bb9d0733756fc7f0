package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-trends/internal/config"
	"github.com/couchcryptid/climate-trends/internal/domain"
)

// Writer publishes trend events to a Kafka topic.
// It implements analysis.Publisher.
type Writer struct {
	writer  *kafkago.Writer
	timeout time.Duration
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the configured trend topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, timeout: cfg.PublishTimeout, logger: logger}
}

// Publish writes one event, giving up after the configured publish timeout.
func (w *Writer) Publish(ctx context.Context, event domain.TrendEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write trend event %s: %w", event.ID, err)
	}
	w.logger.Debug("trend event written", "topic", w.writer.Topic, "id", event.ID, "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a TrendEvent into a Kafka message.
func serializeToMessage(event domain.TrendEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize trend event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "analysis", Value: []byte(event.Analysis)},
			{Key: "generated_at", Value: []byte(event.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
