package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"docuvault/cmd/collection-service/internal/domain"
)

// AuditPublisher delivers audit events to the audit topic. Callers treat it
// as advisory: publish failures are reported back but never escalated into
// request failures.
type AuditPublisher interface {
	Publish(ctx context.Context, event *domain.AuditEvent) error
	Close() error
}

// KafkaAuditPublisher is the Kafka-backed audit publisher.
type KafkaAuditPublisher struct {
	writer *kafka.Writer
}

// PublisherConfig configures the Kafka writer.
type PublisherConfig struct {
	Brokers []string
	Topic   string
}

// NewKafkaAuditPublisher creates a Kafka audit publisher.
func NewKafkaAuditPublisher(config PublisherConfig) *KafkaAuditPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  kafka.Snappy,
	}
	return &KafkaAuditPublisher{writer: writer}
}

// Publish writes one audit event, keyed by tenant so per-tenant ordering is
// preserved within a partition.
func (p *KafkaAuditPublisher) Publish(ctx context.Context, event *domain.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TenantID),
		Value: payload,
		Time:  event.OccurredAt,
	})
}

// Close flushes and closes the writer.
func (p *KafkaAuditPublisher) Close() error {
	return p.writer.Close()
}
