package repository

import (
	"context"
	"strings"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
	"github.com/vishal13230/BellCurve-Securities/internal/domain/repository"
	pkgkafka "github.com/vishal13230/BellCurve-Securities/pkg/kafka"
)

// KafkaAuditPublisher writes analysis audit events to a Kafka topic, keyed
// by the request's symbol set so events for one universe land in order.
type KafkaAuditPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAuditPublisher creates a Kafka audit publisher.
func NewKafkaAuditPublisher(producer *pkgkafka.Producer, topic string) repository.AuditPublisher {
	return &KafkaAuditPublisher{producer: producer, topic: topic}
}

func (p *KafkaAuditPublisher) Publish(ctx context.Context, e *models.AnalysisEvent) error {
	key := []byte(strings.Join(e.Symbols, ","))
	return p.producer.Publish(ctx, p.topic, key, e)
}

func (p *KafkaAuditPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopAuditPublisher drops events, used when auditing is disabled.
type NopAuditPublisher struct{}

func (NopAuditPublisher) Publish(context.Context, *models.AnalysisEvent) error { return nil }
func (NopAuditPublisher) Close() error                                         { return nil }
