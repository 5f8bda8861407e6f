package repository

import (
	"context"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	pkgkafka "StockCast/pkg/kafka"
)

// KafkaPublisher emits recommendation events for downstream consumers
// (alerting, journaling). Keyed by ticker so per-ticker ordering holds.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishRecommendation(ctx context.Context, rec *models.Recommendation) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Ticker), map[string]interface{}{
		"ticker":         rec.Ticker,
		"recommendation": rec.Action,
		"confidence":     rec.Confidence,
		"current_price":  rec.CurrentPrice,
		"target_price":   rec.TargetPrice,
		"as_of":          rec.LastUpdated.Format("2006-01-02"),
	})
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRecommendation(context.Context, *models.Recommendation) error { return nil }
func (NoopPublisher) Close() error                                                        { return nil }
