package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fjod/partial_cod/internal/domain"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher emits reconciliation outcomes for downstream consumers
// (fulfillment, finance exports). Messages are keyed by cart id so events for
// one cart stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "shipping-payments",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishReconciled(ctx context.Context, event domain.ReconciliationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reconciliation event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.CartID),
		Value: payload,
	}
	if errWrite := p.writer.WriteMessages(ctx, msg); errWrite != nil {
		return fmt.Errorf("failed to write reconciliation event: %w", errWrite)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
