package repository

import (
	"context"
	"fmt"

	"StockTrend/internal/domain/models"
	domrepo "StockTrend/internal/domain/repository"
)

// messageWriter is the subset of the Kafka producer used here.
type messageWriter interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaRunPublisher streams run events keyed by ticker, so runs for one
// ticker stay ordered within a partition.
type KafkaRunPublisher struct {
	w     messageWriter
	topic string
}

func NewKafkaRunPublisher(w messageWriter, topic string) (*KafkaRunPublisher, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	return &KafkaRunPublisher{w: w, topic: topic}, nil
}

var _ domrepo.EventPublisher = (*KafkaRunPublisher)(nil)

func (p *KafkaRunPublisher) PublishRun(ctx context.Context, ev models.RunEvent) error {
	if err := p.w.Publish(ctx, p.topic, []byte(ev.Ticker), ev); err != nil {
		return fmt.Errorf("publish run %s: %w", ev.ID, err)
	}
	return nil
}

func (p *KafkaRunPublisher) Close() error {
	return p.w.Close()
}
