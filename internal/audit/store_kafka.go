package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"tosgate/internal/platform/kafka/producer"
)

// Producer is the slice of the Kafka producer the sink needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaStore forwards every event to a Kafka topic keyed by user, so one
// user's events stay ordered within a partition. Reads are served by the
// wrapped local store; Kafka is write-only from this service's view.
type KafkaStore struct {
	local    Store
	producer Producer
	topic    string
}

func NewKafkaStore(local Store, p Producer, topic string) *KafkaStore {
	return &KafkaStore{local: local, producer: p, topic: topic}
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	if err := s.local.Append(ctx, event); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.UserID),
		Value: payload,
		Headers: map[string]string{
			"event_type": string(event.Action),
		},
	}
	if err := s.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

func (s *KafkaStore) ListByUser(ctx context.Context, userID string) ([]Event, error) {
	return s.local.ListByUser(ctx, userID)
}
