package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"gym_crm_backend/pkg/utils"
)

// Event types published to the membership-events topic. The subscription
// ledger keeps no history of prior windows; this stream is the audit feed.
const (
	EventClientRenewed  = "client_renewed"
	EventPaymentCreated = "payment_recorded"
	EventPaymentUpdated = "payment_updated"
	EventPaymentDeleted = "payment_deleted"
)

const topic = "membership-events"

// Publisher emits membership events. A nil Publisher is valid and means
// events are disabled.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, payload interface{}) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

type envelope struct {
	Event      string      `json:"event"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// NewKafkaPublisher connects to the broker named by KAFKA_BROKER.
func NewKafkaPublisher() (Publisher, error) {
	broker := utils.Getenv("KAFKA_BROKER", "localhost:9092")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	conn, err := kafka.Dial("tcp", broker)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	return &kafkaPublisher{writer: writer}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	value, err := json.Marshal(envelope{Event: eventType, OccurredAt: time.Now(), Data: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
