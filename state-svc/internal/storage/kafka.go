package storage

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"budget-bites/state-svc/internal/domain"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// PublishOrderEvent keys messages by session so one session's events stay ordered.
func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, msg domain.OrderEvent) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.SessionID),
		Value: payload,
	})
}
