package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"budget-bites/state-svc/internal/domain"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// TrackingConsumer applies order status updates sent by the tracking collaborator.
type TrackingConsumer struct {
	Reader   MessageReader
	Recorder StatusRecorder
	Log      logrus.FieldLogger
}

func NewTrackingConsumer(reader MessageReader, recorder StatusRecorder, log logrus.FieldLogger) *TrackingConsumer {
	return &TrackingConsumer{
		Reader:   reader,
		Recorder: recorder,
		Log:      log,
	}
}

// Start blocks until ctx is cancelled.
func (c *TrackingConsumer) Start(ctx context.Context) {
	c.Log.Info("Starting order tracking consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			c.Log.Errorf("Error reading message: %v", err)
			continue
		}
		c.Handle(message.Value)
	}
}

// Handle reports whether the payload was applied.
func (c *TrackingConsumer) Handle(payload []byte) bool {
	if t := gjson.GetBytes(payload, "type").String(); t != domain.MessageOrderStatus {
		c.Log.WithField("type", t).Debug("skipping message")
		return false
	}

	var msg domain.StatusMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		c.Log.Errorf("Error unmarshaling message: %v", err)
		return false
	}

	entry := c.Log.WithFields(logrus.Fields{
		"session_id": msg.SessionID,
		"order_id":   msg.OrderID,
		"status":     msg.Status,
	})
	if !msg.Status.Valid() {
		entry.Warn("dropping status update with unknown status")
		return false
	}
	if err := c.Recorder.RecordOrderStatus(msg.SessionID, msg.OrderID, msg.Status); err != nil {
		entry.WithError(err).Warn("Error recording order status")
		return false
	}
	entry.Info("order status recorded")
	return true
}
