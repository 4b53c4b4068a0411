package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type ExportHandler func(ctx context.Context, event entity.ExportEvent) error

// ConsumeExports reads export events until ctx is cancelled.
func ConsumeExports(ctx context.Context, brokers []string, topic, groupID string, handle ExportHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	defer reader.Close()

	logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic}).Info("Export consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			switch {
			case errors.Is(ctx.Err(), context.Canceled):
				return nil
			case ctx.Err() != nil:
				return ctx.Err()
			}
			logrus.WithError(err).Error("Error reading message from Kafka")
			continue
		}

		event, err := DecodeExportEvent(msg.Value)
		if err != nil {
			logrus.WithError(err).WithField("offset", msg.Offset).Warn("Skipping malformed export event")
			continue
		}

		if err := handle(ctx, event); err != nil {
			logrus.WithError(err).WithField("session_id", event.SessionID).Error("Export handler failed")
		}
	}
}

func DecodeExportEvent(value []byte) (entity.ExportEvent, error) {
	var event entity.ExportEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return entity.ExportEvent{}, err
	}
	if event.SessionID == "" || event.Kind == "" {
		return entity.ExportEvent{}, errors.New("export event without session or kind")
	}
	return event, nil
}
