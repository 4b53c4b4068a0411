package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ds124wfegd/WB_L3/memestudio/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	Publish(ctx context.Context, event entity.ExportEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer returns a mock producer when the broker cannot be reached.
func NewProducer(brokers, topic string) Producer {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers)
	if err != nil {
		logrus.WithError(err).Warn("Kafka connection failed, using mock producer")
		return NewMockProducer()
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.WithError(err).Debugf("Could not create topic %s (might already exist)", topic)
	}

	logrus.WithField("brokers", brokers).Info("Connected to Kafka")

	return &kafkaProducer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *kafkaProducer) Publish(ctx context.Context, event entity.ExportEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: value,
		Time:  time.UnixMilli(event.Timestamp),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.WithError(err).WithField("topic", p.topic).Error("Failed to write export event")
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// MockProducer logs events instead of sending them and remembers them.
type MockProducer struct {
	mu     sync.Mutex
	events []entity.ExportEvent
}

func NewMockProducer() *MockProducer {
	return &MockProducer{}
}

func (m *MockProducer) Publish(_ context.Context, event entity.ExportEvent) error {
	logrus.WithFields(logrus.Fields{
		"session_id": event.SessionID,
		"kind":       event.Kind,
		"platform":   event.Platform,
	}).Debug("MOCK: export event")
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return nil
}

func (m *MockProducer) Events() []entity.ExportEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.ExportEvent(nil), m.events...)
}

func (m *MockProducer) Close() error {
	return nil
}
