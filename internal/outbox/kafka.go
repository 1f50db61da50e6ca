package outbox

import (
	"context"
	"fmt"
	"time"

	"physicsclass-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic keyed by aggregate id so
// all events of one order land on the same partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
			MaxAttempts:  3,
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				logger.L().Error(fmt.Sprintf("kafka writer: "+msg, args...))
			}),
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, len(events))
	for i, e := range events {
		msgs[i] = kafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Time:  e.CreatedAt,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(e.ID)},
				{Key: "event_type", Value: []byte(e.EventType)},
			},
		}
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedPublishEvent, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no brokers are configured. Events are logged and
// considered delivered.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, events []*Event) error {
	log := logger.FromCtx(ctx)
	for _, e := range events {
		log.Info("outbox event",
			zap.String("event_id", e.ID),
			zap.String("event_type", e.EventType),
			zap.String("aggregate_id", e.AggregateID),
		)
	}
	return nil
}

func (LogPublisher) Close() error { return nil }
