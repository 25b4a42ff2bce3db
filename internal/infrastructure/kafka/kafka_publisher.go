package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher forwards domain events to a single Kafka topic, keyed by the
// event subject so that events of one partner stay ordered.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	logger *zap.Logger
}

func NewKafkaPublisher(cfg KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("failed to deliver partner events",
					zap.Int("messages", len(messages)),
					zap.Error(err),
				)
			}
		},
	}
	return NewKafkaPublisherWithWriter(writer, cfg.Topic, logger)
}

func NewKafkaPublisherWithWriter(writer MessageWriter, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Handle is a bus handler.
func (k *KafkaPublisher) Handle(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.Topic, err)
	}

	value, err := json.Marshal(PartnerEvent{
		Topic:      event.Topic,
		Key:        event.Key,
		OccurredAt: event.OccurredAt,
		Payload:    payload,
	})
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event.Topic)},
		},
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
