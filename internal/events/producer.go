// Package events publishes order lifecycle messages to Kafka. The stream is
// the reconciliation hook for the one known correctness gap in the order path:
// a stock decrement that commits without its order insert can be detected by
// replaying these events against the order table.
package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/rs/zerolog/log"
)

// OrderCreated is the payload emitted after an order is persisted.
type OrderCreated struct {
	OrderId   int64     `json:"orderId"`
	UserId    int64     `json:"userId"`
	VoucherId int64     `json:"voucherId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Producer interface {
	PublishOrderCreated(event OrderCreated) error
	Close()
}

type kafkaProducer struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaProducer creates a confluent producer and starts a background
// goroutine to drain delivery reports.
func NewKafkaProducer(bootstrapServers, topic string) (Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": bootstrapServers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	// Drain delivery reports in background so the producer doesn't block.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					log.Error().Err(ev.TopicPartition.Error).
						Str("topic", *ev.TopicPartition.Topic).
						Msg("kafka delivery failed")
				}
			}
		}
	}()

	return &kafkaProducer{producer: p, topic: topic}, nil
}

func (k *kafkaProducer) PublishOrderCreated(event OrderCreated) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(strconv.FormatInt(event.UserId, 10)),
		Value: value,
	}
	if err := k.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("kafka produce error: %w", err)
	}
	return nil
}

func (k *kafkaProducer) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}

// NoopProducer discards events. Used when Kafka is not configured and in tests.
type NoopProducer struct{}

func (NoopProducer) PublishOrderCreated(OrderCreated) error { return nil }
func (NoopProducer) Close()                                 {}
