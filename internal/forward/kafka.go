// Package forward publishes non-duplicate processed events to a Kafka
// topic for downstream consumers.
package forward

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"redwatch/internal/constants"
	"redwatch/internal/event"
	"redwatch/internal/logger"
	"redwatch/pkg/metrics"
)

type Publisher interface {
	Publish(ctx context.Context, key string, evt *event.Event) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	logger logger.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log logger.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: constants.KafkaBatchTimeout,
		WriteTimeout: constants.KafkaWriteTimeout,
		Async:        false,
	}
	return &KafkaPublisher{writer: w, topic: topic, logger: log}
}

// Publish writes the event keyed by its fingerprint so repeats of the
// same kind of event land on one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, evt *event.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		metrics.ForwarderPublishTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: body,
		Time:  time.Now(),
	})
	if err != nil {
		metrics.ForwarderPublishTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.ForwarderPublishTotal.WithLabelValues("published").Inc()
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
