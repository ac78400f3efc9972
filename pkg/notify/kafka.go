package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Kafka struct {
	writer kafkaMessageWriter
	topic  string
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka topic must not be empty")
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaWithWriter(w, topic), nil
}

func newKafkaWithWriter(w kafkaMessageWriter, topic string) *Kafka {
	return &Kafka{writer: w, topic: topic}
}

// Notify keys messages by sensor id so one sensor's alerts stay ordered.
func (k *Kafka) Notify(ctx context.Context, alert models.Alert) error {
	payload, err := encode(alert)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(alert.SensorID), 10)),
		Value: payload,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write %s: %w", k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
