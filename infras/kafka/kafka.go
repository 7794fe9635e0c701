package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"slotwise/config"
	"slotwise/infras/otel"
	"slotwise/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writeTimeout   = 10 * time.Second
	otelAttrTopic  = "messaging.destination"
	otelAttrCount  = "messaging.batch.message_count"
	headerEncoding = "content-type"
)

// Message is a keyed JSON record. Records sharing a key land on the same
// partition.
type Message struct {
	Key   string
	Value any
}

func (m *Message) encode(topic string) (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode message %s: %w", m.Key, err)
	}

	return kafkaGo.Message{
		Topic:   topic,
		Key:     []byte(m.Key),
		Value:   value,
		Headers: []kafkaGo.Header{{Key: headerEncoding, Value: []byte(constant.ContentTypeJSON)}},
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) error
	Close() error
}

type kafkaClientImpl struct {
	writer *kafkaGo.Writer
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Client {
	transport := &kafkaGo.Transport{}

	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              transport,
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkaGo.RequireOne,
		WriteTimeout:           writeTimeout,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka writer initialized")

	return &kafkaClientImpl{writer: writer, otel: otel}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrTopic: topic,
		otelAttrCount: len(messages),
	})

	records := make([]kafkaGo.Message, len(messages))

	for i := range messages {
		if records[i], err = messages[i].encode(topic); err != nil {
			return err
		}
	}

	if err = k.writer.WriteMessages(ctx, records...); err != nil {
		log.Error().Err(err).Str("topic", topic).Int("count", len(records)).Msg("Failed to write to Kafka")

		return fmt.Errorf("failed to write to topic %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(records)).Msg("Wrote messages to Kafka")

	return nil
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}
