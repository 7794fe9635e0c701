package events

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"slotwise/infras/kafka"
	"slotwise/infras/s3"
	"slotwise/shared/constant"
)

const (
	SinkKafka   = "kafka"
	SinkArchive = "s3_archive"
)

// KafkaSink streams every event to a topic keyed by booking ID.
type KafkaSink struct {
	client kafka.Client
	topic  string
}

func NewKafkaSink(client kafka.Client, topic string) *KafkaSink {
	return &KafkaSink{client: client, topic: topic}
}

func (s *KafkaSink) Name() string {
	return SinkKafka
}

func (s *KafkaSink) Deliver(ctx context.Context, event *Event) error {
	message := kafka.Message{
		Key: event.Key,
		Value: struct {
			ID      string          `json:"id"`
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}{event.ID, event.Type, event.Payload},
	}

	if err := s.client.SendMessages(ctx, s.topic, message); err != nil {
		return fmt.Errorf("failed to stream %s: %w", event.Type, err)
	}

	return nil
}

// ArchiveSink stores one JSON object per event under
// <prefix>/<yyyy>/<mm>/<dd>/<booking>-<event>.json.
type ArchiveSink struct {
	client s3.S3
	bucket string
	prefix string
}

func NewArchiveSink(client s3.S3, bucket, prefix string) *ArchiveSink {
	return &ArchiveSink{client: client, bucket: bucket, prefix: prefix}
}

func (s *ArchiveSink) Name() string {
	return SinkArchive
}

func (s *ArchiveSink) Deliver(ctx context.Context, event *Event) error {
	directory := path.Join(s.prefix, event.CreatedAt.UTC().Format("2006/01/02"))
	fileName := fmt.Sprintf("%s-%s.json", event.Key, event.ID)

	if _, err := s.client.UploadFileBytes(ctx, s.bucket, directory, fileName, constant.ContentTypeJSON, event.Payload); err != nil {
		return fmt.Errorf("failed to archive %s: %w", event.Type, err)
	}

	return nil
}
