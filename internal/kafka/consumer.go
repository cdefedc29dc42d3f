package kafka

import (
	"context"
	"encoding/json"
	"time"

	"access-log-backend/config"
	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

type RecordConsumer interface {
	// FetchMessage returns the decoded record together with the raw message. On a decode
	// error the message is still returned so the caller can commit past it.
	FetchMessage(ctx context.Context) (*model.ShippedRecord, kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaRecordConsumer struct {
	reader *kafka.Reader
}

func NewKafkaRecordConsumer(lc fx.Lifecycle, cfg *config.Config) (RecordConsumer, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topic:          cfg.Kafka.LogTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        10 * time.Second,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
	c := &kafkaRecordConsumer{
		reader: reader,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Str("group", cfg.Kafka.ConsumerGroup).Msg("Closing Kafka consumer")
			return c.Close()
		},
	})
	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.LogTopic).
		Str("group", cfg.Kafka.ConsumerGroup).
		Msg("Kafka consumer initialized")
	return c, nil
}

func (c *kafkaRecordConsumer) FetchMessage(ctx context.Context) (*model.ShippedRecord, kafka.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, kafka.Message{}, err
	}
	log.Trace().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("Fetched message from Kafka")
	rec, err := decodeRecord(msg)
	if err != nil {
		log.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to unmarshal Kafka message value")
		return nil, msg, err
	}
	return rec, msg, nil
}

func (c *kafkaRecordConsumer) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := c.reader.CommitMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Int("count", len(msgs)).Msg("Failed to commit Kafka messages")
		return err
	}
	log.Debug().Int("count", len(msgs)).Int64("last_offset", msgs[len(msgs)-1].Offset).Msg("Committed Kafka messages")
	return nil
}

func (c *kafkaRecordConsumer) Close() error {
	return c.reader.Close()
}

func decodeRecord(msg kafka.Message) (*model.ShippedRecord, error) {
	var rec model.ShippedRecord
	if err := json.Unmarshal(msg.Value, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
