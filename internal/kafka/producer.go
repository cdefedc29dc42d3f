package kafka

import (
	"context"
	"encoding/json"
	"errors"

	"access-log-backend/config"
	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

type RecordProducer interface {
	Produce(ctx context.Context, records []model.ShippedRecord) error
	Close() error
}

type kafkaRecordProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaRecordProducer(lc fx.Lifecycle, cfg *config.Config) (RecordProducer, error) {
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.LogTopic == "" {
		log.Error().Msg("Kafka brokers or log topic is not configured.")
		return nil, errors.New("kafka configuration missing")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.LogTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.LogProcessor.BatchSize,
		BatchTimeout: cfg.LogProcessor.MaxBatchWait,
	}
	p := &kafkaRecordProducer{
		writer: writer,
		topic:  cfg.Kafka.LogTopic,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.LogTopic).Msg("Kafka producer initialized")
	return p, nil
}

// Produce writes one message per record, keyed by client IP so a client's requests
// stay ordered within a partition.
func (p *kafkaRecordProducer) Produce(ctx context.Context, records []model.ShippedRecord) error {
	messages, err := encodeRecords(records)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}

	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Successfully produced messages to Kafka")
	return nil
}

func (p *kafkaRecordProducer) Close() error {
	return p.writer.Close()
}

func encodeRecords(records []model.ShippedRecord) ([]kafka.Message, error) {
	messages := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		value, err := json.Marshal(rec)
		if err != nil {
			log.Error().Err(err).Str("source_file", rec.SourceFile).Msg("Failed to marshal record for Kafka")
			return nil, err
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(rec.Record.IP),
			Value: value,
		})
	}
	return messages, nil
}
