package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"access-log-backend/config"
	"access-log-backend/internal/elasticsearch"
	"access-log-backend/internal/kafka"
	"access-log-backend/internal/metrics"
	"access-log-backend/internal/model"
	"access-log-backend/internal/repository"
	"access-log-backend/internal/timescaledb"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type LogConsumerService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type logConsumerService struct {
	consumer     kafka.RecordConsumer
	enricher     RecordEnricher
	recordStore  elasticsearch.RecordStore
	metricStore  timescaledb.MetricStore
	incidentRepo repository.IncidentRepository
	extractor    metrics.Extractor
	batchSize    int
	maxWaitTime  time.Duration
	retryDelay   time.Duration
}

func NewLogConsumerService(
	consumer kafka.RecordConsumer,
	enricher RecordEnricher,
	recordStore elasticsearch.RecordStore,
	metricStore timescaledb.MetricStore,
	incidentRepo repository.IncidentRepository,
	extractor metrics.Extractor,
	cfg *config.Config,
) LogConsumerService {
	return &logConsumerService{
		consumer:     consumer,
		enricher:     enricher,
		recordStore:  recordStore,
		metricStore:  metricStore,
		incidentRepo: incidentRepo,
		extractor:    extractor,
		batchSize:    cfg.LogProcessor.BatchSize,
		maxWaitTime:  cfg.LogProcessor.MaxBatchWait,
		retryDelay:   time.Second,
	}
}

func (s *logConsumerService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting Log Consumer Service loop...")

	for {
		if ctx.Err() != nil {
			log.Info().Msg("Log Consumer Service loop stopping due to context cancellation.")
			return
		}

		err := s.processBatch(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Context cancelled during batch processing.")
			return
		}
		log.Error().Err(err).Msg("Error processing consumer batch")
		select {
		case <-ctx.Done():
		case <-time.After(s.retryDelay):
		}
	}
}

// processBatch collects up to batchSize messages or whatever arrived within maxWaitTime,
// stores them and commits. Messages that fail to decode are committed with the batch.
func (s *logConsumerService) processBatch(ctx context.Context) error {
	records := make([]model.ShippedRecord, 0, s.batchSize)
	messages := make([]kafkaGo.Message, 0, s.batchSize)

	batchCtx, cancel := context.WithTimeout(ctx, s.maxWaitTime)
	defer cancel()

	for len(messages) < s.batchSize {
		rec, msg, err := s.consumer.FetchMessage(batchCtx)
		if err != nil {
			if msg.Topic != "" {
				log.Warn().Int64("offset", msg.Offset).Msg("Adding undecodable message to batch for commit tracking.")
				messages = append(messages, msg)
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return fmt.Errorf("failed to fetch kafka message: %w", err)
		}
		rec.ID = RecordID(msg)
		records = append(records, *rec)
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		log.Trace().Msg("No messages in batch to process.")
		return nil
	}

	if err := s.storeBatch(ctx, records); err != nil {
		return err
	}

	if err := s.consumer.CommitMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed committing kafka messages: %w", err)
	}
	log.Info().Int("messages", len(messages)).Int("records", len(records)).Msg("Successfully processed and committed batch.")
	return nil
}

func (s *logConsumerService) storeBatch(ctx context.Context, batch []model.ShippedRecord) error {
	if len(batch) == 0 {
		return nil
	}
	enriched := s.enricher.EnrichBatch(ctx, batch)

	if err := s.recordStore.StoreRecords(ctx, enriched); err != nil {
		return fmt.Errorf("failed storing records: %w", err)
	}

	events := make([]model.MetricEvent, 0, len(enriched))
	for i := range enriched {
		events = append(events, s.extractor.ExtractMetricEvents(&enriched[i])...)
	}
	if err := s.metricStore.StoreMetricEvents(ctx, events); err != nil {
		return fmt.Errorf("failed storing metric events: %w", err)
	}

	if incidents := IncidentsFrom(enriched, time.Now()); len(incidents) > 0 {
		if err := s.incidentRepo.SaveIncidents(ctx, incidents); err != nil {
			return fmt.Errorf("failed storing incidents: %w", err)
		}
		log.Warn().Int("count", len(incidents)).Msg("Recorded possible XSS requests")
	}
	return nil
}

// RecordID derives a stable document ID from the message position, so reprocessing an
// uncommitted batch overwrites the same documents.
func RecordID(msg kafkaGo.Message) string {
	key := fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// IncidentsFrom returns one incident per XSS suspect, keyed by the record ID.
func IncidentsFrom(records []model.EnrichedRecord, detectedAt time.Time) []model.Incident {
	var incidents []model.Incident
	for _, rec := range records {
		if !rec.XSSSuspect {
			continue
		}
		incidents = append(incidents, model.Incident{
			ID:          rec.ID,
			DetectedAt:  detectedAt.UTC(),
			RequestTime: rec.Timestamp,
			IP:          rec.IP,
			Action:      rec.Action,
			Status:      rec.Status,
			Referrer:    rec.Referrer,
			Browser:     rec.Browser,
			CountryCode: rec.CountryCode,
			SourceFile:  rec.SourceFile,
		})
	}
	return incidents
}
