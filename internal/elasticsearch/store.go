package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"access-log-backend/config"
	"access-log-backend/internal/model"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

type RecordStore interface {
	StoreRecords(ctx context.Context, records []model.EnrichedRecord) error
	Close(ctx context.Context) error
}

type elasticRecordStore struct {
	transport       esapi.Transport
	indexPrefix     string
	numWorkers      int
	flushBytes      int
	flushInterval   time.Duration
	countSuccessful uint64
	countFailed     uint64
}

// Connect creates a client and pings the cluster until it answers or the retry budget runs out.
func Connect(cfg *config.Config) (*elasticsearch.Client, error) {
	if len(cfg.Elasticsearch.Addresses) == 0 {
		return nil, errors.New("elasticsearch configuration missing")
	}
	esCfg := clientConfig(cfg)

	var esClient *elasticsearch.Client
	operation := func() error {
		var err error
		esClient, err = elasticsearch.NewClient(esCfg)
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Error creating the Elasticsearch client")
			return err
		}

		res, err := esClient.Info(esClient.Info.WithContext(context.Background()))
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Error during Elasticsearch Info() call (transport level)")
			return err
		}
		defer res.Body.Close()
		if res.IsError() {
			errMsg := fmt.Errorf("elasticsearch Info() returned error status: %s", res.Status())
			log.Warn().Err(errMsg).Msg("Attempt failed: Elasticsearch ping returned error status")
			return errMsg
		}
		log.Info().Str("server_info", res.String()).Msg("Elasticsearch client initialized and connection verified!")
		return nil
	}

	connectBackoff := backoff.NewExponentialBackOff()
	connectBackoff.InitialInterval = 2 * time.Second
	connectBackoff.MaxInterval = 15 * time.Second
	connectBackoff.MaxElapsedTime = 90 * time.Second

	log.Info().Msg("Attempting to connect to Elasticsearch with retries...")
	if err := backoff.Retry(operation, connectBackoff); err != nil {
		return nil, fmt.Errorf("connect to elasticsearch: %w", err)
	}
	return esClient, nil
}

func NewElasticRecordStore(lc fx.Lifecycle, cfg *config.Config) (RecordStore, *elasticsearch.Client, error) {
	esClient, err := Connect(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to Elasticsearch after multiple retries")
		return nil, nil, err
	}

	store := NewRecordStore(esClient, cfg.Elasticsearch)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close(ctx)
		},
	})
	return store, esClient, nil
}

// NewRecordStore returns a store that indexes through transport, normally an
// *elasticsearch.Client.
func NewRecordStore(transport esapi.Transport, cfg config.ElasticsearchConfig) RecordStore {
	return &elasticRecordStore{
		transport:     transport,
		indexPrefix:   cfg.LogIndex,
		numWorkers:    cfg.BulkWorkers,
		flushBytes:    cfg.FlushBytes,
		flushInterval: cfg.FlushInterval,
	}
}

// StoreRecords bulk indexes records and returns only once Elasticsearch has answered for
// every one of them. The record ID is used as document ID so a replayed batch overwrites
// instead of duplicating.
func (s *elasticRecordStore) StoreRecords(ctx context.Context, records []model.EnrichedRecord) error {
	if len(records) == 0 {
		return nil
	}

	var failed uint64
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        s.transport,
		NumWorkers:    s.numWorkers,
		FlushBytes:    s.flushBytes,
		FlushInterval: s.flushInterval,
		OnError: func(ctx context.Context, err error) {
			log.Error().Err(err).Msg("BulkIndexer error")
		},
	})
	if err != nil {
		return fmt.Errorf("create bulk indexer: %w", err)
	}

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			_ = bi.Close(ctx)
			return fmt.Errorf("marshal record %s: %w", rec.ID, err)
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			Index:      IndexName(s.indexPrefix, rec.Timestamp),
			DocumentID: rec.ID,
			Body:       bytes.NewReader(data),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				atomic.AddUint64(&failed, 1)
				if err != nil {
					log.Error().Err(err).Str("id", item.DocumentID).Msg("Bulk index item failed")
					return
				}
				log.Error().Str("id", item.DocumentID).Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("Bulk index item rejected")
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return fmt.Errorf("queue record %s: %w", rec.ID, err)
		}
	}

	// Close flushes the remaining items and waits for every response.
	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("flush bulk indexer: %w", err)
	}

	stats := bi.Stats()
	if n := atomic.LoadUint64(&failed); n > stats.NumFailed {
		stats.NumFailed = n
	}
	indexed := stats.NumIndexed + stats.NumCreated + stats.NumUpdated
	atomic.AddUint64(&s.countSuccessful, indexed)
	atomic.AddUint64(&s.countFailed, stats.NumFailed)

	if stats.NumFailed > 0 || indexed < uint64(len(records)) {
		return fmt.Errorf("indexed %d of %d records, %d failed", indexed, len(records), stats.NumFailed)
	}
	log.Debug().Int("count", len(records)).Uint64("requests", stats.NumRequests).Msg("Indexed records in Elasticsearch")
	return nil
}

func (s *elasticRecordStore) Close(ctx context.Context) error {
	log.Info().
		Uint64("indexed", atomic.LoadUint64(&s.countSuccessful)).
		Uint64("failed", atomic.LoadUint64(&s.countFailed)).
		Msg("Elasticsearch record store final stats")
	return nil
}
