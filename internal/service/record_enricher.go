package service

import (
	"context"
	"time"

	"access-log-backend/internal/geo"
	"access-log-backend/internal/model"
	"access-log-backend/internal/util"
	"access-log-backend/internal/xss"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecordEnricher turns shipped records into indexable documents.
type RecordEnricher interface {
	EnrichBatch(ctx context.Context, batch []model.ShippedRecord) []model.EnrichedRecord
}

type recordEnricher struct {
	geo geo.Enricher
	now func() time.Time
}

// NewRecordEnricher returns an enricher; a nil geo enricher disables geolocation.
func NewRecordEnricher(g geo.Enricher) RecordEnricher {
	return &recordEnricher{geo: g, now: time.Now}
}

// EnrichBatch flags XSS suspects and resolves every distinct IP of the batch once. When
// geolocation fails the batch is returned without geo fields.
func (e *recordEnricher) EnrichBatch(ctx context.Context, batch []model.ShippedRecord) []model.EnrichedRecord {
	out := make([]model.EnrichedRecord, 0, len(batch))
	ips := make([]string, 0, len(batch))
	for _, shipped := range batch {
		rec := model.NewEnrichedRecord(shipped.Record)
		rec.ID = shipped.ID
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.SourceFile = shipped.SourceFile
		rec.Raw = shipped.Raw
		rec.XSSSuspect = xss.LooksLikeXSS(rec.Action)

		ts, err := util.ParseAccessLogTime(rec.Date, rec.GMT)
		if err != nil {
			log.Debug().Err(err).Str("source_file", rec.SourceFile).Msg("Using ingest time for record")
			ts = e.now().UTC()
		}
		rec.Timestamp = ts

		out = append(out, rec)
		ips = append(ips, rec.IP)
	}

	if e.geo == nil || len(out) == 0 {
		return out
	}
	geoMap, err := e.geo.Enrich(ctx, ips)
	if err != nil {
		log.Error().Err(err).Int("batch_size", len(out)).Msg("Geolocation failed, storing batch without geo fields")
		return out
	}
	geo.Attach(out, geoMap)
	return out
}
