package geo

import (
	"context"
	"fmt"
	"time"

	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
)

// Enricher resolves a set of IPs through a Lookup.
type Enricher interface {
	Enrich(ctx context.Context, ips []string) (map[string]model.GeoInfo, error)
}

type enricher struct {
	lookup Lookup
}

func NewEnricher(lookup Lookup) Enricher {
	return &enricher{lookup: lookup}
}

func (e *enricher) Enrich(ctx context.Context, ips []string) (map[string]model.GeoInfo, error) {
	return Enrich(ctx, ips, e.lookup)
}

// Enrich calls lookup once for every distinct IP in ips, in order of first appearance,
// and returns the results keyed by IP. The first failure aborts the pass and is returned
// as is; no placeholder GeoInfo is produced for it.
func Enrich(ctx context.Context, ips []string, lookup Lookup) (map[string]model.GeoInfo, error) {
	unique := dedupe(ips)
	result := make(map[string]model.GeoInfo, len(unique))
	startTime := time.Now()

	for i, ip := range unique {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := lookup.Lookup(ctx, ip)
		if err != nil {
			log.Warn().Err(err).Str("ip", ip).Int("resolved", i).Int("total", len(unique)).Msg("Geolocation lookup failed, aborting enrichment pass")
			return nil, err
		}
		result[ip] = info
		log.Trace().Str("ip", ip).Str("country_code", info.CountryCode).Int("done", i+1).Int("total", len(unique)).Msg("Resolved IP")
	}

	log.Debug().
		Int("records_ips", len(ips)).
		Int("unique_ips", len(unique)).
		Dur("duration", time.Since(startTime)).
		Msg("Finished geolocation enrichment pass")
	return result, nil
}

// UniqueIPs returns the distinct IPs of records in order of first appearance.
func UniqueIPs(records []model.LogRecord) []string {
	ips := make([]string, 0, len(records))
	for _, r := range records {
		ips = append(ips, r.IP)
	}
	return dedupe(ips)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ApplyFields appends one column per requested GeoInfo field to frame, looked up by the
// value of ipColumn in each row. The frame is left untouched when any row or field fails.
func ApplyFields(frame *model.Frame, ipColumn string, geoMap map[string]model.GeoInfo, fields []string) error {
	ipIdx := frame.ColumnIndex(ipColumn)
	if ipIdx < 0 {
		return fmt.Errorf("frame has no column %q", ipColumn)
	}
	for _, field := range fields {
		if _, err := (model.GeoInfo{}).Field(field); err != nil {
			return err
		}
	}
	columns := make([][]string, len(fields))
	for f, field := range fields {
		columns[f] = make([]string, len(frame.Rows))
		for i, row := range frame.Rows {
			info, ok := geoMap[row[ipIdx]]
			if !ok {
				return fmt.Errorf("no geolocation for ip %q", row[ipIdx])
			}
			columns[f][i], _ = info.Field(field)
		}
	}
	for f, field := range fields {
		if err := frame.AddColumn(field, columns[f]); err != nil {
			return err
		}
	}
	return nil
}

// Attach copies the geolocation of each record's IP onto it. Records whose IP is not in
// geoMap are left without geo fields.
func Attach(records []model.EnrichedRecord, geoMap map[string]model.GeoInfo) {
	for i := range records {
		if info, ok := geoMap[records[i].IP]; ok {
			records[i].SetGeo(info)
		}
	}
}
