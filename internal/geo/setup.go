package geo

import (
	"context"
	"fmt"
	"net/http"

	"access-log-backend/config"
	"access-log-backend/internal/htmltable"

	"github.com/rs/zerolog/log"
)

// NewFromConfig assembles the enrichment chain: country resolver, geolocation-db client,
// retry wrapper and enricher. It returns a nil Enricher when geolocation is disabled.
func NewFromConfig(ctx context.Context, cfg config.GeoConfig, httpClient *http.Client) (Enricher, error) {
	if !cfg.Enabled {
		log.Info().Msg("Geolocation enrichment disabled")
		return nil, nil
	}
	if cfg.LookupURL == "" {
		return nil, fmt.Errorf("geolocation enabled but no lookup URL configured")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	resolver, err := newCountryResolver(ctx, cfg.CountryTableURL, httpClient)
	if err != nil {
		return nil, err
	}

	lookup := NewGeolocationDBClient(cfg.LookupURL, httpClient, resolver)
	lookup = WithRetry(lookup, RetryPolicy{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		Timeout:        cfg.Timeout,
	})
	log.Info().
		Str("lookup_url", cfg.LookupURL).
		Uint64("max_retries", cfg.MaxRetries).
		Dur("timeout", cfg.Timeout).
		Msg("Geolocation enrichment enabled")
	return NewEnricher(lookup), nil
}

func newCountryResolver(ctx context.Context, tableURL string, httpClient *http.Client) (CountryResolver, error) {
	if tableURL == "" {
		return NewISOCountryResolver(), nil
	}
	table, err := htmltable.Fetch(ctx, httpClient, []string{tableURL}, htmltable.Options{DropEmptyColumns: true})
	if err != nil {
		return nil, fmt.Errorf("fetch country table: %w", err)
	}
	resolver, err := NewTableCountryResolver(table)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", tableURL).Int("rows", len(table.Rows)).Msg("Loaded country code table")
	return resolver, nil
}
