package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"access-log-backend/config"
	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/repository"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog/log"
)

// keywordFields are dynamically mapped text fields that sort and filter on their .keyword subfield.
var keywordFields = map[string]bool{
	"ip":           true,
	"user":         true,
	"status":       true,
	"action":       true,
	"country_code": true,
	"alpha_3":      true,
	"source_file":  true,
}

var searchFields = []string{"action", "referrer", "browser", "user", "raw_log"}

type elasticsearchLogRepository struct {
	esTypedClient *elasticsearch.TypedClient
	indexPrefix   string
}

func NewElasticsearchLogRepository(cfg *config.Config) (repository.LogRepository, error) {
	typedClient, err := elasticsearch.NewTypedClient(clientConfig(cfg))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create Typed Elasticsearch Client in Repository")
		return nil, err
	}

	return &elasticsearchLogRepository{
		esTypedClient: typedClient,
		indexPrefix:   cfg.Elasticsearch.LogIndex,
	}, nil
}

func (r *elasticsearchLogRepository) Search(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error) {
	res, err := r.esTypedClient.Search().
		Index(indexPattern(r.indexPrefix)).
		Request(buildSearchRequest(req)).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	logs := make([]model.EnrichedRecord, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var rec model.EnrichedRecord
		if err := json.Unmarshal(hit.Source_, &rec); err != nil {
			log.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
			continue
		}
		logs = append(logs, rec)
	}

	response := &dto.LogSearchResponse{
		Logs: logs,
		Page: req.Page,
		Size: req.Size,
	}
	if res.Hits.Total != nil {
		response.TotalCount = res.Hits.Total.Value
	}

	log.Debug().Int64("total_hits", response.TotalCount).Int("returned_hits", len(response.Logs)).Msg("Elasticsearch search successful")
	return response, nil
}

func buildSearchRequest(req dto.LogSearchRequest) *search.Request {
	startTimeStr := req.StartTime.Format(time.RFC3339)
	endTimeStr := req.EndTime.Format(time.RFC3339)

	filters := []types.Query{{
		Range: map[string]types.RangeQuery{
			"@timestamp": types.DateRangeQuery{
				Gte: &startTimeStr,
				Lte: &endTimeStr,
			},
		},
	}}

	if req.Query != "" {
		filters = append(filters, types.Query{
			QueryString: &types.QueryStringQuery{
				Query:           req.Query,
				Fields:          searchFields,
				DefaultOperator: &operator.And,
			},
		})
	}

	filters = appendTerms(filters, "ip", req.IPs)
	filters = appendTerms(filters, "status", req.Statuses)
	filters = appendTerms(filters, "country_code", req.Countries)
	filters = appendTerms(filters, "source_file", req.Sources)

	if req.XSSOnly {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{
				"xss_suspect": {Value: true},
			},
		})
	}

	from := (req.Page - 1) * req.Size
	size := req.Size
	order := sortorder.Desc
	if req.SortOrder == "asc" {
		order = sortorder.Asc
	}

	return &search.Request{
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Filter: filters,
			},
		},
		Size: &size,
		From: &from,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					sortField(req.SortBy): {Order: &order},
				},
			},
		},
	}
}

func appendTerms(filters []types.Query, field string, values []string) []types.Query {
	if len(values) == 0 {
		return filters
	}
	terms := make([]types.FieldValue, len(values))
	for i, v := range values {
		terms[i] = v
	}
	return append(filters, types.Query{
		Terms: &types.TermsQuery{
			TermsQuery: map[string]types.TermsQueryField{
				field + ".keyword": terms,
			},
		},
	})
}

func sortField(field string) string {
	switch {
	case field == "" || field == "@timestamp":
		return "@timestamp"
	case keywordFields[field]:
		return field + ".keyword"
	default:
		log.Warn().Str("sort_field", field).Msg("Unsupported sort field requested, sorting by @timestamp")
		return "@timestamp"
	}
}
