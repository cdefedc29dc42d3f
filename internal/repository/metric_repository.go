package repository

import (
	"context"

	"access-log-backend/internal/dto"
)

type MetricRepository interface {
	GetSummaryMetrics(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error)
	GetTimeseriesMetrics(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error)
	GetDistributionMetrics(ctx context.Context, req dto.MetricDistributionRequest) (*dto.MetricDistributionResponse, error)
	GetDistinctSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error)
}
