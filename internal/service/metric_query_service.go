package service

import (
	"context"
	"fmt"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/repository"
	"access-log-backend/internal/timescaledb"

	"github.com/rs/zerolog/log"
)

type MetricQueryService interface {
	GetSummary(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error)
	GetTimeseries(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error)
	GetDistribution(ctx context.Context, req dto.MetricDistributionRequest) (*dto.MetricDistributionResponse, error)
	GetSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error)
}

var metricNames = map[string]bool{model.MetricRequestEvent: true, model.MetricXSSEvent: true}

type metricQueryService struct {
	metricRepo repository.MetricRepository
}

func NewMetricQueryService(metricRepo repository.MetricRepository) MetricQueryService {
	return &metricQueryService{
		metricRepo: metricRepo,
	}
}

func (s *metricQueryService) GetSummary(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error) {
	if err := validateRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	log.Info().Time("start", req.StartTime).Time("end", req.EndTime).Strs("sources", req.Sources).Msg("Getting summary metrics")
	return s.metricRepo.GetSummaryMetrics(ctx, req)
}

func (s *metricQueryService) GetTimeseries(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	if err := validateRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if !metricNames[req.MetricName] {
		return nil, fmt.Errorf("%w: metricName %q", ErrValidation, req.MetricName)
	}
	if !timescaledb.Intervals[req.Interval] {
		return nil, fmt.Errorf("%w: interval %q", ErrValidation, req.Interval)
	}
	if req.GroupBy == "" {
		req.GroupBy = "total"
	}
	if _, ok := timescaledb.Dimensions[req.GroupBy]; !ok && req.GroupBy != "total" {
		return nil, fmt.Errorf("%w: groupBy %q", ErrValidation, req.GroupBy)
	}

	log.Info().
		Time("start", req.StartTime).
		Time("end", req.EndTime).
		Strs("sources", req.Sources).
		Str("metric", req.MetricName).
		Str("interval", req.Interval).
		Str("group_by", req.GroupBy).
		Msg("Getting timeseries metrics")

	return s.metricRepo.GetTimeseriesMetrics(ctx, req)
}

func (s *metricQueryService) GetDistribution(ctx context.Context, req dto.MetricDistributionRequest) (*dto.MetricDistributionResponse, error) {
	if err := validateRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if !metricNames[req.MetricName] {
		return nil, fmt.Errorf("%w: metricName %q", ErrValidation, req.MetricName)
	}
	if _, ok := timescaledb.Dimensions[req.Dimension]; !ok {
		return nil, fmt.Errorf("%w: dimension %q", ErrValidation, req.Dimension)
	}
	log.Info().Str("metric", req.MetricName).Str("dimension", req.Dimension).Msg("Getting metric distribution")
	return s.metricRepo.GetDistributionMetrics(ctx, req)
}

func (s *metricQueryService) GetSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error) {
	if err := validateRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	log.Info().Time("start", req.StartTime).Time("end", req.EndTime).Msg("Getting distinct sources")
	return s.metricRepo.GetDistinctSources(ctx, req)
}
