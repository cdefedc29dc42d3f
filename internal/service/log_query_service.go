package service

import (
	"context"
	"strings"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

type LogQueryService interface {
	SearchLogs(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error)
}

type logQueryService struct {
	logRepo repository.LogRepository
}

func NewLogQueryService(logRepo repository.LogRepository) LogQueryService {
	return &logQueryService{
		logRepo: logRepo,
	}
}

func (s *logQueryService) SearchLogs(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error) {
	if err := validateRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 1000 {
		req.Size = 500
	}
	if req.SortBy == "" {
		req.SortBy = "@timestamp"
	}
	req.SortOrder = strings.ToLower(req.SortOrder)
	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		req.SortOrder = "desc"
	}
	for i, c := range req.Countries {
		req.Countries[i] = strings.ToUpper(c)
	}

	log.Info().
		Time("start_time", req.StartTime).
		Time("end_time", req.EndTime).
		Str("query", req.Query).
		Strs("ips", req.IPs).
		Strs("statuses", req.Statuses).
		Strs("countries", req.Countries).
		Bool("xss_only", req.XSSOnly).
		Int("page", req.Page).
		Int("size", req.Size).
		Msg("Searching logs")

	return s.logRepo.Search(ctx, req)
}
