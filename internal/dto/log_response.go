package dto

import (
	"time"

	"access-log-backend/internal/model"
)

type LogSearchRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Query     string
	IPs       []string
	Statuses  []string
	Countries []string
	Sources   []string
	XSSOnly   bool
	SortBy    string
	SortOrder string
	Page      int
	Size      int
}

type LogSearchResponse struct {
	Logs       []model.EnrichedRecord `json:"logs"`
	TotalCount int64                  `json:"totalCount"`
	Page       int                    `json:"page"`
	Size       int                    `json:"size"`
}
