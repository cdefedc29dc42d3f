package repository

import (
	"context"

	"access-log-backend/internal/dto"
)

type LogRepository interface {
	Search(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error)
}
