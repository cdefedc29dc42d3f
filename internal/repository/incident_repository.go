package repository

import (
	"context"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
)

type IncidentRepository interface {
	SaveIncidents(ctx context.Context, incidents []model.Incident) error
	ListIncidents(ctx context.Context, req dto.IncidentListRequest) ([]model.Incident, error)
}
