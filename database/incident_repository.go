package database

import (
	"context"
	"fmt"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultIncidentLimit = 100
	maxIncidentLimit     = 1000
	insertBatchSize      = 100
)

type gormIncidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) repository.IncidentRepository {
	return &gormIncidentRepository{db: db}
}

// SaveIncidents ignores incidents whose ID is already stored.
func (r *gormIncidentRepository) SaveIncidents(ctx context.Context, incidents []model.Incident) error {
	if len(incidents) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(incidents, insertBatchSize).Error; err != nil {
		return fmt.Errorf("save %d incidents: %w", len(incidents), err)
	}
	return nil
}

// ListIncidents returns the most recent incidents first.
func (r *gormIncidentRepository) ListIncidents(ctx context.Context, req dto.IncidentListRequest) ([]model.Incident, error) {
	var incidents []model.Incident
	if err := incidentQuery(r.db.WithContext(ctx), req).Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	return incidents, nil
}

func incidentQuery(tx *gorm.DB, req dto.IncidentListRequest) *gorm.DB {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultIncidentLimit
	}
	if limit > maxIncidentLimit {
		limit = maxIncidentLimit
	}
	tx = tx.Model(&model.Incident{})
	if req.IP != "" {
		tx = tx.Where("ip = ?", req.IP)
	}
	return tx.Order("detected_at DESC").Limit(limit)
}
