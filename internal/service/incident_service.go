package service

import (
	"context"
	"fmt"
	"net"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/repository"
)

type IncidentService interface {
	ListIncidents(ctx context.Context, req dto.IncidentListRequest) (*dto.IncidentListResponse, error)
}

type incidentService struct {
	repo repository.IncidentRepository
}

func NewIncidentService(repo repository.IncidentRepository) IncidentService {
	return &incidentService{repo: repo}
}

func (s *incidentService) ListIncidents(ctx context.Context, req dto.IncidentListRequest) (*dto.IncidentListResponse, error) {
	if req.IP != "" && net.ParseIP(req.IP) == nil {
		return nil, fmt.Errorf("%w: ip %q is not an IP address", ErrValidation, req.IP)
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	incidents, err := s.repo.ListIncidents(ctx, req)
	if err != nil {
		return nil, err
	}
	return &dto.IncidentListResponse{Incidents: incidents}, nil
}
