package dto

import "access-log-backend/internal/model"

type IncidentListRequest struct {
	IP    string
	Limit int
}

type IncidentListResponse struct {
	Incidents []model.Incident `json:"incidents"`
}
