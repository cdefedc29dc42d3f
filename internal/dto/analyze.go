package dto

import "access-log-backend/internal/model"

// AnalyzeRequest carries raw access log lines to parse on demand.
type AnalyzeRequest struct {
	Lines     []string `json:"lines" binding:"required,min=1"`
	Columns   []string `json:"columns"`
	Mode      string   `json:"mode"`
	Geo       bool     `json:"geo"`
	GeoFields []string `json:"geoFields"`
}

type LineError struct {
	Line    int    `json:"line"` // 1-based position in the request
	Message string `json:"message"`
}

type AnalyzeResponse struct {
	Frame  model.Frame `json:"frame"`
	Errors []LineError `json:"errors"`
}

type XSSCheckRequest struct {
	Value string `json:"value" binding:"required"`
}

type XSSCheckResponse struct {
	Value      string `json:"value"`
	Suspicious bool   `json:"suspicious"`
}
