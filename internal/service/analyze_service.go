package service

import (
	"context"
	"fmt"
	"strconv"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/geo"
	"access-log-backend/internal/model"
	"access-log-backend/internal/parser"
	"access-log-backend/internal/xss"

	"github.com/rs/zerolog/log"
)

const (
	// XSSColumn holds the detector verdict for a row's request line.
	XSSColumn       = "xss"
	maxAnalyzeLines = 10000
)

// AnalyzeService parses ad-hoc lines into a frame, the on-demand counterpart of the
// ingest pipeline.
type AnalyzeService interface {
	Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	CheckXSS(value string) dto.XSSCheckResponse
}

type analyzeService struct {
	defaultMode   string
	geo           geo.Enricher
	defaultFields []string
}

// NewAnalyzeService returns the service; a nil enricher rejects geo requests.
func NewAnalyzeService(defaultMode string, enricher geo.Enricher, defaultFields []string) AnalyzeService {
	return &analyzeService{defaultMode: defaultMode, geo: enricher, defaultFields: defaultFields}
}

func (s *analyzeService) Analyze(ctx context.Context, req dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: lines are required", ErrValidation)
	}
	if len(req.Lines) > maxAnalyzeLines {
		return nil, fmt.Errorf("%w: at most %d lines per request", ErrValidation, maxAnalyzeLines)
	}
	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}
	if mode != parser.ModePositional && mode != parser.ModeRegex {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrValidation, mode)
	}

	records, lineErrors := ParseLines(parser.New(mode), req.Lines)
	frame, err := BuildFrame(records, req.Columns)
	if err != nil {
		return nil, err
	}

	if req.Geo {
		if s.geo == nil {
			return nil, ErrGeoDisabled
		}
		fields := req.GeoFields
		if len(fields) == 0 {
			fields = s.defaultFields
		}
		if err := AddGeoColumns(ctx, s.geo, frame, records, fields); err != nil {
			return nil, err
		}
	}

	log.Debug().Int("lines", len(req.Lines)).Int("records", len(records)).Int("errors", len(lineErrors)).Bool("geo", req.Geo).Msg("Analyzed log lines")
	return &dto.AnalyzeResponse{Frame: *frame, Errors: lineErrors}, nil
}

func (s *analyzeService) CheckXSS(value string) dto.XSSCheckResponse {
	return dto.XSSCheckResponse{Value: value, Suspicious: xss.LooksLikeXSS(value)}
}

// ParseLines parses every line with p and reports structural failures by 1-based line number.
func ParseLines(p parser.Parser, lines []string) ([]model.LogRecord, []dto.LineError) {
	records := make([]model.LogRecord, 0, len(lines))
	lineErrors := make([]dto.LineError, 0)
	for i, line := range lines {
		rec, err := p.Parse(line)
		if err != nil {
			lineErrors = append(lineErrors, dto.LineError{Line: i + 1, Message: err.Error()})
			continue
		}
		records = append(records, rec)
	}
	return records, lineErrors
}

// BuildFrame lays out records with the requested column names and appends the xss column.
func BuildFrame(records []model.LogRecord, columns []string) (*model.Frame, error) {
	frame := parser.NewFrame(records, columns)
	verdicts := make([]string, len(records))
	for i, r := range records {
		verdicts[i] = strconv.FormatBool(xss.LooksLikeXSS(r.Action))
	}
	if err := frame.AddColumn(XSSColumn, verdicts); err != nil {
		return nil, err
	}
	return frame, nil
}

// AddGeoColumns resolves the distinct IPs of records and appends one column per field.
// The IP column is the frame's first column whatever it was renamed to.
func AddGeoColumns(ctx context.Context, enricher geo.Enricher, frame *model.Frame, records []model.LogRecord, fields []string) error {
	for _, f := range fields {
		if _, err := (model.GeoInfo{}).Field(f); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	geoMap, err := enricher.Enrich(ctx, geo.UniqueIPs(records))
	if err != nil {
		return fmt.Errorf("geolocation failed: %w", err)
	}
	if len(frame.Columns) == 0 {
		return nil
	}
	return geo.ApplyFields(frame, frame.Columns[0], geoMap, fields)
}
