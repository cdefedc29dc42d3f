package metrics

import (
	"strings"

	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
)

type Extractor interface {
	ExtractMetricEvents(rec *model.EnrichedRecord) []model.MetricEvent
}

type accessLogExtractor struct{}

func NewAccessLogExtractor() Extractor {
	return accessLogExtractor{}
}

// ExtractMetricEvents emits a request_event for every record and an xss_event for
// records flagged by the XSS detector.
func (accessLogExtractor) ExtractMetricEvents(rec *model.EnrichedRecord) []model.MetricEvent {
	if rec == nil {
		return nil
	}

	events := make([]model.MetricEvent, 0, 2)
	country := valueOr(rec.CountryCode, model.Sentinel)

	events = append(events, model.MetricEvent{
		Time:       rec.Timestamp,
		MetricName: model.MetricRequestEvent,
		RecordID:   rec.ID,
		Source:     rec.SourceFile,
		Tags: map[string]string{
			"status":       rec.Status,
			"status_class": StatusClass(rec.Status),
			"country_code": country,
			"ip":           rec.IP,
			"method":       Method(rec.Action),
		},
	})

	if rec.XSSSuspect {
		events = append(events, model.MetricEvent{
			Time:       rec.Timestamp,
			MetricName: model.MetricXSSEvent,
			RecordID:   rec.ID,
			Source:     rec.SourceFile,
			Tags: map[string]string{
				"ip":           rec.IP,
				"action":       rec.Action,
				"country_code": country,
			},
		})
	}
	log.Trace().Str("source", rec.SourceFile).Str("ip", rec.IP).Int("event_count", len(events)).Msg("Extracted metric events")
	return events
}

// StatusClass maps "404" to "4xx". Anything that is not a three digit code is "unknown".
func StatusClass(status string) string {
	if len(status) != 3 || status[0] < '1' || status[0] > '5' {
		return "unknown"
	}
	for i := 1; i < 3; i++ {
		if status[i] < '0' || status[i] > '9' {
			return "unknown"
		}
	}
	return status[:1] + "xx"
}

// Method returns the first word of a request line, "-" when there is none.
func Method(action string) string {
	fields := strings.Fields(action)
	if len(fields) == 0 {
		return model.Sentinel
	}
	return fields[0]
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
