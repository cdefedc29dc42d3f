package model

import "time"

const (
	MetricRequestEvent = "request_event"
	MetricXSSEvent     = "xss_event"
)

// MetricEvent is one row of the events hypertable. RecordID ties it to the record it was
// extracted from; (record_id, metric_name, time) is unique.
type MetricEvent struct {
	Time       time.Time         `json:"time"`
	MetricName string            `json:"metric_name"`
	RecordID   string            `json:"record_id"`
	Source     string            `json:"source"`
	Tags       map[string]string `json:"tags"`
}
