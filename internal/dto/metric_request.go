package dto

import "time"

type MetricSummaryRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Sources   []string
}

// SortInfo orders timeseries rows by "value", "time" or the group key.
type SortInfo struct {
	Field string
	Order string
}

type MetricTimeseriesRequest struct {
	StartTime  time.Time
	EndTime    time.Time
	Sources    []string
	MetricName string // request_event or xss_event
	Interval   string // e.g. "5 minute", "1 hour"
	GroupBy    string // a dimension name or "total"
	Sort       *SortInfo
	Limit      *int
}

type MetricDistributionRequest struct {
	StartTime  time.Time
	EndTime    time.Time
	Sources    []string
	MetricName string
	Dimension  string
	Limit      int
}

type SourceListRequest struct {
	StartTime time.Time
	EndTime   time.Time
}
