package dto

type MetricSummaryResponse struct {
	TotalRequests  int64 `json:"totalRequests"`
	ErrorRequests  int64 `json:"errorRequests"` // 4xx and 5xx
	TotalXSSEvents int64 `json:"totalXssEvents"`
	UniqueIPs      int64 `json:"uniqueIps"`
}

type TimeseriesDataPoint struct {
	Timestamp int64 `json:"timestamp"` // Epoch Milliseconds
	Value     int64 `json:"value"`
}

type TimeseriesSeries struct {
	Name string                `json:"name"`
	Data []TimeseriesDataPoint `json:"data"`
}

type MetricTimeseriesResponse struct {
	Series []TimeseriesSeries `json:"series"`
}

type DistributionDataPoint struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type MetricDistributionResponse struct {
	MetricName   string                  `json:"metricName"`
	Dimension    string                  `json:"dimension"`
	Distribution []DistributionDataPoint `json:"distribution"`
}

type SourceListResponse struct {
	Sources []string `json:"sources"`
}
