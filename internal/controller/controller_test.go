package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/geo"
	"access-log-backend/internal/model"
	"access-log-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLogQueryService struct{ mock.Mock }

func (m *mockLogQueryService) SearchLogs(ctx context.Context, req dto.LogSearchRequest) (*dto.LogSearchResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.LogSearchResponse)
	return res, args.Error(1)
}

type mockMetricQueryService struct{ mock.Mock }

func (m *mockMetricQueryService) GetSummary(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.MetricSummaryResponse)
	return res, args.Error(1)
}

func (m *mockMetricQueryService) GetTimeseries(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.MetricTimeseriesResponse)
	return res, args.Error(1)
}

func (m *mockMetricQueryService) GetDistribution(ctx context.Context, req dto.MetricDistributionRequest) (*dto.MetricDistributionResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.MetricDistributionResponse)
	return res, args.Error(1)
}

func (m *mockMetricQueryService) GetSources(ctx context.Context, req dto.SourceListRequest) (*dto.SourceListResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.SourceListResponse)
	return res, args.Error(1)
}

type mockIncidentService struct{ mock.Mock }

func (m *mockIncidentService) ListIncidents(ctx context.Context, req dto.IncidentListRequest) (*dto.IncidentListResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.IncidentListResponse)
	return res, args.Error(1)
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const timeRange = "startTime=2026-02-17T00:00:00Z&endTime=2026-02-18T00:00:00Z"

func TestGetLogs(t *testing.T) {
	svc := &mockLogQueryService{}
	r := newRouter()
	RegisterLogRoutes(r, NewLogController(svc))

	svc.On("SearchLogs", mock.Anything, mock.MatchedBy(func(req dto.LogSearchRequest) bool {
		return assert.ObjectsAreEqual([]string{"1.2.3.4", "5.6.7.8"}, req.IPs) &&
			assert.ObjectsAreEqual([]string{"404"}, req.Statuses) &&
			req.XSSOnly && req.Page == 2 && req.Size == 50
	})).Return(&dto.LogSearchResponse{TotalCount: 1, Page: 2, Size: 50}, nil).Once()

	w := perform(r, http.MethodGet, "/api/v1/logs?"+timeRange+"&ips=1.2.3.4,%205.6.7.8&statuses=404&xssOnly=true&page=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res dto.LogSearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, int64(1), res.TotalCount)
	svc.AssertExpectations(t)
}

func TestGetLogs_BadRange(t *testing.T) {
	r := newRouter()
	RegisterLogRoutes(r, NewLogController(&mockLogQueryService{}))

	w := perform(r, http.MethodGet, "/api/v1/logs?startTime=yesterday&endTime=today", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodGet, "/api/v1/logs", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricRoutes(t *testing.T) {
	svc := &mockMetricQueryService{}
	r := newRouter()
	RegisterMetricRoutes(r, NewMetricController(svc))

	t.Run("Summary", func(t *testing.T) {
		svc.On("GetSummary", mock.Anything, mock.Anything).Return(&dto.MetricSummaryResponse{TotalRequests: 9}, nil).Once()
		w := perform(r, http.MethodGet, "/api/v1/metrics/summary?"+timeRange, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalRequests":9`)
	})

	t.Run("Timeseries Validation Error", func(t *testing.T) {
		svc.On("GetTimeseries", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: interval %q", service.ErrValidation, "7 minute")).Once()
		w := perform(r, http.MethodGet, "/api/v1/metrics/timeseries?"+timeRange+"&metricName=request_event&interval=7%20minute", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Timeseries Sort And Limit", func(t *testing.T) {
		svc.On("GetTimeseries", mock.Anything, mock.MatchedBy(func(req dto.MetricTimeseriesRequest) bool {
			return req.Sort != nil && req.Sort.Field == "value" && req.Sort.Order == "desc" && req.Limit != nil && *req.Limit == 5
		})).Return(&dto.MetricTimeseriesResponse{}, nil).Once()
		w := perform(r, http.MethodGet, "/api/v1/metrics/timeseries?"+timeRange+"&metricName=request_event&interval=1%20hour&sortBy=value&sortOrder=desc&limit=5", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Timeseries Missing Metric", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/api/v1/metrics/timeseries?"+timeRange+"&interval=1%20hour", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Distribution Internal Error", func(t *testing.T) {
		svc.On("GetDistribution", mock.Anything, mock.Anything).Return(nil, errors.New("pool closed")).Once()
		w := perform(r, http.MethodGet, "/api/v1/metrics/distribution?"+timeRange+"&dimension=status", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pool closed")
	})

	t.Run("Sources", func(t *testing.T) {
		svc.On("GetSources", mock.Anything, mock.Anything).Return(&dto.SourceListResponse{Sources: []string{"a.log"}}, nil).Once()
		w := perform(r, http.MethodGet, "/api/v1/logs/sources?"+timeRange, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "a.log")
	})
}

func TestAnalyzeRoutes(t *testing.T) {
	lookup := geo.LookupFunc(func(_ context.Context, ip string) (model.GeoInfo, error) {
		if ip == "10.0.0.1" {
			return model.GeoInfo{}, &geo.LookupError{IP: ip, Err: errors.New("status 503"), Retryable: true}
		}
		return model.GeoInfo{CountryCode: "US", Alpha3: "USA"}, nil
	})
	r := newRouter()
	RegisterAnalyzeRoutes(r, NewAnalyzeController(service.NewAnalyzeService("positional", geo.NewEnricher(lookup), []string{"alpha_3"})))

	t.Run("Analyze", func(t *testing.T) {
		body := `{"lines":["127.0.0.1 - - [10/Oct/2000:13:55:36 -0700] \"GET /a HTTP/1.0\" 200 1 \"-\" \"-\"","junk"],"geo":true}`
		w := perform(r, http.MethodPost, "/api/v1/analyze", body)
		require.Equal(t, http.StatusOK, w.Code)

		var res dto.AnalyzeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "alpha_3", res.Frame.Columns[len(res.Frame.Columns)-1])
		assert.Equal(t, "USA", res.Frame.Rows[0][len(res.Frame.Columns)-1])
		require.Len(t, res.Errors, 1)
		assert.Equal(t, 2, res.Errors[0].Line)
	})

	t.Run("Geo Failure Is Bad Gateway", func(t *testing.T) {
		body := `{"lines":["10.0.0.1 - - [10/Oct/2000:13:55:36 -0700] \"GET /a HTTP/1.0\" 200 1"],"geo":true}`
		w := perform(r, http.MethodPost, "/api/v1/analyze", body)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("Missing Lines", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/api/v1/analyze", `{"lines":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("XSS Check", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/api/v1/xss/check", `{"value":"/search?q=<script>"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"suspicious":true`)

		w = perform(r, http.MethodPost, "/api/v1/xss/check", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListIncidents(t *testing.T) {
	svc := &mockIncidentService{}
	r := newRouter()
	RegisterIncidentRoutes(r, NewIncidentController(svc))

	svc.On("ListIncidents", mock.Anything, dto.IncidentListRequest{IP: "1.2.3.4", Limit: 10}).
		Return(&dto.IncidentListResponse{Incidents: []model.Incident{{ID: "x", IP: "1.2.3.4"}}}, nil).Once()
	w := perform(r, http.MethodGet, "/api/v1/incidents?ip=1.2.3.4&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"x"`)

	w = perform(r, http.MethodGet, "/api/v1/incidents?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}
