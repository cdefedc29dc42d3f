package controller

import (
	"net/http"
	"strconv"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricController struct {
	metricQueryService service.MetricQueryService
}

func NewMetricController(metricQueryService service.MetricQueryService) *MetricController {
	return &MetricController{
		metricQueryService: metricQueryService,
	}
}

func RegisterMetricRoutes(router *gin.Engine, controller *MetricController) {
	v1Metrics := router.Group("/api/v1/metrics")
	{
		v1Metrics.GET("/summary", controller.GetSummaryMetrics)
		v1Metrics.GET("/timeseries", controller.GetTimeseriesMetrics)
		v1Metrics.GET("/distribution", controller.GetDistributionMetrics)
	}
	v1Logs := router.Group("/api/v1/logs")
	{
		v1Logs.GET("/sources", controller.GetSources)
	}
}

// GetSummaryMetrics godoc
// @Summary      Get summary metrics
// @Description  Total requests, 4xx/5xx requests, XSS events and distinct client IPs within a time range.
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        startTime    query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime      query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        sources      query     string  false  "Comma-separated list of source files"
// @Success      200          {object}  dto.MetricSummaryResponse
// @Failure      400          {object}  model.Response "Invalid query parameters"
// @Failure      500          {object}  model.Response "Internal server error"
// @Router       /api/v1/metrics/summary [get]
func (c *MetricController) GetSummaryMetrics(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	result, err := c.metricQueryService.GetSummary(ctx.Request.Context(), dto.MetricSummaryRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Sources:   splitQueryList(ctx.Query("sources")),
	})
	if err != nil {
		respondError(ctx, err, "Failed to get summary metrics")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetTimeseriesMetrics godoc
// @Summary      Get timeseries metrics
// @Description  Event counts bucketed by interval, optionally grouped by a dimension.
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        startTime    query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime      query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        sources      query     string  false  "Comma-separated list of source files"
// @Param        metricName   query     string  true   "Metric name" Enums(request_event, xss_event)
// @Param        interval     query     string  true   "Bucket width" Enums(1 minute, 5 minute, 10 minute, 30 minute, 1 hour, 1 day)
// @Param        groupBy      query     string  false  "Dimension to group by" Enums(status, status_class, country_code, ip, method, action, source, total)
// @Param        sortBy       query     string  false  "Sort rows by value, time or the group key"
// @Param        sortOrder    query     string  false  "asc or desc" Enums(asc, desc)
// @Param        limit        query     int     false  "Maximum number of rows"
// @Success      200          {object}  dto.MetricTimeseriesResponse
// @Failure      400          {object}  model.Response "Invalid query parameters"
// @Failure      500          {object}  model.Response "Internal server error"
// @Router       /api/v1/metrics/timeseries [get]
func (c *MetricController) GetTimeseriesMetrics(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	metricName := ctx.Query("metricName")
	interval := ctx.Query("interval")
	if metricName == "" {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("metricName is required", nil))
		return
	}
	if interval == "" {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("interval is required", nil))
		return
	}

	req := dto.MetricTimeseriesRequest{
		StartTime:  startTime,
		EndTime:    endTime,
		Sources:    splitQueryList(ctx.Query("sources")),
		MetricName: metricName,
		Interval:   interval,
		GroupBy:    ctx.DefaultQuery("groupBy", "total"),
	}
	if sortBy := ctx.Query("sortBy"); sortBy != "" {
		req.Sort = &dto.SortInfo{Field: sortBy, Order: ctx.DefaultQuery("sortOrder", "asc")}
	}
	if limitStr := ctx.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			ctx.JSON(http.StatusBadRequest, model.NewResponse("limit must be a positive integer", nil))
			return
		}
		req.Limit = &limit
	}

	result, err := c.metricQueryService.GetTimeseries(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to get timeseries metrics")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetDistributionMetrics godoc
// @Summary      Get metric distribution
// @Description  Event counts per value of one dimension, largest first.
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        startTime    query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime      query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        sources      query     string  false  "Comma-separated list of source files"
// @Param        metricName   query     string  true   "Metric name" Enums(request_event, xss_event)
// @Param        dimension    query     string  true   "Dimension" Enums(status, status_class, country_code, ip, method, action, source)
// @Param        limit        query     int     false  "Maximum number of values"
// @Success      200          {object}  dto.MetricDistributionResponse
// @Failure      400          {object}  model.Response "Invalid query parameters"
// @Failure      500          {object}  model.Response "Internal server error"
// @Router       /api/v1/metrics/distribution [get]
func (c *MetricController) GetDistributionMetrics(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("limit must be a non-negative integer", nil))
		return
	}

	result, err := c.metricQueryService.GetDistribution(ctx.Request.Context(), dto.MetricDistributionRequest{
		StartTime:  startTime,
		EndTime:    endTime,
		Sources:    splitQueryList(ctx.Query("sources")),
		MetricName: ctx.DefaultQuery("metricName", model.MetricRequestEvent),
		Dimension:  ctx.Query("dimension"),
		Limit:      limit,
	})
	if err != nil {
		respondError(ctx, err, "Failed to get metric distribution")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetSources godoc
// @Summary      Get distinct source files
// @Description  Lists the access log files that produced events within a time range.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        startTime    query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime      query     string  true   "End time (ISO 8601 or epoch ms)"
// @Success      200          {object}  dto.SourceListResponse
// @Failure      400          {object}  model.Response "Invalid query parameters"
// @Failure      500          {object}  model.Response "Internal server error"
// @Router       /api/v1/logs/sources [get]
func (c *MetricController) GetSources(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	result, err := c.metricQueryService.GetSources(ctx.Request.Context(), dto.SourceListRequest{
		StartTime: startTime,
		EndTime:   endTime,
	})
	if err != nil {
		respondError(ctx, err, "Failed to get sources")
		return
	}
	ctx.JSON(http.StatusOK, result)
}
