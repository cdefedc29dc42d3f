package controller

import (
	"net/http"
	"strconv"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	logQueryService service.LogQueryService
}

func NewLogController(logQueryService service.LogQueryService) *LogController {
	return &LogController{
		logQueryService: logQueryService,
	}
}

func RegisterLogRoutes(router *gin.Engine, controller *LogController) {
	v1 := router.Group("/api/v1/logs")
	{
		v1.GET("", controller.GetLogs)
	}
}

// GetLogs godoc
// @Summary      Search access log records
// @Description  Retrieves enriched access log records in a time range, filtered by free text, client IPs, status codes, countries, source files or XSS verdict.
// @Tags         logs
// @Accept       json
// @Produce      json
// @Param        startTime    query     string  true   "Start time in ISO 8601 format (e.g., 2026-02-17T09:00:00Z) or epoch milliseconds"
// @Param        endTime      query     string  true   "End time in ISO 8601 format or epoch milliseconds"
// @Param        query        query     string  false  "Free text search over request, referrer, browser and raw line"
// @Param        ips          query     string  false  "Comma-separated client IPs"
// @Param        statuses     query     string  false  "Comma-separated status codes (e.g., 404,500)"
// @Param        countries    query     string  false  "Comma-separated ISO alpha-2 country codes"
// @Param        sources      query     string  false  "Comma-separated source files"
// @Param        xssOnly      query     bool    false  "Only records flagged as possible XSS"
// @Param        sortBy       query     string  false  "Field to sort by (default: @timestamp)" Enums(@timestamp, ip, status, country_code, source_file)
// @Param        sortOrder    query     string  false  "Sort order (asc or desc, default: desc)" Enums(asc, desc)
// @Param        page         query     int     false  "Page number (default: 1)" minimum(1)
// @Param        size         query     int     false  "Number of records per page (default: 50, max: 1000)" minimum(1) maximum(1000)
// @Success      200          {object}  dto.LogSearchResponse "Successfully retrieved records"
// @Failure      400          {object}  model.Response "Invalid query parameters"
// @Failure      500          {object}  model.Response "Internal server error"
// @Router       /api/v1/logs [get]
func (c *LogController) GetLogs(ctx *gin.Context) {
	startTime, endTime, err := parseTimeRange(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.DefaultQuery("size", "50"))
	if err != nil || size <= 0 || size > 1000 {
		size = 50
	}
	xssOnly, _ := strconv.ParseBool(ctx.DefaultQuery("xssOnly", "false"))

	searchReq := dto.LogSearchRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Query:     ctx.Query("query"),
		IPs:       splitQueryList(ctx.Query("ips")),
		Statuses:  splitQueryList(ctx.Query("statuses")),
		Countries: splitQueryList(ctx.Query("countries")),
		Sources:   splitQueryList(ctx.Query("sources")),
		XSSOnly:   xssOnly,
		SortBy:    ctx.DefaultQuery("sortBy", "@timestamp"),
		SortOrder: ctx.DefaultQuery("sortOrder", "desc"),
		Page:      page,
		Size:      size,
	}

	result, err := c.logQueryService.SearchLogs(ctx.Request.Context(), searchReq)
	if err != nil {
		respondError(ctx, err, "Failed to search logs")
		return
	}
	ctx.JSON(http.StatusOK, result)
}
