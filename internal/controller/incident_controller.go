package controller

import (
	"net/http"
	"strconv"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type IncidentController struct {
	incidentService service.IncidentService
}

func NewIncidentController(incidentService service.IncidentService) *IncidentController {
	return &IncidentController{incidentService: incidentService}
}

func RegisterIncidentRoutes(router *gin.Engine, controller *IncidentController) {
	router.GET("/api/v1/incidents", controller.ListIncidents)
}

// ListIncidents godoc
// @Summary      List XSS incidents
// @Description  Most recent requests flagged as possible XSS, newest first.
// @Tags         incidents
// @Produce      json
// @Param        ip     query     string  false  "Only incidents from this client IP"
// @Param        limit  query     int     false  "Maximum number of incidents (default: 100, max: 1000)"
// @Success      200    {object}  dto.IncidentListResponse
// @Failure      400    {object}  model.Response "Invalid query parameters"
// @Failure      500    {object}  model.Response "Internal server error"
// @Router       /api/v1/incidents [get]
func (c *IncidentController) ListIncidents(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("limit must be an integer", nil))
		return
	}

	result, err := c.incidentService.ListIncidents(ctx.Request.Context(), dto.IncidentListRequest{
		IP:    ctx.Query("ip"),
		Limit: limit,
	})
	if err != nil {
		respondError(ctx, err, "Failed to list incidents")
		return
	}
	ctx.JSON(http.StatusOK, result)
}
