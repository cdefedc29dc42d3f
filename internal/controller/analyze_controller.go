package controller

import (
	"net/http"

	"access-log-backend/internal/dto"
	"access-log-backend/internal/model"
	"access-log-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyzeController struct {
	analyzeService service.AnalyzeService
}

func NewAnalyzeController(analyzeService service.AnalyzeService) *AnalyzeController {
	return &AnalyzeController{analyzeService: analyzeService}
}

func RegisterAnalyzeRoutes(router *gin.Engine, controller *AnalyzeController) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", controller.Analyze)
		v1.POST("/xss/check", controller.CheckXSS)
	}
}

// Analyze godoc
// @Summary      Parse access log lines
// @Description  Parses raw lines into a table with an xss column and, on request, geolocation columns. Lines that cannot be parsed are reported by position.
// @Tags         analyze
// @Accept       json
// @Produce      json
// @Param        request  body      dto.AnalyzeRequest  true  "Lines and options"
// @Success      200      {object}  dto.AnalyzeResponse
// @Failure      400      {object}  model.Response "Invalid request body"
// @Failure      502      {object}  model.Response "Geolocation service failed"
// @Failure      503      {object}  model.Response "Geolocation disabled"
// @Router       /api/v1/analyze [post]
func (c *AnalyzeController) Analyze(ctx *gin.Context) {
	var req dto.AnalyzeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	result, err := c.analyzeService.Analyze(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to analyze log lines")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// CheckXSS godoc
// @Summary      Check a string for XSS markers
// @Tags         analyze
// @Accept       json
// @Produce      json
// @Param        request  body      dto.XSSCheckRequest  true  "Value to check"
// @Success      200      {object}  dto.XSSCheckResponse
// @Failure      400      {object}  model.Response "Invalid request body"
// @Router       /api/v1/xss/check [post]
func (c *AnalyzeController) CheckXSS(ctx *gin.Context) {
	var req dto.XSSCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}
	ctx.JSON(http.StatusOK, c.analyzeService.CheckXSS(req.Value))
}
