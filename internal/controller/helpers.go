package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"access-log-backend/internal/geo"
	"access-log-backend/internal/model"
	"access-log-backend/internal/service"
	"access-log-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseTimeRange(ctx *gin.Context) (time.Time, time.Time, error) {
	startTimeStr := ctx.Query("startTime")
	endTimeStr := ctx.Query("endTime")
	if startTimeStr == "" || endTimeStr == "" {
		return time.Time{}, time.Time{}, errors.New("startTime and endTime are required query parameters")
	}

	startTime, errStart := util.ParseTimeFlexible(startTimeStr)
	endTime, errEnd := util.ParseTimeFlexible(endTimeStr)
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, errors.New("invalid startTime or endTime format. Use ISO 8601 or epoch milliseconds")
	}
	if endTime.Before(startTime) {
		return time.Time{}, time.Time{}, errors.New("endTime cannot be before startTime")
	}
	return startTime, endTime, nil
}

// respondError maps service errors onto status codes; anything unexpected is a 500 with
// the generic message.
func respondError(ctx *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
	case errors.Is(err, service.ErrGeoDisabled):
		ctx.JSON(http.StatusServiceUnavailable, model.NewResponse(err.Error(), nil))
	case errors.Is(err, geo.ErrLookup):
		ctx.JSON(http.StatusBadGateway, model.NewResponse(err.Error(), nil))
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(message)
		ctx.JSON(http.StatusInternalServerError, model.NewResponse(message, nil))
	}
}
