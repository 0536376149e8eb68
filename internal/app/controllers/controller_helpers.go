package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/middleware"
)

// principal returns the authenticated caller or writes a 401 and returns nil
func principal(ctx *gin.Context) *auth.Principal {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewFailure(errorDetail))
		return nil
	}
	return p
}

// idParam parses the :id path parameter. On failure it writes a 400.
func idParam(ctx *gin.Context, entity string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+entity+" ID").
			WithDetails(entity + " ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewFailure(errorDetail))
		return 0, false
	}
	return id, true
}

// intQuery reads an optional integer query parameter; absent yields 0.
func intQuery(ctx *gin.Context, name string) (int64, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameter").
			WithField(name).
			WithDetails(name + " must be a number")
		ctx.JSON(http.StatusBadRequest, dto.NewFailure(errorDetail))
		return 0, false
	}
	return v, true
}

// termQuery reads the year and semester query parameters
func termQuery(ctx *gin.Context) (year, semester int, ok bool) {
	y, ok := intQuery(ctx, "year")
	if !ok {
		return 0, 0, false
	}
	s, ok := intQuery(ctx, "semester")
	if !ok {
		return 0, 0, false
	}
	return int(y), int(s), true
}
