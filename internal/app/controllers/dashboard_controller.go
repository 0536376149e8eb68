package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// DashboardController serves role-specific counters
type DashboardController struct {
	dashboardService services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Stats returns the caller's dashboard counters
// @Summary Dashboard statistics
// @Description Students get request and meeting counters and their current mentor. Faculty get mentee, request and meeting counters. Heads of department also get the unassigned student count when year and semester are given.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year of study"
// @Param semester query int false "Semester"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats} "Dashboard statistics"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/stats [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	year, semester, ok := termQuery(ctx)
	if !ok {
		return
	}

	stats, err := c.dashboardService.GetStats(ctx.Request.Context(), p, year, semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(stats, ""))
}
