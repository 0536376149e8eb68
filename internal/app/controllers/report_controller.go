package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// ReportController generates mentorship reports
type ReportController struct {
	reportService services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// GenerateMentorship renders a term report for a mentor
// @Summary Generate mentorship report
// @Description Renders the mentees and grouped meetings of a faculty member for one term and stores the document under /uploads
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GenerateReportRequest true "Report scope"
// @Success 201 {object} dto.APIResponse{data=dto.ReportResponse} "Report generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to report on this faculty"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /reports/mentorship [post]
func (c *ReportController) GenerateMentorship(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	var req dto.GenerateReportRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	report, err := c.reportService.GenerateMentorshipReport(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccess(report, "Report generated"))
}
