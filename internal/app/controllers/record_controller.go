package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// RecordController serves student internship and project records
type RecordController struct {
	recordService services.RecordService
}

// NewRecordController creates a new RecordController
func NewRecordController(recordService services.RecordService) *RecordController {
	return &RecordController{recordService: recordService}
}

// Internships lists a student's internships
// @Summary List internships
// @Description Students get their own internships. Mentors, heads of department and administrators pass studentId.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Student ID, required for staff"
// @Success 200 {object} dto.APIResponse{data=[]models.Internship} "Internships, newest semester first"
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing studentId"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Student is outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /records/internships [get]
func (c *RecordController) Internships(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	studentID, ok := intQuery(ctx, "studentId")
	if !ok {
		return
	}

	records, err := c.recordService.ListInternships(ctx.Request.Context(), p, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(records, ""))
}

// Projects lists a student's projects
// @Summary List projects
// @Description Students get their own projects. Mentors, heads of department and administrators pass studentId.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Student ID, required for staff"
// @Success 200 {object} dto.APIResponse{data=[]models.Project} "Projects, newest semester first"
// @Failure 400 {object} dto.ErrorResponse "Invalid or missing studentId"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Student is outside the caller's scope"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /records/projects [get]
func (c *RecordController) Projects(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	studentID, ok := intQuery(ctx, "studentId")
	if !ok {
		return
	}

	records, err := c.recordService.ListProjects(ctx.Request.Context(), p, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(records, ""))
}
