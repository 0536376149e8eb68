package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// MentorshipController handles mentor assignment and mentorship groups
type MentorshipController struct {
	mentorshipService services.MentorshipService
}

// NewMentorshipController creates a new MentorshipController
func NewMentorshipController(mentorshipService services.MentorshipService) *MentorshipController {
	return &MentorshipController{mentorshipService: mentorshipService}
}

// Assign assigns a mentor to a batch of students for one term
// @Summary Assign mentor
// @Description Assigns the faculty member to every listed student for the given year and semester. Students already mentored by the same faculty are left unchanged.
// @Tags mentorship
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssignMentorRequest true "Assignment"
// @Success 200 {object} dto.APIResponse{data=dto.AssignMentorResponse} "Mentor assigned"
// @Failure 400 {object} dto.ErrorResponse "Invalid assignment or unknown roll numbers"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only the head of department or an administrator can assign mentors"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Failure 409 {object} dto.ErrorResponse "Student already has another mentor for this term"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentor/assign [post]
func (c *MentorshipController) Assign(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	var req dto.AssignMentorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.mentorshipService.AssignMentor(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp, "Mentor assigned successfully"))
}

// Reset closes active mentorships in a department
// @Summary Reset department mentorships
// @Description Closes every active mentorship of the department, optionally limited to one year and semester
// @Tags mentorship
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ResetMentorshipsRequest true "Department and optional term"
// @Success 200 {object} dto.APIResponse{data=dto.ResetMentorshipsResponse} "Mentorships reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not the head of this department"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentor/reset [post]
func (c *MentorshipController) Reset(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	var req dto.ResetMentorshipsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.mentorshipService.ResetDepartment(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp, "Mentorships reset successfully"))
}

// Unassigned lists students without a mentor for a term
// @Summary List unassigned students
// @Description Lists active students of the department with no active mentorship for the term. Defaults to the caller's own department.
// @Tags mentorship
// @Produce json
// @Security BearerAuth
// @Param departmentId query int false "Department ID"
// @Param year query int true "Year of study"
// @Param semester query int true "Semester"
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Unassigned students"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not the head of this department"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentor/unassigned [get]
func (c *MentorshipController) Unassigned(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	departmentID, ok := intQuery(ctx, "departmentId")
	if !ok {
		return
	}
	year, semester, ok := termQuery(ctx)
	if !ok {
		return
	}

	students, err := c.mentorshipService.GetUnassignedStudents(ctx.Request.Context(), p, departmentID, year, semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(students, ""))
}

// Group returns a mentor's mentees and grouped meetings for a term
// @Summary Get mentorship group
// @Description Returns the active mentees of the faculty member for the term with their meetings grouped by slot. Defaults to the caller's own faculty profile.
// @Tags mentorship
// @Produce json
// @Security BearerAuth
// @Param facultyId query int false "Faculty ID"
// @Param year query int true "Year of study"
// @Param semester query int true "Semester"
// @Success 200 {object} dto.APIResponse{data=dto.MentorshipGroupResponse} "Mentorship group"
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to view this group"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentor/group [get]
func (c *MentorshipController) Group(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	facultyID, ok := intQuery(ctx, "facultyId")
	if !ok {
		return
	}
	year, semester, ok := termQuery(ctx)
	if !ok {
		return
	}

	group, err := c.mentorshipService.GetMentorshipGroup(ctx.Request.Context(), p, facultyID, year, semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(group, ""))
}

// Mine lists the calling student's mentors
// @Summary List my mentors
// @Description Returns the student's mentorship history, current mentor first
// @Tags mentorship
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.MentorshipHistory} "Mentorship history"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only students have mentors"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentor/mine [get]
func (c *MentorshipController) Mine(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	mentors, err := c.mentorshipService.GetStudentMentors(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(mentors, ""))
}
