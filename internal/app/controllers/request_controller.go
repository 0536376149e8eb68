package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/middleware"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
)

// RequestController exposes the student request workflow
type RequestController struct {
	requestService services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService services.RequestService) *RequestController {
	return &RequestController{requestService: requestService}
}

// Submit handles a new student request
// @Summary Submit a request
// @Description Creates a PENDING request routed to the student's current mentor, or to the head of department when the student has none. MEETING_REQUEST is routed to the faculty named in requestData.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitRequestRequest true "Request to submit"
// @Success 201 {object} dto.APIResponse{data=models.Request} "Request submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only students can submit requests"
// @Failure 404 {object} dto.ErrorResponse "No mentor or head of department to route to"
// @Failure 409 {object} dto.ErrorResponse "A delete request for this record is already pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests [post]
func (c *RequestController) Submit(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	var req dto.SubmitRequestRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	created, err := c.requestService.Submit(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccess(created, "Request submitted successfully"))
}

// requestFilter builds a listing filter from page, size, status and type query params
func requestFilter(ctx *gin.Context) models.RequestFilter {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := models.RequestFilter{Page: page, Size: size}
	if status := strings.TrimSpace(ctx.Query("status")); status != "" {
		s := domain.RequestStatus(strings.ToUpper(status))
		filter.Status = &s
	}
	if typ := strings.TrimSpace(ctx.Query("type")); typ != "" {
		t := domain.RequestType(strings.ToUpper(typ))
		filter.Type = &t
	}
	return filter
}

// ListMine lists the caller's own requests
// @Summary List my requests
// @Description Lists requests submitted by the calling student, newest first
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param type query string false "Filter by type" Enums(INTERNSHIP, PROJECT, DELETE_INTERNSHIP, DELETE_PROJECT, MEETING_REQUEST)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.RequestListResponse} "Requests"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only students have their own requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests/mine [get]
func (c *RequestController) ListMine(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	resp, err := c.requestService.ListMine(ctx.Request.Context(), p, requestFilter(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp, ""))
}

// ListAssigned lists requests assigned to the caller
// @Summary List assigned requests
// @Description Lists requests awaiting the calling faculty member. Administrators see every request.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param type query string false "Filter by type" Enums(INTERNSHIP, PROJECT, DELETE_INTERNSHIP, DELETE_PROJECT, MEETING_REQUEST)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.RequestListResponse} "Requests"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only faculty have assigned requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests/assigned [get]
func (c *RequestController) ListAssigned(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	resp, err := c.requestService.ListAssigned(ctx.Request.Context(), p, requestFilter(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp, ""))
}

// Get returns a single request
// @Summary Get request by ID
// @Description Visible to the submitting student, the assignee, the head of the student's department and administrators
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.Request} "Request"
// @Failure 400 {object} dto.ErrorResponse "Invalid request ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to view this request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests/{id} [get]
func (c *RequestController) Get(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	id, ok := idParam(ctx, "Request")
	if !ok {
		return
	}

	req, err := c.requestService.Get(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(req, ""))
}

// Approve approves a pending request and applies its effect
// @Summary Approve a request
// @Description Approves a PENDING request. The record effect (create or delete internship/project, or create the requested meeting) is applied in the same transaction.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ActionRequestRequest false "Optional feedback"
// @Success 200 {object} dto.APIResponse{data=models.Request} "Request approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request ID or payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to action this request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request has already been actioned"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests/{id}/approve [post]
func (c *RequestController) Approve(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	id, ok := idParam(ctx, "Request")
	if !ok {
		return
	}

	var body dto.ActionRequestRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &body) {
		return
	}

	req, err := c.requestService.Approve(ctx.Request.Context(), p, id, body.Feedback)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(req, "Request approved"))
}

// Reject rejects a pending request
// @Summary Reject a request
// @Description Rejects a PENDING request. Feedback is required.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.ActionRequestRequest true "Rejection feedback"
// @Success 200 {object} dto.APIResponse{data=models.Request} "Request rejected"
// @Failure 400 {object} dto.ErrorResponse "Feedback is required"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to action this request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request has already been actioned"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests/{id}/reject [post]
func (c *RequestController) Reject(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	id, ok := idParam(ctx, "Request")
	if !ok {
		return
	}

	var body dto.ActionRequestRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &body) {
		return
	}

	req, err := c.requestService.Reject(ctx.Request.Context(), p, id, body.Feedback)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(req, "Request rejected"))
}

// Cancel withdraws the caller's own pending request
// @Summary Cancel a request
// @Description The submitting student withdraws a PENDING request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.Request} "Request cancelled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not your request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request is no longer pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /requests/{id}/cancel [post]
func (c *RequestController) Cancel(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	id, ok := idParam(ctx, "Request")
	if !ok {
		return
	}

	req, err := c.requestService.Cancel(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(req, "Request cancelled"))
}
