package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/services"
	"github.com/yigit/mentorhub/internal/middleware"
)

// MeetingController handles group meeting scheduling and updates
type MeetingController struct {
	meetingService services.MeetingService
}

// NewMeetingController creates a new MeetingController
func NewMeetingController(meetingService services.MeetingService) *MeetingController {
	return &MeetingController{meetingService: meetingService}
}

// ScheduleGroup schedules meetings for every active mentee of a mentor
// @Summary Schedule group meetings
// @Description Creates one UPCOMING meeting per slot for every active mentee of the faculty member in the given term
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ScheduleGroupMeetingsRequest true "Slots to schedule"
// @Success 201 {object} dto.APIResponse{data=dto.ScheduleGroupMeetingsResponse} "Meetings scheduled"
// @Failure 400 {object} dto.ErrorResponse "Invalid slots"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to schedule for this faculty"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found or no active mentees"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetings/schedule-group [post]
func (c *MeetingController) ScheduleGroup(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	var req dto.ScheduleGroupMeetingsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.meetingService.ScheduleGroupMeetings(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccess(resp, "Meetings scheduled successfully"))
}

// Update changes the status or description of a meeting group
// @Summary Update meeting group
// @Description Applies the status, description and per-student reviews to every meeting sharing the slot of the given meeting
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Any meeting ID of the group"
// @Param request body dto.UpdateMeetingRequest true "Update"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateMeetingResponse} "Meetings updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status, review required or meeting not yet due"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not the organizer of this meeting"
// @Failure 404 {object} dto.ErrorResponse "Meeting not found"
// @Failure 409 {object} dto.ErrorResponse "Status change not allowed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetings/{id}/update [post]
func (c *MeetingController) Update(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	id, ok := idParam(ctx, "Meeting")
	if !ok {
		return
	}

	var req dto.UpdateMeetingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.meetingService.UpdateMeeting(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp, resp.Message))
}

// Complete marks a meeting group COMPLETED
// @Summary Complete meeting group
// @Description Completes every meeting of the group. The slot must have passed and every review must carry text.
// @Tags meetings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Any meeting ID of the group"
// @Param request body dto.CompleteMeetingRequest true "Student reviews"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateMeetingResponse} "Meetings completed"
// @Failure 400 {object} dto.ErrorResponse "Cannot complete yet or review required"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not the organizer of this meeting"
// @Failure 404 {object} dto.ErrorResponse "Meeting not found"
// @Failure 409 {object} dto.ErrorResponse "Meeting already cancelled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetings/{id}/complete [post]
func (c *MeetingController) Complete(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	id, ok := idParam(ctx, "Meeting")
	if !ok {
		return
	}

	var req dto.CompleteMeetingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.meetingService.CompleteGroupMeetings(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp, resp.Message))
}

// Cancel cancels a meeting group
// @Summary Cancel meeting group
// @Description Cancels every meeting of the group. Rows are kept with status CANCELLED.
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Any meeting ID of the group"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateMeetingResponse} "Meetings cancelled"
// @Failure 400 {object} dto.ErrorResponse "Invalid meeting ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Not the organizer of this meeting"
// @Failure 404 {object} dto.ErrorResponse "Meeting not found"
// @Failure 409 {object} dto.ErrorResponse "Meeting already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetings/{id}/cancel [post]
func (c *MeetingController) Cancel(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}
	id, ok := idParam(ctx, "Meeting")
	if !ok {
		return
	}

	resp, err := c.meetingService.CancelGroupMeeting(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(resp, resp.Message))
}

// Mine lists the calling student's meetings
// @Summary List my meetings
// @Description Lists the student's meetings with their display status, where an UPCOMING meeting whose slot has passed shows as YET_TO_DONE
// @Tags meetings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentMeetingResponse} "Meetings"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Only students have their own meetings"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /meetings/mine [get]
func (c *MeetingController) Mine(ctx *gin.Context) {
	p := principal(ctx)
	if p == nil {
		return
	}

	meetings, err := c.meetingService.ListStudentMeetings(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(meetings, ""))
}
