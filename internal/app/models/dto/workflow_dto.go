package dto

import (
	"encoding/json"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/domain"
)

// SubmitRequestRequest is the body of POST /requests
type SubmitRequestRequest struct {
	Type        domain.RequestType `json:"type" validate:"required" example:"INTERNSHIP"`
	RequestData json.RawMessage    `json:"requestData,omitempty" swaggertype:"object"`
	TargetID    *int64             `json:"targetId,omitempty"`
	Remarks     string             `json:"remarks,omitempty" validate:"max=1000"`
}

// ActionRequestRequest is the body of approve and reject calls
type ActionRequestRequest struct {
	Feedback string `json:"feedback" validate:"max=2000" example:"Please attach the offer letter"`
}

// RequestListResponse is a page of requests
type RequestListResponse struct {
	Requests []models.Request `json:"requests"`
	PaginationInfo
}

// AssignMentorRequest is the body of POST /mentor/assign
type AssignMentorRequest struct {
	StudentRollNumbers []int64 `json:"studentRollNumbers" validate:"required,min=1,dive,gt=0"`
	FacultyEmployeeID  string  `json:"facultyEmployeeId" validate:"notblank"`
	Year               int     `json:"year" validate:"required,min=1,max=6" example:"2"`
	Semester           int     `json:"semester" validate:"required,min=1,max=2" example:"1"`
}

// AssignMentorResponse reports how many assignments were written
type AssignMentorResponse struct {
	AssignedCount  int    `json:"assignedCount"`
	ClosedCount    int    `json:"closedCount"`
	UnchangedCount int    `json:"unchangedCount"`
	FacultyName    string `json:"facultyName"`
	Year           int    `json:"year"`
	Semester       int    `json:"semester"`
}

// ResetMentorshipsRequest is the body of POST /mentor/reset
type ResetMentorshipsRequest struct {
	DepartmentID int64 `json:"departmentId" validate:"required,gt=0"`
	Year         *int  `json:"year,omitempty" validate:"omitempty,min=1,max=6"`
	Semester     *int  `json:"semester,omitempty" validate:"omitempty,min=1,max=2"`
}

// ResetMentorshipsResponse reports closed assignments
type ResetMentorshipsResponse struct {
	ClosedCount int `json:"closedCount"`
}

// FacultySummary is the public face of a mentor
type FacultySummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	EmployeeID   string `json:"employeeId"`
	DepartmentID int64  `json:"departmentId"`
	Email        string `json:"email"`
}

// MentorshipGroupResponse is a mentor's mentees and their grouped meetings for a term
type MentorshipGroupResponse struct {
	Faculty  FacultySummary        `json:"faculty"`
	Year     int                   `json:"year"`
	Semester int                   `json:"semester"`
	Mentees  []models.Student      `json:"mentees"`
	Meetings []domain.GroupMeeting `json:"meetings"`
	Stats    domain.MeetingStats   `json:"meetingStats"`
}

// MeetingSpec is one slot to schedule for every mentee
type MeetingSpec struct {
	Date        string `json:"date" validate:"required,meetingdate" example:"2025-07-01"`
	Time        string `json:"time" validate:"required,meetingtime" example:"09:00"`
	Description string `json:"description" validate:"max=500" example:"Monthly progress review"`
}

// ScheduleGroupMeetingsRequest is the body of POST /meetings/schedule-group.
// FacultyID defaults to the caller's own faculty profile.
type ScheduleGroupMeetingsRequest struct {
	FacultyID int64         `json:"facultyId,omitempty"`
	Year      int           `json:"year" validate:"required,min=1,max=6"`
	Semester  int           `json:"semester" validate:"required,min=1,max=2"`
	Meetings  []MeetingSpec `json:"meetings" validate:"required,min=1,dive"`
}

// ScheduleGroupMeetingsResponse reports created rows
type ScheduleGroupMeetingsResponse struct {
	Created      int `json:"created"`
	StudentCount int `json:"studentCount"`
	MeetingCount int `json:"meetingCount"`
}

// UpdateMeetingRequest is the body of POST /meetings/:id/update
type UpdateMeetingRequest struct {
	Status         domain.MeetingStatus   `json:"status" validate:"required" example:"COMPLETED"`
	StudentReviews []domain.StudentReview `json:"studentReviews" validate:"dive"`
	Description    *string                `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CompleteMeetingRequest is the body of POST /meetings/:id/complete
type CompleteMeetingRequest struct {
	StudentReviews []domain.StudentReview `json:"studentReviews" validate:"dive"`
	Description    *string                `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateMeetingResponse reports the group update outcome
type UpdateMeetingResponse struct {
	Message        string               `json:"message"`
	Status         domain.MeetingStatus `json:"status"`
	RowsUpdated    int                  `json:"rowsUpdated"`
	ReviewsUpdated int                  `json:"reviewsUpdated"`
}

// StudentMeetingResponse is one meeting as seen by the student
type StudentMeetingResponse struct {
	models.Meeting
	DisplayStatus domain.MeetingStatus `json:"displayStatus"`
	FacultyName   string               `json:"facultyName"`
}

// GenerateReportRequest is the body of POST /reports/mentorship
type GenerateReportRequest struct {
	FacultyID int64 `json:"facultyId,omitempty"`
	Year      int   `json:"year" validate:"required,min=1,max=6"`
	Semester  int   `json:"semester" validate:"required,min=1,max=2"`
}

// ReportResponse points at a stored report document
type ReportResponse struct {
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// DashboardStats holds the role-specific dashboard counters
type DashboardStats struct {
	Role               models.Role               `json:"role"`
	PendingRequests    int                       `json:"pendingRequests"`
	ApprovedRequests   int                       `json:"approvedRequests,omitempty"`
	RejectedRequests   int                       `json:"rejectedRequests,omitempty"`
	UpcomingMeetings   int                       `json:"upcomingMeetings"`
	CompletedMeetings  int                       `json:"completedMeetings,omitempty"`
	NextMeeting        *models.Meeting           `json:"nextMeeting,omitempty"`
	HasMentor          bool                      `json:"hasMentor,omitempty"`
	CurrentMentor      *models.MentorshipHistory `json:"currentMentor,omitempty"`
	ActiveMentees      int                       `json:"activeMentees,omitempty"`
	UnassignedStudents int                       `json:"unassignedStudents,omitempty"`
}
