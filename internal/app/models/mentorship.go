package models

import (
	"time"

	"github.com/yigit/mentorhub/internal/domain"
)

// Mentorship links one student to one faculty mentor for a term.
// Active while EndDate is nil.
type Mentorship struct {
	ID        int64      `json:"id" db:"id"`
	StudentID int64      `json:"studentId" db:"student_id"`
	FacultyID int64      `json:"facultyId" db:"faculty_id"`
	Year      int        `json:"year" db:"year" example:"2"`
	Semester  int        `json:"semester" db:"semester" example:"1"`
	StartDate time.Time  `json:"startDate" db:"start_date"`
	EndDate   *time.Time `json:"endDate,omitempty" db:"end_date"`
}

// IsActive reports whether the assignment is still open.
func (m *Mentorship) IsActive() bool {
	return m.EndDate == nil
}

// MentorshipHistory is a mentorship joined with the mentor's name.
type MentorshipHistory struct {
	Mentorship
	FacultyName       string `json:"facultyName"`
	FacultyEmployeeID string `json:"facultyEmployeeId"`
}

// Meeting is one per-student meeting row.
type Meeting struct {
	ID           int64                `json:"id" db:"id"`
	MentorshipID int64                `json:"mentorshipId" db:"mentorship_id"`
	FacultyID    int64                `json:"facultyId" db:"faculty_id"`
	HODID        *int64               `json:"hodId,omitempty" db:"hod_id"`
	StudentID    int64                `json:"studentId" db:"student_id"`
	Date         string               `json:"date" db:"meeting_date" example:"2025-06-01"`
	Time         string               `json:"time" db:"meeting_time" example:"10:00"`
	Description  string               `json:"description" db:"description"`
	Status       domain.MeetingStatus `json:"status" db:"status"`
	Review       string               `json:"review" db:"review"`
	Attended     bool                 `json:"attended" db:"attended"`
	CreatedAt    time.Time            `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time            `json:"updatedAt" db:"updated_at"`
}

// Key returns the grouping key of the row.
func (m *Meeting) Key() domain.GroupKey {
	return domain.GroupKey{Date: m.Date, Time: m.Time, Description: m.Description}
}

// MeetingFilter narrows meeting row listings.
type MeetingFilter struct {
	FacultyID *int64
	StudentID *int64
	Key       *domain.GroupKey
	Statuses  []domain.MeetingStatus
	FromDate  string

	// MentorshipIDs restricts rows to these assignments; empty means any
	MentorshipIDs []int64
}

// Internship is an approved internship record.
type Internship struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	Semester     int       `json:"semester" db:"semester"`
	Type         string    `json:"type" db:"type"`
	Organisation string    `json:"organisation" db:"organisation"`
	Stipend      int       `json:"stipend" db:"stipend"`
	Duration     string    `json:"duration" db:"duration"`
	Location     string    `json:"location" db:"location"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Project is an approved project record.
type Project struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	Semester     int       `json:"semester" db:"semester"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Technologies []string  `json:"technologies" db:"technologies"`
	Mentor       string    `json:"mentor" db:"mentor"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Mentee is a student together with the active mentorship that binds them
// to a mentor for the requested term.
type Mentee struct {
	MentorshipID int64 `json:"mentorshipId"`
	Student
}

// StudentMeeting is a meeting row joined with the mentor's name.
type StudentMeeting struct {
	Meeting
	FacultyName string `json:"facultyName"`
}
