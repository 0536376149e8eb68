package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/domain"
)

// DashboardService computes the counters shown on each role's landing page
type DashboardService interface {
	GetStats(ctx context.Context, p *auth.Principal, year, semester int) (*dto.DashboardStats, error)
}

type dashboardServiceImpl struct {
	store  repositories.Store
	loc    *time.Location
	now    Clock
	logger zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store repositories.Store, loc *time.Location, now Clock, logger zerolog.Logger) DashboardService {
	return &dashboardServiceImpl{store: store, loc: loc, now: now, logger: logger}
}

// GetStats returns role-specific counters. Year and semester are only used
// for the head of department's unassigned count and may be zero.
func (s *dashboardServiceImpl) GetStats(ctx context.Context, p *auth.Principal, year, semester int) (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{Role: p.Role}

	switch {
	case p.IsStudent():
		if err := s.studentStats(ctx, p, stats); err != nil {
			return nil, err
		}
	case p.FacultyID != 0:
		if err := s.facultyStats(ctx, p, stats, year, semester); err != nil {
			return nil, err
		}
	default:
		counts, err := s.store.Requests().CountByStatus(ctx, models.RequestFilter{})
		if err != nil {
			return nil, err
		}
		applyRequestCounts(stats, counts)
	}

	return stats, nil
}

func applyRequestCounts(stats *dto.DashboardStats, counts map[domain.RequestStatus]int) {
	stats.PendingRequests = counts[domain.StatusPending]
	stats.ApprovedRequests = counts[domain.StatusApproved]
	stats.RejectedRequests = counts[domain.StatusRejected]
}

func (s *dashboardServiceImpl) studentStats(ctx context.Context, p *auth.Principal, stats *dto.DashboardStats) error {
	counts, err := s.store.Requests().CountByStatus(ctx, models.RequestFilter{StudentID: &p.StudentID})
	if err != nil {
		return err
	}
	applyRequestCounts(stats, counts)

	meetings, err := s.store.Meetings().ListForStudent(ctx, p.StudentID)
	if err != nil {
		return err
	}
	now := s.now()
	for _, m := range meetings {
		switch domain.DisplayStatus(m.Status, m.Date, m.Time, now, s.loc) {
		case domain.MeetingUpcoming:
			stats.UpcomingMeetings++
			if stats.NextMeeting == nil {
				next := m.Meeting
				stats.NextMeeting = &next
			}
		case domain.MeetingCompleted:
			stats.CompletedMeetings++
		}
	}

	current, err := s.store.Mentorships().FindCurrent(ctx, p.StudentID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}
	stats.HasMentor = true

	history, err := s.store.Mentorships().ListHistory(ctx, p.StudentID)
	if err != nil {
		return err
	}
	for _, h := range history {
		if h.ID == current.ID {
			stats.CurrentMentor = h
			break
		}
	}
	return nil
}

func (s *dashboardServiceImpl) facultyStats(ctx context.Context, p *auth.Principal, stats *dto.DashboardStats, year, semester int) error {
	counts, err := s.store.Requests().CountByStatus(ctx, models.RequestFilter{AssignedTo: &p.FacultyID})
	if err != nil {
		return err
	}
	applyRequestCounts(stats, counts)

	stats.ActiveMentees, err = s.store.Mentorships().CountActiveMentees(ctx, p.FacultyID)
	if err != nil {
		return err
	}

	rows, err := s.store.Meetings().ListRows(ctx, models.MeetingFilter{FacultyID: &p.FacultyID}, false)
	if err != nil {
		return err
	}
	groups := domain.GroupMeetings(rows)
	domain.ApplyDisplayStatus(groups, s.now(), s.loc)
	meetingStats := domain.Stats(groups)
	stats.UpcomingMeetings = meetingStats.Upcoming
	stats.CompletedMeetings = meetingStats.Completed

	if p.HODDepartmentID != 0 && year > 0 && semester > 0 {
		unassigned, err := s.store.Students().ListUnassigned(ctx, p.HODDepartmentID, year, semester)
		if err != nil {
			return err
		}
		stats.UnassignedStudents = len(unassigned)
	}
	return nil
}
