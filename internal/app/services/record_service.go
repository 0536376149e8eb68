package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

// RecordService lists the internship and project records of a student
type RecordService interface {
	ListInternships(ctx context.Context, p *auth.Principal, studentID int64) ([]*models.Internship, error)
	ListProjects(ctx context.Context, p *auth.Principal, studentID int64) ([]*models.Project, error)
}

type recordServiceImpl struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewRecordService creates a new RecordService
func NewRecordService(store repositories.Store, logger zerolog.Logger) RecordService {
	return &recordServiceImpl{store: store, logger: logger}
}

// ListInternships returns a student's internships, newest semester first
func (s *recordServiceImpl) ListInternships(ctx context.Context, p *auth.Principal, studentID int64) ([]*models.Internship, error) {
	id, err := s.recordOwner(ctx, p, studentID)
	if err != nil {
		return nil, err
	}
	return s.store.Internships().ListByStudent(ctx, id)
}

// ListProjects returns a student's projects, newest semester first
func (s *recordServiceImpl) ListProjects(ctx context.Context, p *auth.Principal, studentID int64) ([]*models.Project, error) {
	id, err := s.recordOwner(ctx, p, studentID)
	if err != nil {
		return nil, err
	}
	return s.store.Projects().ListByStudent(ctx, id)
}

// recordOwner resolves whose records the caller may read.
// Students read their own; staff name a student they mentor or head.
func (s *recordServiceImpl) recordOwner(ctx context.Context, p *auth.Principal, studentID int64) (int64, error) {
	if p.IsStudent() {
		if studentID != 0 && studentID != p.StudentID {
			return 0, apperrors.NewForbiddenError("students can only view their own records")
		}
		return p.StudentID, nil
	}
	if studentID == 0 {
		return 0, apperrors.NewValidationError("studentId is required")
	}

	student, err := s.store.Students().GetByID(ctx, studentID)
	if err != nil {
		return 0, err
	}
	if p.IsAdmin() || p.IsActiveHODOf(student.DepartmentID) {
		return student.ID, nil
	}
	if p.FacultyID != 0 {
		m, err := s.store.Mentorships().FindActiveBetween(ctx, student.ID, p.FacultyID, 0, 0)
		if err != nil {
			return 0, err
		}
		if m != nil {
			return student.ID, nil
		}
	}

	s.logger.Warn().Int64("userID", p.UserID).Int64("studentID", student.ID).Msg("Record access outside scope")
	return 0, apperrors.NewForbiddenError("you do not mentor or head this student")
}
