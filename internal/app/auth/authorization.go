package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

// Principal is the authenticated caller with the profile ids resolved.
type Principal struct {
	UserID int64
	Email  string
	Role   models.Role

	// StudentID is set for students, FacultyID for faculty and HODs.
	StudentID    int64
	FacultyID    int64
	DepartmentID int64

	// HODDepartmentID is non-zero while the caller holds an active HOD tenure.
	HODDepartmentID int64
}

// IsAdmin reports whether the caller is an administrator.
func (p *Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// IsStudent reports whether the caller acts as a student.
func (p *Principal) IsStudent() bool {
	return p.Role == models.RoleStudent && p.StudentID > 0
}

// IsActiveHODOf reports whether the caller currently heads the department.
func (p *Principal) IsActiveHODOf(departmentID int64) bool {
	return p.HODDepartmentID != 0 && p.HODDepartmentID == departmentID
}

// CanActOnRequest reports whether the caller may approve or reject a request
// assigned to assignedTo for a student of studentDepartmentID.
func (p *Principal) CanActOnRequest(assignedTo, studentDepartmentID int64) bool {
	if p.IsAdmin() {
		return true
	}
	if p.FacultyID != 0 && p.FacultyID == assignedTo {
		return true
	}
	return p.IsActiveHODOf(studentDepartmentID)
}

// CanManageFaculty reports whether the caller may act on behalf of a faculty
// member: the member themself, the head of their department, or an admin.
func (p *Principal) CanManageFaculty(faculty *models.Faculty) bool {
	if p.IsAdmin() {
		return true
	}
	if p.FacultyID != 0 && p.FacultyID == faculty.ID {
		return true
	}
	return p.IsActiveHODOf(faculty.DepartmentID)
}

// AuthorizationService resolves principals from token claims
type AuthorizationService struct {
	store repositories.Store
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(store repositories.Store) *AuthorizationService {
	return &AuthorizationService{store: store}
}

// Resolve loads the caller's account and role profile.
func (s *AuthorizationService) Resolve(ctx context.Context, userID int64) (*Principal, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in Resolve")
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	p := &Principal{UserID: user.ID, Email: user.Email, Role: user.Role}

	switch user.Role {
	case models.RoleStudent:
		student, err := s.store.Students().GetByUserID(ctx, user.ID)
		if err != nil {
			logger.Warn().Err(err).Int64("userID", userID).Msg("Student profile missing for student account")
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		p.StudentID = student.ID
		p.DepartmentID = student.DepartmentID

	case models.RoleFaculty, models.RoleHOD:
		faculty, err := s.store.Faculty().GetByUserID(ctx, user.ID)
		if err != nil {
			logger.Warn().Err(err).Int64("userID", userID).Msg("Faculty profile missing for faculty account")
			return nil, fmt.Errorf("failed to load faculty profile: %w", err)
		}
		p.FacultyID = faculty.ID
		p.DepartmentID = faculty.DepartmentID

		hod, err := s.store.HODs().FindActiveByFaculty(ctx, faculty.ID)
		if err != nil {
			return nil, err
		}
		if hod != nil {
			p.HODDepartmentID = hod.DepartmentID
		}
	}

	return p, nil
}
