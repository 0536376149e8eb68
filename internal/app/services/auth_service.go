package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	tokens "github.com/yigit/mentorhub/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, p *auth.Principal) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, p *auth.Principal, req *dto.ChangePasswordRequest) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	store      repositories.Store
	jwtService *tokens.JWTService
	now        Clock
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(store repositories.Store, jwtService *tokens.JWTService, now Clock, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		store:      store,
		jwtService: jwtService,
		now:        now,
		logger:     logger,
	}
}

// Login checks the credentials and issues an access token
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("email and password are required")
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// Password validation
	if !tokens.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		// Not fatal for the login itself
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	}

	p, err := auth.NewAuthorizationService(s.store).Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	profile, err := s.Me(ctx, p)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: *profile,
	}, nil
}

// Me describes the authenticated caller with their role profile
func (s *authServiceImpl) Me(ctx context.Context, p *auth.Principal) (*dto.UserResponse, error) {
	resp := &dto.UserResponse{
		ID:    p.UserID,
		Email: p.Email,
		Role:  string(p.Role),
	}

	switch {
	case p.StudentID != 0:
		student, err := s.store.Students().GetByID(ctx, p.StudentID)
		if err != nil {
			return nil, err
		}
		resp.Name = student.Name
		resp.ProfileID = &student.ID
		resp.DepartmentID = &student.DepartmentID
		resp.RollNumber = &student.RollNumber

	case p.FacultyID != 0:
		faculty, err := s.store.Faculty().GetByID(ctx, p.FacultyID)
		if err != nil {
			return nil, err
		}
		resp.Name = faculty.Name
		resp.ProfileID = &faculty.ID
		resp.DepartmentID = &faculty.DepartmentID
		resp.EmployeeID = faculty.EmployeeID
		if p.HODDepartmentID != 0 {
			resp.Role = string(models.RoleHOD)
		}
	}

	return resp, nil
}

// ChangePassword replaces the caller's password after checking the current one
func (s *authServiceImpl) ChangePassword(ctx context.Context, p *auth.Principal, req *dto.ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.store.Users().GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if !tokens.CheckPassword(user.Password, req.CurrentPassword) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Password change with wrong current password")
		return apperrors.NewValidationError("current password is incorrect")
	}

	hash, err := tokens.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.store.Users().UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password changed")
	return nil
}
