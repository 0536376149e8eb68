package services

import (
	"context"
	"time"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/notify"
	"github.com/yigit/mentorhub/internal/pkg/validation"
)

// Services defined in this package:
// - AuthService: login and the current principal
// - RequestService: the student request ledger and its approval effects
// - MentorshipService: mentor assignment per term and department resets
// - MeetingService: group meeting scheduling and the meeting status machine
// - ReportService: rendered mentorship reports
// - DashboardService: role specific counters

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// validate runs struct validation and converts failures into a ValidationError.
func validate(s interface{}) error {
	if err := validation.Struct(s); err != nil {
		return apperrors.NewValidationError(validation.Describe(err))
	}
	return nil
}

func studentParticipant(s *models.Student) notify.Participant {
	return notify.Participant{
		UserID: s.UserID,
		Name:   s.Name,
		Email:  models.ContactEmail(s.CollegeEmail, s.PersonalEmail),
		Role:   string(models.RoleStudent),
	}
}

func facultyParticipant(f *models.Faculty) notify.Participant {
	return notify.Participant{
		UserID: f.UserID,
		Name:   f.Name,
		Email:  models.ContactEmail(f.CollegeEmail, f.PersonalEmail),
		Role:   string(models.RoleFaculty),
	}
}

// requireActiveMentorship returns the mentorship binding student and faculty.
// Zero year or semester matches any term.
func requireActiveMentorship(ctx context.Context, store repositories.Store, studentID, facultyID int64, year, semester int) (*models.Mentorship, error) {
	m, err := store.Mentorships().FindActiveBetween(ctx, studentID, facultyID, year, semester)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperrors.ErrNoActiveMentorship
	}
	return m, nil
}
