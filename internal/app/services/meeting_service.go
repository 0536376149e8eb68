package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/email"
	"github.com/yigit/mentorhub/internal/pkg/notify"
)

// MeetingService defines group meeting operations
type MeetingService interface {
	ScheduleGroupMeetings(ctx context.Context, p *auth.Principal, req *dto.ScheduleGroupMeetingsRequest) (*dto.ScheduleGroupMeetingsResponse, error)
	UpdateMeeting(ctx context.Context, p *auth.Principal, meetingID int64, req *dto.UpdateMeetingRequest) (*dto.UpdateMeetingResponse, error)
	CompleteGroupMeetings(ctx context.Context, p *auth.Principal, meetingID int64, req *dto.CompleteMeetingRequest) (*dto.UpdateMeetingResponse, error)
	CancelGroupMeeting(ctx context.Context, p *auth.Principal, meetingID int64) (*dto.UpdateMeetingResponse, error)
	ListStudentMeetings(ctx context.Context, p *auth.Principal) ([]dto.StudentMeetingResponse, error)
}

// meetingServiceImpl implements MeetingService
type meetingServiceImpl struct {
	store    repositories.Store
	notifier notify.Notifier
	loc      *time.Location
	now      Clock
	logger   zerolog.Logger
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(store repositories.Store, notifier notify.Notifier, loc *time.Location, now Clock, logger zerolog.Logger) MeetingService {
	return &meetingServiceImpl{
		store:    store,
		notifier: notifier,
		loc:      loc,
		now:      now,
		logger:   logger,
	}
}

// organizerFor loads the faculty a group operation acts for and checks the
// caller may act on their behalf.
func organizerFor(ctx context.Context, store repositories.Store, p *auth.Principal, facultyID int64) (*models.Faculty, error) {
	if p.IsStudent() {
		return nil, apperrors.NewForbiddenError("students cannot manage group meetings")
	}
	if facultyID == 0 {
		facultyID = p.FacultyID
	}
	if facultyID == 0 {
		return nil, apperrors.NewValidationError("facultyId is required")
	}
	faculty, err := store.Faculty().GetByID(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if !p.CanManageFaculty(faculty) {
		return nil, apperrors.NewForbiddenError("you are not allowed to manage this mentor's meetings")
	}
	return faculty, nil
}

// ScheduleGroupMeetings creates one row per mentee per requested slot
func (s *meetingServiceImpl) ScheduleGroupMeetings(ctx context.Context, p *auth.Principal, req *dto.ScheduleGroupMeetingsRequest) (*dto.ScheduleGroupMeetingsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	specs := make([]dto.MeetingSpec, 0, len(req.Meetings))
	seen := make(map[domain.GroupKey]struct{}, len(req.Meetings))
	for _, m := range req.Meetings {
		m.Description = strings.TrimSpace(m.Description)
		key := domain.GroupKey{Date: m.Date, Time: m.Time, Description: m.Description}
		if _, dup := seen[key]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("meeting %s %s is listed more than once", m.Date, m.Time))
		}
		seen[key] = struct{}{}
		specs = append(specs, m)
	}

	faculty, err := organizerFor(ctx, s.store, p, req.FacultyID)
	if err != nil {
		return nil, err
	}

	var hodID *int64
	if p.FacultyID != faculty.ID && p.IsActiveHODOf(faculty.DepartmentID) {
		hod, err := s.store.HODs().FindActiveByDepartment(ctx, faculty.DepartmentID)
		if err != nil {
			return nil, err
		}
		if hod != nil {
			hodID = &hod.ID
		}
	}

	var (
		mentees []*models.Mentee
		created int64
	)
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		mentees, err = tx.Mentorships().ListActiveMentees(ctx, faculty.ID, req.Year, req.Semester)
		if err != nil {
			return err
		}
		if len(mentees) == 0 {
			return apperrors.NewResourceNotFoundError(fmt.Sprintf(
				"no active mentees for year %d semester %d", req.Year, req.Semester))
		}

		for _, spec := range specs {
			key := domain.GroupKey{Date: spec.Date, Time: spec.Time, Description: spec.Description}
			existing, err := tx.Meetings().ListRows(ctx, models.MeetingFilter{FacultyID: &faculty.ID, Key: &key}, true)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return apperrors.NewConflictError(fmt.Sprintf(
					"a meeting on %s at %s with this description already exists", spec.Date, spec.Time))
			}
		}

		rows := make([]*models.Meeting, 0, len(mentees)*len(specs))
		for _, spec := range specs {
			for _, mentee := range mentees {
				rows = append(rows, &models.Meeting{
					MentorshipID: mentee.MentorshipID,
					FacultyID:    faculty.ID,
					HODID:        hodID,
					StudentID:    mentee.Student.ID,
					Date:         spec.Date,
					Time:         spec.Time,
					Description:  spec.Description,
					Status:       domain.MeetingUpcoming,
				})
			}
		}

		created, err = tx.Meetings().CreateBatch(ctx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	participants := make([]notify.Participant, 0, len(mentees)+1)
	for _, m := range mentees {
		participants = append(participants, studentParticipant(&m.Student))
	}
	participants = append(participants, facultyParticipant(faculty))
	for _, spec := range specs {
		s.notifier.Notify(participants, notify.MeetingInfo{
			Event:         email.EventScheduled,
			OrganizerName: faculty.Name,
			Date:          spec.Date,
			Time:          spec.Time,
			Description:   spec.Description,
			HODIncluded:   hodID != nil,
		})
	}

	s.logger.Info().
		Int64("facultyID", faculty.ID).
		Int("mentees", len(mentees)).
		Int("slots", len(specs)).
		Int64("created", created).
		Msg("Group meetings scheduled")

	return &dto.ScheduleGroupMeetingsResponse{
		Created:      int(created),
		StudentCount: len(mentees),
		MeetingCount: len(specs),
	}, nil
}

// UpdateMeeting applies a status change to the whole group of the meeting row
func (s *meetingServiceImpl) UpdateMeeting(ctx context.Context, p *auth.Principal, meetingID int64, req *dto.UpdateMeetingRequest) (*dto.UpdateMeetingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown meeting status %q", req.Status))
	}
	return s.updateGroup(ctx, p, meetingID, req.Status, req.StudentReviews, req.Description)
}

// CompleteGroupMeetings marks the group COMPLETED, enforcing the completion gate
func (s *meetingServiceImpl) CompleteGroupMeetings(ctx context.Context, p *auth.Principal, meetingID int64, req *dto.CompleteMeetingRequest) (*dto.UpdateMeetingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.updateGroup(ctx, p, meetingID, domain.MeetingCompleted, req.StudentReviews, req.Description)
}

// CancelGroupMeeting cancels every row of the group
func (s *meetingServiceImpl) CancelGroupMeeting(ctx context.Context, p *auth.Principal, meetingID int64) (*dto.UpdateMeetingResponse, error) {
	return s.updateGroup(ctx, p, meetingID, domain.MeetingCancelled, nil, nil)
}

func (s *meetingServiceImpl) updateGroup(ctx context.Context, p *auth.Principal, meetingID int64, target domain.MeetingStatus, reviews []domain.StudentReview, description *string) (*dto.UpdateMeetingResponse, error) {
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		description = &trimmed
	}

	var (
		faculty *models.Faculty
		rows    []domain.MeetingRow
		from    domain.MeetingStatus
		resp    = &dto.UpdateMeetingResponse{Status: target}
	)

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		meeting, err := tx.Meetings().GetByID(ctx, meetingID)
		if err != nil {
			return err
		}
		faculty, err = organizerFor(ctx, tx, p, meeting.FacultyID)
		if err != nil {
			return err
		}

		key := meeting.Key()
		rows, err = tx.Meetings().ListRows(ctx, models.MeetingFilter{FacultyID: &faculty.ID, Key: &key}, true)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return apperrors.ErrMeetingNotFound
		}

		from = rows[0].Status
		if !domain.CanTransitionMeeting(from, target) {
			return apperrors.NewConflictError(fmt.Sprintf("a %s meeting cannot be moved to %s", from, target))
		}
		if target == domain.MeetingCompleted && from != domain.MeetingCompleted {
			passed := domain.IsPassed(key.Date, key.Time, s.now(), s.loc)
			if err := domain.CheckCompletion(passed, reviews); err != nil {
				return err
			}
		}

		if description != nil && *description != key.Description {
			renamed := domain.GroupKey{Date: key.Date, Time: key.Time, Description: *description}
			clash, err := tx.Meetings().ListRows(ctx, models.MeetingFilter{FacultyID: &faculty.ID, Key: &renamed}, true)
			if err != nil {
				return err
			}
			if len(clash) > 0 {
				return apperrors.ErrMeetingSlotTaken
			}
		}

		byRoll := make(map[int64]domain.MeetingRow, len(rows))
		for _, r := range rows {
			byRoll[r.RollNumber] = r
		}
		for _, rv := range reviews {
			if _, ok := byRoll[rv.RollNumber]; !ok {
				return apperrors.NewValidationError(fmt.Sprintf("roll number %d is not part of this meeting", rv.RollNumber))
			}
		}

		now := s.now()
		n, err := tx.Meetings().UpdateGroup(ctx, faculty.ID, key, target, description, now)
		if err != nil {
			return err
		}
		resp.RowsUpdated = int(n)

		for _, rv := range reviews {
			row := byRoll[rv.RollNumber]
			text := strings.TrimSpace(rv.Review)
			if text == "" {
				if rv.Attended == nil {
					continue
				}
				text = row.Review
			}
			if err := tx.Meetings().UpdateReview(ctx, row.ID, text, rv.Attended, now); err != nil {
				return err
			}
			resp.ReviewsUpdated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Message = updateMessage(target)
	if from != target {
		s.announceChange(ctx, faculty, rows, target, description)
	}

	s.logger.Info().
		Int64("meetingID", meetingID).
		Int64("facultyID", faculty.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Int("rows", resp.RowsUpdated).
		Int("reviews", resp.ReviewsUpdated).
		Msg("Meeting group updated")
	return resp, nil
}

func updateMessage(target domain.MeetingStatus) string {
	switch target {
	case domain.MeetingCompleted:
		return "Meetings completed successfully"
	case domain.MeetingCancelled:
		return "Meetings cancelled successfully"
	}
	return "Meetings updated successfully"
}

// announceChange notifies the group's students of a status change. Lookup
// failures only skip the affected recipient.
func (s *meetingServiceImpl) announceChange(ctx context.Context, faculty *models.Faculty, rows []domain.MeetingRow, target domain.MeetingStatus, description *string) {
	if target != domain.MeetingCancelled && target != domain.MeetingUpcoming {
		return
	}
	event := email.EventUpdated
	if target == domain.MeetingCancelled {
		event = email.EventCancelled
	}

	participants := make([]notify.Participant, 0, len(rows))
	for _, r := range rows {
		student, err := s.store.Students().GetByID(ctx, r.StudentID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("studentID", r.StudentID).Msg("Skipping notification recipient")
			continue
		}
		participants = append(participants, studentParticipant(student))
	}

	desc := rows[0].Description
	if description != nil {
		desc = *description
	}
	s.notifier.Notify(participants, notify.MeetingInfo{
		Event:         event,
		OrganizerName: faculty.Name,
		Date:          rows[0].Date,
		Time:          rows[0].Time,
		Description:   desc,
		HODIncluded:   rows[0].HODID != nil,
	})
}

// ListStudentMeetings returns the calling student's meetings with display status
func (s *meetingServiceImpl) ListStudentMeetings(ctx context.Context, p *auth.Principal) ([]dto.StudentMeetingResponse, error) {
	if !p.IsStudent() {
		return nil, apperrors.NewForbiddenError("only students have their own meetings")
	}

	meetings, err := s.store.Meetings().ListForStudent(ctx, p.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error listing meetings: %w", err)
	}

	now := s.now()
	out := make([]dto.StudentMeetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, dto.StudentMeetingResponse{
			Meeting:       m.Meeting,
			DisplayStatus: domain.DisplayStatus(m.Status, m.Date, m.Time, now, s.loc),
			FacultyName:   m.FacultyName,
		})
	}
	return out, nil
}
