package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/email"
	"github.com/yigit/mentorhub/internal/pkg/helpers"
	"github.com/yigit/mentorhub/internal/pkg/notify"
)

// RequestService defines the request ledger operations
type RequestService interface {
	Submit(ctx context.Context, p *auth.Principal, req *dto.SubmitRequestRequest) (*models.Request, error)
	Approve(ctx context.Context, p *auth.Principal, id int64, feedback string) (*models.Request, error)
	Reject(ctx context.Context, p *auth.Principal, id int64, feedback string) (*models.Request, error)
	Cancel(ctx context.Context, p *auth.Principal, id int64) (*models.Request, error)
	Get(ctx context.Context, p *auth.Principal, id int64) (*models.Request, error)
	ListMine(ctx context.Context, p *auth.Principal, filter models.RequestFilter) (*dto.RequestListResponse, error)
	ListAssigned(ctx context.Context, p *auth.Principal, filter models.RequestFilter) (*dto.RequestListResponse, error)
}

// requestServiceImpl implements RequestService
type requestServiceImpl struct {
	store    repositories.Store
	notifier notify.Notifier
	now      Clock
	logger   zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(store repositories.Store, notifier notify.Notifier, now Clock, logger zerolog.Logger) RequestService {
	return &requestServiceImpl{
		store:    store,
		notifier: notifier,
		now:      now,
		logger:   logger,
	}
}

// Submit records a new PENDING request for the calling student
func (s *requestServiceImpl) Submit(ctx context.Context, p *auth.Principal, req *dto.SubmitRequestRequest) (*models.Request, error) {
	if !p.IsStudent() {
		return nil, apperrors.NewForbiddenError("only students can submit requests")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	payload, err := domain.DecodePayload(req.Type, req.RequestData, req.TargetID)
	if err != nil {
		return nil, err
	}

	student, err := s.store.Students().GetByID(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}

	request := &models.Request{
		StudentID: student.ID,
		Type:      req.Type,
		Status:    domain.StatusPending,
		Remarks:   helpers.TrimmedPtr(req.Remarks),
	}

	if req.Type.IsDelete() {
		if err := s.checkDeleteTarget(ctx, student, req.Type, payload.TargetID); err != nil {
			return nil, err
		}
		request.TargetID = &payload.TargetID
	} else {
		data, err := normalizedPayload(payload)
		if err != nil {
			return nil, err
		}
		request.RequestData = data
	}

	assignee, err := s.resolveAssignee(ctx, student, payload)
	if err != nil {
		return nil, err
	}
	request.AssignedTo = assignee

	if err := s.store.Requests().Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestID", request.ID).
		Int64("studentID", student.ID).
		Str("type", string(request.Type)).
		Int64("assignedTo", request.AssignedTo).
		Msg("Request submitted")
	return request, nil
}

func normalizedPayload(p *domain.Payload) (json.RawMessage, error) {
	var v interface{}
	switch {
	case p.Internship != nil:
		v = p.Internship
	case p.Project != nil:
		v = p.Project
	case p.Meeting != nil:
		v = p.Meeting
	default:
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request data: %w", err)
	}
	return data, nil
}

// checkDeleteTarget verifies the record exists, belongs to the student and
// has no other pending delete request.
func (s *requestServiceImpl) checkDeleteTarget(ctx context.Context, student *models.Student, t domain.RequestType, targetID int64) error {
	var ownerID int64
	switch t {
	case domain.RequestDeleteInternship:
		in, err := s.store.Internships().GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		ownerID = in.StudentID
	case domain.RequestDeleteProject:
		pr, err := s.store.Projects().GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		ownerID = pr.StudentID
	}
	if ownerID != student.ID {
		return apperrors.NewForbiddenError("you can only request deletion of your own records")
	}

	pending, err := s.store.Requests().HasPendingForTarget(ctx, t, targetID)
	if err != nil {
		return err
	}
	if pending {
		return apperrors.NewConflictError("a pending delete request already exists for this record")
	}
	return nil
}

// resolveAssignee picks the faculty who must action the request: the
// requested faculty for meeting requests, otherwise the student's mentor
// with the department head as fallback.
func (s *requestServiceImpl) resolveAssignee(ctx context.Context, student *models.Student, payload *domain.Payload) (int64, error) {
	if payload.Meeting != nil {
		faculty, err := s.store.Faculty().GetByID(ctx, payload.Meeting.FacultyID)
		if err != nil {
			return 0, err
		}
		return faculty.ID, nil
	}

	mentorship, err := s.store.Mentorships().FindCurrent(ctx, student.ID)
	if err != nil {
		return 0, err
	}
	if mentorship != nil {
		return mentorship.FacultyID, nil
	}

	hod, err := s.store.HODs().FindActiveByDepartment(ctx, student.DepartmentID)
	if err != nil {
		return 0, err
	}
	if hod != nil {
		return hod.FacultyID, nil
	}

	return 0, apperrors.NewResourceNotFoundError("no mentor or head of department is available to review this request")
}

// loadForAction locks the request and checks the caller may decide it.
func (s *requestServiceImpl) loadForAction(ctx context.Context, tx repositories.Store, p *auth.Principal, id int64, to domain.RequestStatus) (*models.Request, *models.Student, error) {
	request, err := tx.Requests().GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	student, err := tx.Students().GetByID(ctx, request.StudentID)
	if err != nil {
		return nil, nil, err
	}
	if !p.CanActOnRequest(request.AssignedTo, student.DepartmentID) {
		return nil, nil, apperrors.NewForbiddenError("you are not allowed to action this request")
	}
	if !domain.CanTransition(request.Status, to) {
		return nil, nil, apperrors.ErrRequestNotPending
	}
	return request, student, nil
}

// Approve applies the request's effect and marks it APPROVED
func (s *requestServiceImpl) Approve(ctx context.Context, p *auth.Principal, id int64, feedback string) (*models.Request, error) {
	var (
		request *models.Request
		after   func()
	)

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var student *models.Student
		var err error
		request, student, err = s.loadForAction(ctx, tx, p, id, domain.StatusApproved)
		if err != nil {
			return err
		}

		payload, err := domain.DecodePayload(request.Type, request.RequestData, request.TargetID)
		if err != nil {
			return err
		}

		after, err = s.applyEffect(ctx, tx, request, student, payload)
		if err != nil {
			return err
		}

		return s.finish(ctx, tx, p, request, domain.StatusApproved, helpers.TrimmedPtr(feedback))
	})
	if err != nil {
		return nil, err
	}

	if after != nil {
		after()
	}
	s.logger.Info().Int64("requestID", id).Int64("actorID", p.UserID).Str("type", string(request.Type)).Msg("Request approved")
	return request, nil
}

// applyEffect performs the type specific write of an approval and returns
// work to run after commit.
func (s *requestServiceImpl) applyEffect(ctx context.Context, tx repositories.Store, request *models.Request, student *models.Student, payload *domain.Payload) (func(), error) {
	switch request.Type {
	case domain.RequestInternship:
		in := payload.Internship
		return nil, tx.Internships().Create(ctx, &models.Internship{
			StudentID:    student.ID,
			Semester:     in.Semester,
			Type:         strings.TrimSpace(in.Type),
			Organisation: strings.TrimSpace(in.Organisation),
			Stipend:      helpers.Deref(in.Stipend),
			Duration:     strings.TrimSpace(in.Duration),
			Location:     strings.TrimSpace(in.Location),
		})

	case domain.RequestProject:
		pr := payload.Project
		return nil, tx.Projects().Create(ctx, &models.Project{
			StudentID:    student.ID,
			Semester:     pr.Semester,
			Title:        strings.TrimSpace(pr.Title),
			Description:  strings.TrimSpace(pr.Description),
			Technologies: pr.Technologies,
			Mentor:       strings.TrimSpace(pr.Mentor),
		})

	case domain.RequestDeleteInternship:
		return nil, tx.Internships().Delete(ctx, payload.TargetID)

	case domain.RequestDeleteProject:
		return nil, tx.Projects().Delete(ctx, payload.TargetID)

	case domain.RequestMeeting:
		return s.createRequestedMeeting(ctx, tx, student, payload.Meeting)
	}
	return nil, apperrors.NewValidationError(fmt.Sprintf("unknown request type %q", request.Type))
}

func (s *requestServiceImpl) createRequestedMeeting(ctx context.Context, tx repositories.Store, student *models.Student, mp *domain.MeetingRequestPayload) (func(), error) {
	faculty, err := tx.Faculty().GetByID(ctx, mp.FacultyID)
	if err != nil {
		return nil, err
	}

	mentorship, err := requireActiveMentorship(ctx, tx, student.ID, faculty.ID, helpers.Deref(mp.Year), helpers.Deref(mp.Semester))
	if err != nil {
		return nil, err
	}

	meeting := &models.Meeting{
		MentorshipID: mentorship.ID,
		FacultyID:    faculty.ID,
		StudentID:    student.ID,
		Date:         mp.Date,
		Time:         mp.Time,
		Description:  mp.Description,
		Status:       domain.MeetingUpcoming,
	}
	if err := tx.Meetings().Create(ctx, meeting); err != nil {
		return nil, err
	}

	return func() {
		s.notifier.Notify(
			[]notify.Participant{studentParticipant(student), facultyParticipant(faculty)},
			notify.MeetingInfo{
				Event:         email.EventApproved,
				OrganizerName: faculty.Name,
				Date:          meeting.Date,
				Time:          meeting.Time,
				Description:   meeting.Description,
			},
		)
	}, nil
}

// finish moves the request into its terminal status and mirrors the write
// onto the in-memory copy.
func (s *requestServiceImpl) finish(ctx context.Context, tx repositories.Store, p *auth.Principal, request *models.Request, status domain.RequestStatus, feedback *string) error {
	at := s.now()
	if err := tx.Requests().Transition(ctx, request.ID, status, feedback, p.UserID, at); err != nil {
		return err
	}
	request.Status = status
	request.Feedback = feedback
	request.ActionedBy = &p.UserID
	request.ActionedAt = &at
	request.UpdatedAt = at
	return nil
}

// Reject marks a request REJECTED. Feedback is mandatory.
func (s *requestServiceImpl) Reject(ctx context.Context, p *auth.Principal, id int64, feedback string) (*models.Request, error) {
	trimmed := helpers.TrimmedPtr(feedback)
	if trimmed == nil {
		return nil, apperrors.NewValidationError("feedback is required when rejecting a request")
	}

	var request *models.Request
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		request, _, err = s.loadForAction(ctx, tx, p, id, domain.StatusRejected)
		if err != nil {
			return err
		}
		return s.finish(ctx, tx, p, request, domain.StatusRejected, trimmed)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Int64("actorID", p.UserID).Msg("Request rejected")
	return request, nil
}

// Cancel withdraws the caller's own PENDING request. The row is kept.
func (s *requestServiceImpl) Cancel(ctx context.Context, p *auth.Principal, id int64) (*models.Request, error) {
	var request *models.Request
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		request, err = tx.Requests().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsStudent() || request.StudentID != p.StudentID {
			return apperrors.NewForbiddenError("only the submitting student can cancel this request")
		}
		if !domain.CanTransition(request.Status, domain.StatusCancelled) {
			return apperrors.NewConflictError(fmt.Sprintf("request is already %s", strings.ToLower(string(request.Status))))
		}
		return s.finish(ctx, tx, p, request, domain.StatusCancelled, nil)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", id).Int64("studentID", p.StudentID).Msg("Request cancelled")
	return request, nil
}

// Get returns a request visible to the caller
func (s *requestServiceImpl) Get(ctx context.Context, p *auth.Principal, id int64) (*models.Request, error) {
	request, err := s.store.Requests().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsStudent() && request.StudentID == p.StudentID {
		return request, nil
	}

	student, err := s.store.Students().GetByID(ctx, request.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	if !p.CanActOnRequest(request.AssignedTo, student.DepartmentID) {
		return nil, apperrors.NewForbiddenError("you are not allowed to view this request")
	}
	return request, nil
}

// ListMine lists the calling student's requests
func (s *requestServiceImpl) ListMine(ctx context.Context, p *auth.Principal, filter models.RequestFilter) (*dto.RequestListResponse, error) {
	if !p.IsStudent() {
		return nil, apperrors.NewForbiddenError("only students have their own requests")
	}
	filter.StudentID = &p.StudentID
	filter.AssignedTo = nil
	return s.list(ctx, filter)
}

// ListAssigned lists requests awaiting the calling faculty member
func (s *requestServiceImpl) ListAssigned(ctx context.Context, p *auth.Principal, filter models.RequestFilter) (*dto.RequestListResponse, error) {
	switch {
	case p.IsAdmin():
	case p.FacultyID != 0:
		filter.AssignedTo = &p.FacultyID
	default:
		return nil, apperrors.NewForbiddenError("only faculty have assigned requests")
	}
	filter.StudentID = nil
	return s.list(ctx, filter)
}

func (s *requestServiceImpl) list(ctx context.Context, filter models.RequestFilter) (*dto.RequestListResponse, error) {
	if filter.Status != nil && !isRequestStatus(*filter.Status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", *filter.Status))
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown request type %q", *filter.Type))
	}

	requests, total, err := s.store.Requests().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}

	items := make([]models.Request, 0, len(requests))
	for _, r := range requests {
		items = append(items, *r)
	}
	return &dto.RequestListResponse{
		Requests:       items,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.Size),
	}, nil
}

func isRequestStatus(s domain.RequestStatus) bool {
	return s == domain.StatusPending || s.IsTerminal()
}
