package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/config"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

// MentorshipService defines mentor assignment operations
type MentorshipService interface {
	AssignMentor(ctx context.Context, p *auth.Principal, req *dto.AssignMentorRequest) (*dto.AssignMentorResponse, error)
	ResetDepartment(ctx context.Context, p *auth.Principal, req *dto.ResetMentorshipsRequest) (*dto.ResetMentorshipsResponse, error)
	GetUnassignedStudents(ctx context.Context, p *auth.Principal, departmentID int64, year, semester int) ([]models.Student, error)
	GetMentorshipGroup(ctx context.Context, p *auth.Principal, facultyID int64, year, semester int) (*dto.MentorshipGroupResponse, error)
	GetStudentMentors(ctx context.Context, p *auth.Principal) ([]models.MentorshipHistory, error)
}

// mentorshipServiceImpl implements MentorshipService
type mentorshipServiceImpl struct {
	store          repositories.Store
	reassignPolicy string
	loc            *time.Location
	now            Clock
	logger         zerolog.Logger
}

// NewMentorshipService creates a new MentorshipService
func NewMentorshipService(store repositories.Store, reassignPolicy string, loc *time.Location, now Clock, logger zerolog.Logger) MentorshipService {
	if reassignPolicy == "" {
		reassignPolicy = config.ReassignClose
	}
	return &mentorshipServiceImpl{
		store:          store,
		reassignPolicy: reassignPolicy,
		loc:            loc,
		now:            now,
		logger:         logger,
	}
}

// AssignMentor binds every listed student to the faculty member for the term.
// The whole batch is applied atomically.
func (s *mentorshipServiceImpl) AssignMentor(ctx context.Context, p *auth.Principal, req *dto.AssignMentorRequest) (*dto.AssignMentorResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	faculty, err := s.store.Faculty().GetByEmployeeID(ctx, req.FacultyEmployeeID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !p.IsActiveHODOf(faculty.DepartmentID) {
		return nil, apperrors.NewForbiddenError("only the head of the mentor's department can assign mentees")
	}

	rolls := uniqueRolls(req.StudentRollNumbers)
	resp := &dto.AssignMentorResponse{FacultyName: faculty.Name, Year: req.Year, Semester: req.Semester}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		students, err := tx.Students().GetByRollNumbers(ctx, rolls)
		if err != nil {
			return err
		}
		if missing := missingRolls(rolls, students); len(missing) > 0 {
			return apperrors.NewResourceNotFoundError("students not found for roll numbers: " + joinRolls(missing))
		}

		now := s.now()
		for _, student := range students {
			if !p.IsAdmin() && !p.IsActiveHODOf(student.DepartmentID) {
				return apperrors.NewForbiddenError(fmt.Sprintf("student %d is outside your department", student.RollNumber))
			}

			current, err := tx.Mentorships().FindActive(ctx, student.ID, req.Year, req.Semester)
			if err != nil {
				return err
			}
			if current != nil {
				if current.FacultyID == faculty.ID {
					resp.UnchangedCount++
					continue
				}
				if s.reassignPolicy == config.ReassignReject {
					return apperrors.NewConflictError(fmt.Sprintf(
						"student %d already has an active mentor for year %d semester %d", student.RollNumber, req.Year, req.Semester))
				}
				if err := tx.Mentorships().Close(ctx, current.ID, now); err != nil {
					return err
				}
				resp.ClosedCount++
			}

			if err := tx.Mentorships().Create(ctx, &models.Mentorship{
				StudentID: student.ID,
				FacultyID: faculty.ID,
				Year:      req.Year,
				Semester:  req.Semester,
				StartDate: now,
			}); err != nil {
				return err
			}
			resp.AssignedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("facultyID", faculty.ID).
		Int("year", req.Year).
		Int("semester", req.Semester).
		Int("assigned", resp.AssignedCount).
		Int("closed", resp.ClosedCount).
		Int("unchanged", resp.UnchangedCount).
		Msg("Mentees assigned")
	return resp, nil
}

func uniqueRolls(rolls []int64) []int64 {
	seen := make(map[int64]struct{}, len(rolls))
	out := make([]int64, 0, len(rolls))
	for _, r := range rolls {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func missingRolls(rolls []int64, students []*models.Student) []int64 {
	found := make(map[int64]struct{}, len(students))
	for _, s := range students {
		found[s.RollNumber] = struct{}{}
	}
	var missing []int64
	for _, r := range rolls {
		if _, ok := found[r]; !ok {
			missing = append(missing, r)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func joinRolls(rolls []int64) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.FormatInt(r, 10)
	}
	return strings.Join(parts, ", ")
}

// ResetDepartment ends every active mentorship in the department without replacements
func (s *mentorshipServiceImpl) ResetDepartment(ctx context.Context, p *auth.Principal, req *dto.ResetMentorshipsRequest) (*dto.ResetMentorshipsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !p.IsActiveHODOf(req.DepartmentID) {
		return nil, apperrors.NewForbiddenError("only the head of department can reset mentorships")
	}
	if _, err := s.store.Departments().GetByID(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	var closed int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		closed, err = tx.Mentorships().CloseByDepartment(ctx, req.DepartmentID, req.Year, req.Semester, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("departmentID", req.DepartmentID).Int64("closed", closed).Msg("Department mentorships reset")
	return &dto.ResetMentorshipsResponse{ClosedCount: int(closed)}, nil
}

// GetUnassignedStudents lists department students without a mentor for the term
func (s *mentorshipServiceImpl) GetUnassignedStudents(ctx context.Context, p *auth.Principal, departmentID int64, year, semester int) ([]models.Student, error) {
	if departmentID == 0 {
		departmentID = p.HODDepartmentID
	}
	if departmentID == 0 {
		return nil, apperrors.NewValidationError("departmentId is required")
	}
	if err := checkTerm(year, semester); err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !p.IsActiveHODOf(departmentID) {
		return nil, apperrors.NewForbiddenError("only the head of department can view unassigned students")
	}

	students, err := s.store.Students().ListUnassigned(ctx, departmentID, year, semester)
	if err != nil {
		return nil, fmt.Errorf("error listing unassigned students: %w", err)
	}
	return derefStudents(students), nil
}

func checkTerm(year, semester int) error {
	if year < 1 || year > 6 {
		return apperrors.NewValidationError("year must be between 1 and 6")
	}
	if semester < 1 || semester > 2 {
		return apperrors.NewValidationError("semester must be 1 or 2")
	}
	return nil
}

func derefStudents(in []*models.Student) []models.Student {
	out := make([]models.Student, 0, len(in))
	for _, s := range in {
		out = append(out, *s)
	}
	return out
}

// GetMentorshipGroup returns a mentor's mentees and grouped meetings for a term
func (s *mentorshipServiceImpl) GetMentorshipGroup(ctx context.Context, p *auth.Principal, facultyID int64, year, semester int) (*dto.MentorshipGroupResponse, error) {
	if facultyID == 0 {
		facultyID = p.FacultyID
	}
	if facultyID == 0 {
		return nil, apperrors.NewValidationError("facultyId is required")
	}
	if err := checkTerm(year, semester); err != nil {
		return nil, err
	}

	faculty, err := s.store.Faculty().GetByID(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if !p.CanManageFaculty(faculty) {
		return nil, apperrors.NewForbiddenError("you are not allowed to view this mentorship group")
	}

	mentees, err := s.store.Mentorships().ListActiveMentees(ctx, faculty.ID, year, semester)
	if err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(mentees))
	for _, m := range mentees {
		students = append(students, m.Student)
	}

	groups, err := facultyGroups(ctx, s.store, faculty.ID, mentorshipIDs(mentees), s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	return &dto.MentorshipGroupResponse{
		Faculty:  facultySummary(faculty),
		Year:     year,
		Semester: semester,
		Mentees:  students,
		Meetings: groups,
		Stats:    domain.Stats(groups),
	}, nil
}

func mentorshipIDs(mentees []*models.Mentee) []int64 {
	ids := make([]int64, 0, len(mentees))
	for _, m := range mentees {
		ids = append(ids, m.MentorshipID)
	}
	return ids
}

// facultyGroups loads the faculty's meeting rows recorded under the given
// assignments and returns them grouped, with display status applied and
// sorted for display. Meetings of other terms are excluded.
func facultyGroups(ctx context.Context, store repositories.Store, facultyID int64, mentorships []int64, now time.Time, loc *time.Location) ([]domain.GroupMeeting, error) {
	if len(mentorships) == 0 {
		return []domain.GroupMeeting{}, nil
	}
	rows, err := store.Meetings().ListRows(ctx, models.MeetingFilter{FacultyID: &facultyID, MentorshipIDs: mentorships}, false)
	if err != nil {
		return nil, err
	}

	groups := domain.GroupMeetings(rows)
	domain.ApplyDisplayStatus(groups, now, loc)
	domain.SortForDisplay(groups)
	return groups, nil
}

func facultySummary(f *models.Faculty) dto.FacultySummary {
	return dto.FacultySummary{
		ID:           f.ID,
		Name:         f.Name,
		EmployeeID:   f.EmployeeID,
		DepartmentID: f.DepartmentID,
		Email:        models.ContactEmail(f.CollegeEmail, f.PersonalEmail),
	}
}

// GetStudentMentors returns the calling student's mentorship history
func (s *mentorshipServiceImpl) GetStudentMentors(ctx context.Context, p *auth.Principal) ([]models.MentorshipHistory, error) {
	if !p.IsStudent() {
		return nil, apperrors.NewForbiddenError("only students have mentors")
	}
	history, err := s.store.Mentorships().ListHistory(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}
	out := make([]models.MentorshipHistory, 0, len(history))
	for _, h := range history {
		out = append(out, *h)
	}
	return out, nil
}
