package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/notify"
)

// fakeState holds every table of the in-memory store.
type fakeState struct {
	nextID      int64
	users       map[int64]models.User
	departments map[int64]models.Department
	students    map[int64]models.Student
	faculty     map[int64]models.Faculty
	hods        map[int64]models.HOD
	requests    map[int64]models.Request
	mentorships map[int64]models.Mentorship
	meetings    map[int64]models.Meeting
	internships map[int64]models.Internship
	projects    map[int64]models.Project
}

func newFakeState() *fakeState {
	return &fakeState{
		users:       map[int64]models.User{},
		departments: map[int64]models.Department{},
		students:    map[int64]models.Student{},
		faculty:     map[int64]models.Faculty{},
		hods:        map[int64]models.HOD{},
		requests:    map[int64]models.Request{},
		mentorships: map[int64]models.Mentorship{},
		meetings:    map[int64]models.Meeting{},
		internships: map[int64]models.Internship{},
		projects:    map[int64]models.Project{},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *fakeState) clone() *fakeState {
	return &fakeState{
		nextID:      s.nextID,
		users:       cloneMap(s.users),
		departments: cloneMap(s.departments),
		students:    cloneMap(s.students),
		faculty:     cloneMap(s.faculty),
		hods:        cloneMap(s.hods),
		requests:    cloneMap(s.requests),
		mentorships: cloneMap(s.mentorships),
		meetings:    cloneMap(s.meetings),
		internships: cloneMap(s.internships),
		projects:    cloneMap(s.projects),
	}
}

func (s *fakeState) id() int64 {
	s.nextID++
	return s.nextID
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// fakeStore implements repositories.Store in memory. WithTx snapshots the
// state and restores it when fn fails. Values are stored by copy so callers
// never alias stored rows.
type fakeStore struct {
	st    *fakeState
	fail  map[string]error
	inTx  bool
	calls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{st: newFakeState(), fail: map[string]error{}, calls: map[string]int{}}
}

var _ repositories.Store = (*fakeStore)(nil)

func (f *fakeStore) hit(op string) error {
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeStore) Users() repositories.UserStore             { return fakeUsers{f} }
func (f *fakeStore) Departments() repositories.DepartmentStore { return fakeDepartments{f} }
func (f *fakeStore) Students() repositories.StudentStore       { return fakeStudents{f} }
func (f *fakeStore) Faculty() repositories.FacultyStore        { return fakeFaculty{f} }
func (f *fakeStore) HODs() repositories.HODStore               { return fakeHODs{f} }
func (f *fakeStore) Requests() repositories.RequestStore       { return fakeRequests{f} }
func (f *fakeStore) Mentorships() repositories.MentorshipStore { return fakeMentorships{f} }
func (f *fakeStore) Meetings() repositories.MeetingStore       { return fakeMeetings{f} }
func (f *fakeStore) Internships() repositories.InternshipStore { return fakeInternships{f} }
func (f *fakeStore) Projects() repositories.ProjectStore       { return fakeProjects{f} }

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	if f.inTx {
		return fn(ctx, f)
	}
	snap := f.st.clone()
	f.inTx = true
	err := fn(ctx, f)
	f.inTx = false
	if err != nil {
		f.st = snap
	}
	return err
}

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) Create(ctx context.Context, u *models.User) error {
	for _, existing := range r.f.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.NewConflictError("email already exists")
		}
	}
	u.ID = r.f.st.id()
	r.f.st.users[u.ID] = *u
	return nil
}

func (r fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.f.st.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.f.st.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r fakeUsers) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	u, ok := r.f.st.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.LastLoginAt = &at
	r.f.st.users[id] = u
	return nil
}

func (r fakeUsers) UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) error {
	if err := r.f.hit("Users.UpdatePassword"); err != nil {
		return err
	}
	u, ok := r.f.st.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = hash
	u.UpdatedAt = at
	r.f.st.users[id] = u
	return nil
}

type fakeDepartments struct{ f *fakeStore }

func (r fakeDepartments) Create(ctx context.Context, d *models.Department) error {
	d.ID = r.f.st.id()
	r.f.st.departments[d.ID] = *d
	return nil
}

func (r fakeDepartments) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	d, ok := r.f.st.departments[id]
	if !ok {
		return nil, apperrors.ErrDepartmentNotFound
	}
	return &d, nil
}

func (r fakeDepartments) GetByCode(ctx context.Context, code string) (*models.Department, error) {
	for _, d := range r.f.st.departments {
		if strings.EqualFold(d.Code, code) {
			return &d, nil
		}
	}
	return nil, apperrors.ErrDepartmentNotFound
}

type fakeStudents struct{ f *fakeStore }

func (r fakeStudents) Create(ctx context.Context, s *models.Student) error {
	s.ID = r.f.st.id()
	r.f.st.students[s.ID] = *s
	return nil
}

func (r fakeStudents) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := r.f.st.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return &s, nil
}

func (r fakeStudents) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	for _, s := range r.f.st.students {
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r fakeStudents) GetByRollNumbers(ctx context.Context, rolls []int64) ([]*models.Student, error) {
	want := make(map[int64]bool, len(rolls))
	for _, roll := range rolls {
		want[roll] = true
	}
	var out []*models.Student
	for _, id := range sortedKeys(r.f.st.students) {
		s := r.f.st.students[id]
		if want[s.RollNumber] {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r fakeStudents) ListUnassigned(ctx context.Context, departmentID int64, year, semester int) ([]*models.Student, error) {
	assigned := map[int64]bool{}
	for _, m := range r.f.st.mentorships {
		if m.EndDate == nil && m.Year == year && m.Semester == semester {
			assigned[m.StudentID] = true
		}
	}
	var out []*models.Student
	for _, id := range sortedKeys(r.f.st.students) {
		s := r.f.st.students[id]
		if s.DepartmentID == departmentID && !assigned[s.ID] {
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNumber < out[j].RollNumber })
	return out, nil
}

type fakeFaculty struct{ f *fakeStore }

func (r fakeFaculty) Create(ctx context.Context, fa *models.Faculty) error {
	fa.ID = r.f.st.id()
	r.f.st.faculty[fa.ID] = *fa
	return nil
}

func (r fakeFaculty) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	fa, ok := r.f.st.faculty[id]
	if !ok {
		return nil, apperrors.ErrFacultyNotFound
	}
	return &fa, nil
}

func (r fakeFaculty) GetByUserID(ctx context.Context, userID int64) (*models.Faculty, error) {
	for _, fa := range r.f.st.faculty {
		if fa.UserID == userID {
			return &fa, nil
		}
	}
	return nil, apperrors.ErrFacultyNotFound
}

func (r fakeFaculty) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Faculty, error) {
	for _, fa := range r.f.st.faculty {
		if fa.EmployeeID == employeeID {
			return &fa, nil
		}
	}
	return nil, apperrors.ErrFacultyNotFound
}

type fakeHODs struct{ f *fakeStore }

func (r fakeHODs) Create(ctx context.Context, h *models.HOD) error {
	h.ID = r.f.st.id()
	r.f.st.hods[h.ID] = *h
	return nil
}

func (r fakeHODs) FindActiveByDepartment(ctx context.Context, departmentID int64) (*models.HOD, error) {
	for _, h := range r.f.st.hods {
		if h.DepartmentID == departmentID && h.EndDate == nil {
			return &h, nil
		}
	}
	return nil, nil
}

func (r fakeHODs) FindActiveByFaculty(ctx context.Context, facultyID int64) (*models.HOD, error) {
	for _, h := range r.f.st.hods {
		if h.FacultyID == facultyID && h.EndDate == nil {
			return &h, nil
		}
	}
	return nil, nil
}

type fakeRequests struct{ f *fakeStore }

func (r fakeRequests) Create(ctx context.Context, req *models.Request) error {
	if err := r.f.hit("Requests.Create"); err != nil {
		return err
	}
	req.ID = r.f.st.id()
	req.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	req.UpdatedAt = req.CreatedAt
	r.f.st.requests[req.ID] = *req
	return nil
}

func (r fakeRequests) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	req, ok := r.f.st.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	return &req, nil
}

func (r fakeRequests) GetForUpdate(ctx context.Context, id int64) (*models.Request, error) {
	return r.GetByID(ctx, id)
}

func (r fakeRequests) Transition(ctx context.Context, id int64, status domain.RequestStatus, feedback *string, actionedBy int64, at time.Time) error {
	req, ok := r.f.st.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	if req.Status != domain.StatusPending {
		return apperrors.ErrRequestNotPending
	}
	req.Status = status
	req.Feedback = feedback
	req.ActionedBy = &actionedBy
	req.ActionedAt = &at
	req.UpdatedAt = at
	r.f.st.requests[id] = req
	return nil
}

func requestMatches(req models.Request, filter models.RequestFilter) bool {
	if filter.StudentID != nil && req.StudentID != *filter.StudentID {
		return false
	}
	if filter.AssignedTo != nil && req.AssignedTo != *filter.AssignedTo {
		return false
	}
	if filter.Status != nil && req.Status != *filter.Status {
		return false
	}
	if filter.Type != nil && req.Type != *filter.Type {
		return false
	}
	return true
}

func (r fakeRequests) List(ctx context.Context, filter models.RequestFilter) ([]*models.Request, int64, error) {
	var out []*models.Request
	keys := sortedKeys(r.f.st.requests)
	for i := len(keys) - 1; i >= 0; i-- {
		req := r.f.st.requests[keys[i]]
		if requestMatches(req, filter) {
			out = append(out, &req)
		}
	}
	return out, int64(len(out)), nil
}

func (r fakeRequests) HasPendingForTarget(ctx context.Context, t domain.RequestType, targetID int64) (bool, error) {
	for _, req := range r.f.st.requests {
		if req.Type == t && req.Status == domain.StatusPending && req.TargetID != nil && *req.TargetID == targetID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeRequests) CountByStatus(ctx context.Context, filter models.RequestFilter) (map[domain.RequestStatus]int, error) {
	out := map[domain.RequestStatus]int{}
	for _, req := range r.f.st.requests {
		if requestMatches(req, filter) {
			out[req.Status]++
		}
	}
	return out, nil
}

type fakeMentorships struct{ f *fakeStore }

func (r fakeMentorships) Create(ctx context.Context, m *models.Mentorship) error {
	if err := r.f.hit("Mentorships.Create"); err != nil {
		return err
	}
	for _, existing := range r.f.st.mentorships {
		if existing.EndDate == nil && existing.StudentID == m.StudentID &&
			existing.Year == m.Year && existing.Semester == m.Semester {
			return apperrors.NewConflictError("student already has an active mentor for this term")
		}
	}
	m.ID = r.f.st.id()
	r.f.st.mentorships[m.ID] = *m
	return nil
}

func (r fakeMentorships) find(match func(models.Mentorship) bool) *models.Mentorship {
	var best *models.Mentorship
	for _, id := range sortedKeys(r.f.st.mentorships) {
		m := r.f.st.mentorships[id]
		if m.EndDate != nil || !match(m) {
			continue
		}
		if best == nil || m.Year > best.Year || (m.Year == best.Year && m.Semester > best.Semester) {
			found := m
			best = &found
		}
	}
	return best
}

func (r fakeMentorships) FindActive(ctx context.Context, studentID int64, year, semester int) (*models.Mentorship, error) {
	return r.find(func(m models.Mentorship) bool {
		return m.StudentID == studentID && m.Year == year && m.Semester == semester
	}), nil
}

func (r fakeMentorships) FindActiveBetween(ctx context.Context, studentID, facultyID int64, year, semester int) (*models.Mentorship, error) {
	return r.find(func(m models.Mentorship) bool {
		return m.StudentID == studentID && m.FacultyID == facultyID &&
			(year == 0 || m.Year == year) && (semester == 0 || m.Semester == semester)
	}), nil
}

func (r fakeMentorships) FindCurrent(ctx context.Context, studentID int64) (*models.Mentorship, error) {
	return r.find(func(m models.Mentorship) bool { return m.StudentID == studentID }), nil
}

func (r fakeMentorships) Close(ctx context.Context, id int64, at time.Time) error {
	m, ok := r.f.st.mentorships[id]
	if !ok || m.EndDate != nil {
		return apperrors.NewResourceNotFoundError("mentorship not found")
	}
	m.EndDate = &at
	r.f.st.mentorships[id] = m
	return nil
}

func (r fakeMentorships) CloseByDepartment(ctx context.Context, departmentID int64, year, semester *int, at time.Time) (int64, error) {
	var n int64
	for id, m := range r.f.st.mentorships {
		if m.EndDate != nil {
			continue
		}
		if r.f.st.students[m.StudentID].DepartmentID != departmentID {
			continue
		}
		if (year != nil && m.Year != *year) || (semester != nil && m.Semester != *semester) {
			continue
		}
		m.EndDate = &at
		r.f.st.mentorships[id] = m
		n++
	}
	return n, nil
}

func (r fakeMentorships) ListActiveMentees(ctx context.Context, facultyID int64, year, semester int) ([]*models.Mentee, error) {
	var out []*models.Mentee
	for _, m := range r.f.st.mentorships {
		if m.EndDate == nil && m.FacultyID == facultyID && m.Year == year && m.Semester == semester {
			out = append(out, &models.Mentee{MentorshipID: m.ID, Student: r.f.st.students[m.StudentID]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNumber < out[j].RollNumber })
	return out, nil
}

func (r fakeMentorships) ListHistory(ctx context.Context, studentID int64) ([]*models.MentorshipHistory, error) {
	var out []*models.MentorshipHistory
	for _, id := range sortedKeys(r.f.st.mentorships) {
		m := r.f.st.mentorships[id]
		if m.StudentID != studentID {
			continue
		}
		fa := r.f.st.faculty[m.FacultyID]
		out = append(out, &models.MentorshipHistory{Mentorship: m, FacultyName: fa.Name, FacultyEmployeeID: fa.EmployeeID})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Semester > out[j].Semester
	})
	return out, nil
}

func (r fakeMentorships) CountActiveMentees(ctx context.Context, facultyID int64) (int, error) {
	seen := map[int64]bool{}
	for _, m := range r.f.st.mentorships {
		if m.EndDate == nil && m.FacultyID == facultyID {
			seen[m.StudentID] = true
		}
	}
	return len(seen), nil
}

type fakeMeetings struct{ f *fakeStore }

func (r fakeMeetings) Create(ctx context.Context, m *models.Meeting) error {
	if err := r.f.hit("Meetings.Create"); err != nil {
		return err
	}
	m.ID = r.f.st.id()
	r.f.st.meetings[m.ID] = *m
	return nil
}

func (r fakeMeetings) CreateBatch(ctx context.Context, meetings []*models.Meeting) (int64, error) {
	if err := r.f.hit("Meetings.CreateBatch"); err != nil {
		return 0, err
	}
	for _, m := range meetings {
		m.ID = r.f.st.id()
		r.f.st.meetings[m.ID] = *m
	}
	return int64(len(meetings)), nil
}

func (r fakeMeetings) GetByID(ctx context.Context, id int64) (*models.Meeting, error) {
	m, ok := r.f.st.meetings[id]
	if !ok {
		return nil, apperrors.ErrMeetingNotFound
	}
	return &m, nil
}

func (r fakeMeetings) ListRows(ctx context.Context, filter models.MeetingFilter, lock bool) ([]domain.MeetingRow, error) {
	var out []domain.MeetingRow
	for _, id := range sortedKeys(r.f.st.meetings) {
		m := r.f.st.meetings[id]
		if filter.FacultyID != nil && m.FacultyID != *filter.FacultyID {
			continue
		}
		if filter.StudentID != nil && m.StudentID != *filter.StudentID {
			continue
		}
		if filter.Key != nil && m.Key() != *filter.Key {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, m.Status) {
			continue
		}
		if filter.FromDate != "" && m.Date < filter.FromDate {
			continue
		}
		if len(filter.MentorshipIDs) > 0 && !containsID(filter.MentorshipIDs, m.MentorshipID) {
			continue
		}
		s := r.f.st.students[m.StudentID]
		out = append(out, domain.MeetingRow{
			ID:          m.ID,
			FacultyID:   m.FacultyID,
			HODID:       m.HODID,
			StudentID:   m.StudentID,
			StudentName: s.Name,
			RollNumber:  s.RollNumber,
			Date:        m.Date,
			Time:        m.Time,
			Description: m.Description,
			Status:      m.Status,
			Review:      m.Review,
			Attended:    m.Attended,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

func containsID(list []int64, id int64) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func containsStatus(list []domain.MeetingStatus, s domain.MeetingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (r fakeMeetings) ListForStudent(ctx context.Context, studentID int64) ([]*models.StudentMeeting, error) {
	var out []*models.StudentMeeting
	for _, id := range sortedKeys(r.f.st.meetings) {
		m := r.f.st.meetings[id]
		if m.StudentID == studentID {
			out = append(out, &models.StudentMeeting{Meeting: m, FacultyName: r.f.st.faculty[m.FacultyID].Name})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r fakeMeetings) UpdateGroup(ctx context.Context, facultyID int64, key domain.GroupKey, status domain.MeetingStatus, description *string, at time.Time) (int64, error) {
	if err := r.f.hit("Meetings.UpdateGroup"); err != nil {
		return 0, err
	}
	var n int64
	for id, m := range r.f.st.meetings {
		if m.FacultyID != facultyID || m.Key() != key {
			continue
		}
		m.Status = status
		if description != nil {
			m.Description = *description
		}
		m.UpdatedAt = at
		r.f.st.meetings[id] = m
		n++
	}
	return n, nil
}

func (r fakeMeetings) UpdateReview(ctx context.Context, meetingID int64, review string, attended *bool, at time.Time) error {
	m, ok := r.f.st.meetings[meetingID]
	if !ok {
		return apperrors.ErrMeetingNotFound
	}
	m.Review = review
	if attended != nil {
		m.Attended = *attended
	}
	m.UpdatedAt = at
	r.f.st.meetings[meetingID] = m
	return nil
}

type fakeInternships struct{ f *fakeStore }

func (r fakeInternships) Create(ctx context.Context, in *models.Internship) error {
	if err := r.f.hit("Internships.Create"); err != nil {
		return err
	}
	in.ID = r.f.st.id()
	r.f.st.internships[in.ID] = *in
	return nil
}

func (r fakeInternships) GetByID(ctx context.Context, id int64) (*models.Internship, error) {
	in, ok := r.f.st.internships[id]
	if !ok {
		return nil, apperrors.ErrInternshipNotFound
	}
	return &in, nil
}

func (r fakeInternships) ListByStudent(ctx context.Context, studentID int64) ([]*models.Internship, error) {
	out := make([]*models.Internship, 0)
	for _, id := range sortedKeys(r.f.st.internships) {
		in := r.f.st.internships[id]
		if in.StudentID == studentID {
			out = append(out, &in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Semester > out[j].Semester })
	return out, nil
}

func (r fakeInternships) Delete(ctx context.Context, id int64) error {
	if _, ok := r.f.st.internships[id]; !ok {
		return apperrors.ErrInternshipNotFound
	}
	delete(r.f.st.internships, id)
	return nil
}

type fakeProjects struct{ f *fakeStore }

func (r fakeProjects) Create(ctx context.Context, p *models.Project) error {
	p.ID = r.f.st.id()
	r.f.st.projects[p.ID] = *p
	return nil
}

func (r fakeProjects) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	p, ok := r.f.st.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	return &p, nil
}

func (r fakeProjects) ListByStudent(ctx context.Context, studentID int64) ([]*models.Project, error) {
	out := make([]*models.Project, 0)
	for _, id := range sortedKeys(r.f.st.projects) {
		p := r.f.st.projects[id]
		if p.StudentID == studentID {
			out = append(out, &p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Semester > out[j].Semester })
	return out, nil
}

func (r fakeProjects) Delete(ctx context.Context, id int64) error {
	if _, ok := r.f.st.projects[id]; !ok {
		return apperrors.ErrProjectNotFound
	}
	delete(r.f.st.projects, id)
	return nil
}

// recordingNotifier captures notifications instead of sending them.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

type notifyCall struct {
	participants []notify.Participant
	info         notify.MeetingInfo
}

func (n *recordingNotifier) Notify(participants []notify.Participant, info notify.MeetingInfo) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{participants: participants, info: info})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// fixture is a small department with a mentor, a second faculty member, a
// head of department, five students and one student of another department.
type fixture struct {
	store    *fakeStore
	notifier *recordingNotifier

	cse, ece    models.Department
	mentor      models.Faculty
	other       models.Faculty
	head        models.Faculty
	eceHead     models.Faculty
	students    []models.Student
	outsider    models.Student
	adminUserID int64
}

var fixedNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newFixture() *fixture {
	ctx := context.Background()
	st := newFakeStore()
	fx := &fixture{store: st, notifier: &recordingNotifier{}}

	fx.cse = models.Department{Name: "Computer Science", Code: "CSE"}
	fx.ece = models.Department{Name: "Electronics", Code: "ECE"}
	_ = st.Departments().Create(ctx, &fx.cse)
	_ = st.Departments().Create(ctx, &fx.ece)

	newFaculty := func(email, empID, name string, dept int64, role models.Role) models.Faculty {
		u := models.User{Email: email, Role: role, IsActive: true}
		_ = st.Users().Create(ctx, &u)
		f := models.Faculty{UserID: u.ID, EmployeeID: empID, Name: name, DepartmentID: dept, CollegeEmail: email}
		_ = st.Faculty().Create(ctx, &f)
		return f
	}
	fx.mentor = newFaculty("mentor@college.edu", "FAC-1", "Dr. Mentor", fx.cse.ID, models.RoleFaculty)
	fx.other = newFaculty("other@college.edu", "FAC-2", "Dr. Other", fx.cse.ID, models.RoleFaculty)
	fx.head = newFaculty("hod@college.edu", "FAC-3", "Dr. Head", fx.cse.ID, models.RoleHOD)
	fx.eceHead = newFaculty("ecehod@college.edu", "FAC-9", "Dr. Ece", fx.ece.ID, models.RoleHOD)
	_ = st.HODs().Create(ctx, &models.HOD{FacultyID: fx.head.ID, DepartmentID: fx.cse.ID, StartDate: fixedNow})
	_ = st.HODs().Create(ctx, &models.HOD{FacultyID: fx.eceHead.ID, DepartmentID: fx.ece.ID, StartDate: fixedNow})

	newStudent := func(roll int64, dept int64) models.Student {
		email := fmt.Sprintf("s%d@college.edu", roll)
		u := models.User{Email: email, Role: models.RoleStudent, IsActive: true}
		_ = st.Users().Create(ctx, &u)
		s := models.Student{UserID: u.ID, RollNumber: roll, Name: fmt.Sprintf("Student %d", roll), DepartmentID: dept, CollegeEmail: email, CurrentYear: 2}
		_ = st.Students().Create(ctx, &s)
		return s
	}
	for roll := int64(101); roll <= 105; roll++ {
		fx.students = append(fx.students, newStudent(roll, fx.cse.ID))
	}
	fx.outsider = newStudent(201, fx.ece.ID)

	admin := models.User{Email: "admin@college.edu", Role: models.RoleAdmin, IsActive: true}
	_ = st.Users().Create(ctx, &admin)
	fx.adminUserID = admin.ID
	return fx
}

func (fx *fixture) studentPrincipal(s models.Student) *auth.Principal {
	return &auth.Principal{UserID: s.UserID, Role: models.RoleStudent, StudentID: s.ID, DepartmentID: s.DepartmentID}
}

func (fx *fixture) facultyPrincipal(f models.Faculty) *auth.Principal {
	p := &auth.Principal{UserID: f.UserID, Role: models.RoleFaculty, FacultyID: f.ID, DepartmentID: f.DepartmentID}
	if f.ID == fx.head.ID || f.ID == fx.eceHead.ID {
		p.Role = models.RoleHOD
		p.HODDepartmentID = f.DepartmentID
	}
	return p
}

func (fx *fixture) adminPrincipal() *auth.Principal {
	return &auth.Principal{UserID: fx.adminUserID, Role: models.RoleAdmin}
}

// assign binds students to f for the term directly in the store.
func (fx *fixture) assign(f models.Faculty, year, semester int, students ...models.Student) {
	for _, s := range students {
		_ = fx.store.Mentorships().Create(context.Background(), &models.Mentorship{
			StudentID: s.ID, FacultyID: f.ID, Year: year, Semester: semester, StartDate: fixedNow,
		})
	}
}

func (fx *fixture) activeMentorships(studentID int64) []models.Mentorship {
	var out []models.Mentorship
	for _, id := range sortedKeys(fx.store.st.mentorships) {
		m := fx.store.st.mentorships[id]
		if m.StudentID == studentID && m.EndDate == nil {
			out = append(out, m)
		}
	}
	return out
}
