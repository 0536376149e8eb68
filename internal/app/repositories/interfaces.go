package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/domain"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so the same
// repository code runs inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// UserStore persists login accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, hash string, at time.Time) error
}

// DepartmentStore persists departments.
type DepartmentStore interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id int64) (*models.Department, error)
	GetByCode(ctx context.Context, code string) (*models.Department, error)
}

// StudentStore persists student profiles.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	GetByRollNumbers(ctx context.Context, rolls []int64) ([]*models.Student, error)
	// ListUnassigned returns department students without an active mentor
	// for the term, ordered by roll number.
	ListUnassigned(ctx context.Context, departmentID int64, year, semester int) ([]*models.Student, error)
}

// FacultyStore persists faculty profiles.
type FacultyStore interface {
	Create(ctx context.Context, faculty *models.Faculty) error
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Faculty, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Faculty, error)
}

// HODStore persists head-of-department tenures.
type HODStore interface {
	Create(ctx context.Context, hod *models.HOD) error
	// FindActiveByDepartment returns nil when the department has no active HOD.
	FindActiveByDepartment(ctx context.Context, departmentID int64) (*models.HOD, error)
	// FindActiveByFaculty returns nil when the faculty member is not an active HOD.
	FindActiveByFaculty(ctx context.Context, facultyID int64) (*models.HOD, error)
}

// RequestStore persists the request ledger.
type RequestStore interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.Request, error)
	// Transition moves a PENDING request into a terminal status. It returns
	// ErrRequestNotPending when the row is no longer pending.
	Transition(ctx context.Context, id int64, status domain.RequestStatus, feedback *string, actionedBy int64, at time.Time) error
	List(ctx context.Context, filter models.RequestFilter) ([]*models.Request, int64, error)
	HasPendingForTarget(ctx context.Context, requestType domain.RequestType, targetID int64) (bool, error)
	CountByStatus(ctx context.Context, filter models.RequestFilter) (map[domain.RequestStatus]int, error)
}

// MentorshipStore persists mentor assignments.
type MentorshipStore interface {
	Create(ctx context.Context, mentorship *models.Mentorship) error
	// FindActive returns the student's active mentorship for the term, or nil.
	FindActive(ctx context.Context, studentID int64, year, semester int) (*models.Mentorship, error)
	// FindActiveBetween returns an active mentorship linking the pair, or nil.
	// Zero year or semester matches any term.
	FindActiveBetween(ctx context.Context, studentID, facultyID int64, year, semester int) (*models.Mentorship, error)
	// FindCurrent returns the most recent active mentorship of the student, or nil.
	FindCurrent(ctx context.Context, studentID int64) (*models.Mentorship, error)
	Close(ctx context.Context, id int64, at time.Time) error
	CloseByDepartment(ctx context.Context, departmentID int64, year, semester *int, at time.Time) (int64, error)
	ListActiveMentees(ctx context.Context, facultyID int64, year, semester int) ([]*models.Mentee, error)
	ListHistory(ctx context.Context, studentID int64) ([]*models.MentorshipHistory, error)
	CountActiveMentees(ctx context.Context, facultyID int64) (int, error)
}

// MeetingStore persists per-student meeting rows.
type MeetingStore interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	CreateBatch(ctx context.Context, meetings []*models.Meeting) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Meeting, error)
	// ListRows returns meeting rows joined with the student's name and roll.
	// Pass lock to hold the rows for update within a transaction.
	ListRows(ctx context.Context, filter models.MeetingFilter, lock bool) ([]domain.MeetingRow, error)
	ListForStudent(ctx context.Context, studentID int64) ([]*models.StudentMeeting, error)
	// UpdateGroup sets status (and description when non-nil) on every row of
	// the faculty's group and returns the number of rows touched.
	UpdateGroup(ctx context.Context, facultyID int64, key domain.GroupKey, status domain.MeetingStatus, description *string, at time.Time) (int64, error)
	UpdateReview(ctx context.Context, meetingID int64, review string, attended *bool, at time.Time) error
}

// InternshipStore persists approved internships.
type InternshipStore interface {
	Create(ctx context.Context, internship *models.Internship) error
	GetByID(ctx context.Context, id int64) (*models.Internship, error)
	// ListByStudent returns the student's internships, latest semester first.
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Internship, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectStore persists approved projects.
type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Project, error)
	Delete(ctx context.Context, id int64) error
}

// Store groups the per-entity stores and runs units of work atomically.
type Store interface {
	Users() UserStore
	Departments() DepartmentStore
	Students() StudentStore
	Faculty() FacultyStore
	HODs() HODStore
	Requests() RequestStore
	Mentorships() MentorshipStore
	Meetings() MeetingStore
	Internships() InternshipStore
	Projects() ProjectStore

	// WithTx runs fn against a Store bound to one transaction. Returning an
	// error from fn rolls back every write made through tx.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
