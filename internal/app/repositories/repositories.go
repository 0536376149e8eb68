package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/db"
)

// psql builds statements with PostgreSQL placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	database *db.PostgresDB // nil when bound to a transaction

	UserRepository       *UserRepository
	DepartmentRepository *DepartmentRepository
	StudentRepository    *StudentRepository
	FacultyRepository    *FacultyRepository
	HODRepository        *HODRepository
	RequestRepository    *RequestRepository
	MentorshipRepository *MentorshipRepository
	MeetingRepository    *MeetingRepository
	InternshipRepository *InternshipRepository
	ProjectRepository    *ProjectRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	r := newRepositories(database.Pool)
	r.database = database
	return r
}

func newRepositories(conn DBTX) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(conn),
		DepartmentRepository: NewDepartmentRepository(conn),
		StudentRepository:    NewStudentRepository(conn),
		FacultyRepository:    NewFacultyRepository(conn),
		HODRepository:        NewHODRepository(conn),
		RequestRepository:    NewRequestRepository(conn),
		MentorshipRepository: NewMentorshipRepository(conn),
		MeetingRepository:    NewMeetingRepository(conn),
		InternshipRepository: NewInternshipRepository(conn),
		ProjectRepository:    NewProjectRepository(conn),
	}
}

func (r *Repositories) Users() UserStore             { return r.UserRepository }
func (r *Repositories) Departments() DepartmentStore { return r.DepartmentRepository }
func (r *Repositories) Students() StudentStore       { return r.StudentRepository }
func (r *Repositories) Faculty() FacultyStore        { return r.FacultyRepository }
func (r *Repositories) HODs() HODStore               { return r.HODRepository }
func (r *Repositories) Requests() RequestStore       { return r.RequestRepository }
func (r *Repositories) Mentorships() MentorshipStore { return r.MentorshipRepository }
func (r *Repositories) Meetings() MeetingStore       { return r.MeetingRepository }
func (r *Repositories) Internships() InternshipStore { return r.InternshipRepository }
func (r *Repositories) Projects() ProjectStore       { return r.ProjectRepository }

// WithTx runs fn inside a database transaction. Nested calls reuse the
// enclosing transaction.
func (r *Repositories) WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if r.database == nil {
		return fn(ctx, r)
	}
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

var _ Store = (*Repositories)(nil)
