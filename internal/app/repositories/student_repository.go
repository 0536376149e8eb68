package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

var studentColumns = []string{
	"s.id", "s.user_id", "s.roll_number", "s.name", "s.department_id",
	"s.college_email", "s.personal_email", "s.current_year",
}

// StudentRepository handles database operations for student profiles
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db, sb: psql}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.UserID, &s.RollNumber, &s.Name, &s.DepartmentID,
		&s.CollegeEmail, &s.PersonalEmail, &s.CurrentYear)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).From("students s")
}

// Create inserts a student profile
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "roll_number", "name", "department_id", "college_email", "personal_email", "current_year").
		Values(student.UserID, student.RollNumber, student.Name, student.DepartmentID,
			student.CollegeEmail, student.PersonalEmail, student.CurrentYear).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.StudentRollConstraint) {
			return apperrors.NewConflictError(fmt.Sprintf("roll number %d already exists", student.RollNumber))
		}
		logger.Error().Err(err).Int64("rollNumber", student.RollNumber).Msg("Error executing create student query")
		return err
	}
	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.id": id})
}

// GetByUserID retrieves the student profile of a login account
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"s.user_id": userID})
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.selectStudents().Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, err
	}
	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student")
		return nil, err
	}
	return student, nil
}

// GetByRollNumbers returns the students matching the given roll numbers.
// Unknown roll numbers are simply absent from the result.
func (r *StudentRepository) GetByRollNumbers(ctx context.Context, rolls []int64) ([]*models.Student, error) {
	if len(rolls) == 0 {
		return []*models.Student{}, nil
	}
	sql, args, err := r.selectStudents().
		Where(squirrel.Eq{"s.roll_number": rolls}).
		OrderBy("s.roll_number").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryStudents(ctx, sql, args)
}

// ListUnassigned returns department students with no active mentor for the term
func (r *StudentRepository) ListUnassigned(ctx context.Context, departmentID int64, year, semester int) ([]*models.Student, error) {
	sql, args, err := r.selectStudents().
		Where(squirrel.Eq{"s.department_id": departmentID}).
		Where(squirrel.Expr(`NOT EXISTS (
			SELECT 1 FROM mentorships m
			WHERE m.student_id = s.id AND m.year = ? AND m.semester = ? AND m.end_date IS NULL)`,
			year, semester)).
		OrderBy("s.roll_number").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building unassigned students SQL")
		return nil, err
	}
	return r.queryStudents(ctx, sql, args)
}

func (r *StudentRepository) queryStudents(ctx context.Context, sql string, args []interface{}) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying students")
		return nil, err
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
