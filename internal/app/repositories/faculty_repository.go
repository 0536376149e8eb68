package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

// FacultyRepository handles faculty database operations
type FacultyRepository struct {
	db DBTX
	// Use squirrel instance with placeholder format
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository creates a new FacultyRepository
func NewFacultyRepository(db DBTX) *FacultyRepository {
	return &FacultyRepository{db: db, sb: psql}
}

// Create inserts a faculty profile
func (r *FacultyRepository) Create(ctx context.Context, faculty *models.Faculty) error {
	sql, args, err := r.sb.Insert("faculty").
		Columns("user_id", "employee_id", "name", "department_id", "college_email", "personal_email").
		Values(faculty.UserID, faculty.EmployeeID, faculty.Name, faculty.DepartmentID,
			faculty.CollegeEmail, faculty.PersonalEmail).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create faculty SQL")
		return fmt.Errorf("failed to build create faculty query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&faculty.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("employee id %s already exists", faculty.EmployeeID))
		}
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return fmt.Errorf("error creating faculty: %w", err)
	}
	return nil
}

// GetByID retrieves a faculty member by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUserID retrieves the faculty profile of a login account
func (r *FacultyRepository) GetByUserID(ctx context.Context, userID int64) (*models.Faculty, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID})
}

// GetByEmployeeID retrieves a faculty member by employee id
func (r *FacultyRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Faculty, error) {
	return r.getOne(ctx, squirrel.Eq{"employee_id": strings.TrimSpace(employeeID)})
}

func (r *FacultyRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Faculty, error) {
	sql, args, err := r.sb.Select("id", "user_id", "employee_id", "name", "department_id", "college_email", "personal_email").
		From("faculty").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get faculty SQL")
		return nil, err
	}

	var f models.Faculty
	err = r.db.QueryRow(ctx, sql, args...).Scan(&f.ID, &f.UserID, &f.EmployeeID, &f.Name,
		&f.DepartmentID, &f.CollegeEmail, &f.PersonalEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Msg("Error scanning faculty")
		return nil, err
	}
	return &f, nil
}

// HODRepository handles head-of-department tenures
type HODRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewHODRepository creates a new HODRepository
func NewHODRepository(db DBTX) *HODRepository {
	return &HODRepository{db: db, sb: psql}
}

// Create opens a tenure. Only one tenure per department may be active.
func (r *HODRepository) Create(ctx context.Context, hod *models.HOD) error {
	sql, args, err := r.sb.Insert("hods").
		Columns("faculty_id", "department_id").
		Values(hod.FacultyID, hod.DepartmentID).
		Suffix("RETURNING id, start_date").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&hod.ID, &hod.StartDate); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ActiveHODConstraint) {
			return apperrors.NewConflictError("department already has an active head of department")
		}
		logger.Error().Err(err).Msg("Error executing create hod query")
		return err
	}
	return nil
}

// FindActiveByDepartment returns the department's active HOD or nil
func (r *HODRepository) FindActiveByDepartment(ctx context.Context, departmentID int64) (*models.HOD, error) {
	return r.findActive(ctx, squirrel.Eq{"department_id": departmentID})
}

// FindActiveByFaculty returns the faculty member's active tenure or nil
func (r *HODRepository) FindActiveByFaculty(ctx context.Context, facultyID int64) (*models.HOD, error) {
	return r.findActive(ctx, squirrel.Eq{"faculty_id": facultyID})
}

func (r *HODRepository) findActive(ctx context.Context, where squirrel.Sqlizer) (*models.HOD, error) {
	sql, args, err := r.sb.Select("id", "faculty_id", "department_id", "start_date", "end_date").
		From("hods").
		Where(where).
		Where("end_date IS NULL").
		OrderBy("start_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var h models.HOD
	err = r.db.QueryRow(ctx, sql, args...).Scan(&h.ID, &h.FacultyID, &h.DepartmentID, &h.StartDate, &h.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning hod")
		return nil, err
	}
	return &h, nil
}
