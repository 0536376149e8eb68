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

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db DBTX) *DepartmentRepository {
	return &DepartmentRepository{db: db, sb: psql}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	sql, args, err := r.sb.Insert("departments").
		Columns("name", "code").
		Values(department.Name, strings.ToUpper(department.Code)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create department query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&department.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("department code already exists")
		}
		logger.Error().Err(err).Msg("Error executing create department query")
		return err
	}
	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a department by its short code
func (r *DepartmentRepository) GetByCode(ctx context.Context, code string) (*models.Department, error) {
	return r.getOne(ctx, squirrel.Eq{"code": strings.ToUpper(strings.TrimSpace(code))})
}

func (r *DepartmentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Department, error) {
	sql, args, err := r.sb.Select("id", "name", "code").From("departments").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var department models.Department
	err = r.db.QueryRow(ctx, sql, args...).Scan(&department.ID, &department.Name, &department.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return &department, nil
}
