package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

// InternshipRepository handles approved internship records
type InternshipRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewInternshipRepository creates a new InternshipRepository
func NewInternshipRepository(db DBTX) *InternshipRepository {
	return &InternshipRepository{db: db, sb: psql}
}

// Create inserts an internship record
func (r *InternshipRepository) Create(ctx context.Context, in *models.Internship) error {
	sql, args, err := r.sb.Insert("internships").
		Columns("student_id", "semester", "type", "organisation", "stipend", "duration", "location").
		Values(in.StudentID, in.Semester, in.Type, in.Organisation, in.Stipend, in.Duration, in.Location).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&in.ID, &in.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("studentID", in.StudentID).Msg("Error creating internship")
		return err
	}
	return nil
}

// GetByID retrieves an internship record
func (r *InternshipRepository) GetByID(ctx context.Context, id int64) (*models.Internship, error) {
	sql, args, err := r.sb.Select("id", "student_id", "semester", "type", "organisation", "stipend", "duration", "location", "created_at").
		From("internships").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var in models.Internship
	err = r.db.QueryRow(ctx, sql, args...).Scan(&in.ID, &in.StudentID, &in.Semester, &in.Type,
		&in.Organisation, &in.Stipend, &in.Duration, &in.Location, &in.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInternshipNotFound
		}
		return nil, err
	}
	return &in, nil
}

// ListByStudent returns the student's internship records
func (r *InternshipRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Internship, error) {
	sql, args, err := r.sb.Select("id", "student_id", "semester", "type", "organisation", "stipend", "duration", "location", "created_at").
		From("internships").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("semester DESC", "created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list internships SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying internships")
		return nil, err
	}
	defer rows.Close()

	internships := make([]*models.Internship, 0)
	for rows.Next() {
		var in models.Internship
		if err := rows.Scan(&in.ID, &in.StudentID, &in.Semester, &in.Type,
			&in.Organisation, &in.Stipend, &in.Duration, &in.Location, &in.CreatedAt); err != nil {
			return nil, err
		}
		internships = append(internships, &in)
	}
	return internships, rows.Err()
}

// Delete removes an internship record
func (r *InternshipRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "internships", id, apperrors.ErrInternshipNotFound)
}

// ProjectRepository handles approved project records
type ProjectRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db, sb: psql}
}

// Create inserts a project record
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	technologies := p.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	sql, args, err := r.sb.Insert("projects").
		Columns("student_id", "semester", "title", "description", "technologies", "mentor").
		Values(p.StudentID, p.Semester, p.Title, p.Description, technologies, p.Mentor).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("studentID", p.StudentID).Msg("Error creating project")
		return err
	}
	return nil
}

// GetByID retrieves a project record
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	sql, args, err := r.sb.Select("id", "student_id", "semester", "title", "description", "technologies", "mentor", "created_at").
		From("projects").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Project
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.StudentID, &p.Semester, &p.Title,
		&p.Description, &p.Technologies, &p.Mentor, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByStudent returns the student's project records
func (r *ProjectRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Project, error) {
	sql, args, err := r.sb.Select("id", "student_id", "semester", "title", "description", "technologies", "mentor", "created_at").
		From("projects").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("semester DESC", "created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list projects SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying projects")
		return nil, err
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Semester, &p.Title,
			&p.Description, &p.Technologies, &p.Mentor, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// Delete removes a project record
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, r.db, r.sb, "projects", id, apperrors.ErrProjectNotFound)
}

func deleteByID(ctx context.Context, db DBTX, sb squirrel.StatementBuilderType, table string, id int64, notFound error) error {
	sql, args, err := sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error deleting record")
		return err
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
