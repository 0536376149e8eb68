package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
)

var mentorshipColumns = []string{"m.id", "m.student_id", "m.faculty_id", "m.year", "m.semester", "m.start_date", "m.end_date"}

// MentorshipRepository handles mentor assignments
type MentorshipRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewMentorshipRepository creates a new MentorshipRepository
func NewMentorshipRepository(db DBTX) *MentorshipRepository {
	return &MentorshipRepository{db: db, sb: psql}
}

func scanMentorship(row pgx.Row) (*models.Mentorship, error) {
	var m models.Mentorship
	if err := row.Scan(&m.ID, &m.StudentID, &m.FacultyID, &m.Year, &m.Semester, &m.StartDate, &m.EndDate); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create opens an assignment for the term
func (r *MentorshipRepository) Create(ctx context.Context, mentorship *models.Mentorship) error {
	builder := r.sb.Insert("mentorships").
		Columns("student_id", "faculty_id", "year", "semester")
	if mentorship.StartDate.IsZero() {
		builder = builder.Values(mentorship.StudentID, mentorship.FacultyID, mentorship.Year, mentorship.Semester)
	} else {
		builder = builder.Columns("start_date").
			Values(mentorship.StudentID, mentorship.FacultyID, mentorship.Year, mentorship.Semester, mentorship.StartDate)
	}
	sql, args, err := builder.Suffix("RETURNING id, start_date").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create mentorship SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&mentorship.ID, &mentorship.StartDate); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ActiveMentorshipConstraint) {
			return apperrors.NewConflictError("student already has an active mentor for this term")
		}
		logger.Error().Err(err).Int64("studentID", mentorship.StudentID).Msg("Error executing create mentorship query")
		return err
	}
	return nil
}

func (r *MentorshipRepository) findOne(ctx context.Context, builder squirrel.SelectBuilder) (*models.Mentorship, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	m, err := scanMentorship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Msg("Error scanning mentorship")
		return nil, err
	}
	return m, nil
}

func (r *MentorshipRepository) selectActive() squirrel.SelectBuilder {
	return r.sb.Select(mentorshipColumns...).From("mentorships m").Where("m.end_date IS NULL")
}

// FindActive returns the student's active mentorship for a term, or nil
func (r *MentorshipRepository) FindActive(ctx context.Context, studentID int64, year, semester int) (*models.Mentorship, error) {
	return r.findOne(ctx, r.selectActive().
		Where(squirrel.Eq{"m.student_id": studentID, "m.year": year, "m.semester": semester}).
		Suffix("FOR UPDATE"))
}

// FindActiveBetween returns an active mentorship linking student and faculty, or nil
func (r *MentorshipRepository) FindActiveBetween(ctx context.Context, studentID, facultyID int64, year, semester int) (*models.Mentorship, error) {
	builder := r.selectActive().Where(squirrel.Eq{"m.student_id": studentID, "m.faculty_id": facultyID})
	if year > 0 {
		builder = builder.Where(squirrel.Eq{"m.year": year})
	}
	if semester > 0 {
		builder = builder.Where(squirrel.Eq{"m.semester": semester})
	}
	return r.findOne(ctx, builder.OrderBy("m.year DESC", "m.semester DESC").Limit(1))
}

// FindCurrent returns the most recent active mentorship of the student, or nil
func (r *MentorshipRepository) FindCurrent(ctx context.Context, studentID int64) (*models.Mentorship, error) {
	return r.findOne(ctx, r.selectActive().
		Where(squirrel.Eq{"m.student_id": studentID}).
		OrderBy("m.year DESC", "m.semester DESC", "m.start_date DESC").
		Limit(1))
}

// Close ends an assignment
func (r *MentorshipRepository) Close(ctx context.Context, id int64, at time.Time) error {
	sql, args, err := r.sb.Update("mentorships").
		Set("end_date", at).
		Where(squirrel.Eq{"id": id}).
		Where("end_date IS NULL").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("mentorshipID", id).Msg("Error closing mentorship")
		return err
	}
	return nil
}

// CloseByDepartment ends every active assignment of the department's
// students, optionally restricted to one year and/or semester.
func (r *MentorshipRepository) CloseByDepartment(ctx context.Context, departmentID int64, year, semester *int, at time.Time) (int64, error) {
	builder := r.sb.Update("mentorships").
		Set("end_date", at).
		Where("end_date IS NULL").
		Where(squirrel.Expr("student_id IN (SELECT id FROM students WHERE department_id = ?)", departmentID))
	if year != nil {
		builder = builder.Where(squirrel.Eq{"year": *year})
	}
	if semester != nil {
		builder = builder.Where(squirrel.Eq{"semester": *semester})
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("departmentID", departmentID).Msg("Error resetting mentorships")
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListActiveMentees returns the faculty's active mentees for the term, by roll number
func (r *MentorshipRepository) ListActiveMentees(ctx context.Context, facultyID int64, year, semester int) ([]*models.Mentee, error) {
	sql, args, err := r.sb.Select(append([]string{"m.id"}, studentColumns...)...).
		From("mentorships m").
		Join("students s ON s.id = m.student_id").
		Where("m.end_date IS NULL").
		Where(squirrel.Eq{"m.faculty_id": facultyID, "m.year": year, "m.semester": semester}).
		OrderBy("s.roll_number").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mentees SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("facultyID", facultyID).Msg("Error querying mentees")
		return nil, err
	}
	defer rows.Close()

	mentees := make([]*models.Mentee, 0)
	for rows.Next() {
		var m models.Mentee
		s := &m.Student
		if err := rows.Scan(&m.MentorshipID, &s.ID, &s.UserID, &s.RollNumber, &s.Name, &s.DepartmentID,
			&s.CollegeEmail, &s.PersonalEmail, &s.CurrentYear); err != nil {
			logger.Error().Err(err).Msg("Error scanning mentee row")
			return nil, err
		}
		mentees = append(mentees, &m)
	}
	return mentees, rows.Err()
}

// ListHistory returns every mentorship of the student, newest term first
func (r *MentorshipRepository) ListHistory(ctx context.Context, studentID int64) ([]*models.MentorshipHistory, error) {
	sql, args, err := r.sb.Select(append(mentorshipColumns, "f.name", "f.employee_id")...).
		From("mentorships m").
		Join("faculty f ON f.id = m.faculty_id").
		Where(squirrel.Eq{"m.student_id": studentID}).
		OrderBy("m.year DESC", "m.semester DESC", "m.start_date DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying mentorship history")
		return nil, err
	}
	defer rows.Close()

	history := make([]*models.MentorshipHistory, 0)
	for rows.Next() {
		var h models.MentorshipHistory
		if err := rows.Scan(&h.ID, &h.StudentID, &h.FacultyID, &h.Year, &h.Semester, &h.StartDate, &h.EndDate,
			&h.FacultyName, &h.FacultyEmployeeID); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

// CountActiveMentees counts the faculty's active assignments across all terms
func (r *MentorshipRepository) CountActiveMentees(ctx context.Context, facultyID int64) (int, error) {
	sql, args, err := r.sb.Select("count(DISTINCT student_id)").From("mentorships").
		Where(squirrel.Eq{"faculty_id": facultyID}).
		Where("end_date IS NULL").
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
