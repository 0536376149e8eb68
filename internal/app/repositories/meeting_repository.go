package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/dberrors"
	"github.com/yigit/mentorhub/internal/pkg/logger"
	"github.com/yigit/mentorhub/internal/pkg/validation"
)

const meetingDateColumn = "to_char(m.meeting_date, 'YYYY-MM-DD')"

var meetingColumns = []string{
	"m.id", "m.mentorship_id", "m.faculty_id", "m.hod_id", "m.student_id", meetingDateColumn,
	"m.meeting_time", "m.description", "m.status", "m.review", "m.attended", "m.created_at", "m.updated_at",
}

var meetingCopyColumns = []string{
	"mentorship_id", "faculty_id", "hod_id", "student_id", "meeting_date",
	"meeting_time", "description", "status", "review", "attended",
}

// MeetingRepository handles per-student meeting rows
type MeetingRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db DBTX) *MeetingRepository {
	return &MeetingRepository{db: db, sb: psql}
}

// meetingDate converts the wire date into the value stored in the DATE column.
func meetingDate(date string) (time.Time, error) {
	d, err := time.Parse(validation.DateLayout, date)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid meeting date %q", date))
	}
	return d, nil
}

func scanMeeting(row pgx.Row) (*models.Meeting, error) {
	var m models.Meeting
	err := row.Scan(&m.ID, &m.MentorshipID, &m.FacultyID, &m.HODID, &m.StudentID, &m.Date,
		&m.Time, &m.Description, &m.Status, &m.Review, &m.Attended, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a single meeting row
func (r *MeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	date, err := meetingDate(meeting.Date)
	if err != nil {
		return err
	}
	if meeting.Status == "" {
		meeting.Status = domain.MeetingUpcoming
	}

	sql, args, err := r.sb.Insert("meetings").
		Columns(meetingCopyColumns...).
		Values(meeting.MentorshipID, meeting.FacultyID, meeting.HODID, meeting.StudentID, date,
			meeting.Time, meeting.Description, meeting.Status, meeting.Review, meeting.Attended).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create meeting SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&meeting.ID, &meeting.CreatedAt, &meeting.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("studentID", meeting.StudentID).Msg("Error executing create meeting query")
		return err
	}
	return nil
}

// CreateBatch bulk-inserts meeting rows with COPY and returns the number written
func (r *MeetingRepository) CreateBatch(ctx context.Context, meetings []*models.Meeting) (int64, error) {
	if len(meetings) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(meetings))
	for _, m := range meetings {
		date, err := meetingDate(m.Date)
		if err != nil {
			return 0, err
		}
		status := m.Status
		if status == "" {
			status = domain.MeetingUpcoming
		}
		rows = append(rows, []any{
			m.MentorshipID, m.FacultyID, m.HODID, m.StudentID, date,
			m.Time, m.Description, string(status), m.Review, m.Attended,
		})
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"meetings"}, meetingCopyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.MeetingSlotConstraint) {
			return 0, apperrors.ErrMeetingSlotTaken
		}
		logger.Error().Err(err).Int("rows", len(rows)).Msg("Error copying meeting rows")
		return 0, err
	}
	return n, nil
}

// GetByID retrieves a meeting row by ID
func (r *MeetingRepository) GetByID(ctx context.Context, id int64) (*models.Meeting, error) {
	sql, args, err := r.sb.Select(meetingColumns...).From("meetings m").Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	m, err := scanMeeting(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMeetingNotFound
		}
		logger.Error().Err(err).Int64("meetingID", id).Msg("Error scanning meeting")
		return nil, err
	}
	return m, nil
}

func applyMeetingFilter(b squirrel.SelectBuilder, f models.MeetingFilter) squirrel.SelectBuilder {
	if f.FacultyID != nil {
		b = b.Where(squirrel.Eq{"m.faculty_id": *f.FacultyID})
	}
	if f.StudentID != nil {
		b = b.Where(squirrel.Eq{"m.student_id": *f.StudentID})
	}
	if f.Key != nil {
		b = b.Where(squirrel.Expr("m.meeting_date = ?::date", f.Key.Date)).
			Where(squirrel.Eq{"m.meeting_time": f.Key.Time, "m.description": f.Key.Description})
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		b = b.Where(squirrel.Eq{"m.status": statuses})
	}
	if f.FromDate != "" {
		b = b.Where(squirrel.Expr("m.meeting_date >= ?::date", f.FromDate))
	}
	if len(f.MentorshipIDs) > 0 {
		b = b.Where(squirrel.Eq{"m.mentorship_id": f.MentorshipIDs})
	}
	return b
}

// ListRows returns meeting rows joined with student display fields
func (r *MeetingRepository) ListRows(ctx context.Context, filter models.MeetingFilter, lock bool) ([]domain.MeetingRow, error) {
	builder := applyMeetingFilter(r.sb.Select(
		"m.id", "m.faculty_id", "m.hod_id", "m.student_id", "s.name", "s.roll_number", meetingDateColumn,
		"m.meeting_time", "m.description", "m.status", "m.review", "m.attended", "m.created_at",
	).From("meetings m").Join("students s ON s.id = m.student_id"), filter).
		OrderBy("m.id")
	if lock {
		builder = builder.Suffix("FOR UPDATE OF m")
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list meeting rows SQL")
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying meeting rows")
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.MeetingRow, 0)
	for rows.Next() {
		var m domain.MeetingRow
		if err := rows.Scan(&m.ID, &m.FacultyID, &m.HODID, &m.StudentID, &m.StudentName, &m.RollNumber,
			&m.Date, &m.Time, &m.Description, &m.Status, &m.Review, &m.Attended, &m.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning meeting row")
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// ListForStudent returns the student's meeting rows with mentor names, soonest first
func (r *MeetingRepository) ListForStudent(ctx context.Context, studentID int64) ([]*models.StudentMeeting, error) {
	sql, args, err := r.sb.Select(append(meetingColumns, "f.name")...).
		From("meetings m").
		Join("faculty f ON f.id = m.faculty_id").
		Where(squirrel.Eq{"m.student_id": studentID}).
		OrderBy("m.meeting_date", "m.meeting_time", "m.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying student meetings")
		return nil, err
	}
	defer rows.Close()

	meetings := make([]*models.StudentMeeting, 0)
	for rows.Next() {
		var sm models.StudentMeeting
		m := &sm.Meeting
		if err := rows.Scan(&m.ID, &m.MentorshipID, &m.FacultyID, &m.HODID, &m.StudentID, &m.Date,
			&m.Time, &m.Description, &m.Status, &m.Review, &m.Attended, &m.CreatedAt, &m.UpdatedAt,
			&sm.FacultyName); err != nil {
			return nil, err
		}
		meetings = append(meetings, &sm)
	}
	return meetings, rows.Err()
}

// UpdateGroup applies a status (and optional description) to every row of a group
func (r *MeetingRepository) UpdateGroup(ctx context.Context, facultyID int64, key domain.GroupKey, status domain.MeetingStatus, description *string, at time.Time) (int64, error) {
	builder := r.sb.Update("meetings").
		Set("status", string(status)).
		Set("updated_at", at).
		Where(squirrel.Eq{"faculty_id": facultyID, "meeting_time": key.Time, "description": key.Description}).
		Where(squirrel.Expr("meeting_date = ?::date", key.Date))
	if description != nil {
		builder = builder.Set("description", *description)
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.MeetingSlotConstraint) {
			return 0, apperrors.ErrMeetingSlotTaken
		}
		logger.Error().Err(err).Int64("facultyID", facultyID).Msg("Error updating meeting group")
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateReview records one student's review and attendance
func (r *MeetingRepository) UpdateReview(ctx context.Context, meetingID int64, review string, attended *bool, at time.Time) error {
	builder := r.sb.Update("meetings").
		Set("review", review).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": meetingID})
	if attended != nil {
		builder = builder.Set("attended", *attended)
	}
	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("meetingID", meetingID).Msg("Error updating meeting review")
		return err
	}
	return nil
}
