package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Constraint names declared in migrations/001_init.sql.
const (
	ActiveMentorshipConstraint = "uq_mentorships_active_term"
	ActiveHODConstraint        = "uq_hods_active_department"
	StudentRollConstraint      = "students_roll_number_key"
	UserEmailConstraint        = "users_email_key"
	PendingDeleteConstraint    = "uq_requests_pending_delete"
	MeetingSlotConstraint      = "uq_meetings_slot"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports any unique violation regardless of constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
