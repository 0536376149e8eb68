package domain

import (
	"strings"
	"time"

	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/validation"
)

// MeetingStatus is the lifecycle state of a meeting row.
type MeetingStatus string

const (
	MeetingUpcoming  MeetingStatus = "UPCOMING"
	MeetingYetToDone MeetingStatus = "YET_TO_DONE"
	MeetingCompleted MeetingStatus = "COMPLETED"
	MeetingCancelled MeetingStatus = "CANCELLED"
)

// Valid reports whether s is a known meeting status.
func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingUpcoming, MeetingYetToDone, MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

// Completion gate messages.
const (
	MsgCannotCompleteYet = "Cannot complete yet"
	MsgReviewRequired    = "Review required"
)

// SlotTime combines a YYYY-MM-DD date and HH:MM time in loc.
func SlotTime(date, clock string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(validation.DateLayout+" "+validation.TimeLayout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsPassed reports whether the slot's start is at or before now. A slot with a
// missing or unparsable time never counts as passed.
func IsPassed(date, clock string, now time.Time, loc *time.Location) bool {
	if strings.TrimSpace(clock) == "" {
		return false
	}
	start, ok := SlotTime(date, clock, loc)
	if !ok {
		return false
	}
	return !now.Before(start)
}

// DisplayStatus derives the status shown to users. A stored UPCOMING whose
// slot has passed reads as YET_TO_DONE; the stored value is never rewritten.
func DisplayStatus(stored MeetingStatus, date, clock string, now time.Time, loc *time.Location) MeetingStatus {
	if stored == MeetingUpcoming && IsPassed(date, clock, now, loc) {
		return MeetingYetToDone
	}
	return stored
}

// CanTransitionMeeting reports whether an actor may move a meeting between
// stored statuses. COMPLETED and CANCELLED only accept same-status edits.
func CanTransitionMeeting(from, to MeetingStatus) bool {
	if !to.Valid() {
		return false
	}
	switch from {
	case MeetingUpcoming, MeetingYetToDone:
		return true
	case MeetingCompleted, MeetingCancelled:
		return from == to
	}
	return false
}

// StudentReview is the per-student outcome recorded against a group meeting.
type StudentReview struct {
	RollNumber int64  `json:"rollNumber" validate:"required,gt=0"`
	Review     string `json:"review"`
	Attended   *bool  `json:"attended,omitempty"`
}

// HasReview reports whether at least one review carries non-blank text.
func HasReview(reviews []StudentReview) bool {
	for _, r := range reviews {
		if strings.TrimSpace(r.Review) != "" {
			return true
		}
	}
	return false
}

// CheckCompletion enforces the completion gate. Time is checked before reviews.
func CheckCompletion(passed bool, reviews []StudentReview) error {
	if !passed {
		return apperrors.NewValidationError(MsgCannotCompleteYet)
	}
	if !HasReview(reviews) {
		return apperrors.NewValidationError(MsgReviewRequired)
	}
	return nil
}
