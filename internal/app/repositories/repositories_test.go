package repositories

import (
	"strings"
	"testing"

	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

func TestApplyMeetingFilterScopesGroupByFaculty(t *testing.T) {
	facultyID := int64(7)
	filter := models.MeetingFilter{
		FacultyID: &facultyID,
		Key:       &domain.GroupKey{Date: "2025-06-01", Time: "10:00", Description: "Review"},
		Statuses:  []domain.MeetingStatus{domain.MeetingUpcoming, domain.MeetingYetToDone},
	}

	sql, args, err := applyMeetingFilter(psql.Select("m.id").From("meetings m"), filter).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}

	for _, want := range []string{"m.faculty_id = $1", "m.meeting_date = $2::date", "m.status IN ("} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql %q missing %q", sql, want)
		}
	}
	if strings.Contains(sql, "?") {
		t.Errorf("placeholders not rewritten: %q", sql)
	}
	if len(args) != 6 {
		t.Errorf("got %d args, want 6: %v", len(args), args)
	}
}

func TestApplyRequestFilter(t *testing.T) {
	assigned := int64(3)
	status := domain.StatusPending
	sql, args, err := applyRequestFilter(psql.Select("count(*)").From("requests"), models.RequestFilter{
		AssignedTo: &assigned,
		Status:     &status,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	if !strings.Contains(sql, "assigned_to = $1") || !strings.Contains(sql, "status = $2") {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 2 {
		t.Errorf("got %d args", len(args))
	}
}

func TestMeetingDateRejectsBadInput(t *testing.T) {
	if _, err := meetingDate("2025-13-40"); !apperrors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("want validation error, got %v", err)
	}
	d, err := meetingDate("2025-06-01")
	if err != nil {
		t.Fatalf("meetingDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != 6 || d.Day() != 1 {
		t.Errorf("got %v", d)
	}
}
