package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
	"github.com/yigit/mentorhub/internal/pkg/email"
)

func newMeetingSvc(fx *fixture) MeetingService {
	return NewMeetingService(fx.store, fx.notifier, nil, fixedClock, zerolog.Nop())
}

// schedule creates one group for all five fixture students with the mentor
// and returns the id of one of its rows.
func (fx *fixture) schedule(t *testing.T, svc MeetingService, date, clock, description string) int64 {
	t.Helper()
	if len(fx.activeMentorships(fx.students[0].ID)) == 0 {
		fx.assign(fx.mentor, 2, 1, fx.students...)
	}
	_, err := svc.ScheduleGroupMeetings(context.Background(), fx.facultyPrincipal(fx.mentor), &dto.ScheduleGroupMeetingsRequest{
		Year: 2, Semester: 1,
		Meetings: []dto.MeetingSpec{{Date: date, Time: clock, Description: description}},
	})
	if err != nil {
		t.Fatalf("ScheduleGroupMeetings: %v", err)
	}
	for _, id := range sortedKeys(fx.store.st.meetings) {
		m := fx.store.st.meetings[id]
		if m.Date == date && m.Time == clock && m.Description == description {
			return id
		}
	}
	t.Fatal("scheduled meeting not found")
	return 0
}

func (fx *fixture) groupRows(facultyID int64, key domain.GroupKey) []models.Meeting {
	var out []models.Meeting
	for _, id := range sortedKeys(fx.store.st.meetings) {
		m := fx.store.st.meetings[id]
		if m.FacultyID == facultyID && m.Key() == key {
			out = append(out, m)
		}
	}
	return out
}

func TestScheduleGroupMeetingsCreatesRowPerMenteePerSlot(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	fx.assign(fx.mentor, 2, 1, fx.students...)

	resp, err := svc.ScheduleGroupMeetings(context.Background(), fx.facultyPrincipal(fx.mentor), &dto.ScheduleGroupMeetingsRequest{
		Year: 2, Semester: 1,
		Meetings: []dto.MeetingSpec{
			{Date: "2025-07-01", Time: "09:00", Description: " Orientation "},
			{Date: "2025-07-15", Time: "14:30", Description: "Progress"},
		},
	})
	if err != nil {
		t.Fatalf("ScheduleGroupMeetings: %v", err)
	}
	if resp.Created != 10 || resp.StudentCount != 5 || resp.MeetingCount != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if len(fx.store.st.meetings) != 10 {
		t.Fatalf("%d rows stored, want 10", len(fx.store.st.meetings))
	}
	for _, m := range fx.store.st.meetings {
		if m.Status != domain.MeetingUpcoming || m.FacultyID != fx.mentor.ID || m.HODID != nil || m.MentorshipID == 0 {
			t.Errorf("unexpected row %+v", m)
		}
	}
	if rows := fx.groupRows(fx.mentor.ID, domain.GroupKey{Date: "2025-07-01", Time: "09:00", Description: "Orientation"}); len(rows) != 5 {
		t.Errorf("orientation group has %d rows, want 5", len(rows))
	}

	if fx.notifier.count() != 2 {
		t.Fatalf("notifications = %d, want one per slot", fx.notifier.count())
	}
	call := fx.notifier.calls[0]
	if len(call.participants) != 6 || call.info.Event != email.EventScheduled {
		t.Errorf("notification = %d participants event %s", len(call.participants), call.info.Event)
	}
}

func TestScheduleGroupMeetingsByHODRecordsHOD(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	fx.assign(fx.mentor, 2, 1, fx.students[:2]...)

	_, err := svc.ScheduleGroupMeetings(context.Background(), fx.facultyPrincipal(fx.head), &dto.ScheduleGroupMeetingsRequest{
		FacultyID: fx.mentor.ID,
		Year:      2,
		Semester:  1,
		Meetings:  []dto.MeetingSpec{{Date: "2025-07-01", Time: "09:00"}},
	})
	if err != nil {
		t.Fatalf("ScheduleGroupMeetings: %v", err)
	}
	for _, m := range fx.store.st.meetings {
		if m.HODID == nil {
			t.Fatalf("row %d has no HOD", m.ID)
		}
	}
	if !fx.notifier.calls[0].info.HODIncluded {
		t.Error("notification does not mention the HOD")
	}
}

func TestScheduleGroupMeetingsRejects(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	ctx := context.Background()
	fx.assign(fx.mentor, 2, 1, fx.students[0])

	slot := []dto.MeetingSpec{{Date: "2025-07-01", Time: "09:00"}}
	tests := []struct {
		name string
		req  *dto.ScheduleGroupMeetingsRequest
		want error
	}{
		{"no slots", &dto.ScheduleGroupMeetingsRequest{Year: 2, Semester: 1}, apperrors.ErrValidationFailed},
		{"bad time", &dto.ScheduleGroupMeetingsRequest{Year: 2, Semester: 1, Meetings: []dto.MeetingSpec{{Date: "2025-07-01", Time: "9am"}}}, apperrors.ErrValidationFailed},
		{"duplicate slot", &dto.ScheduleGroupMeetingsRequest{Year: 2, Semester: 1, Meetings: []dto.MeetingSpec{slot[0], {Date: "2025-07-01", Time: "09:00", Description: " "}}}, apperrors.ErrValidationFailed},
		{"no mentees for term", &dto.ScheduleGroupMeetingsRequest{Year: 3, Semester: 1, Meetings: slot}, apperrors.ErrResourceNotFound},
		{"unknown faculty", &dto.ScheduleGroupMeetingsRequest{FacultyID: 9999, Year: 2, Semester: 1, Meetings: slot}, apperrors.ErrResourceNotFound},
		{"other faculty's group", &dto.ScheduleGroupMeetingsRequest{FacultyID: fx.other.ID, Year: 2, Semester: 1, Meetings: slot}, apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ScheduleGroupMeetings(ctx, fx.facultyPrincipal(fx.mentor), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := svc.ScheduleGroupMeetings(ctx, fx.studentPrincipal(fx.students[0]), &dto.ScheduleGroupMeetingsRequest{Year: 2, Semester: 1, Meetings: slot}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student: err = %v, want forbidden", err)
	}
	if len(fx.store.st.meetings) != 0 || fx.notifier.count() != 0 {
		t.Errorf("rejected schedules left rows=%d notifications=%d", len(fx.store.st.meetings), fx.notifier.count())
	}
}

func TestScheduleGroupMeetingsRollsBackOnWriteFailure(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	fx.assign(fx.mentor, 2, 1, fx.students...)
	fx.store.fail["Meetings.CreateBatch"] = errors.New("copy failed")

	_, err := svc.ScheduleGroupMeetings(context.Background(), fx.facultyPrincipal(fx.mentor), &dto.ScheduleGroupMeetingsRequest{
		Year: 2, Semester: 1,
		Meetings: []dto.MeetingSpec{{Date: "2025-07-01", Time: "09:00"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(fx.store.st.meetings) != 0 || fx.notifier.count() != 0 {
		t.Errorf("failure leaked rows=%d notifications=%d", len(fx.store.st.meetings), fx.notifier.count())
	}
}

func TestCompletionGate(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	ctx := context.Background()
	mentor := fx.facultyPrincipal(fx.mentor)

	future := fx.schedule(t, svc, "2025-06-20", "10:00", "Future")
	past := fx.schedule(t, svc, "2025-06-01", "10:00", "Past")
	review := []domain.StudentReview{{RollNumber: 101, Review: "Good progress"}}

	_, err := svc.CompleteGroupMeetings(ctx, mentor, future, &dto.CompleteMeetingRequest{StudentReviews: review})
	if !errors.Is(err, apperrors.ErrValidationFailed) || apperrors.Message(err) != domain.MsgCannotCompleteYet {
		t.Fatalf("future with reviews: err = %v, want %q", err, domain.MsgCannotCompleteYet)
	}

	_, err = svc.CompleteGroupMeetings(ctx, mentor, future, &dto.CompleteMeetingRequest{})
	if apperrors.Message(err) != domain.MsgCannotCompleteYet {
		t.Fatalf("future without reviews: err = %v, want time checked first", err)
	}

	_, err = svc.CompleteGroupMeetings(ctx, mentor, past, &dto.CompleteMeetingRequest{
		StudentReviews: []domain.StudentReview{{RollNumber: 101, Review: "   "}},
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) || apperrors.Message(err) != domain.MsgReviewRequired {
		t.Fatalf("past without reviews: err = %v, want %q", err, domain.MsgReviewRequired)
	}

	attended := true
	resp, err := svc.CompleteGroupMeetings(ctx, mentor, past, &dto.CompleteMeetingRequest{
		StudentReviews: []domain.StudentReview{
			{RollNumber: 101, Review: "Good progress", Attended: &attended},
			{RollNumber: 102, Review: "Needs focus"},
		},
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.RowsUpdated != 5 || resp.ReviewsUpdated != 2 || resp.Status != domain.MeetingCompleted {
		t.Fatalf("resp = %+v", resp)
	}

	rows := fx.groupRows(fx.mentor.ID, domain.GroupKey{Date: "2025-06-01", Time: "10:00", Description: "Past"})
	for _, m := range rows {
		if m.Status != domain.MeetingCompleted {
			t.Errorf("row %d status %s", m.ID, m.Status)
		}
		switch fx.store.st.students[m.StudentID].RollNumber {
		case 101:
			if m.Review != "Good progress" || !m.Attended {
				t.Errorf("101 review = %q attended=%v", m.Review, m.Attended)
			}
		case 102:
			if m.Review != "Needs focus" {
				t.Errorf("102 review = %q", m.Review)
			}
		default:
			if m.Review != "" {
				t.Errorf("row without review entry changed: %q", m.Review)
			}
		}
	}

	for _, m := range fx.groupRows(fx.mentor.ID, domain.GroupKey{Date: "2025-06-20", Time: "10:00", Description: "Future"}) {
		if m.Status != domain.MeetingUpcoming {
			t.Errorf("future group changed to %s", m.Status)
		}
	}
}

func TestUpdateMeetingStatusMachine(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	ctx := context.Background()
	mentor := fx.facultyPrincipal(fx.mentor)
	id := fx.schedule(t, svc, "2025-07-01", "09:00", "Sync")

	newDesc := " Sync (room 4) "
	resp, err := svc.UpdateMeeting(ctx, mentor, id, &dto.UpdateMeetingRequest{Status: domain.MeetingUpcoming, Description: &newDesc})
	if err != nil {
		t.Fatalf("reschedule description: %v", err)
	}
	if resp.RowsUpdated != 5 {
		t.Fatalf("rows updated = %d, want 5", resp.RowsUpdated)
	}
	if rows := fx.groupRows(fx.mentor.ID, domain.GroupKey{Date: "2025-07-01", Time: "09:00", Description: "Sync (room 4)"}); len(rows) != 5 {
		t.Fatalf("renamed group has %d rows", len(rows))
	}

	if _, err := svc.CancelGroupMeeting(ctx, mentor, id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.UpdateMeeting(ctx, mentor, id, &dto.UpdateMeetingRequest{Status: domain.MeetingUpcoming}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("reopen cancelled: err = %v, want conflict", err)
	}
	if _, err := svc.UpdateMeeting(ctx, mentor, id, &dto.UpdateMeetingRequest{Status: "DONE"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("unknown status: err = %v, want validation error", err)
	}
	if _, err := svc.UpdateMeeting(ctx, mentor, 9999, &dto.UpdateMeetingRequest{Status: domain.MeetingCancelled}); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("missing meeting: err = %v, want not found", err)
	}
	if _, err := svc.CancelGroupMeeting(ctx, fx.facultyPrincipal(fx.other), id); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("other faculty: err = %v, want forbidden", err)
	}

	last := fx.notifier.calls[fx.notifier.count()-1]
	if last.info.Event != email.EventCancelled || len(last.participants) != 5 {
		t.Errorf("cancel notification = %s to %d", last.info.Event, len(last.participants))
	}
}

func TestUpdateMeetingScopedToOrganizer(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	ctx := context.Background()
	id := fx.schedule(t, svc, "2025-07-01", "09:00", "Sync")

	fx.assign(fx.other, 3, 1, fx.students[0])
	if _, err := svc.ScheduleGroupMeetings(ctx, fx.facultyPrincipal(fx.other), &dto.ScheduleGroupMeetingsRequest{
		Year: 3, Semester: 1,
		Meetings: []dto.MeetingSpec{{Date: "2025-07-01", Time: "09:00", Description: "Sync"}},
	}); err != nil {
		t.Fatalf("schedule other: %v", err)
	}

	if _, err := svc.CancelGroupMeeting(ctx, fx.facultyPrincipal(fx.mentor), id); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	for _, m := range fx.groupRows(fx.other.ID, domain.GroupKey{Date: "2025-07-01", Time: "09:00", Description: "Sync"}) {
		if m.Status != domain.MeetingUpcoming {
			t.Errorf("other organizer's row %d changed to %s", m.ID, m.Status)
		}
	}
}

func TestUpdateMeetingUnknownRollRollsBack(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	id := fx.schedule(t, svc, "2025-06-01", "10:00", "Past")

	_, err := svc.CompleteGroupMeetings(context.Background(), fx.facultyPrincipal(fx.mentor), id, &dto.CompleteMeetingRequest{
		StudentReviews: []domain.StudentReview{{RollNumber: 101, Review: "ok"}, {RollNumber: 555, Review: "ghost"}},
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want validation error", err)
	}
	for _, m := range fx.store.st.meetings {
		if m.Status != domain.MeetingUpcoming || m.Review != "" {
			t.Errorf("row %d changed: %s %q", m.ID, m.Status, m.Review)
		}
	}
}

func TestListStudentMeetingsDerivesDisplayStatus(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	fx.schedule(t, svc, "2025-06-01", "10:00", "Past")
	fx.schedule(t, svc, "2025-07-01", "10:00", "Next")

	got, err := svc.ListStudentMeetings(context.Background(), fx.studentPrincipal(fx.students[0]))
	if err != nil {
		t.Fatalf("ListStudentMeetings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("%d meetings, want 2", len(got))
	}
	if got[0].DisplayStatus != domain.MeetingYetToDone || got[0].Status != domain.MeetingUpcoming {
		t.Errorf("past meeting = %s stored %s", got[0].DisplayStatus, got[0].Status)
	}
	if got[1].DisplayStatus != domain.MeetingUpcoming || got[1].FacultyName != fx.mentor.Name {
		t.Errorf("next meeting = %+v", got[1])
	}

	if _, err := svc.ListStudentMeetings(context.Background(), fx.facultyPrincipal(fx.mentor)); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("faculty: err = %v, want forbidden", err)
	}
}

func TestScheduleGroupMeetingsRejectsExistingSlot(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	ctx := context.Background()
	fx.schedule(t, svc, "2025-07-01", "09:00", "Orientation")
	notified := fx.notifier.count()

	req := &dto.ScheduleGroupMeetingsRequest{
		Year: 2, Semester: 1,
		Meetings: []dto.MeetingSpec{
			{Date: "2025-07-20", Time: "10:00", Description: "Follow-up"},
			{Date: "2025-07-01", Time: "09:00", Description: "Orientation "},
		},
	}
	if _, err := svc.ScheduleGroupMeetings(ctx, fx.facultyPrincipal(fx.mentor), req); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if len(fx.store.st.meetings) != 5 || fx.notifier.count() != notified {
		t.Fatalf("rows=%d notifications=%d after rejected schedule", len(fx.store.st.meetings), fx.notifier.count())
	}

	group, err := newMentorshipSvc(fx, "close").GetMentorshipGroup(ctx, fx.facultyPrincipal(fx.mentor), 0, 2, 1)
	if err != nil {
		t.Fatalf("GetMentorshipGroup: %v", err)
	}
	if len(group.Meetings) != 1 || group.Meetings[0].StudentCount != 5 {
		t.Fatalf("groups = %+v", group.Meetings)
	}
}

func TestUpdateMeetingRejectsDescriptionOfAnotherSlot(t *testing.T) {
	fx := newFixture()
	svc := newMeetingSvc(fx)
	ctx := context.Background()
	id := fx.schedule(t, svc, "2025-07-01", "09:00", "Orientation")
	fx.schedule(t, svc, "2025-07-01", "09:00", "Career talk")

	clash := "Career talk"
	_, err := svc.UpdateMeeting(ctx, fx.facultyPrincipal(fx.mentor), id, &dto.UpdateMeetingRequest{
		Status:      domain.MeetingUpcoming,
		Description: &clash,
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if rows := fx.groupRows(fx.mentor.ID, domain.GroupKey{Date: "2025-07-01", Time: "09:00", Description: "Orientation"}); len(rows) != 5 {
		t.Errorf("orientation group has %d rows, want 5", len(rows))
	}
}
