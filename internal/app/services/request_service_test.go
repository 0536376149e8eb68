package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/apperrors"
)

const internshipData = `{"semester":5,"type":"Summer","organisation":"  Acme Labs ","stipend":15000,"duration":"8 weeks","location":"Pune"}`

func newRequestSvc(fx *fixture) RequestService {
	return NewRequestService(fx.store, fx.notifier, fixedClock, zerolog.Nop())
}

func submit(t *testing.T, svc RequestService, p *auth.Principal, typ domain.RequestType, data string, target *int64) *models.Request {
	t.Helper()
	req := &dto.SubmitRequestRequest{Type: typ, TargetID: target}
	if data != "" {
		req.RequestData = json.RawMessage(data)
	}
	created, err := svc.Submit(context.Background(), p, req)
	if err != nil {
		t.Fatalf("Submit(%s): %v", typ, err)
	}
	return created
}

func meetingRequestData(facultyID int64) string {
	b, _ := json.Marshal(map[string]interface{}{
		"facultyId":   facultyID,
		"date":        "2025-07-01",
		"time":        "10:00",
		"description": " Career chat ",
	})
	return string(b)
}

func (fx *fixture) requestStatus(id int64) domain.RequestStatus {
	return fx.store.st.requests[id].Status
}

func TestSubmitRoutesToMentorThenHOD(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	fx.assign(fx.mentor, 2, 1, fx.students[0])

	withMentor := submit(t, svc, fx.studentPrincipal(fx.students[0]), domain.RequestInternship, internshipData, nil)
	if withMentor.AssignedTo != fx.mentor.ID {
		t.Errorf("assignedTo = %d, want mentor %d", withMentor.AssignedTo, fx.mentor.ID)
	}
	if withMentor.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", withMentor.Status)
	}

	withoutMentor := submit(t, svc, fx.studentPrincipal(fx.students[1]), domain.RequestInternship, internshipData, nil)
	if withoutMentor.AssignedTo != fx.head.ID {
		t.Errorf("assignedTo = %d, want HOD %d", withoutMentor.AssignedTo, fx.head.ID)
	}

	meeting := submit(t, svc, fx.studentPrincipal(fx.students[1]), domain.RequestMeeting, meetingRequestData(fx.other.ID), nil)
	if meeting.AssignedTo != fx.other.ID {
		t.Errorf("meeting request assignedTo = %d, want %d", meeting.AssignedTo, fx.other.ID)
	}

	ctx := context.Background()
	orphanDept := models.Department{Name: "Mechanical", Code: "MEC"}
	_ = fx.store.Departments().Create(ctx, &orphanDept)
	orphan := models.Student{RollNumber: 301, Name: "Orphan", DepartmentID: orphanDept.ID}
	_ = fx.store.Students().Create(ctx, &orphan)

	_, err := svc.Submit(ctx, fx.studentPrincipal(orphan), &dto.SubmitRequestRequest{
		Type: domain.RequestInternship, RequestData: json.RawMessage(internshipData),
	})
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("err = %v, want not found when no mentor or HOD exists", err)
	}
}

func TestSubmitRejectsInvalidPayloadAndNonStudents(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()

	tests := []struct {
		name string
		p    *auth.Principal
		req  *dto.SubmitRequestRequest
		want error
	}{
		{"faculty cannot submit", fx.facultyPrincipal(fx.mentor), &dto.SubmitRequestRequest{Type: domain.RequestInternship, RequestData: json.RawMessage(internshipData)}, apperrors.ErrPermissionDenied},
		{"unknown type", fx.studentPrincipal(fx.students[0]), &dto.SubmitRequestRequest{Type: "PROMOTION", RequestData: json.RawMessage(`{}`)}, apperrors.ErrValidationFailed},
		{"missing fields", fx.studentPrincipal(fx.students[0]), &dto.SubmitRequestRequest{Type: domain.RequestProject, RequestData: json.RawMessage(`{"semester":3}`)}, apperrors.ErrValidationFailed},
		{"bad meeting date", fx.studentPrincipal(fx.students[0]), &dto.SubmitRequestRequest{Type: domain.RequestMeeting, RequestData: json.RawMessage(`{"facultyId":1,"date":"01-07-2025","time":"10:00"}`)}, apperrors.ErrValidationFailed},
		{"delete without target", fx.studentPrincipal(fx.students[0]), &dto.SubmitRequestRequest{Type: domain.RequestDeleteProject}, apperrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.p, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if len(fx.store.st.requests) != 0 {
		t.Errorf("%d requests stored, want none", len(fx.store.st.requests))
	}
}

func TestSubmitDeleteChecksTarget(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()

	owned := models.Internship{StudentID: fx.students[0].ID, Semester: 5, Organisation: "Acme"}
	_ = fx.store.Internships().Create(ctx, &owned)
	missing := int64(9999)

	_, err := svc.Submit(ctx, fx.studentPrincipal(fx.students[0]), &dto.SubmitRequestRequest{Type: domain.RequestDeleteInternship, TargetID: &missing})
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("missing target: err = %v, want not found", err)
	}

	_, err = svc.Submit(ctx, fx.studentPrincipal(fx.students[1]), &dto.SubmitRequestRequest{Type: domain.RequestDeleteInternship, TargetID: &owned.ID})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign target: err = %v, want forbidden", err)
	}

	first := submit(t, svc, fx.studentPrincipal(fx.students[0]), domain.RequestDeleteInternship, "", &owned.ID)
	if first.TargetID == nil || *first.TargetID != owned.ID {
		t.Errorf("targetId not stored: %+v", first.TargetID)
	}

	_, err = svc.Submit(ctx, fx.studentPrincipal(fx.students[0]), &dto.SubmitRequestRequest{Type: domain.RequestDeleteInternship, TargetID: &owned.ID})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("duplicate pending delete: err = %v, want conflict", err)
	}
}

func TestRejectRequiresFeedbackForEveryType(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()

	types := []domain.RequestType{
		domain.RequestInternship,
		domain.RequestProject,
		domain.RequestDeleteInternship,
		domain.RequestDeleteProject,
		domain.RequestMeeting,
	}
	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			req := &models.Request{StudentID: fx.students[0].ID, Type: typ, Status: domain.StatusPending, AssignedTo: fx.mentor.ID}
			_ = fx.store.Requests().Create(ctx, req)

			for _, feedback := range []string{"", "   ", "\n\t"} {
				_, err := svc.Reject(ctx, fx.facultyPrincipal(fx.mentor), req.ID, feedback)
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Fatalf("feedback %q: err = %v, want validation error", feedback, err)
				}
			}
			if got := fx.requestStatus(req.ID); got != domain.StatusPending {
				t.Fatalf("status = %s, want PENDING", got)
			}

			rejected, err := svc.Reject(ctx, fx.facultyPrincipal(fx.mentor), req.ID, "  missing documents ")
			if err != nil {
				t.Fatalf("Reject: %v", err)
			}
			if rejected.Status != domain.StatusRejected || rejected.Feedback == nil || *rejected.Feedback != "missing documents" {
				t.Fatalf("unexpected rejected request %+v", rejected)
			}
		})
	}

	if _, err := svc.Reject(ctx, fx.facultyPrincipal(fx.mentor), 424242, " "); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("blank feedback on missing request: err = %v, want validation error first", err)
	}
}

func TestApproveMeetingRequestCreatesOneUpcomingRow(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()
	student := fx.students[0]
	fx.assign(fx.mentor, 2, 1, student)

	req := submit(t, svc, fx.studentPrincipal(student), domain.RequestMeeting, meetingRequestData(fx.mentor.ID), nil)

	approved, err := svc.Approve(ctx, fx.facultyPrincipal(fx.mentor), req.ID, "")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != domain.StatusApproved || approved.ActionedAt == nil {
		t.Fatalf("unexpected approved request %+v", approved)
	}

	if len(fx.store.st.meetings) != 1 {
		t.Fatalf("%d meetings created, want exactly 1", len(fx.store.st.meetings))
	}
	for _, m := range fx.store.st.meetings {
		if m.Status != domain.MeetingUpcoming {
			t.Errorf("status = %s, want UPCOMING", m.Status)
		}
		if m.StudentID != student.ID || m.FacultyID != fx.mentor.ID {
			t.Errorf("meeting bound to student %d faculty %d", m.StudentID, m.FacultyID)
		}
		if m.Description != "Career chat" || m.Date != "2025-07-01" || m.Time != "10:00" {
			t.Errorf("unexpected slot %+v", m)
		}
	}
	if fx.notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", fx.notifier.count())
	}

	if _, err := svc.Approve(ctx, fx.facultyPrincipal(fx.mentor), req.ID, ""); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("second approve: err = %v, want conflict", err)
	}
	if len(fx.store.st.meetings) != 1 {
		t.Fatalf("second approve created a meeting")
	}
}

func TestApproveMeetingWithoutMentorshipRollsBack(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()

	req := submit(t, svc, fx.studentPrincipal(fx.students[1]), domain.RequestMeeting, meetingRequestData(fx.mentor.ID), nil)

	_, err := svc.Approve(ctx, fx.facultyPrincipal(fx.mentor), req.ID, "")
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want forbidden without an active mentorship", err)
	}
	if fx.requestStatus(req.ID) != domain.StatusPending {
		t.Errorf("request left in %s", fx.requestStatus(req.ID))
	}
	if len(fx.store.st.meetings) != 0 || fx.notifier.count() != 0 {
		t.Errorf("side effects leaked: meetings=%d notifications=%d", len(fx.store.st.meetings), fx.notifier.count())
	}
}

func TestApproveRollsBackWhenEffectFails(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	fx.assign(fx.mentor, 2, 1, fx.students[0])
	req := submit(t, svc, fx.studentPrincipal(fx.students[0]), domain.RequestInternship, internshipData, nil)

	fx.store.fail["Internships.Create"] = errors.New("disk full")
	if _, err := svc.Approve(context.Background(), fx.facultyPrincipal(fx.mentor), req.ID, ""); err == nil {
		t.Fatal("expected error")
	}
	if fx.requestStatus(req.ID) != domain.StatusPending {
		t.Errorf("request left in %s", fx.requestStatus(req.ID))
	}
	if len(fx.store.st.internships) != 0 {
		t.Errorf("internship written despite failure")
	}
}

func TestApproveAppliesRecordEffects(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()
	student := fx.students[0]
	fx.assign(fx.mentor, 2, 1, student)
	mentor := fx.facultyPrincipal(fx.mentor)

	in := submit(t, svc, fx.studentPrincipal(student), domain.RequestInternship, internshipData, nil)
	if _, err := svc.Approve(ctx, mentor, in.ID, "looks good"); err != nil {
		t.Fatalf("Approve internship: %v", err)
	}
	if len(fx.store.st.internships) != 1 {
		t.Fatalf("internships = %d, want 1", len(fx.store.st.internships))
	}
	for _, rec := range fx.store.st.internships {
		if rec.Organisation != "Acme Labs" || rec.Stipend != 15000 || rec.StudentID != student.ID {
			t.Errorf("unexpected internship %+v", rec)
		}
	}

	project := models.Project{StudentID: student.ID, Semester: 4, Title: "Compiler"}
	_ = fx.store.Projects().Create(ctx, &project)
	del := submit(t, svc, fx.studentPrincipal(student), domain.RequestDeleteProject, "", &project.ID)
	if _, err := svc.Approve(ctx, mentor, del.ID, ""); err != nil {
		t.Fatalf("Approve delete: %v", err)
	}
	if _, ok := fx.store.st.projects[project.ID]; ok {
		t.Error("project still present after approved delete")
	}
}

func TestActionAuthorizationOrder(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()
	fx.assign(fx.mentor, 2, 1, fx.students[0])
	req := submit(t, svc, fx.studentPrincipal(fx.students[0]), domain.RequestProject,
		`{"semester":4,"title":"Compiler","description":"A toy compiler"}`, nil)

	if _, err := svc.Approve(ctx, fx.facultyPrincipal(fx.mentor), 9999, ""); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("missing: err = %v, want not found", err)
	}
	if _, err := svc.Approve(ctx, fx.facultyPrincipal(fx.other), req.ID, ""); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("unassigned faculty: err = %v, want forbidden", err)
	}
	if _, err := svc.Approve(ctx, fx.facultyPrincipal(fx.eceHead), req.ID, ""); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other department HOD: err = %v, want forbidden", err)
	}
	if _, err := svc.Approve(ctx, fx.facultyPrincipal(fx.head), req.ID, ""); err != nil {
		t.Fatalf("department HOD approve: %v", err)
	}
	if _, err := svc.Reject(ctx, fx.facultyPrincipal(fx.other), req.ID, "late"); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("unassigned faculty on actioned request: err = %v, want forbidden before conflict", err)
	}
	if _, err := svc.Reject(ctx, fx.facultyPrincipal(fx.mentor), req.ID, "late"); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("actioned request: err = %v, want conflict", err)
	}
	if _, err := svc.Approve(ctx, fx.adminPrincipal(), req.ID, ""); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("admin on actioned request: err = %v, want conflict", err)
	}
}

func TestCancelMatrix(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()
	owner := fx.studentPrincipal(fx.students[0])
	fx.assign(fx.mentor, 2, 1, fx.students[0])

	pending := submit(t, svc, owner, domain.RequestInternship, internshipData, nil)
	approved := submit(t, svc, owner, domain.RequestInternship, internshipData, nil)
	if _, err := svc.Approve(ctx, fx.facultyPrincipal(fx.mentor), approved.ID, ""); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	tests := []struct {
		name    string
		p       *auth.Principal
		id      int64
		want    error
		message string
	}{
		{"other student", fx.studentPrincipal(fx.students[1]), pending.ID, apperrors.ErrPermissionDenied, ""},
		{"assigned mentor", fx.facultyPrincipal(fx.mentor), pending.ID, apperrors.ErrPermissionDenied, ""},
		{"owner on approved", owner, approved.ID, apperrors.ErrConflict, "request is already approved"},
		{"owner on missing", owner, 9999, apperrors.ErrResourceNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Cancel(ctx, tt.p, tt.id)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if tt.message != "" && apperrors.Message(err) != tt.message {
				t.Fatalf("message = %q, want %q", apperrors.Message(err), tt.message)
			}
		})
	}

	cancelled, err := svc.Cancel(ctx, owner, pending.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}
	if _, ok := fx.store.st.requests[pending.ID]; !ok {
		t.Error("cancelled request row was removed")
	}
	if _, err := svc.Cancel(ctx, owner, pending.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("second cancel: err = %v, want conflict", err)
	}
}

func TestListScopesByCaller(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()
	fx.assign(fx.mentor, 2, 1, fx.students[0])

	submit(t, svc, fx.studentPrincipal(fx.students[0]), domain.RequestInternship, internshipData, nil)
	submit(t, svc, fx.studentPrincipal(fx.students[1]), domain.RequestInternship, internshipData, nil)

	mine, err := svc.ListMine(ctx, fx.studentPrincipal(fx.students[0]), models.RequestFilter{Page: 1, Size: 10})
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine.Requests) != 1 || mine.TotalItems != 1 {
		t.Errorf("ListMine returned %d requests (total %d), want 1", len(mine.Requests), mine.TotalItems)
	}

	assigned, err := svc.ListAssigned(ctx, fx.facultyPrincipal(fx.head), models.RequestFilter{Page: 1, Size: 10})
	if err != nil {
		t.Fatalf("ListAssigned: %v", err)
	}
	if len(assigned.Requests) != 1 || assigned.Requests[0].StudentID != fx.students[1].ID {
		t.Errorf("HOD assigned list = %+v", assigned.Requests)
	}

	bad := domain.RequestStatus("DONE")
	if _, err := svc.ListMine(ctx, fx.studentPrincipal(fx.students[0]), models.RequestFilter{Status: &bad}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("bad status filter: err = %v, want validation error", err)
	}
	if _, err := svc.ListAssigned(ctx, fx.studentPrincipal(fx.students[0]), models.RequestFilter{}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("student ListAssigned: err = %v, want forbidden", err)
	}
}

func TestGetVisibility(t *testing.T) {
	fx := newFixture()
	svc := newRequestSvc(fx)
	ctx := context.Background()
	fx.assign(fx.mentor, 2, 1, fx.students[0])
	req := submit(t, svc, fx.studentPrincipal(fx.students[0]), domain.RequestInternship, internshipData, nil)

	for name, p := range map[string]*auth.Principal{
		"owner":  fx.studentPrincipal(fx.students[0]),
		"mentor": fx.facultyPrincipal(fx.mentor),
		"hod":    fx.facultyPrincipal(fx.head),
		"admin":  fx.adminPrincipal(),
	} {
		if _, err := svc.Get(ctx, p, req.ID); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := svc.Get(ctx, fx.studentPrincipal(fx.students[1]), req.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("other student: err = %v, want forbidden", err)
	}
}
