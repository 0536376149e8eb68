package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/app/auth"
	"github.com/yigit/mentorhub/internal/app/models"
	"github.com/yigit/mentorhub/internal/app/models/dto"
	"github.com/yigit/mentorhub/internal/app/repositories"
	"github.com/yigit/mentorhub/internal/domain"
	"github.com/yigit/mentorhub/internal/pkg/filestorage"
)

const reportDir = "reports"

// ReportService renders mentorship reports to stored documents
type ReportService interface {
	GenerateMentorshipReport(ctx context.Context, p *auth.Principal, req *dto.GenerateReportRequest) (*dto.ReportResponse, error)
}

type reportServiceImpl struct {
	store   repositories.Store
	storage filestorage.FileStorage
	loc     *time.Location
	now     Clock
	logger  zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(store repositories.Store, storage filestorage.FileStorage, loc *time.Location, now Clock, logger zerolog.Logger) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportServiceImpl{
		store:   store,
		storage: storage,
		loc:     loc,
		now:     now,
		logger:  logger,
	}
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Mentorship report: {{.Faculty.Name}}</title></head>
<body>
<h1>Mentorship report</h1>
<p>Mentor: {{.Faculty.Name}} ({{.Faculty.EmployeeID}})<br>
Year {{.Year}}, semester {{.Semester}}<br>
Generated {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>

<h2>Mentees ({{len .Mentees}})</h2>
<table border="1">
<tr><th>Roll number</th><th>Name</th><th>Email</th></tr>
{{range .Mentees}}<tr><td>{{.RollNumber}}</td><td>{{.Name}}</td><td>{{.CollegeEmail}}</td></tr>
{{end}}</table>

<h2>Meetings</h2>
<p>Total {{.Stats.Total}}, completed {{.Stats.Completed}}, upcoming {{.Stats.Upcoming}}, pending review {{.Stats.YetToDone}}, cancelled {{.Stats.Cancelled}}</p>
{{range .Meetings}}
<h3>{{.Date}} {{.Time}} [{{.DisplayStatus}}]</h3>
<p>{{.Description}}</p>
<table border="1">
<tr><th>Roll number</th><th>Name</th><th>Attended</th><th>Review</th></tr>
{{range .Students}}<tr><td>{{.RollNumber}}</td><td>{{.Name}}</td><td>{{if .Attended}}yes{{else}}no{{end}}</td><td>{{.Review}}</td></tr>
{{end}}</table>
{{else}}<p>No meetings recorded.</p>
{{end}}
</body>
</html>
`))

type reportData struct {
	Faculty     *models.Faculty
	Year        int
	Semester    int
	GeneratedAt time.Time
	Mentees     []models.Student
	Meetings    []domain.GroupMeeting
	Stats       domain.MeetingStats
}

// GenerateMentorshipReport renders a mentor's group view for the term and stores it
func (s *reportServiceImpl) GenerateMentorshipReport(ctx context.Context, p *auth.Principal, req *dto.GenerateReportRequest) (*dto.ReportResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	faculty, err := organizerFor(ctx, s.store, p, req.FacultyID)
	if err != nil {
		return nil, err
	}

	mentees, err := s.store.Mentorships().ListActiveMentees(ctx, faculty.ID, req.Year, req.Semester)
	if err != nil {
		return nil, err
	}

	now := s.now()
	groups, err := facultyGroups(ctx, s.store, faculty.ID, mentorshipIDs(mentees), now, s.loc)
	if err != nil {
		return nil, err
	}

	data := reportData{
		Faculty:     faculty,
		Year:        req.Year,
		Semester:    req.Semester,
		GeneratedAt: now.In(s.loc),
		Meetings:    groups,
		Stats:       domain.Stats(groups),
	}
	for _, m := range mentees {
		data.Mentees = append(data.Mentees, m.Student)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	url, err := s.storage.SaveBytes(reportDir, "html", buf.Bytes())
	if err != nil {
		s.logger.Error().Err(err).Int64("facultyID", faculty.ID).Msg("Failed to store mentorship report")
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	s.logger.Info().Int64("facultyID", faculty.ID).Str("url", url).Msg("Mentorship report generated")
	return &dto.ReportResponse{URL: url, GeneratedAt: now}, nil
}
