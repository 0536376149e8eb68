package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// MeetingEvent names what happened to a meeting.
type MeetingEvent string

const (
	EventScheduled MeetingEvent = "scheduled"
	EventApproved  MeetingEvent = "approved"
	EventUpdated   MeetingEvent = "updated"
	EventCancelled MeetingEvent = "cancelled"
)

// MeetingMail is one rendered-per-recipient meeting notification.
type MeetingMail struct {
	ToEmail       string
	ToName        string
	Event         MeetingEvent
	OrganizerName string
	Date          string
	Time          string
	Description   string
	HODIncluded   bool
}

// MeetingMailer sends meeting notifications
type MeetingMailer interface {
	SendMeetingNotification(ctx context.Context, mail MeetingMail) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// Configured reports whether credentials are present. Without them mail is
// logged instead of sent.
func (c SMTPConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

// SMTPMailer implements MeetingMailer over SMTP
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

var meetingTemplate = template.Must(template.New("meeting").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Mentorship meeting {{.Event}}</h2>
		<p>Hello {{.ToName}},</p>
		<p>{{.OrganizerName}} has {{.Event}} a mentorship meeting.</p>
		<table style="margin: 20px 0;">
			<tr><td><strong>Date</strong></td><td>{{.Date}}</td></tr>
			<tr><td><strong>Time</strong></td><td>{{.Time}}</td></tr>
			{{if .Description}}<tr><td><strong>Agenda</strong></td><td>{{.Description}}</td></tr>{{end}}
		</table>
		{{if .HODIncluded}}<p>The head of department will attend this meeting.</p>{{end}}
		<p>Best regards,<br>MentorHub</p>
	</div>
</body>
</html>`))

// Subject returns the subject line for the mail
func (m MeetingMail) Subject() string {
	return fmt.Sprintf("Mentorship meeting %s: %s %s", m.Event, m.Date, m.Time)
}

// RenderMeetingMail renders the HTML body of a meeting notification
func RenderMeetingMail(mail MeetingMail) (string, error) {
	var buf bytes.Buffer
	if err := meetingTemplate.Execute(&buf, mail); err != nil {
		return "", fmt.Errorf("failed to render meeting mail: %w", err)
	}
	return buf.String(), nil
}

// SendMeetingNotification renders and sends one notification
func (s *SMTPMailer) SendMeetingNotification(ctx context.Context, mail MeetingMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := RenderMeetingMail(mail)
	if err != nil {
		return err
	}

	if !s.config.Configured() {
		s.logger.Info().
			Str("toEmail", mail.ToEmail).
			Str("subject", mail.Subject()).
			Msg("SMTP credentials not configured - meeting notification logged, not sent")
		return nil
	}

	return s.sendHTMLEmail(mail.ToEmail, mail.Subject(), body)
}

func (s *SMTPMailer) buildMessage(toEmail, subject, htmlBody string) []byte {
	var b strings.Builder
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)},
		{"To", toEmail},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// sendHTMLEmail sends an HTML email
func (s *SMTPMailer) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	message := s.buildMessage(toEmail, subject, htmlBody)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create SMTP client")
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		s.logger.Error().Err(err).Msg("SMTP authentication failed")
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
