// Package notify delivers meeting notifications off the request path.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/mentorhub/internal/pkg/email"
)

// sendTimeout bounds a single delivery attempt.
const sendTimeout = 30 * time.Second

// Participant is one recipient of a meeting notification.
type Participant struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

// MeetingInfo describes the meeting being announced.
type MeetingInfo struct {
	Event         email.MeetingEvent
	OrganizerName string
	Date          string
	Time          string
	Description   string
	HODIncluded   bool
}

// Notifier accepts notifications without blocking the caller.
type Notifier interface {
	Notify(participants []Participant, info MeetingInfo)
}

// Dispatcher fans notifications out to a fixed pool of workers.
type Dispatcher struct {
	sender  email.MeetingMailer
	logger  zerolog.Logger
	workers int

	mu     sync.RWMutex
	jobs   chan email.MeetingMail
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given pool size and queue capacity.
func NewDispatcher(sender email.MeetingMailer, workers, queueSize int, logger zerolog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		workers: workers,
		jobs:    make(chan email.MeetingMail, queueSize),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(i)
	}
	d.logger.Info().Int("workers", d.workers).Int("queueSize", cap(d.jobs)).Msg("Notification dispatcher started")
}

func (d *Dispatcher) run(worker int) {
	defer d.wg.Done()
	for mail := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.SendMeetingNotification(ctx, mail); err != nil {
			d.logger.Error().Err(err).
				Int("worker", worker).
				Str("toEmail", mail.ToEmail).
				Str("event", string(mail.Event)).
				Msg("Failed to deliver meeting notification")
		}
		cancel()
	}
}

// Notify queues one mail per participant with an address. It never blocks;
// when the queue is full the mail is dropped and logged.
func (d *Dispatcher) Notify(participants []Participant, info MeetingInfo) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn().Int("participants", len(participants)).Msg("Notification dispatcher stopped, dropping notifications")
		return
	}

	for _, p := range participants {
		if p.Email == "" {
			continue
		}
		mail := email.MeetingMail{
			ToEmail:       p.Email,
			ToName:        p.Name,
			Event:         info.Event,
			OrganizerName: info.OrganizerName,
			Date:          info.Date,
			Time:          info.Time,
			Description:   info.Description,
			HODIncluded:   info.HODIncluded,
		}
		select {
		case d.jobs <- mail:
		default:
			d.logger.Warn().Str("toEmail", p.Email).Msg("Notification queue full, dropping notification")
		}
	}
}

// Stop stops accepting work and waits for queued mail to drain or ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info().Msg("Notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fanout delivers every notification to each of its notifiers in order.
type Fanout []Notifier

// Notify implements Notifier
func (f Fanout) Notify(participants []Participant, info MeetingInfo) {
	for _, n := range f {
		n.Notify(participants, info)
	}
}

var (
	_ Notifier = (*Dispatcher)(nil)
	_ Notifier = Fanout(nil)
)
