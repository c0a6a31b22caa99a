package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fxtracker/fx-tracker/jobs"
)

const (
	defaultPollInterval = 45 * time.Second
	defaultCooldown     = 90 * time.Second

	dayLayout = "2006-01-02"
)

// Scheduler triggers the daily job once per day inside a one minute wide
// window. It polls the clock at a coarse interval instead of running a cron
// expression, which keeps the delivered-for-day bookkeeping explicit: the
// poll interval is shorter than the window, the cooldown after a delivery is
// longer, and the delivered day token blocks a second match on the same day.
type Scheduler struct {
	clock        clockwork.Clock // clock used for polling and the due check
	location     *time.Location  // timezone the post hour/minute refer to
	hour         int             // local hour of the daily post
	minute       int             // local minute of the daily post
	pollInterval time.Duration   // how often the clock is polled
	cooldown     time.Duration   // sleep after a delivery, must exceed the window width
	deliveredDay string          // local date of the last delivery, e.g. "2025-02-18"
	logger       *slog.Logger
}

// New creates a Scheduler that fires at hour:minute local time in location.
func New(clock clockwork.Clock, location *time.Location, hour, minute int) *Scheduler {
	return &Scheduler{
		clock:        clock,
		location:     location,
		hour:         hour,
		minute:       minute,
		pollInterval: defaultPollInterval,
		cooldown:     defaultCooldown,
		logger:       slog.Default(),
	}
}

// WithIntervals overrides the poll and cooldown intervals.
func (s *Scheduler) WithIntervals(poll, cooldown time.Duration) *Scheduler {
	s.pollInterval = poll
	s.cooldown = cooldown
	return s
}

// Run polls the clock until ctx is cancelled. Once per day, when the local
// time enters the configured minute, the job runs and the day is marked
// delivered. The mark happens regardless of the job's outcome: a persistent
// delivery failure must not flood the channel with retries, so at-most-once
// wins over at-least-once here.
func (s *Scheduler) Run(ctx context.Context, job jobs.JobFunc) {
	s.logger.Info("scheduler started",
		"hour", s.hour, "minute", s.minute, "timezone", s.location.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-s.clock.After(s.pollInterval):
		}

		now := s.clock.Now().In(s.location)
		if !s.isDue(now) {
			continue
		}

		job()

		s.deliveredDay = now.Format(dayLayout)
		s.logger.Info("daily window delivered", "day", s.deliveredDay)

		// Sleep past the trigger minute so the coarse poll cannot observe
		// the same matching minute twice.
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-s.clock.After(s.cooldown):
		}
	}
}

// isDue reports whether now is inside the daily trigger window and the day
// has not been delivered yet. The delivered day token resets implicitly when
// the local date changes.
func (s *Scheduler) isDue(now time.Time) bool {
	if now.Hour() != s.hour || now.Minute() != s.minute {
		return false
	}
	return now.Format(dayLayout) != s.deliveredDay
}
