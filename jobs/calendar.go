package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/fxtracker/fx-tracker/internal/utils"
	"github.com/fxtracker/fx-tracker/scavenger/ffcal"
)

// sectionDateLayout is the format of the date markers on the calendar page,
// e.g. "Tue Feb 18" (no zero padding).
const sectionDateLayout = "Mon Jan 2"

// CalendarJob fetches today's calendar events and publishes them to the channel.
type CalendarJob struct {
	calendar        EventsFetcher   // calendar source that will fetch the events
	publisher       Publisher       // publisher that will publish the summary to the channel
	clock           clockwork.Clock // clock that decides what "today" is
	location        *time.Location  // timezone used to resolve the current date
	calendarPageURL string          // calendar page linked in the message footer
	logger          *slog.Logger    // special logger for the job
}

func NewCalendarJob(
	calendar EventsFetcher,
	publisher Publisher,
	clock clockwork.Clock,
	location *time.Location,
	calendarPageURL string,
) *CalendarJob {
	return &CalendarJob{
		calendar:        calendar,
		publisher:       publisher,
		clock:           clock,
		location:        location,
		calendarPageURL: calendarPageURL,
		logger:          slog.Default(),
	}
}

// RunDailyCalendarJob returns the job that posts today's economic calendar
// summary to the channel. Extraction and delivery failures are logged and
// reported, never escalated: the scheduler owns the at-most-once bookkeeping
// and a failed run must not crash the process or re-open the daily window.
func (j *CalendarJob) RunDailyCalendarJob() JobFunc {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		runID := uuid.New().String()
		today := j.clock.Now().In(j.location).Format(sectionDateLayout)
		j.logger.Info("[calendar] Running daily summary", "run_id", runID, "date", today)

		tx := sentry.StartTransaction(ctx, "RunDailyCalendarJob")
		tx.Op = "job-calendar"

		// Sentry performance monitoring
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
			ctx = sentry.SetHubOnContext(ctx, hub)
		}

		defer func() {
			tx.Finish()
			hub.Flush(2 * time.Second)
		}()

		span := tx.StartChild("Calendar.FetchDailyEvents")
		events, err := j.calendar.FetchDailyEvents(ctx, today)
		span.Finish()
		if err != nil {
			// Recoverable: treat the day as having no events.
			e := fmt.Errorf("[job-calendar] error fetching events: %w", err)
			j.logger.Error(e.Error(), "run_id", runID)
			utils.CaptureSentryException("jobCalendarFetchError", hub, e)
			events = nil
		}

		if len(events) == 0 {
			j.logger.Info("[calendar] No events for today", "run_id", runID, "date", today)
			return
		}

		m := formatDailyEvents(events, j.calendarPageURL)

		span = tx.StartChild("Publisher.Publish")
		err = j.publisher.Publish(ctx, m)
		span.Finish()
		if err != nil {
			e := fmt.Errorf("[job-calendar] error publishing events: %w", err)
			j.logger.Error(e.Error(), "run_id", runID)
			utils.CaptureSentryException("jobCalendarPublishError", hub, e)
			return
		}

		j.logger.Info("[calendar] Daily summary published", "run_id", runID, "events", len(events))
	}
}

// formatDailyEvents formats events to the text for publishing to the channel.
func formatDailyEvents(events ffcal.CalendarEvents, calendarPageURL string) string {
	if len(events) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("**📢 Today's Forex Economic Calendar**\n")

	majors := lo.CountBy(events, func(e *ffcal.CalendarEvent) bool {
		return e.Impact == ffcal.ImpactMajor
	})
	if majors > 0 {
		b.WriteString(fmt.Sprintf("%d high-impact %s today\n", majors, pluralEvents(majors)))
	}
	b.WriteString("\n")

	for _, e := range events {
		b.WriteString(fmt.Sprintf("🕒 **%s** | %s %s", e.Time, ffcal.ImpactEmoji[e.Impact], e.Impact))
		if e.Currency != "" {
			b.WriteString(fmt.Sprintf(" | **%s**", e.Currency))
		}
		b.WriteString(fmt.Sprintf(" | **%s**", e.Title))

		var values []string
		if e.Actual != "" {
			values = append(values, "actual: "+e.Actual)
		}
		if e.Forecast != "" {
			values = append(values, "forecast: "+e.Forecast)
		}
		if e.Previous != "" {
			values = append(values, "previous: "+e.Previous)
		}
		if len(values) > 0 {
			b.WriteString(" (" + strings.Join(values, ", ") + ")")
		}

		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n🔗 [View Full Calendar](%s)", calendarPageURL))
	return b.String()
}

func pluralEvents(n int) string {
	if n == 1 {
		return "event"
	}
	return "events"
}
