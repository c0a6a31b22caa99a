package jobs

import (
	"context"

	"github.com/fxtracker/fx-tracker/scavenger/ffcal"
)

// JobFunc is a type for job function that will be executed by the scheduler.
type JobFunc func()

// EventsFetcher fetches the economic calendar events scheduled for one day.
type EventsFetcher interface {
	FetchDailyEvents(ctx context.Context, targetDate string) (ffcal.CalendarEvents, error)
}

// Publisher delivers a formatted message to the channel.
type Publisher interface {
	Publish(ctx context.Context, content string) error
}
