package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/fxtracker/fx-tracker/jobs"
	"github.com/fxtracker/fx-tracker/publisher"
	"github.com/fxtracker/fx-tracker/scavenger"
	"github.com/fxtracker/fx-tracker/scavenger/ffcal"
	"github.com/fxtracker/fx-tracker/scheduler"
)

// App wires the calendar scavenger, the publisher and the daily scheduler.
type App struct {
	cfg    *Config
	logger *slog.Logger
}

func NewApp(cfg *Config) *App {
	return &App{
		cfg:    cfg,
		logger: slog.Default(),
	}
}

func (a *App) start() {
	location, err := time.LoadLocation(a.cfg.env.Timezone)
	if err != nil {
		panic(fmt.Errorf("unknown timezone %q: %w", a.cfg.env.Timezone, err))
	}

	clock := clockwork.NewRealClock()

	scv := &scavenger.Scavenger{
		ForexCalendar: ffcal.NewCalendar(a.cfg.env.CalendarURL, a.cfg.headers, a.cfg.impacts),
	}

	pub := publisher.NewDiscordPublisher(a.cfg.env.DiscordWebhookURL, a.cfg.env.DiscordChannelID)

	calendarJob := jobs.NewCalendarJob(
		scv.ForexCalendar,
		pub,
		clock,
		location,
		a.cfg.env.CalendarURL,
	)

	s := scheduler.New(clock, location, a.cfg.env.PostHour, a.cfg.env.PostMinute)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("Started fx-tracker successfully",
		"post_hour", a.cfg.env.PostHour,
		"post_minute", a.cfg.env.PostMinute,
		"timezone", a.cfg.env.Timezone,
	)
	s.Run(ctx, calendarJob.RunDailyCalendarJob())
}
