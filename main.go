package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/fxtracker/fx-tracker/scavenger/ffcal"
)

func main() {
	env, err := loadEnv()
	if err != nil {
		panic(err)
	}

	level := slog.LevelInfo
	if env.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	if env.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              env.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			panic(fmt.Errorf("sentry.Init: %w", err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	app := NewApp(NewConfig(env))
	app.start()
}

// envKeys are the environment variables read into Env.
// Viper needs an explicit bind for each of them before Unmarshal.
var envKeys = []string{
	"DISCORD_WEBHOOK_URL",
	"DISCORD_CHANNEL_ID",
	"CALENDAR_URL",
	"POST_HOUR",
	"POST_MINUTE",
	"TIMEZONE",
	"SENTRY_DSN",
	"DEBUG",
}

// loadEnv reads the environment into Env and validates the required values.
// A missing webhook credential is the only fatal startup condition.
func loadEnv() (*Env, error) {
	viper.AutomaticEnv()
	viper.SetDefault("CALENDAR_URL", ffcal.CalendarURL)
	viper.SetDefault("POST_HOUR", 7)
	viper.SetDefault("POST_MINUTE", 0)
	viper.SetDefault("TIMEZONE", "America/New_York")

	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding env key %s: %w", key, err)
		}
	}

	env := &Env{}
	if err := viper.Unmarshal(env); err != nil {
		return nil, fmt.Errorf("error unmarshalling env: %w", err)
	}
	if err := validator.New().Struct(env); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return env, nil
}
