package main

import "github.com/fxtracker/fx-tracker/scavenger/ffcal"

// Env is a structure that holds all the environment variables that are used in the app.
type Env struct {
	DiscordWebhookURL string `mapstructure:"DISCORD_WEBHOOK_URL" validate:"required,url"`
	DiscordChannelID  string `mapstructure:"DISCORD_CHANNEL_ID"`
	CalendarURL       string `mapstructure:"CALENDAR_URL" validate:"required,url"`
	PostHour          int    `mapstructure:"POST_HOUR" validate:"min=0,max=23"`
	PostMinute        int    `mapstructure:"POST_MINUTE" validate:"min=0,max=59"`
	Timezone          string `mapstructure:"TIMEZONE" validate:"required"`
	SentryDSN         string `mapstructure:"SENTRY_DSN"`
	Debug             bool   `mapstructure:"DEBUG"`
}

type Config struct {
	env     *Env                            // Holds all the environment variables that are used in the app
	headers map[string]string               // Browser-like headers sent with the calendar fetch
	impacts map[string]ffcal.CalendarImpact // Impact colour token to impact level mapping
}

// NewConfig creates a new Config object with the given Env and default values from DefaultConfig.
func NewConfig(env *Env) *Config {
	c := DefaultConfig()
	c.env = env
	return c
}

// DefaultConfig creates a new Config object with default values.
func DefaultConfig() *Config {
	return &Config{
		env: &Env{},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		impacts: map[string]ffcal.CalendarImpact{
			"red": ffcal.ImpactMajor,
			"ora": ffcal.ImpactMedium,
			"yel": ffcal.ImpactLow,
			"gra": ffcal.ImpactNonEconomic,
		},
	}
}
