package scavenger

import "github.com/fxtracker/fx-tracker/scavenger/ffcal"

// Scavenger is the struct that fetches custom data from defined sources.
// The Scavenger holds all available sources and fetches the data from them.
//
// Right now the only source is the ForexFactory economic calendar page.
type Scavenger struct {
	ForexCalendar *ffcal.Calendar
}
