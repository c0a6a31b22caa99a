package ffcal

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"

	"github.com/fxtracker/fx-tracker/pkg/errlvl"
)

const (
	// CalendarURL is the default ForexFactory calendar page.
	CalendarURL = "https://www.forexfactory.com/calendar"

	fetchTimeout = 10 * time.Second
	bodySnippet  = 500
)

// Cell selectors of the ForexFactory calendar table. The table spans a full
// week; date cells open a new day section and the rows below inherit it.
const (
	tableSelector    = "table.calendar__table"
	dateSelector     = "td.calendar__cell.calendar__date"
	timeSelector     = "td.calendar__cell.calendar__time"
	currencySelector = "td.calendar__cell.calendar__currency"
	impactSelector   = "td.calendar__cell.calendar__impact span"
	eventSelector    = "td.calendar__cell.calendar__event"
	actualSelector   = "td.calendar__cell.calendar__actual"
	forecastSelector = "td.calendar__cell.calendar__forecast"
	previousSelector = "td.calendar__cell.calendar__previous"
)

// CalendarImpact is the market impact level of a calendar event.
type CalendarImpact = string

const (
	ImpactMajor       CalendarImpact = "Major"        // High impact event (red folder)
	ImpactMedium      CalendarImpact = "Medium"       // Medium impact event (orange folder)
	ImpactLow         CalendarImpact = "Low"          // Low impact event (yellow folder)
	ImpactNonEconomic CalendarImpact = "Non-Economic" // Bank holidays, speeches etc. (gray folder)
	ImpactUnknown     CalendarImpact = "Unknown"      // Unrecognized impact token
)

// ImpactEmoji is the map of impact level to the emoji used in published messages.
var ImpactEmoji = map[CalendarImpact]string{
	ImpactMajor:       "🔴",
	ImpactMedium:      "🟠",
	ImpactLow:         "🟡",
	ImpactNonEconomic: "⚪",
	ImpactUnknown:     "⚪",
}

// DefaultImpactMapping maps the colour class tokens of the impact cell to
// impact levels. Tokens not present in the mapping resolve to ImpactUnknown.
var DefaultImpactMapping = map[string]CalendarImpact{
	"red": ImpactMajor,
	"ora": ImpactMedium,
	"yel": ImpactLow,
	"gra": ImpactNonEconomic,
}

// AllDay is the time value for events that have no clock time.
const AllDay = "All Day"

// Calendar fetches daily events from the ForexFactory calendar page.
type Calendar struct {
	url       string
	headers   map[string]string
	impacts   map[string]CalendarImpact
	client    *http.Client
	sanitizer *bluemonday.Policy
	logger    *slog.Logger
}

// NewCalendar creates a new Calendar instance. Empty url and nil impacts
// fall back to CalendarURL and DefaultImpactMapping.
func NewCalendar(url string, headers map[string]string, impacts map[string]CalendarImpact) *Calendar {
	if url == "" {
		url = CalendarURL
	}
	if impacts == nil {
		impacts = DefaultImpactMapping
	}
	return &Calendar{
		url:     url,
		headers: headers,
		impacts: impacts,
		client: &http.Client{
			Timeout: fetchTimeout,
		},
		sanitizer: bluemonday.StrictPolicy(),
		logger:    slog.Default(),
	}
}

// FetchDailyEvents fetches the calendar page and extracts the events whose
// date section equals targetDate (page section format, e.g. "Tue Feb 18",
// case-insensitive). An empty result is valid: no events for that day.
func (c *Calendar) FetchDailyEvents(ctx context.Context, targetDate string) (CalendarEvents, error) {
	doc, err := c.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}

	table := doc.Find(tableSelector)
	if table.Length() == 0 {
		raw, _ := doc.Html()
		c.logger.Error("calendar table not found", "body", firstN(raw, bodySnippet))
		return nil, newError(errlvl.ERROR, ErrUnexpectedFormat, fmt.Errorf("no %q element in response", tableSelector))
	}

	events := c.parseTable(table, targetDate)
	events = events.Distinct()
	events.SortByTime()

	return events, nil
}

// fetchDocument downloads and parses the calendar page. The site employs
// bot mitigation, so transient rejections are retried a few times before
// the whole fetch is reported as blocked.
func (c *Calendar) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	var doc *goquery.Document

	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		res, err := c.client.Do(req)
		if err != nil {
			return newError(errlvl.WARN, ErrNetworkFailure, err)
		}
		defer res.Body.Close()

		if res.StatusCode < 200 || res.StatusCode > 299 {
			return newError(errlvl.WARN, ErrBlockedOrChallenge, fmt.Errorf("invalid status code: %d, value %s", res.StatusCode, res.Status))
		}

		d, err := goquery.NewDocumentFromReader(res.Body)
		if err != nil {
			return newError(errlvl.ERROR, ErrUnexpectedFormat, err)
		}

		doc = d
		return nil
	},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// parseTable walks the table rows top to bottom, carrying the current
// section date. Only rows governed by a date marker equal to targetDate
// produce events. A malformed row is skipped, never fatal.
func (c *Calendar) parseTable(table *goquery.Selection, targetDate string) CalendarEvents {
	var events CalendarEvents
	currentDate := ""

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if cell := row.Find(dateSelector); cell.Length() > 0 {
			if d := c.cleanText(cell.First().Text()); d != "" {
				currentDate = d
			}
		}

		if !strings.EqualFold(currentDate, targetDate) {
			return
		}

		event, err := c.parseRow(row)
		if err != nil {
			c.logger.Debug("skipping calendar row", "row", i, "error", err)
			return
		}

		events = append(events, event)
	})

	return events
}

// parseRow extracts a single event from a table row. Rows without an event
// title or a currency cell carry no usable record and are reported as errors
// so the caller can skip them.
func (c *Calendar) parseRow(row *goquery.Selection) (*CalendarEvent, error) {
	eventCell := row.Find(eventSelector)
	if eventCell.Length() == 0 {
		return nil, errNoEventCell
	}
	title := c.cleanText(eventCell.First().Text())
	if title == "" {
		return nil, errNoEventCell
	}

	currencyCell := row.Find(currencySelector)
	if currencyCell.Length() == 0 {
		return nil, errNoCurrencyCell
	}
	currency := c.cleanText(currencyCell.First().Text())

	timeText := AllDay
	if cell := row.Find(timeSelector); cell.Length() > 0 {
		if v := c.cleanText(cell.First().Text()); v != "" {
			timeText = v
		}
	}
	timeOfDay, hasTime := parseClockTime(timeText)

	event := &CalendarEvent{
		Time:      timeText,
		TimeOfDay: timeOfDay,
		HasTime:   hasTime,
		Title:     title,
		Currency:  currency,
		Impact:    c.parseImpact(row),
		Actual:    c.cellText(row, actualSelector),
		Forecast:  c.cellText(row, forecastSelector),
		Previous:  c.cellText(row, previousSelector),
	}

	return event, nil
}

// parseImpact resolves the impact level of a row from the colour class of
// the impact cell span. The colour sits in the second class token.
// Missing cells and unrecognized tokens resolve to ImpactUnknown.
func (c *Calendar) parseImpact(row *goquery.Selection) CalendarImpact {
	span := row.Find(impactSelector)
	if span.Length() == 0 {
		return ImpactUnknown
	}

	classes := strings.Fields(span.First().AttrOr("class", ""))
	if len(classes) < 2 {
		return ImpactUnknown
	}

	if impact, ok := c.impacts[classes[1]]; ok {
		return impact
	}
	return ImpactUnknown
}

// cellText returns the sanitized text of the first cell matching the
// selector, or an empty string if the cell is absent.
func (c *Calendar) cellText(row *goquery.Selection, selector string) string {
	cell := row.Find(selector)
	if cell.Length() == 0 {
		return ""
	}
	return c.cleanText(cell.First().Text())
}

// cleanText strips any markup left in the cell text and unescapes entities
// like &amp; back into readable characters.
func (c *Calendar) cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.sanitizer.Sanitize(s)))
}

// parseClockTime parses display times like "8:30am" into minutes since
// midnight. Sentinel values ("All Day", "Tentative", day ranges) have no
// clock value and report ok=false.
func parseClockTime(s string) (minutes int, ok bool) {
	t, err := time.Parse("3:04pm", strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// firstN returns the first n bytes of s for diagnostic logging.
func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// CalendarEvent is a single scheduled economic release.
type CalendarEvent struct {
	Time      string         // Display time of the event, e.g. "8:30am" or "All Day"
	TimeOfDay int            // Minutes since midnight, valid only when HasTime is set
	HasTime   bool           // Whether Time parsed into a clock value
	Title     string         // Event title
	Currency  string         // Currency code impacted by the event, e.g. "USD" (may be empty)
	Impact    CalendarImpact // Impact of the event on the market
	Actual    string         // Actual value of the event (if available)
	Forecast  string         // Forecasted value of the event (if available)
	Previous  string         // Previous value of the event (if available)
}

// CalendarEvents is the slice of calendar events for one day.
type CalendarEvents []*CalendarEvent

// SortByTime sorts events ascending by their parsed time of day.
// Events without a clock time ("All Day") come first. The sort is stable,
// so rows with equal times keep their document order.
func (e CalendarEvents) SortByTime() {
	sort.SliceStable(e, func(i, j int) bool {
		if e[i].HasTime != e[j].HasTime {
			return !e[i].HasTime
		}
		return e[i].TimeOfDay < e[j].TimeOfDay
	})
}

// Distinct removes duplicates from the slice, keeping the first occurrence.
func (e CalendarEvents) Distinct() CalendarEvents {
	var distinct CalendarEvents
	seen := make(map[string]bool)
	for _, v := range e {
		id := fmt.Sprintf("%s%s%s", v.Time, v.Title, v.Currency)
		if _, ok := seen[id]; !ok {
			seen[id] = true
			distinct = append(distinct, v)
		}
	}
	return distinct
}

// FilterByImpact returns the events matching any of the given impact levels.
func (e CalendarEvents) FilterByImpact(impacts ...CalendarImpact) CalendarEvents {
	return lo.Filter(e, func(v *CalendarEvent, _ int) bool {
		return lo.Contains(impacts, v.Impact)
	})
}
