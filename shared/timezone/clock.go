package timezone

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	MinutesPerDay = 24 * 60
	// LastMinute is the latest minute a same-day window may reach (23:59).
	LastMinute = MinutesPerDay - 1
)

// Clock is the injectable source of the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now implements Clock.
func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock is a Clock frozen at a given instant; it can be moved explicitly.
type FixedClock struct {
	mu sync.RWMutex
	at time.Time
}

func NewFixedClock(at time.Time) *FixedClock {
	return &FixedClock{at: at}
}

// Now implements Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.at
}

// Set moves the clock to at.
func (c *FixedClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.at = at
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.at = c.at.Add(d)
}

var locations sync.Map

// LoadLocation resolves a tenant timezone name. Empty or unknown names fall back
// to the application location, which itself defaults to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return GetLocation()
	}

	if cached, ok := locations.Load(name); ok {
		if loc, ok := cached.(*time.Location); ok {
			return loc
		}
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("Unknown tenant timezone, falling back to application timezone")

		return GetLocation()
	}

	locations.Store(name, loc)

	return loc
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Combine returns the instant at minute-of-day m on date's calendar day in loc.
func Combine(date time.Time, minute int, loc *time.Location) time.Time {
	return StartOfDay(date, loc).Add(time.Duration(minute) * time.Minute)
}

// MinuteOfDay returns the minutes elapsed since local midnight of t in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)

	return local.Hour()*60 + local.Minute()
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()

	return ay == by && am == bm && ad == bd
}

// ParseDate parses a YYYY-MM-DD date as local midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// ParseMinute parses an HH:MM 24-hour time into a minute-of-day.
func ParseMinute(value string) (int, error) {
	parsed, err := time.Parse(TimeLayout, value)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return parsed.Hour()*60 + parsed.Minute(), nil
}

// FormatMinute renders a minute-of-day as HH:MM.
func FormatMinute(minute int) string {
	minute = ((minute % MinutesPerDay) + MinutesPerDay) % MinutesPerDay

	return time.Date(0, 1, 1, minute/60, minute%60, 0, 0, time.UTC).Format(TimeLayout)
}

// ClockTime converts a minute-of-day into the time.Time shape used for TIME columns.
func ClockTime(minute int) time.Time {
	return time.Date(0, 1, 1, minute/60, minute%60, 0, 0, time.UTC)
}

// MinuteOfClock is the inverse of ClockTime.
func MinuteOfClock(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
