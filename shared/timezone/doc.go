// Package timezone holds the clock and calendar helpers of the scheduling core.
//
// Every instant is stored in UTC and interpreted in the tenant's IANA zone:
//
//	loc := timezone.LoadLocation(business.Timezone) // "" falls back to APP_TIMEZONE
//	day := timezone.StartOfDay(instant, loc)
//	start := timezone.Combine(day, minute, loc)
//
// Services take a Clock so tests can pin the current instant:
//
//	clock := timezone.SystemClock()        // production
//	clock := timezone.NewFixedClock(at)    // tests
//
// Wall-clock times of day travel as minutes since midnight. ClockTime and
// MinuteOfClock convert them to and from the time.Time shape of TIME columns.
package timezone
