package engine

import (
	"context"
	"slices"
	availabilityModel "slotwise/internal/domains/availability/model"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	"slotwise/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// MaxAlternates is the default number of alternates for a rejected window.
	MaxAlternates = 3
	// alternateDays is how many following days may supplement alternates.
	alternateDays = 2

	fallbackOpen  = 9 * 60
	fallbackClose = 17 * 60
)

// SlotQuery asks for bookable windows of DurationMin on Date. Max <= 0 means no
// limit. Fallback enables the 09:00-17:00 envelope when no staff qualifies.
type SlotQuery struct {
	TenantID         string
	Date             time.Time
	DurationMin      int
	OfferingID       string
	StaffID          string
	Max              int
	Fallback         bool
	ExcludeBookingID string
}

type Slot struct {
	Start     time.Time
	End       time.Time
	StaffID   string
	StaffName string
}

// SlotsOn enumerates bookable windows on the 30-minute grid of each open
// interval of the day, in ascending start order.
func (e *Engine) SlotsOn(ctx context.Context, reader store.Reader, query SlotQuery) (slots []Slot, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".SlotsOn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	loc, err := e.Location(ctx, reader, query.TenantID)
	if err != nil {
		return nil, err
	}

	slots, err = e.slotsOn(ctx, reader, query, loc, 0)
	if err != nil {
		return nil, err
	}

	e.metrics.ObserveSlots(len(slots))
	scope.SetAttribute("availability.slots", len(slots))

	return slots, nil
}

// AlternatesFor suggests up to query.Max windows, MaxAlternates when unset:
// those on query.Date starting at or after the requested minute, then whole
// following days in order.
func (e *Engine) AlternatesFor(ctx context.Context, reader store.Reader, query SlotQuery, at time.Time) (slots []Slot, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".AlternatesFor")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	loc, err := e.Location(ctx, reader, query.TenantID)
	if err != nil {
		return nil, err
	}

	date := timezone.StartOfDay(query.Date, loc)

	limit := query.Max
	if limit <= 0 {
		limit = MaxAlternates
	}

	query.Max = limit

	for offset := 0; offset <= alternateDays && len(slots) < limit; offset++ {
		from := 0
		if offset == 0 {
			from = timezone.MinuteOfDay(at, loc)
		}

		query.Date = date.AddDate(0, 0, offset)

		found, err := e.slotsOn(ctx, reader, query, loc, from)
		if err != nil {
			return nil, err
		}

		slots = append(slots, found[:min(len(found), limit-len(slots))]...)
	}

	scope.SetAttribute("availability.alternates", len(slots))

	return slots, nil
}

func (e *Engine) slotsOn(ctx context.Context, reader store.Reader, query SlotQuery, loc *time.Location, fromMinute int) ([]Slot, error) {
	if query.DurationMin <= 0 {
		return nil, nil
	}

	now := e.clock.Now()
	date := timezone.StartOfDay(query.Date, loc)
	today := timezone.StartOfDay(now, loc)

	if date.Before(today) {
		return nil, nil
	}

	duration := time.Duration(query.DurationMin) * time.Minute

	snapshot, err := e.loadDay(ctx, reader, dayRequest{
		tenantID:   query.TenantID,
		offeringID: query.OfferingID,
		staffID:    query.StaffID,
		date:       date,
		from:       date,
		to:         date.AddDate(0, 0, 1).Add(duration),
		loc:        loc,
		now:        now,
	})
	if err != nil {
		log.Error().Err(err).Str("tenant", query.TenantID).Msg("failed to load slot snapshot")

		return nil, err
	}

	fallback := query.Fallback && len(snapshot.pool) == 0
	envelope := snapshot.envelope(fallback)

	lower := fromMinute
	if date.Equal(today) {
		lower = max(lower, roundUpToGrid(now, loc))
	}

	seen := map[int64]bool{}
	slots := []Slot{}

	for _, interval := range envelope {
		for minute := interval.Start; minute+query.DurationMin <= interval.End; minute += constant.SlotGridMinutes {
			if minute < lower {
				continue
			}

			start := timezone.Combine(date, minute, loc)
			end := start.Add(duration)

			if seen[start.Unix()] {
				continue
			}

			slot, ok := snapshot.slot(start, end, query.ExcludeBookingID, fallback)
			if !ok {
				continue
			}

			seen[start.Unix()] = true
			slots = append(slots, slot)
		}
	}

	slices.SortStableFunc(slots, func(a, b Slot) int { return a.Start.Compare(b.Start) })

	if query.Max > 0 && len(slots) > query.Max {
		slots = slots[:query.Max]
	}

	return slots, nil
}

// slot evaluates one grid window. In fallback mode there is no staff to check,
// only the window and the tenant's bookings.
func (d *day) slot(start, end time.Time, excludeID string, fallback bool) (Slot, bool) {
	if fallback {
		if _, ok := checkWindow(start, end, d.now); !ok || d.tenantConflict(start, end, excludeID) {
			return Slot{}, false
		}

		return Slot{Start: start, End: end}, true
	}

	res := d.evaluate(start, end, excludeID)
	if !res.Available {
		return Slot{}, false
	}

	staff, _ := res.First()

	return Slot{Start: start, End: end, StaffID: staff.ID, StaffName: staff.Name}, true
}

// envelope merges the open intervals of every pool member into a sorted,
// non-overlapping list.
func (d *day) envelope(fallback bool) []availabilityModel.Interval {
	if fallback {
		return []availabilityModel.Interval{{Start: fallbackOpen, End: fallbackClose}}
	}

	intervals := []availabilityModel.Interval{}
	for _, staff := range d.pool {
		intervals = append(intervals, d.openIntervals(staff.ID)...)
	}

	return Merge(intervals)
}

// Merge returns the union of intervals, sorted by start.
func Merge(intervals []availabilityModel.Interval) []availabilityModel.Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := slices.Clone(intervals)
	slices.SortFunc(sorted, func(a, b availabilityModel.Interval) int { return a.Start - b.Start })

	merged := []availabilityModel.Interval{sorted[0]}

	for _, interval := range sorted[1:] {
		last := &merged[len(merged)-1]
		if interval.Start <= last.End {
			last.End = max(last.End, interval.End)

			continue
		}

		merged = append(merged, interval)
	}

	return merged
}

// roundUpToGrid returns now's minute of day rounded up to the next grid line.
// An instant exactly on a grid line is kept.
func roundUpToGrid(now time.Time, loc *time.Location) int {
	local := now.In(loc)
	minute := timezone.MinuteOfDay(local, loc)

	if minute%constant.SlotGridMinutes == 0 && local.Second() == 0 && local.Nanosecond() == 0 {
		return minute
	}

	return (minute/constant.SlotGridMinutes + 1) * constant.SlotGridMinutes
}
