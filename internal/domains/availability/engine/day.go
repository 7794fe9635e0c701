package engine

import (
	"cmp"
	"context"
	"slices"
	availabilityModel "slotwise/internal/domains/availability/model"
	bookingModel "slotwise/internal/domains/booking/model"
	catalogModel "slotwise/internal/domains/catalog/model"
	"slotwise/internal/store"
	"slotwise/shared/failure"
	"slotwise/shared/timezone"
	"time"
)

type dayRequest struct {
	tenantID   string
	offeringID string
	staffID    string
	date       time.Time
	from       time.Time
	to         time.Time
	loc        *time.Location
	now        time.Time
}

// day is a read-only snapshot of everything needed to evaluate windows that
// start on one calendar date.
type day struct {
	date     time.Time
	loc      *time.Location
	now      time.Time
	pool     []catalogModel.Staff
	rules    map[string][]availabilityModel.Rule
	bookings []bookingModel.Booking
}

func (e *Engine) loadDay(ctx context.Context, reader store.Reader, req dayRequest) (*day, error) {
	pool, err := staffPool(ctx, reader, req.tenantID, req.offeringID, req.staffID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(pool))
	for i, staff := range pool {
		ids[i] = staff.ID
	}

	rules := map[string][]availabilityModel.Rule{}

	if len(ids) > 0 {
		list, err := reader.ListRules(ctx, req.tenantID, ids, req.date)
		if err != nil {
			return nil, unavailable(ctx, err)
		}

		for _, rule := range list {
			rules[rule.StaffID] = append(rules[rule.StaffID], rule)
		}
	}

	bookings, err := reader.ListActiveBookings(ctx, req.tenantID, req.from, req.to)
	if err != nil {
		return nil, unavailable(ctx, err)
	}

	return &day{
		date:     req.date,
		loc:      req.loc,
		now:      req.now,
		pool:     pool,
		rules:    rules,
		bookings: bookings,
	}, nil
}

// staffPool returns the staff eligible for the offering (or any offering),
// narrowed to staffID when set. Staff without any assignment never qualify.
func staffPool(ctx context.Context, reader store.Reader, tenantID, offeringID, staffID string) ([]catalogModel.Staff, error) {
	staff, err := reader.ListActiveStaff(ctx, tenantID)
	if err != nil {
		return nil, unavailable(ctx, err)
	}

	assignments, err := reader.ListAssignments(ctx, tenantID, "")
	if err != nil {
		return nil, unavailable(ctx, err)
	}

	assigned := map[string]bool{}
	qualified := map[string]bool{}

	for _, assignment := range assignments {
		assigned[assignment.StaffID] = true

		if offeringID == "" || assignment.OfferingID == offeringID {
			qualified[assignment.StaffID] = true
		}
	}

	pool := make([]catalogModel.Staff, 0, len(staff))

	for _, member := range staff {
		if !assigned[member.ID] || !qualified[member.ID] {
			continue
		}

		if staffID != "" && member.ID != staffID {
			continue
		}

		pool = append(pool, member)
	}

	slices.SortFunc(pool, func(a, b catalogModel.Staff) int { return cmp.Compare(a.ID, b.ID) })

	return pool, nil
}

// evaluate applies every check after temporal sanity to [start, end).
func (d *day) evaluate(start, end time.Time, excludeID string) Result {
	if reason, ok := checkWindow(start, end, d.now); !ok {
		return Result{Reason: reason}
	}

	if d.tenantConflict(start, end, excludeID) {
		return Result{Reason: failure.KindTenantConflict}
	}

	if len(d.pool) == 0 {
		return Result{Reason: failure.KindNoQualifiedStaff}
	}

	candidates := make([]catalogModel.Staff, 0, len(d.pool))

	for _, staff := range d.pool {
		if !d.staffOpen(staff.ID, start, end) || d.staffBusy(staff.ID, start, end, excludeID) {
			continue
		}

		candidates = append(candidates, staff)
	}

	if len(candidates) == 0 {
		return Result{Reason: failure.KindNoStaffAvailable}
	}

	return Result{Available: true, Candidates: candidates}
}

func (d *day) tenantConflict(start, end time.Time, excludeID string) bool {
	for _, booking := range d.bookings {
		if booking.ID != excludeID && booking.Overlaps(start, end) {
			return true
		}
	}

	return false
}

func (d *day) staffBusy(staffID string, start, end time.Time, excludeID string) bool {
	for _, booking := range d.bookings {
		if booking.ID != excludeID && booking.HasStaff(staffID) && booking.Overlaps(start, end) {
			return true
		}
	}

	return false
}

// staffOpen is the per-staff rule predicate for a window starting on d.date.
func (d *day) staffOpen(staffID string, start, end time.Time) bool {
	if end.Sub(start) > 24*time.Hour {
		return false
	}

	t0 := timezone.MinuteOfDay(start, d.loc)
	t1 := timezone.MinuteOfDay(end, d.loc)
	crossing := !timezone.SameDay(start, end, d.loc)

	return Covers(d.rules[staffID], t0, t1, crossing)
}

// effective splits a staff member's rules for one day into the open and off
// rules in force. Specific-date open rules replace the weekly schedule; a day
// with only specific off rules keeps the weekly open rules and subtracts them.
func effective(rules []availabilityModel.Rule) (opens, offs []availabilityModel.Rule) {
	var specificOpen, specificOff, weeklyOpen, weeklyOff []availabilityModel.Rule

	for _, rule := range rules {
		switch {
		case rule.Kind == availabilityModel.KindSpecific && rule.OffDay:
			specificOff = append(specificOff, rule)
		case rule.Kind == availabilityModel.KindSpecific:
			specificOpen = append(specificOpen, rule)
		case rule.Kind == availabilityModel.KindWeekly && rule.OffDay:
			weeklyOff = append(weeklyOff, rule)
		case rule.Kind == availabilityModel.KindWeekly:
			weeklyOpen = append(weeklyOpen, rule)
		}
	}

	if len(specificOpen) > 0 {
		return specificOpen, specificOff
	}

	return weeklyOpen, append(specificOff, weeklyOff...)
}

// Covers reports whether the day's rules admit the window [t0, t1) in minutes
// of day. An off rule rejects the window when they overlap or touch; an open
// rule must contain the window. A window crossing midnight is bounded by the
// end of the day and needs an open rule that runs through 23:59.
func Covers(rules []availabilityModel.Rule, t0, t1 int, crossing bool) bool {
	window := availabilityModel.Interval{Start: t0, End: t1}
	if crossing {
		window.End = timezone.MinutesPerDay
	}

	opens, offs := effective(rules)

	for _, rule := range offs {
		if rule.Interval().Touches(window) {
			return false
		}
	}

	for _, rule := range opens {
		if crossing {
			if rule.StartMinute() <= t0 && rule.EndMinute() >= timezone.LastMinute {
				return true
			}

			continue
		}

		if rule.Interval().Contains(window) {
			return true
		}
	}

	return false
}

// openIntervals returns the open intervals in force for staffID on d.date.
func (d *day) openIntervals(staffID string) []availabilityModel.Interval {
	opens, _ := effective(d.rules[staffID])
	intervals := make([]availabilityModel.Interval, 0, len(opens))

	for _, rule := range opens {
		if rule.StartMinute() < rule.EndMinute() {
			intervals = append(intervals, rule.Interval())
		}
	}

	return intervals
}
