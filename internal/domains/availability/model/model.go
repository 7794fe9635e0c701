package model

import (
	"slotwise/shared/model"
	"slotwise/shared/timezone"
	"time"
)

const (
	TableName  = "staff_availabilities"
	EntityName = "staff_availability"

	FieldID           = "id"
	FieldTenantID     = "tenant_id"
	FieldStaffID      = "staff_id"
	FieldKind         = "kind"
	FieldWeekday      = "weekday"
	FieldSpecificDate = "specific_date"
)

type Kind string

const (
	KindWeekly   Kind = "weekly"
	KindSpecific Kind = "specific"
)

// Rule is an open or off window for a staff member, either recurring on a
// weekday or pinned to a specific date. StartTime and EndTime only carry a
// clock time; the date part is ignored.
type Rule struct {
	ID           string     `db:"id"`
	TenantID     string     `db:"tenant_id"`
	StaffID      string     `db:"staff_id"`
	Kind         Kind       `db:"kind"`
	Weekday      *int       `db:"weekday"`
	SpecificDate *time.Time `db:"specific_date"`
	StartTime    time.Time  `db:"start_time"`
	EndTime      time.Time  `db:"end_time"`
	OffDay       bool       `db:"off_day"`
	Notes        string     `db:"notes"`
	model.Metadata
}

func (r Rule) StartMinute() int {
	return timezone.MinuteOfClock(r.StartTime)
}

func (r Rule) EndMinute() int {
	return timezone.MinuteOfClock(r.EndTime)
}

// Interval returns the rule window as minutes of day.
func (r Rule) Interval() Interval {
	return Interval{Start: r.StartMinute(), End: r.EndMinute()}
}

// Key identifies the day a rule applies to: the weekday for weekly rules or the
// date for specific rules.
func (r Rule) Key() string {
	if r.Kind == KindSpecific && r.SpecificDate != nil {
		return r.SpecificDate.Format(timezone.DateLayout)
	}

	if r.Weekday != nil {
		return time.Weekday(*r.Weekday).String()
	}

	return ""
}

// AppliesOn reports whether the rule is bound to the calendar day of date.
func (r Rule) AppliesOn(date time.Time) bool {
	switch r.Kind {
	case KindSpecific:
		return r.SpecificDate != nil && r.SpecificDate.Format(timezone.DateLayout) == date.Format(timezone.DateLayout)
	case KindWeekly:
		return r.Weekday != nil && time.Weekday(*r.Weekday) == date.Weekday()
	default:
		return false
	}
}

// Interval is a half-open [Start, End) range of minutes within a day.
type Interval struct {
	Start int
	End   int
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

// Touches is Overlaps with shared endpoints counted as contact.
func (i Interval) Touches(o Interval) bool {
	return i.Start <= o.End && i.End >= o.Start
}

func (i Interval) Contains(o Interval) bool {
	return i.Start <= o.Start && o.End <= i.End
}

func (i Interval) Len() int {
	return i.End - i.Start
}
