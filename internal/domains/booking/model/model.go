package model

import (
	catalogModel "slotwise/internal/domains/catalog/model"
	"slotwise/shared/model"
	"slotwise/shared/timezone"
	"time"
)

const (
	TableName            = "bookings"
	TableStaffAssignment = "booking_staff_assignments"
	TableServiceItem     = "booking_service_items"
	TableEvent           = "booking_events"

	EntityName            = "booking"
	EntityStaffAssignment = "booking_staff_assignment"
	EntityServiceItem     = "booking_service_item"
	EntityEvent           = "booking_event"

	FieldID                 = "id"
	FieldTenantID           = "tenant_id"
	FieldBookingID          = "booking_id"
	FieldStaffID            = "staff_id"
	FieldStatus             = "status"
	FieldBookingDate        = "booking_date"
	FieldStartTime          = "start_time"
	FieldEndTime            = "end_time"
	FieldStartsAt           = "starts_at"
	FieldEndsAt             = "ends_at"
	FieldDurationMin        = "duration_min"
	FieldTotalPriceCents    = "total_price_cents"
	FieldNotes              = "notes"
	FieldCancellationReason = "cancellation_reason"
	FieldOccurredAt         = "occurred_at"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusNoShow      Status = "no_show"
)

// ActiveStatuses are the statuses that occupy time on the calendar.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusRescheduled}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusRescheduled
}

// Booking is a reserved [StartsAt, EndsAt) window. BookingDate, StartTime and
// EndTime are the tenant-local calendar view of the same window.
type Booking struct {
	ID                 string    `db:"id"`
	TenantID           string    `db:"tenant_id"`
	LeadID             string    `db:"lead_id"`
	OfferingID         string    `db:"offering_id"`
	CustomerName       string    `db:"customer_name"`
	CustomerEmail      string    `db:"customer_email"`
	CustomerPhone      string    `db:"customer_phone"`
	BookingDate        time.Time `db:"booking_date"`
	StartTime          time.Time `db:"start_time"`
	EndTime            time.Time `db:"end_time"`
	StartsAt           time.Time `db:"starts_at"`
	EndsAt             time.Time `db:"ends_at"`
	DurationMin        int       `db:"duration_min"`
	TotalPriceCents    int64     `db:"total_price_cents"`
	Status             Status    `db:"status"`
	Notes              string    `db:"notes"`
	CancellationReason string    `db:"cancellation_reason"`
	model.Metadata

	Staff []StaffAssignment `db:"-"`
	Items []ServiceItem     `db:"-"`
}

// Overlaps reports whether the booking intersects the half-open window [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

// Primary returns the primary staff assignment, if any.
func (b Booking) Primary() (StaffAssignment, bool) {
	for _, assignment := range b.Staff {
		if assignment.IsPrimary {
			return assignment, true
		}
	}

	return StaffAssignment{}, false
}

// HasStaff reports whether staffID is assigned to the booking.
func (b Booking) HasStaff(staffID string) bool {
	for _, assignment := range b.Staff {
		if assignment.StaffID == staffID {
			return true
		}
	}

	return false
}

// SetWindow sets the absolute window and its tenant-local calendar view.
func (b *Booking) SetWindow(start, end time.Time, loc *time.Location) {
	b.StartsAt = start
	b.EndsAt = end
	b.BookingDate = timezone.StartOfDay(start, loc)
	b.StartTime = timezone.ClockTime(timezone.MinuteOfDay(start, loc))
	b.EndTime = timezone.ClockTime(timezone.MinuteOfDay(end, loc))
	b.DurationMin = int(end.Sub(start) / time.Minute)
}

type StaffAssignment struct {
	ID        string `db:"id"`
	BookingID string `db:"booking_id"`
	StaffID   string `db:"staff_id"`
	IsPrimary bool   `db:"is_primary"`
}

// ServiceItem is an item attached to a booking. Exactly one of the value columns
// is populated, selected by FieldType.
type ServiceItem struct {
	ID                  string                 `db:"id"`
	BookingID           string                 `db:"booking_id"`
	ServiceItemID       string                 `db:"service_item_id"`
	Identifier          string                 `db:"identifier"`
	FieldType           catalogModel.FieldType `db:"field_type"`
	Quantity            int                    `db:"quantity"`
	NumberValue         *int                   `db:"number_value"`
	BooleanValue        *bool                  `db:"boolean_value"`
	SelectValue         *string                `db:"select_value"`
	TextValue           *string                `db:"text_value"`
	TextareaValue       *string                `db:"textarea_value"`
	PriceAtBookingCents int64                  `db:"price_at_booking_cents"`
}

// SetValue stores v in the column matching its variant and clears the others.
func (i *ServiceItem) SetValue(v catalogModel.ItemValue) {
	i.NumberValue, i.BooleanValue, i.SelectValue, i.TextValue, i.TextareaValue = nil, nil, nil, nil, nil

	switch val := v.(type) {
	case catalogModel.NumberValue:
		n := int(val)
		i.NumberValue = &n
	case catalogModel.BooleanValue:
		b := bool(val)
		i.BooleanValue = &b
	case catalogModel.SelectValue:
		s := string(val)
		i.SelectValue = &s
	case catalogModel.TextValue:
		s := string(val)
		i.TextValue = &s
	case catalogModel.TextareaValue:
		s := string(val)
		i.TextareaValue = &s
	}

	if v != nil {
		i.FieldType = v.FieldType()
	}
}

// Value returns the populated variant, or nil when the row carries no value.
func (i ServiceItem) Value() catalogModel.ItemValue {
	switch i.FieldType {
	case catalogModel.FieldTypeNumber:
		if i.NumberValue != nil {
			return catalogModel.NumberValue(*i.NumberValue)
		}
	case catalogModel.FieldTypeBoolean:
		if i.BooleanValue != nil {
			return catalogModel.BooleanValue(*i.BooleanValue)
		}
	case catalogModel.FieldTypeSelect:
		if i.SelectValue != nil {
			return catalogModel.SelectValue(*i.SelectValue)
		}
	case catalogModel.FieldTypeText:
		if i.TextValue != nil {
			return catalogModel.TextValue(*i.TextValue)
		}
	case catalogModel.FieldTypeTextarea:
		if i.TextareaValue != nil {
			return catalogModel.TextareaValue(*i.TextareaValue)
		}
	}

	return nil
}
