package model

import (
	"slotwise/shared/model"
	"time"
)

type EventKind string

const (
	EventCreated         EventKind = "created"
	EventConfirmed       EventKind = "confirmed"
	EventRescheduled     EventKind = "rescheduled"
	EventCancelled       EventKind = "cancelled"
	EventCompleted       EventKind = "completed"
	EventNoShow          EventKind = "no_show"
	EventNoteAdded       EventKind = "note_added"
	EventPaymentReceived EventKind = "payment_received"
)

// Event is an append-only record of a booking lifecycle transition.
type Event struct {
	ID         string        `db:"id"`
	BookingID  string        `db:"booking_id"`
	TenantID   string        `db:"tenant_id"`
	Kind       EventKind     `db:"kind"`
	OccurredAt time.Time     `db:"occurred_at"`
	Actor      string        `db:"actor"`
	Reason     string        `db:"reason"`
	Payload    model.JSONMap `db:"payload"`
}

const (
	PayloadFallbackStaff = "fallback_staff"
	PayloadOldDate       = "old_date"
	PayloadOldStart      = "old_start_time"
	PayloadOldEnd        = "old_end_time"
	PayloadNewDate       = "new_date"
	PayloadNewStart      = "new_start_time"
	PayloadNewEnd        = "new_end_time"
	PayloadStaffID       = "staff_id"
	PayloadNote          = "note"
	PayloadAmountCents   = "amount_cents"
)
