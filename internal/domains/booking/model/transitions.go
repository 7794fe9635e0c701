package model

import "time"

// changeCutoff is the minimum lead time after which a booking can no longer be
// moved or cancelled.
const changeCutoff = 24 * time.Hour

// AllowedTransitions returns the event kinds that may be recorded for b at now,
// in a fixed order.
func AllowedTransitions(b Booking, now time.Time) []EventKind {
	return allowedTransitions(b, now, changeCutoff)
}

// AllowedTransitionsWithCutoff is AllowedTransitions with a configured change cutoff.
func AllowedTransitionsWithCutoff(b Booking, now time.Time, cutoff time.Duration) []EventKind {
	if cutoff <= 0 {
		cutoff = changeCutoff
	}

	return allowedTransitions(b, now, cutoff)
}

func allowedTransitions(b Booking, now time.Time, cutoff time.Duration) []EventKind {
	until := b.StartsAt.Sub(now)
	closed := b.Status == StatusCompleted || b.Status == StatusCancelled

	kinds := make([]EventKind, 0, 6)

	if b.Status == StatusPending {
		kinds = append(kinds, EventConfirmed)
	}

	if !closed && until > cutoff {
		kinds = append(kinds, EventCancelled, EventRescheduled)
	}

	if b.Status.Active() && until <= 0 {
		kinds = append(kinds, EventCompleted)
	}

	if b.Status.Active() && until < 0 {
		kinds = append(kinds, EventNoShow)
	}

	if !closed {
		kinds = append(kinds, EventNoteAdded)
	}

	if b.Status != StatusCancelled {
		kinds = append(kinds, EventPaymentReceived)
	}

	return kinds
}
