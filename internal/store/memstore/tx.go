package memstore

import (
	"context"
	"fmt"
	"slices"
	availabilityModel "slotwise/internal/domains/availability/model"
	bookingModel "slotwise/internal/domains/booking/model"
	leadModel "slotwise/internal/domains/lead/model"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	"time"
)

// txView reads and writes the private copy of a running transaction.
type txView struct {
	view
}

// checkBookingWindow mirrors the exclusion constraint of the relational schema:
// no two active bookings of a tenant may intersect.
func (t *txView) checkBookingWindow(booking bookingModel.Booking) error {
	if !booking.Status.Active() {
		return nil
	}

	for _, other := range t.d.bookings {
		if other.ID == booking.ID || other.TenantID != booking.TenantID || !other.Status.Active() {
			continue
		}

		if other.Overlaps(booking.StartsAt, booking.EndsAt) {
			return fmt.Errorf("booking %s overlaps %s: %w", booking.ID, other.ID, store.ErrConflict)
		}
	}

	return nil
}

func (t *txView) InsertBooking(ctx context.Context, booking bookingModel.Booking) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	if _, ok := t.d.bookings[booking.ID]; ok {
		return fmt.Errorf("booking %s: %w", booking.ID, store.ErrConflict)
	}

	if err := t.checkBookingWindow(booking); err != nil {
		return err
	}

	booking.Staff, booking.Items = nil, nil
	t.d.bookings[booking.ID] = booking

	return nil
}

func (t *txView) UpdateBooking(ctx context.Context, booking bookingModel.Booking) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	current, ok := t.d.bookings[booking.ID]
	if !ok || current.TenantID != booking.TenantID {
		return store.ErrNotFound
	}

	if err := t.checkBookingWindow(booking); err != nil {
		return err
	}

	booking.Staff, booking.Items = nil, nil
	booking.CreatedAt, booking.CreatedBy = current.CreatedAt, current.CreatedBy
	t.d.bookings[booking.ID] = booking

	return nil
}

func (t *txView) InsertBookingItems(ctx context.Context, items []bookingModel.ServiceItem) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	for _, item := range items {
		if _, ok := t.d.bookings[item.BookingID]; !ok {
			return fmt.Errorf("booking item %s: %w", item.ID, store.ErrNotFound)
		}

		t.d.bookingItems[item.BookingID] = append(slices.Clone(t.d.bookingItems[item.BookingID]), item)
	}

	return nil
}

func (t *txView) InsertStaffAssignment(ctx context.Context, assignment bookingModel.StaffAssignment) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	if _, ok := t.d.bookings[assignment.BookingID]; !ok {
		return fmt.Errorf("staff assignment %s: %w", assignment.ID, store.ErrNotFound)
	}

	current := t.d.bookingStaff[assignment.BookingID]

	for _, existing := range current {
		if existing.StaffID == assignment.StaffID || (existing.IsPrimary && assignment.IsPrimary) {
			return fmt.Errorf("staff assignment %s: %w", assignment.ID, store.ErrConflict)
		}
	}

	t.d.bookingStaff[assignment.BookingID] = append(slices.Clone(current), assignment)

	return nil
}

func (t *txView) DeleteStaffAssignments(ctx context.Context, bookingID string) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	delete(t.d.bookingStaff, bookingID)

	return nil
}

func (t *txView) InsertEvent(ctx context.Context, event bookingModel.Event) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	if _, ok := t.d.bookings[event.BookingID]; !ok {
		return fmt.Errorf("booking event %s: %w", event.ID, store.ErrNotFound)
	}

	t.d.events[event.BookingID] = append(slices.Clone(t.d.events[event.BookingID]), event)

	return nil
}

func (t *txView) InsertLead(ctx context.Context, lead leadModel.Lead) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	for _, existing := range t.d.leads {
		if existing.ID == lead.ID || (existing.TenantID == lead.TenantID && existing.Phone == lead.Phone) {
			return fmt.Errorf("lead %s: %w", lead.Phone, store.ErrConflict)
		}
	}

	t.d.leads[lead.ID] = lead

	return nil
}

func (t *txView) UpdateLead(ctx context.Context, tenantID, leadID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	lead, ok := t.d.leads[leadID]
	if !ok || lead.TenantID != tenantID {
		return store.ErrNotFound
	}

	for column, value := range fields {
		switch column {
		case leadModel.FieldFirstName:
			lead.FirstName, _ = value.(string)
		case leadModel.FieldLastName:
			lead.LastName, _ = value.(string)
		case leadModel.FieldEmail:
			lead.Email, _ = value.(string)
		case leadModel.FieldStatus:
			lead.Status, _ = value.(leadModel.Status)
		case constant.FieldModifiedAt:
			lead.ModifiedAt, _ = value.(time.Time)
		case constant.FieldModifiedBy:
			lead.ModifiedBy, _ = value.(string)
		default:
			return fmt.Errorf("unknown lead column %q", column)
		}
	}

	t.d.leads[leadID] = lead

	return nil
}

func (t *txView) InsertRule(ctx context.Context, rule availabilityModel.Rule) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	if _, ok := t.d.rules[rule.ID]; ok {
		return fmt.Errorf("availability rule %s: %w", rule.ID, store.ErrConflict)
	}

	t.d.rules[rule.ID] = rule

	return nil
}
