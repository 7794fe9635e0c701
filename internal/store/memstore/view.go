package memstore

import (
	"cmp"
	"context"
	"slices"
	availabilityModel "slotwise/internal/domains/availability/model"
	bookingModel "slotwise/internal/domains/booking/model"
	catalogModel "slotwise/internal/domains/catalog/model"
	leadModel "slotwise/internal/domains/lead/model"
	"slotwise/internal/store"
	"slotwise/shared/timezone"
	"time"
)

// view reads one immutable generation of the state.
type view struct {
	d *data
}

func (v *view) GetBusiness(ctx context.Context, tenantID string) (catalogModel.Business, error) {
	if err := ctx.Err(); err != nil {
		return catalogModel.Business{}, err //nolint:wrapcheck
	}

	business, ok := v.d.businesses[tenantID]
	if !ok {
		return catalogModel.Business{}, store.ErrNotFound
	}

	return business, nil
}

func (v *view) GetOffering(ctx context.Context, tenantID, ref string) (catalogModel.Offering, error) {
	if err := ctx.Err(); err != nil {
		return catalogModel.Offering{}, err //nolint:wrapcheck
	}

	if offering, ok := v.d.offerings[ref]; ok && offering.TenantID == tenantID && offering.Active {
		return offering, nil
	}

	offerings, _ := v.ListOfferings(ctx, tenantID)
	for _, offering := range offerings {
		if offering.Matches(ref) {
			return offering, nil
		}
	}

	return catalogModel.Offering{}, store.ErrNotFound
}

func (v *view) ListOfferings(ctx context.Context, tenantID string) ([]catalogModel.Offering, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return sortedValues(v.d.offerings,
		func(o catalogModel.Offering) bool { return o.TenantID == tenantID && o.Active },
		func(a, b catalogModel.Offering) int { return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID)) },
	), nil
}

func (v *view) ListServiceItems(ctx context.Context, tenantID string) ([]catalogModel.ServiceItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return sortedValues(v.d.items,
		func(i catalogModel.ServiceItem) bool { return i.TenantID == tenantID && i.Active },
		func(a, b catalogModel.ServiceItem) int { return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID)) },
	), nil
}

func (v *view) ListActiveStaff(ctx context.Context, tenantID string) ([]catalogModel.Staff, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return sortedValues(v.d.staff,
		func(s catalogModel.Staff) bool { return s.TenantID == tenantID && s.Active },
		func(a, b catalogModel.Staff) int { return cmp.Compare(a.ID, b.ID) },
	), nil
}

func (v *view) ListAssignments(ctx context.Context, tenantID, offeringID string) ([]catalogModel.StaffServiceAssignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return sortedValues(v.d.assignments,
		func(a catalogModel.StaffServiceAssignment) bool {
			return a.TenantID == tenantID && a.Active && (offeringID == "" || a.OfferingID == offeringID)
		},
		func(a, b catalogModel.StaffServiceAssignment) int { return cmp.Compare(a.ID, b.ID) },
	), nil
}

func (v *view) ListRules(ctx context.Context, tenantID string, staffIDs []string, date time.Time) ([]availabilityModel.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return sortedValues(v.d.rules,
		func(r availabilityModel.Rule) bool {
			return r.TenantID == tenantID && slices.Contains(staffIDs, r.StaffID) && r.AppliesOn(date)
		},
		compareRules,
	), nil
}

func (v *view) ListStaffRules(ctx context.Context, tenantID, staffID string) ([]availabilityModel.Rule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return sortedValues(v.d.rules,
		func(r availabilityModel.Rule) bool { return r.TenantID == tenantID && r.StaffID == staffID },
		compareRules,
	), nil
}

func compareRules(a, b availabilityModel.Rule) int {
	return cmp.Or(cmp.Compare(a.StartMinute(), b.StartMinute()), cmp.Compare(a.ID, b.ID))
}

func (v *view) ListActiveBookings(ctx context.Context, tenantID string, from, to time.Time) ([]bookingModel.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	bookings := sortedValues(v.d.bookings,
		func(b bookingModel.Booking) bool {
			return b.TenantID == tenantID && b.Status.Active() && b.Overlaps(from, to)
		},
		compareBookings,
	)

	for i := range bookings {
		bookings[i].Staff = slices.Clone(v.d.bookingStaff[bookings[i].ID])
	}

	return bookings, nil
}

func (v *view) ListBookings(ctx context.Context, tenantID string, filter store.BookingFilter) ([]bookingModel.Booking, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err //nolint:wrapcheck
	}

	bookings := sortedValues(v.d.bookings,
		func(b bookingModel.Booking) bool {
			if b.TenantID != tenantID {
				return false
			}

			if filter.Status != "" && b.Status != filter.Status {
				return false
			}

			if filter.StaffID != "" && !slices.ContainsFunc(v.d.bookingStaff[b.ID], func(a bookingModel.StaffAssignment) bool {
				return a.StaffID == filter.StaffID
			}) {
				return false
			}

			return filter.Date == "" || b.BookingDate.Format(timezone.DateLayout) == filter.Date
		},
		compareBookings,
	)

	total := len(bookings)

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 0 {
			offset = (filter.Page - 1) * filter.Limit
		}

		bookings = bookings[min(offset, total):min(offset+filter.Limit, total)]
	}

	return bookings, total, nil
}

func compareBookings(a, b bookingModel.Booking) int {
	return cmp.Or(a.StartsAt.Compare(b.StartsAt), cmp.Compare(a.ID, b.ID))
}

func (v *view) GetBooking(ctx context.Context, tenantID, bookingID string) (bookingModel.Booking, error) {
	if err := ctx.Err(); err != nil {
		return bookingModel.Booking{}, err //nolint:wrapcheck
	}

	booking, ok := v.d.bookings[bookingID]
	if !ok || booking.TenantID != tenantID {
		return bookingModel.Booking{}, store.ErrNotFound
	}

	booking.Staff = slices.Clone(v.d.bookingStaff[bookingID])
	booking.Items = slices.Clone(v.d.bookingItems[bookingID])

	return booking, nil
}

func (v *view) ListBookingEvents(ctx context.Context, bookingID string) ([]bookingModel.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return slices.Clone(v.d.events[bookingID]), nil
}

func (v *view) GetLeadByPhone(ctx context.Context, tenantID, phone string) (leadModel.Lead, error) {
	if err := ctx.Err(); err != nil {
		return leadModel.Lead{}, err //nolint:wrapcheck
	}

	for _, lead := range v.d.leads {
		if lead.TenantID == tenantID && lead.Phone == phone {
			return lead, nil
		}
	}

	return leadModel.Lead{}, store.ErrNotFound
}
