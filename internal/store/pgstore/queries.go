package pgstore

import (
	"context"
	"fmt"
	availabilityModel "slotwise/internal/domains/availability/model"
	bookingModel "slotwise/internal/domains/booking/model"
	catalogModel "slotwise/internal/domains/catalog/model"
	leadModel "slotwise/internal/domains/lead/model"
	"slotwise/internal/store"
	"slotwise/shared"
	"slotwise/shared/constant"
	gDto "slotwise/shared/dto"
	"time"
)

// queries implements store.Tx on a set of repositories, bound to a
// transaction or to the plain connection pool.
type queries struct {
	repos repositories
}

func byTenantID(tenantID string) gDto.FilterGroup {
	return shared.FilterByID(tenantID, catalogModel.FieldID, catalogModel.TableBusiness)
}

func byTenantAndID(table, tenantID, id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: constant.FieldTenantID, Operator: gDto.FilterOperatorEq, Value: tenantID, Table: table},
			gDto.Filter{Field: "id", Operator: gDto.FilterOperatorEq, Value: id, Table: table},
		},
	}
}

func (q *queries) GetBusiness(ctx context.Context, tenantID string) (catalogModel.Business, error) {
	business, err := q.repos.business.Get(ctx, byTenantID(tenantID))
	if err != nil {
		return business, fmt.Errorf("failed to get business: %w", err)
	}

	if business.ID == constant.Empty {
		return business, store.ErrNotFound
	}

	return business, nil
}

func (q *queries) GetOffering(ctx context.Context, tenantID, ref string) (catalogModel.Offering, error) {
	offering, err := q.repos.offering.Get(ctx, byTenantAndID(catalogModel.TableOffering, tenantID, ref))
	if err != nil {
		return offering, fmt.Errorf("failed to get offering: %w", err)
	}

	if offering.ID != constant.Empty && offering.Active {
		return offering, nil
	}

	offerings, err := q.ListOfferings(ctx, tenantID)
	if err != nil {
		return catalogModel.Offering{}, err
	}

	for _, candidate := range offerings {
		if candidate.Matches(ref) {
			return candidate, nil
		}
	}

	return catalogModel.Offering{}, store.ErrNotFound
}

func (q *queries) ListOfferings(ctx context.Context, tenantID string) ([]catalogModel.Offering, error) {
	offerings, err := q.repos.offering.GetActive(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}

	return offerings, nil
}

func (q *queries) ListServiceItems(ctx context.Context, tenantID string) ([]catalogModel.ServiceItem, error) {
	items, err := q.repos.item.GetActive(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service items: %w", err)
	}

	return items, nil
}

func (q *queries) ListActiveStaff(ctx context.Context, tenantID string) ([]catalogModel.Staff, error) {
	staff, err := q.repos.staff.GetActive(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	return staff, nil
}

func (q *queries) ListAssignments(ctx context.Context, tenantID, offeringID string) ([]catalogModel.StaffServiceAssignment, error) {
	assignments, err := q.repos.assignment.GetActive(ctx, tenantID, offeringID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff assignments: %w", err)
	}

	return assignments, nil
}

func (q *queries) ListRules(ctx context.Context, tenantID string, staffIDs []string, date time.Time) ([]availabilityModel.Rule, error) {
	rules, err := q.repos.rule.GetApplicable(ctx, tenantID, staffIDs, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability rules: %w", err)
	}

	return rules, nil
}

func (q *queries) ListStaffRules(ctx context.Context, tenantID, staffID string) ([]availabilityModel.Rule, error) {
	rules, err := q.repos.rule.GetByStaff(ctx, tenantID, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff availability rules: %w", err)
	}

	return rules, nil
}

func (q *queries) ListActiveBookings(ctx context.Context, tenantID string, from, to time.Time) ([]bookingModel.Booking, error) {
	bookings, err := q.repos.booking.GetOverlapping(ctx, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list active bookings: %w", err)
	}

	if err := q.attachStaff(ctx, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (q *queries) attachStaff(ctx context.Context, bookings []bookingModel.Booking) error {
	ids := make([]string, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	assignments, err := q.repos.bookingStaff.GetByBookings(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to list booking staff: %w", err)
	}

	byBooking := make(map[string][]bookingModel.StaffAssignment, len(bookings))
	for _, assignment := range assignments {
		byBooking[assignment.BookingID] = append(byBooking[assignment.BookingID], assignment)
	}

	for i := range bookings {
		bookings[i].Staff = byBooking[bookings[i].ID]
	}

	return nil
}

func (q *queries) ListBookings(ctx context.Context, tenantID string, filter store.BookingFilter) ([]bookingModel.Booking, int, error) {
	group := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldTenantID, Operator: gDto.FilterOperatorEq, Value: tenantID, Table: bookingModel.TableName},
		},
	}

	if filter.Status != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: bookingModel.FieldStatus, Operator: gDto.FilterOperatorEq, Value: string(filter.Status), Table: bookingModel.TableName})
	}

	if filter.Date != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: bookingModel.FieldBookingDate, Operator: gDto.FilterOperatorEq, Value: filter.Date, Table: bookingModel.TableName})
	}

	if filter.StaffID != "" {
		ids, err := q.bookingIDsOfStaff(ctx, filter.StaffID)
		if err != nil {
			return nil, 0, err
		}

		if len(ids) == 0 {
			return []bookingModel.Booking{}, 0, nil
		}

		group.Filters = append(group.Filters, gDto.Filter{Field: bookingModel.FieldID, Operator: gDto.FilterOperatorIn, Value: ids, Table: bookingModel.TableName})
	}

	total, err := q.repos.booking.Count(ctx, group)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	params := gDto.QueryParams{
		Page:    filter.Page,
		Limit:   filter.Limit,
		SortBy:  bookingModel.FieldStartsAt,
		SortDir: gDto.SortDirAsc,
	}

	bookings, err := q.repos.booking.GetAll(ctx, params, group)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	if err := q.attachStaff(ctx, bookings); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (q *queries) bookingIDsOfStaff(ctx context.Context, staffID string) ([]string, error) {
	assignments, err := q.repos.bookingStaff.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldStaffID, Operator: gDto.FilterOperatorEq, Value: staffID, Table: bookingModel.TableStaffAssignment},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list staff assignments: %w", err)
	}

	ids := make([]string, len(assignments))
	for i, assignment := range assignments {
		ids[i] = assignment.BookingID
	}

	return ids, nil
}

func (q *queries) GetBooking(ctx context.Context, tenantID, bookingID string) (bookingModel.Booking, error) {
	booking, err := q.repos.booking.Get(ctx, byTenantAndID(bookingModel.TableName, tenantID, bookingID))
	if err != nil {
		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, store.ErrNotFound
	}

	staff, err := q.repos.bookingStaff.GetByBookings(ctx, []string{booking.ID})
	if err != nil {
		return booking, fmt.Errorf("failed to get booking staff: %w", err)
	}

	items, err := q.repos.bookingItem.GetByBooking(ctx, booking.ID)
	if err != nil {
		return booking, fmt.Errorf("failed to get booking items: %w", err)
	}

	booking.Staff = staff
	booking.Items = items

	return booking, nil
}

func (q *queries) ListBookingEvents(ctx context.Context, bookingID string) ([]bookingModel.Event, error) {
	events, err := q.repos.event.GetByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking events: %w", err)
	}

	return events, nil
}

func (q *queries) GetLeadByPhone(ctx context.Context, tenantID, phone string) (leadModel.Lead, error) {
	lead, err := q.repos.lead.GetByPhone(ctx, tenantID, phone)
	if err != nil {
		return lead, fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.ID == constant.Empty {
		return lead, store.ErrNotFound
	}

	return lead, nil
}

func (q *queries) InsertBooking(ctx context.Context, booking bookingModel.Booking) error {
	if err := q.repos.booking.Insert(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (q *queries) UpdateBooking(ctx context.Context, booking bookingModel.Booking) error {
	fields := map[string]any{
		bookingModel.FieldStatus:             string(booking.Status),
		bookingModel.FieldBookingDate:        booking.BookingDate,
		bookingModel.FieldStartTime:          booking.StartTime,
		bookingModel.FieldEndTime:            booking.EndTime,
		bookingModel.FieldStartsAt:           booking.StartsAt,
		bookingModel.FieldEndsAt:             booking.EndsAt,
		bookingModel.FieldDurationMin:        booking.DurationMin,
		bookingModel.FieldTotalPriceCents:    booking.TotalPriceCents,
		bookingModel.FieldNotes:              booking.Notes,
		bookingModel.FieldCancellationReason: booking.CancellationReason,
		constant.FieldModifiedAt:             booking.ModifiedAt,
		constant.FieldModifiedBy:             booking.ModifiedBy,
	}

	if err := q.repos.booking.Update(ctx, fields, byTenantAndID(bookingModel.TableName, booking.TenantID, booking.ID)); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

func (q *queries) InsertBookingItems(ctx context.Context, items []bookingModel.ServiceItem) error {
	if len(items) == 0 {
		return nil
	}

	if err := q.repos.bookingItem.InsertBulk(ctx, items); err != nil {
		return fmt.Errorf("failed to insert booking items: %w", err)
	}

	return nil
}

func (q *queries) InsertStaffAssignment(ctx context.Context, assignment bookingModel.StaffAssignment) error {
	if err := q.repos.bookingStaff.Insert(ctx, assignment); err != nil {
		return fmt.Errorf("failed to insert staff assignment: %w", err)
	}

	return nil
}

func (q *queries) DeleteStaffAssignments(ctx context.Context, bookingID string) error {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: bookingID, Table: bookingModel.TableStaffAssignment},
		},
	}

	if err := q.repos.bookingStaff.Delete(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete staff assignments: %w", err)
	}

	return nil
}

func (q *queries) InsertEvent(ctx context.Context, event bookingModel.Event) error {
	if err := q.repos.event.Insert(ctx, event); err != nil {
		return fmt.Errorf("failed to insert booking event: %w", err)
	}

	return nil
}

func (q *queries) InsertLead(ctx context.Context, lead leadModel.Lead) error {
	if err := q.repos.lead.Insert(ctx, lead); err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

func (q *queries) UpdateLead(ctx context.Context, tenantID, leadID string, fields map[string]any) error {
	if status, ok := fields[leadModel.FieldStatus].(leadModel.Status); ok {
		fields[leadModel.FieldStatus] = string(status)
	}

	if err := q.repos.lead.Update(ctx, fields, byTenantAndID(leadModel.TableName, tenantID, leadID)); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	return nil
}

func (q *queries) InsertRule(ctx context.Context, rule availabilityModel.Rule) error {
	if err := q.repos.rule.Insert(ctx, rule); err != nil {
		return fmt.Errorf("failed to insert availability rule: %w", err)
	}

	return nil
}
