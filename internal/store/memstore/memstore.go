// Package memstore is an in-process implementation of store.Store. Transactions
// run one at a time on a private copy of the state that replaces the shared
// state on commit, so a failed transaction leaves nothing behind.
package memstore

import (
	"context"
	"maps"
	"slices"
	availabilityModel "slotwise/internal/domains/availability/model"
	bookingModel "slotwise/internal/domains/booking/model"
	catalogModel "slotwise/internal/domains/catalog/model"
	leadModel "slotwise/internal/domains/lead/model"
	"slotwise/internal/store"
	"sync"
	"time"
)

type data struct {
	businesses   map[string]catalogModel.Business
	offerings    map[string]catalogModel.Offering
	items        map[string]catalogModel.ServiceItem
	staff        map[string]catalogModel.Staff
	assignments  map[string]catalogModel.StaffServiceAssignment
	rules        map[string]availabilityModel.Rule
	bookings     map[string]bookingModel.Booking
	bookingStaff map[string][]bookingModel.StaffAssignment
	bookingItems map[string][]bookingModel.ServiceItem
	events       map[string][]bookingModel.Event
	leads        map[string]leadModel.Lead
}

func newData() *data {
	return &data{
		businesses:   map[string]catalogModel.Business{},
		offerings:    map[string]catalogModel.Offering{},
		items:        map[string]catalogModel.ServiceItem{},
		staff:        map[string]catalogModel.Staff{},
		assignments:  map[string]catalogModel.StaffServiceAssignment{},
		rules:        map[string]availabilityModel.Rule{},
		bookings:     map[string]bookingModel.Booking{},
		bookingStaff: map[string][]bookingModel.StaffAssignment{},
		bookingItems: map[string][]bookingModel.ServiceItem{},
		events:       map[string][]bookingModel.Event{},
		leads:        map[string]leadModel.Lead{},
	}
}

// clone copies every table. Child slices are copied on write, never in place.
func (d *data) clone() *data {
	return &data{
		businesses:   maps.Clone(d.businesses),
		offerings:    maps.Clone(d.offerings),
		items:        maps.Clone(d.items),
		staff:        maps.Clone(d.staff),
		assignments:  maps.Clone(d.assignments),
		rules:        maps.Clone(d.rules),
		bookings:     maps.Clone(d.bookings),
		bookingStaff: maps.Clone(d.bookingStaff),
		bookingItems: maps.Clone(d.bookingItems),
		events:       maps.Clone(d.events),
		leads:        maps.Clone(d.leads),
	}
}

type Store struct {
	mu    sync.RWMutex
	state *data
	// sem serializes transactions; a buffered channel lets waiters honour ctx.
	sem chan struct{}
}

func New() *Store {
	return &Store{
		state: newData(),
		sem:   make(chan struct{}, 1),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) snapshot() *view {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &view{d: s.state}
}

// InTx implements store.Store.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
	defer func() { <-s.sem }()

	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	s.mu.RLock()
	working := s.state.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &txView{view: view{d: working}}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	s.mu.Lock()
	s.state = working
	s.mu.Unlock()

	return nil
}

// InDayLock implements store.Store. Every transaction already runs alone, which
// covers any set of days.
func (s *Store) InDayLock(ctx context.Context, _ string, _ []string, fn func(ctx context.Context, tx store.Tx) error) error {
	return s.InTx(ctx, fn)
}

// Seed implements store.Store.
func (s *Store) Seed(ctx context.Context, fixture store.Fixture) error {
	return s.InTx(ctx, func(_ context.Context, tx store.Tx) error {
		d := tx.(*txView).d

		for _, business := range fixture.Businesses {
			d.businesses[business.ID] = business
		}

		for _, offering := range fixture.Offerings {
			d.offerings[offering.ID] = offering
		}

		for _, item := range fixture.ServiceItems {
			d.items[item.ID] = item
		}

		for _, staff := range fixture.Staff {
			d.staff[staff.ID] = staff
		}

		for _, assignment := range fixture.Assignments {
			d.assignments[assignment.ID] = assignment
		}

		for _, rule := range fixture.Rules {
			d.rules[rule.ID] = rule
		}

		return nil
	})
}

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err() //nolint:wrapcheck
}

func (s *Store) GetBusiness(ctx context.Context, tenantID string) (catalogModel.Business, error) {
	return s.snapshot().GetBusiness(ctx, tenantID)
}

func (s *Store) GetOffering(ctx context.Context, tenantID, ref string) (catalogModel.Offering, error) {
	return s.snapshot().GetOffering(ctx, tenantID, ref)
}

func (s *Store) ListOfferings(ctx context.Context, tenantID string) ([]catalogModel.Offering, error) {
	return s.snapshot().ListOfferings(ctx, tenantID)
}

func (s *Store) ListServiceItems(ctx context.Context, tenantID string) ([]catalogModel.ServiceItem, error) {
	return s.snapshot().ListServiceItems(ctx, tenantID)
}

func (s *Store) ListActiveStaff(ctx context.Context, tenantID string) ([]catalogModel.Staff, error) {
	return s.snapshot().ListActiveStaff(ctx, tenantID)
}

func (s *Store) ListAssignments(ctx context.Context, tenantID, offeringID string) ([]catalogModel.StaffServiceAssignment, error) {
	return s.snapshot().ListAssignments(ctx, tenantID, offeringID)
}

func (s *Store) ListRules(ctx context.Context, tenantID string, staffIDs []string, date time.Time) ([]availabilityModel.Rule, error) {
	return s.snapshot().ListRules(ctx, tenantID, staffIDs, date)
}

func (s *Store) ListStaffRules(ctx context.Context, tenantID, staffID string) ([]availabilityModel.Rule, error) {
	return s.snapshot().ListStaffRules(ctx, tenantID, staffID)
}

func (s *Store) ListActiveBookings(ctx context.Context, tenantID string, from, to time.Time) ([]bookingModel.Booking, error) {
	return s.snapshot().ListActiveBookings(ctx, tenantID, from, to)
}

func (s *Store) ListBookings(ctx context.Context, tenantID string, filter store.BookingFilter) ([]bookingModel.Booking, int, error) {
	return s.snapshot().ListBookings(ctx, tenantID, filter)
}

func (s *Store) GetBooking(ctx context.Context, tenantID, bookingID string) (bookingModel.Booking, error) {
	return s.snapshot().GetBooking(ctx, tenantID, bookingID)
}

func (s *Store) ListBookingEvents(ctx context.Context, bookingID string) ([]bookingModel.Event, error) {
	return s.snapshot().ListBookingEvents(ctx, bookingID)
}

func (s *Store) GetLeadByPhone(ctx context.Context, tenantID, phone string) (leadModel.Lead, error) {
	return s.snapshot().GetLeadByPhone(ctx, tenantID, phone)
}

func sortedValues[K comparable, V any](m map[K]V, keep func(V) bool, less func(a, b V) int) []V {
	out := make([]V, 0, len(m))

	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}

	slices.SortFunc(out, less)

	return out
}
