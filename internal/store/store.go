// Package store defines the persistence boundary of the scheduling core. The
// availability engine only reads through Reader; the booking coordinator writes
// through Tx inside a day lock.
package store

import (
	"context"
	"errors"
	"slices"
	availabilityModel "slotwise/internal/domains/availability/model"
	bookingModel "slotwise/internal/domains/booking/model"
	catalogModel "slotwise/internal/domains/catalog/model"
	leadModel "slotwise/internal/domains/lead/model"
	"time"
)

var (
	// ErrNotFound is returned when a requested row does not exist for the tenant.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write loses against a concurrent writer.
	ErrConflict = errors.New("conflict")
)

// BookingFilter narrows booking listings. Zero values match everything.
type BookingFilter struct {
	Status  bookingModel.Status
	Date    string
	StaffID string
	Page    int
	Limit   int
}

type Reader interface {
	GetBusiness(ctx context.Context, tenantID string) (catalogModel.Business, error)
	// GetOffering resolves an offering by ID or case-insensitive name.
	GetOffering(ctx context.Context, tenantID, ref string) (catalogModel.Offering, error)
	ListOfferings(ctx context.Context, tenantID string) ([]catalogModel.Offering, error)
	ListServiceItems(ctx context.Context, tenantID string) ([]catalogModel.ServiceItem, error)
	// ListActiveStaff returns active staff ordered by ID.
	ListActiveStaff(ctx context.Context, tenantID string) ([]catalogModel.Staff, error)
	// ListAssignments returns active assignments, all of them when offeringID is empty.
	ListAssignments(ctx context.Context, tenantID, offeringID string) ([]catalogModel.StaffServiceAssignment, error)
	// ListRules returns the rules of staffIDs bound to the calendar day of date.
	ListRules(ctx context.Context, tenantID string, staffIDs []string, date time.Time) ([]availabilityModel.Rule, error)
	ListStaffRules(ctx context.Context, tenantID, staffID string) ([]availabilityModel.Rule, error)
	// ListActiveBookings returns active bookings intersecting [from, to) with Staff populated.
	ListActiveBookings(ctx context.Context, tenantID string, from, to time.Time) ([]bookingModel.Booking, error)
	ListBookings(ctx context.Context, tenantID string, filter BookingFilter) ([]bookingModel.Booking, int, error)
	// GetBooking returns the booking with Staff and Items populated.
	GetBooking(ctx context.Context, tenantID, bookingID string) (bookingModel.Booking, error)
	ListBookingEvents(ctx context.Context, bookingID string) ([]bookingModel.Event, error)
	GetLeadByPhone(ctx context.Context, tenantID, phone string) (leadModel.Lead, error)
}

type Writer interface {
	InsertBooking(ctx context.Context, booking bookingModel.Booking) error
	// UpdateBooking writes the mutable columns of booking.
	UpdateBooking(ctx context.Context, booking bookingModel.Booking) error
	InsertBookingItems(ctx context.Context, items []bookingModel.ServiceItem) error
	InsertStaffAssignment(ctx context.Context, assignment bookingModel.StaffAssignment) error
	DeleteStaffAssignments(ctx context.Context, bookingID string) error
	InsertEvent(ctx context.Context, event bookingModel.Event) error
	InsertLead(ctx context.Context, lead leadModel.Lead) error
	// UpdateLead writes only the given columns of the lead.
	UpdateLead(ctx context.Context, tenantID, leadID string, fields map[string]any) error
	InsertRule(ctx context.Context, rule availabilityModel.Rule) error
}

// Tx is a unit of work. Every read observes the writes made earlier in it.
type Tx interface {
	Reader
	Writer
}

type Store interface {
	Reader
	// InTx runs fn in a transaction. fn's error rolls it back.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// InDayLock runs fn in a transaction holding an exclusive lock on every
	// (tenantID, day) pair. Days are YYYY-MM-DD keys in the tenant's zone.
	InDayLock(ctx context.Context, tenantID string, days []string, fn func(ctx context.Context, tx Tx) error) error
	Seed(ctx context.Context, fixture Fixture) error
	Ping(ctx context.Context) error
}

// Fixture is a catalog and availability snapshot used to bootstrap a store.
type Fixture struct {
	Businesses   []catalogModel.Business
	Offerings    []catalogModel.Offering
	ServiceItems []catalogModel.ServiceItem
	Staff        []catalogModel.Staff
	Assignments  []catalogModel.StaffServiceAssignment
	Rules        []availabilityModel.Rule
}

// LockKeys returns the sorted, deduplicated lock keys of days for tenantID.
func LockKeys(tenantID string, days []string) []string {
	seen := make(map[string]struct{}, len(days))
	keys := make([]string, 0, len(days))

	for _, day := range days {
		key := tenantID + ":" + day
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
