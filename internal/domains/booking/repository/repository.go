package repository

import (
	"context"
	"fmt"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	"slotwise/internal/domains/booking/model"
	"slotwise/shared"
	gDto "slotwise/shared/dto"
	gRepo "slotwise/shared/repository"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	gRepo.Base[model.Booking]
	WithTx(tx *sqlx.Tx) Booking
	GetOverlapping(ctx context.Context, tenantID string, from, to time.Time) ([]model.Booking, error)
}

type StaffAssignment interface {
	gRepo.Base[model.StaffAssignment]
	WithTx(tx *sqlx.Tx) StaffAssignment
	GetByBookings(ctx context.Context, bookingIDs []string) ([]model.StaffAssignment, error)
}

type ServiceItem interface {
	gRepo.Base[model.ServiceItem]
	WithTx(tx *sqlx.Tx) ServiceItem
	GetByBooking(ctx context.Context, bookingID string) ([]model.ServiceItem, error)
}

type Event interface {
	gRepo.Base[model.Event]
	WithTx(tx *sqlx.Tx) Event
	GetByBooking(ctx context.Context, bookingID string) ([]model.Event, error)
}

type bookingRepo struct {
	gRepo.Repository[model.Booking]
}

type staffAssignmentRepo struct {
	gRepo.Repository[model.StaffAssignment]
}

type serviceItemRepo struct {
	gRepo.Repository[model.ServiceItem]
}

type eventRepo struct {
	gRepo.Repository[model.Event]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &bookingRepo{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func NewStaffAssignment(db *postgres.Connection, otel otel.Otel) StaffAssignment {
	return &staffAssignmentRepo{
		Repository: gRepo.NewRepository[model.StaffAssignment](model.EntityStaffAssignment, model.TableStaffAssignment, model.FieldID, db, otel),
	}
}

func NewServiceItem(db *postgres.Connection, otel otel.Otel) ServiceItem {
	return &serviceItemRepo{
		Repository: gRepo.NewRepository[model.ServiceItem](model.EntityServiceItem, model.TableServiceItem, model.FieldID, db, otel),
	}
}

func NewEvent(db *postgres.Connection, otel otel.Otel) Event {
	return &eventRepo{
		Repository: gRepo.NewRepository[model.Event](model.EntityEvent, model.TableEvent, model.FieldID, db, otel),
	}
}

func (r *bookingRepo) WithTx(tx *sqlx.Tx) Booking {
	return &bookingRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *staffAssignmentRepo) WithTx(tx *sqlx.Tx) StaffAssignment {
	return &staffAssignmentRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *serviceItemRepo) WithTx(tx *sqlx.Tx) ServiceItem {
	return &serviceItemRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *eventRepo) WithTx(tx *sqlx.Tx) Event {
	return &eventRepo{Repository: r.Repository.WithTx(tx)}
}

// GetOverlapping returns the tenant's active bookings intersecting the half-open
// window [from, to), ordered by start then ID.
func (r *bookingRepo) GetOverlapping(ctx context.Context, tenantID string, from, to time.Time) ([]model.Booking, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s.tenant_id = :tenant_id AND %s.status IN (:status_pending, :status_confirmed, :status_rescheduled) AND %s.starts_at < :window_end AND %s.ends_at > :window_start ORDER BY %s.starts_at, %s.id",
		r.Columns(ctx), model.TableName, model.TableName, model.TableName, model.TableName, model.TableName, model.TableName, model.TableName,
	)

	args := map[string]any{
		"tenant_id":          tenantID,
		"status_pending":     string(model.StatusPending),
		"status_confirmed":   string(model.StatusConfirmed),
		"status_rescheduled": string(model.StatusRescheduled),
		"window_start":       from,
		"window_end":         to,
	}

	var bookings []model.Booking
	if err := r.Select(ctx, &bookings, query, args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return bookings, nil
}

func (r *staffAssignmentRepo) GetByBookings(ctx context.Context, bookingIDs []string) ([]model.StaffAssignment, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorIn, Value: bookingIDs, Table: model.TableStaffAssignment},
		},
	}

	return r.GetAll(ctx, gDto.QueryParams{SortBy: "is_primary DESC, staff_id", SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}

func (r *serviceItemRepo) GetByBooking(ctx context.Context, bookingID string) ([]model.ServiceItem, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Operator: gDto.FilterOperatorEq, Value: bookingID, Table: model.TableServiceItem},
		},
	}

	return r.GetAll(ctx, gDto.QueryParams{SortBy: "identifier", SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}

func (r *eventRepo) GetByBooking(ctx context.Context, bookingID string) ([]model.Event, error) {
	filter := shared.FilterByID(bookingID, model.FieldBookingID, model.TableEvent)

	return r.GetAll(ctx, gDto.QueryParams{SortBy: "occurred_at", SortDir: gDto.SortDirAsc}, filter) //nolint:wrapcheck
}
