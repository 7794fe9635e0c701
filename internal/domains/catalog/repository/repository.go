package repository

import (
	"context"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	"slotwise/internal/domains/catalog/model"
	"slotwise/shared/constant"
	gDto "slotwise/shared/dto"
	gRepo "slotwise/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Business interface {
	gRepo.Base[model.Business]
	WithTx(tx *sqlx.Tx) Business
}

type Offering interface {
	gRepo.Base[model.Offering]
	WithTx(tx *sqlx.Tx) Offering
	GetActive(ctx context.Context, tenantID string) ([]model.Offering, error)
}

type ServiceItem interface {
	gRepo.Base[model.ServiceItem]
	WithTx(tx *sqlx.Tx) ServiceItem
	GetActive(ctx context.Context, tenantID string) ([]model.ServiceItem, error)
}

type Staff interface {
	gRepo.Base[model.Staff]
	WithTx(tx *sqlx.Tx) Staff
	GetActive(ctx context.Context, tenantID string) ([]model.Staff, error)
}

type Assignment interface {
	gRepo.Base[model.StaffServiceAssignment]
	WithTx(tx *sqlx.Tx) Assignment
	GetActive(ctx context.Context, tenantID, offeringID string) ([]model.StaffServiceAssignment, error)
}

type businessRepo struct {
	gRepo.Repository[model.Business]
}

type offeringRepo struct {
	gRepo.Repository[model.Offering]
}

type itemRepo struct {
	gRepo.Repository[model.ServiceItem]
}

type staffRepo struct {
	gRepo.Repository[model.Staff]
}

type assignmentRepo struct {
	gRepo.Repository[model.StaffServiceAssignment]
}

func NewBusiness(db *postgres.Connection, otel otel.Otel) Business {
	return &businessRepo{
		Repository: gRepo.NewRepository[model.Business](model.EntityBusiness, model.TableBusiness, model.FieldID, db, otel),
	}
}

func NewOffering(db *postgres.Connection, otel otel.Otel) Offering {
	return &offeringRepo{
		Repository: gRepo.NewRepository[model.Offering](model.EntityOffering, model.TableOffering, model.FieldID, db, otel),
	}
}

func NewServiceItem(db *postgres.Connection, otel otel.Otel) ServiceItem {
	return &itemRepo{
		Repository: gRepo.NewRepository[model.ServiceItem](model.EntityItem, model.TableItem, model.FieldID, db, otel),
	}
}

func NewStaff(db *postgres.Connection, otel otel.Otel) Staff {
	return &staffRepo{
		Repository: gRepo.NewRepository[model.Staff](model.EntityStaff, model.TableStaff, model.FieldID, db, otel),
	}
}

func NewAssignment(db *postgres.Connection, otel otel.Otel) Assignment {
	return &assignmentRepo{
		Repository: gRepo.NewRepository[model.StaffServiceAssignment](model.EntityAssignment, model.TableAssignment, model.FieldID, db, otel),
	}
}

func (r *businessRepo) WithTx(tx *sqlx.Tx) Business {
	return &businessRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *offeringRepo) WithTx(tx *sqlx.Tx) Offering {
	return &offeringRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *itemRepo) WithTx(tx *sqlx.Tx) ServiceItem {
	return &itemRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *staffRepo) WithTx(tx *sqlx.Tx) Staff {
	return &staffRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *assignmentRepo) WithTx(tx *sqlx.Tx) Assignment {
	return &assignmentRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *offeringRepo) GetActive(ctx context.Context, tenantID string) ([]model.Offering, error) {
	return r.GetAll(ctx, byName, activeByTenant(model.TableOffering, tenantID)) //nolint:wrapcheck
}

func (r *itemRepo) GetActive(ctx context.Context, tenantID string) ([]model.ServiceItem, error) {
	return r.GetAll(ctx, byName, activeByTenant(model.TableItem, tenantID)) //nolint:wrapcheck
}

// GetActive returns the tenant's active staff ordered by ID.
func (r *staffRepo) GetActive(ctx context.Context, tenantID string) ([]model.Staff, error) {
	return r.GetAll(ctx, byID, activeByTenant(model.TableStaff, tenantID)) //nolint:wrapcheck
}

// GetActive returns active assignments of the tenant, narrowed to offeringID when it is set.
func (r *assignmentRepo) GetActive(ctx context.Context, tenantID, offeringID string) ([]model.StaffServiceAssignment, error) {
	filter := activeByTenant(model.TableAssignment, tenantID)

	if offeringID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldOfferingID,
			Operator: gDto.FilterOperatorEq,
			Value:    offeringID,
			Table:    model.TableAssignment,
		})
	}

	return r.GetAll(ctx, byID, filter) //nolint:wrapcheck
}

var (
	byID   = gDto.QueryParams{SortBy: model.FieldID, SortDir: gDto.SortDirAsc}
	byName = gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}
)

func activeByTenant(table, tenantID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldTenantID,
				Operator: gDto.FilterOperatorEq,
				Value:    tenantID,
				Table:    table,
			},
			gDto.Filter{
				Field:    model.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    table,
			},
		},
	}
}
