package repository

import (
	"context"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	"slotwise/internal/domains/availability/model"
	gDto "slotwise/shared/dto"
	gRepo "slotwise/shared/repository"
	"slotwise/shared/timezone"
	"time"

	"github.com/jmoiron/sqlx"
)

type Availability interface {
	gRepo.Base[model.Rule]
	WithTx(tx *sqlx.Tx) Availability
	GetApplicable(ctx context.Context, tenantID string, staffIDs []string, date time.Time) ([]model.Rule, error)
	GetByStaff(ctx context.Context, tenantID, staffID string) ([]model.Rule, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Rule]
}

func New(db *postgres.Connection, otel otel.Otel) Availability {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Rule](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) WithTx(tx *sqlx.Tx) Availability {
	return &repositoryImpl{Repository: r.Repository.WithTx(tx)}
}

var byStart = gDto.QueryParams{SortBy: "start_time", SortDir: gDto.SortDirAsc}

// GetApplicable returns the rules of staffIDs bound to date: weekly rules of its
// weekday and specific rules of that exact day.
func (r *repositoryImpl) GetApplicable(ctx context.Context, tenantID string, staffIDs []string, date time.Time) ([]model.Rule, error) {
	if len(staffIDs) == 0 {
		return nil, nil
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldTenantID, Operator: gDto.FilterOperatorEq, Value: tenantID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStaffID, Operator: gDto.FilterOperatorIn, Value: staffIDs, Table: model.TableName},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.FilterGroup{
						Operator: gDto.FilterGroupOperatorAnd,
						Filters: []any{
							gDto.Filter{ArgName: "weekly_kind", Field: model.FieldKind, Operator: gDto.FilterOperatorEq, Value: string(model.KindWeekly), Table: model.TableName},
							gDto.Filter{Field: model.FieldWeekday, Operator: gDto.FilterOperatorEq, Value: int(date.Weekday()), Table: model.TableName},
						},
					},
					gDto.FilterGroup{
						Operator: gDto.FilterGroupOperatorAnd,
						Filters: []any{
							gDto.Filter{ArgName: "specific_kind", Field: model.FieldKind, Operator: gDto.FilterOperatorEq, Value: string(model.KindSpecific), Table: model.TableName},
							gDto.Filter{Field: model.FieldSpecificDate, Operator: gDto.FilterOperatorEq, Value: date.Format(timezone.DateLayout), Table: model.TableName},
						},
					},
				},
			},
		},
	}

	return r.GetAll(ctx, byStart, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) GetByStaff(ctx context.Context, tenantID, staffID string) ([]model.Rule, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldTenantID, Operator: gDto.FilterOperatorEq, Value: tenantID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStaffID, Operator: gDto.FilterOperatorEq, Value: staffID, Table: model.TableName},
		},
	}

	return r.GetAll(ctx, byStart, filter) //nolint:wrapcheck
}
