package repository

import (
	"context"
	"slotwise/infras/otel"
	"slotwise/infras/postgres"
	"slotwise/internal/domains/lead/model"
	gDto "slotwise/shared/dto"
	gRepo "slotwise/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Lead interface {
	gRepo.Base[model.Lead]
	WithTx(tx *sqlx.Tx) Lead
	GetByPhone(ctx context.Context, tenantID, phone string) (model.Lead, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Lead]
}

func New(db *postgres.Connection, otel otel.Otel) Lead {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Lead](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) WithTx(tx *sqlx.Tx) Lead {
	return &repositoryImpl{Repository: r.Repository.WithTx(tx)}
}

func (r *repositoryImpl) GetByPhone(ctx context.Context, tenantID, phone string) (model.Lead, error) {
	return r.Get(ctx, gDto.FilterGroup{ //nolint:wrapcheck
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldTenantID, Operator: gDto.FilterOperatorEq, Value: tenantID, Table: model.TableName},
			gDto.Filter{Field: model.FieldPhone, Operator: gDto.FilterOperatorEq, Value: phone, Table: model.TableName},
		},
	})
}
