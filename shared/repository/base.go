package repository

import (
	"context"
	gDto "slotwise/shared/dto"
)

// Base is the set of generic operations every table repository exposes.
type Base[T any] interface {
	Insert(ctx context.Context, model T) error
	InsertBulk(ctx context.Context, models []T) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (T, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]T, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}
