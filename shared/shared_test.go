package shared_test

import (
	"context"
	"errors"
	"reflect"
	"slotwise/shared"
	"slotwise/shared/cache/mocks"
	"slotwise/shared/dto"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{name: "prefix only", prefix: "offerings", expected: "offerings"},
		{name: "tenant scoped", prefix: "offerings", parts: []string{"T1"}, expected: "offerings:T1"},
		{name: "limiter key", prefix: "limiter", parts: []string{"10.0.0.1", "curl/8.0"}, expected: "limiter:10.0.0.1:curl/8.0"},
		{name: "empty part kept", prefix: "items", parts: []string{"T1", ""}, expected: "items:T1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.BuildCacheKey(tt.prefix, tt.parts...); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := mocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Clear(gomock.Any(), "offerings:T1*").Return(nil)
	redisCache.EXPECT().Clear(gomock.Any(), "items:T1*").Return(errors.New("redis down"))

	shared.InvalidateCaches(context.Background(), redisCache, "offerings:T1")
	shared.InvalidateCaches(context.Background(), redisCache, "items:T1")
	shared.InvalidateCaches(context.Background(), nil, "items:T1")
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "negative limit returns 1", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		fieldID  string
		table    string
		expected dto.FilterGroup
	}{
		{
			name:    "tenant by id",
			id:      "cleanco",
			fieldID: "id",
			table:   "businesses",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "id", Value: "cleanco", Operator: dto.FilterOperatorEq, Table: "businesses"},
				},
			},
		},
		{
			name:    "events by booking",
			id:      "550e8400-e29b-41d4-a716-446655440000",
			fieldID: "booking_id",
			table:   "booking_events",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "booking_id", Value: "550e8400-e29b-41d4-a716-446655440000", Operator: dto.FilterOperatorEq, Table: "booking_events"},
				},
			},
		},
		{
			name:    "empty table",
			id:      "456",
			fieldID: "id",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "id", Value: "456", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.FilterByID(tt.id, tt.fieldID, tt.table)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, result)
			}
		})
	}
}
