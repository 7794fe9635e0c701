package service_test

import (
	"context"
	"slotwise/config"
	"slotwise/infras/otel/mocks"
	"slotwise/internal/domains/catalog/model"
	"slotwise/internal/domains/catalog/service"
	"slotwise/internal/store"
	"slotwise/internal/store/memstore"
	"slotwise/shared/cache"
	"slotwise/shared/failure"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenantID = "T1"

func ptr[T any](v T) *T {
	return &v
}

func setup(t *testing.T) (service.Catalog, *memstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := memstore.New()
	require.NoError(t, s.Seed(context.Background(), store.Fixture{
		Businesses: []model.Business{{ID: tenantID, Name: "Sparkle"}},
		Offerings: []model.Offering{
			{ID: "std", TenantID: tenantID, Name: "Std Cleaning", BaseDurationMin: 120, BasePriceCents: 10000, Active: true},
		},
		ServiceItems: []model.ServiceItem{
			{
				ID: "i1", TenantID: tenantID, OfferingID: ptr("std"), Name: "Extra Bedroom", Identifier: "extra_bedroom",
				FieldType: model.FieldTypeNumber, PriceType: model.PriceTypePaid, PriceCents: 1000, DurationMinutes: 15, MaxQuantity: 10, Active: true,
			},
			{
				ID: "i2", TenantID: tenantID, Name: "Cleaner Grade", Identifier: "cleaner_grade",
				FieldType: model.FieldTypeSelect, FieldOptions: []string{"best", "better"}, PriceType: model.PriceTypeFree,
				OptionPricing: model.OptionPricing{
					"best":   {PriceType: model.PriceTypePaid, PriceCents: 1000},
					"better": {PriceType: model.PriceTypePaid, PriceCents: 500},
				},
				MaxQuantity: 1, IsOptional: true, Active: true,
			},
			{
				ID: "i3", TenantID: tenantID, OfferingID: ptr("deep"), Name: "Oven", Identifier: "oven",
				FieldType: model.FieldTypeBoolean, PriceType: model.PriceTypePaid, PriceCents: 2500, MaxQuantity: 1, Active: true,
			},
		},
	}))

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	return service.New(s, cfg, cache.NewRedisCache(client, mocks.NewOtel()), mocks.NewOtel()), s, mr
}

func TestListOfferings_Cached(t *testing.T) {
	svc, s, mr := setup(t)
	ctx := context.Background()

	res, err := svc.ListOfferings(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "100.00", res[0].BasePrice)
	assert.Equal(t, 120, res[0].BaseDurationMin)

	require.Eventually(t, func() bool { return mr.Exists("catalog:offerings:" + tenantID) }, time.Second, 10*time.Millisecond)

	require.NoError(t, s.Seed(ctx, store.Fixture{Offerings: []model.Offering{
		{ID: "deep", TenantID: tenantID, Name: "Deep Cleaning", BaseDurationMin: 240, BasePriceCents: 20000, Active: true},
	}}))

	res, err = svc.ListOfferings(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, res, 1, "served from cache")

	svc.Invalidate(ctx, tenantID)
	assert.False(t, mr.Exists("catalog:offerings:"+tenantID))

	res, err = svc.ListOfferings(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestListServiceItems(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	all, err := svc.ListServiceItems(ctx, tenantID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	items, err := svc.ListServiceItems(ctx, tenantID, "Std Cleaning")
	require.NoError(t, err)
	require.Len(t, items, 2)

	byIdentifier := map[string]int{}
	for i, item := range items {
		byIdentifier[item.Identifier] = i
	}

	extra := items[byIdentifier["extra_bedroom"]]
	assert.Equal(t, "10.00", extra.Price)
	assert.Equal(t, "std", extra.OfferingID)

	grade := items[byIdentifier["cleaner_grade"]]
	assert.Equal(t, "0.00", grade.Price)
	assert.Equal(t, "10.00", grade.OptionPricing["best"].Price)
	assert.Equal(t, "5.00", grade.OptionPricing["better"].Price)

	_, err = svc.ListServiceItems(ctx, tenantID, "Window Washing")
	require.Error(t, err)
	assert.Equal(t, failure.KindUnknownOffering, failure.GetKind(err))
}

func TestListOfferings_WithoutCache(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx, store.Fixture{Offerings: []model.Offering{
		{ID: "std", TenantID: tenantID, Name: "Std Cleaning", BaseDurationMin: 120, BasePriceCents: 10000, Active: true},
	}}))

	svc := service.New(s, &config.Config{}, nil, mocks.NewOtel())

	res, err := svc.ListOfferings(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	svc.Invalidate(ctx, tenantID)
}
