package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slotwise/config"
	"slotwise/infras/otel"
	"slotwise/internal/domains/catalog/model"
	"slotwise/internal/domains/catalog/model/dto"
	"slotwise/internal/store"
	"slotwise/shared"
	"slotwise/shared/cache"
	"slotwise/shared/constant"
	"slotwise/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheListOfferings = "catalog:offerings"
	cacheListItems     = "catalog:items"
)

type Catalog interface {
	ListOfferings(ctx context.Context, tenantID string) ([]dto.OfferingResponse, error)
	ListServiceItems(ctx context.Context, tenantID, offeringRef string) ([]dto.ServiceItemResponse, error)
	Invalidate(ctx context.Context, tenantID string)
}

type serviceImpl struct {
	reader store.Reader
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
}

func New(reader store.Reader, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Catalog {
	return &serviceImpl{
		reader: reader,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
	}
}

func (s *serviceImpl) ListOfferings(ctx context.Context, tenantID string) (res []dto.OfferingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListOfferings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheListOfferings, tenantID)

	if s.cached(ctx, cacheKey, &res) {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for offerings")

		return res, nil
	}

	offerings, err := s.reader.ListOfferings(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to list offerings")

		return nil, failure.New(failure.KindStoreUnavailable, "failed to list offerings") //nolint:wrapcheck
	}

	res = dto.FromOfferings(offerings)
	s.save(ctx, cacheKey, res)

	return res, nil
}

// ListServiceItems returns the active items of a tenant. With an offering ref,
// only items bound to that offering or to no offering are returned.
func (s *serviceImpl) ListServiceItems(ctx context.Context, tenantID, offeringRef string) (res []dto.ServiceItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListServiceItems")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	offeringID := ""

	if offeringRef != "" {
		offering, err := s.reader.GetOffering(ctx, tenantID, offeringRef)
		if errors.Is(err, store.ErrNotFound) {
			return nil, failure.New(failure.KindUnknownOffering, fmt.Sprintf("offering %q not found", offeringRef)) //nolint:wrapcheck
		}

		if err != nil {
			log.Error().Err(err).Str("tenant", tenantID).Msg("failed to resolve offering")

			return nil, failure.New(failure.KindStoreUnavailable, "failed to resolve offering") //nolint:wrapcheck
		}

		offeringID = offering.ID
	}

	cacheKey := shared.BuildCacheKey(cacheListItems, tenantID, offeringID)

	if s.cached(ctx, cacheKey, &res) {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for service items")

		return res, nil
	}

	items, err := s.reader.ListServiceItems(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to list service items")

		return nil, failure.New(failure.KindStoreUnavailable, "failed to list service items") //nolint:wrapcheck
	}

	filtered := make([]model.ServiceItem, 0, len(items))

	for _, item := range items {
		if !item.Active || (offeringID != "" && !item.AppliesTo(offeringID)) {
			continue
		}

		filtered = append(filtered, item)
	}

	res = dto.FromServiceItems(filtered)
	s.save(ctx, cacheKey, res)

	return res, nil
}

// Invalidate drops every cached catalog read of the tenant.
func (s *serviceImpl) Invalidate(ctx context.Context, tenantID string) {
	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheListOfferings, tenantID))
	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheListItems, tenantID))
}

// cached reads key into value. A nil cache always misses.
func (s *serviceImpl) cached(ctx context.Context, key string, value any) bool {
	if s.cache == nil {
		return false
	}

	return s.cache.Get(ctx, key, value) == nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save catalog to cache")
		}
	}()
}
