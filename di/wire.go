//go:build wireinject
// +build wireinject

package di

import (
	"slotwise/config"
	"slotwise/infras/jwt"
	"slotwise/infras/metrics"
	"slotwise/infras/otel"
	"slotwise/infras/redis"
	"slotwise/internal/domains/availability/engine"
	"slotwise/internal/handlers/health"
	"slotwise/permissions"
	"slotwise/shared/timezone"
	"slotwise/transport/http"
	"slotwise/transport/http/middleware"
	"slotwise/transport/http/router"

	availabilityService "slotwise/internal/domains/availability/service"
	bookingService "slotwise/internal/domains/booking/service"
	catalogService "slotwise/internal/domains/catalog/service"
	availabilityHandler "slotwise/internal/handlers/availability"
	bookingHandler "slotwise/internal/handlers/booking"
	catalogHandler "slotwise/internal/handlers/catalog"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	jwt.New,
	timezone.SystemClock,
	provideRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	metrics.New,
)

var storage = wire.NewSet(
	provideStore,
	provideReader,
	providePinger,
	provideCache,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var domains = wire.NewSet(
	engine.New,
	provideBus,
	catalogService.New,
	availabilityService.New,
	bookingService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	health.NewState,
	health.New,
	catalogHandler.New,
	availabilityHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		storage,
		middlewares,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
