package router

import (
	"net/http"
	"slotwise/config"
	"slotwise/internal/handlers/availability"
	"slotwise/internal/handlers/booking"
	"slotwise/internal/handlers/catalog"
	"slotwise/internal/handlers/health"
	"slotwise/shared/constant"
	"slotwise/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "slotwise/docs" // swagger spec
)

type DomainHandlers struct {
	Health       health.Handler
	Catalog      catalog.Handler
	Availability availability.Handler
	Booking      booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
	Gatherer       prometheus.Gatherer
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID, chiMiddleware.RealIP, chiMiddleware.Recoverer)

	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   r.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   r.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   r.Config.App.CORS.AllowedHeaders,
			AllowCredentials: r.Config.App.CORS.AllowCredentials,
			MaxAge:           r.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	router.Use(r.App.Tracing)

	r.DomainHandlers.Health.Router(router)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))

	if r.Config.Server.Env == constant.ServerEnvDevelopment {
		router.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	router.Route("/v1/tenants/{tenant}", func(routerGroup chi.Router) {
		routerGroup.Use(
			r.App.RateLimit(),
			r.AuthRole.APIKey,
			r.AuthRole.Auth,
			r.AuthRole.RBAC,
			r.AuthRole.Tenant,
		)

		r.DomainHandlers.Catalog.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole, gatherer prometheus.Gatherer, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
		Gatherer:       gatherer,
		Config:         cfg,
	}
}
