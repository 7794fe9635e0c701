package catalog

import (
	"net/http"
	"slotwise/infras/otel"
	"slotwise/internal/domains/catalog/service"
	"slotwise/shared/constant"
	"slotwise/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/offerings", handler.GetOfferings)
	router.Get("/service-items", handler.GetServiceItems)
}

// GetOfferings lists the active offerings of a tenant.
// @Summary List offerings
// @Tags Catalog
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Success 200 {object} response.Data[[]dto.OfferingResponse] "Offerings"
// @Failure 500 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/tenants/{tenant}/offerings [get]
func (handler *Handler) GetOfferings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOfferings")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)

	offerings, err := handler.service.ListOfferings(ctx, tenantID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to get offerings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, offerings)
}

// GetServiceItems lists the active service items of a tenant.
// @Summary List service items
// @Description Retrieve the bookable add-ons, optionally restricted to one offering.
// @Tags Catalog
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param offering query string false "Offering ID or name"
// @Success 200 {object} response.Data[[]dto.ServiceItemResponse] "Service items"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/service-items [get]
func (handler *Handler) GetServiceItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetServiceItems")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)
	offering := r.URL.Query().Get(constant.RequestParamOffering)

	items, err := handler.service.ListServiceItems(ctx, tenantID, offering)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to get service items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, items)
}
