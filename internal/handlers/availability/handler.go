package availability

import (
	"net/http"
	"slotwise/infras/otel"
	"slotwise/internal/domains/availability/model/dto"
	"slotwise/internal/domains/availability/service"
	"slotwise/shared/constant"
	"slotwise/shared/validator"
	"slotwise/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.CheckAvailability)

	router.Route("/staff/{staff}/availability", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetRules)
		routerGroup.Post("/", handler.CreateRule)
	})
}

// CheckAvailability answers whether a time is bookable, or lists the open slots of a day.
// @Summary Check availability
// @Description With a time, report whether the window is available and suggest alternates when it is not.
// @Description Without a time, list up to ten open slots of the day.
// @Tags Availability
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param time query string false "Start time (HH:MM)"
// @Param duration_min query int false "Duration in minutes"
// @Param offering query string false "Offering ID or name"
// @Param staff query string false "Staff ID"
// @Success 200 {object} response.Data[dto.CheckAvailabilityResponse] "Availability"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/tenants/{tenant}/availability [get]
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)

	req := dto.CheckAvailabilityRequest{}
	req.FromRequest(r)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query parameters")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Check(ctx, tenantID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("availability.available", res.Available)

	response.WithJSON(w, http.StatusOK, res)
}

// GetRules lists the availability rules of a staff member.
// @Summary List staff availability rules
// @Description Retrieve the weekly and date specific rules of a staff member.
// @Tags Availability
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param staff path string true "Staff ID"
// @Success 200 {object} response.Data[[]dto.RuleResponse] "Availability rules"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/staff/{staff}/availability [get]
// @Security BearerAuth
func (handler *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRules")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)
	staffID := chi.URLParam(r, constant.RequestParamStaff)

	rules, err := handler.service.ListRules(ctx, tenantID, staffID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to get availability rules")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rules)
}

// CreateRule adds an availability rule to a staff member.
// @Summary Create a staff availability rule
// @Description Add a weekly or date specific rule. Overlapping open rules are rejected.
// @Tags Availability
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param staff path string true "Staff ID"
// @Param request body dto.CreateRuleRequest true "Create Rule Request"
// @Success 201 {object} response.Data[dto.RuleResponse] "Rule created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/staff/{staff}/availability [post]
// @Security BearerAuth
func (handler *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRule")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)
	staffID := chi.URLParam(r, constant.RequestParamStaff)

	req := dto.CreateRuleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	rule, err := handler.service.CreateRule(ctx, tenantID, staffID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("staff_id", staffID).Msg("failed to create availability rule")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Availability rule created by user " + user)

	response.WithJSONMessage(w, http.StatusCreated, "Rule created successfully", rule)
}
