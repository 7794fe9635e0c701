package booking

import (
	"net/http"
	"slotwise/infras/otel"
	"slotwise/internal/domains/booking/model/dto"
	"slotwise/internal/domains/booking/service"
	"slotwise/shared/constant"
	"slotwise/shared/validator"
	"slotwise/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Post("/{id}/reschedule", handler.RescheduleBooking)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
		routerGroup.Post("/{id}/events", handler.RecordEvent)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Book an appointment
// @Description Price the selection, check availability and book the appointment in one transaction.
// @Description An unavailable time fails with the reason kind and alternate slots in data.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.CreateBookingResponse] "Booking created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/tenants/{tenant}/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	tenantID := chi.URLParam(request, constant.RequestParamTenant)

	req := dto.CreateBookingRequest{}
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, tenantID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully " + res.BookingID)

	response.WithJSONMessage(writer, http.StatusCreated, "Booking created successfully", res)
}

// GetBookings retrieves the bookings of a tenant.
// @Summary List bookings
// @Description Retrieve bookings with optional status, date and staff filters.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param staff query string false "Filter by assigned staff"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)

	req := dto.ListBookingsRequest{}
	req.FromRequest(r)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query parameters")

		response.WithError(w, err)

		return
	}

	bookings, err := handler.service.List(ctx, tenantID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Description Retrieve a booking with its items, staff, event log and allowed transitions.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)
	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, tenantID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// RescheduleBooking moves a booking to a new date and time.
// @Summary Reschedule a booking
// @Description Move a booking keeping its duration. Fails with too_late inside the change cutoff.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param id path string true "Booking ID"
// @Param request body dto.RescheduleBookingRequest true "Reschedule Booking Request"
// @Success 200 {object} response.Data[dto.ChangeResponse] "Booking rescheduled successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/bookings/{id}/reschedule [post]
// @Security BearerAuth
func (handler *Handler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RescheduleBooking")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)
	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RescheduleBookingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Reschedule(ctx, tenantID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to reschedule booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking rescheduled successfully by user " + user)

	response.WithJSONMessage(w, http.StatusOK, "Booking rescheduled successfully", res)
}

// CancelBooking cancels a booking.
// @Summary Cancel a booking
// @Description Cancel a booking. Cancelling a cancelled booking succeeds without a new event.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param id path string true "Booking ID"
// @Param request body dto.CancelBookingRequest false "Cancel Booking Request"
// @Success 200 {object} response.Data[dto.ChangeResponse] "Booking cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)
	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelBookingRequest{}

	if err := validator.ValidateOptional(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Cancel(ctx, tenantID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking cancelled successfully by user " + user)

	response.WithJSONMessage(w, http.StatusOK, "Booking cancelled successfully", res)
}

// RecordEvent appends a lifecycle event to a booking.
// @Summary Record a booking event
// @Description Record confirmed, completed, no_show, note_added or payment_received when the transition is allowed.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tenant path string true "Tenant ID"
// @Param id path string true "Booking ID"
// @Param request body dto.RecordEventRequest true "Record Event Request"
// @Success 201 {object} response.Data[dto.EventResponse] "Event recorded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tenants/{tenant}/bookings/{id}/events [post]
// @Security BearerAuth
func (handler *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordEvent")
	defer scope.End()

	tenantID := chi.URLParam(r, constant.RequestParamTenant)
	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RecordEventRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.RecordEvent(ctx, tenantID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Str("kind", req.Kind).Msg("failed to record booking event")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking event recorded " + res.Kind)

	response.WithJSONMessage(w, http.StatusCreated, "Event recorded successfully", res)
}
