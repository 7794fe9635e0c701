package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slotwise/config"
	"slotwise/infras/metrics"
	"slotwise/infras/otel"
	"slotwise/internal/domains/availability/engine"
	availabilityDto "slotwise/internal/domains/availability/model/dto"
	"slotwise/internal/domains/booking/model"
	"slotwise/internal/domains/booking/model/dto"
	"slotwise/internal/events"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	"slotwise/shared/failure"
	"slotwise/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	operationCreate     = "create"
	operationReschedule = "reschedule"
	operationCancel     = "cancel"
	operationEvent      = "record_event"

	outcomeOK = "ok"

	// maxAttempts bounds the retry of a transaction that lost a race.
	maxAttempts = 2
)

type Booking interface {
	Create(ctx context.Context, tenantID string, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Reschedule(ctx context.Context, tenantID, bookingID string, req dto.RescheduleBookingRequest) (dto.ChangeResponse, error)
	Cancel(ctx context.Context, tenantID, bookingID string, req dto.CancelBookingRequest) (dto.ChangeResponse, error)
	RecordEvent(ctx context.Context, tenantID, bookingID string, req dto.RecordEventRequest) (dto.EventResponse, error)
	Get(ctx context.Context, tenantID, bookingID string) (dto.BookingResponse, error)
	List(ctx context.Context, tenantID string, req dto.ListBookingsRequest) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	store   store.Store
	engine  *engine.Engine
	clock   timezone.Clock
	bus     *events.Bus
	cfg     *config.Config
	metrics *metrics.Metrics
	otel    otel.Otel
}

func New(
	store store.Store,
	engine *engine.Engine,
	clock timezone.Clock,
	bus *events.Bus,
	cfg *config.Config,
	metrics *metrics.Metrics,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		store:   store,
		engine:  engine,
		clock:   clock,
		bus:     bus,
		cfg:     cfg,
		metrics: metrics,
		otel:    otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context, tenantID, bookingID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.getBooking(ctx, s.store, tenantID, bookingID)
	if err != nil {
		return res, err
	}

	bookingEvents, err := s.store.ListBookingEvents(ctx, booking.ID)
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("booking", bookingID).Msg("failed to list booking events")

		return res, failure.New(failure.KindStoreUnavailable, "failed to load booking events") //nolint:wrapcheck
	}

	res.FromDetail(booking, bookingEvents, s.allowedTransitions(booking))

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, tenantID string, req dto.ListBookingsRequest) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, total, err := s.store.ListBookings(ctx, tenantID, req.ToFilter())
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to list bookings")

		return res, failure.New(failure.KindStoreUnavailable, "failed to list bookings") //nolint:wrapcheck
	}

	res.FromModels(bookings, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) allowedTransitions(booking model.Booking) []model.EventKind {
	return model.AllowedTransitionsWithCutoff(booking, s.clock.Now(), s.cfg.ChangeCutoff())
}

func (s *serviceImpl) getBooking(ctx context.Context, reader store.Reader, tenantID, bookingID string) (model.Booking, error) {
	booking, err := reader.GetBooking(ctx, tenantID, bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return booking, failure.New(failure.KindUnknownBooking, fmt.Sprintf("booking %q not found", bookingID)) //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("booking", bookingID).Msg("failed to load booking")

		return booking, storeFailure(ctx, err, "failed to load booking")
	}

	return booking, nil
}

// commit runs fn holding the day locks of days under the transaction deadline.
// A transaction that loses against a concurrent writer is retried once, then
// reported as raced.
func (s *serviceImpl) commit(ctx context.Context, operation, tenantID string, days []string, fn func(ctx context.Context, tx store.Tx) error) error {
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = s.lockedTx(ctx, operation, tenantID, days, fn)
		if !errors.Is(err, store.ErrConflict) {
			break
		}

		log.Warn().Err(err).Str("tenant", tenantID).Str("operation", operation).Int("attempt", attempt).Msg("booking transaction lost a race")
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrConflict):
		return failure.New(failure.KindRaced, "the slot was taken by a concurrent request, please retry") //nolint:wrapcheck
	}

	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	log.Error().Err(err).Str("tenant", tenantID).Str("operation", operation).Msg("booking transaction failed")

	return storeFailure(ctx, err, "failed to save booking")
}

func (s *serviceImpl) lockedTx(ctx context.Context, operation, tenantID string, days []string, fn func(ctx context.Context, tx store.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, s.cfg.TxTimeout())
	defer cancel()

	started := time.Now()
	err := s.store.InDayLock(txCtx, tenantID, days, fn)
	s.metrics.ObserveTransaction(operation, time.Since(started).Seconds())

	if err != nil && ctx.Err() == nil && errors.Is(txCtx.Err(), context.DeadlineExceeded) {
		return failure.New(failure.KindTimeout, "the booking transaction timed out") //nolint:wrapcheck
	}

	return err
}

// storeFailure maps an infrastructure error. A caller cancellation is returned
// as is; a deadline is a timeout; anything else is store_unavailable.
func storeFailure(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%s: %w", msg, context.Canceled)
	case errors.Is(err, context.DeadlineExceeded):
		return failure.New(failure.KindTimeout, msg+": deadline exceeded") //nolint:wrapcheck
	}

	var fail *failure.Failure
	if errors.As(err, &fail) {
		return err
	}

	return failure.New(failure.KindStoreUnavailable, msg) //nolint:wrapcheck
}

// unavailable builds the failure for an unavailable window, with up to
// MaxAlternates bookable slots around it.
func (s *serviceImpl) unavailable(ctx context.Context, reason failure.Kind, query engine.SlotQuery, at time.Time, loc *time.Location) error {
	err := failure.New(reason, unavailableMessage(reason))
	if !reason.Unavailable() {
		return err //nolint:wrapcheck
	}

	query.Max = s.cfg.Booking.MaxAlternates

	alternates, altErr := s.engine.AlternatesFor(ctx, s.store, query, at)
	if altErr != nil {
		log.Error().Err(altErr).Str("tenant", query.TenantID).Msg("failed to compute alternates")

		return err //nolint:wrapcheck
	}

	return failure.WithData(err, availabilityDto.FromSlots(alternates, loc)) //nolint:wrapcheck
}

func unavailableMessage(reason failure.Kind) string {
	switch reason {
	case failure.KindTenantConflict:
		return "the requested time overlaps an existing booking"
	case failure.KindNoQualifiedStaff:
		return "no staff member performs this service"
	case failure.KindNoStaffAvailable:
		return "no staff member is available at the requested time"
	case failure.KindInPast:
		return "the requested time is in the past"
	case failure.KindInvertedWindow:
		return "the requested window ends before it starts"
	default:
		return "the requested time is not available"
	}
}

// allowFallback is on when either the deployment or the tenant enables it.
func (s *serviceImpl) allowFallback(policy engine.Policy) bool {
	return s.cfg.Booking.AllowFallbackStaff || policy.AllowFallback
}

// fallbackAllowed reports whether a staff-side shortfall may be bridged by
// assigning the first active staff member.
func (s *serviceImpl) fallbackAllowed(policy engine.Policy, reason failure.Kind) bool {
	return s.allowFallback(policy) &&
		(reason == failure.KindNoQualifiedStaff || reason == failure.KindNoStaffAvailable)
}

func (s *serviceImpl) publish(ctx context.Context, booking model.Booking, event model.Event) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.bus.PublishBooking(c, booking, event); err != nil {
			log.Error().Err(err).Str("booking", booking.ID).Str("kind", string(event.Kind)).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) observe(operation string, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = string(failure.GetKind(err))
	}

	s.metrics.ObserveBooking(operation, outcome)
}

func actor(ctx context.Context) string {
	if user, _ := ctx.Value(constant.ContextKeyUserID).(string); user != "" {
		return user
	}

	return constant.ContextSystem
}

// parseWindowStart parses a tenant-local date and HH:MM time.
func parseWindowStart(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return time.Time{}, failure.New(failure.KindInvalidDateFormat, "date must be YYYY-MM-DD") //nolint:wrapcheck
	}

	minute, err := timezone.ParseMinute(clock)
	if err != nil {
		return time.Time{}, failure.New(failure.KindInvalidTimeFormat, "time must be HH:MM") //nolint:wrapcheck
	}

	return timezone.Combine(day, minute, loc), nil
}

// lockDays returns the tenant-local days touched by the half-open windows.
func lockDays(loc *time.Location, windows ...[2]time.Time) []string {
	days := make([]string, 0, 2*len(windows))

	for _, window := range windows {
		days = append(days, window[0].In(loc).Format(timezone.DateLayout))

		if last := window[1].Add(-time.Minute); last.After(window[0]) {
			days = append(days, last.In(loc).Format(timezone.DateLayout))
		}
	}

	return days
}

func window(start, end time.Time) [2]time.Time {
	return [2]time.Time{start, end}
}
