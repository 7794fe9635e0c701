// Package engine decides whether a time window is bookable and enumerates
// bookable slots. It never writes: every call reads through the store.Reader it
// is given, so the booking coordinator can run the same checks inside its
// transaction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slotwise/infras/metrics"
	"slotwise/infras/otel"
	catalogModel "slotwise/internal/domains/catalog/model"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	"slotwise/shared/failure"
	"slotwise/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

// ReasonAvailable is the metric label of a successful evaluation.
const ReasonAvailable = "available"

// Query asks whether [Start, End) can be booked. OfferingID and StaffID are
// optional. ExcludeBookingID ignores one booking, used when it is being moved.
type Query struct {
	TenantID         string
	OfferingID       string
	StaffID          string
	Start            time.Time
	End              time.Time
	ExcludeBookingID string
}

type Result struct {
	Available bool
	// Reason is set when Available is false and names the first failing check.
	Reason     failure.Kind
	Candidates []catalogModel.Staff
}

// First returns the first candidate by ID.
func (r Result) First() (catalogModel.Staff, bool) {
	if len(r.Candidates) == 0 {
		return catalogModel.Staff{}, false
	}

	return r.Candidates[0], true
}

type Engine struct {
	clock   timezone.Clock
	otel    otel.Otel
	metrics *metrics.Metrics
}

func New(clock timezone.Clock, otel otel.Otel, metrics *metrics.Metrics) *Engine {
	return &Engine{
		clock:   clock,
		otel:    otel,
		metrics: metrics,
	}
}

// Policy is what the engine and the coordinator need to know about a tenant.
type Policy struct {
	Location      *time.Location
	AllowFallback bool
}

// Policy loads the tenant's zone and fallback flag. An unknown tenant gets the
// application zone and no fallback.
func (e *Engine) Policy(ctx context.Context, reader store.Reader, tenantID string) (Policy, error) {
	business, err := reader.GetBusiness(ctx, tenantID)
	if errors.Is(err, store.ErrNotFound) {
		return Policy{Location: timezone.GetLocation()}, nil
	}

	if err != nil {
		return Policy{}, unavailable(ctx, err)
	}

	return Policy{
		Location:      timezone.LoadLocation(business.Timezone),
		AllowFallback: business.AllowFallbackStaff,
	}, nil
}

// Location returns the tenant's zone, falling back to the application zone
// when the tenant is unknown or has no zone.
func (e *Engine) Location(ctx context.Context, reader store.Reader, tenantID string) (*time.Location, error) {
	policy, err := e.Policy(ctx, reader, tenantID)
	if err != nil {
		return nil, err
	}

	return policy.Location, nil
}

// IsAvailable evaluates the window with checks in a fixed order: window
// sanity, tenant-level overlap, staff pool, then each candidate's rules and
// bookings.
func (e *Engine) IsAvailable(ctx context.Context, reader store.Reader, query Query) (res Result, err error) {
	ctx, scope := e.otel.NewScope(ctx, constant.OtelEngineScopeName, constant.OtelEngineScopeName+".IsAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := e.clock.Now()

	if reason, ok := checkWindow(query.Start, query.End, now); !ok {
		e.observe(reason)

		return Result{Reason: reason}, nil
	}

	loc, err := e.Location(ctx, reader, query.TenantID)
	if err != nil {
		return res, err
	}

	day, err := e.loadDay(ctx, reader, dayRequest{
		tenantID:   query.TenantID,
		offeringID: query.OfferingID,
		staffID:    query.StaffID,
		date:       timezone.StartOfDay(query.Start, loc),
		from:       query.Start,
		to:         query.End,
		loc:        loc,
		now:        now,
	})
	if err != nil {
		log.Error().Err(err).Str("tenant", query.TenantID).Msg("failed to load availability snapshot")

		return res, err
	}

	res = day.evaluate(query.Start, query.End, query.ExcludeBookingID)
	e.observe(reasonLabel(res))

	scope.SetAttributes(map[string]any{
		"availability.available":  res.Available,
		"availability.reason":     string(res.Reason),
		"availability.candidates": len(res.Candidates),
	})

	return res, nil
}

func (e *Engine) observe(reason failure.Kind) {
	e.metrics.ObserveAvailability(string(reason))
}

func reasonLabel(res Result) failure.Kind {
	if res.Available {
		return ReasonAvailable
	}

	return res.Reason
}

// checkWindow runs the temporal sanity checks that need no store read.
func checkWindow(start, end, now time.Time) (failure.Kind, bool) {
	if !start.Before(end) {
		return failure.KindInvertedWindow, false
	}

	if start.Before(now) {
		return failure.KindInPast, false
	}

	return "", true
}

// unavailable maps a store failure to store_unavailable, keeping context errors
// intact so callers can tell cancellation from outage.
func unavailable(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("availability lookup aborted: %w", ctxErr)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	return failure.New(failure.KindStoreUnavailable, "availability data is temporarily unavailable") //nolint:wrapcheck
}
