package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"slotwise/config"
	"slotwise/infras/otel"
	"slotwise/internal/domains/availability/engine"
	"slotwise/internal/domains/availability/model"
	"slotwise/internal/domains/availability/model/dto"
	catalogModel "slotwise/internal/domains/catalog/model"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	"slotwise/shared/failure"
	"slotwise/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

// earliestOffset is the westernmost UTC offset in use. A date before today at
// this offset is in the past for every tenant.
const earliestOffset = -12 * time.Hour

// maxAttempts bounds the retry of a rule transaction that lost a race.
const maxAttempts = 2

type Availability interface {
	Check(ctx context.Context, tenantID string, req dto.CheckAvailabilityRequest) (dto.CheckAvailabilityResponse, error)
	CreateRule(ctx context.Context, tenantID, staffID string, req dto.CreateRuleRequest) (dto.RuleResponse, error)
	ListRules(ctx context.Context, tenantID, staffID string) ([]dto.RuleResponse, error)
}

type serviceImpl struct {
	store  store.Store
	engine *engine.Engine
	clock  timezone.Clock
	cfg    *config.Config
	otel   otel.Otel
}

func New(store store.Store, engine *engine.Engine, clock timezone.Clock, cfg *config.Config, otel otel.Otel) Availability {
	return &serviceImpl{
		store:  store,
		engine: engine,
		clock:  clock,
		cfg:    cfg,
		otel:   otel,
	}
}

// Check answers whether a window is bookable or, without a time, lists the
// bookable slots of the day.
func (s *serviceImpl) Check(ctx context.Context, tenantID string, req dto.CheckAvailabilityRequest) (res dto.CheckAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = ValidateDate(req.Date, s.clock.Now()); err != nil {
		return res, err
	}

	minute := -1
	if req.Time != "" {
		if minute, err = timezone.ParseMinute(req.Time); err != nil {
			return res, failure.New(failure.KindInvalidTimeFormat, "time must be HH:MM") //nolint:wrapcheck
		}
	}

	policy, err := s.engine.Policy(ctx, s.store, tenantID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	loc := policy.Location

	date, _ := timezone.ParseDate(req.Date, loc)
	if date.Before(timezone.StartOfDay(s.clock.Now(), loc)) {
		return res, failure.New(failure.KindInPast, "date is in the past") //nolint:wrapcheck
	}

	offering, err := s.resolveOffering(ctx, tenantID, req.Offering)
	if err != nil {
		return res, err
	}

	res.Date = req.Date
	res.DurationMin = s.duration(req.DurationMin, offering)

	query := engine.SlotQuery{
		TenantID:    tenantID,
		Date:        date,
		DurationMin: res.DurationMin,
		OfferingID:  offering.ID,
		StaffID:     req.Staff,
		Fallback:    s.cfg.Booking.AllowFallbackStaff || policy.AllowFallback,
	}

	if minute < 0 {
		return s.slots(ctx, query, loc, res)
	}

	res.Time = timezone.FormatMinute(minute)
	start := timezone.Combine(date, minute, loc)

	result, err := s.engine.IsAvailable(ctx, s.store, engine.Query{
		TenantID:   tenantID,
		OfferingID: offering.ID,
		StaffID:    req.Staff,
		Start:      start,
		End:        start.Add(time.Duration(res.DurationMin) * time.Minute),
	})
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to check availability")

		return res, err //nolint:wrapcheck
	}

	if result.Available {
		staff, _ := result.First()
		res.Available = true
		res.StaffID = staff.ID
		res.StaffName = staff.Name

		return res, nil
	}

	res.Reason = string(result.Reason)

	if result.Reason.Unavailable() {
		alternates, err := s.engine.AlternatesFor(ctx, s.store, query, start)
		if err != nil {
			log.Error().Err(err).Str("tenant", tenantID).Msg("failed to compute alternates")

			return res, err //nolint:wrapcheck
		}

		res.Alternates = dto.FromSlots(alternates, loc)
	}

	return res, nil
}

func (s *serviceImpl) slots(ctx context.Context, query engine.SlotQuery, loc *time.Location, res dto.CheckAvailabilityResponse) (dto.CheckAvailabilityResponse, error) {
	query.Max = s.cfg.Booking.MaxSlots

	slots, err := s.engine.SlotsOn(ctx, s.store, query)
	if err != nil {
		log.Error().Err(err).Str("tenant", query.TenantID).Msg("failed to list slots")

		return res, err //nolint:wrapcheck
	}

	res.Slots = dto.FromSlots(slots, loc)
	res.Available = len(slots) > 0

	if !res.Available {
		res.Reason = string(failure.KindNoStaffAvailable)
	}

	return res, nil
}

func (s *serviceImpl) resolveOffering(ctx context.Context, tenantID, ref string) (catalogModel.Offering, error) {
	if ref == "" {
		return catalogModel.Offering{}, nil
	}

	offering, err := s.store.GetOffering(ctx, tenantID, ref)
	if errors.Is(err, store.ErrNotFound) {
		return offering, failure.New(failure.KindUnknownOffering, fmt.Sprintf("offering %q not found", ref)) //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to resolve offering")

		return offering, failure.New(failure.KindStoreUnavailable, "failed to resolve offering") //nolint:wrapcheck
	}

	return offering, nil
}

func (s *serviceImpl) duration(requested int, offering catalogModel.Offering) int {
	switch {
	case requested > 0:
		return requested
	case offering.BaseDurationMin > 0:
		return offering.BaseDurationMin
	case s.cfg.Booking.DefaultDurationMin > 0:
		return s.cfg.Booking.DefaultDurationMin
	default:
		return 60
	}
}

// ValidateDate checks a YYYY-MM-DD date without any store read: the format, and
// that the date is not before today in the westernmost zone.
func ValidateDate(value string, now time.Time) error {
	date, err := time.Parse(timezone.DateLayout, value)
	if err != nil {
		return failure.New(failure.KindInvalidDateFormat, "date must be YYYY-MM-DD") //nolint:wrapcheck
	}

	earliest := now.UTC().Add(earliestOffset)
	today := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, time.UTC)

	if date.Before(today) {
		return failure.New(failure.KindInPast, "date is in the past") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) CreateRule(ctx context.Context, tenantID, staffID string, req dto.CreateRuleRequest) (res dto.RuleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateRule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == "" {
		user = constant.ContextSystem
	}

	rule, err := req.ToModel(tenantID, staffID, user, s.clock.Now())
	if err != nil {
		var fieldErr *dto.FieldError
		if errors.As(err, &fieldErr) && fieldErr.Field == "specific_date" {
			return res, failure.New(failure.KindInvalidDateFormat, err.Error()) //nolint:wrapcheck
		}

		if errors.As(err, &fieldErr) && fieldErr.Field == "weekday" {
			return res, failure.BadRequest(err) //nolint:wrapcheck
		}

		return res, failure.New(failure.KindInvalidTimeFormat, err.Error()) //nolint:wrapcheck
	}

	if rule.StartMinute() >= rule.EndMinute() {
		return res, failure.New(failure.KindInvertedWindow, "start_time must be before end_time") //nolint:wrapcheck
	}

	insert := func(ctx context.Context, tx store.Tx) error {
		staff, err := tx.ListActiveStaff(ctx, tenantID)
		if err != nil {
			return fmt.Errorf("failed to list staff: %w", err)
		}

		if !slices.ContainsFunc(staff, func(member catalogModel.Staff) bool { return member.ID == staffID }) {
			return failure.NotFound(catalogModel.EntityStaff) //nolint:wrapcheck
		}

		existing, err := tx.ListStaffRules(ctx, tenantID, staffID)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		if Overlapping(existing, rule) {
			return failure.New(failure.KindOverlappingRule, "rule overlaps an existing rule for the same day") //nolint:wrapcheck
		}

		return tx.InsertRule(ctx, rule) //nolint:wrapcheck
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = s.store.InTx(ctx, insert)
		if !errors.Is(err, store.ErrConflict) {
			break
		}

		log.Warn().Err(err).Str("tenant", tenantID).Str("staff", staffID).Int("attempt", attempt).Msg("rule transaction lost a race")
	}

	if errors.Is(err, store.ErrConflict) {
		return res, failure.New(failure.KindRaced, "the schedule changed concurrently, please retry") //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("staff", staffID).Msg("failed to create availability rule")

		var fail *failure.Failure
		if errors.As(err, &fail) {
			return res, err //nolint:wrapcheck
		}

		return res, failure.New(failure.KindStoreUnavailable, "failed to save availability rule") //nolint:wrapcheck
	}

	res.FromModel(rule)

	return res, nil
}

// Overlapping reports whether rule collides with an open rule of the same staff
// member and day. Off rules never collide.
func Overlapping(existing []model.Rule, rule model.Rule) bool {
	if rule.OffDay {
		return false
	}

	for _, other := range existing {
		if other.OffDay || other.Kind != rule.Kind || other.Key() != rule.Key() {
			continue
		}

		if other.Interval().Overlaps(rule.Interval()) {
			return true
		}
	}

	return false
}

func (s *serviceImpl) ListRules(ctx context.Context, tenantID, staffID string) (res []dto.RuleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListRules")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	rules, err := s.store.ListStaffRules(ctx, tenantID, staffID)
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("staff", staffID).Msg("failed to list availability rules")

		return nil, failure.New(failure.KindStoreUnavailable, "failed to list availability rules") //nolint:wrapcheck
	}

	return dto.FromRules(rules), nil
}
