package service

import (
	"context"
	"fmt"
	"slices"
	"slotwise/internal/domains/availability/engine"
	"slotwise/internal/domains/booking/model"
	"slotwise/internal/domains/booking/model/dto"
	catalogModel "slotwise/internal/domains/catalog/model"
	leadModel "slotwise/internal/domains/lead/model"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	"slotwise/shared/failure"
	gModel "slotwise/shared/model"
	"slotwise/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// checkReschedulable rejects bookings that are closed or too close to start.
func (s *serviceImpl) checkReschedulable(booking model.Booking) error {
	switch booking.Status {
	case model.StatusCancelled, model.StatusCompleted, model.StatusNoShow:
		return failure.New(failure.KindNotReschedulable, fmt.Sprintf("a %s booking cannot be rescheduled", booking.Status)) //nolint:wrapcheck
	}

	return s.checkCutoff(booking)
}

func (s *serviceImpl) checkCutoff(booking model.Booking) error {
	cutoff := s.cfg.ChangeCutoff()

	if booking.StartsAt.Sub(s.clock.Now()) < cutoff {
		return failure.New(failure.KindTooLate, fmt.Sprintf("bookings can only be changed more than %s before they start", cutoff)) //nolint:wrapcheck
	}

	return nil
}

// Reschedule moves a booking to a new start, keeping its duration. The primary
// staff member is kept when still free, otherwise the first free candidate takes over.
func (s *serviceImpl) Reschedule(ctx context.Context, tenantID, bookingID string, req dto.RescheduleBookingRequest) (res dto.ChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RescheduleBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.observe(operationReschedule, err) }()

	booking, err := s.getBooking(ctx, s.store, tenantID, bookingID)
	if err != nil {
		return res, err
	}

	if err = s.checkReschedulable(booking); err != nil {
		return res, err
	}

	policy, err := s.engine.Policy(ctx, s.store, tenantID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	loc := policy.Location

	start, err := parseWindowStart(req.Date, req.Time, loc)
	if err != nil {
		return res, err
	}

	end := start.Add(booking.EndsAt.Sub(booking.StartsAt))
	query := engine.Query{
		TenantID:         tenantID,
		OfferingID:       booking.OfferingID,
		Start:            start,
		End:              end,
		ExcludeBookingID: booking.ID,
	}
	slotQuery := engine.SlotQuery{
		TenantID:         tenantID,
		Date:             timezone.StartOfDay(start, loc),
		DurationMin:      int(end.Sub(start) / time.Minute),
		OfferingID:       booking.OfferingID,
		ExcludeBookingID: booking.ID,
		Fallback:         s.allowFallback(policy),
	}

	result, err := s.engine.IsAvailable(ctx, s.store, query)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if !result.Available && !s.fallbackAllowed(policy, result.Reason) {
		return res, s.unavailable(ctx, result.Reason, slotQuery, start, loc)
	}

	user := actor(ctx)

	var (
		moved model.Booking
		event model.Event
	)

	days := lockDays(loc, window(booking.StartsAt, booking.EndsAt), window(start, end))

	err = s.commit(ctx, operationReschedule, tenantID, days, func(ctx context.Context, tx store.Tx) error {
		current, err := s.getBooking(ctx, tx, tenantID, bookingID)
		if err != nil {
			return err
		}

		if err = s.checkReschedulable(current); err != nil {
			return err
		}

		result, err := s.engine.IsAvailable(ctx, tx, query)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if !result.Available && !s.fallbackAllowed(policy, result.Reason) {
			return failure.New(result.Reason, unavailableMessage(result.Reason)) //nolint:wrapcheck
		}

		now := s.clock.Now()
		old := current

		current.SetWindow(start, end, loc)
		current.Status = model.StatusRescheduled
		current.ModifiedAt = now
		current.ModifiedBy = user

		if err = tx.UpdateBooking(ctx, current); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		staffID, fallback, err := s.rebindStaff(ctx, tx, current, result)
		if err != nil {
			return err
		}

		event = model.Event{
			ID:         uuid.NewString(),
			BookingID:  current.ID,
			TenantID:   tenantID,
			Kind:       model.EventRescheduled,
			OccurredAt: now,
			Actor:      user,
			Reason:     req.Reason,
			Payload: gModel.JSONMap{
				model.PayloadOldDate:  old.BookingDate.Format(timezone.DateLayout),
				model.PayloadOldStart: timezone.FormatMinute(timezone.MinuteOfClock(old.StartTime)),
				model.PayloadOldEnd:   timezone.FormatMinute(timezone.MinuteOfClock(old.EndTime)),
				model.PayloadNewDate:  current.BookingDate.Format(timezone.DateLayout),
				model.PayloadNewStart: timezone.FormatMinute(timezone.MinuteOfClock(current.StartTime)),
				model.PayloadNewEnd:   timezone.FormatMinute(timezone.MinuteOfClock(current.EndTime)),
				model.PayloadStaffID:  staffID,
			},
		}

		if fallback {
			event.Payload[model.PayloadFallbackStaff] = true
		}

		if err = tx.InsertEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to insert rescheduled event: %w", err)
		}

		moved, err = tx.GetBooking(ctx, tenantID, bookingID)
		if err != nil {
			return fmt.Errorf("failed to reload booking: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("booking", bookingID).Msg("failed to reschedule booking")

		if reason := failure.GetKind(err); reason.Unavailable() {
			return res, s.unavailable(ctx, reason, slotQuery, start, loc)
		}

		return res, err
	}

	s.publish(ctx, moved, event)
	res.FromModel(moved)

	return res, nil
}

// rebindStaff keeps the primary staff member while it is still a candidate,
// otherwise hands the booking to the first candidate. Without candidates the
// window was let through by the fallback policy: the primary is kept, or the
// first active staff member is assigned when there is none, and fallback is
// reported.
func (s *serviceImpl) rebindStaff(ctx context.Context, tx store.Tx, booking model.Booking, result engine.Result) (string, bool, error) {
	primary, hasPrimary := booking.Primary()

	if hasPrimary && slices.ContainsFunc(result.Candidates, func(c catalogModel.Staff) bool { return c.ID == primary.StaffID }) {
		return primary.StaffID, false, nil
	}

	first, ok := result.First()
	if !ok && hasPrimary {
		log.Warn().Str("booking", booking.ID).Str("staff", primary.StaffID).Str("reason", string(result.Reason)).Msg("keeping primary staff under fallback")

		return primary.StaffID, true, nil
	}

	if !ok {
		staff, err := s.fallbackStaff(ctx, tx, booking.TenantID, result.Reason)
		if err != nil {
			return "", false, err
		}

		first = staff
	}

	if err := tx.DeleteStaffAssignments(ctx, booking.ID); err != nil {
		return "", false, fmt.Errorf("failed to drop staff assignments: %w", err)
	}

	assignment := model.StaffAssignment{ID: uuid.NewString(), BookingID: booking.ID, StaffID: first.ID, IsPrimary: true}
	if err := tx.InsertStaffAssignment(ctx, assignment); err != nil {
		return "", false, fmt.Errorf("failed to assign staff: %w", err)
	}

	return first.ID, !ok, nil
}

// Cancel cancels a booking. Cancelling a cancelled booking succeeds without
// recording another event.
func (s *serviceImpl) Cancel(ctx context.Context, tenantID, bookingID string, req dto.CancelBookingRequest) (res dto.ChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.observe(operationCancel, err) }()

	booking, err := s.getBooking(ctx, s.store, tenantID, bookingID)
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusCancelled {
		res.FromModel(booking)

		return res, nil
	}

	if err = s.checkCancellable(booking); err != nil {
		return res, err
	}

	loc, err := s.engine.Location(ctx, s.store, tenantID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	user := actor(ctx)

	var (
		cancelled model.Booking
		event     *model.Event
	)

	err = s.commit(ctx, operationCancel, tenantID, lockDays(loc, window(booking.StartsAt, booking.EndsAt)), func(ctx context.Context, tx store.Tx) error {
		current, err := s.getBooking(ctx, tx, tenantID, bookingID)
		if err != nil {
			return err
		}

		cancelled, event = current, nil

		if current.Status == model.StatusCancelled {
			return nil
		}

		if err = s.checkCancellable(current); err != nil {
			return err
		}

		now := s.clock.Now()

		current.Status = model.StatusCancelled
		current.CancellationReason = req.Reason
		current.ModifiedAt = now
		current.ModifiedBy = user

		if err = tx.UpdateBooking(ctx, current); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		event = &model.Event{
			ID:         uuid.NewString(),
			BookingID:  current.ID,
			TenantID:   tenantID,
			Kind:       model.EventCancelled,
			OccurredAt: now,
			Actor:      user,
			Reason:     req.Reason,
		}

		if err = tx.InsertEvent(ctx, *event); err != nil {
			return fmt.Errorf("failed to insert cancelled event: %w", err)
		}

		cancelled = current

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("booking", bookingID).Msg("failed to cancel booking")

		return res, err
	}

	if event != nil {
		s.publish(ctx, cancelled, *event)
	}

	res.FromModel(cancelled)

	return res, nil
}

func (s *serviceImpl) checkCancellable(booking model.Booking) error {
	if booking.Status == model.StatusCompleted || booking.Status == model.StatusNoShow {
		return failure.New(failure.KindNotCancellable, fmt.Sprintf("a %s booking cannot be cancelled", booking.Status)) //nolint:wrapcheck
	}

	return s.checkCutoff(booking)
}

// RecordEvent appends a lifecycle event that AllowedTransitions permits at the
// current instant. Completed, no-show and confirmed events also move the status.
func (s *serviceImpl) RecordEvent(ctx context.Context, tenantID, bookingID string, req dto.RecordEventRequest) (res dto.EventResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordEvent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.observe(operationEvent, err) }()

	kind := model.EventKind(req.Kind)

	booking, err := s.getBooking(ctx, s.store, tenantID, bookingID)
	if err != nil {
		return res, err
	}

	if err = s.checkTransition(booking, kind); err != nil {
		return res, err
	}

	loc, err := s.engine.Location(ctx, s.store, tenantID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	user := actor(ctx)

	var (
		updated model.Booking
		event   model.Event
	)

	err = s.commit(ctx, operationEvent, tenantID, lockDays(loc, window(booking.StartsAt, booking.EndsAt)), func(ctx context.Context, tx store.Tx) error {
		current, err := s.getBooking(ctx, tx, tenantID, bookingID)
		if err != nil {
			return err
		}

		if err = s.checkTransition(current, kind); err != nil {
			return err
		}

		now := s.clock.Now()

		event = model.Event{
			ID:         uuid.NewString(),
			BookingID:  current.ID,
			TenantID:   tenantID,
			Kind:       kind,
			OccurredAt: now,
			Actor:      user,
			Reason:     req.Reason,
		}

		switch kind {
		case model.EventNoteAdded:
			event.Payload = gModel.JSONMap{model.PayloadNote: req.Note}
		case model.EventPaymentReceived:
			event.Payload = gModel.JSONMap{model.PayloadAmountCents: req.AmountCents}
		}

		if status, ok := statusAfter(kind); ok {
			current.Status = status
			current.ModifiedAt = now
			current.ModifiedBy = user

			if err = tx.UpdateBooking(ctx, current); err != nil {
				return fmt.Errorf("failed to update booking: %w", err)
			}
		}

		if kind == model.EventCompleted && current.LeadID != "" {
			err = tx.UpdateLead(ctx, tenantID, current.LeadID, map[string]any{
				leadModel.FieldStatus:    leadModel.StatusAppointmentCompleted,
				constant.FieldModifiedAt: now,
				constant.FieldModifiedBy: user,
			})
			if err != nil {
				return fmt.Errorf("failed to update lead status: %w", err)
			}
		}

		if err = tx.InsertEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to insert %s event: %w", kind, err)
		}

		updated = current

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("booking", bookingID).Str("kind", req.Kind).Msg("failed to record booking event")

		return res, err
	}

	s.publish(ctx, updated, event)
	res.FromModel(event)

	return res, nil
}

func (s *serviceImpl) checkTransition(booking model.Booking, kind model.EventKind) error {
	if slices.Contains(s.allowedTransitions(booking), kind) {
		return nil
	}

	if booking.Status == model.StatusCancelled {
		return failure.New(failure.KindAlreadyCancelled, "the booking is cancelled") //nolint:wrapcheck
	}

	return failure.New(failure.KindTransitionNotAllowed, fmt.Sprintf("%s is not allowed for a %s booking at this time", kind, booking.Status)) //nolint:wrapcheck
}

func statusAfter(kind model.EventKind) (model.Status, bool) {
	switch kind {
	case model.EventConfirmed:
		return model.StatusConfirmed, true
	case model.EventCompleted:
		return model.StatusCompleted, true
	case model.EventNoShow:
		return model.StatusNoShow, true
	default:
		return "", false
	}
}
