package service

import (
	"context"
	"errors"
	"fmt"
	"slotwise/internal/domains/availability/engine"
	"slotwise/internal/domains/booking/model"
	"slotwise/internal/domains/booking/model/dto"
	catalogModel "slotwise/internal/domains/catalog/model"
	"slotwise/internal/domains/catalog/pricing"
	leadModel "slotwise/internal/domains/lead/model"
	"slotwise/internal/store"
	"slotwise/shared/constant"
	gDto "slotwise/shared/dto"
	"slotwise/shared/failure"
	gModel "slotwise/shared/model"
	"slotwise/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// booked is what the create transaction settled on.
type booked struct {
	booking  model.Booking
	event    model.Event
	staff    catalogModel.Staff
	fallback bool
}

// Create books an appointment: price the selection, check the window, upsert
// the lead, then insert the booking under the day lock after a second check.
func (s *serviceImpl) Create(ctx context.Context, tenantID string, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { s.observe(operationCreate, err) }()

	policy, err := s.engine.Policy(ctx, s.store, tenantID)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	loc := policy.Location

	start, err := parseWindowStart(req.Date, req.Time, loc)
	if err != nil {
		return res, err
	}

	offering, err := s.resolveOffering(ctx, tenantID, req.Offering)
	if err != nil {
		return res, err
	}

	quote, err := s.quote(ctx, tenantID, offering, req.Selections())
	if err != nil {
		return res, err
	}

	end := start.Add(time.Duration(quote.DurationMin) * time.Minute)
	query := engine.Query{TenantID: tenantID, OfferingID: offering.ID, Start: start, End: end}

	result, err := s.engine.IsAvailable(ctx, s.store, query)
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to check availability")

		return res, err //nolint:wrapcheck
	}

	slotQuery := engine.SlotQuery{
		TenantID:    tenantID,
		Date:        timezone.StartOfDay(start, loc),
		DurationMin: quote.DurationMin,
		OfferingID:  offering.ID,
		Fallback:    s.allowFallback(policy),
	}

	if !result.Available && !s.fallbackAllowed(policy, result.Reason) {
		return res, s.unavailable(ctx, result.Reason, slotQuery, start, loc)
	}

	user := actor(ctx)

	lead, err := s.upsertLead(ctx, tenantID, req.Customer, user)
	if err != nil {
		return res, err
	}

	var out booked

	err = s.commit(ctx, operationCreate, tenantID, lockDays(loc, window(start, end)), func(ctx context.Context, tx store.Tx) error {
		out, err = s.insertBooking(ctx, tx, insertRequest{
			req:      req,
			offering: offering,
			quote:    quote,
			query:    query,
			lead:     lead,
			policy:   policy,
			actor:    user,
		})

		return err
	})
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Str("date", req.Date).Str("time", req.Time).Msg("failed to create booking")

		if reason := failure.GetKind(err); reason.Unavailable() {
			return res, s.unavailable(ctx, reason, slotQuery, start, loc)
		}

		return res, err
	}

	s.publish(ctx, out.booking, out.event)

	return dto.CreateBookingResponse{
		BookingID:        out.booking.ID,
		BookingConfirmed: out.booking.Status == model.StatusConfirmed,
		Date:             out.booking.BookingDate.Format(timezone.DateLayout),
		StartTime:        timezone.FormatMinute(timezone.MinuteOfDay(start, loc)),
		EndTime:          timezone.FormatMinute(timezone.MinuteOfDay(end, loc)),
		DurationMin:      quote.DurationMin,
		TotalPrice:       gDto.Money(quote.PriceCents),
		StaffID:          out.staff.ID,
		StaffName:        out.staff.Name,
		FallbackStaff:    out.fallback,
		Items:            dto.FromQuote(quote),
	}, nil
}

type insertRequest struct {
	req      dto.CreateBookingRequest
	offering catalogModel.Offering
	quote    pricing.Quote
	query    engine.Query
	lead     leadModel.Lead
	policy   engine.Policy
	actor    string
}

// insertBooking is the body of the create transaction. It re-checks the window
// against the live state before writing anything.
func (s *serviceImpl) insertBooking(ctx context.Context, tx store.Tx, in insertRequest) (out booked, err error) {
	result, err := s.engine.IsAvailable(ctx, tx, in.query)
	if err != nil {
		return out, err //nolint:wrapcheck
	}

	if !result.Available && !s.fallbackAllowed(in.policy, result.Reason) {
		return out, failure.New(result.Reason, unavailableMessage(result.Reason)) //nolint:wrapcheck
	}

	now := s.clock.Now()
	start := in.query.Start

	booking := model.Booking{
		ID:              uuid.NewString(),
		TenantID:        in.query.TenantID,
		LeadID:          in.lead.ID,
		OfferingID:      in.offering.ID,
		CustomerName:    in.req.Customer.Name,
		CustomerEmail:   in.req.Customer.Email,
		CustomerPhone:   in.req.Customer.Phone,
		TotalPriceCents: in.quote.PriceCents,
		Status:          model.StatusConfirmed,
		Notes:           in.req.Notes,
		Metadata:        gModel.NewMetadata(now, in.actor),
	}
	booking.SetWindow(start, start.Add(time.Duration(in.offering.BaseDurationMin)*time.Minute), in.policy.Location)

	if err = tx.InsertBooking(ctx, booking); err != nil {
		return out, fmt.Errorf("failed to insert booking: %w", err)
	}

	if len(in.quote.Lines) > 0 {
		items := make([]model.ServiceItem, len(in.quote.Lines))
		for i, line := range in.quote.Lines {
			items[i] = model.ServiceItem{
				ID:                  uuid.NewString(),
				BookingID:           booking.ID,
				ServiceItemID:       line.Item.ID,
				Identifier:          line.Item.Identifier,
				Quantity:            line.Quantity,
				PriceAtBookingCents: line.PriceCents,
			}
			items[i].SetValue(line.Value)
		}

		if err = tx.InsertBookingItems(ctx, items); err != nil {
			return out, fmt.Errorf("failed to insert booking items: %w", err)
		}

		booking.Items = items
	}

	if !booking.EndsAt.Equal(in.query.End) {
		booking.SetWindow(start, in.query.End, in.policy.Location)

		if err = tx.UpdateBooking(ctx, booking); err != nil {
			return out, fmt.Errorf("failed to extend booking: %w", err)
		}
	}

	staff, ok := result.First()
	if !ok {
		if staff, err = s.fallbackStaff(ctx, tx, in.query.TenantID, result.Reason); err != nil {
			return out, err
		}
	}

	out.staff, out.fallback = staff, !ok

	assignment := model.StaffAssignment{ID: uuid.NewString(), BookingID: booking.ID, StaffID: out.staff.ID, IsPrimary: true}
	if err = tx.InsertStaffAssignment(ctx, assignment); err != nil {
		return out, fmt.Errorf("failed to assign staff: %w", err)
	}

	booking.Staff = []model.StaffAssignment{assignment}

	event := model.Event{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		TenantID:   booking.TenantID,
		Kind:       model.EventCreated,
		OccurredAt: now,
		Actor:      in.actor,
		Payload: gModel.JSONMap{
			model.PayloadStaffID:       out.staff.ID,
			model.PayloadFallbackStaff: out.fallback,
		},
	}

	if err = tx.InsertEvent(ctx, event); err != nil {
		return out, fmt.Errorf("failed to insert created event: %w", err)
	}

	err = tx.UpdateLead(ctx, booking.TenantID, in.lead.ID, map[string]any{
		leadModel.FieldStatus:    leadModel.StatusAppointmentScheduled,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: in.actor,
	})
	if err != nil {
		return out, fmt.Errorf("failed to update lead status: %w", err)
	}

	out.booking = booking
	out.event = event

	return out, nil
}

// fallbackStaff picks the first active staff member when no candidate passed
// the availability predicate.
func (s *serviceImpl) fallbackStaff(ctx context.Context, tx store.Tx, tenantID string, reason failure.Kind) (catalogModel.Staff, error) {
	staff, err := tx.ListActiveStaff(ctx, tenantID)
	if err != nil {
		return catalogModel.Staff{}, fmt.Errorf("failed to list staff: %w", err)
	}

	if len(staff) == 0 {
		return catalogModel.Staff{}, failure.New(reason, unavailableMessage(reason)) //nolint:wrapcheck
	}

	log.Warn().Str("tenant", tenantID).Str("staff", staff[0].ID).Str("reason", string(reason)).Msg("assigning fallback staff")

	return staff[0], nil
}

func (s *serviceImpl) resolveOffering(ctx context.Context, tenantID, ref string) (catalogModel.Offering, error) {
	offering, err := s.store.GetOffering(ctx, tenantID, ref)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !offering.Active) {
		return offering, failure.New(failure.KindUnknownOffering, fmt.Sprintf("offering %q not found", ref)) //nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to resolve offering")

		return offering, storeFailure(ctx, err, "failed to resolve offering")
	}

	return offering, nil
}

func (s *serviceImpl) quote(ctx context.Context, tenantID string, offering catalogModel.Offering, selections []pricing.Selection) (pricing.Quote, error) {
	items, err := s.store.ListServiceItems(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to list service items")

		return pricing.Quote{}, storeFailure(ctx, err, "failed to load service items")
	}

	active := make([]catalogModel.ServiceItem, 0, len(items))

	for _, item := range items {
		if item.Active {
			active = append(active, item)
		}
	}

	return pricing.Evaluate(offering, active, selections) //nolint:wrapcheck
}

// upsertLead finds the lead by phone or creates it. Existing leads only get
// their empty name and email columns filled.
func (s *serviceImpl) upsertLead(ctx context.Context, tenantID string, customer dto.CustomerRequest, user string) (lead leadModel.Lead, err error) {
	first, last := leadModel.SplitName(customer.Name)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = s.store.InTx(ctx, func(ctx context.Context, tx store.Tx) error {
			now := s.clock.Now()

			existing, err := tx.GetLeadByPhone(ctx, tenantID, customer.Phone)
			if errors.Is(err, store.ErrNotFound) {
				lead = leadModel.Lead{
					ID:        uuid.NewString(),
					TenantID:  tenantID,
					FirstName: first,
					LastName:  last,
					Phone:     customer.Phone,
					Email:     customer.Email,
					Source:    leadModel.SourceBooking,
					Status:    leadModel.StatusNew,
					Metadata:  gModel.NewMetadata(now, user),
				}

				return tx.InsertLead(ctx, lead) //nolint:wrapcheck
			}

			if err != nil {
				return fmt.Errorf("failed to find lead: %w", err)
			}

			lead = existing

			fields := lead.Fill(first, last, customer.Email)
			if len(fields) == 0 {
				return nil
			}

			lead.ModifiedAt, lead.ModifiedBy = now, user
			fields[constant.FieldModifiedAt] = now
			fields[constant.FieldModifiedBy] = user

			return tx.UpdateLead(ctx, tenantID, existing.ID, fields) //nolint:wrapcheck
		})
		if !errors.Is(err, store.ErrConflict) {
			break
		}
	}

	if err != nil {
		log.Error().Err(err).Str("tenant", tenantID).Msg("failed to upsert lead")

		return lead, storeFailure(ctx, err, "failed to save customer")
	}

	return lead, nil
}
