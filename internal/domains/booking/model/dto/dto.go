package dto

import (
	"net/http"
	"slotwise/internal/domains/booking/model"
	"slotwise/internal/domains/catalog/pricing"
	"slotwise/internal/store"
	"slotwise/shared"
	"slotwise/shared/constant"
	gDto "slotwise/shared/dto"
	"slotwise/shared/timezone"
	"time"
)

type CustomerRequest struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Phone string `json:"phone" validate:"required,max=32"`
	Email string `json:"email" validate:"omitempty,email,max=200"`
}

// ItemSelectionRequest picks a service item by ID or identifier. Value is the
// answer for the item's field; for number items it replaces Quantity.
type ItemSelectionRequest struct {
	Item     string `json:"item"     validate:"required"`
	Value    string `json:"value"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type CreateBookingRequest struct {
	Date     string                 `json:"date"     validate:"required"`
	Time     string                 `json:"time"     validate:"required"`
	Offering string                 `json:"offering" validate:"required"`
	Customer CustomerRequest        `json:"customer" validate:"required"`
	Items    []ItemSelectionRequest `json:"items"    validate:"omitempty,dive"`
	Notes    string                 `json:"notes"    validate:"max=2000"`
}

func (r CreateBookingRequest) Selections() []pricing.Selection {
	selections := make([]pricing.Selection, len(r.Items))
	for i, item := range r.Items {
		selections[i] = pricing.Selection{ItemRef: item.Item, Value: item.Value, Quantity: item.Quantity}
	}

	return selections
}

type RescheduleBookingRequest struct {
	Date   string `json:"date"   validate:"required"`
	Time   string `json:"time"   validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RecordEventRequest records a lifecycle event that is not a reschedule or a
// cancellation.
type RecordEventRequest struct {
	Kind        string `json:"kind"         validate:"required,oneof=confirmed completed no_show note_added payment_received"`
	Reason      string `json:"reason"       validate:"max=500"`
	Note        string `json:"note"         validate:"required_if=Kind note_added,max=2000"`
	AmountCents int64  `json:"amount_cents" validate:"gte=0"`
}

type ListBookingsRequest struct {
	Status  string `json:"status"   validate:"omitempty,oneof=pending confirmed rescheduled cancelled completed no_show"`
	Date    string `json:"date"     validate:"omitempty,datetime=2006-01-02"`
	StaffID string `json:"staff_id"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
}

func (r *ListBookingsRequest) FromRequest(req *http.Request) {
	var params gDto.QueryParams
	params.FromRequest(req, true)

	query := req.URL.Query()
	r.Status = query.Get(model.FieldStatus)
	r.Date = query.Get(constant.RequestParamDate)
	r.StaffID = query.Get(constant.RequestParamStaff)
	r.Page = params.Page
	r.Limit = params.Limit
}

func (r ListBookingsRequest) ToFilter() store.BookingFilter {
	return store.BookingFilter{
		Status:  model.Status(r.Status),
		Date:    r.Date,
		StaffID: r.StaffID,
		Page:    r.Page,
		Limit:   r.Limit,
	}
}

type QuoteLineResponse struct {
	ItemID     string `json:"item_id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
}

func FromQuote(quote pricing.Quote) []QuoteLineResponse {
	res := make([]QuoteLineResponse, len(quote.Lines))
	for i, line := range quote.Lines {
		res[i] = QuoteLineResponse{
			ItemID:     line.Item.ID,
			Identifier: line.Item.Identifier,
			Name:       line.Item.Name,
			Quantity:   line.Quantity,
			Price:      gDto.Money(line.PriceCents),
		}
	}

	return res
}

type CreateBookingResponse struct {
	BookingID        string              `json:"booking_id"`
	BookingConfirmed bool                `json:"booking_confirmed"`
	Date             string              `json:"date"`
	StartTime        string              `json:"start_time"`
	EndTime          string              `json:"end_time"`
	DurationMin      int                 `json:"duration_min"`
	TotalPrice       string              `json:"total_price"`
	StaffID          string              `json:"staff_id,omitempty"`
	StaffName        string              `json:"staff_name,omitempty"`
	FallbackStaff    bool                `json:"fallback_staff,omitempty"`
	Items            []QuoteLineResponse `json:"items"`
}

type StaffResponse struct {
	StaffID   string `json:"staff_id"`
	IsPrimary bool   `json:"is_primary"`
}

type ItemResponse struct {
	ServiceItemID string `json:"service_item_id"`
	Identifier    string `json:"identifier"`
	FieldType     string `json:"field_type"`
	Value         any    `json:"value"`
	Quantity      int    `json:"quantity"`
	Price         string `json:"price_at_booking"`
}

type EventResponse struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	OccurredAt string         `json:"occurred_at"`
	Actor      string         `json:"actor"`
	Reason     string         `json:"reason,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func (r *EventResponse) FromModel(event model.Event) {
	r.ID = event.ID
	r.Kind = string(event.Kind)
	r.OccurredAt = event.OccurredAt.Format(time.RFC3339)
	r.Actor = event.Actor
	r.Reason = event.Reason
	r.Payload = event.Payload
}

type BookingResponse struct {
	ID                 string          `json:"id"`
	LeadID             string          `json:"lead_id"`
	OfferingID         string          `json:"offering_id"`
	CustomerName       string          `json:"customer_name"`
	CustomerEmail      string          `json:"customer_email,omitempty"`
	CustomerPhone      string          `json:"customer_phone"`
	Date               string          `json:"date"`
	StartTime          string          `json:"start_time"`
	EndTime            string          `json:"end_time"`
	DurationMin        int             `json:"duration_min"`
	TotalPrice         string          `json:"total_price"`
	Status             string          `json:"status"`
	Notes              string          `json:"notes,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	Staff              []StaffResponse `json:"staff"`
	Items              []ItemResponse  `json:"items,omitempty"`
	Events             []EventResponse `json:"events,omitempty"`
	AllowedTransitions []string        `json:"allowed_transitions,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.LeadID = booking.LeadID
	r.OfferingID = booking.OfferingID
	r.CustomerName = booking.CustomerName
	r.CustomerEmail = booking.CustomerEmail
	r.CustomerPhone = booking.CustomerPhone
	r.Date = booking.BookingDate.Format(timezone.DateLayout)
	r.StartTime = timezone.FormatMinute(timezone.MinuteOfClock(booking.StartTime))
	r.EndTime = timezone.FormatMinute(timezone.MinuteOfClock(booking.EndTime))
	r.DurationMin = booking.DurationMin
	r.TotalPrice = gDto.Money(booking.TotalPriceCents)
	r.Status = string(booking.Status)
	r.Notes = booking.Notes
	r.CancellationReason = booking.CancellationReason
	r.Metadata.FromModel(booking.Metadata)

	r.Staff = make([]StaffResponse, len(booking.Staff))
	for i, assignment := range booking.Staff {
		r.Staff[i] = StaffResponse{StaffID: assignment.StaffID, IsPrimary: assignment.IsPrimary}
	}

	r.Items = make([]ItemResponse, len(booking.Items))
	for i, item := range booking.Items {
		r.Items[i] = ItemResponse{
			ServiceItemID: item.ServiceItemID,
			Identifier:    item.Identifier,
			FieldType:     string(item.FieldType),
			Value:         item.Value(),
			Quantity:      item.Quantity,
			Price:         gDto.Money(item.PriceAtBookingCents),
		}
	}
}

// FromDetail fills the read view of a single booking: the booking itself, its
// event log, and the transitions currently allowed.
func (r *BookingResponse) FromDetail(booking model.Booking, events []model.Event, transitions []model.EventKind) {
	r.FromModel(booking)

	r.Events = make([]EventResponse, len(events))
	for i, event := range events {
		r.Events[i].FromModel(event)
	}

	r.AllowedTransitions = make([]string, len(transitions))
	for i, kind := range transitions {
		r.AllowedTransitions[i] = string(kind)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// ChangeResponse is the result of a reschedule or a cancellation.
type ChangeResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	StaffID   string `json:"staff_id,omitempty"`
}

func (r *ChangeResponse) FromModel(booking model.Booking) {
	r.BookingID = booking.ID
	r.Status = string(booking.Status)
	r.Date = booking.BookingDate.Format(timezone.DateLayout)
	r.StartTime = timezone.FormatMinute(timezone.MinuteOfClock(booking.StartTime))
	r.EndTime = timezone.FormatMinute(timezone.MinuteOfClock(booking.EndTime))

	if primary, ok := booking.Primary(); ok {
		r.StaffID = primary.StaffID
	}
}
