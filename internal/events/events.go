// Package events is the in-process bus for booking lifecycle events. The
// coordinator publishes after commit; handlers and sinks never affect the state
// change that produced an event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"slotwise/infras/metrics"
	bookingModel "slotwise/internal/domains/booking/model"
	"slotwise/shared/timezone"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const TypePrefix = "booking."

// Type is the bus type of a booking event kind, e.g. booking.created.
func Type(kind bookingModel.EventKind) string {
	return TypePrefix + string(kind)
}

// Event is a published lifecycle event. Key is the booking ID.
type Event struct {
	ID        string
	Type      string
	Key       string
	Payload   []byte
	CreatedAt time.Time
}

// Handler reacts to an event. Errors are logged and never propagated.
type Handler func(ctx context.Context, event *Event) error

// Sink forwards every event to an external system.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event *Event) error
}

type Bus struct {
	subscribers map[string][]Handler
	sinks       []Sink
	metrics     *metrics.Metrics
	mu          sync.RWMutex
}

func NewBus(metrics *metrics.Metrics, sinks ...Sink) *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
		sinks:       sinks,
		metrics:     metrics,
	}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Attach adds a sink that receives events of every type.
func (b *Bus) Attach(sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sinks = append(b.sinks, sink)
}

// Publish runs the handlers of the event type, then every sink, in order.
func (b *Bus) Publish(ctx context.Context, event *Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = timezone.Now()
	}

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			log.Error().Err(err).Str("type", event.Type).Str("key", event.Key).Msg("event handler failed")
		}
	}

	for _, sink := range sinks {
		err := sink.Deliver(ctx, event)
		if err != nil {
			log.Error().Err(err).Str("type", event.Type).Str("sink", sink.Name()).Msg("failed to deliver event")
		}

		b.metrics.ObserveEvent(event.Type, sink.Name(), err == nil)
	}
}

// PublishJSON serializes payload and publishes it. A nil bus publishes nothing.
func (b *Bus) PublishJSON(ctx context.Context, eventType, key string, payload any) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, key, payload)
	if err != nil {
		return err
	}

	b.Publish(ctx, &event)

	return nil
}

// NewJSONEvent builds an Event with a JSON payload.
func NewJSONEvent(eventType, key string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Key:       key,
		Payload:   raw,
		CreatedAt: timezone.Now(),
	}, nil
}

// BookingPayload is the booking snapshot carried by every lifecycle event.
type BookingPayload struct {
	EventID    string         `json:"event_id"`
	BookingID  string         `json:"booking_id"`
	TenantID   string         `json:"tenant_id"`
	Kind       string         `json:"kind"`
	Status     string         `json:"status"`
	Date       string         `json:"date"`
	StartTime  string         `json:"start_time"`
	EndTime    string         `json:"end_time"`
	StaffID    string         `json:"staff_id,omitempty"`
	Customer   string         `json:"customer"`
	Phone      string         `json:"phone"`
	Actor      string         `json:"actor"`
	Reason     string         `json:"reason,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func NewBookingPayload(booking bookingModel.Booking, event bookingModel.Event) BookingPayload {
	payload := BookingPayload{
		EventID:    event.ID,
		BookingID:  booking.ID,
		TenantID:   booking.TenantID,
		Kind:       string(event.Kind),
		Status:     string(booking.Status),
		Date:       booking.BookingDate.Format(timezone.DateLayout),
		StartTime:  timezone.FormatMinute(timezone.MinuteOfClock(booking.StartTime)),
		EndTime:    timezone.FormatMinute(timezone.MinuteOfClock(booking.EndTime)),
		Customer:   booking.CustomerName,
		Phone:      booking.CustomerPhone,
		Actor:      event.Actor,
		Reason:     event.Reason,
		Data:       event.Payload,
		OccurredAt: event.OccurredAt,
	}

	if primary, ok := booking.Primary(); ok {
		payload.StaffID = primary.StaffID
	}

	return payload
}

// PublishBooking publishes the lifecycle event of booking under its bus type.
func (b *Bus) PublishBooking(ctx context.Context, booking bookingModel.Booking, event bookingModel.Event) error {
	return b.PublishJSON(ctx, Type(event.Kind), booking.ID, NewBookingPayload(booking, event))
}
