package events_test

import (
	"context"
	"encoding/json"
	"errors"
	kafkaInfra "slotwise/infras/kafka"
	kafkaMocks "slotwise/infras/kafka/mocks"
	"slotwise/infras/metrics"
	s3Mocks "slotwise/infras/s3/mocks"
	bookingModel "slotwise/internal/domains/booking/model"
	"slotwise/internal/events"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBus_SubscribeAndPublish(t *testing.T) {
	bus := events.NewBus(nil)

	var received []*events.Event

	bus.Subscribe(events.Type(bookingModel.EventCreated), func(_ context.Context, event *events.Event) error {
		received = append(received, event)

		return nil
	})
	bus.Subscribe(events.Type(bookingModel.EventCancelled), func(_ context.Context, _ *events.Event) error {
		t.Fatal("cancelled handler must not run")

		return nil
	})

	err := bus.PublishJSON(context.Background(), "booking.created", "b1", map[string]string{"foo": "bar"})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, "booking.created", received[0].Type)
	assert.Equal(t, "b1", received[0].Key)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].CreatedAt.IsZero())

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(received[0].Payload, &decoded))
	assert.Equal(t, "bar", decoded["foo"])
}

func TestBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := events.NewBus(nil)
	calls := 0

	bus.Subscribe("booking.created", func(_ context.Context, _ *events.Event) error {
		calls++

		return errors.New("boom")
	})
	bus.Subscribe("booking.created", func(_ context.Context, _ *events.Event) error {
		calls++

		return nil
	})

	require.NoError(t, bus.PublishJSON(context.Background(), "booking.created", "b1", struct{}{}))
	assert.Equal(t, 2, calls)
}

func TestBus_NilIsNoop(t *testing.T) {
	var bus *events.Bus

	assert.NoError(t, bus.PublishJSON(context.Background(), "booking.created", "b1", struct{}{}))
}

func TestBus_Unmarshalable(t *testing.T) {
	bus := events.NewBus(nil)

	err := bus.PublishJSON(context.Background(), "booking.created", "b1", make(chan int))
	assert.Error(t, err)
}

func TestKafkaSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	bus := events.NewBus(m, events.NewKafkaSink(client, "booking-events"))

	client.EXPECT().
		SendMessages(gomock.Any(), "booking-events", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafkaInfra.Message) error {
			require.Len(t, messages, 1)
			assert.Equal(t, "b1", messages[0].Key)

			raw, err := json.Marshal(messages[0].Value)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"type":"booking.created"`)
			assert.Contains(t, string(raw), `"payload":{"n":1}`)

			return nil
		})

	require.NoError(t, bus.PublishJSON(context.Background(), "booking.created", "b1", map[string]int{"n": 1}))

	client.EXPECT().SendMessages(gomock.Any(), "booking-events", gomock.Any()).Return(errors.New("broker down"))
	require.NoError(t, bus.PublishJSON(context.Background(), "booking.created", "b2", map[string]int{"n": 2}))

	count, err := testutil.GatherAndCount(reg, "slotwise_events_published_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestArchiveSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := s3Mocks.NewMockS3(ctrl)
	sink := events.NewArchiveSink(client, "archive", "booking-events")

	event := &events.Event{
		ID:        "e1",
		Type:      "booking.cancelled",
		Key:       "b1",
		Payload:   []byte(`{"kind":"cancelled"}`),
		CreatedAt: time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
	}

	client.EXPECT().
		UploadFileBytes(gomock.Any(), "archive", "booking-events/2025/03/03", "b1-e1.json", "application/json", event.Payload).
		Return("https://cdn.example.com/booking-events/2025/03/03/b1-e1.json", nil)

	require.NoError(t, sink.Deliver(context.Background(), event))
	assert.Equal(t, events.SinkArchive, sink.Name())
}

func TestNewBookingPayload(t *testing.T) {
	booking := bookingModel.Booking{
		ID:            "b1",
		TenantID:      "T1",
		CustomerName:  "Jane Doe",
		CustomerPhone: "+15550100",
		Status:        bookingModel.StatusConfirmed,
		Staff:         []bookingModel.StaffAssignment{{StaffID: "S2"}, {StaffID: "S1", IsPrimary: true}},
	}
	booking.SetWindow(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC), time.UTC)

	payload := events.NewBookingPayload(booking, bookingModel.Event{
		ID:      "e1",
		Kind:    bookingModel.EventCreated,
		Actor:   "system",
		Payload: map[string]any{bookingModel.PayloadFallbackStaff: true},
	})

	assert.Equal(t, "created", payload.Kind)
	assert.Equal(t, "2025-03-03", payload.Date)
	assert.Equal(t, "10:00", payload.StartTime)
	assert.Equal(t, "12:00", payload.EndTime)
	assert.Equal(t, "S1", payload.StaffID)
	assert.Equal(t, true, payload.Data[bookingModel.PayloadFallbackStaff])
}
