package booking_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slotwise/infras/otel/mocks"
	"slotwise/internal/domains/booking/model/dto"
	serviceMocks "slotwise/internal/domains/booking/service/mocks"
	"slotwise/internal/handlers/booking"
	"slotwise/shared/failure"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func newServer(t *testing.T) (*serviceMocks.MockBooking, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockBooking(ctrl)
	handler := booking.New(svc, mocks.NewOtel())

	mux := chi.NewRouter()
	mux.Route("/v1/tenants/{tenant}", handler.Router)

	return svc, mux
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

const createBody = `{
	"date": "2025-03-03",
	"time": "10:00",
	"offering": "Standard",
	"customer": {"name": "Ana Silva", "phone": "+15550001"},
	"items": [{"item": "extra_bedroom", "value": "2"}]
}`

func TestCreateBooking(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().
		Create(gomock.Any(), "T1", gomock.Any()).
		DoAndReturn(func(_ any, _ string, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error) {
			assert.Equal(t, "Standard", req.Offering)
			assert.Equal(t, "Ana Silva", req.Customer.Name)
			require.Len(t, req.Items, 1)
			assert.Equal(t, "2", req.Items[0].Value)

			return dto.CreateBookingResponse{BookingID: "b1", BookingConfirmed: true, StartTime: "10:00"}, nil
		})

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings", createBody)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var res dto.CreateBookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "b1", res.BookingID)
	assert.True(t, res.BookingConfirmed)
}

func TestCreateBooking_InvalidBody(t *testing.T) {
	_, h := newServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"date":`},
		{name: "missing customer phone", body: `{"date":"2025-03-03","time":"10:00","offering":"Standard","customer":{"name":"Ana"}}`},
		{name: "negative quantity", body: `{"date":"2025-03-03","time":"10:00","offering":"Standard","customer":{"name":"Ana","phone":"1"},"items":[{"item":"x","quantity":-1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, string(failure.KindValidation), env.Kind)
		})
	}
}

func TestCreateBooking_UnavailableCarriesAlternates(t *testing.T) {
	svc, h := newServer(t)

	alternates := []map[string]string{{"date": "2025-03-03", "start_time": "12:00"}}
	svc.EXPECT().
		Create(gomock.Any(), "T1", gomock.Any()).
		Return(dto.CreateBookingResponse{}, failure.WithData(failure.New(failure.KindTenantConflict, "the requested time overlaps an existing booking"), alternates))

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings", createBody)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(failure.KindTenantConflict), env.Kind)
	assert.JSONEq(t, `[{"date":"2025-03-03","start_time":"12:00"}]`, string(env.Data))
}

func TestGetBookingByID(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().Get(gomock.Any(), "T1", "b1").Return(dto.BookingResponse{ID: "b1", Status: "confirmed"}, nil)
	svc.EXPECT().Get(gomock.Any(), "T1", "missing").Return(dto.BookingResponse{}, failure.New(failure.KindUnknownBooking, "booking not found"))

	rec, env := do(t, h, http.MethodGet, "/v1/tenants/T1/bookings/b1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"confirmed"`)

	rec, env = do(t, h, http.MethodGet, "/v1/tenants/T1/bookings/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(failure.KindUnknownBooking), env.Kind)
}

func TestGetBookings(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().
		List(gomock.Any(), "T1", dto.ListBookingsRequest{Status: "confirmed", Date: "2025-03-03", StaffID: "S1", Page: 2, Limit: 5}).
		Return(dto.GetBookingsResponse{TotalData: 6, TotalPage: 2}, nil)

	rec, env := do(t, h, http.MethodGet, "/v1/tenants/T1/bookings?status=confirmed&date=2025-03-03&staff=S1&page=2&limit=5", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total_data":6`)
}

func TestGetBookings_InvalidStatus(t *testing.T) {
	_, h := newServer(t)

	rec, _ := do(t, h, http.MethodGet, "/v1/tenants/T1/bookings?status=archived", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRescheduleBooking(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().
		Reschedule(gomock.Any(), "T1", "b1", dto.RescheduleBookingRequest{Date: "2025-03-10", Time: "11:00", Reason: "clash"}).
		Return(dto.ChangeResponse{BookingID: "b1", Status: "rescheduled"}, nil)
	svc.EXPECT().
		Reschedule(gomock.Any(), "T1", "b2", gomock.Any()).
		Return(dto.ChangeResponse{}, failure.New(failure.KindTooLate, "changes must be made at least 24 hours in advance"))

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b1/reschedule", `{"date":"2025-03-10","time":"11:00","reason":"clash"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"rescheduled"`)

	rec, env = do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b2/reschedule", `{"date":"2025-03-10","time":"11:00"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(failure.KindTooLate), env.Kind)
}

func TestCancelBooking(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().
		Cancel(gomock.Any(), "T1", "b1", dto.CancelBookingRequest{}).
		Return(dto.ChangeResponse{BookingID: "b1", Status: "cancelled"}, nil).
		Times(2)
	svc.EXPECT().
		Cancel(gomock.Any(), "T1", "b1", dto.CancelBookingRequest{Reason: "sick"}).
		Return(dto.ChangeResponse{BookingID: "b1", Status: "cancelled"}, nil)

	rec, _ := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b1/cancel", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// An empty body of unknown length, as sent with chunked encoding.
	req := httptest.NewRequest(http.MethodPost, "/v1/tenants/T1/bookings/b1/cancel", io.NopCloser(strings.NewReader("")))
	require.Equal(t, int64(-1), req.ContentLength)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b1/cancel", `{"reason":"sick"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Booking cancelled successfully", env.Message)

	rec, _ = do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b1/cancel", `{"reason":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordEvent(t *testing.T) {
	svc, h := newServer(t)

	svc.EXPECT().
		RecordEvent(gomock.Any(), "T1", "b1", dto.RecordEventRequest{Kind: "note_added", Note: "gate code 1234"}).
		Return(dto.EventResponse{ID: "e1", Kind: "note_added"}, nil)

	rec, _ := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b1/events", `{"kind":"note_added","note":"gate code 1234"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b1/events", `{"kind":"note_added"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "note is required when Kind note_added", env.Message)

	rec, _ = do(t, h, http.MethodPost, "/v1/tenants/T1/bookings/b1/events", `{"kind":"deleted"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
