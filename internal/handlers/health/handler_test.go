package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slotwise/infras/otel/mocks"
	"slotwise/internal/handlers/health"
	"slotwise/shared/constant"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type pinger struct {
	err error
}

func (p pinger) Ping(context.Context) error {
	return p.err
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name  string
		state health.ServerState
		ping  error
		code  int
		body  string
	}{
		{name: "ready", state: health.ServerStateReady, code: http.StatusOK, body: `"state":"ready"`},
		{name: "starting", state: health.ServerStateStarting, code: http.StatusServiceUnavailable, body: constant.ResponseErrorUnhealthy},
		{name: "grace period", state: health.ServerStateInGracePeriod, code: http.StatusServiceUnavailable, body: constant.ResponseErrorPrepareShutdown},
		{name: "cleanup period", state: health.ServerStateInCleanupPeriod, code: http.StatusServiceUnavailable, body: constant.ResponseErrorPrepareShutdown},
		{name: "store down", state: health.ServerStateReady, ping: errors.New("dial tcp: refused"), code: http.StatusServiceUnavailable, body: constant.ResponseErrorUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := health.NewState()
			state.Set(tt.state)

			handler := health.New(state, pinger{err: tt.ping}, mocks.NewOtel())
			mux := chi.NewRouter()
			handler.Router(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestServerState_String(t *testing.T) {
	assert.Equal(t, "starting", health.ServerStateStarting.String())
	assert.Equal(t, "ready", health.ServerStateReady.String())
	assert.Equal(t, "grace", health.ServerStateInGracePeriod.String())
	assert.Equal(t, "cleanup", health.ServerStateInCleanupPeriod.String())
}
