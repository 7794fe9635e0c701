package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"slotwise/config"
	"slotwise/infras/jwt"
	"slotwise/infras/otel/mocks"
	"slotwise/permissions"
	"slotwise/shared/constant"
	"slotwise/shared/timezone"
	"slotwise/transport/http/middleware"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func authConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "slotwise"
	cfg.App.Auth.Enable = true
	cfg.App.APIKey = "internal-key"
	cfg.JWT.AccessSecret = "secret"
	cfg.JWT.AccessExpireMin = 30

	return cfg
}

func newAuthServer(t *testing.T, cfg *config.Config, clock timezone.Clock) http.Handler {
	t.Helper()

	perms := permissions.Get()
	require.NotNil(t, perms)

	mw := middleware.NewAuthRoleMiddleware(jwt.New(cfg, clock), mocks.NewOtel(), perms, cfg)
	ok := func(w http.ResponseWriter, r *http.Request) {
		tenant, _ := r.Context().Value(constant.ContextKeyTenantID).(string)
		w.Header().Set("X-Caller-Tenant", tenant)
		w.WriteHeader(http.StatusOK)
	}

	mux := chi.NewRouter()
	mux.Route("/v1/tenants/{tenant}", func(r chi.Router) {
		r.Use(mw.APIKey, mw.Auth, mw.RBAC, mw.Tenant)
		r.Get("/bookings", ok)
		r.Post("/bookings", ok)
		r.Post("/staff/{staff}/availability", ok)
	})

	return mux
}

func token(t *testing.T, cfg *config.Config, clock timezone.Clock, tenant, role string) string {
	t.Helper()

	tok, err := jwt.New(cfg, clock).GenerateAccessToken("u1", tenant, role)
	require.NoError(t, err)

	return "Bearer " + tok.AccessToken
}

func TestAuthRole(t *testing.T) {
	cfg := authConfig()
	clock := timezone.NewFixedClock(authNow)
	h := newAuthServer(t, cfg, clock)

	staffT1 := token(t, cfg, clock, "T1", "staff")
	managerT1 := token(t, cfg, clock, "T1", "manager")
	adminT1 := token(t, cfg, clock, "T1", permissions.RoleAdmin)

	tests := []struct {
		name    string
		method  string
		target  string
		headers map[string]string
		code    int
	}{
		{name: "public route without token", method: http.MethodPost, target: "/v1/tenants/T1/bookings", code: http.StatusOK},
		{name: "missing token", method: http.MethodGet, target: "/v1/tenants/T1/bookings", code: http.StatusUnauthorized},
		{name: "malformed header", method: http.MethodGet, target: "/v1/tenants/T1/bookings", headers: map[string]string{constant.RequestHeaderAuthorization: "Token abc"}, code: http.StatusUnauthorized},
		{name: "invalid token", method: http.MethodGet, target: "/v1/tenants/T1/bookings", headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer abc"}, code: http.StatusUnauthorized},
		{name: "staff of the tenant", method: http.MethodGet, target: "/v1/tenants/T1/bookings", headers: map[string]string{constant.RequestHeaderAuthorization: staffT1}, code: http.StatusOK},
		{name: "staff of another tenant", method: http.MethodGet, target: "/v1/tenants/T2/bookings", headers: map[string]string{constant.RequestHeaderAuthorization: staffT1}, code: http.StatusForbidden},
		{name: "admin of another tenant", method: http.MethodGet, target: "/v1/tenants/T2/bookings", headers: map[string]string{constant.RequestHeaderAuthorization: adminT1}, code: http.StatusOK},
		{name: "staff cannot write rules", method: http.MethodPost, target: "/v1/tenants/T1/staff/S1/availability", headers: map[string]string{constant.RequestHeaderAuthorization: staffT1}, code: http.StatusForbidden},
		{name: "manager writes rules", method: http.MethodPost, target: "/v1/tenants/T1/staff/S1/availability", headers: map[string]string{constant.RequestHeaderAuthorization: managerT1}, code: http.StatusOK},
		{name: "internal api key", method: http.MethodGet, target: "/v1/tenants/T2/bookings", headers: map[string]string{constant.RequestHeaderAPIKey: "internal-key"}, code: http.StatusOK},
		{name: "wrong api key", method: http.MethodGet, target: "/v1/tenants/T1/bookings", headers: map[string]string{constant.RequestHeaderAPIKey: "guess"}, code: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, http.NoBody)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestAuth_SetsCallerTenant(t *testing.T) {
	cfg := authConfig()
	clock := timezone.NewFixedClock(authNow)
	h := newAuthServer(t, cfg, clock)

	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/T1/bookings", http.NoBody)
	req.Header.Set(constant.RequestHeaderAuthorization, token(t, cfg, clock, "T1", "staff"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "T1", rec.Header().Get("X-Caller-Tenant"))
}

func TestAuth_ExpiredToken(t *testing.T) {
	cfg := authConfig()
	clock := timezone.NewFixedClock(authNow)
	h := newAuthServer(t, cfg, clock)

	header := token(t, cfg, clock, "T1", "staff")
	clock.Advance(31 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/T1/bookings", http.NoBody)
	req.Header.Set(constant.RequestHeaderAuthorization, header)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token has expired")
}

func TestAuth_Disabled(t *testing.T) {
	cfg := authConfig()
	cfg.App.Auth.Enable = false
	h := newAuthServer(t, cfg, timezone.NewFixedClock(authNow))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/tenants/T1/staff/S1/availability", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
}
