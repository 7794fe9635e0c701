package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"slotwise/config"
	"slotwise/infras/metrics"
	"slotwise/infras/otel/mocks"
	"slotwise/shared/cache"
	"slotwise/shared/constant"
	"slotwise/transport/http/middleware"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limiterConfig(inMemory bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "slotwise"
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.InMemory = inMemory
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func newAppServer(cfg *config.Config, c cache.RedisCache, m *metrics.Metrics) http.Handler {
	mw := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, c, m)

	mux := chi.NewRouter()
	mux.Use(mw.Tracing, mw.RateLimit())
	mux.Get("/v1/tenants/{tenant}/offerings", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/T1/offerings", http.NoBody)
	req.Header.Set(constant.RequestHeaderForwardedFor, ip+", 10.0.0.1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRateLimit_InMemory(t *testing.T) {
	h := newAppServer(limiterConfig(true), nil, nil)

	assert.Equal(t, http.StatusOK, hit(h, "1.1.1.1").Code)
	assert.Equal(t, http.StatusOK, hit(h, "1.1.1.1").Code)

	rec := hit(h, "1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get(constant.RequestHeaderRateLimit))
	assert.Contains(t, rec.Body.String(), constant.ResponseErrorRequestLimitExceeded)

	assert.Equal(t, http.StatusOK, hit(h, "2.2.2.2").Code)
}

func TestRateLimit_Redis(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := newAppServer(limiterConfig(false), cache.NewRedisCache(client, mocks.NewOtel()), nil)

	first := hit(h, "1.1.1.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get(constant.RequestHeaderRateLimitRemaining))
	assert.Equal(t, http.StatusOK, hit(h, "1.1.1.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "1.1.1.1").Code)

	server.FlushAll()

	assert.Equal(t, http.StatusOK, hit(h, "1.1.1.1").Code)
}

func TestRateLimit_RedisDownLetsRequestsThrough(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	h := newAppServer(limiterConfig(false), cache.NewRedisCache(client, mocks.NewOtel()), nil)
	server.Close()

	for range 3 {
		assert.Equal(t, http.StatusOK, hit(h, "1.1.1.1").Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	cfg := limiterConfig(true)
	cfg.App.RateLimiter.Enable = false
	h := newAppServer(cfg, nil, nil)

	for range 5 {
		assert.Equal(t, http.StatusOK, hit(h, "1.1.1.1").Code)
	}
}

func TestTracing_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := limiterConfig(true)
	cfg.App.RateLimiter.Enable = false
	h := newAppServer(cfg, nil, metrics.New(reg))

	hit(h, "1.1.1.1")
	hit(h, "1.1.1.1")

	count, err := testutil.GatherAndCount(reg, "slotwise_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)

	var route string
	for _, family := range families {
		if family.GetName() != "slotwise_http_requests_total" {
			continue
		}

		for _, label := range family.GetMetric()[0].GetLabel() {
			if label.GetName() == "route" {
				route = label.GetValue()
			}
		}
	}

	assert.Equal(t, "/v1/tenants/{tenant}/offerings", route)
}
