package middleware

import (
	"net"
	"net/http"
	"slotwise/shared"
	"slotwise/shared/constant"
	"slotwise/transport/http/response"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	cacheKeyRateLimit = "limiter"
)

// RateLimit counts requests per client and window in redis. With the in-memory
// option, or without a cache, each client gets a token bucket in this process.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			maxReqs := max(1, a.config.App.RateLimiter.MaxRequests)
			windowSecs := max(1, a.config.App.RateLimiter.WindowSeconds)
			clientKey := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), a.getUA(r))

			var (
				allowed   bool
				remaining int
			)

			if a.config.App.RateLimiter.InMemory || a.cache == nil {
				allowed, remaining = a.allowLocal(clientKey, maxReqs, windowSecs)
			} else {
				var ok bool

				allowed, remaining, ok = a.allowShared(r, clientKey, maxReqs, windowSecs)
				if !ok {
					// If cache fails, allow the request to continue
					next.ServeHTTP(w, r)

					return
				}
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(remaining))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			if !allowed {
				response.WithRequestLimitExceeded(w)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allowShared is a fixed window counter in redis. ok is false when the cache
// could not be used.
func (a *appMiddleware) allowShared(r *http.Request, key string, maxReqs, windowSecs int) (allowed bool, remaining int, ok bool) {
	count, err := a.cache.Incr(r.Context(), key, windowSecs)
	if err != nil {
		log.Warn().Err(err).Msg("rate limiter cache unavailable")

		return false, 0, false
	}

	return count <= int64(maxReqs), max(0, maxReqs-int(count)), true
}

// allowLocal spends a token of the client's bucket, refilled at maxReqs per window.
func (a *appMiddleware) allowLocal(key string, maxReqs, windowSecs int) (bool, int) {
	limiter := a.getLimiter(key, maxReqs, windowSecs)
	allowed := limiter.Allow()

	return allowed, max(0, int(limiter.Tokens()))
}

func (a *appMiddleware) getLimiter(key string, maxReqs, windowSecs int) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(rate.Limit(float64(maxReqs)/float64(windowSecs)), maxReqs)

	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}

	return lim
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
