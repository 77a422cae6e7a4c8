package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"proforma-engine/logger"
	"proforma-engine/metrics"
)

// clientKey identifies the caller by IP. Addresses without a port are used
// as they are.
func clientKey(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimitMiddleware charges cost tokens per request to the caller's budget.
func RateLimitMiddleware(
	limiter *RateLimiter,
	cost int,
	log logger.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)

		allowed, retryAfter := limiter.Allow(client, cost)
		if !allowed {
			metrics.RateLimited.Inc()
			log.Debug("rate limit exceeded", map[string]interface{}{
				"client": client,
				"path":   r.URL.Path,
				"cost":   cost,
			})
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
