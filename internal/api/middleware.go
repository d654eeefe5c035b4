package api

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"shareit/internal/metrics"
	"shareit/internal/models"
)

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := routeLabel(r.Method, r.URL.Path)
		metrics.IncHTTP(endpoint)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// rateLimitMiddleware applies two budgets: a token-bucket per client and,
// when a cache backend is wired, a fixed window per user id.
func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit.RPS > 0 {
			if !s.limiter.getLimiter(clientKey(r)).Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		if s.cache != nil && s.cfg.RateLimitRequests > 0 {
			if userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64); err == nil {
				window := time.Duration(s.cfg.RateLimitWindow) * time.Second
				if window <= 0 {
					window = time.Duration(models.RateLimitWindow) * time.Second
				}
				allowed, err := s.cache.CheckRateLimit(r.Context(), userID, s.cfg.RateLimitRequests, window)
				if err != nil {
					s.logger.Warn().Err(err).Int64("user_id", userID).Msg("rate limit check failed")
				} else if !allowed {
					writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if id := r.Header.Get(HeaderUserID); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}
