package handlers

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/AbredagnKebede/Visit-Tembaro/internal/metrics"
)

// LoggingMiddleware logs all HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.statusCode).
			Dur("duration_ms", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP request")
	})
}

// MetricsMiddleware records request counts and durations by route template
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		metrics.RecordRequest(r.Method, routeName(r), strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
	})
}

// routeName keeps metric labels bounded by using the mux template, not the path
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// maxTrackedClients bounds the limiter map
const maxTrackedClients = 10000

// RateLimiter limits requests per client IP
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*ipLimiter
	rate       rate.Limit
	burst      int
	maxClients int
	trustProxy bool
	now        func() time.Time
}

// NewPerMinuteLimiter allows perMinute requests per IP per minute, bursting up to perMinute.
// X-Forwarded-For is only read when trustProxy is set.
func NewPerMinuteLimiter(perMinute int, trustProxy bool) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters:   make(map[string]*ipLimiter),
		rate:       rate.Every(time.Minute / time.Duration(perMinute)),
		burst:      perMinute,
		maxClients: maxTrackedClients,
		trustProxy: trustProxy,
		now:        time.Now,
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	l, ok := rl.limiters[ip]
	if !ok {
		rl.prune(now)
		if len(rl.limiters) >= rl.maxClients {
			rl.evictOldest()
		}
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// prune drops limiters idle for five minutes
func (rl *RateLimiter) prune(now time.Time) {
	for ip, l := range rl.limiters {
		if now.Sub(l.lastSeen) > 5*time.Minute {
			delete(rl.limiters, ip)
		}
	}
}

// evictOldest drops the least recently seen client
func (rl *RateLimiter) evictOldest() {
	var (
		oldest string
		seen   time.Time
	)
	for ip, l := range rl.limiters {
		if oldest == "" || l.lastSeen.Before(seen) {
			oldest, seen = ip, l.lastSeen
		}
	}
	delete(rl.limiters, oldest)
}

// Middleware rejects requests over the limit with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, rl.trustProxy)
		if !rl.allow(ip) {
			metrics.ContactRateLimited.Inc()
			log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the peer address, or the first X-Forwarded-For hop behind a trusted proxy
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
				return first
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
