package middleware

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/EmpoweredVote/lego-catalog/internal/session"
	"github.com/EmpoweredVote/lego-catalog/internal/utils"
	"golang.org/x/time/rate"
)

type SessionStore interface {
	Load(r *http.Request) (*session.User, error)
	Clear(w http.ResponseWriter)
}

// SessionMiddleware puts the session user, when there is one, into the request context.
// A cookie that fails verification is cleared and the request continues logged out.
func SessionMiddleware(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := store.Load(r)
			if err != nil {
				log.Printf("discarding session cookie: %v", err)
				store.Clear(w)
				next.ServeHTTP(w, r)
				return
			}
			if u == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), u)))
		})
	}
}

// RequireLogin redirects to /login unless SessionMiddleware found a user.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const (
	limiterIdle = 10 * time.Minute
	sweepEvery  = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per client address.
type clientLimiters struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func (c *clientLimiters) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) > sweepEvery {
		for k, v := range c.visitors {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(c.visitors, k)
			}
		}
		c.lastSweep = now
	}

	v, ok := c.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// RateLimit throttles requests per client IP as seen in RemoteAddr. Forwarded
// headers are only honoured when chi's RealIP runs first, which should happen
// only behind a proxy that overwrites them.
func RateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiters := &clientLimiters{
		visitors: map[string]*visitor{},
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too many requests, slow down", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
