package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an idle client keeps its limiter.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipThrottle rate limits requests per client IP.
type ipThrottle struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	lastScan time.Time
}

func newIPThrottle(rps float64, burst int) *ipThrottle {
	return &ipThrottle{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (t *ipThrottle) allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()

	if now.Sub(t.lastScan) > limiterIdleTTL {
		for k, c := range t.clients {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(t.clients, k)
			}
		}
		t.lastScan = now
	}

	c, ok := t.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter.Allow()
}

func (t *ipThrottle) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			render.Status(r, http.StatusTooManyRequests)
			render.PlainText(w, r, tooManyRequestsResponse.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host of RemoteAddr, which is the socket peer unless
// middleware.RealIP rewrote it for a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
