package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Elicupra/Paroikiapp/pkg/response"
)

// LoginLimiter throttles login attempts per client IP using a token bucket
// sized from the configured window. Stale entries are evicted lazily.
type LoginLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type clientLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewLoginLimiter allows maxAttempts per windowMin minutes per IP.
func NewLoginLimiter(maxAttempts, windowMin int) *LoginLimiter {
	window := time.Duration(windowMin) * time.Minute
	return &LoginLimiter{
		clients:  make(map[string]*clientLimiter),
		limit:    rate.Every(window / time.Duration(maxAttempts)),
		burst:    maxAttempts,
		lastSeen: 2 * window,
	}
}

// Middleware rejects over-limit requests with 429 TOO_MANY_LOGIN_ATTEMPTS.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			response.Error(c, 429, "TOO_MANY_LOGIN_ATTEMPTS", "Too many login attempts, please try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (l *LoginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cl, ok := l.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = cl
	}
	cl.seen = now

	if len(l.clients) > 1024 {
		for k, v := range l.clients {
			if now.Sub(v.seen) > l.lastSeen {
				delete(l.clients, k)
			}
		}
	}
	return cl.limiter.Allow()
}
