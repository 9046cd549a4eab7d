package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Domenick1991/cruisebooking/internal/auth"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	callerKey       = "caller"
	RequestIDHeader = "X-Request-ID"
)

// Authenticator tells who sent a request. It never fails: unknown callers
// come back with Authenticated=false.
type Authenticator func(r *http.Request) auth.Caller

// Identify stores the caller on the context for the guards below.
func Identify(identify Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(callerKey, identify(c.Request))
		c.Next()
	}
}

func callerFrom(c *gin.Context) auth.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(auth.Caller); ok {
			return caller
		}
	}
	return auth.Caller{}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !callerFrom(c).Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgUnauthorized})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerFrom(c)
		if !caller.Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: msgUnauthorized})
			return
		}
		if !caller.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Message: msgForbidden})
			return
		}
		c.Next()
	}
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(RequestIDHeader),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			log.Error(c.Request.Context(), "request failed", append(args, "error", c.Errors.String())...)
			return
		}
		log.Info(c.Request.Context(), "request", args...)
	}
}

// RateLimiter throttles requests per client IP with a token bucket each.
type RateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*client
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const idleClientTTL = 10 * time.Minute

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, cl := range l.clients {
			if now.Sub(cl.lastSeen) > idleClientTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[key]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}
		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Message: "Too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
