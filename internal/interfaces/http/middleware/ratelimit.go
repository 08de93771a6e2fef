package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// tokenBucket is a classic refill-on-access bucket.
type tokenBucket struct {
	tokens   float64
	lastFill time.Time
}

// RateLimiter throttles per-client-IP using a token bucket per IP.
// A non-positive rps disables the limiter.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	rps     float64
	burst   float64
	now     func() time.Time

	lastSweep time.Time
}

// NewRateLimiter builds a limiter allowing rps sustained requests per second
// per client with a burst of 2x rps.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		rps:     float64(rps),
		burst:   float64(rps) * 2,
		now:     time.Now,
	}
}

// allow takes one token from the client's bucket if available.
func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweepLocked(now)

	b, ok := rl.buckets[clientIP]
	if !ok {
		b = &tokenBucket{tokens: rl.burst, lastFill: now}
		rl.buckets[clientIP] = b
	}

	b.tokens += now.Sub(b.lastFill).Seconds() * rl.rps
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastFill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweepLocked evicts buckets idle long enough to be full again.  Runs at most
// once a minute so the map does not grow with one bucket per ever-seen IP.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < time.Minute {
		return
	}
	rl.lastSweep = now

	idle := time.Duration(rl.burst/rl.rps*float64(time.Second)) + time.Minute
	for ip, b := range rl.buckets {
		if now.Sub(b.lastFill) > idle {
			delete(rl.buckets, ip)
		}
	}
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	if rl.rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%.0f", rl.rps))
		if !rl.allow(c.ClientIP()) {
			c.Writer.Header().Set("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":      string(apperrors.ErrCodeTooManyRequests),
				"message":   apperrors.DefaultMessageForCode(apperrors.ErrCodeTooManyRequests),
				"requestId": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
