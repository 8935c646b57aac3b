package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter implements a simple token bucket rate limiter
type RateLimiter struct {
	mu           sync.Mutex
	tokens       map[string]int
	lastRefill   map[string]time.Time
	maxTokens    int
	refillRate   int           // tokens per refill
	refillPeriod time.Duration // how often to refill
	now          func() time.Time
}

// NewRateLimiter creates a new rate limiter
// maxTokens: maximum tokens per caller
// refillRate: how many tokens to add per refill period
// refillPeriod: how often to refill tokens
func NewRateLimiter(maxTokens, refillRate int, refillPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:       make(map[string]int),
		lastRefill:   make(map[string]time.Time),
		maxTokens:    maxTokens,
		refillRate:   refillRate,
		refillPeriod: refillPeriod,
		now:          time.Now,
	}
}

// WithClock replaces the time source, for tests
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	if _, exists := rl.tokens[key]; !exists {
		rl.tokens[key] = rl.maxTokens
		rl.lastRefill[key] = now
	}

	elapsed := now.Sub(rl.lastRefill[key])
	refills := int(elapsed / rl.refillPeriod)
	if refills > 0 {
		rl.tokens[key] += refills * rl.refillRate
		if rl.tokens[key] > rl.maxTokens {
			rl.tokens[key] = rl.maxTokens
		}
		rl.lastRefill[key] = rl.lastRefill[key].Add(time.Duration(refills) * rl.refillPeriod)
	}

	if rl.tokens[key] > 0 {
		rl.tokens[key]--
		return true
	}

	return false
}

// Remaining returns the remaining tokens for a key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.tokens[key]
}

// RateLimitMiddleware creates a rate limiting middleware
// Uses user ID from context or falls back to IP address
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := GetUserID(c); ok {
			key = id
		}

		allowed := rl.Allow(key)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(key)))
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxTokens))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rl.refillPeriod.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": APIError{
					Code:       ErrCodeRateLimited,
					Message:    "Too many requests, please try again later",
					RetryAfter: int(rl.refillPeriod.Milliseconds()),
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// DefaultRateLimiter provides a default rate limiter for the API
// 100 requests per minute per caller
var DefaultRateLimiter = NewRateLimiter(100, 10, time.Minute)

// StrictRateLimiter guards recommendations, which may call an LLM
// 20 requests per minute per caller
var StrictRateLimiter = NewRateLimiter(20, 2, time.Minute)
