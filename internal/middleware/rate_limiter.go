package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures rate limiting behavior
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterMap stores rate limiters per client IP
type rateLimiterMap struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	config  RateLimiterConfig
}

func newRateLimiterMap(config RateLimiterConfig) *rateLimiterMap {
	rl := &rateLimiterMap{
		clients: make(map[string]*clientLimiter),
		config:  config,
	}

	go rl.cleanup()

	return rl
}

func (rl *rateLimiterMap) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst),
		}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()

	return client.limiter
}

// cleanup drops limiters for IPs not seen in the last 10 minutes so the
// map does not grow without bound.
func (rl *rateLimiterMap) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for ip, client := range rl.clients {
			if client.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimiterMiddleware creates a per-IP rate limiting middleware
func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	limiterMap := newRateLimiterMap(config)

	return func(c *gin.Context) {
		limiter := limiterMap.getLimiter(c.ClientIP())

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := reservation.DelayFrom(time.Now()).Seconds()
			reservation.Cancel()

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded. Please try again later.",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
