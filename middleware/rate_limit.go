package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"comercia/common"
	"comercia/pkg/cache"
	"comercia/pkg/log"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowSize  time.Duration // Time window for rate limiting (e.g., 1 minute)
	MaxRequests int64         // Maximum requests allowed in the window

	KeyPrefix    string                    // Prefix for cache keys
	KeyGenerator func(*gin.Context) string // Custom key generator function

	HeaderRemainingRequests string
	HeaderRetryAfter        string
	HeaderRateLimit         string

	SkipPaths     []string
	SkipCondition func(*gin.Context) bool

	OnLimitReached func(*gin.Context, RateLimitInfo)
}

// RateLimitInfo contains rate limit status information
type RateLimitInfo struct {
	Key        string
	Limit      int64
	Remaining  int64
	ResetTime  time.Time
	RetryAt    time.Time
	WindowSize time.Duration
}

// DefaultRateLimitConfig returns a default rate limiting configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		WindowSize:              time.Minute,
		MaxRequests:             100,
		KeyPrefix:               "rate_limit:",
		KeyGenerator:            defaultKeyGenerator,
		HeaderRemainingRequests: "X-RateLimit-Remaining",
		HeaderRetryAfter:        "X-RateLimit-Retry-After",
		HeaderRateLimit:         "X-RateLimit-Limit",
		SkipPaths:               []string{"/health"},
		OnLimitReached:          defaultOnLimitReached,
	}
}

// RateLimit returns a rate limiting middleware
func (m *middlewares) RateLimit(config ...RateLimitConfig) gin.HandlerFunc {
	var cfg RateLimitConfig
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultRateLimitConfig()
	}

	// Ensure all required fields are properly initialized
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = defaultKeyGenerator
	}
	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = defaultOnLimitReached
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rate_limit:"
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = time.Minute
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 100
	}

	// Create skip path map for faster lookup
	skipPaths := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		// Skip rate limiting for specified paths
		if skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Skip if custom condition is met
		if cfg.SkipCondition != nil && cfg.SkipCondition(c) {
			c.Next()
			return
		}

		// Generate rate limit key
		key := cfg.KeyPrefix + cfg.KeyGenerator(c)

		// Check and update rate limit
		info, allowed := checkRateLimit(c.Request.Context(), m.cache, key, cfg)

		// Set rate limit headers
		setRateLimitHeaders(c, cfg, info)

		if !allowed {
			cfg.OnLimitReached(c, info)
			return
		}

		c.Next()
	}
}

// RateLimitWithLogger returns a rate limiting middleware with logging support
func (m *middlewares) RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc {
	var cfg RateLimitConfig
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultRateLimitConfig()
	}

	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = defaultOnLimitReached
	}

	// Wrap the OnLimitReached handler to include logging
	originalHandler := cfg.OnLimitReached
	cfg.OnLimitReached = func(c *gin.Context, info RateLimitInfo) {
		if m.logger != nil {
			m.logger.Warn("Rate limit exceeded",
				log.String("key", info.Key),
				log.Int64("limit", info.Limit),
				log.Int64("remaining", info.Remaining),
				log.String("client_ip", c.ClientIP()),
				log.String("path", c.Request.URL.Path),
			)
		}
		originalHandler(c, info)
	}

	return m.RateLimit(cfg)
}

// APIRateLimits creates general API rate limits keyed per authenticated user
func (m *middlewares) APIRateLimits() gin.HandlerFunc {
	return m.RateLimitWithLogger(RateLimitConfig{
		WindowSize:   time.Minute,
		MaxRequests:  120,
		KeyPrefix:    "api:",
		KeyGenerator: UserKeyGenerator,
		SkipPaths:    []string{"/health"},
	})
}

// checkRateLimit checks and updates the rate limit for a given key
func checkRateLimit(ctx context.Context, cache cache.Client, key string, cfg RateLimitConfig) (RateLimitInfo, bool) {
	now := time.Now()
	windowStart := now.Truncate(cfg.WindowSize)
	resetTime := windowStart.Add(cfg.WindowSize)

	current, err := cache.Increment(ctx, key, 1, cfg.WindowSize)
	if err != nil {
		// If increment fails, allow the request rather than block traffic
		return RateLimitInfo{
			Key:        key,
			Limit:      cfg.MaxRequests,
			Remaining:  cfg.MaxRequests,
			ResetTime:  resetTime,
			RetryAt:    time.Time{},
			WindowSize: cfg.WindowSize,
		}, true
	}

	remaining := cfg.MaxRequests - current
	if remaining < 0 {
		remaining = 0
	}

	info := RateLimitInfo{
		Key:        key,
		Limit:      cfg.MaxRequests,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAt:    resetTime,
		WindowSize: cfg.WindowSize,
	}

	allowed := current <= cfg.MaxRequests
	return info, allowed
}

// setRateLimitHeaders sets rate limit headers in the response
func setRateLimitHeaders(c *gin.Context, cfg RateLimitConfig, info RateLimitInfo) {
	if cfg.HeaderRateLimit != "" {
		c.Header(cfg.HeaderRateLimit, strconv.FormatInt(info.Limit, 10))
	}

	if cfg.HeaderRemainingRequests != "" {
		c.Header(cfg.HeaderRemainingRequests, strconv.FormatInt(info.Remaining, 10))
	}

	if cfg.HeaderRetryAfter != "" && info.Remaining == 0 && !info.RetryAt.IsZero() {
		retryAfterSeconds := int64(time.Until(info.RetryAt).Seconds())
		if retryAfterSeconds > 0 {
			c.Header(cfg.HeaderRetryAfter, strconv.FormatInt(retryAfterSeconds, 10))
		}
	}
}

// defaultKeyGenerator generates a rate limit key based on client IP
func defaultKeyGenerator(c *gin.Context) string {
	return c.ClientIP()
}

// defaultOnLimitReached handles when rate limit is reached
func defaultOnLimitReached(c *gin.Context, info RateLimitInfo) {
	message := fmt.Sprintf("Too many requests. Limit %d requests per %v", info.Limit, info.WindowSize)

	c.Header("X-RateLimit-Limit", strconv.FormatInt(info.Limit, 10))
	c.Header("X-RateLimit-Remaining", "0")

	var retryAfter int64
	var retryAtISO string
	if !info.RetryAt.IsZero() {
		retryAfterDuration := time.Until(info.RetryAt)
		if retryAfterDuration > 0 {
			retryAfter = int64(retryAfterDuration.Seconds())
			c.Header("X-RateLimit-Retry-After", strconv.FormatInt(retryAfter, 10))
		}
		retryAtISO = info.RetryAt.Format(time.RFC3339)
	}

	common.Response(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", gin.H{
		"retry_after_seconds": retryAfter,
		"retry_at":            retryAtISO,
		"limit":               info.Limit,
		"remaining":           info.Remaining,
		"window_size":         info.WindowSize.String(),
	}, message)
}

// UserKeyGenerator keys the limit on the authenticated user, falling back
// to the client IP for unauthenticated requests.
func UserKeyGenerator(c *gin.Context) string {
	if userID := common.GetUserIDFromCtx(c); userID != "" {
		return fmt.Sprintf("user:%s", userID)
	}
	return fmt.Sprintf("ip:%s", c.ClientIP())
}
