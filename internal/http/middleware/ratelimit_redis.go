package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"mine_empire/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter connects the shared client used by the Redis-backed
// limiters. An empty address or a failed ping leaves the client nil, in
// which case every Redis-backed limiter fails open.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiting disabled", "addr", addr, "error", err)
		return
	}
	redisClient = client
}

// RedisRateLimit is a fixed-window per-IP limiter shared across instances,
// built on INCR with an expiry set on the window's first hit.
func RedisRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	windowSecs := strconv.FormatInt(int64(window.Seconds()), 10)
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		key := "api_rl:" + c.ClientIP() + ":" + windowSecs
		ctx := context.Background()

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			RateLimitBlocked.WithLabelValues("api", c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RateLimitAllowed.WithLabelValues("api", c.FullPath()).Inc()
		c.Next()
	}
}
