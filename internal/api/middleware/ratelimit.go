package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vietanh2810/ticktopia-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/ticktopia-api/internal/clock"
	"github.com/vietanh2810/ticktopia-api/internal/config"
)

const rateKeyPrefix = "ticktopia:ratelimit:"

// tokenBucket refills rate_per_ms tokens continuously up to capacity and
// takes one per call. It returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local rate_per_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	tokens = math.min(capacity, tokens + elapsed * rate_per_ms)
	last_refill = now_ms

	local allowed = 0
	local retry_after_ms = 0
	if tokens >= 1 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.ceil((1 - tokens) / rate_per_ms)
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, math.floor(tokens), retry_after_ms }
`)

// RateLimit throttles per client IP and route. It is a pass-through when
// disabled or when Redis is unavailable, and fails open on script errors.
func RateLimit(conf *config.RateLimitConfig, rdb *redis.Client, clk clock.Clock) gin.HandlerFunc {
	if conf == nil || !conf.Enabled || rdb == nil || conf.Rate <= 0 || conf.Burst <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}

	ratePerMs := conf.Rate / 1000
	ttl := int64(math.Ceil(float64(conf.Burst)/conf.Rate)) + 1

	return func(ctx *gin.Context) {
		key := rateKeyPrefix + ctx.ClientIP() + ":" + ctx.Request.Method + ":" + ctx.FullPath()
		args := []interface{}{
			clk.Now().UnixMilli(),
			conf.Burst,
			strconv.FormatFloat(ratePerMs, 'f', -1, 64),
			ttl,
		}

		vals, err := tokenBucket.Run(ctx.Request.Context(), rdb, []string{key}, args...).Int64Slice()
		if err != nil || len(vals) != 3 {
			zap.L().Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			ctx.Next()
			return
		}

		ctx.Header("X-RateLimit-Limit", strconv.Itoa(conf.Burst))
		ctx.Header("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))

		if vals[0] != 1 {
			secs := int64(math.Ceil(float64(vals[2]) / 1000))
			ctx.Header("Retry-After", fmt.Sprint(secs))
			response.RenderErr(ctx, response.ErrTooManyRequests())
			return
		}

		ctx.Next()
	}
}
