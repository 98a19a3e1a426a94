package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/pkg/config"
)

const rateLimitKeyPrefix = "ratelimit:gateway"

// Decision is the outcome of one token bucket check
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter takes one token for key
type Limiter interface {
	Take(ctx context.Context, key string) (Decision, error)
}

// refill is continuous at rate tokens per second; state lives in a hash
// that expires after ttl seconds of inactivity
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
if rate > 0 then
	tokens = math.min(capacity, tokens + (elapsed * rate / 1000))
end
last_refill = now_ms

local allowed = 0
local retry_after_ms = 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
elseif rate > 0 then
	retry_after_ms = math.ceil((1 - tokens) * 1000 / rate)
else
	retry_after_ms = ttl_seconds * 1000
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, math.floor(tokens), retry_after_ms }
`)

// RedisTokenBucket is a Limiter shared by every gateway instance
type RedisTokenBucket struct {
	client redis.UniversalClient
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewRedisTokenBucket creates a Redis-backed limiter
func NewRedisTokenBucket(client redis.UniversalClient, cfg config.RateLimitConfig) *RedisTokenBucket {
	if cfg.KeyTTL <= 0 {
		cfg.KeyTTL = time.Hour
	}
	return &RedisTokenBucket{client: client, cfg: cfg, now: time.Now}
}

// Take runs the bucket script atomically for key
func (b *RedisTokenBucket) Take(ctx context.Context, key string) (Decision, error) {
	vals, err := tokenBucketScript.Run(ctx, b.client, []string{key},
		b.now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillPerSec,
		int64(b.cfg.KeyTTL/time.Second),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("rate limit script returned %d values", len(vals))
	}
	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// RateLimit rejects requests with 429 once the client IP's bucket is
// empty. Limiter errors let the request through when failOpen is set.
func RateLimit(limiter Limiter, capacity int, failOpen bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKeyPrefix + ":ip:" + clientIP(r)

			decision, err := limiter.Take(r.Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
				if failOpen {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, http.StatusServiceUnavailable, "rate limiter unavailable")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(capacity))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

			if !decision.Allowed {
				secs := int(math.Ceil(decision.RetryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
