package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/config"
)

// takeToken refills whole intervals since the stored timestamp and takes
// one token if any is left.  Replies {granted, left, wait_ms}.
var takeToken = redis.NewScript(`
local cap, step, every, now = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4])
local left = tonumber(redis.call('HGET', KEYS[1], 'left') or cap)
local at = tonumber(redis.call('HGET', KEYS[1], 'at') or now)
if every > 0 and step > 0 and now > at then
  local n = math.floor((now - at) / every)
  left = math.min(cap, left + n * step)
  at = at + n * every
end
local granted, wait = 0, 0
if left > 0 then
  granted, left = 1, left - 1
else
  wait = math.max(0, every - (now - at))
end
redis.call('HSET', KEYS[1], 'left', left, 'at', at)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {granted, left, wait}
`)

// bucketReply is the decoded reply of takeToken.
type bucketReply struct {
	granted bool
	left    int64
	wait    time.Duration
}

func decodeBucketReply(v interface{}) (bucketReply, bool) {
	vals, ok := v.([]interface{})
	if !ok || len(vals) != 3 {
		return bucketReply{}, false
	}
	var n [3]int64
	for i, x := range vals {
		if n[i], ok = x.(int64); !ok {
			return bucketReply{}, false
		}
	}
	return bucketReply{granted: n[0] == 1, left: n[1], wait: time.Duration(n[2]) * time.Millisecond}, true
}

// NewTokenBucket limits requests per key (see buildRateKey) with a
// Redis-backed token bucket.  Requests pass when Redis fails, and the
// whole middleware is a pass-through when limiting is off or there is
// no Redis client.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, log logrus.FieldLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := int64(cfg.TTL / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			raw, err := takeToken.Run(c.Request().Context(), rdb, []string{key},
				cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval.Milliseconds(), time.Now().UnixMilli(), ttl).Result()
			if err != nil {
				log.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
				return next(c)
			}
			reply, ok := decodeBucketReply(raw)
			if !ok {
				log.WithField("key", key).Warnf("unexpected rate limiter reply %#v", raw)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(reply.left, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if reply.granted {
				return next(c)
			}

			// round up so clients never retry early
			secs := int((reply.wait + time.Second - 1) / time.Second)
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				log.WithField("key", key).Infof("rate limited for %s", reply.wait)
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too_many_requests",
				"message":     "rate limit exceeded",
				"retry_after": secs,
			})
		}
	}
}

// buildRateKey joins the prefix with the request parts the strategy
// names.  The default strategy uses ip, user and route.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	parts := map[string][]string{
		"ip":    {"ip", ip},
		"user":  {"user", userKey(c)},
		"route": {"route", c.Request().Method + " " + c.Path()},
	}

	strategy := strings.ToLower(cfg.KeyStrategy)
	switch strategy {
	case "ip", "user", "route", "ip_user", "ip_route", "user_route":
	default:
		strategy = "ip_user_route"
	}
	key := []string{cfg.Prefix}
	for _, name := range strings.Split(strategy, "_") {
		key = append(key, parts[name]...)
	}
	return strings.Join(key, ":")
}
