package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow prunes, counts and conditionally records a hit in one round
// trip. Scores are Unix milliseconds.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
local allowed = 0
if count < max then
  redis.call('ZADD', key, now, ARGV[4])
  count = count + 1
  allowed = 1
end
redis.call('PEXPIRE', key, window)

local reset = 0
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if oldest[2] then
  reset = tonumber(oldest[2]) + window - now
end

return {allowed, count, reset}
`)

type RedisLimiter struct {
	rdb    redis.UniversalClient
	prefix string
	max    int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(rdb redis.UniversalClient, prefix string, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		rdb:    rdb,
		prefix: strings.Trim(prefix, ":"),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now().UnixMilli()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	res, err := slidingWindow.Run(ctx, l.rdb,
		[]string{l.prefix + ":" + key},
		now, l.window.Milliseconds(), l.max, member,
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("slidingWindow.Run -> %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("unexpected script reply %v", res)
	}

	return Decision{
		Allowed:    res[0] == 1,
		Limit:      l.max,
		Remaining:  l.max - int(res[1]),
		ResetAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
