package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(120)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp"))})
	t.Cleanup(func() { _ = rdb.Close() })

	pool.MaxWait = 30 * time.Second
	require.NoError(t, pool.Retry(func() error {
		return rdb.Ping(context.Background()).Err()
	}))

	return rdb
}

func TestRedisLimiter_CapsPerWindow(t *testing.T) {
	rdb := startRedis(t)
	clock := newClock()
	l := NewRedisLimiter(rdb, "test:ratelimit:", 3, time.Minute)
	l.now = clock.Now

	for i := 0; i < 3; i++ {
		dec := allow(t, l, "10.0.0.1")
		require.True(t, dec.Allowed)
		assert.Equal(t, 3-(i+1), dec.Remaining)
		clock.Advance(time.Second)
	}

	dec := allow(t, l, "10.0.0.1")
	assert.False(t, dec.Allowed)
	assert.Equal(t, 0, dec.Remaining)
	assert.Equal(t, time.Minute-3*time.Second, dec.ResetAfter)

	assert.True(t, allow(t, l, "10.0.0.2").Allowed)

	clock.Advance(58 * time.Second)
	assert.True(t, allow(t, l, "10.0.0.1").Allowed)

	ttl, err := rdb.PTTL(context.Background(), "test:ratelimit:10.0.0.1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
