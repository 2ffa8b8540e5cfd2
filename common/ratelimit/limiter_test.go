package ratelimit

import (
	"context"
	"os"
	"testing"

	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires FRIDAYGT_TEST_REDIS_ADDR (e.g. localhost:6379); skipped otherwise.
func TestCheckUserLimit_Redis(t *testing.T) {
	addr := os.Getenv("FRIDAYGT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FRIDAYGT_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	limiter := NewLimiter(client, logger.Discard())
	user := uuid.NewString()
	defer limiter.ResetLimit(ctx, UserKey(user))

	for i := 1; i <= 3; i++ {
		res, err := limiter.CheckUserLimit(ctx, user, 3, 60)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.EqualValues(t, i, res.CurrentCount)
	}

	res, err := limiter.CheckUserLimit(ctx, user, 3, 60)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfterSeconds, int64(0))
}
