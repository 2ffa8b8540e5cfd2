package bootstrap

import (
	"context"
	"testing"

	"github.com/fridaygt/fridaygt/common/cache"
	"github.com/fridaygt/fridaygt/common/config"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("fridaygt-test")
	require.NoError(t, err)
	return cfg
}

func TestSetup_MemoryOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	c, err := Setup(ctx, "fridaygt-test",
		WithCustomConfig(testConfig(t)),
		WithCustomLogger(logger.Discard()),
		WithoutDB(),
		WithoutRedis(),
		WithoutTelemetry(),
	)
	require.NoError(t, err)

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Redis)
	assert.Nil(t, c.Limiter)
	require.NotNil(t, c.Cache)
	assert.IsType(t, &cache.MemoryCache{}, c.Cache)
	assert.NoError(t, c.Health(ctx))

	require.NoError(t, c.Shutdown(ctx))
	assert.NoError(t, c.Shutdown(ctx), "second shutdown is a no-op")
}

func TestSetup_CacheDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = false

	c, err := Setup(context.Background(), "fridaygt-test",
		WithCustomConfig(cfg),
		WithCustomLogger(logger.Discard()),
		WithoutDB(),
		WithoutRedis(),
		WithoutTelemetry(),
	)
	require.NoError(t, err)
	defer c.Shutdown(context.Background())

	assert.Nil(t, c.Cache)
}
