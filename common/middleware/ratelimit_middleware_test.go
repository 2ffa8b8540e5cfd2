package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fridaygt/fridaygt/common/ratelimit"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	result *ratelimit.Result
	err    error
	calls  int
}

func (f *fakeLimiter) CheckUserLimit(ctx context.Context, userID string, limit int64, windowSec int) (*ratelimit.Result, error) {
	f.calls++
	return f.result, f.err
}

func serve(limiter UserLimiter, method, user string) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	reached := false
	h := UserRateLimit(limiter, func(c echo.Context) string { return user }, 10, 60)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(method, "/api/races/reorder", nil)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec, reached
}

func TestUserRateLimit_Blocks(t *testing.T) {
	limiter := &fakeLimiter{result: &ratelimit.Result{Allowed: false, Limit: 10, CurrentCount: 11, RetryAfterSeconds: 42}}

	rec, reached := serve(limiter, http.MethodPost, "u1")

	assert.False(t, reached)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

func TestUserRateLimit_FailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}

	rec, reached := serve(limiter, http.MethodPatch, "u1")

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserRateLimit_SkipsReadsAndAnonymous(t *testing.T) {
	limiter := &fakeLimiter{result: &ratelimit.Result{Allowed: false}}

	_, reached := serve(limiter, http.MethodGet, "u1")
	assert.True(t, reached)

	_, reached = serve(limiter, http.MethodPost, "")
	assert.True(t, reached)

	assert.Zero(t, limiter.calls)
}
