package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()

	userID := uuid.New()

	// Burst allows the first requests through
	assert.True(t, rl.Allow(userID))
	assert.True(t, rl.Allow(userID))

	// Burst exhausted
	assert.False(t, rl.Allow(userID))

	// A different user has their own bucket
	assert.True(t, rl.Allow(uuid.New()))
}

func TestRateLimitMiddleware_BlocksWhenExhausted(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	e := echo.New()
	userID := uuid.New()

	handlerCalls := 0
	next := func(c echo.Context) error {
		handlerCalls++
		return c.NoContent(http.StatusOK)
	}
	mw := RateLimitMiddleware(rl)(next)

	doRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/loans", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
		c.SetRequest(c.Request().WithContext(ctx))
		if err := mw(c); err != nil {
			t.Fatalf("Middleware returned error: %v", err)
		}
		return rec
	}

	rec := doRequest()
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, handlerCalls)
}

func TestRateLimitMiddleware_SkipsAnonymousRequests(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	e := echo.New()
	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	mw := RateLimitMiddleware(rl)(next)

	// No user in context: the limiter must not apply
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if err := mw(c); err != nil {
			t.Fatalf("Middleware returned error: %v", err)
		}
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
