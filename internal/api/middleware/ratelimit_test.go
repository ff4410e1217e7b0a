package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *stubLimiter) Allow(_ context.Context, scope, caller string, limit int64, window time.Duration) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

func limiterContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	mw := RateLimit(limiter, "login", 10, time.Minute, zerolog.Nop())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(limiterContext())

	if err != nil || !called {
		t.Fatalf("expected pass-through, err=%v called=%v", err, called)
	}
	if limiter.calls != 1 {
		t.Fatalf("expected one limiter call, got %d", limiter.calls)
	}
}

func TestRateLimit_Exceeded(t *testing.T) {
	mw := RateLimit(&stubLimiter{allowed: false}, "login", 10, time.Minute, zerolog.Nop())

	err := mw(func(c echo.Context) error {
		t.Fatalf("handler should not run")
		return nil
	})(limiterContext())

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 HTTPError, got %v", err)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mw := RateLimit(&stubLimiter{err: errors.New("redis down")}, "login", 10, time.Minute, zerolog.Nop())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(limiterContext())

	if err != nil || !called {
		t.Fatalf("limiter outage must fail open, err=%v called=%v", err, called)
	}
}
