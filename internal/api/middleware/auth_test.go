package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-service/internal/core/domain"
	"github.com/identitylab/auth-service/internal/core/service"
)

func TestAuth_MissingCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/is-authenticated", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	mw := Auth(service.NewTokenIssuer("secret", time.Hour))
	err := mw(func(c echo.Context) error { return nil })(c)

	if !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/is-authenticated", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
	c := e.NewContext(req, httptest.NewRecorder())

	mw := Auth(service.NewTokenIssuer("secret", time.Hour))
	err := mw(func(c echo.Context) error { return nil })(c)

	if !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	issuer := service.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Mint(&domain.User{ID: "user-1", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/is-authenticated", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	mw := Auth(issuer)
	err = mw(func(c echo.Context) error {
		called = true
		if id, _ := c.Get("user_id").(string); id != "user-1" {
			t.Fatalf("expected user_id in context, got %q", id)
		}
		return nil
	})(c)

	if err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestAuth_TokenSignedWithOtherSecret(t *testing.T) {
	token, err := service.NewTokenIssuer("other", time.Hour).Mint(&domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/is-authenticated", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	c := e.NewContext(req, httptest.NewRecorder())

	mw := Auth(service.NewTokenIssuer("secret", time.Hour))
	if err := mw(func(c echo.Context) error { return nil })(c); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}
