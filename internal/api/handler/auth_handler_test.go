package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identitylab/auth-service/internal/core/domain"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, name, email, password string) (*domain.User, string, error)
	loginFn      func(ctx context.Context, email, password string) (*domain.User, string, error)
	sendVerifyFn func(ctx context.Context, userID string) error
	verifyFn     func(ctx context.Context, userID, code string) error
	sendResetFn  func(ctx context.Context, email string) error
	resetFn      func(ctx context.Context, email, code, newPassword string) error
	getUserFn    func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) SendVerificationOTP(ctx context.Context, userID string) error {
	return s.sendVerifyFn(ctx, userID)
}

func (s *stubAuthService) VerifyAccount(ctx context.Context, userID, code string) error {
	return s.verifyFn(ctx, userID, code)
}

func (s *stubAuthService) SendResetPasswordOTP(ctx context.Context, email string) error {
	return s.sendResetFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return s.resetFn(ctx, email, code, newPassword)
}

func (s *stubAuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.getUserFn(ctx, userID)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, string, error) {
			if name != "Ann" || email != "ann@x.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s %s", name, email, password)
			}
			return &domain.User{ID: "user-1", Name: name, Email: email}, "token123", nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newTestContext(t, http.MethodPost, "/register", `{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "token123" {
		t.Fatalf("expected session cookie, got %+v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteNoneMode {
		t.Fatalf("expected SameSite=None, got %v", cookie.SameSite)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["email"] != "ann@x.com" {
		t.Fatalf("unexpected data payload: %+v", resp["data"])
	}
}

func TestAuthHandler_Register_WeakPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, string, error) {
			t.Fatalf("service should not be called")
			return nil, "", nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, _ := newTestContext(t, http.MethodPost, "/register", `{"name":"Ann","email":"ann@x.com","password":"abc"}`)
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password string) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newTestContext(t, http.MethodPost, "/register", `{"name":"Bob","email":"bob@x.com","password":"secret1"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if cookie := sessionCookie(rec); cookie != nil {
		t.Fatalf("no cookie on failure, got %+v", cookie)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, string, error) {
			return &domain.User{ID: "user-1", Name: "Ann", Email: email, Verified: true}, "token123", nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newTestContext(t, http.MethodPost, "/login", `{"email":"ann@x.com","password":"secret1"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cookie := sessionCookie(rec); cookie == nil || cookie.Value != "token123" {
		t.Fatalf("expected session cookie, got %+v", cookie)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["isVerified"] != true {
		t.Fatalf("unexpected data payload: %+v", resp["data"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*domain.User, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, false)

	c, _ := newTestContext(t, http.MethodPost, "/login", `{"email":"ann@x.com","password":"bad-pass"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	// Without a session cookie logout fails.
	c, _ := newTestContext(t, http.MethodPost, "/logout", "")
	if err := h.Logout(c); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	// With one it clears the cookie.
	c, rec := newTestContext(t, http.MethodPost, "/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "token", Value: "token123"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", cookie)
	}
}

func TestAuthHandler_VerifyOTP(t *testing.T) {
	called := false
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, userID, code string) error {
			if userID != "user-1" || code != "123456" {
				t.Fatalf("unexpected args: %s %s", userID, code)
			}
			called = true
			return nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newTestContext(t, http.MethodPost, "/verify-otp", `{"otp":"123456"}`)
	c.Set("user_id", "user-1")
	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("service not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_VerifyOTP_NoIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newTestContext(t, http.MethodPost, "/verify-otp", `{"otp":"123456"}`)
	if err := h.VerifyOTP(c); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestAuthHandler_SendResetPasswordOTP(t *testing.T) {
	stub := &stubAuthService{
		sendResetFn: func(ctx context.Context, email string) error {
			if email != "ann@x.com" {
				t.Fatalf("unexpected email: %s", email)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec := newTestContext(t, http.MethodPost, "/send-reset-password-otp", `{"email":"ann@x.com"}`)
	if err := h.SendResetPasswordOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ResetPassword_BadPayload(t *testing.T) {
	stub := &stubAuthService{
		resetFn: func(ctx context.Context, email, code, newPassword string) error {
			t.Fatalf("service should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, _ := newTestContext(t, http.MethodPost, "/reset-password", `{"email":"ann@x.com","otp":"123456"}`)
	err := h.ResetPassword(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
