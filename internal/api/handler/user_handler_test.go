package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/identitylab/auth-service/internal/core/domain"
)

func TestUserHandler_GetUserData(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubAuthService{
		getUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "user-1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.User{
				ID:           "user-1",
				Name:         "Ann",
				Email:        "ann@x.com",
				PasswordHash: "$2a$10$secret-hash",
				Verified:     true,
				VerifyOTP:    domain.OtpRecord{Code: "123456", ExpiresAt: created},
				CreatedAt:    created,
				UpdatedAt:    created,
			}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/get-user-data", "")
	c.Set("user_id", "user-1")
	if err := h.GetUserData(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["id"] != "user-1" || data["isVerified"] != true {
		t.Fatalf("unexpected data payload: %+v", resp["data"])
	}

	// Secrets never leave the store through this endpoint.
	body := rec.Body.String()
	if strings.Contains(body, "secret-hash") || strings.Contains(body, "123456") {
		t.Fatalf("response leaks credentials or OTP fields: %s", body)
	}
}

func TestUserHandler_GetUserData_NotFound(t *testing.T) {
	stub := &stubAuthService{
		getUserFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/get-user-data", "")
	c.Set("user_id", "stale-id")
	if err := h.GetUserData(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_GetUserData_NoIdentity(t *testing.T) {
	h := NewUserHandler(&stubAuthService{})

	c, _ := newTestContext(t, http.MethodGet, "/get-user-data", "")
	if err := h.GetUserData(c); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}
