package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitylab/auth-service/internal/core/domain"
)

func TestTokenIssuer_MintAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &domain.User{ID: "user-1", Email: "ann@example.com"}

	token, err := issuer.Mint(user)
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	id, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("expected user-1, got %q", id)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Mint(&domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Mint returned error: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).Verify(token); err != domain.ErrSessionInvalid {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    "user-1",
		"email": "ann@example.com",
		"iat":   now.Add(-2 * time.Hour).Unix(),
		"exp":   now.Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewTokenIssuer("secret", time.Hour).Verify(token); err != domain.ErrSessionInvalid {
		t.Fatalf("expected ErrSessionInvalid for expired token, got %v", err)
	}
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(tok); err != domain.ErrSessionInvalid {
			t.Fatalf("expected ErrSessionInvalid for %q, got %v", tok, err)
		}
	}
}

func TestTokenIssuer_MissingIDClaim(t *testing.T) {
	claims := jwt.MapClaims{
		"email": "ann@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewTokenIssuer("secret", time.Hour).Verify(token); err != domain.ErrSessionInvalid {
		t.Fatalf("expected ErrSessionInvalid without id claim, got %v", err)
	}
}
