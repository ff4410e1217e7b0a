package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitylab/auth-service/internal/core/domain"
)

// TokenIssuer mints and verifies HS256-signed session tokens carrying
// the user's ID and email. Validity is a pure function of signature and
// expiry; nothing is persisted server-side.
type TokenIssuer struct {
	secret   string
	tokenTTL time.Duration
}

func NewTokenIssuer(secret string, tokenTTL time.Duration) *TokenIssuer {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, tokenTTL: tokenTTL}
}

func (i *TokenIssuer) Mint(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(i.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(i.secret))
}

// Verify returns the user ID claim. Any structural, signature or expiry
// failure collapses to domain.ErrSessionInvalid — the caller never
// learns which check failed.
func (i *TokenIssuer) Verify(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(i.secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrSessionInvalid
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return "", domain.ErrSessionInvalid
	}
	return id, nil
}
