package ports

import "github.com/identitylab/auth-service/internal/core/domain"

// TokenIssuer mints and verifies signed session tokens. Verification is
// purely cryptographic; no server-side state is consulted.
type TokenIssuer interface {
	Mint(user *domain.User) (string, error)
	// Verify returns the user ID claim, or domain.ErrSessionInvalid for
	// a malformed, mis-signed or expired token.
	Verify(token string) (string, error)
}
