package ports

import (
	"context"

	"github.com/identitylab/auth-service/internal/core/domain"
)

// AuthService sequences the credential store, OTP engine, session
// issuer and notifier for each authentication use case.
type AuthService interface {
	// Register creates the account and returns it with a minted
	// session token. The welcome mail is best-effort.
	Register(ctx context.Context, name, email, password string) (*domain.User, string, error)
	// Login verifies credentials and returns the user with a minted
	// session token. Unknown email and wrong password are
	// indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	SendVerificationOTP(ctx context.Context, userID string) error
	VerifyAccount(ctx context.Context, userID, code string) error

	SendResetPasswordOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	GetUser(ctx context.Context, userID string) (*domain.User, error)
}
