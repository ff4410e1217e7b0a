package ports

import (
	"context"

	"github.com/identitylab/auth-service/internal/core/domain"
)

// UserRepository defines the interface for credential persistence.
//
// The OTP mutators are conditional writes: each takes the code observed
// when the user was read and matches only documents still carrying it
// (empty string = no code pending). A write that matches nothing
// returns domain.ErrOTPConflict, so concurrent issue/consume races
// never lose updates.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// SwapVerifyOTP replaces the verify-track code, or clears it when
	// next is the zero record.
	SwapVerifyOTP(ctx context.Context, id, observedCode string, next domain.OtpRecord) error
	// MarkVerified consumes the verify code and flips the verified flag
	// in a single write.
	MarkVerified(ctx context.Context, id, observedCode string) error

	// SwapResetOTP replaces the reset-track code, or clears it when
	// next is the zero record.
	SwapResetOTP(ctx context.Context, id, observedCode string, next domain.OtpRecord) error
	// UpdatePassword consumes the reset code and stores the new hash in
	// a single write.
	UpdatePassword(ctx context.Context, id, observedCode, passwordHash string) error
}
