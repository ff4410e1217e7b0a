package domain

import "errors"

// Every orchestrator operation fails with exactly one of these; the API
// error handler maps each to a deterministic HTTP status.
var (
	ErrInvalidInput       = errors.New("missing required fields")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrNoSession      = errors.New("no active session found")
	ErrSessionInvalid = errors.New("invalid or expired token")

	ErrAlreadyVerified = errors.New("account is already verified")
	ErrNotVerified     = errors.New("account is not verified")
	ErrSamePassword    = errors.New("new password must be different from current password")

	ErrOTPMissing  = errors.New("no OTP has been requested")
	ErrOTPMismatch = errors.New("invalid OTP")
	ErrOTPExpired  = errors.New("OTP has expired")
	// ErrOTPConflict: a conditional OTP write matched nothing, meaning a
	// concurrent request replaced the code between read and write.
	ErrOTPConflict = errors.New("OTP is no longer valid")
)
