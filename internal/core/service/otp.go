package service

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/identitylab/auth-service/internal/core/domain"
)

const (
	otpDigits = 6
	otpTTL    = 10 * time.Minute
)

// generateOTP returns a 6-digit numeric code from crypto/rand. The
// fixed length and numeric charset are part of the contract: codes are
// read by humans off an email.
func generateOTP() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

// issueOTP builds a fresh record expiring otpTTL from now. The caller
// attaches it to the target user and persists it.
func issueOTP(now time.Time) (domain.OtpRecord, error) {
	code, err := generateOTP()
	if err != nil {
		return domain.OtpRecord{}, err
	}
	return domain.OtpRecord{Code: code, ExpiresAt: now.Add(otpTTL)}, nil
}

// validateOTP checks a supplied code against the stored record.
// Mismatch is detected with a constant-time comparison. On success the
// caller must clear the record with a conditional write — one-time use
// is the call site's obligation.
func validateOTP(rec domain.OtpRecord, supplied string, now time.Time) error {
	if !rec.Live() {
		return domain.ErrOTPMissing
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(supplied)) != 1 {
		return domain.ErrOTPMismatch
	}
	if now.After(rec.ExpiresAt) {
		return domain.ErrOTPExpired
	}
	return nil
}
