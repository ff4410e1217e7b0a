package domain

import "time"

// OtpRecord is a single-use verification code bound to an absolute expiry.
// An empty Code means no code is pending for that purpose.
type OtpRecord struct {
	Code      string
	ExpiresAt time.Time
}

// Live reports whether a code is set, regardless of expiry.
func (r OtpRecord) Live() bool {
	return r.Code != ""
}

// User models an account in the credential store.
//
// VerifyOTP and ResetOTP each hold at most one live code per purpose;
// issuing a new code overwrites the previous one, and consumption
// clears it.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"is_verified"`
	VerifyOTP    OtpRecord `json:"-"`
	ResetOTP     OtpRecord `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
