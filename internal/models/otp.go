package models

import "time"

// OTPEntry is a pending one-time code for a password reset, one per email.
// Only the SHA-256 of the code is kept; the plain code lives in the email.
type OTPEntry struct {
	Email      string     `json:"email"`
	CodeHash   string     `json:"-"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	// Attempts counts Consume calls against this code, right or wrong.
	Attempts int `json:"attempts"`
}

func (e *OTPEntry) Live(now time.Time) bool {
	return e.ConsumedAt == nil && now.Before(e.ExpiresAt)
}

type OTPRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}
