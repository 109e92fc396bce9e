package domain

import "time"

// Secret-action token purposes. At most one outstanding token exists per
// user per purpose; a new issuance replaces the prior one.
const (
	ActionVerifyEmail   = "email_verification"
	ActionPasswordReset = "password_reset"
)

// ActionToken is the stored form of a secret-action token. Only the sha256
// hash of the raw token is persisted.
type ActionToken struct {
	UserID    int64     `json:"user_id"`
	Purpose   string    `json:"purpose"`
	TokenHash string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Expired reports whether the token was issued longer than window ago.
func (t *ActionToken) Expired(window time.Duration, now time.Time) bool {
	return now.Sub(t.IssuedAt) > window
}
