package xerrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// RepoError carries enough context for a handler to report a storage-level
// failure without exposing SQL details.
type RepoError struct {
	Entity string
	Code   string
	Msg    string
	Ref    string
}

func (e *RepoError) Error() string {
	return e.Entity + ": " + e.Msg
}

func ParsePGErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code // e.g. 23505 for unique_violation
	}
	return "unknown"
}

// ConstraintName returns the violated constraint for unique-violation errors,
// empty otherwise.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
)

// Registration / Login
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrEmailAlreadyInUse  = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrSKUAlreadyExists   = errors.New("sku already exists")

	ErrEmailRequired    = errors.New("email required")
	ErrPasswordRequired = errors.New("password required")
	ErrUsernameRequired = errors.New("username required")

	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// Username rules
var (
	ErrUsernameLength   = errors.New("username must be between 3 and 50 characters")
	ErrUsernameCharset  = errors.New("username can only contain letters, numbers, hyphens, and underscores")
	ErrUsernameReserved = errors.New("username is reserved")
)

// Password rules
var (
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must not exceed 128 characters")
	ErrPasswordUppercase   = errors.New("password must include at least one uppercase letter")
	ErrPasswordLowercase   = errors.New("password must include at least one lowercase letter")
	ErrPasswordDigit       = errors.New("password must include at least one digit")
	ErrPasswordSpecialChar = errors.New("password must include at least one special character")
	ErrPasswordTooCommon   = errors.New("password is too common")
	ErrPasswordSequential  = errors.New("password must not contain sequential characters")
)

// Account state
var (
	ErrAccountDisabled     = errors.New("user account is disabled")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrSelfDeleteForbidden = errors.New("cannot delete your own account")
	ErrRestrictedField     = errors.New("cannot modify restricted field")
	ErrUnknownRole         = errors.New("unknown role")
)

// Identity tokens
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Secret-action tokens. ErrActionTokenExpired exists so callers can log the
// distinction; handlers surface both with the same message.
var (
	ErrInvalidActionToken = errors.New("invalid or expired token")
	ErrActionTokenExpired = errors.New("action token expired")
)
