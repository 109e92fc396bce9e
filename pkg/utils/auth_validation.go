package utils

import (
	"regexp"
	"strings"

	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-z0-9_\-]+$`)

	upperRegex   = regexp.MustCompile(`[A-Z]`)
	lowerRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex   = regexp.MustCompile(`[0-9]`)
	specialRegex = regexp.MustCompile(`[!@#\$%\^&\*\(\)_\+\-=\[\]\{\}\\|;:'",.<>\/?]`)
)

// reservedUsernames can never be registered regardless of availability.
var reservedUsernames = map[string]struct{}{
	"admin":         {},
	"administrator": {},
	"root":          {},
	"system":        {},
	"support":       {},
	"moderator":     {},
	"api":           {},
	"null":          {},
	"me":            {},
}

// commonPasswords is checked case-insensitively after the character-class
// rules, so entries missing a class are caught by the earlier rule first.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"password1!": {},
	"p@ssword1":  {},
	"qwerty123!": {},
	"letmein123": {},
	"welcome1!":  {},
	"admin@123":  {},
	"iloveyou1!": {},
}

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// NormalizeEmail lowercases and trims an address; uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername lowercases and trims a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks the normalized username against length, charset and
// the reserved list.
func ValidateUsername(username string) error {
	if username == "" {
		return xerrors.ErrUsernameRequired
	}
	if len(username) < 3 || len(username) > 50 {
		return xerrors.ErrUsernameLength
	}
	if !usernameRegex.MatchString(username) {
		return xerrors.ErrUsernameCharset
	}
	if _, ok := reservedUsernames[username]; ok {
		return xerrors.ErrUsernameReserved
	}
	return nil
}

// ValidatePassword enforces the password policy. Rules are checked in order
// and the first violation is returned.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return xerrors.ErrPasswordTooShort
	}
	if len(password) > 128 {
		return xerrors.ErrPasswordTooLong
	}
	if !upperRegex.MatchString(password) {
		return xerrors.ErrPasswordUppercase
	}
	if !lowerRegex.MatchString(password) {
		return xerrors.ErrPasswordLowercase
	}
	if !digitRegex.MatchString(password) {
		return xerrors.ErrPasswordDigit
	}
	if !specialRegex.MatchString(password) {
		return xerrors.ErrPasswordSpecialChar
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return xerrors.ErrPasswordTooCommon
	}
	if hasAscendingRun(password, 4) {
		return xerrors.ErrPasswordSequential
	}
	return nil
}

// hasAscendingRun reports whether the password contains n or more consecutive
// ascending letters or digits ("abcd", "2345"). Runs of exactly three are
// tolerated so passwords like "Abc123!@" remain valid.
func hasAscendingRun(s string, n int) bool {
	runes := []rune(s)
	run := 1
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		ascending := cur == prev+1 &&
			((isLetter(prev) && isLetter(cur)) || (isDigit(prev) && isDigit(cur)))
		if ascending {
			run++
			if run >= n {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
