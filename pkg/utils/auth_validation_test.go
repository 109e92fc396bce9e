package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x_y-z@sub.domain.org"}
	for _, e := range valid {
		assert.True(t, ValidateEmail(e), "expected %q to be valid", e)
	}

	invalid := []string{"", "  ", "plain", "@example.com", "a@b", "a b@c.com"}
	for _, e := range invalid {
		assert.False(t, ValidateEmail(e), "expected %q to be invalid", e)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"valid simple", "alice", nil},
		{"valid with separators", "a_b-c99", nil},
		{"empty", "", xerrors.ErrUsernameRequired},
		{"too short", "ab", xerrors.ErrUsernameLength},
		{"too long", strings.Repeat("a", 51), xerrors.ErrUsernameLength},
		{"uppercase rejected", "Alice", xerrors.ErrUsernameCharset},
		{"spaces rejected", "a b c", xerrors.ErrUsernameCharset},
		{"reserved admin", "admin", xerrors.ErrUsernameReserved},
		{"reserved root", "root", xerrors.ErrUsernameReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"strong", "Str0ng!Pass", nil},
		{"three char run allowed", "Abc123!@", nil},
		{"too short", "Ab1!", xerrors.ErrPasswordTooShort},
		{"too long", strings.Repeat("Ab1!", 40), xerrors.ErrPasswordTooLong},
		{"no uppercase", "weak1pass!", xerrors.ErrPasswordUppercase},
		{"no lowercase", "WEAK1PASS!", xerrors.ErrPasswordLowercase},
		{"no digit", "Weakpass!!", xerrors.ErrPasswordDigit},
		{"no symbol", "Weak1passX", xerrors.ErrPasswordSpecialChar},
		{"common password", "P@ssword1", xerrors.ErrPasswordTooCommon},
		{"four letter run", "Xabcd56!", xerrors.ErrPasswordSequential},
		{"four digit run", "Xy1234!pass", xerrors.ErrPasswordSequential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHasAscendingRun(t *testing.T) {
	assert.True(t, hasAscendingRun("wxyz", 4))
	assert.True(t, hasAscendingRun("x6789y", 4))
	assert.False(t, hasAscendingRun("abc", 4))
	assert.False(t, hasAscendingRun("a1b2c3", 4))
	// Letter-to-digit boundaries never form a run even when adjacent in
	// the character table.
	assert.False(t, hasAscendingRun("yz{|", 4))
}
