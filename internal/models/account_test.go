package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount_IsAdmin(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		want    bool
	}{
		{"plain player", Account{Role: RolePlayer}, false},
		{"admin role only", Account{Role: RoleAdmin}, true},
		{"staff flag only", Account{Role: RolePlayer, IsStaff: true}, true},
		{"superuser flag only", Account{Role: RolePlayer, IsSuperuser: true}, true},
		{"all signals", Account{Role: RoleAdmin, IsStaff: true, IsSuperuser: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.IsAdmin())
		})
	}
}

func TestAccount_NeedsSecurityKey(t *testing.T) {
	assert.True(t, (&Account{Role: RoleAdmin}).NeedsSecurityKey())
	assert.False(t, (&Account{Role: RoleAdmin, SecurityKey: "00ff00ff00ff00ff"}).NeedsSecurityKey())
	// Flag-only admins are not issued keys; only the role drives key issuance.
	assert.False(t, (&Account{Role: RolePlayer, IsStaff: true}).NeedsSecurityKey())
}

func TestFieldError_UnwrapsToValidationAndCause(t *testing.T) {
	err := NewFieldError("email", "already registered", ErrConflict)

	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "email: already registered", err.Error())
}

func TestValidationError_OrNil(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.OrNil())

	ve.Add("username", "this field is required")
	ve.Add("password", "passwords do not match")

	err := ve.OrNil()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Len(t, FieldErrors(err), 2)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Nil(t, FieldErrors(ErrNotFound))
}

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"plain", "ana", true},
		{"allowed punctuation", "ana.b+c-d_e@x", true},
		{"unicode letters", "josé", true},
		{"empty", "", false},
		{"spaces only", "   ", false},
		{"inner space", "bad name!", false},
		{"markup", "<script>", false},
		{"max length", strings.Repeat("a", MaxUsernameLen), true},
		{"too long", strings.Repeat("a", MaxUsernameLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidUsername(tt.username))
		})
	}
}
