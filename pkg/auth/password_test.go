package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		username      string
		shouldFail    bool
		errorContains string
	}{
		{name: "valid password", password: "river-otter-42", username: "ana"},
		{name: "too short", password: "abc12", username: "ana", shouldFail: true, errorContains: "at least 8"},
		{name: "entirely numeric", password: "8675309123", username: "ana", shouldFail: true, errorContains: "entirely numeric"},
		{name: "common password", password: "Password123", username: "ana", shouldFail: true, errorContains: "too common"},
		{name: "contains username", password: "benjamin-rocks", username: "benjamin", shouldFail: true, errorContains: "similar to the username"},
		{name: "short username ignored", password: "xyz-lighthouse", username: "xy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.username)
			if !tt.shouldFail {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)

			var pve *PasswordValidationError
			assert.ErrorAs(t, err, &pve)
		})
	}
}

func TestValidatePassword_TooLong(t *testing.T) {
	long := make([]byte, MaxPasswordLen+1)
	for i := range long {
		long[i] = 'a'
	}
	err := ValidatePassword(string(long), "ana")
	assert.ErrorContains(t, err, "at most")
}

func TestHashAndComparePassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("river-otter-42")
	require.NoError(t, err)
	assert.NotEqual(t, "river-otter-42", hash)

	assert.NoError(t, ComparePassword(hash, "river-otter-42"))
	assert.Error(t, ComparePassword(hash, "wrong-password"))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}
