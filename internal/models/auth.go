package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims carried by a session token.
// The account ID travels in the registered Subject claim.
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AccountID parses the subject back into an account ID.
func (c *SessionClaims) AccountID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
