package models

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// MaxUsernameLen is the longest username accepted, in characters.
const MaxUsernameLen = 150

// InvalidUsernameMessage is reported for a username outside the allowed alphabet.
const InvalidUsernameMessage = "enter a valid username: letters, digits and @/./+/-/_ only"

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ValidUsername reports whether s is 1..150 letters, digits or @.+-_ characters.
func ValidUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= MaxUsernameLen && usernamePattern.MatchString(s)
}

// Role is the single authorization role stored on an account.
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleAdmin
}

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	PendingToken string // empty when no elevation attempt is outstanding
	SecurityKey  string // empty until issued
	IsActive     bool
	IsStaff      bool // legacy
	IsSuperuser  bool // legacy
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin is the administrator predicate: superuser OR staff OR role admin.
// The three signals are equivalent; any one of them is sufficient.
func (a *Account) IsAdmin() bool {
	return a.IsSuperuser || a.IsStaff || a.Role == RoleAdmin
}

// NeedsSecurityKey reports whether the account holds the admin role without a key yet.
func (a *Account) NeedsSecurityKey() bool {
	return a.Role == RoleAdmin && a.SecurityKey == ""
}
