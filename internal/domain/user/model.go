package user

import (
	"strings"
	"time"
)

// CodeLength is the size of the public code users share to be found by teams.
const CodeLength = 6

type User struct {
	ID          string
	Code        string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
}

// NormalizeCode upper-cases a user supplied code so lookups are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
