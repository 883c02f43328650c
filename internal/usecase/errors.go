package usecase

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrState                 = errors.New("invalid state")
	ErrAlreadyMerged         = errors.New("already merged")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

func isDuplicateConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value violates unique constraint")
}
