package usecase

import (
	"context"
	"fmt"

	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
)

const codeAttempts = 5

// withUniqueCode retries create with fresh codes while the store reports a duplicate.
func withUniqueCode(ctx context.Context, codes idgen.CodeGenerator, length int, create func(code string) error) (string, error) {
	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := codes.NewCode(length)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		err = create(code)
		if err == nil {
			return code, nil
		}
		if !isDuplicateConstraintError(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: could not allocate a unique code: %v", ErrConflict, lastErr)
}
