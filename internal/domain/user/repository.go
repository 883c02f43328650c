package user

import "context"

type Repository interface {
	Create(ctx context.Context, item User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	GetByCode(ctx context.Context, code string) (User, bool, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]User, error)
}
