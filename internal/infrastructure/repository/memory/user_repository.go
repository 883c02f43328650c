package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/teamsheet/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(_ context.Context, item user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.users[item.ID]; exists {
		return duplicateError("users_pkey")
	}
	for _, existing := range r.store.users {
		if existing.Code == item.Code {
			return duplicateError("users_code_key")
		}
	}
	r.store.users[item.ID] = item
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.users[userID]
	return item, ok, nil
}

func (r *UserRepository) GetByCode(_ context.Context, code string) (user.User, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	code = user.NormalizeCode(code)
	for _, item := range r.store.users {
		if item.Code == code {
			return item, true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, userIDs []string) ([]user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]user.User, 0, len(userIDs))
	for id := range toSet(userIDs) {
		if item, ok := r.store.users[id]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
