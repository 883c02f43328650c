package cache

import (
	"context"

	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	basecache "github.com/riskibarqy/teamsheet/internal/platform/cache"
)

// UserRepository caches profile lookups. Profiles never change after Create.
type UserRepository struct {
	next  user.Repository
	cache *basecache.Store
}

func NewUserRepository(next user.Repository, cache *basecache.Store) *UserRepository {
	return &UserRepository{next: next, cache: cache}
}

func (r *UserRepository) Create(ctx context.Context, item user.User) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}

	r.cache.Delete(ctx, userByIDKey(item.ID))
	r.cache.Delete(ctx, userByCodeKey(item.Code))
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return loadOne(ctx, r.cache, userByIDKey(userID), func(ctx context.Context) (user.User, bool, error) {
		return r.next.GetByID(ctx, userID)
	})
}

func (r *UserRepository) GetByCode(ctx context.Context, code string) (user.User, bool, error) {
	return loadOne(ctx, r.cache, userByCodeKey(code), func(ctx context.Context) (user.User, bool, error) {
		return r.next.GetByCode(ctx, code)
	})
}

func (r *UserRepository) ListByIDs(ctx context.Context, userIDs []string) ([]user.User, error) {
	return r.next.ListByIDs(ctx, userIDs)
}

// TeamRepository caches teams and guest teams by id and code. Membership
// rows are also written by member merges, so member reads go straight through.
type TeamRepository struct {
	team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{Repository: next, cache: cache}
}

func (r *TeamRepository) CreateTeam(ctx context.Context, item team.Team, owner team.Member) error {
	if err := r.Repository.CreateTeam(ctx, item, owner); err != nil {
		return err
	}

	r.cache.Delete(ctx, teamByIDKey(item.ID))
	r.cache.Delete(ctx, teamByCodeKey(item.Code))
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return loadOne(ctx, r.cache, teamByIDKey(teamID), func(ctx context.Context) (team.Team, bool, error) {
		return r.Repository.GetByID(ctx, teamID)
	})
}

func (r *TeamRepository) GetByCode(ctx context.Context, code string) (team.Team, bool, error) {
	return loadOne(ctx, r.cache, teamByCodeKey(team.NormalizeCode(code)), func(ctx context.Context) (team.Team, bool, error) {
		return r.Repository.GetByCode(ctx, code)
	})
}

func (r *TeamRepository) CreateGuestTeam(ctx context.Context, item team.GuestTeam) error {
	if err := r.Repository.CreateGuestTeam(ctx, item); err != nil {
		return err
	}

	r.cache.Delete(ctx, guestTeamByIDKey(item.ID))
	return nil
}

func (r *TeamRepository) GetGuestTeam(ctx context.Context, guestTeamID string) (team.GuestTeam, bool, error) {
	return loadOne(ctx, r.cache, guestTeamByIDKey(guestTeamID), func(ctx context.Context) (team.GuestTeam, bool, error) {
		return r.Repository.GetGuestTeam(ctx, guestTeamID)
	})
}

type cachedByID[T any] struct {
	value  T
	exists bool
}

// loadOne caches misses as well, so writers must delete the key after creating the row.
func loadOne[T any](ctx context.Context, store *basecache.Store, key string, loader func(context.Context) (T, bool, error)) (T, bool, error) {
	cached, err := basecache.Load(ctx, store, key, func(ctx context.Context) (cachedByID[T], error) {
		value, exists, err := loader(ctx)
		if err != nil {
			return cachedByID[T]{}, err
		}
		return cachedByID[T]{value: value, exists: exists}, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return cached.value, cached.exists, nil
}

func userByIDKey(userID string) string {
	return basecache.Key("user", "id", userID)
}

func userByCodeKey(code string) string {
	return basecache.Key("user", "code", code)
}

func teamByIDKey(teamID string) string {
	return basecache.Key("team", "id", teamID)
}

func teamByCodeKey(code string) string {
	return basecache.Key("team", "code", code)
}

func guestTeamByIDKey(guestTeamID string) string {
	return basecache.Key("guest-team", "id", guestTeamID)
}
