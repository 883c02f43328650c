package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	teammock "github.com/riskibarqy/teamsheet/internal/mocks/domain/team"
	usermock "github.com/riskibarqy/teamsheet/internal/mocks/domain/user"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register_ReturnsExistingProfileUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := usermock.NewRepository(t)
	service := NewUserService(userRepo, &sequenceCodeGenerator{})

	existing := user.User{ID: "u-1", Code: "ABC234", DisplayName: "Ayu"}
	userRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "u-1").
		Return(existing, true, nil).
		Once()

	got, err := service.Register(ctx, RegisterUserInput{UserID: " u-1 ", Email: "ayu@example.com"})
	require.NoError(t, err)
	require.Equal(t, existing, got)
}

func TestUserService_Register_RetriesDuplicateCodeUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := usermock.NewRepository(t)
	service := NewUserService(userRepo, &sequenceCodeGenerator{})

	userRepo.
		On("GetByID", mock.Anything, "u-2").
		Return(user.User{}, false, nil).
		Once()
	userRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(u user.User) bool { return u.ID == "u-2" })).
		Return(errors.New(`pq: duplicate key value violates unique constraint "users_code_key"`)).
		Once()
	userRepo.
		On("Create", mock.Anything, mock.MatchedBy(func(u user.User) bool {
			return u.ID == "u-2" && u.DisplayName == "budi" && len(u.Code) == user.CodeLength
		})).
		Return(nil).
		Once()

	got, err := service.Register(ctx, RegisterUserInput{UserID: "u-2", Email: "budi@example.com"})
	require.NoError(t, err)
	require.Equal(t, "budi", got.DisplayName)
	require.Len(t, got.Code, user.CodeLength)
}

func TestUserService_GetByCode_NormalizesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userRepo := usermock.NewRepository(t)
	service := NewUserService(userRepo, &sequenceCodeGenerator{})

	userRepo.
		On("GetByCode", mock.Anything, "K7Q2MX").
		Return(user.User{ID: "u-3", Code: "K7Q2MX"}, true, nil).
		Once()

	got, err := service.GetByCode(ctx, "  k7q2mx ")
	require.NoError(t, err)
	require.Equal(t, "u-3", got.ID)

	_, err = service.GetByCode(ctx, "short")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_GetMe_NotRegisteredUsingMockery(t *testing.T) {
	t.Parallel()

	userRepo := usermock.NewRepository(t)
	service := NewUserService(userRepo, &sequenceCodeGenerator{})

	userRepo.
		On("GetByID", mock.Anything, "u-4").
		Return(user.User{}, false, nil).
		Once()

	_, err := service.GetMe(context.Background(), "u-4")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTeamService_GetByCode_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	userRepo := usermock.NewRepository(t)
	service := NewTeamService(teamRepo, userRepo, &sequenceIDGenerator{prefix: "id"}, &sequenceCodeGenerator{}, nopNotifier{})

	teamRepo.
		On("GetByCode", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), "TEAM42").
		Return(team.Team{ID: "t-1", Code: "TEAM42", Name: "Alpha United"}, true, nil).
		Once()
	teamRepo.
		On("GetByCode", mock.Anything, "NOPE00").
		Return(team.Team{}, false, nil).
		Once()

	got, err := service.GetByCode(ctx, "team42")
	require.NoError(t, err)
	require.Equal(t, "Alpha United", got.Name)

	_, err = service.GetByCode(ctx, "nope00")
	require.ErrorIs(t, err, ErrNotFound)
}
