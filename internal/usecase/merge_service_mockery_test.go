package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	mergemock "github.com/riskibarqy/teamsheet/internal/mocks/domain/merge"
	teammock "github.com/riskibarqy/teamsheet/internal/mocks/domain/team"
	usermock "github.com/riskibarqy/teamsheet/internal/mocks/domain/user"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
)

func TestMemberMergeService_ResponsesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pending := merge.RecordMergeRequest{
		ID:            "rm-1",
		TeamID:        "team-1",
		GuestMemberID: "guest-1",
		TargetUserID:  "user-ayu",
		RequestedBy:   "user-owner",
		Status:        merge.RecordMergePending,
	}

	t.Run("missing request", func(t *testing.T) {
		t.Parallel()

		mergeRepo := mergemock.NewRepository(t)
		mergeRepo.On("GetRecordMergeRequest", mock.Anything, "rm-404").Return(merge.RecordMergeRequest{}, false, nil).Once()

		svc := NewMemberMergeService(mergeRepo, teammock.NewRepository(t), usermock.NewRepository(t), idgen.NewUUIDGenerator(), nil, nil, nil)
		_, err := svc.Reject(ctx, "user-ayu", " rm-404 ")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("only the invited user may accept", func(t *testing.T) {
		t.Parallel()

		mergeRepo := mergemock.NewRepository(t)
		mergeRepo.On("GetRecordMergeRequest", mock.Anything, "rm-1").Return(pending, true, nil).Once()

		svc := NewMemberMergeService(mergeRepo, teammock.NewRepository(t), usermock.NewRepository(t), idgen.NewUUIDGenerator(), nil, nil, nil)
		_, err := svc.Accept(ctx, "user-stranger", "rm-1")
		require.ErrorIs(t, err, ErrForbidden)
		mergeRepo.AssertNotCalled(t, "ApplyMemberMerge", mock.Anything, mock.Anything)
	})

	t.Run("closed request cannot be rejected", func(t *testing.T) {
		t.Parallel()

		closed := pending
		closed.Status = merge.RecordMergeCancelled
		mergeRepo := mergemock.NewRepository(t)
		mergeRepo.On("GetRecordMergeRequest", mock.Anything, "rm-1").Return(closed, true, nil).Once()

		svc := NewMemberMergeService(mergeRepo, teammock.NewRepository(t), usermock.NewRepository(t), idgen.NewUUIDGenerator(), nil, nil, nil)
		_, err := svc.Reject(ctx, "user-ayu", "rm-1")
		require.ErrorIs(t, err, ErrState)
		mergeRepo.AssertNotCalled(t, "UpdateRecordMergeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		mergeRepo := mergemock.NewRepository(t)
		mergeRepo.On("GetRecordMergeRequest", mock.Anything, "rm-1").Return(merge.RecordMergeRequest{}, false, boom).Once()

		svc := NewMemberMergeService(mergeRepo, teammock.NewRepository(t), usermock.NewRepository(t), idgen.NewUUIDGenerator(), nil, nil, nil)
		_, err := svc.Accept(ctx, "user-ayu", "rm-1")
		require.ErrorIs(t, err, boom)
		require.ErrorContains(t, err, "get merge request")
	})
}

func TestTeamMergeService_GetRequestUsingMockery(t *testing.T) {
	t.Parallel()

	mergeRepo := mergemock.NewRepository(t)
	mergeRepo.On("GetTeamMergeRequest", mock.Anything, "tm-404").Return(merge.TeamMergeRequest{}, false, nil).Once()

	svc := NewTeamMergeService(mergeRepo, teammock.NewRepository(t), nil, idgen.NewUUIDGenerator(), nil, nil, nil)
	_, err := svc.GetRequest(context.Background(), "user-1", "tm-404")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetRequest(context.Background(), "user-1", "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}
