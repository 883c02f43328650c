package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
)

type memberMergeSetup struct {
	env     *testEnv
	team    team.Team
	guest   team.Member
	target  team.Member
	matches []string
}

// newMemberMergeSetup gives the guest {3 goals, 1 assist} over three matches and the
// target {5 goals, 2 assists}, sharing the first match with the guest.
func newMemberMergeSetup(t *testing.T) memberMergeSetup {
	t.Helper()
	env := newTestEnv(t)
	env.registerUser("owner", "Owner")
	env.registerUser("dimas", "Dimas")
	item := env.createTeam("owner", "Garuda FC")
	guest := env.addGuest("owner", item.ID, "Dimas (guest)")
	target := env.joinTeam("owner", item, "dimas")

	ids := make([]string, 0, 4)
	for i := 1; i <= 4; i++ {
		m := env.finishedMatch(ScheduleMatchInput{
			UserID:       "owner",
			TeamID:       item.ID,
			OpponentName: "Sparring Partner",
			MatchDate:    day(i),
			IsHome:       true,
		}, 3, 1)
		ids = append(ids, m.ID)
	}
	env.setRecord("owner", ids[0], guest.ID, 2, 1)
	env.setRecord("owner", ids[1], guest.ID, 1, 0)
	env.setRecord("owner", ids[2], guest.ID, 0, 0)
	env.setRecord("owner", ids[0], target.ID, 2, 1)
	env.setRecord("owner", ids[3], target.ID, 3, 1)

	return memberMergeSetup{env: env, team: item, guest: guest, target: target, matches: ids}
}

func TestMemberMergeService_DirectMergeConservesTotals(t *testing.T) {
	s := newMemberMergeSetup(t)
	env := s.env

	guestGoals, guestAssists, _ := env.memberTotals(s.guest.ID)
	targetGoals, targetAssists, _ := env.memberTotals(s.target.ID)
	require.Equal(t, 3, guestGoals)
	require.Equal(t, 1, guestAssists)
	require.Equal(t, 5, targetGoals)
	require.Equal(t, 2, targetAssists)

	out, err := env.memberMerge.DirectMerge(env.ctx, DirectMergeInput{
		UserID:         "owner",
		TeamID:         s.team.ID,
		GuestMemberID:  s.guest.ID,
		TargetMemberID: s.target.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 2, out.Result.RecordsMoved)
	require.Equal(t, 1, out.Result.RecordsCombined)

	goals, assists, records := env.memberTotals(s.target.ID)
	require.Equal(t, guestGoals+targetGoals, goals)
	require.Equal(t, guestAssists+targetAssists, assists)
	require.Equal(t, 4, records, "one record per match per member")

	_, _, guestRecords := env.memberTotals(s.guest.ID)
	require.Zero(t, guestRecords)

	guest, ok, err := env.teams.GetMember(env.ctx, s.guest.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, team.MemberStatusMerged, guest.Status)
	require.Equal(t, s.target.ID, guest.MergedTo)
	require.NotNil(t, guest.MergedAt)
}

func TestMemberMergeService_SecondMergeFailsWithoutChanges(t *testing.T) {
	s := newMemberMergeSetup(t)
	env := s.env
	input := DirectMergeInput{
		UserID:         "owner",
		TeamID:         s.team.ID,
		GuestMemberID:  s.guest.ID,
		TargetMemberID: s.target.ID,
	}

	_, err := env.memberMerge.DirectMerge(env.ctx, input)
	require.NoError(t, err)
	goals, assists, records := env.memberTotals(s.target.ID)

	_, err = env.memberMerge.DirectMerge(env.ctx, input)
	if !errors.Is(err, ErrAlreadyMerged) {
		t.Fatalf("expected ErrAlreadyMerged, got %v", err)
	}

	againGoals, againAssists, againRecords := env.memberTotals(s.target.ID)
	require.Equal(t, goals, againGoals)
	require.Equal(t, assists, againAssists)
	require.Equal(t, records, againRecords)
}

func TestMemberMergeService_RecordGoalsFollowTheMerge(t *testing.T) {
	s := newMemberMergeSetup(t)
	env := s.env

	goal, _, err := env.matchSvc.RecordGoal(env.ctx, RecordGoalInput{
		UserID:         "owner",
		MatchID:        s.matches[1],
		ScorerMemberID: s.guest.ID,
		AssistMemberID: s.target.ID,
		Quarter:        2,
	})
	require.NoError(t, err)

	_, err = env.memberMerge.DirectMerge(env.ctx, DirectMergeInput{
		UserID:         "owner",
		TeamID:         s.team.ID,
		GuestMemberID:  s.guest.ID,
		TargetMemberID: s.target.ID,
	})
	require.NoError(t, err)

	stored, ok, err := env.matches.GetGoal(env.ctx, goal.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, s.target.ID, stored.ScorerMemberID)
}

func TestMemberMergeService_InvitationAccepted(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser("owner", "Owner")
	invited := env.registerUser("raka", "Raka")
	item := env.createTeam("owner", "Garuda FC")
	guest := env.addGuest("owner", item.ID, "Raka")
	m := env.finishedMatch(ScheduleMatchInput{UserID: "owner", TeamID: item.ID, OpponentName: "Rivals"}, 2, 0)
	env.setRecord("owner", m.ID, guest.ID, 2, 0)

	request, err := env.memberMerge.CreateRequest(env.ctx, CreateRecordMergeInput{
		UserID:         "owner",
		TeamID:         item.ID,
		GuestMemberID:  guest.ID,
		TargetUserCode: " " + invited.Code + " ",
	})
	require.NoError(t, err)
	require.Equal(t, merge.RecordMergePending, request.Status)

	sent := env.notifier.sent(notification.TypeRecordMergeRequested)
	require.Len(t, sent, 1)
	require.Equal(t, "raka", sent[0].UserID)
	require.Equal(t, request.ID, sent[0].RelatedRequestID)

	_, err = env.memberMerge.CreateRequest(env.ctx, CreateRecordMergeInput{
		UserID:         "owner",
		TeamID:         item.ID,
		GuestMemberID:  guest.ID,
		TargetUserCode: invited.Code,
	})
	require.ErrorIs(t, err, ErrConflict)

	_, err = env.memberMerge.Accept(env.ctx, "owner", request.ID)
	require.ErrorIs(t, err, ErrForbidden)

	out, err := env.memberMerge.Accept(env.ctx, "raka", request.ID)
	require.NoError(t, err)
	require.Equal(t, merge.RecordMergeAccepted, out.Request.Status)

	member, ok, err := env.teams.GetMemberByUser(env.ctx, item.ID, "raka")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, member.IsActive())
	require.Equal(t, out.TargetMemberID, member.ID)

	goals, _, _ := env.memberTotals(member.ID)
	require.Equal(t, 2, goals)
	require.Len(t, env.notifier.sent(notification.TypeRecordMergeAccepted), 1)

	_, err = env.memberMerge.Accept(env.ctx, "raka", request.ID)
	require.ErrorIs(t, err, ErrState)
}

func TestMemberMergeService_CreateRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser("owner", "Owner")
	member := env.registerUser("sari", "Sari")
	env.registerUser("outsider", "Outsider")
	item := env.createTeam("owner", "Garuda FC")
	guest := env.addGuest("owner", item.ID, "Sari")
	env.joinTeam("owner", item, "sari")

	tests := []struct {
		name      string
		input     CreateRecordMergeInput
		targetErr error
	}{
		{
			name:      "short code",
			input:     CreateRecordMergeInput{UserID: "owner", TeamID: item.ID, GuestMemberID: guest.ID, TargetUserCode: "AB"},
			targetErr: ErrInvalidInput,
		},
		{
			name:      "unknown code",
			input:     CreateRecordMergeInput{UserID: "owner", TeamID: item.ID, GuestMemberID: guest.ID, TargetUserCode: "ZZZZZZ"},
			targetErr: ErrNotFound,
		},
		{
			name:      "target already active member",
			input:     CreateRecordMergeInput{UserID: "owner", TeamID: item.ID, GuestMemberID: guest.ID, TargetUserCode: member.Code},
			targetErr: ErrConflict,
		},
		{
			name:      "caller is not a manager",
			input:     CreateRecordMergeInput{UserID: "outsider", TeamID: item.ID, GuestMemberID: guest.ID, TargetUserCode: member.Code},
			targetErr: ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.memberMerge.CreateRequest(env.ctx, tt.input)
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected error %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestMemberMergeService_CancelRespectsState(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser("owner", "Owner")
	first := env.registerUser("ayu", "Ayu")
	second := env.registerUser("bima", "Bima")
	item := env.createTeam("owner", "Garuda FC")
	guestA := env.addGuest("owner", item.ID, "Ayu")
	guestB := env.addGuest("owner", item.ID, "Bima")

	accepted, err := env.memberMerge.CreateRequest(env.ctx, CreateRecordMergeInput{
		UserID: "owner", TeamID: item.ID, GuestMemberID: guestA.ID, TargetUserCode: first.Code,
	})
	require.NoError(t, err)
	_, err = env.memberMerge.Accept(env.ctx, "ayu", accepted.ID)
	require.NoError(t, err)

	_, err = env.memberMerge.Cancel(env.ctx, "owner", accepted.ID)
	if !errors.Is(err, ErrState) {
		t.Fatalf("expected ErrState cancelling an accepted request, got %v", err)
	}

	pending, err := env.memberMerge.CreateRequest(env.ctx, CreateRecordMergeInput{
		UserID: "owner", TeamID: item.ID, GuestMemberID: guestB.ID, TargetUserCode: second.Code,
	})
	require.NoError(t, err)

	_, err = env.memberMerge.Cancel(env.ctx, "bima", pending.ID)
	require.ErrorIs(t, err, ErrForbidden)

	cancelled, err := env.memberMerge.Cancel(env.ctx, "owner", pending.ID)
	require.NoError(t, err)
	require.Equal(t, merge.RecordMergeCancelled, cancelled.Status)

	stored, ok, err := env.merges.GetRecordMergeRequest(env.ctx, pending.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, merge.RecordMergeCancelled, stored.Status)
}

func TestMemberMergeService_Reject(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser("owner", "Owner")
	invited := env.registerUser("ayu", "Ayu")
	item := env.createTeam("owner", "Garuda FC")
	guest := env.addGuest("owner", item.ID, "Ayu")

	request, err := env.memberMerge.CreateRequest(env.ctx, CreateRecordMergeInput{
		UserID: "owner", TeamID: item.ID, GuestMemberID: guest.ID, TargetUserCode: invited.Code,
	})
	require.NoError(t, err)

	rejected, err := env.memberMerge.Reject(env.ctx, "ayu", request.ID)
	require.NoError(t, err)
	require.Equal(t, merge.RecordMergeRejected, rejected.Status)
	require.Len(t, env.notifier.sent(notification.TypeRecordMergeRejected), 1)

	stillGuest, _, err := env.teams.GetMember(env.ctx, guest.ID)
	require.NoError(t, err)
	require.Equal(t, team.MemberStatusActive, stillGuest.Status)
}

func TestMemberMergeService_DirectMergeClosesOpenInvitation(t *testing.T) {
	s := newMemberMergeSetup(t)
	env := s.env
	invited := env.registerUser("sari", "Sari")

	invite, err := env.memberMerge.CreateRequest(env.ctx, CreateRecordMergeInput{
		UserID:         "owner",
		TeamID:         s.team.ID,
		GuestMemberID:  s.guest.ID,
		TargetUserCode: invited.Code,
	})
	require.NoError(t, err)

	out, err := env.memberMerge.DirectMerge(env.ctx, DirectMergeInput{
		UserID:         "owner",
		TeamID:         s.team.ID,
		GuestMemberID:  s.guest.ID,
		TargetMemberID: s.target.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Result.InvitationsCancelled)

	stored, ok, err := env.merges.GetRecordMergeRequest(env.ctx, invite.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, merge.RecordMergeCancelled, stored.Status)
	require.NotNil(t, stored.RespondedAt)

	_, err = env.memberMerge.Accept(env.ctx, "sari", invite.ID)
	require.ErrorIs(t, err, ErrState)
}
