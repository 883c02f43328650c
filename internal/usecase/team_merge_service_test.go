package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
)

// teamMergeSetup has two registered teams that each logged their games against a
// guest placeholder of the other.
type teamMergeSetup struct {
	env       *testEnv
	requester team.Team
	target    team.Team
	reqGuest  team.GuestTeam
	tgtGuest  team.GuestTeam
	tgtPlayer team.Member
}

func newTeamMergeSetup(t *testing.T) teamMergeSetup {
	t.Helper()
	env := newTestEnv(t)
	env.registerUser("alpha-owner", "Alpha Owner")
	env.registerUser("bravo-owner", "Bravo Owner")
	env.registerUser("bravo-player", "Bravo Player")
	alpha := env.createTeam("alpha-owner", "Alpha United")
	bravo := env.createTeam("bravo-owner", "FC Bravo")
	player := env.joinTeam("bravo-owner", bravo, "bravo-player")

	return teamMergeSetup{
		env:       env,
		requester: alpha,
		target:    bravo,
		reqGuest:  env.guestTeam("alpha-owner", alpha.ID, "fc  bravo"),
		tgtGuest:  env.guestTeam("bravo-owner", bravo.ID, "ALPHA UNITED"),
		tgtPlayer: player,
	}
}

func (s teamMergeSetup) requesterMatch(d int, isHome bool, home, away int) match.Match {
	return s.env.finishedMatch(ScheduleMatchInput{
		UserID:      "alpha-owner",
		TeamID:      s.requester.ID,
		GuestTeamID: s.reqGuest.ID,
		MatchDate:   day(d),
		IsHome:      isHome,
	}, home, away)
}

func (s teamMergeSetup) targetMatch(d int, isHome bool, home, away int) match.Match {
	return s.env.finishedMatch(ScheduleMatchInput{
		UserID:      "bravo-owner",
		TeamID:      s.target.ID,
		GuestTeamID: s.tgtGuest.ID,
		MatchDate:   day(d),
		IsHome:      isHome,
	}, home, away)
}

func (s teamMergeSetup) search() FindRelatedMatchesInput {
	return FindRelatedMatchesInput{UserID: "alpha-owner", TeamID: s.requester.ID, TargetTeamID: s.target.ID}
}

func TestTeamMergeService_FindRelatedMatches(t *testing.T) {
	s := newTeamMergeSetup(t)
	agreed := s.requesterMatch(1, true, 2, 0)
	s.targetMatch(1, false, 2, 0)
	disputed := s.requesterMatch(2, true, 3, 1)
	s.targetMatch(2, false, 2, 1)
	lonely := s.requesterMatch(3, true, 1, 1)

	candidates, err := s.env.teamMerge.FindRelatedMatches(s.env.ctx, s.search())
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	byRequester := make(map[string]merge.Candidate)
	for _, c := range candidates {
		require.NotNil(t, c.RequesterMatch)
		byRequester[c.RequesterMatch.ID] = c
	}
	require.Equal(t, merge.ConflictScoreMatch, byRequester[agreed.ID].ConflictType)
	require.Equal(t, merge.ActionLinkExisting, byRequester[agreed.ID].SuggestedAction)
	require.Equal(t, merge.ConflictScoreMismatch, byRequester[disputed.ID].ConflictType)
	require.Equal(t, merge.ActionDispute, byRequester[disputed.ID].SuggestedAction)
	require.Equal(t, merge.ConflictNone, byRequester[lonely.ID].ConflictType)
	require.Nil(t, byRequester[lonely.ID].TargetMatch)
}

func TestTeamMergeService_DisputeResolvesOnAgreement(t *testing.T) {
	s := newTeamMergeSetup(t)
	env := s.env
	canonical := s.requesterMatch(2, true, 3, 1)
	retired := s.targetMatch(2, false, 2, 1)
	env.setRecord("bravo-owner", retired.ID, s.tgtPlayer.ID, 1, 0)

	details, err := env.teamMerge.CreateRequest(env.ctx, CreateTeamMergeInput{
		FindRelatedMatchesInput: s.search(),
		Decisions: []MappingDecision{
			{RequesterMatchID: canonical.ID, TargetMatchID: retired.ID, Action: merge.ActionDispute},
		},
	})
	require.NoError(t, err)
	require.Equal(t, merge.TeamMergeDispute, details.Request.Status)
	require.Len(t, details.Disputes, 1)
	dispute := details.Disputes[0]
	require.Equal(t, merge.DisputeAwaitingBoth, dispute.State)
	require.Equal(t, match.Score{Home: 3, Away: 1}, dispute.RequesterRecorded)
	require.Equal(t, match.Score{Home: 2, Away: 1}, dispute.TargetRecorded)
	require.Len(t, env.notifier.sent(notification.TypeTeamMergeRequested), 1)

	first, err := env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
		UserID: "alpha-owner", DisputeID: dispute.ID, Home: 3, Away: 1,
	})
	require.NoError(t, err)
	require.Equal(t, merge.DisputeAwaitingOther, first.Outcome.State)
	require.Equal(t, merge.WaitingForOtherSide, first.Outcome.WaitingFor)

	second, err := env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
		UserID: "bravo-owner", DisputeID: dispute.ID, Home: 2, Away: 1,
	})
	require.NoError(t, err)
	require.Equal(t, merge.WaitingForScoreMismatch, second.Outcome.WaitingFor)
	require.True(t, second.Dispute.Mismatch)
	require.Equal(t, merge.TeamMergeDispute, second.RequestStatus)
	require.NotEmpty(t, env.notifier.sent(notification.TypeDisputeScoreMismatch))

	third, err := env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
		UserID: "bravo-owner", DisputeID: dispute.ID, Home: 3, Away: 1,
	})
	require.NoError(t, err)
	require.Equal(t, merge.DisputeResolved, third.Outcome.State)
	require.Equal(t, &match.Score{Home: 3, Away: 1}, third.Outcome.Resolved)
	require.Equal(t, merge.TeamMergeApproved, third.RequestStatus)

	merged, ok, err := env.matches.GetByID(env.ctx, canonical.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, merged.HomeScore)
	require.Equal(t, 1, merged.AwayScore)
	require.Equal(t, match.RegisteredOpponent{TeamID: s.target.ID}, merged.Opponent)

	old, _, err := env.matches.GetByID(env.ctx, retired.ID)
	require.NoError(t, err)
	require.Equal(t, canonical.ID, old.MergedInto)

	records, err := env.matches.ListRecordsByMatch(env.ctx, canonical.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, s.tgtPlayer.ID, records[0].MemberID)

	bravoMatches, err := env.matchSvc.ListTeamMatches(env.ctx, "bravo-owner", s.target.ID)
	require.NoError(t, err)
	require.Len(t, bravoMatches, 1)
	require.Equal(t, canonical.ID, bravoMatches[0].ID)

	_, err = env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
		UserID: "alpha-owner", DisputeID: dispute.ID, Home: 3, Away: 1,
	})
	require.ErrorIs(t, err, ErrState)
}

func TestTeamMergeService_ApprovedOnlyWhenEveryMappingApplied(t *testing.T) {
	s := newTeamMergeSetup(t)
	env := s.env
	agreedReq := s.requesterMatch(1, true, 2, 0)
	agreedTgt := s.targetMatch(1, false, 2, 0)
	disputedReq := s.requesterMatch(2, true, 3, 1)
	disputedTgt := s.targetMatch(2, false, 2, 1)
	lonely := s.requesterMatch(3, false, 0, 4)

	details, err := env.teamMerge.CreateRequest(env.ctx, CreateTeamMergeInput{
		FindRelatedMatchesInput: s.search(),
		Decisions: []MappingDecision{
			{RequesterMatchID: agreedReq.ID, TargetMatchID: agreedTgt.ID, Action: merge.ActionLinkExisting},
			{RequesterMatchID: disputedReq.ID, TargetMatchID: disputedTgt.ID, Action: merge.ActionDispute},
			{RequesterMatchID: lonely.ID, Action: merge.ActionCreateNew},
		},
	})
	require.NoError(t, err)
	require.Len(t, details.Request.Mappings, 3)

	_, err = env.teamMerge.Approve(env.ctx, "bravo-owner", details.Request.ID)
	if !errors.Is(err, ErrState) {
		t.Fatalf("expected ErrState approving a request with an open dispute, got %v", err)
	}

	for _, sub := range []struct {
		user string
	}{{"alpha-owner"}, {"bravo-owner"}} {
		_, err := env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
			UserID: sub.user, DisputeID: details.Disputes[0].ID, Home: 3, Away: 2,
		})
		require.NoError(t, err)
	}

	pending, err := env.teamMerge.GetRequest(env.ctx, "alpha-owner", details.Request.ID)
	require.NoError(t, err)
	require.Equal(t, merge.TeamMergePending, pending.Request.Status)

	_, err = env.teamMerge.Approve(env.ctx, "alpha-owner", details.Request.ID)
	require.ErrorIs(t, err, ErrForbidden)

	approved, err := env.teamMerge.Approve(env.ctx, "bravo-owner", details.Request.ID)
	require.NoError(t, err)
	require.Equal(t, merge.TeamMergeApproved, approved.Request.Status)
	require.NotNil(t, approved.Request.ClosedAt)
	for _, m := range approved.Request.Mappings {
		require.Equal(t, merge.MappingApplied, m.Status, "mapping %s", m.ID)
	}

	linked, _, err := env.matches.GetByID(env.ctx, lonely.ID)
	require.NoError(t, err)
	require.Equal(t, match.RegisteredOpponent{TeamID: s.target.ID}, linked.Opponent)
	require.False(t, linked.IsRetired())

	resolved, _, err := env.matches.GetByID(env.ctx, disputedReq.ID)
	require.NoError(t, err)
	require.Equal(t, match.Score{Home: 3, Away: 2}, resolved.Score())

	_, err = env.teamMerge.Reject(env.ctx, "bravo-owner", details.Request.ID)
	require.ErrorIs(t, err, ErrState)
}

func TestTeamMergeService_CreateRequestValidation(t *testing.T) {
	s := newTeamMergeSetup(t)
	env := s.env
	agreedReq := s.requesterMatch(1, true, 2, 0)
	agreedTgt := s.targetMatch(1, false, 2, 0)
	disputedReq := s.requesterMatch(2, true, 3, 1)
	disputedTgt := s.targetMatch(2, false, 2, 1)

	tests := []struct {
		name      string
		decisions []MappingDecision
	}{
		{
			name:      "link_existing with different scores",
			decisions: []MappingDecision{{RequesterMatchID: disputedReq.ID, TargetMatchID: disputedTgt.ID, Action: merge.ActionLinkExisting}},
		},
		{
			name:      "create_new with both sides",
			decisions: []MappingDecision{{RequesterMatchID: agreedReq.ID, TargetMatchID: agreedTgt.ID, Action: merge.ActionCreateNew}},
		},
		{
			name:      "dispute missing a side",
			decisions: []MappingDecision{{RequesterMatchID: disputedReq.ID, Action: merge.ActionDispute}},
		},
		{
			name: "match used twice",
			decisions: []MappingDecision{
				{RequesterMatchID: agreedReq.ID, TargetMatchID: agreedTgt.ID, Action: merge.ActionLinkExisting},
				{RequesterMatchID: agreedReq.ID, Action: merge.ActionCreateNew},
			},
		},
		{
			name:      "only skips",
			decisions: []MappingDecision{{RequesterMatchID: agreedReq.ID, TargetMatchID: agreedTgt.ID, Action: merge.ActionSkip}},
		},
		{
			name:      "unknown match",
			decisions: []MappingDecision{{RequesterMatchID: "missing", Action: merge.ActionCreateNew}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.teamMerge.CreateRequest(env.ctx, CreateTeamMergeInput{
				FindRelatedMatchesInput: s.search(),
				Decisions:               tt.decisions,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestTeamMergeService_OneOpenRequestPerPair(t *testing.T) {
	s := newTeamMergeSetup(t)
	env := s.env
	lonely := s.requesterMatch(3, true, 1, 0)
	input := CreateTeamMergeInput{
		FindRelatedMatchesInput: s.search(),
		Decisions:               []MappingDecision{{RequesterMatchID: lonely.ID, Action: merge.ActionCreateNew}},
	}

	first, err := env.teamMerge.CreateRequest(env.ctx, input)
	require.NoError(t, err)
	require.Equal(t, merge.TeamMergePending, first.Request.Status)

	_, err = env.teamMerge.CreateRequest(env.ctx, input)
	require.ErrorIs(t, err, ErrConflict)

	_, err = env.teamMerge.Cancel(env.ctx, "bravo-owner", first.Request.ID)
	require.ErrorIs(t, err, ErrForbidden)

	cancelled, err := env.teamMerge.Cancel(env.ctx, "alpha-owner", first.Request.ID)
	require.NoError(t, err)
	require.Equal(t, merge.TeamMergeCancelled, cancelled.Status)
	require.Len(t, env.notifier.sent(notification.TypeTeamMergeCancelled), 1)

	_, err = env.teamMerge.CreateRequest(env.ctx, input)
	require.NoError(t, err)
}

func TestTeamMergeService_SubmitDisputeScoreRequiresManager(t *testing.T) {
	s := newTeamMergeSetup(t)
	env := s.env
	req := s.requesterMatch(2, true, 3, 1)
	tgt := s.targetMatch(2, false, 2, 1)

	details, err := env.teamMerge.CreateRequest(env.ctx, CreateTeamMergeInput{
		FindRelatedMatchesInput: s.search(),
		Decisions:               []MappingDecision{{RequesterMatchID: req.ID, TargetMatchID: tgt.ID, Action: merge.ActionDispute}},
	})
	require.NoError(t, err)

	_, err = env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
		UserID: "bravo-player", DisputeID: details.Disputes[0].ID, Home: 3, Away: 1,
	})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
		UserID: "alpha-owner", DisputeID: details.Disputes[0].ID, Home: -1, Away: 1,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
		UserID: "alpha-owner", DisputeID: details.Disputes[0].ID, Home: 1, Away: 1, Side: merge.SideTarget,
	})
	require.ErrorIs(t, err, ErrForbidden)
}

// interleavingMergeRepository runs beforeSubmit once, right after the first
// dispute read, to land a competing submission between load and save.
type interleavingMergeRepository struct {
	merge.Repository

	once         sync.Once
	beforeSubmit func()
}

func (r *interleavingMergeRepository) GetDispute(ctx context.Context, disputeID string) (merge.Dispute, bool, error) {
	item, ok, err := r.Repository.GetDispute(ctx, disputeID)
	r.once.Do(r.beforeSubmit)
	return item, ok, err
}

func TestTeamMergeService_StaleDisputeSubmissionConflicts(t *testing.T) {
	openDispute := func(t *testing.T) (teamMergeSetup, TeamMergeDetails, match.Match) {
		t.Helper()
		s := newTeamMergeSetup(t)
		canonical := s.requesterMatch(2, true, 3, 1)
		retired := s.targetMatch(2, false, 2, 1)
		details, err := s.env.teamMerge.CreateRequest(s.env.ctx, CreateTeamMergeInput{
			FindRelatedMatchesInput: s.search(),
			Decisions: []MappingDecision{
				{RequesterMatchID: canonical.ID, TargetMatchID: retired.ID, Action: merge.ActionDispute},
			},
		})
		require.NoError(t, err)
		require.Len(t, details.Disputes, 1)
		return s, details, retired
	}

	racingService := func(s teamMergeSetup, competing SubmitDisputeScoreInput) *TeamMergeService {
		env := s.env
		repo := &interleavingMergeRepository{Repository: env.merges}
		repo.beforeSubmit = func() {
			_, err := env.teamMerge.SubmitDisputeScore(env.ctx, competing)
			require.NoError(env.t, err)
		}
		return NewTeamMergeService(repo, env.teams, env.matches, env.ids, nil, nil, nil)
	}

	t.Run("unresolved submission loses the version check", func(t *testing.T) {
		s, details, _ := openDispute(t)
		env := s.env
		disputeID := details.Disputes[0].ID

		svc := racingService(s, SubmitDisputeScoreInput{UserID: "bravo-owner", DisputeID: disputeID, Home: 2, Away: 1})
		_, err := svc.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
			UserID: "alpha-owner", DisputeID: disputeID, Home: 3, Away: 1,
		})
		require.ErrorIs(t, err, ErrConflict)

		stored, ok, err := env.merges.GetDispute(env.ctx, disputeID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Nil(t, stored.RequesterSubmitted, "stale submission must not be written")
		require.Equal(t, &match.Score{Home: 2, Away: 1}, stored.TargetSubmitted)
		require.Equal(t, 1, stored.Version)
	})

	t.Run("resolving submission does not apply the mapping", func(t *testing.T) {
		s, details, retired := openDispute(t)
		env := s.env
		disputeID := details.Disputes[0].ID

		_, err := env.teamMerge.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
			UserID: "alpha-owner", DisputeID: disputeID, Home: 3, Away: 1,
		})
		require.NoError(t, err)

		svc := racingService(s, SubmitDisputeScoreInput{UserID: "alpha-owner", DisputeID: disputeID, Home: 4, Away: 1})
		_, err = svc.SubmitDisputeScore(env.ctx, SubmitDisputeScoreInput{
			UserID: "bravo-owner", DisputeID: disputeID, Home: 3, Away: 1,
		})
		require.ErrorIs(t, err, ErrConflict)

		stored, _, err := env.merges.GetDispute(env.ctx, disputeID)
		require.NoError(t, err)
		require.Equal(t, merge.DisputeAwaitingOther, stored.State)
		require.Equal(t, &match.Score{Home: 4, Away: 1}, stored.RequesterSubmitted)
		require.Nil(t, stored.TargetSubmitted)
		require.Nil(t, stored.Resolved)

		request, _, err := env.merges.GetTeamMergeRequest(env.ctx, details.Request.ID)
		require.NoError(t, err)
		require.Equal(t, merge.TeamMergeDispute, request.Status)
		for _, m := range request.Mappings {
			require.NotEqual(t, merge.MappingApplied, m.Status)
		}

		untouched, _, err := env.matches.GetByID(env.ctx, retired.ID)
		require.NoError(t, err)
		require.Empty(t, untouched.MergedInto)
		require.Equal(t, match.Score{Home: 2, Away: 1}, untouched.Score())
	})
}
