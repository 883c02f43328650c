package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/stats"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/platform/cache"
)

type statsFixture struct {
	env   *testEnv
	team  team.Team
	ayu   team.Member
	guest team.Member
}

// newStatsFixture builds one win (3:1) and one loss (0:2) in March 2026 plus an unfinished match.
func newStatsFixture(t *testing.T) statsFixture {
	t.Helper()

	env := newTestEnv(t)
	env.registerUser("u-owner", "Owner")
	env.registerUser("u-ayu", "Ayu")
	item := env.createTeam("u-owner", "Alpha United")
	ayu := env.joinTeam("u-owner", item, "u-ayu")
	guest := env.addGuest("u-owner", item.ID, "Budi")

	win := env.finishedMatch(ScheduleMatchInput{
		UserID: "u-owner", TeamID: item.ID, OpponentName: "Garuda", MatchDate: day(7), IsHome: true,
	}, 3, 1)
	env.setRecord("u-owner", win.ID, ayu.ID, 2, 1)
	env.setRecord("u-owner", win.ID, guest.ID, 1, 0)

	loss := env.finishedMatch(ScheduleMatchInput{
		UserID: "u-owner", TeamID: item.ID, OpponentName: "Persib Muda", MatchDate: day(14), IsHome: true,
	}, 0, 2)
	env.setRecord("u-owner", loss.ID, ayu.ID, 0, 0)

	upcoming, err := env.matchSvc.ScheduleMatch(env.ctx, ScheduleMatchInput{
		UserID: "u-owner", TeamID: item.ID, OpponentName: "Cimahi FC", MatchDate: day(21), IsHome: true,
	})
	if err != nil {
		t.Fatalf("schedule upcoming: %v", err)
	}
	env.setRecord("u-owner", upcoming.ID, guest.ID, 5, 0)

	return statsFixture{env: env, team: item, ayu: ayu, guest: guest}
}

func TestStatsServiceTeamSeasonSummary(t *testing.T) {
	f := newStatsFixture(t)

	got, err := f.env.stats.TeamSeasonSummary(f.env.ctx, "u-ayu", f.team.ID, 2026)
	if err != nil {
		t.Fatalf("TeamSeasonSummary returned error: %v", err)
	}

	want := stats.TeamSeasonSummary{
		TeamID:           f.team.ID,
		Season:           2026,
		Played:           2,
		Wins:             1,
		Losses:           1,
		GoalsFor:         3,
		GoalsAgainst:     3,
		LongestWinStreak: 1,
		Form:             []match.Result{match.ResultWin, match.ResultLoss},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	empty, err := f.env.stats.TeamSeasonSummary(f.env.ctx, "u-ayu", f.team.ID, 2025)
	if err != nil {
		t.Fatalf("TeamSeasonSummary 2025 returned error: %v", err)
	}
	if empty.Played != 0 {
		t.Fatalf("expected empty 2025 season, got %+v", empty)
	}
}

func TestStatsServiceLeaderboards(t *testing.T) {
	f := newStatsFixture(t)

	got, err := f.env.stats.Leaderboards(f.env.ctx, "u-owner", f.team.ID, 2026, 0)
	if err != nil {
		t.Fatalf("Leaderboards returned error: %v", err)
	}

	wantScorers := []stats.LeaderboardEntry{
		{MemberID: f.ayu.ID, Name: "Ayu", Value: 2},
		{MemberID: f.guest.ID, Name: "Budi", Value: 1},
	}
	if diff := cmp.Diff(wantScorers, got.Scorers); diff != "" {
		t.Fatalf("scorers mismatch (-want +got):\n%s", diff)
	}
	wantAssisters := []stats.LeaderboardEntry{{MemberID: f.ayu.ID, Name: "Ayu", Value: 1}}
	if diff := cmp.Diff(wantAssisters, got.Assisters); diff != "" {
		t.Fatalf("assisters mismatch (-want +got):\n%s", diff)
	}
	wantAppearances := []stats.LeaderboardEntry{
		{MemberID: f.ayu.ID, Name: "Ayu", Value: 2},
		{MemberID: f.guest.ID, Name: "Budi", Value: 1},
	}
	if diff := cmp.Diff(wantAppearances, got.Appearances); diff != "" {
		t.Fatalf("appearances mismatch (-want +got):\n%s", diff)
	}
	if len(got.MOM) != 0 {
		t.Fatalf("expected no MOM entries, got %+v", got.MOM)
	}

	top, err := f.env.stats.Leaderboards(f.env.ctx, "u-owner", f.team.ID, 2026, 1)
	if err != nil {
		t.Fatalf("Leaderboards limit=1 returned error: %v", err)
	}
	if len(top.Scorers) != 1 || top.Scorers[0].MemberID != f.ayu.ID {
		t.Fatalf("expected only the top scorer, got %+v", top.Scorers)
	}
}

func TestStatsServiceGoalDistribution(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser("u-owner", "Owner")
	item := env.createTeam("u-owner", "Alpha United")
	guest := env.addGuest("u-owner", item.ID, "Budi")

	scheduled, err := env.matchSvc.ScheduleMatch(env.ctx, ScheduleMatchInput{
		UserID: "u-owner", TeamID: item.ID, OpponentName: "Garuda", MatchDate: day(7), IsHome: true,
	})
	if err != nil {
		t.Fatalf("schedule match: %v", err)
	}
	goals := []RecordGoalInput{
		{ScorerMemberID: guest.ID, Type: match.GoalTypeNormal, Quarter: 1},
		{ScorerMemberID: guest.ID, Type: match.GoalTypePenalty, Quarter: 3},
		{ForOpponent: true, Type: match.GoalTypeNormal, Quarter: 2},
	}
	for _, input := range goals {
		input.UserID = "u-owner"
		input.MatchID = scheduled.ID
		if _, _, err := env.matchSvc.RecordGoal(env.ctx, input); err != nil {
			t.Fatalf("record goal: %v", err)
		}
	}

	before, err := env.stats.GoalDistribution(env.ctx, "u-owner", item.ID, 2026)
	if err != nil {
		t.Fatalf("GoalDistribution returned error: %v", err)
	}
	if before.Total != 0 {
		t.Fatalf("expected unfinished match to be ignored, got %+v", before)
	}

	if _, err := env.matchSvc.FinishMatch(env.ctx, "u-owner", scheduled.ID); err != nil {
		t.Fatalf("finish match: %v", err)
	}
	got, err := env.stats.GoalDistribution(env.ctx, "u-owner", item.ID, 2026)
	if err != nil {
		t.Fatalf("GoalDistribution returned error: %v", err)
	}

	want := stats.GoalDistribution{
		Season:    2026,
		Total:     2,
		ByType:    map[match.GoalType]int{match.GoalTypeNormal: 1, match.GoalTypePenalty: 1},
		ByQuarter: map[int]int{1: 1, 3: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsServiceCareers(t *testing.T) {
	f := newStatsFixture(t)

	career, err := f.env.stats.MemberCareer(f.env.ctx, "u-owner", f.ayu.ID)
	if err != nil {
		t.Fatalf("MemberCareer returned error: %v", err)
	}
	want := stats.PlayerTotals{Appearances: 2, Goals: 2, Assists: 1}
	if diff := cmp.Diff(want, career.Total); diff != "" {
		t.Fatalf("career total mismatch (-want +got):\n%s", diff)
	}
	if len(career.Seasons) != 1 || career.Seasons[0].Season != 2026 {
		t.Fatalf("expected one 2026 season, got %+v", career.Seasons)
	}

	guestCareer, err := f.env.stats.MemberCareer(f.env.ctx, "u-ayu", f.guest.ID)
	if err != nil {
		t.Fatalf("MemberCareer guest returned error: %v", err)
	}
	if guestCareer.Total.Goals != 1 || guestCareer.Total.Appearances != 1 {
		t.Fatalf("expected unfinished match to be excluded, got %+v", guestCareer.Total)
	}

	mine, err := f.env.stats.UserCareer(f.env.ctx, "u-ayu")
	if err != nil {
		t.Fatalf("UserCareer returned error: %v", err)
	}
	if diff := cmp.Diff(want, mine.Total); diff != "" {
		t.Fatalf("user career mismatch (-want +got):\n%s", diff)
	}

	f.env.registerUser("u-stranger", "Stranger")
	if _, err := f.env.stats.MemberCareer(f.env.ctx, "u-stranger", f.ayu.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}
	if _, err := f.env.stats.MemberCareer(f.env.ctx, "u-owner", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown member, got %v", err)
	}
}

func TestStatsServiceValidation(t *testing.T) {
	f := newStatsFixture(t)
	f.env.registerUser("u-stranger", "Stranger")

	tests := []struct {
		name    string
		userID  string
		teamID  string
		season  int
		wantErr error
	}{
		{name: "season too early", userID: "u-owner", teamID: f.team.ID, season: 1800, wantErr: ErrInvalidInput},
		{name: "unknown team", userID: "u-owner", teamID: "missing", season: 2026, wantErr: ErrNotFound},
		{name: "not a member", userID: "u-stranger", teamID: f.team.ID, season: 2026, wantErr: ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.env.stats.TeamSeasonSummary(f.env.ctx, tc.userID, tc.teamID, tc.season)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestStatsServiceCacheInvalidation(t *testing.T) {
	f := newStatsFixture(t)
	cached := NewStatsService(f.env.matches, f.env.teams, f.env.userRepo, cache.NewStore(time.Minute))

	first, err := cached.TeamSeasonSummary(f.env.ctx, "u-owner", f.team.ID, 2026)
	if err != nil {
		t.Fatalf("TeamSeasonSummary returned error: %v", err)
	}
	if first.Played != 2 {
		t.Fatalf("expected 2 played, got %d", first.Played)
	}

	// env.matchSvc invalidates the uncached service, so this one keeps serving the old value.
	f.env.finishedMatch(ScheduleMatchInput{
		UserID: "u-owner", TeamID: f.team.ID, OpponentName: "Garuda", MatchDate: day(21), IsHome: true,
	}, 1, 0)

	stale, err := cached.TeamSeasonSummary(f.env.ctx, "u-owner", f.team.ID, 2026)
	if err != nil {
		t.Fatalf("TeamSeasonSummary returned error: %v", err)
	}
	if stale.Played != 2 {
		t.Fatalf("expected cached summary, got %d played", stale.Played)
	}

	cached.InvalidateTeam(f.env.ctx, f.team.ID)
	fresh, err := cached.TeamSeasonSummary(f.env.ctx, "u-owner", f.team.ID, 2026)
	if err != nil {
		t.Fatalf("TeamSeasonSummary returned error: %v", err)
	}
	if fresh.Played != 3 || fresh.Wins != 2 {
		t.Fatalf("expected refreshed summary with 3 played and 2 wins, got %+v", fresh)
	}
}
