package merge

import (
	"testing"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, 4, d, hour, 0, 0, 0, time.UTC)
}

func TestPairMatches_ClassifiesByPerspective(t *testing.T) {
	requester := []match.Match{
		// Requester at home won 3:1.
		{ID: "r1", TeamID: "team-a", Opponent: match.GuestOpponent{GuestTeamID: "g-b"}, MatchDate: day(1, 10), IsHome: true, HomeScore: 3, AwayScore: 1, Status: match.StatusFinished},
		// Requester away lost 0:2.
		{ID: "r2", TeamID: "team-a", Opponent: match.GuestOpponent{GuestTeamID: "g-b"}, MatchDate: day(8, 10), IsHome: false, HomeScore: 2, AwayScore: 0, Status: match.StatusFinished},
		{ID: "r3", TeamID: "team-a", Opponent: match.GuestOpponent{GuestTeamID: "g-b"}, MatchDate: day(15, 10), IsHome: true, HomeScore: 1, AwayScore: 0, Status: match.StatusFinished},
	}
	target := []match.Match{
		// Same event as r1 from the target's side: away, 1:3.
		{ID: "t1", TeamID: "team-b", Opponent: match.GuestOpponent{GuestTeamID: "g-a"}, MatchDate: day(1, 12), IsHome: false, HomeScore: 3, AwayScore: 1, Status: match.StatusFinished},
		// Target recorded r2 as a 1:0 home win instead of 2:0.
		{ID: "t2", TeamID: "team-b", Opponent: match.GuestOpponent{GuestTeamID: "g-a"}, MatchDate: day(8, 10), IsHome: true, HomeScore: 1, AwayScore: 0, Status: match.StatusFinished},
		{ID: "t3", TeamID: "team-b", Opponent: match.GuestOpponent{GuestTeamID: "g-a"}, MatchDate: day(20, 10), IsHome: true, HomeScore: 4, AwayScore: 4, Status: match.StatusFinished},
	}

	got := PairMatches("team-a", requester, "team-b", target)
	if len(got) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(got))
	}

	if got[0].RequesterMatch.ID != "r1" || got[0].TargetMatch.ID != "t1" || got[0].ConflictType != ConflictScoreMatch {
		t.Fatalf("unexpected first candidate: %+v", got[0])
	}
	if got[0].SuggestedAction != ActionLinkExisting {
		t.Fatalf("score match should suggest link_existing, got %s", got[0].SuggestedAction)
	}

	if got[1].ConflictType != ConflictScoreMismatch || got[1].SuggestedAction != ActionDispute {
		t.Fatalf("unexpected second candidate: %+v", got[1])
	}
	if *got[1].TargetScore != (match.Score{Home: 1, Away: 0}) {
		t.Fatalf("target score must be oriented to requester match, got %+v", *got[1].TargetScore)
	}

	if got[2].RequesterMatch.ID != "r3" || got[2].TargetMatch != nil || got[2].SuggestedAction != ActionCreateNew {
		t.Fatalf("unpaired requester match should suggest create_new: %+v", got[2])
	}
	if got[3].TargetMatch.ID != "t3" || got[3].RequesterMatch != nil || got[3].ConflictType != ConflictNone {
		t.Fatalf("unpaired target match should be no_conflict: %+v", got[3])
	}
}

func TestPairMatches_PrefersComplementarySide(t *testing.T) {
	requester := []match.Match{
		{ID: "r1", TeamID: "team-a", MatchDate: day(3, 9), IsHome: true, HomeScore: 1, AwayScore: 1, Status: match.StatusFinished},
	}
	target := []match.Match{
		{ID: "t-same", TeamID: "team-b", MatchDate: day(3, 9), IsHome: true, HomeScore: 1, AwayScore: 1, Status: match.StatusFinished},
		{ID: "t-comp", TeamID: "team-b", MatchDate: day(3, 11), IsHome: false, HomeScore: 1, AwayScore: 1, Status: match.StatusFinished},
	}

	got := PairMatches("team-a", requester, "team-b", target)
	if got[0].TargetMatch == nil || got[0].TargetMatch.ID != "t-comp" {
		t.Fatalf("expected complementary-side pairing, got %+v", got[0])
	}
}
