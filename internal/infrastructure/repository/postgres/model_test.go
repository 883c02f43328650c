package postgres

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
)

func TestMatchFromRowOpponent(t *testing.T) {
	teamID := "team-2"
	guestID := "guest-team-1"
	name := "Garuda"

	tests := []struct {
		name string
		row  matchTableModel
		want match.Opponent
	}{
		{name: "registered", row: matchTableModel{OpponentTeamID: &teamID}, want: match.RegisteredOpponent{TeamID: teamID}},
		{name: "guest team", row: matchTableModel{GuestTeamID: &guestID}, want: match.GuestOpponent{GuestTeamID: guestID}},
		{name: "named", row: matchTableModel{OpponentName: &name}, want: match.NamedOpponent{Name: name}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := matchFromRow(tc.row)
			if diff := cmp.Diff(tc.want, got.Opponent); diff != "" {
				t.Fatalf("opponent mismatch (-want +got):\n%s", diff)
			}

			teamCol, guestCol, nameCol := opponentColumns(got.Opponent)
			set := 0
			for _, col := range []*string{teamCol, guestCol, nameCol} {
				if col != nil {
					set++
				}
			}
			if set != 1 {
				t.Fatalf("expected exactly one opponent column, got %d", set)
			}
		})
	}
}

func TestScoreColumns(t *testing.T) {
	home, away := scoreColumns(nil)
	if home != nil || away != nil {
		t.Fatalf("expected nil columns for nil score")
	}

	home, away = scoreColumns(&match.Score{Home: 2, Away: 2})
	got := scoreFromColumns(home, away)
	if got == nil || *got != (match.Score{Home: 2, Away: 2}) {
		t.Fatalf("unexpected score: %+v", got)
	}
	if scoreFromColumns(home, nil) != nil {
		t.Fatalf("expected half-written score to read as missing")
	}
}

func TestDisputeFromRow(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	three, one := 3, 1
	row := teamMergeDisputeTableModel{
		PublicID:               "dispute-1",
		RequestID:              "tmr-1",
		MappingID:              "map-1",
		RequesterRecordedHome:  3,
		RequesterRecordedAway:  1,
		TargetRecordedHome:     2,
		TargetRecordedAway:     1,
		RequesterSubmittedHome: &three,
		RequesterSubmittedAway: &one,
		State:                  string(merge.DisputeAwaitingOther),
		Version:                1,
		CreatedAt:              created,
		UpdatedAt:              created,
	}

	want := merge.Dispute{
		ID:                 "dispute-1",
		RequestID:          "tmr-1",
		MappingID:          "map-1",
		RequesterRecorded:  match.Score{Home: 3, Away: 1},
		TargetRecorded:     match.Score{Home: 2, Away: 1},
		RequesterSubmitted: &match.Score{Home: 3, Away: 1},
		State:              merge.DisputeAwaitingOther,
		Version:            1,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
	if diff := cmp.Diff(want, disputeFromRow(row)); diff != "" {
		t.Fatalf("dispute mismatch (-want +got):\n%s", diff)
	}
}

func TestMappingFromRow(t *testing.T) {
	requesterMatch := "match-1"
	got := mappingFromRow(teamMergeMappingTableModel{
		PublicID:         "map-1",
		RequestID:        "tmr-1",
		RequesterMatchID: &requesterMatch,
		ConflictType:     string(merge.ConflictNone),
		Action:           string(merge.ActionCreateNew),
		Status:           string(merge.MappingPending),
	})

	if got.RequesterMatchID != "match-1" || got.TargetMatchID != "" {
		t.Fatalf("unexpected match ids: %+v", got)
	}
	if got.Action != merge.ActionCreateNew || got.Status != merge.MappingPending {
		t.Fatalf("unexpected action/status: %+v", got)
	}
}

func TestShiftMatchScoreQuery(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	query, args, err := shiftMatchScoreQuery("match-1", match.Score{Home: 0, Away: -1}, at)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	wantQuery := "UPDATE matches SET home_score = GREATEST(home_score + $1, 0), away_score = GREATEST(away_score + $2, 0), updated_at = $3 WHERE public_id = $4 RETURNING home_score, away_score"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if diff := cmp.Diff([]any{0, -1, at, "match-1"}, args); diff != "" {
		t.Fatalf("unexpected args (-want +got):\n%s", diff)
	}
}
