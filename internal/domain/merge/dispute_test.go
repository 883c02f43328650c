package merge

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
)

func TestDisputeSubmit_ResolvesOnlyWhenBothSidesAgree(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	d := &Dispute{
		ID:                "dispute-1",
		RequesterRecorded: match.Score{Home: 3, Away: 1},
		TargetRecorded:    match.Score{Home: 2, Away: 1},
		State:             DisputeAwaitingBoth,
	}

	outcome, err := d.Submit(SideRequester, match.Score{Home: 3, Away: 1}, now)
	if err != nil {
		t.Fatalf("requester submit: %v", err)
	}
	if outcome.State != DisputeAwaitingOther || outcome.WaitingFor != WaitingForOtherSide {
		t.Fatalf("unexpected outcome after first submission: %+v", outcome)
	}

	outcome, err = d.Submit(SideTarget, match.Score{Home: 2, Away: 1}, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("target submit: %v", err)
	}
	if outcome.WaitingFor != WaitingForScoreMismatch {
		t.Fatalf("expected score_mismatch, got %+v", outcome)
	}
	if d.State == DisputeResolved || !d.Mismatch {
		t.Fatalf("dispute must stay open with mismatch flag, got state=%s mismatch=%v", d.State, d.Mismatch)
	}

	outcome, err = d.Submit(SideTarget, match.Score{Home: 3, Away: 1}, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("target resubmit: %v", err)
	}
	if outcome.State != DisputeResolved || outcome.Resolved == nil {
		t.Fatalf("expected resolved outcome, got %+v", outcome)
	}
	if *d.Resolved != (match.Score{Home: 3, Away: 1}) {
		t.Fatalf("unexpected resolved score: %+v", *d.Resolved)
	}
	if d.Mismatch {
		t.Fatalf("mismatch flag must clear on resolution")
	}
	if d.Version != 3 {
		t.Fatalf("expected version 3 after three submissions, got %d", d.Version)
	}
}

func TestDisputeSubmit_RejectsAfterResolution(t *testing.T) {
	resolved := match.Score{Home: 1, Away: 1}
	d := &Dispute{State: DisputeResolved, Resolved: &resolved}

	_, err := d.Submit(SideRequester, match.Score{Home: 2, Away: 0}, time.Now())
	if !errors.Is(err, ErrDisputeResolved) {
		t.Fatalf("expected ErrDisputeResolved, got %v", err)
	}
}

func TestDisputeSubmit_SingleValueDifferenceKeepsOpen(t *testing.T) {
	tests := []struct {
		name   string
		first  match.Score
		second match.Score
	}{
		{name: "home differs", first: match.Score{Home: 2, Away: 2}, second: match.Score{Home: 3, Away: 2}},
		{name: "away differs", first: match.Score{Home: 2, Away: 2}, second: match.Score{Home: 2, Away: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := &Dispute{State: DisputeAwaitingBoth}
			if _, err := d.Submit(SideRequester, tc.first, time.Now()); err != nil {
				t.Fatalf("first submit: %v", err)
			}
			if _, err := d.Submit(SideTarget, tc.second, time.Now()); err != nil {
				t.Fatalf("second submit: %v", err)
			}
			if d.State == DisputeResolved {
				t.Fatalf("dispute must not resolve on differing scores")
			}
		})
	}
}

func TestDisputeSubmit_NegativeScore(t *testing.T) {
	d := &Dispute{State: DisputeAwaitingBoth}
	if _, err := d.Submit(SideTarget, match.Score{Home: -1, Away: 0}, time.Now()); !errors.Is(err, match.ErrNegativeScore) {
		t.Fatalf("expected ErrNegativeScore, got %v", err)
	}
	if d.Version != 0 {
		t.Fatalf("invalid submission must not bump version")
	}
}

func TestDeriveRequestStatus(t *testing.T) {
	tests := []struct {
		name     string
		mappings []Mapping
		want     TeamMergeStatus
	}{
		{
			name: "all applied",
			mappings: []Mapping{
				{Action: ActionCreateNew, Status: MappingApplied},
				{Action: ActionDispute, Status: MappingApplied},
			},
			want: TeamMergeApproved,
		},
		{
			name: "open dispute",
			mappings: []Mapping{
				{Action: ActionLinkExisting, Status: MappingPending},
				{Action: ActionDispute, Status: MappingPending},
			},
			want: TeamMergeDispute,
		},
		{
			name: "awaiting approval",
			mappings: []Mapping{
				{Action: ActionLinkExisting, Status: MappingPending},
				{Action: ActionDispute, Status: MappingApplied},
			},
			want: TeamMergePending,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveRequestStatus(tc.mappings); got != tc.want {
				t.Fatalf("unexpected status: got=%s want=%s", got, tc.want)
			}
		})
	}
}
