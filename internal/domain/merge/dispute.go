package merge

import (
	"fmt"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
)

type DisputeState string

const (
	DisputeAwaitingBoth  DisputeState = "awaiting_both"
	DisputeAwaitingOther DisputeState = "awaiting_other"
	DisputeResolved      DisputeState = "resolved"
)

type Side string

const (
	SideRequester Side = "requester"
	SideTarget    Side = "target"
)

const (
	WaitingForOtherSide     = "other_side"
	WaitingForScoreMismatch = "score_mismatch"
)

// Dispute scores are all in the requester match's home/away orientation.
type Dispute struct {
	ID                 string
	RequestID          string
	MappingID          string
	RequesterRecorded  match.Score
	TargetRecorded     match.Score
	RequesterSubmitted *match.Score
	TargetSubmitted    *match.Score
	Mismatch           bool
	State              DisputeState
	Resolved           *match.Score
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ResolvedAt         *time.Time
}

type SubmitOutcome struct {
	State      DisputeState
	WaitingFor string
	Resolved   *match.Score
}

// Submit stores side's proposal and resolves the dispute when both proposals agree.
// A later submission from the same side overwrites its earlier one.
func (d *Dispute) Submit(side Side, score match.Score, now time.Time) (SubmitOutcome, error) {
	if d.State == DisputeResolved {
		return SubmitOutcome{}, ErrDisputeResolved
	}
	if err := score.Validate(); err != nil {
		return SubmitOutcome{}, err
	}

	submitted := score
	var other *match.Score
	switch side {
	case SideRequester:
		d.RequesterSubmitted = &submitted
		other = d.TargetSubmitted
	case SideTarget:
		d.TargetSubmitted = &submitted
		other = d.RequesterSubmitted
	default:
		return SubmitOutcome{}, fmt.Errorf("unknown dispute side %q", side)
	}
	d.Version++
	d.UpdatedAt = now

	if other == nil {
		d.State = DisputeAwaitingOther
		return SubmitOutcome{State: d.State, WaitingFor: WaitingForOtherSide}, nil
	}
	if *other != submitted {
		d.State = DisputeAwaitingOther
		d.Mismatch = true
		return SubmitOutcome{State: d.State, WaitingFor: WaitingForScoreMismatch}, nil
	}

	resolved := submitted
	resolvedAt := now
	d.State = DisputeResolved
	d.Mismatch = false
	d.Resolved = &resolved
	d.ResolvedAt = &resolvedAt
	return SubmitOutcome{State: d.State, Resolved: &resolved}, nil
}
