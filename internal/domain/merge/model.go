package merge

import (
	"errors"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
)

var (
	ErrGuestAlreadyMerged = errors.New("guest member already merged")
	ErrRequestNotPending  = errors.New("merge request is no longer pending")
	ErrRequestClosed      = errors.New("team merge request is closed")
	ErrMappingApplied     = errors.New("mapping already applied")
	ErrDisputeResolved    = errors.New("dispute already resolved")
	ErrDisputeStale       = errors.New("dispute changed concurrently")
)

type RecordMergeStatus string

const (
	RecordMergePending   RecordMergeStatus = "pending"
	RecordMergeAccepted  RecordMergeStatus = "accepted"
	RecordMergeRejected  RecordMergeStatus = "rejected"
	RecordMergeCancelled RecordMergeStatus = "cancelled"
)

type RecordMergeRequest struct {
	ID            string
	TeamID        string
	GuestMemberID string
	TargetUserID  string
	RequestedBy   string
	Status        RecordMergeStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	RespondedAt   *time.Time
}

// MemberMergeCommand moves a guest member's history onto a target member in one transaction.
type MemberMergeCommand struct {
	GuestMemberID  string
	TargetMemberID string
	// NewTargetMember is inserted first when the invited user has no membership yet.
	NewTargetMember *team.Member
	// ActivateTarget flips a pending target membership to active.
	ActivateTarget bool
	// RequestID, when set, is moved pending -> accepted in the same transaction.
	RequestID string
	At        time.Time
}

type MemberMergeResult struct {
	RecordsMoved    int
	RecordsCombined int
	GoalsMoved      int
	AssistsMoved    int
	AttendanceMoved int
	// InvitationsCancelled counts other pending invitations for the guest closed by the merge.
	InvitationsCancelled int
}

type TeamMergeStatus string

const (
	TeamMergePending   TeamMergeStatus = "pending"
	TeamMergeDispute   TeamMergeStatus = "dispute"
	TeamMergeApproved  TeamMergeStatus = "approved"
	TeamMergeRejected  TeamMergeStatus = "rejected"
	TeamMergeCancelled TeamMergeStatus = "cancelled"
)

func (s TeamMergeStatus) IsOpen() bool {
	return s == TeamMergePending || s == TeamMergeDispute
}

type ConflictType string

const (
	ConflictNone          ConflictType = "no_conflict"
	ConflictScoreMatch    ConflictType = "score_match"
	ConflictScoreMismatch ConflictType = "score_mismatch"
)

type Action string

const (
	ActionCreateNew    Action = "create_new"
	ActionLinkExisting Action = "link_existing"
	ActionDispute      Action = "dispute"
	ActionSkip         Action = "skip"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreateNew, ActionLinkExisting, ActionDispute, ActionSkip:
		return true
	default:
		return false
	}
}

type MappingStatus string

const (
	MappingPending MappingStatus = "pending"
	MappingApplied MappingStatus = "applied"
)

type TeamMergeRequest struct {
	ID              string
	RequesterTeamID string
	TargetTeamID    string
	GuestTeamID     string
	RequestedBy     string
	Status          TeamMergeStatus
	Mappings        []Mapping
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}

type Mapping struct {
	ID               string
	RequestID        string
	RequesterMatchID string
	TargetMatchID    string
	ConflictType     ConflictType
	Action           Action
	Status           MappingStatus
	AppliedAt        *time.Time
}

// DeriveRequestStatus computes the lifecycle state implied by the mappings.
func DeriveRequestStatus(mappings []Mapping) TeamMergeStatus {
	allApplied := true
	for _, m := range mappings {
		if m.Status == MappingApplied {
			continue
		}
		allApplied = false
		if m.Action == ActionDispute {
			return TeamMergeDispute
		}
	}
	if allApplied {
		return TeamMergeApproved
	}
	return TeamMergePending
}

// ApplyMappingCommand applies one mapping to the match store atomically.
type ApplyMappingCommand struct {
	RequestID       string
	MappingID       string
	Action          Action
	RequesterTeamID string
	TargetTeamID    string
	// RequesterMatchID is canonical when both sides are present.
	RequesterMatchID string
	TargetMatchID    string
	ResolvedScore    *match.Score
	// Dispute carries the resolved dispute to persist in the same transaction.
	Dispute         *Dispute
	ExpectedVersion int
	At              time.Time
}

type ApplyMappingResult struct {
	RequestStatus   TeamMergeStatus
	RecordsMoved    int
	RecordsCombined int
	GoalsMoved      int
	GoalsDropped    int
}
