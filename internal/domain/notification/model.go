package notification

import "time"

type Type string

const (
	TypeMemberJoinRequested  Type = "member_join_requested"
	TypeMemberApproved       Type = "member_approved"
	TypeRecordMergeRequested Type = "record_merge_requested"
	TypeRecordMergeAccepted  Type = "record_merge_accepted"
	TypeRecordMergeRejected  Type = "record_merge_rejected"
	TypeTeamMergeRequested   Type = "team_merge_requested"
	TypeTeamMergeApproved    Type = "team_merge_approved"
	TypeTeamMergeRejected    Type = "team_merge_rejected"
	TypeTeamMergeCancelled   Type = "team_merge_cancelled"
	TypeDisputeScoreMismatch Type = "dispute_score_mismatch"
	TypeDisputeResolved      Type = "dispute_resolved"
)

type Notification struct {
	ID               string
	UserID           string
	Type             Type
	Title            string
	Message          string
	RelatedTeamID    string
	RelatedMatchID   string
	RelatedRequestID string
	ReadAt           *time.Time
	CreatedAt        time.Time
}
