package merge

import (
	"context"
	"time"
)

type Repository interface {
	CreateRecordMergeRequest(ctx context.Context, item RecordMergeRequest) error
	GetRecordMergeRequest(ctx context.Context, requestID string) (RecordMergeRequest, bool, error)
	GetPendingRecordMergeByGuest(ctx context.Context, guestMemberID string) (RecordMergeRequest, bool, error)
	ListRecordMergeRequestsByTarget(ctx context.Context, userID string, status RecordMergeStatus) ([]RecordMergeRequest, error)
	ListRecordMergeRequestsByTeam(ctx context.Context, teamID string) ([]RecordMergeRequest, error)
	// UpdateRecordMergeStatus applies only when the request is still in the from status.
	UpdateRecordMergeStatus(ctx context.Context, requestID string, from, to RecordMergeStatus, at time.Time) (bool, error)
	// ApplyMemberMerge returns ErrGuestAlreadyMerged or ErrRequestNotPending without writing anything.
	// Invitations still pending for the guest are cancelled in the same transaction.
	ApplyMemberMerge(ctx context.Context, cmd MemberMergeCommand) (MemberMergeResult, error)

	CreateTeamMergeRequest(ctx context.Context, item TeamMergeRequest, disputes []Dispute) error
	GetTeamMergeRequest(ctx context.Context, requestID string) (TeamMergeRequest, bool, error)
	GetOpenTeamMergeRequest(ctx context.Context, requesterTeamID, targetTeamID string) (TeamMergeRequest, bool, error)
	ListTeamMergeRequestsByTeam(ctx context.Context, teamID string) ([]TeamMergeRequest, error)
	// CloseTeamMergeRequest moves an open request to a terminal status.
	CloseTeamMergeRequest(ctx context.Context, requestID string, to TeamMergeStatus, at time.Time) (bool, error)

	GetDispute(ctx context.Context, disputeID string) (Dispute, bool, error)
	ListDisputesByRequest(ctx context.Context, requestID string) ([]Dispute, error)
	// SaveDispute persists an unresolved submission when the stored version still matches.
	SaveDispute(ctx context.Context, item Dispute, expectedVersion int) (bool, error)
	// ApplyMapping returns ErrRequestClosed, ErrMappingApplied or ErrDisputeStale without writing anything.
	ApplyMapping(ctx context.Context, cmd ApplyMappingCommand) (ApplyMappingResult, error)
}
