package postgres

import (
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
)

type recordMergeRequestTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	TeamID        string     `db:"team_public_id"`
	GuestMemberID string     `db:"guest_member_public_id"`
	TargetUserID  string     `db:"target_user_id"`
	RequestedBy   string     `db:"requested_by"`
	Status        string     `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	RespondedAt   *time.Time `db:"responded_at"`
}

type recordMergeRequestInsertModel struct {
	PublicID      string    `db:"public_id"`
	TeamID        string    `db:"team_public_id"`
	GuestMemberID string    `db:"guest_member_public_id"`
	TargetUserID  string    `db:"target_user_id"`
	RequestedBy   string    `db:"requested_by"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type teamMergeRequestTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	RequesterTeamID string     `db:"requester_team_public_id"`
	TargetTeamID    string     `db:"target_team_public_id"`
	GuestTeamID     string     `db:"guest_team_public_id"`
	RequestedBy     string     `db:"requested_by"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	ClosedAt        *time.Time `db:"closed_at"`
}

type teamMergeRequestInsertModel struct {
	PublicID        string    `db:"public_id"`
	RequesterTeamID string    `db:"requester_team_public_id"`
	TargetTeamID    string    `db:"target_team_public_id"`
	GuestTeamID     string    `db:"guest_team_public_id"`
	RequestedBy     string    `db:"requested_by"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type teamMergeMappingTableModel struct {
	ID               int64      `db:"id"`
	PublicID         string     `db:"public_id"`
	RequestID        string     `db:"request_public_id"`
	Position         int        `db:"position"`
	RequesterMatchID *string    `db:"requester_match_public_id"`
	TargetMatchID    *string    `db:"target_match_public_id"`
	ConflictType     string     `db:"conflict_type"`
	Action           string     `db:"action"`
	Status           string     `db:"status"`
	AppliedAt        *time.Time `db:"applied_at"`
}

type teamMergeMappingInsertModel struct {
	PublicID         string  `db:"public_id"`
	RequestID        string  `db:"request_public_id"`
	Position         int     `db:"position"`
	RequesterMatchID *string `db:"requester_match_public_id"`
	TargetMatchID    *string `db:"target_match_public_id"`
	ConflictType     string  `db:"conflict_type"`
	Action           string  `db:"action"`
	Status           string  `db:"status"`
}

type teamMergeDisputeTableModel struct {
	ID                     int64      `db:"id"`
	PublicID               string     `db:"public_id"`
	RequestID              string     `db:"request_public_id"`
	MappingID              string     `db:"mapping_public_id"`
	RequesterRecordedHome  int        `db:"requester_recorded_home"`
	RequesterRecordedAway  int        `db:"requester_recorded_away"`
	TargetRecordedHome     int        `db:"target_recorded_home"`
	TargetRecordedAway     int        `db:"target_recorded_away"`
	RequesterSubmittedHome *int       `db:"requester_submitted_home"`
	RequesterSubmittedAway *int       `db:"requester_submitted_away"`
	TargetSubmittedHome    *int       `db:"target_submitted_home"`
	TargetSubmittedAway    *int       `db:"target_submitted_away"`
	Mismatch               bool       `db:"mismatch"`
	State                  string     `db:"state"`
	ResolvedHome           *int       `db:"resolved_home"`
	ResolvedAway           *int       `db:"resolved_away"`
	Version                int        `db:"version"`
	CreatedAt              time.Time  `db:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at"`
	ResolvedAt             *time.Time `db:"resolved_at"`
}

type teamMergeDisputeInsertModel struct {
	PublicID              string    `db:"public_id"`
	RequestID             string    `db:"request_public_id"`
	MappingID             string    `db:"mapping_public_id"`
	RequesterRecordedHome int       `db:"requester_recorded_home"`
	RequesterRecordedAway int       `db:"requester_recorded_away"`
	TargetRecordedHome    int       `db:"target_recorded_home"`
	TargetRecordedAway    int       `db:"target_recorded_away"`
	State                 string    `db:"state"`
	Version               int       `db:"version"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func recordMergeRequestFromRow(row recordMergeRequestTableModel) merge.RecordMergeRequest {
	return merge.RecordMergeRequest{
		ID:            row.PublicID,
		TeamID:        row.TeamID,
		GuestMemberID: row.GuestMemberID,
		TargetUserID:  row.TargetUserID,
		RequestedBy:   row.RequestedBy,
		Status:        merge.RecordMergeStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		RespondedAt:   row.RespondedAt,
	}
}

func teamMergeRequestFromRow(row teamMergeRequestTableModel, mappings []merge.Mapping) merge.TeamMergeRequest {
	return merge.TeamMergeRequest{
		ID:              row.PublicID,
		RequesterTeamID: row.RequesterTeamID,
		TargetTeamID:    row.TargetTeamID,
		GuestTeamID:     row.GuestTeamID,
		RequestedBy:     row.RequestedBy,
		Status:          merge.TeamMergeStatus(row.Status),
		Mappings:        mappings,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		ClosedAt:        row.ClosedAt,
	}
}

func mappingFromRow(row teamMergeMappingTableModel) merge.Mapping {
	return merge.Mapping{
		ID:               row.PublicID,
		RequestID:        row.RequestID,
		RequesterMatchID: stringValue(row.RequesterMatchID),
		TargetMatchID:    stringValue(row.TargetMatchID),
		ConflictType:     merge.ConflictType(row.ConflictType),
		Action:           merge.Action(row.Action),
		Status:           merge.MappingStatus(row.Status),
		AppliedAt:        row.AppliedAt,
	}
}

func disputeFromRow(row teamMergeDisputeTableModel) merge.Dispute {
	return merge.Dispute{
		ID:                 row.PublicID,
		RequestID:          row.RequestID,
		MappingID:          row.MappingID,
		RequesterRecorded:  match.Score{Home: row.RequesterRecordedHome, Away: row.RequesterRecordedAway},
		TargetRecorded:     match.Score{Home: row.TargetRecordedHome, Away: row.TargetRecordedAway},
		RequesterSubmitted: scoreFromColumns(row.RequesterSubmittedHome, row.RequesterSubmittedAway),
		TargetSubmitted:    scoreFromColumns(row.TargetSubmittedHome, row.TargetSubmittedAway),
		Mismatch:           row.Mismatch,
		State:              merge.DisputeState(row.State),
		Resolved:           scoreFromColumns(row.ResolvedHome, row.ResolvedAway),
		Version:            row.Version,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		ResolvedAt:         row.ResolvedAt,
	}
}

func scoreFromColumns(home, away *int) *match.Score {
	h, a, ok := scorePair(home, away)
	if !ok {
		return nil
	}
	return &match.Score{Home: h, Away: a}
}

func scoreColumns(score *match.Score) (*int, *int) {
	if score == nil {
		return nil, nil
	}
	home, away := score.Home, score.Away
	return &home, &away
}
