package postgres

import (
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/team"
)

type teamTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	Region      string    `db:"region"`
	OwnerUserID string    `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID    string    `db:"public_id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	Region      string    `db:"region"`
	OwnerUserID string    `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type teamMemberTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	TeamID    string     `db:"team_public_id"`
	UserID    *string    `db:"user_id"`
	GuestName *string    `db:"guest_name"`
	Role      string     `db:"role"`
	Status    string     `db:"status"`
	MergedTo  *string    `db:"merged_to"`
	MergedAt  *time.Time `db:"merged_at"`
	JoinedAt  time.Time  `db:"joined_at"`
}

type teamMemberInsertModel struct {
	PublicID  string    `db:"public_id"`
	TeamID    string    `db:"team_public_id"`
	UserID    *string   `db:"user_id"`
	GuestName *string   `db:"guest_name"`
	Role      string    `db:"role"`
	Status    string    `db:"status"`
	JoinedAt  time.Time `db:"joined_at"`
}

type guestTeamTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	OwnerTeamID string    `db:"owner_team_public_id"`
	Name        string    `db:"name"`
	Region      string    `db:"region"`
	CreatedAt   time.Time `db:"created_at"`
}

type guestTeamInsertModel struct {
	PublicID    string    `db:"public_id"`
	OwnerTeamID string    `db:"owner_team_public_id"`
	Name        string    `db:"name"`
	Region      string    `db:"region"`
	CreatedAt   time.Time `db:"created_at"`
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:          row.PublicID,
		Code:        row.Code,
		Name:        row.Name,
		Region:      row.Region,
		OwnerUserID: row.OwnerUserID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func memberFromRow(row teamMemberTableModel) team.Member {
	var identity team.Identity = team.Guest{Name: stringValue(row.GuestName)}
	if row.UserID != nil {
		identity = team.Registered{UserID: *row.UserID}
	}
	return team.Member{
		ID:       row.PublicID,
		TeamID:   row.TeamID,
		Identity: identity,
		Role:     team.Role(row.Role),
		Status:   team.MemberStatus(row.Status),
		MergedTo: stringValue(row.MergedTo),
		MergedAt: row.MergedAt,
		JoinedAt: row.JoinedAt,
	}
}

func memberInsertModel(member team.Member) teamMemberInsertModel {
	model := teamMemberInsertModel{
		PublicID: member.ID,
		TeamID:   member.TeamID,
		Role:     string(member.Role),
		Status:   string(member.Status),
		JoinedAt: member.JoinedAt,
	}
	switch identity := member.Identity.(type) {
	case team.Registered:
		model.UserID = optionalString(identity.UserID)
	case team.Guest:
		name := identity.Name
		model.GuestName = &name
	}
	return model
}

func guestTeamFromRow(row guestTeamTableModel) team.GuestTeam {
	return team.GuestTeam{
		ID:          row.PublicID,
		OwnerTeamID: row.OwnerTeamID,
		Name:        row.Name,
		Region:      row.Region,
		CreatedAt:   row.CreatedAt,
	}
}
