package team

import (
	"context"
	"time"
)

type Repository interface {
	CreateTeam(ctx context.Context, item Team, owner Member) error
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	GetByCode(ctx context.Context, code string) (Team, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Team, error)

	CreateMember(ctx context.Context, member Member) error
	GetMember(ctx context.Context, memberID string) (Member, bool, error)
	// GetMemberByUser ignores merged rows.
	GetMemberByUser(ctx context.Context, teamID, userID string) (Member, bool, error)
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	ListMembersByUser(ctx context.Context, userID string) ([]Member, error)
	// UpdateMemberStatus applies only when the row is still in the from status.
	UpdateMemberStatus(ctx context.Context, memberID string, from, to MemberStatus, at time.Time) (bool, error)
	UpdateMemberRole(ctx context.Context, memberID string, role Role) error
	DeleteMember(ctx context.Context, memberID string, expected MemberStatus) (bool, error)

	CreateGuestTeam(ctx context.Context, item GuestTeam) error
	GetGuestTeam(ctx context.Context, guestTeamID string) (GuestTeam, bool, error)
	ListGuestTeams(ctx context.Context, ownerTeamID string) ([]GuestTeam, error)
}
