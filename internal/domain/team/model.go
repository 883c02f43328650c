package team

import (
	"strings"
	"time"
)

type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleMember:
		return true
	default:
		return false
	}
}

type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
	MemberStatusMerged  MemberStatus = "merged"
)

type Team struct {
	ID          string
	Code        string
	Name        string
	Region      string
	OwnerUserID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GuestTeam is a placeholder opponent created by a team for an unregistered club.
type GuestTeam struct {
	ID          string
	OwnerTeamID string
	Name        string
	Region      string
	CreatedAt   time.Time
}

// Identity is either Registered or Guest.
type Identity interface {
	isIdentity()
}

type Registered struct {
	UserID string
}

type Guest struct {
	Name string
}

func (Registered) isIdentity() {}
func (Guest) isIdentity()      {}

type Member struct {
	ID       string
	TeamID   string
	Identity Identity
	Role     Role
	Status   MemberStatus
	MergedTo string
	MergedAt *time.Time
	JoinedAt time.Time
}

func (m Member) UserID() (string, bool) {
	registered, ok := m.Identity.(Registered)
	if !ok {
		return "", false
	}
	return registered.UserID, true
}

func (m Member) IsGuest() bool {
	_, ok := m.Identity.(Guest)
	return ok
}

func (m Member) GuestName() string {
	if guest, ok := m.Identity.(Guest); ok {
		return guest.Name
	}
	return ""
}

func (m Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

func (m Member) CanManage() bool {
	return m.IsActive() && (m.Role == RoleOwner || m.Role == RoleManager)
}

// NormalizeName folds case and whitespace so "FC  United" matches "fc united".
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NormalizeCode upper-cases a team code for case-insensitive lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
