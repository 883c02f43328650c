package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) CreateTeam(_ context.Context, item team.Team, owner team.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.teams[item.ID]; exists {
		return duplicateError("teams_pkey")
	}
	for _, existing := range r.store.teams {
		if existing.Code == item.Code {
			return duplicateError("teams_code_key")
		}
	}
	if _, exists := r.store.members[owner.ID]; exists {
		return duplicateError("team_members_pkey")
	}

	r.store.teams[item.ID] = item
	r.store.members[owner.ID] = owner
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) GetByCode(_ context.Context, code string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	code = team.NormalizeCode(code)
	for _, item := range r.store.teams {
		if item.Code == code {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByUser(_ context.Context, userID string) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, member := range r.store.members {
		id, ok := member.UserID()
		if !ok || id != userID || !member.IsActive() {
			continue
		}
		if item, ok := r.store.teams[member.TeamID]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) CreateMember(_ context.Context, member team.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.members[member.ID]; exists {
		return duplicateError("team_members_pkey")
	}
	if userID, ok := member.UserID(); ok {
		if _, found := r.store.memberByUser(member.TeamID, userID); found {
			return duplicateError("team_members_team_user_key")
		}
	}
	r.store.members[member.ID] = member
	return nil
}

func (r *TeamRepository) GetMember(_ context.Context, memberID string) (team.Member, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.members[memberID]
	return item, ok, nil
}

func (r *TeamRepository) GetMemberByUser(_ context.Context, teamID, userID string) (team.Member, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.memberByUser(teamID, userID)
	return item, ok, nil
}

func (r *TeamRepository) ListMembers(_ context.Context, teamID string) ([]team.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Member, 0)
	for _, member := range r.store.members {
		if member.TeamID == teamID {
			out = append(out, member)
		}
	}
	sortMembers(out)
	return out, nil
}

func (r *TeamRepository) ListMembersByUser(_ context.Context, userID string) ([]team.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Member, 0)
	for _, member := range r.store.members {
		if id, ok := member.UserID(); ok && id == userID && member.Status != team.MemberStatusMerged {
			out = append(out, member)
		}
	}
	sortMembers(out)
	return out, nil
}

func (r *TeamRepository) UpdateMemberStatus(_ context.Context, memberID string, from, to team.MemberStatus, _ time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	member, ok := r.store.members[memberID]
	if !ok || member.Status != from {
		return false, nil
	}
	member.Status = to
	r.store.members[memberID] = member
	return true, nil
}

func (r *TeamRepository) UpdateMemberRole(_ context.Context, memberID string, role team.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	member, ok := r.store.members[memberID]
	if !ok {
		return fmt.Errorf("update member role: member %s not found", memberID)
	}
	member.Role = role
	r.store.members[memberID] = member
	return nil
}

func (r *TeamRepository) DeleteMember(_ context.Context, memberID string, expected team.MemberStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	member, ok := r.store.members[memberID]
	if !ok || member.Status != expected {
		return false, nil
	}
	delete(r.store.members, memberID)
	return true, nil
}

func (r *TeamRepository) CreateGuestTeam(_ context.Context, item team.GuestTeam) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.guestTeams[item.ID]; exists {
		return duplicateError("guest_teams_pkey")
	}
	r.store.guestTeams[item.ID] = item
	return nil
}

func (r *TeamRepository) GetGuestTeam(_ context.Context, guestTeamID string) (team.GuestTeam, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.guestTeams[guestTeamID]
	return item, ok, nil
}

func (r *TeamRepository) ListGuestTeams(_ context.Context, ownerTeamID string) ([]team.GuestTeam, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.GuestTeam, 0)
	for _, item := range r.store.guestTeams {
		if item.OwnerTeamID == ownerTeamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) memberByUser(teamID, userID string) (team.Member, bool) {
	for _, member := range s.members {
		if member.TeamID != teamID || member.Status == team.MemberStatusMerged {
			continue
		}
		if id, ok := member.UserID(); ok && id == userID {
			return member, true
		}
	}
	return team.Member{}, false
}
