package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
)

// Notifier stores and fans out notifications. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, items ...notification.Notification)
}

// statsInvalidator drops cached aggregates after a write that changes them.
type statsInvalidator interface {
	InvalidateTeam(ctx context.Context, teamID string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, ...notification.Notification) {}

type nopInvalidator struct{}

func (nopInvalidator) InvalidateTeam(context.Context, string) {}

func loadTeam(ctx context.Context, repo team.Repository, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by id: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return item, nil
}

// requireMember returns the caller's active membership of teamID.
func requireMember(ctx context.Context, repo team.Repository, teamID, userID string) (team.Member, error) {
	member, exists, err := repo.GetMemberByUser(ctx, teamID, userID)
	if err != nil {
		return team.Member{}, fmt.Errorf("get team membership: %w", err)
	}
	if !exists || !member.IsActive() {
		return team.Member{}, fmt.Errorf("%w: you are not an active member of this team", ErrForbidden)
	}
	return member, nil
}

// requireManager is requireMember restricted to OWNER and MANAGER roles.
func requireManager(ctx context.Context, repo team.Repository, teamID, userID string) (team.Member, error) {
	member, err := requireMember(ctx, repo, teamID, userID)
	if err != nil {
		return team.Member{}, err
	}
	if !member.CanManage() {
		return team.Member{}, fmt.Errorf("%w: team owner or manager role is required", ErrForbidden)
	}
	return member, nil
}

func isManager(ctx context.Context, repo team.Repository, teamID, userID string) (bool, error) {
	member, exists, err := repo.GetMemberByUser(ctx, teamID, userID)
	if err != nil {
		return false, fmt.Errorf("get team membership: %w", err)
	}
	return exists && member.CanManage(), nil
}

// managerUserIDs lists registered users allowed to act for teamID.
func managerUserIDs(ctx context.Context, repo team.Repository, teamID string) ([]string, error) {
	members, err := repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	out := make([]string, 0, 2)
	for _, member := range members {
		if !member.CanManage() {
			continue
		}
		if userID, ok := member.UserID(); ok {
			out = append(out, userID)
		}
	}
	return out, nil
}
