package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
)

// TeamCodeLength matches the user code length so both read the same way aloud.
const TeamCodeLength = 6

type CreateTeamInput struct {
	UserID string
	Name   string
	Region string
}

type ManageMemberInput struct {
	UserID   string
	TeamID   string
	MemberID string
}

type ChangeRoleInput struct {
	UserID   string
	TeamID   string
	MemberID string
	Role     team.Role
}

type AddGuestMemberInput struct {
	UserID string
	TeamID string
	Name   string
}

type ListMembersInput struct {
	UserID string
	TeamID string
	// Status defaults to active; pending is visible to managers only.
	Status team.MemberStatus
}

type CreateGuestTeamInput struct {
	UserID string
	TeamID string
	Name   string
	Region string
}

// MemberView is a roster row with the name to display for it.
type MemberView struct {
	Member team.Member
	Name   string
}

type TeamService struct {
	teamRepo team.Repository
	userRepo user.Repository
	idGen    idgen.Generator
	codes    idgen.CodeGenerator
	notifier Notifier
	now      func() time.Time
}

func NewTeamService(
	teamRepo team.Repository,
	userRepo user.Repository,
	idGen idgen.Generator,
	codes idgen.CodeGenerator,
	notifier Notifier,
) *TeamService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		idGen:    idGen,
		codes:    codes,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	input.Region = strings.TrimSpace(input.Region)
	if input.UserID == "" {
		return team.Team{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if _, exists, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		return team.Team{}, fmt.Errorf("get user by id: %w", err)
	} else if !exists {
		return team.Team{}, fmt.Errorf("%w: register your profile before creating a team", ErrForbidden)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	memberID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate member id: %w", err)
	}

	now := s.now().UTC()
	item := team.Team{
		ID:          teamID,
		Name:        input.Name,
		Region:      input.Region,
		OwnerUserID: input.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	owner := team.Member{
		ID:       memberID,
		TeamID:   teamID,
		Identity: team.Registered{UserID: input.UserID},
		Role:     team.RoleOwner,
		Status:   team.MemberStatusActive,
		JoinedAt: now,
	}
	if _, err := withUniqueCode(ctx, s.codes, TeamCodeLength, func(code string) error {
		item.Code = code
		return s.teamRepo.CreateTeam(ctx, item, owner)
	}); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	return item, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (team.Team, error) {
	return loadTeam(ctx, s.teamRepo, teamID)
}

func (s *TeamService) GetByCode(ctx context.Context, code string) (team.Team, error) {
	code = team.NormalizeCode(code)
	if len(code) != TeamCodeLength {
		return team.Team{}, fmt.Errorf("%w: team code must be %d characters", ErrInvalidInput, TeamCodeLength)
	}

	item, exists, err := s.teamRepo.GetByCode(ctx, code)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by code: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team code=%s", ErrNotFound, code)
	}
	return item, nil
}

func (s *TeamService) ListMyTeams(ctx context.Context, userID string) ([]team.Team, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.teamRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}
	return items, nil
}

// JoinByCode files a pending membership that a manager must approve.
func (s *TeamService) JoinByCode(ctx context.Context, userID, code string) (team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.JoinByCode")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return team.Member{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	item, err := s.GetByCode(ctx, code)
	if err != nil {
		return team.Member{}, err
	}
	profile, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return team.Member{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return team.Member{}, fmt.Errorf("%w: register your profile before joining a team", ErrForbidden)
	}

	if existing, found, err := s.teamRepo.GetMemberByUser(ctx, item.ID, userID); err != nil {
		return team.Member{}, fmt.Errorf("get team membership: %w", err)
	} else if found {
		return team.Member{}, fmt.Errorf("%w: membership already %s", ErrConflict, existing.Status)
	}

	memberID, err := s.idGen.NewID()
	if err != nil {
		return team.Member{}, fmt.Errorf("generate member id: %w", err)
	}
	member := team.Member{
		ID:       memberID,
		TeamID:   item.ID,
		Identity: team.Registered{UserID: userID},
		Role:     team.RoleMember,
		Status:   team.MemberStatusPending,
		JoinedAt: s.now().UTC(),
	}
	if err := s.teamRepo.CreateMember(ctx, member); err != nil {
		if isDuplicateConstraintError(err) {
			return team.Member{}, fmt.Errorf("%w: membership already exists", ErrConflict)
		}
		return team.Member{}, fmt.Errorf("create team member: %w", err)
	}

	managers, err := managerUserIDs(ctx, s.teamRepo, item.ID)
	if err != nil {
		return member, nil
	}
	notes := make([]notification.Notification, 0, len(managers))
	for _, managerID := range managers {
		notes = append(notes, notification.Notification{
			UserID:        managerID,
			Type:          notification.TypeMemberJoinRequested,
			Title:         "New join request",
			Message:       fmt.Sprintf("%s wants to join %s", profile.DisplayName, item.Name),
			RelatedTeamID: item.ID,
		})
	}
	s.notifier.Notify(ctx, notes...)

	return member, nil
}

func (s *TeamService) ApproveMember(ctx context.Context, input ManageMemberInput) (team.Member, error) {
	item, member, err := s.pendingMemberForManager(ctx, input)
	if err != nil {
		return team.Member{}, err
	}

	ok, err := s.teamRepo.UpdateMemberStatus(ctx, member.ID, team.MemberStatusPending, team.MemberStatusActive, s.now().UTC())
	if err != nil {
		return team.Member{}, fmt.Errorf("approve team member: %w", err)
	}
	if !ok {
		return team.Member{}, fmt.Errorf("%w: membership is no longer pending", ErrState)
	}
	member.Status = team.MemberStatusActive

	if userID, registered := member.UserID(); registered {
		s.notifier.Notify(ctx, notification.Notification{
			UserID:        userID,
			Type:          notification.TypeMemberApproved,
			Title:         "Membership approved",
			Message:       fmt.Sprintf("You are now a member of %s", item.Name),
			RelatedTeamID: item.ID,
		})
	}
	return member, nil
}

func (s *TeamService) RejectMember(ctx context.Context, input ManageMemberInput) error {
	_, member, err := s.pendingMemberForManager(ctx, input)
	if err != nil {
		return err
	}

	ok, err := s.teamRepo.DeleteMember(ctx, member.ID, team.MemberStatusPending)
	if err != nil {
		return fmt.Errorf("reject team member: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: membership is no longer pending", ErrState)
	}
	return nil
}

// ChangeRole is reserved for owners and keeps at least one active owner per team.
func (s *TeamService) ChangeRole(ctx context.Context, input ChangeRoleInput) (team.Member, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.MemberID = strings.TrimSpace(input.MemberID)
	if !input.Role.Valid() {
		return team.Member{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}
	item, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return team.Member{}, err
	}
	caller, err := requireMember(ctx, s.teamRepo, item.ID, input.UserID)
	if err != nil {
		return team.Member{}, err
	}
	if caller.Role != team.RoleOwner {
		return team.Member{}, fmt.Errorf("%w: only an owner can change roles", ErrForbidden)
	}

	member, err := s.memberOfTeam(ctx, item.ID, input.MemberID)
	if err != nil {
		return team.Member{}, err
	}
	if !member.IsActive() || member.IsGuest() {
		return team.Member{}, fmt.Errorf("%w: roles can only be assigned to active registered members", ErrInvalidInput)
	}
	if member.Role == input.Role {
		return member, nil
	}

	if member.Role == team.RoleOwner {
		members, err := s.teamRepo.ListMembers(ctx, item.ID)
		if err != nil {
			return team.Member{}, fmt.Errorf("list team members: %w", err)
		}
		owners := 0
		for _, m := range members {
			if m.IsActive() && m.Role == team.RoleOwner {
				owners++
			}
		}
		if owners <= 1 {
			return team.Member{}, fmt.Errorf("%w: a team must keep at least one owner", ErrState)
		}
	}

	if err := s.teamRepo.UpdateMemberRole(ctx, member.ID, input.Role); err != nil {
		return team.Member{}, fmt.Errorf("update member role: %w", err)
	}
	member.Role = input.Role
	return member, nil
}

// AddGuestMember registers a player without an account so their records can be kept.
func (s *TeamService) AddGuestMember(ctx context.Context, input AddGuestMemberInput) (team.Member, error) {
	input.Name = strings.Join(strings.Fields(input.Name), " ")
	if input.Name == "" {
		return team.Member{}, fmt.Errorf("%w: guest name is required", ErrInvalidInput)
	}
	item, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return team.Member{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, item.ID, strings.TrimSpace(input.UserID)); err != nil {
		return team.Member{}, err
	}

	memberID, err := s.idGen.NewID()
	if err != nil {
		return team.Member{}, fmt.Errorf("generate member id: %w", err)
	}
	member := team.Member{
		ID:       memberID,
		TeamID:   item.ID,
		Identity: team.Guest{Name: input.Name},
		Role:     team.RoleMember,
		Status:   team.MemberStatusActive,
		JoinedAt: s.now().UTC(),
	}
	if err := s.teamRepo.CreateMember(ctx, member); err != nil {
		return team.Member{}, fmt.Errorf("create guest member: %w", err)
	}
	return member, nil
}

func (s *TeamService) ListMembers(ctx context.Context, input ListMembersInput) ([]MemberView, error) {
	item, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = team.MemberStatusActive
	}
	switch status {
	case team.MemberStatusActive:
		_, err = requireMember(ctx, s.teamRepo, item.ID, strings.TrimSpace(input.UserID))
	case team.MemberStatusPending:
		_, err = requireManager(ctx, s.teamRepo, item.ID, strings.TrimSpace(input.UserID))
	default:
		err = fmt.Errorf("%w: status must be active or pending", ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	filtered := make([]team.Member, 0, len(members))
	for _, member := range members {
		if member.Status == status {
			filtered = append(filtered, member)
		}
	}

	names, err := memberNames(ctx, s.userRepo, filtered)
	if err != nil {
		return nil, err
	}
	out := make([]MemberView, 0, len(filtered))
	for _, member := range filtered {
		out = append(out, MemberView{Member: member, Name: names[member.ID]})
	}
	return out, nil
}

func (s *TeamService) CreateGuestTeam(ctx context.Context, input CreateGuestTeamInput) (team.GuestTeam, error) {
	input.Name = strings.Join(strings.Fields(input.Name), " ")
	input.Region = strings.TrimSpace(input.Region)
	if input.Name == "" {
		return team.GuestTeam{}, fmt.Errorf("%w: guest team name is required", ErrInvalidInput)
	}
	item, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return team.GuestTeam{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, item.ID, strings.TrimSpace(input.UserID)); err != nil {
		return team.GuestTeam{}, err
	}

	guestID, err := s.idGen.NewID()
	if err != nil {
		return team.GuestTeam{}, fmt.Errorf("generate guest team id: %w", err)
	}
	guest := team.GuestTeam{
		ID:          guestID,
		OwnerTeamID: item.ID,
		Name:        input.Name,
		Region:      input.Region,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.teamRepo.CreateGuestTeam(ctx, guest); err != nil {
		return team.GuestTeam{}, fmt.Errorf("create guest team: %w", err)
	}
	return guest, nil
}

func (s *TeamService) ListGuestTeams(ctx context.Context, userID, teamID string) ([]team.GuestTeam, error) {
	item, err := loadTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.teamRepo, item.ID, strings.TrimSpace(userID)); err != nil {
		return nil, err
	}

	items, err := s.teamRepo.ListGuestTeams(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list guest teams: %w", err)
	}
	return items, nil
}

func (s *TeamService) pendingMemberForManager(ctx context.Context, input ManageMemberInput) (team.Team, team.Member, error) {
	item, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return team.Team{}, team.Member{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, item.ID, strings.TrimSpace(input.UserID)); err != nil {
		return team.Team{}, team.Member{}, err
	}
	member, err := s.memberOfTeam(ctx, item.ID, input.MemberID)
	if err != nil {
		return team.Team{}, team.Member{}, err
	}
	if member.Status != team.MemberStatusPending {
		return team.Team{}, team.Member{}, fmt.Errorf("%w: membership is %s", ErrState, member.Status)
	}
	return item, member, nil
}

func (s *TeamService) memberOfTeam(ctx context.Context, teamID, memberID string) (team.Member, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return team.Member{}, fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	member, exists, err := s.teamRepo.GetMember(ctx, memberID)
	if err != nil {
		return team.Member{}, fmt.Errorf("get team member: %w", err)
	}
	if !exists || member.TeamID != teamID {
		return team.Member{}, fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}
	return member, nil
}

// memberNames resolves display names: guests by their stored name, registered members by profile.
func memberNames(ctx context.Context, repo user.Repository, members []team.Member) (map[string]string, error) {
	names := make(map[string]string, len(members))
	userIDs := make([]string, 0, len(members))
	byUser := make(map[string][]string)
	for _, member := range members {
		if member.IsGuest() {
			names[member.ID] = member.GuestName()
			continue
		}
		if userID, ok := member.UserID(); ok {
			if _, seen := byUser[userID]; !seen {
				userIDs = append(userIDs, userID)
			}
			byUser[userID] = append(byUser[userID], member.ID)
		}
	}
	if len(userIDs) == 0 {
		return names, nil
	}

	users, err := repo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}
	for _, u := range users {
		for _, memberID := range byUser[u.ID] {
			names[memberID] = u.DisplayName
		}
	}
	return names, nil
}
