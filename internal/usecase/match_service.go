package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
)

const (
	defaultQuarters = 4
	maxQuarters     = 8
)

type ScheduleMatchInput struct {
	UserID         string
	TeamID         string
	OpponentTeamID string
	GuestTeamID    string
	OpponentName   string
	MatchDate      time.Time
	IsHome         bool
	Venue          string
	Quarters       int
}

type UpdateScoreInput struct {
	UserID  string
	MatchID string
	Home    int
	Away    int
}

type RecordGoalInput struct {
	UserID           string
	MatchID          string
	ScorerMemberID   string
	OpponentPlayerID string
	AssistMemberID   string
	// ForOpponent credits a goal without a named scorer to the opponent.
	ForOpponent bool
	Type        match.GoalType
	Quarter     int
	Minute      int
}

type UpsertRecordInput struct {
	UserID      string
	MatchID     string
	MemberID    string
	Goals       int
	Assists     int
	MOM         int
	CleanSheets int
}

type SetAttendanceInput struct {
	UserID   string
	MatchID  string
	MemberID string
	Status   match.AttendanceStatus
}

type MatchDetails struct {
	Match   match.Match
	Records []match.Record
	Goals   []match.Goal
}

type MatchService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	idGen     idgen.Generator
	stats     statsInvalidator
	now       func() time.Time
}

func NewMatchService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	idGen idgen.Generator,
	stats statsInvalidator,
) *MatchService {
	if stats == nil {
		stats = nopInvalidator{}
	}
	return &MatchService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		idGen:     idGen,
		stats:     stats,
		now:       time.Now,
	}
}

func (s *MatchService) ScheduleMatch(ctx context.Context, input ScheduleMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ScheduleMatch")
	defer span.End()

	input.OpponentTeamID = strings.TrimSpace(input.OpponentTeamID)
	input.GuestTeamID = strings.TrimSpace(input.GuestTeamID)
	input.OpponentName = strings.TrimSpace(input.OpponentName)
	input.Venue = strings.TrimSpace(input.Venue)
	if input.MatchDate.IsZero() {
		return match.Match{}, fmt.Errorf("%w: match date is required", ErrInvalidInput)
	}
	if input.Quarters == 0 {
		input.Quarters = defaultQuarters
	}
	if input.Quarters < 1 || input.Quarters > maxQuarters {
		return match.Match{}, fmt.Errorf("%w: quarters must be between 1 and %d", ErrInvalidInput, maxQuarters)
	}

	owner, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return match.Match{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, owner.ID, strings.TrimSpace(input.UserID)); err != nil {
		return match.Match{}, err
	}
	opponent, err := s.resolveOpponent(ctx, owner.ID, input)
	if err != nil {
		return match.Match{}, err
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	now := s.now().UTC()
	item := match.Match{
		ID:        matchID,
		TeamID:    owner.ID,
		Opponent:  opponent,
		MatchDate: input.MatchDate.UTC(),
		IsHome:    input.IsHome,
		Venue:     input.Venue,
		Status:    match.StatusScheduled,
		Quarters:  input.Quarters,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return item, nil
}

func (s *MatchService) resolveOpponent(ctx context.Context, ownerTeamID string, input ScheduleMatchInput) (match.Opponent, error) {
	provided := 0
	for _, v := range []string{input.OpponentTeamID, input.GuestTeamID, input.OpponentName} {
		if v != "" {
			provided++
		}
	}
	if provided != 1 {
		return nil, fmt.Errorf("%w: exactly one of opponent team, guest team or opponent name is required", ErrInvalidInput)
	}

	switch {
	case input.OpponentTeamID != "":
		if input.OpponentTeamID == ownerTeamID {
			return nil, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
		}
		if _, err := loadTeam(ctx, s.teamRepo, input.OpponentTeamID); err != nil {
			return nil, err
		}
		return match.RegisteredOpponent{TeamID: input.OpponentTeamID}, nil
	case input.GuestTeamID != "":
		guest, exists, err := s.teamRepo.GetGuestTeam(ctx, input.GuestTeamID)
		if err != nil {
			return nil, fmt.Errorf("get guest team: %w", err)
		}
		if !exists || guest.OwnerTeamID != ownerTeamID {
			return nil, fmt.Errorf("%w: guest team=%s", ErrNotFound, input.GuestTeamID)
		}
		return match.GuestOpponent{GuestTeamID: guest.ID}, nil
	default:
		return match.NamedOpponent{Name: input.OpponentName}, nil
	}
}

// GetMatch is visible to active members of either registered side.
func (s *MatchService) GetMatch(ctx context.Context, userID, matchID string) (MatchDetails, error) {
	item, err := s.matchForMember(ctx, userID, matchID)
	if err != nil {
		return MatchDetails{}, err
	}

	records, err := s.matchRepo.ListRecordsByMatch(ctx, item.ID)
	if err != nil {
		return MatchDetails{}, fmt.Errorf("list match records: %w", err)
	}
	goals, err := s.matchRepo.ListGoalsByMatch(ctx, item.ID)
	if err != nil {
		return MatchDetails{}, fmt.Errorf("list match goals: %w", err)
	}
	return MatchDetails{Match: item, Records: records, Goals: goals}, nil
}

func (s *MatchService) ListTeamMatches(ctx context.Context, userID, teamID string) ([]match.Match, error) {
	item, err := loadTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.teamRepo, item.ID, strings.TrimSpace(userID)); err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches by team: %w", err)
	}
	return matches, nil
}

// UpdateScore overwrites the live score of a match that has not finished.
func (s *MatchService) UpdateScore(ctx context.Context, input UpdateScoreInput) (match.Match, error) {
	score := match.Score{Home: input.Home, Away: input.Away}
	if err := score.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	item, err := s.matchForManager(ctx, input.UserID, input.MatchID)
	if err != nil {
		return match.Match{}, err
	}
	if item.Status != match.StatusScheduled {
		return match.Match{}, fmt.Errorf("%w: score can only be edited before the match is finished", ErrState)
	}

	now := s.now().UTC()
	if err := s.matchRepo.UpdateScore(ctx, item.ID, score, now); err != nil {
		return match.Match{}, fmt.Errorf("update match score: %w", err)
	}
	item.HomeScore, item.AwayScore = score.Home, score.Away
	item.UpdatedAt = now
	s.invalidate(ctx, item)
	return item, nil
}

func (s *MatchService) FinishMatch(ctx context.Context, userID, matchID string) (match.Match, error) {
	return s.transition(ctx, userID, matchID, match.StatusFinished)
}

func (s *MatchService) CancelMatch(ctx context.Context, userID, matchID string) (match.Match, error) {
	return s.transition(ctx, userID, matchID, match.StatusCanceled)
}

func (s *MatchService) transition(ctx context.Context, userID, matchID string, to match.Status) (match.Match, error) {
	item, err := s.matchForManager(ctx, userID, matchID)
	if err != nil {
		return match.Match{}, err
	}

	now := s.now().UTC()
	ok, err := s.matchRepo.UpdateStatus(ctx, item.ID, match.StatusScheduled, to, now)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match status: %w", err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match is %s", ErrState, item.Status)
	}
	item.Status = to
	item.UpdatedAt = now
	s.invalidate(ctx, item)
	return item, nil
}

// RecordGoal stores a scoring event and moves the score and the scorer/assist counters with it.
func (s *MatchService) RecordGoal(ctx context.Context, input RecordGoalInput) (match.Goal, match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecordGoal")
	defer span.End()

	input.ScorerMemberID = strings.TrimSpace(input.ScorerMemberID)
	input.OpponentPlayerID = strings.TrimSpace(input.OpponentPlayerID)
	input.AssistMemberID = strings.TrimSpace(input.AssistMemberID)
	if input.Type == "" {
		input.Type = match.GoalTypeNormal
	}
	if !input.Type.Valid() {
		return match.Goal{}, match.Match{}, fmt.Errorf("%w: unknown goal type %q", ErrInvalidInput, input.Type)
	}
	if input.ScorerMemberID != "" && input.OpponentPlayerID != "" {
		return match.Goal{}, match.Match{}, fmt.Errorf("%w: scorer must be a member or an opponent player, not both", ErrInvalidInput)
	}
	if input.Minute < 0 || input.Quarter < 0 {
		return match.Goal{}, match.Match{}, fmt.Errorf("%w: quarter and minute cannot be negative", ErrInvalidInput)
	}

	item, err := s.matchForManager(ctx, input.UserID, input.MatchID)
	if err != nil {
		return match.Goal{}, match.Match{}, err
	}
	if item.Status == match.StatusCanceled {
		return match.Goal{}, match.Match{}, fmt.Errorf("%w: match is canceled", ErrState)
	}
	if input.Quarter > item.Quarters {
		return match.Goal{}, match.Match{}, fmt.Errorf("%w: match has %d quarters", ErrInvalidInput, item.Quarters)
	}

	ownGoal := input.Type == match.GoalTypeOwnGoal
	var creditTeam bool
	switch {
	case input.ScorerMemberID != "":
		if err := s.requireRosterMember(ctx, item.TeamID, input.ScorerMemberID); err != nil {
			return match.Goal{}, match.Match{}, err
		}
		creditTeam = !ownGoal
	case input.OpponentPlayerID != "":
		player, exists, err := s.matchRepo.GetOpponentPlayer(ctx, input.OpponentPlayerID)
		if err != nil {
			return match.Goal{}, match.Match{}, fmt.Errorf("get opponent player: %w", err)
		}
		if !exists || player.MatchID != item.ID {
			return match.Goal{}, match.Match{}, fmt.Errorf("%w: opponent player=%s", ErrNotFound, input.OpponentPlayerID)
		}
		creditTeam = ownGoal
	default:
		if ownGoal {
			return match.Goal{}, match.Match{}, fmt.Errorf("%w: an own goal needs a scorer", ErrInvalidInput)
		}
		creditTeam = !input.ForOpponent
	}
	if input.AssistMemberID != "" {
		if !creditTeam || ownGoal {
			return match.Goal{}, match.Match{}, fmt.Errorf("%w: assists are only recorded for the team's own goals", ErrInvalidInput)
		}
		if input.AssistMemberID == input.ScorerMemberID {
			return match.Goal{}, match.Match{}, fmt.Errorf("%w: scorer cannot assist their own goal", ErrInvalidInput)
		}
		if err := s.requireRosterMember(ctx, item.TeamID, input.AssistMemberID); err != nil {
			return match.Goal{}, match.Match{}, err
		}
	}

	goalID, err := s.idGen.NewID()
	if err != nil {
		return match.Goal{}, match.Match{}, fmt.Errorf("generate goal id: %w", err)
	}
	goal := match.Goal{
		ID:               goalID,
		MatchID:          item.ID,
		ScorerMemberID:   input.ScorerMemberID,
		OpponentPlayerID: input.OpponentPlayerID,
		AssistMemberID:   input.AssistMemberID,
		Type:             input.Type,
		Quarter:          input.Quarter,
		Minute:           input.Minute,
		CreatedAt:        s.now().UTC(),
	}
	goal.ScoringTeamID = item.OpponentTeamID()
	if creditTeam {
		goal.ScoringTeamID = item.TeamID
	}

	score, err := s.matchRepo.AddGoal(ctx, goal, item.GoalDelta(goal))
	if err != nil {
		return match.Goal{}, match.Match{}, fmt.Errorf("add goal: %w", err)
	}
	item.HomeScore, item.AwayScore = score.Home, score.Away
	item.UpdatedAt = goal.CreatedAt
	s.invalidate(ctx, item)
	return goal, item, nil
}

func (s *MatchService) DeleteGoal(ctx context.Context, userID, matchID, goalID string) (match.Match, error) {
	item, err := s.matchForManager(ctx, userID, matchID)
	if err != nil {
		return match.Match{}, err
	}
	goal, exists, err := s.matchRepo.GetGoal(ctx, strings.TrimSpace(goalID))
	if err != nil {
		return match.Match{}, fmt.Errorf("get goal: %w", err)
	}
	if !exists || goal.MatchID != item.ID {
		return match.Match{}, fmt.Errorf("%w: goal=%s", ErrNotFound, goalID)
	}

	now := s.now().UTC()
	score, err := s.matchRepo.DeleteGoal(ctx, goal, item.GoalDelta(goal), now)
	if err != nil {
		return match.Match{}, fmt.Errorf("delete goal: %w", err)
	}
	item.HomeScore, item.AwayScore = score.Home, score.Away
	item.UpdatedAt = now
	s.invalidate(ctx, item)
	return item, nil
}

// UpsertRecord sets a member's counters for one match, e.g. MOM or a clean sheet.
func (s *MatchService) UpsertRecord(ctx context.Context, input UpsertRecordInput) (match.Record, error) {
	if input.Goals < 0 || input.Assists < 0 || input.CleanSheets < 0 {
		return match.Record{}, fmt.Errorf("%w: counters cannot be negative", ErrInvalidInput)
	}
	if input.MOM < 0 || input.MOM > 1 {
		return match.Record{}, fmt.Errorf("%w: mom must be 0 or 1", ErrInvalidInput)
	}
	if input.CleanSheets > 1 {
		return match.Record{}, fmt.Errorf("%w: clean sheets must be 0 or 1", ErrInvalidInput)
	}
	item, err := s.matchForManager(ctx, input.UserID, input.MatchID)
	if err != nil {
		return match.Record{}, err
	}
	memberID := strings.TrimSpace(input.MemberID)
	if err := s.requireRosterMember(ctx, item.TeamID, memberID); err != nil {
		return match.Record{}, err
	}

	recordID, err := s.idGen.NewID()
	if err != nil {
		return match.Record{}, fmt.Errorf("generate record id: %w", err)
	}
	now := s.now().UTC()
	record := match.Record{
		ID:          recordID,
		MatchID:     item.ID,
		MemberID:    memberID,
		Goals:       input.Goals,
		Assists:     input.Assists,
		MOM:         input.MOM,
		CleanSheets: input.CleanSheets,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.matchRepo.UpsertRecord(ctx, record); err != nil {
		return match.Record{}, fmt.Errorf("upsert match record: %w", err)
	}
	s.invalidate(ctx, item)
	return record, nil
}

// SetAttendance is an idempotent upsert. Members answer for themselves; managers for anyone.
func (s *MatchService) SetAttendance(ctx context.Context, input SetAttendanceInput) (match.Attendance, error) {
	if !input.Status.Valid() {
		return match.Attendance{}, fmt.Errorf("%w: unknown attendance status %q", ErrInvalidInput, input.Status)
	}
	input.UserID = strings.TrimSpace(input.UserID)
	input.MemberID = strings.TrimSpace(input.MemberID)

	item, err := s.loadMatch(ctx, input.MatchID)
	if err != nil {
		return match.Attendance{}, err
	}
	if item.Status != match.StatusScheduled {
		return match.Attendance{}, fmt.Errorf("%w: attendance closes once the match is %s", ErrState, item.Status)
	}
	caller, err := requireMember(ctx, s.teamRepo, item.TeamID, input.UserID)
	if err != nil {
		return match.Attendance{}, err
	}
	if input.MemberID == "" {
		input.MemberID = caller.ID
	}
	if input.MemberID != caller.ID {
		if !caller.CanManage() {
			return match.Attendance{}, fmt.Errorf("%w: only managers can set attendance for others", ErrForbidden)
		}
		if err := s.requireRosterMember(ctx, item.TeamID, input.MemberID); err != nil {
			return match.Attendance{}, err
		}
	}

	row := match.Attendance{
		MatchID:   item.ID,
		MemberID:  input.MemberID,
		Status:    input.Status,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.matchRepo.UpsertAttendance(ctx, row); err != nil {
		return match.Attendance{}, fmt.Errorf("upsert attendance: %w", err)
	}
	return row, nil
}

func (s *MatchService) ListAttendance(ctx context.Context, userID, matchID string) ([]match.Attendance, error) {
	item, err := s.matchForMember(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}

	rows, err := s.matchRepo.ListAttendance(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

func (s *MatchService) AddOpponentPlayer(ctx context.Context, userID, matchID, name string) (match.OpponentPlayer, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return match.OpponentPlayer{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	item, err := s.matchForManager(ctx, userID, matchID)
	if err != nil {
		return match.OpponentPlayer{}, err
	}

	playerID, err := s.idGen.NewID()
	if err != nil {
		return match.OpponentPlayer{}, fmt.Errorf("generate opponent player id: %w", err)
	}
	player := match.OpponentPlayer{
		ID:        playerID,
		MatchID:   item.ID,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.matchRepo.CreateOpponentPlayer(ctx, player); err != nil {
		return match.OpponentPlayer{}, fmt.Errorf("create opponent player: %w", err)
	}
	return player, nil
}

func (s *MatchService) loadMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

// matchForManager loads a live (not retired) match the caller manages.
func (s *MatchService) matchForManager(ctx context.Context, userID, matchID string) (match.Match, error) {
	item, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, item.TeamID, strings.TrimSpace(userID)); err != nil {
		return match.Match{}, err
	}
	if item.IsRetired() {
		return match.Match{}, fmt.Errorf("%w: match was merged into %s", ErrState, item.MergedInto)
	}
	return item, nil
}

func (s *MatchService) matchForMember(ctx context.Context, userID, matchID string) (match.Match, error) {
	item, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	userID = strings.TrimSpace(userID)
	if _, err := requireMember(ctx, s.teamRepo, item.TeamID, userID); err == nil {
		return item, nil
	}
	if opponentID := item.OpponentTeamID(); opponentID != "" {
		if _, err := requireMember(ctx, s.teamRepo, opponentID, userID); err == nil {
			return item, nil
		}
	}
	return match.Match{}, fmt.Errorf("%w: you are not a member of either team", ErrForbidden)
}

func (s *MatchService) requireRosterMember(ctx context.Context, teamID, memberID string) error {
	if memberID == "" {
		return fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	member, exists, err := s.teamRepo.GetMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("get team member: %w", err)
	}
	if !exists || member.TeamID != teamID {
		return fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}
	if !member.IsActive() {
		return fmt.Errorf("%w: member %s is %s", ErrState, memberID, member.Status)
	}
	return nil
}

func (s *MatchService) invalidate(ctx context.Context, item match.Match) {
	s.stats.InvalidateTeam(ctx, item.TeamID)
	if opponentID := item.OpponentTeamID(); opponentID != "" {
		s.stats.InvalidateTeam(ctx, opponentID)
	}
}
