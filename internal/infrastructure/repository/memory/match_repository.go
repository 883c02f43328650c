package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.matches[item.ID]; exists {
		return duplicateError("matches_pkey")
	}
	r.store.matches[item.ID] = item
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.matches[matchID]
	return item, ok, nil
}

func (r *MatchRepository) ListByTeam(_ context.Context, teamID string) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.store.matches {
		if item.Involves(teamID) && !item.IsRetired() {
			out = append(out, item)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListByGuestTeams(_ context.Context, teamID string, guestTeamIDs []string) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	guests := toSet(guestTeamIDs)
	out := make([]match.Match, 0)
	for _, item := range r.store.matches {
		if item.TeamID != teamID || item.IsRetired() {
			continue
		}
		if _, ok := guests[item.GuestTeamID()]; ok {
			out = append(out, item)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) ListByIDs(_ context.Context, matchIDs []string) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(matchIDs))
	for id := range toSet(matchIDs) {
		if item, ok := r.store.matches[id]; ok {
			out = append(out, item)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) UpdateScore(_ context.Context, matchID string, score match.Score, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.matches[matchID]
	if !ok {
		return fmt.Errorf("update match score: match %s not found", matchID)
	}
	item.HomeScore, item.AwayScore = score.Home, score.Away
	item.UpdatedAt = at
	r.store.matches[matchID] = item
	return nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID string, from, to match.Status, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.matches[matchID]
	if !ok || item.Status != from || item.IsRetired() {
		return false, nil
	}
	item.Status = to
	item.UpdatedAt = at
	r.store.matches[matchID] = item
	return true, nil
}

func (r *MatchRepository) ListRecordsByMatch(_ context.Context, matchID string) ([]match.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.recordsWhere(func(rec match.Record) bool { return rec.MatchID == matchID }), nil
}

func (r *MatchRepository) ListRecordsByMembers(_ context.Context, memberIDs []string) ([]match.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	members := toSet(memberIDs)
	return r.store.recordsWhere(func(rec match.Record) bool {
		_, ok := members[rec.MemberID]
		return ok
	}), nil
}

func (r *MatchRepository) UpsertRecord(_ context.Context, item match.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.recordFor(item.MatchID, item.MemberID); ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else if item.ID == "" {
		item.ID = r.store.newID()
	}
	r.store.records[item.ID] = item
	return nil
}

func (r *MatchRepository) AddGoal(_ context.Context, goal match.Goal, delta match.Score) (match.Score, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.matches[goal.MatchID]
	if !ok {
		return match.Score{}, fmt.Errorf("add goal: match %s not found", goal.MatchID)
	}
	if _, exists := r.store.goals[goal.ID]; exists {
		return match.Score{}, duplicateError("goals_pkey")
	}

	r.store.goals[goal.ID] = goal
	if goal.CountsForScorer() {
		r.store.bumpRecord(goal.MatchID, goal.ScorerMemberID, 1, 0, goal.CreatedAt)
	}
	if goal.AssistMemberID != "" {
		r.store.bumpRecord(goal.MatchID, goal.AssistMemberID, 0, 1, goal.CreatedAt)
	}
	return r.store.shiftScore(item, delta, goal.CreatedAt), nil
}

func (r *MatchRepository) DeleteGoal(_ context.Context, goal match.Goal, delta match.Score, at time.Time) (match.Score, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.goals[goal.ID]; !exists {
		return match.Score{}, fmt.Errorf("delete goal: goal %s not found", goal.ID)
	}
	item, ok := r.store.matches[goal.MatchID]
	if !ok {
		return match.Score{}, fmt.Errorf("delete goal: match %s not found", goal.MatchID)
	}

	delete(r.store.goals, goal.ID)
	if goal.CountsForScorer() {
		r.store.bumpRecord(goal.MatchID, goal.ScorerMemberID, -1, 0, at)
	}
	if goal.AssistMemberID != "" {
		r.store.bumpRecord(goal.MatchID, goal.AssistMemberID, 0, -1, at)
	}
	return r.store.shiftScore(item, match.Score{Home: -delta.Home, Away: -delta.Away}, at), nil
}

func (r *MatchRepository) GetGoal(_ context.Context, goalID string) (match.Goal, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.goals[goalID]
	return item, ok, nil
}

func (r *MatchRepository) ListGoalsByMatch(_ context.Context, matchID string) ([]match.Goal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.goalsWhere(func(g match.Goal) bool { return g.MatchID == matchID }), nil
}

func (r *MatchRepository) ListGoalsByMatches(_ context.Context, matchIDs []string) ([]match.Goal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := toSet(matchIDs)
	return r.store.goalsWhere(func(g match.Goal) bool {
		_, ok := ids[g.MatchID]
		return ok
	}), nil
}

func (r *MatchRepository) UpsertAttendance(_ context.Context, item match.Attendance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.attendance[attendanceKey(item.MatchID, item.MemberID)] = item
	return nil
}

func (r *MatchRepository) ListAttendance(_ context.Context, matchID string) ([]match.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Attendance, 0)
	for _, item := range r.store.attendance {
		if item.MatchID == matchID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (r *MatchRepository) CreateOpponentPlayer(_ context.Context, item match.OpponentPlayer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.opponentPlayers[item.ID]; exists {
		return duplicateError("opponent_players_pkey")
	}
	r.store.opponentPlayers[item.ID] = item
	return nil
}

func (r *MatchRepository) GetOpponentPlayer(_ context.Context, playerID string) (match.OpponentPlayer, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.opponentPlayers[playerID]
	return item, ok, nil
}

// bumpRecord adjusts counters, creating the record on first use and never going below zero.
func (s *Store) bumpRecord(matchID, memberID string, goals, assists int, at time.Time) {
	rec, ok := s.recordFor(matchID, memberID)
	if !ok {
		if goals < 0 || assists < 0 {
			return
		}
		rec = match.Record{ID: s.newID(), MatchID: matchID, MemberID: memberID, CreatedAt: at}
	}
	rec.Goals = max(rec.Goals+goals, 0)
	rec.Assists = max(rec.Assists+assists, 0)
	rec.UpdatedAt = at
	s.records[rec.ID] = rec
}
