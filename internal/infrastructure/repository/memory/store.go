package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
)

// errDuplicate mirrors the postgres unique violation text so callers can treat both stores alike.
var errDuplicate = errors.New("duplicate key value violates unique constraint")

func duplicateError(constraint string) error {
	return fmt.Errorf("%w %q", errDuplicate, constraint)
}

// Store holds every table behind one lock so multi-table operations stay atomic,
// the same way a single SQL transaction would.
type Store struct {
	mu sync.RWMutex

	users           map[string]user.User
	teams           map[string]team.Team
	members         map[string]team.Member
	guestTeams      map[string]team.GuestTeam
	matches         map[string]match.Match
	records         map[string]match.Record
	goals           map[string]match.Goal
	attendance      map[string]match.Attendance
	opponentPlayers map[string]match.OpponentPlayer
	recordMerges    map[string]merge.RecordMergeRequest
	teamMerges      map[string]merge.TeamMergeRequest
	mappings        map[string]merge.Mapping
	mappingOrder    map[string][]string
	disputes        map[string]merge.Dispute
	notifications   map[string]notification.Notification

	newID func() string
}

func NewStore() *Store {
	return &Store{
		users:           make(map[string]user.User),
		teams:           make(map[string]team.Team),
		members:         make(map[string]team.Member),
		guestTeams:      make(map[string]team.GuestTeam),
		matches:         make(map[string]match.Match),
		records:         make(map[string]match.Record),
		goals:           make(map[string]match.Goal),
		attendance:      make(map[string]match.Attendance),
		opponentPlayers: make(map[string]match.OpponentPlayer),
		recordMerges:    make(map[string]merge.RecordMergeRequest),
		teamMerges:      make(map[string]merge.TeamMergeRequest),
		mappings:        make(map[string]merge.Mapping),
		mappingOrder:    make(map[string][]string),
		disputes:        make(map[string]merge.Dispute),
		notifications:   make(map[string]notification.Notification),
		newID:           uuid.NewString,
	}
}

func attendanceKey(matchID, memberID string) string {
	return matchID + "::" + memberID
}

func (s *Store) recordFor(matchID, memberID string) (match.Record, bool) {
	for _, rec := range s.records {
		if rec.MatchID == matchID && rec.MemberID == memberID {
			return rec, true
		}
	}
	return match.Record{}, false
}

func (s *Store) recordsWhere(keep func(match.Record) bool) []match.Record {
	out := make([]match.Record, 0)
	for _, rec := range s.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out
}

func (s *Store) goalsWhere(keep func(match.Goal) bool) []match.Goal {
	out := make([]match.Goal, 0)
	for _, g := range s.goals {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) applyRecordPlan(plan match.RecordMergePlan, at time.Time) {
	for _, rec := range plan.Combined {
		rec.UpdatedAt = at
		s.records[rec.ID] = rec
	}
	for _, rec := range plan.Moved {
		rec.UpdatedAt = at
		s.records[rec.ID] = rec
	}
	for _, id := range plan.Deleted {
		delete(s.records, id)
	}
}

func sortRecords(items []match.Record) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].MatchID != items[j].MatchID {
			return items[i].MatchID < items[j].MatchID
		}
		return items[i].MemberID < items[j].MemberID
	})
}

func sortMatches(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].MatchDate.Equal(items[j].MatchDate) {
			return items[i].MatchDate.Before(items[j].MatchDate)
		}
		return items[i].ID < items[j].ID
	})
}

func sortMembers(items []team.Member) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].JoinedAt.Equal(items[j].JoinedAt) {
			return items[i].JoinedAt.Before(items[j].JoinedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

// shiftScore applies delta to the stored row, flooring at zero. Callers hold mu.
func (s *Store) shiftScore(item match.Match, delta match.Score, at time.Time) match.Score {
	item.HomeScore = max(item.HomeScore+delta.Home, 0)
	item.AwayScore = max(item.AwayScore+delta.Away, 0)
	item.UpdatedAt = at
	s.matches[item.ID] = item
	return item.Score()
}
