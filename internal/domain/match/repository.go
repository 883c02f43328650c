package match

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Match) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	// ListByTeam returns matches owned by or registered against teamID, excluding retired rows.
	ListByTeam(ctx context.Context, teamID string) ([]Match, error)
	ListByGuestTeams(ctx context.Context, teamID string, guestTeamIDs []string) ([]Match, error)
	ListByIDs(ctx context.Context, matchIDs []string) ([]Match, error)
	UpdateScore(ctx context.Context, matchID string, score Score, at time.Time) error
	// UpdateStatus applies only when the match is still in the from status.
	UpdateStatus(ctx context.Context, matchID string, from, to Status, at time.Time) (bool, error)

	ListRecordsByMatch(ctx context.Context, matchID string) ([]Record, error)
	ListRecordsByMembers(ctx context.Context, memberIDs []string) ([]Record, error)
	UpsertRecord(ctx context.Context, item Record) error

	// AddGoal stores the goal, bumps scorer/assist counters and adds delta to the
	// stored score in one transaction. It returns the score after the change.
	AddGoal(ctx context.Context, goal Goal, delta Score) (Score, error)
	// DeleteGoal reverses AddGoal; the score never drops below zero.
	DeleteGoal(ctx context.Context, goal Goal, delta Score, at time.Time) (Score, error)
	GetGoal(ctx context.Context, goalID string) (Goal, bool, error)
	ListGoalsByMatch(ctx context.Context, matchID string) ([]Goal, error)
	ListGoalsByMatches(ctx context.Context, matchIDs []string) ([]Goal, error)

	UpsertAttendance(ctx context.Context, item Attendance) error
	ListAttendance(ctx context.Context, matchID string) ([]Attendance, error)

	CreateOpponentPlayer(ctx context.Context, item OpponentPlayer) error
	GetOpponentPlayer(ctx context.Context, playerID string) (OpponentPlayer, bool, error)
}
