package match

import (
	"errors"
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusFinished  Status = "FINISHED"
	StatusCanceled  Status = "CANCELED"
)

type Result string

const (
	ResultWin  Result = "W"
	ResultDraw Result = "D"
	ResultLoss Result = "L"
)

var ErrNegativeScore = errors.New("score cannot be negative")

// Score is expressed from the home/away perspective of the match row it belongs to.
type Score struct {
	Home int
	Away int
}

func (s Score) Validate() error {
	if s.Home < 0 || s.Away < 0 {
		return ErrNegativeScore
	}
	return nil
}

// Opponent is one of RegisteredOpponent, GuestOpponent or NamedOpponent.
type Opponent interface {
	isOpponent()
}

type RegisteredOpponent struct {
	TeamID string
}

type GuestOpponent struct {
	GuestTeamID string
}

type NamedOpponent struct {
	Name string
}

func (RegisteredOpponent) isOpponent() {}
func (GuestOpponent) isOpponent()      {}
func (NamedOpponent) isOpponent()      {}

type Match struct {
	ID         string
	TeamID     string
	Opponent   Opponent
	MatchDate  time.Time
	IsHome     bool
	Venue      string
	HomeScore  int
	AwayScore  int
	Status     Status
	Quarters   int
	MergedInto string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (m Match) Score() Score {
	return Score{Home: m.HomeScore, Away: m.AwayScore}
}

func (m Match) Season() int {
	return m.MatchDate.UTC().Year()
}

func (m Match) IsRetired() bool {
	return m.MergedInto != ""
}

func (m Match) IsFinished() bool {
	return m.Status == StatusFinished && !m.IsRetired()
}

// OpponentTeamID returns the registered opponent's team id, if any.
func (m Match) OpponentTeamID() string {
	if opp, ok := m.Opponent.(RegisteredOpponent); ok {
		return opp.TeamID
	}
	return ""
}

func (m Match) GuestTeamID() string {
	if opp, ok := m.Opponent.(GuestOpponent); ok {
		return opp.GuestTeamID
	}
	return ""
}

func (m Match) Involves(teamID string) bool {
	return teamID != "" && (m.TeamID == teamID || m.OpponentTeamID() == teamID)
}

// HomeForTeam reports whether teamID played on the home side.
func (m Match) HomeForTeam(teamID string) bool {
	if m.TeamID == teamID {
		return m.IsHome
	}
	return !m.IsHome
}

// ScoresFor returns goals scored and conceded by teamID.
func (m Match) ScoresFor(teamID string) (int, int) {
	if m.HomeForTeam(teamID) {
		return m.HomeScore, m.AwayScore
	}
	return m.AwayScore, m.HomeScore
}

func (m Match) ResultFor(teamID string) Result {
	scored, conceded := m.ScoresFor(teamID)
	switch {
	case scored > conceded:
		return ResultWin
	case scored < conceded:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// GoalDelta is the one-goal score change goal makes to this match.
func (m Match) GoalDelta(goal Goal) Score {
	if goal.ScoringTeamID == m.TeamID {
		return m.OrientScore(m.TeamID, 1, 0)
	}
	return m.OrientScore(m.TeamID, 0, 1)
}

// OrientScore builds a Score in this match's orientation from teamID's perspective.
func (m Match) OrientScore(teamID string, scored, conceded int) Score {
	if m.HomeForTeam(teamID) {
		return Score{Home: scored, Away: conceded}
	}
	return Score{Home: conceded, Away: scored}
}

type Record struct {
	ID          string
	MatchID     string
	MemberID    string
	Goals       int
	Assists     int
	MOM         int
	CleanSheets int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Record) Add(other Record) Record {
	r.Goals += other.Goals
	r.Assists += other.Assists
	r.MOM += other.MOM
	r.CleanSheets += other.CleanSheets
	return r
}

type GoalType string

const (
	GoalTypeNormal   GoalType = "normal"
	GoalTypePenalty  GoalType = "penalty"
	GoalTypeFreeKick GoalType = "free_kick"
	GoalTypeHeader   GoalType = "header"
	GoalTypeOwnGoal  GoalType = "own_goal"
)

func (t GoalType) Valid() bool {
	switch t {
	case GoalTypeNormal, GoalTypePenalty, GoalTypeFreeKick, GoalTypeHeader, GoalTypeOwnGoal:
		return true
	default:
		return false
	}
}

// Goal is a scoring event. ScoringTeamID is the team credited with the goal;
// it is empty when the goal belongs to an unregistered opponent.
type Goal struct {
	ID               string
	MatchID          string
	ScoringTeamID    string
	ScorerMemberID   string
	OpponentPlayerID string
	AssistMemberID   string
	Type             GoalType
	Quarter          int
	Minute           int
	CreatedAt        time.Time
}

// CountsForScorer reports whether the scorer's record gets the goal.
func (g Goal) CountsForScorer() bool {
	return g.ScorerMemberID != "" && g.Type != GoalTypeOwnGoal
}

func (g Goal) IsMemberGoal() bool {
	return g.ScorerMemberID != ""
}

type AttendanceStatus string

const (
	AttendanceAttending AttendanceStatus = "attending"
	AttendanceAbsent    AttendanceStatus = "absent"
	AttendanceMaybe     AttendanceStatus = "maybe"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceAttending, AttendanceAbsent, AttendanceMaybe:
		return true
	default:
		return false
	}
}

type Attendance struct {
	MatchID   string
	MemberID  string
	Status    AttendanceStatus
	UpdatedAt time.Time
}

type OpponentPlayer struct {
	ID        string
	MatchID   string
	Name      string
	CreatedAt time.Time
}
