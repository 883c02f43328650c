package stats

import "github.com/riskibarqy/teamsheet/internal/domain/match"

type TeamSeasonSummary struct {
	TeamID           string
	Season           int
	Played           int
	Wins             int
	Draws            int
	Losses           int
	GoalsFor         int
	GoalsAgainst     int
	CleanSheets      int
	LongestWinStreak int
	Form             []match.Result
}

type PlayerTotals struct {
	MemberID    string
	Appearances int
	Goals       int
	Assists     int
	MOM         int
	CleanSheets int
}

func (t PlayerTotals) add(rec match.Record) PlayerTotals {
	t.Appearances++
	t.Goals += rec.Goals
	t.Assists += rec.Assists
	t.MOM += rec.MOM
	t.CleanSheets += rec.CleanSheets
	return t
}

type LeaderboardEntry struct {
	MemberID string
	Name     string
	Value    int
}

type Leaderboards struct {
	Season      int
	Scorers     []LeaderboardEntry
	Assisters   []LeaderboardEntry
	MOM         []LeaderboardEntry
	Appearances []LeaderboardEntry
}

type GoalDistribution struct {
	Season    int
	Total     int
	ByType    map[match.GoalType]int
	ByQuarter map[int]int
}

type SeasonTotals struct {
	Season int
	PlayerTotals
}

type Career struct {
	Seasons []SeasonTotals
	Total   PlayerTotals
}
