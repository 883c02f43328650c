package stats

import (
	"sort"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
)

const formLength = 5

// SummarizeTeamSeason folds finished matches of teamID in season.
func SummarizeTeamSeason(teamID string, season int, matches []match.Match) TeamSeasonSummary {
	summary := TeamSeasonSummary{TeamID: teamID, Season: season}
	results := make([]match.Result, 0, len(matches))
	for _, m := range OrderedFinished(matches, teamID, season) {
		scored, conceded := m.ScoresFor(teamID)
		summary.Played++
		summary.GoalsFor += scored
		summary.GoalsAgainst += conceded
		if conceded == 0 {
			summary.CleanSheets++
		}

		result := m.ResultFor(teamID)
		switch result {
		case match.ResultWin:
			summary.Wins++
		case match.ResultDraw:
			summary.Draws++
		default:
			summary.Losses++
		}
		results = append(results, result)
	}

	summary.LongestWinStreak = LongestWinStreak(results)
	if len(results) > formLength {
		summary.Form = append([]match.Result(nil), results[len(results)-formLength:]...)
	} else {
		summary.Form = results
	}
	return summary
}

// OrderedFinished keeps finished, non-retired matches involving teamID, oldest first.
// A season of zero keeps every season.
func OrderedFinished(matches []match.Match, teamID string, season int) []match.Match {
	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		if !m.IsFinished() || !m.Involves(teamID) {
			continue
		}
		if season != 0 && m.Season() != season {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func LongestWinStreak(results []match.Result) int {
	longest, current := 0, 0
	for _, r := range results {
		if r != match.ResultWin {
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
	}
	return longest
}

// TotalsByMember sums records whose match is present in finished.
func TotalsByMember(records []match.Record, finished map[string]match.Match) []PlayerTotals {
	byMember := make(map[string]PlayerTotals)
	for _, rec := range records {
		if _, ok := finished[rec.MatchID]; !ok {
			continue
		}
		totals := byMember[rec.MemberID]
		totals.MemberID = rec.MemberID
		byMember[rec.MemberID] = totals.add(rec)
	}

	out := make([]PlayerTotals, 0, len(byMember))
	for _, totals := range byMember {
		out = append(out, totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out
}

// BuildLeaderboards ranks members per category, dropping zero values.
func BuildLeaderboards(season int, totals []PlayerTotals, names map[string]string, limit int) Leaderboards {
	return Leaderboards{
		Season:      season,
		Scorers:     rank(totals, names, limit, func(t PlayerTotals) int { return t.Goals }),
		Assisters:   rank(totals, names, limit, func(t PlayerTotals) int { return t.Assists }),
		MOM:         rank(totals, names, limit, func(t PlayerTotals) int { return t.MOM }),
		Appearances: rank(totals, names, limit, func(t PlayerTotals) int { return t.Appearances }),
	}
}

func rank(totals []PlayerTotals, names map[string]string, limit int, value func(PlayerTotals) int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(totals))
	for _, t := range totals {
		v := value(t)
		if v <= 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{MemberID: t.MemberID, Name: names[t.MemberID], Value: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].MemberID < entries[j].MemberID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// DistributeGoals counts goals credited to teamID in finished matches.
func DistributeGoals(season int, teamID string, goals []match.Goal, finished map[string]match.Match) GoalDistribution {
	out := GoalDistribution{
		Season:    season,
		ByType:    make(map[match.GoalType]int),
		ByQuarter: make(map[int]int),
	}
	for _, g := range goals {
		if _, ok := finished[g.MatchID]; !ok {
			continue
		}
		if g.ScoringTeamID != teamID {
			continue
		}
		out.Total++
		goalType := g.Type
		if goalType == "" {
			goalType = match.GoalTypeNormal
		}
		out.ByType[goalType]++
		if g.Quarter > 0 {
			out.ByQuarter[g.Quarter]++
		}
	}
	return out
}

// BuildCareer groups records by the season of their finished match.
func BuildCareer(records []match.Record, finished map[string]match.Match) Career {
	bySeason := make(map[int]PlayerTotals)
	career := Career{}
	for _, rec := range records {
		m, ok := finished[rec.MatchID]
		if !ok {
			continue
		}
		season := m.Season()
		bySeason[season] = bySeason[season].add(rec)
		career.Total = career.Total.add(rec)
	}

	seasons := make([]int, 0, len(bySeason))
	for season := range bySeason {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	for _, season := range seasons {
		career.Seasons = append(career.Seasons, SeasonTotals{Season: season, PlayerTotals: bySeason[season]})
	}
	return career
}

// IndexFinished maps finished, non-retired matches by id.
func IndexFinished(matches []match.Match, season int) map[string]match.Match {
	out := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		if !m.IsFinished() {
			continue
		}
		if season != 0 && m.Season() != season {
			continue
		}
		out[m.ID] = m
	}
	return out
}
