package merge

import (
	"sort"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
)

// Candidate is one proposed mapping between the requester's and the target's
// records of the same real-world match. Either side may be missing.
type Candidate struct {
	RequesterMatch  *match.Match
	TargetMatch     *match.Match
	ConflictType    ConflictType
	SuggestedAction Action
	// Scores are in the requester match orientation when it exists, else the target's.
	RequesterScore *match.Score
	TargetScore    *match.Score
}

// PairMatches pairs matches played on the same calendar day, preferring
// complementary venue sides, and classifies every pair by its recorded scores.
func PairMatches(requesterTeamID string, requester []match.Match, targetTeamID string, target []match.Match) []Candidate {
	requester = sortedByDate(requester)
	target = sortedByDate(target)

	used := make([]bool, len(target))
	out := make([]Candidate, 0, len(requester)+len(target))
	for i := range requester {
		req := requester[i]
		idx := pickPartner(req, target, used)
		if idx < 0 {
			score := req.Score()
			out = append(out, Candidate{
				RequesterMatch:  &req,
				ConflictType:    ConflictNone,
				SuggestedAction: ActionCreateNew,
				RequesterScore:  &score,
			})
			continue
		}

		used[idx] = true
		tgt := target[idx]
		out = append(out, ClassifyPair(requesterTeamID, req, targetTeamID, tgt))
	}

	for i := range target {
		if used[i] {
			continue
		}
		tgt := target[i]
		score := tgt.Score()
		out = append(out, Candidate{
			TargetMatch:     &tgt,
			ConflictType:    ConflictNone,
			SuggestedAction: ActionCreateNew,
			TargetScore:     &score,
		})
	}

	return out
}

// ClassifyPair compares what both teams recorded for the same event.
func ClassifyPair(requesterTeamID string, req match.Match, targetTeamID string, tgt match.Match) Candidate {
	reqScore := req.Score()
	targetFor, targetAgainst := tgt.ScoresFor(targetTeamID)
	// From the requester's perspective the target's "against" is the requester's goals.
	targetScore := req.OrientScore(requesterTeamID, targetAgainst, targetFor)

	candidate := Candidate{
		RequesterMatch: &req,
		TargetMatch:    &tgt,
		RequesterScore: &reqScore,
		TargetScore:    &targetScore,
	}
	if reqScore == targetScore {
		candidate.ConflictType = ConflictScoreMatch
		candidate.SuggestedAction = ActionLinkExisting
	} else {
		candidate.ConflictType = ConflictScoreMismatch
		candidate.SuggestedAction = ActionDispute
	}
	return candidate
}

func pickPartner(req match.Match, target []match.Match, used []bool) int {
	day := dayKey(req)
	sameSide := -1
	for i, tgt := range target {
		if used[i] || dayKey(tgt) != day {
			continue
		}
		if tgt.IsHome != req.IsHome {
			return i
		}
		if sameSide < 0 {
			sameSide = i
		}
	}
	return sameSide
}

func dayKey(m match.Match) string {
	return m.MatchDate.UTC().Format("2006-01-02")
}

func sortedByDate(items []match.Match) []match.Match {
	out := append([]match.Match(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MatchDate.Equal(out[j].MatchDate) {
			return out[i].MatchDate.Before(out[j].MatchDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
