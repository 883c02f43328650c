package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/stats"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	"github.com/riskibarqy/teamsheet/internal/platform/cache"
)

const (
	statsCachePrefix   = "stats"
	defaultLeaderLimit = 10
	maxLeaderLimit     = 50
)

// teamSeasonData is everything the team folds read for one season.
type teamSeasonData struct {
	matches  []match.Match
	finished map[string]match.Match
	members  []team.Member
	records  []match.Record
}

type StatsService struct {
	matchRepo match.Repository
	teamRepo  team.Repository
	userRepo  user.Repository
	cache     *cache.Store
	now       func() time.Time
}

// NewStatsService caches per team; a nil store disables caching.
func NewStatsService(matchRepo match.Repository, teamRepo team.Repository, userRepo user.Repository, store *cache.Store) *StatsService {
	return &StatsService{
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		cache:     store,
		now:       time.Now,
	}
}

func (s *StatsService) TeamSeasonSummary(ctx context.Context, userID, teamID string, season int) (stats.TeamSeasonSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.TeamSeasonSummary")
	defer span.End()

	item, season, err := s.authorizeTeam(ctx, userID, teamID, season)
	if err != nil {
		return stats.TeamSeasonSummary{}, err
	}

	key := teamKey(item.ID, "summary", strconv.Itoa(season))
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) (stats.TeamSeasonSummary, error) {
		matches, err := s.matchRepo.ListByTeam(ctx, item.ID)
		if err != nil {
			return stats.TeamSeasonSummary{}, fmt.Errorf("list matches by team: %w", err)
		}
		return stats.SummarizeTeamSeason(item.ID, season, matches), nil
	})
}

func (s *StatsService) Leaderboards(ctx context.Context, userID, teamID string, season, limit int) (stats.Leaderboards, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.Leaderboards")
	defer span.End()

	if limit <= 0 {
		limit = defaultLeaderLimit
	}
	if limit > maxLeaderLimit {
		limit = maxLeaderLimit
	}
	item, season, err := s.authorizeTeam(ctx, userID, teamID, season)
	if err != nil {
		return stats.Leaderboards{}, err
	}

	key := teamKey(item.ID, "leaderboards", strconv.Itoa(season), strconv.Itoa(limit))
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) (stats.Leaderboards, error) {
		data, err := s.loadTeamSeason(ctx, item.ID, season)
		if err != nil {
			return stats.Leaderboards{}, err
		}
		names, err := memberNames(ctx, s.userRepo, data.members)
		if err != nil {
			return stats.Leaderboards{}, err
		}
		totals := stats.TotalsByMember(data.records, data.finished)
		return stats.BuildLeaderboards(season, totals, names, limit), nil
	})
}

func (s *StatsService) GoalDistribution(ctx context.Context, userID, teamID string, season int) (stats.GoalDistribution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.GoalDistribution")
	defer span.End()

	item, season, err := s.authorizeTeam(ctx, userID, teamID, season)
	if err != nil {
		return stats.GoalDistribution{}, err
	}

	key := teamKey(item.ID, "goals", strconv.Itoa(season))
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) (stats.GoalDistribution, error) {
		matches, err := s.matchRepo.ListByTeam(ctx, item.ID)
		if err != nil {
			return stats.GoalDistribution{}, fmt.Errorf("list matches by team: %w", err)
		}
		finished := stats.IndexFinished(matches, season)
		goals, err := s.matchRepo.ListGoalsByMatches(ctx, mapKeys(finished))
		if err != nil {
			return stats.GoalDistribution{}, fmt.Errorf("list goals by matches: %w", err)
		}
		return stats.DistributeGoals(season, item.ID, goals, finished), nil
	})
}

// MemberCareer is visible to active members of the member's team.
func (s *StatsService) MemberCareer(ctx context.Context, userID, memberID string) (stats.Career, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.MemberCareer")
	defer span.End()

	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return stats.Career{}, fmt.Errorf("%w: member id is required", ErrInvalidInput)
	}
	member, exists, err := s.teamRepo.GetMember(ctx, memberID)
	if err != nil {
		return stats.Career{}, fmt.Errorf("get team member: %w", err)
	}
	if !exists {
		return stats.Career{}, fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}
	if _, err := requireMember(ctx, s.teamRepo, member.TeamID, strings.TrimSpace(userID)); err != nil {
		return stats.Career{}, err
	}

	key := teamKey(member.TeamID, "career", member.ID)
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) (stats.Career, error) {
		return s.career(ctx, []string{member.ID})
	})
}

// UserCareer folds every membership the caller holds, across teams.
func (s *StatsService) UserCareer(ctx context.Context, userID string) (stats.Career, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.UserCareer")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return stats.Career{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	members, err := s.teamRepo.ListMembersByUser(ctx, userID)
	if err != nil {
		return stats.Career{}, fmt.Errorf("list memberships: %w", err)
	}
	memberIDs := make([]string, 0, len(members))
	for _, member := range members {
		memberIDs = append(memberIDs, member.ID)
	}
	return s.career(ctx, memberIDs)
}

// InvalidateTeam drops every cached aggregate for teamID.
func (s *StatsService) InvalidateTeam(ctx context.Context, teamID string) {
	if s.cache == nil || teamID == "" {
		return
	}
	s.cache.DeletePrefix(ctx, teamKey(teamID)+":")
}

func (s *StatsService) career(ctx context.Context, memberIDs []string) (stats.Career, error) {
	if len(memberIDs) == 0 {
		return stats.Career{}, nil
	}

	records, err := s.matchRepo.ListRecordsByMembers(ctx, memberIDs)
	if err != nil {
		return stats.Career{}, fmt.Errorf("list records by members: %w", err)
	}
	matchIDs := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.MatchID]; ok {
			continue
		}
		seen[rec.MatchID] = struct{}{}
		matchIDs = append(matchIDs, rec.MatchID)
	}
	matches, err := s.matchRepo.ListByIDs(ctx, matchIDs)
	if err != nil {
		return stats.Career{}, fmt.Errorf("list matches by ids: %w", err)
	}
	return stats.BuildCareer(records, stats.IndexFinished(matches, 0)), nil
}

// loadTeamSeason fetches matches and roster concurrently, then the roster's records.
func (s *StatsService) loadTeamSeason(ctx context.Context, teamID string, season int) (teamSeasonData, error) {
	var data teamSeasonData
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		matches, err := s.matchRepo.ListByTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("list matches by team: %w", err)
		}
		data.matches = matches
		return nil
	})
	p.Go(func(ctx context.Context) error {
		members, err := s.teamRepo.ListMembers(ctx, teamID)
		if err != nil {
			return fmt.Errorf("list team members: %w", err)
		}
		data.members = members
		return nil
	})
	if err := p.Wait(); err != nil {
		return teamSeasonData{}, err
	}

	data.finished = stats.IndexFinished(data.matches, season)
	memberIDs := make([]string, 0, len(data.members))
	for _, member := range data.members {
		memberIDs = append(memberIDs, member.ID)
	}
	if len(memberIDs) == 0 {
		return data, nil
	}
	records, err := s.matchRepo.ListRecordsByMembers(ctx, memberIDs)
	if err != nil {
		return teamSeasonData{}, fmt.Errorf("list records by members: %w", err)
	}
	data.records = records
	return data, nil
}

func (s *StatsService) authorizeTeam(ctx context.Context, userID, teamID string, season int) (team.Team, int, error) {
	if season == 0 {
		season = s.now().UTC().Year()
	}
	if season < 1900 || season > 9999 {
		return team.Team{}, 0, fmt.Errorf("%w: invalid season %d", ErrInvalidInput, season)
	}
	item, err := loadTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return team.Team{}, 0, err
	}
	if _, err := requireMember(ctx, s.teamRepo, item.ID, strings.TrimSpace(userID)); err != nil {
		return team.Team{}, 0, err
	}
	return item, season, nil
}

func teamKey(teamID string, parts ...string) string {
	return cache.Key(append([]string{statsCachePrefix, teamID}, parts...)...)
}

func mapKeys(items map[string]match.Match) []string {
	out := make([]string, 0, len(items))
	for id := range items {
		out = append(out, id)
	}
	return out
}
