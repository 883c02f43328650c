package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	"github.com/riskibarqy/teamsheet/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
)

type sequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

// sequenceCodeGenerator hands out distinct codes built from the public alphabet.
type sequenceCodeGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceCodeGenerator) NewCode(length int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++

	n := g.next
	out := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		out[i] = idgen.CodeAlphabet[n%len(idgen.CodeAlphabet)]
		n /= len(idgen.CodeAlphabet)
	}
	return string(out), nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []notification.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, items ...notification.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, items...)
}

func (n *recordingNotifier) sent(kind notification.Type) []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]notification.Notification, 0)
	for _, item := range n.items {
		if item.Type == kind {
			out = append(out, item)
		}
	}
	return out
}

type recordingInvalidator struct {
	mu    sync.Mutex
	teams []string
}

func (r *recordingInvalidator) InvalidateTeam(_ context.Context, teamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams = append(r.teams, teamID)
}

// testEnv wires every service to one in-memory store.
type testEnv struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	userRepo *memory.UserRepository
	matches  *memory.MatchRepository
	teams    *memory.TeamRepository
	merges   *memory.MergeRepository
	notifier *recordingNotifier
	ids      *sequenceIDGenerator

	users       *UserService
	teamSvc     *TeamService
	matchSvc    *MatchService
	memberMerge *MemberMergeService
	teamMerge   *TeamMergeService
	stats       *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	matchRepo := memory.NewMatchRepository(store)
	mergeRepo := memory.NewMergeRepository(store)
	ids := &sequenceIDGenerator{prefix: "id"}
	codes := &sequenceCodeGenerator{}
	notifier := &recordingNotifier{}
	statsSvc := NewStatsService(matchRepo, teamRepo, userRepo, nil)

	return &testEnv{
		t:           t,
		ctx:         t.Context(),
		store:       store,
		userRepo:    userRepo,
		matches:     matchRepo,
		ids:         ids,
		teams:       teamRepo,
		merges:      mergeRepo,
		notifier:    notifier,
		users:       NewUserService(userRepo, codes),
		teamSvc:     NewTeamService(teamRepo, userRepo, ids, codes, notifier),
		matchSvc:    NewMatchService(matchRepo, teamRepo, ids, statsSvc),
		memberMerge: NewMemberMergeService(mergeRepo, teamRepo, userRepo, ids, notifier, statsSvc, nil),
		teamMerge:   NewTeamMergeService(mergeRepo, teamRepo, matchRepo, ids, notifier, statsSvc, nil),
		stats:       statsSvc,
	}
}

func (e *testEnv) registerUser(userID, name string) user.User {
	e.t.Helper()
	profile, err := e.users.Register(e.ctx, RegisterUserInput{
		UserID:      userID,
		Email:       userID + "@example.com",
		DisplayName: name,
	})
	if err != nil {
		e.t.Fatalf("register %s: %v", userID, err)
	}
	return profile
}

func (e *testEnv) createTeam(ownerID, name string) team.Team {
	e.t.Helper()
	item, err := e.teamSvc.CreateTeam(e.ctx, CreateTeamInput{UserID: ownerID, Name: name, Region: "Bandung"})
	if err != nil {
		e.t.Fatalf("create team %s: %v", name, err)
	}
	return item
}

func (e *testEnv) addGuest(ownerID, teamID, name string) team.Member {
	e.t.Helper()
	member, err := e.teamSvc.AddGuestMember(e.ctx, AddGuestMemberInput{UserID: ownerID, TeamID: teamID, Name: name})
	if err != nil {
		e.t.Fatalf("add guest %s: %v", name, err)
	}
	return member
}

// joinTeam makes userID an active member through the join-by-code flow.
func (e *testEnv) joinTeam(ownerID string, item team.Team, userID string) team.Member {
	e.t.Helper()
	pending, err := e.teamSvc.JoinByCode(e.ctx, userID, item.Code)
	if err != nil {
		e.t.Fatalf("join team %s: %v", item.Name, err)
	}
	member, err := e.teamSvc.ApproveMember(e.ctx, ManageMemberInput{UserID: ownerID, TeamID: item.ID, MemberID: pending.ID})
	if err != nil {
		e.t.Fatalf("approve member: %v", err)
	}
	return member
}

func (e *testEnv) guestTeam(ownerID, teamID, name string) team.GuestTeam {
	e.t.Helper()
	guest, err := e.teamSvc.CreateGuestTeam(e.ctx, CreateGuestTeamInput{UserID: ownerID, TeamID: teamID, Name: name})
	if err != nil {
		e.t.Fatalf("create guest team %s: %v", name, err)
	}
	return guest
}

// finishedMatch schedules a match, sets the score in home/away orientation and finishes it.
func (e *testEnv) finishedMatch(input ScheduleMatchInput, home, away int) match.Match {
	e.t.Helper()
	if input.MatchDate.IsZero() {
		input.MatchDate = time.Date(2026, 3, 7, 16, 0, 0, 0, time.UTC)
	}
	item, err := e.matchSvc.ScheduleMatch(e.ctx, input)
	if err != nil {
		e.t.Fatalf("schedule match: %v", err)
	}
	if _, err := e.matchSvc.UpdateScore(e.ctx, UpdateScoreInput{UserID: input.UserID, MatchID: item.ID, Home: home, Away: away}); err != nil {
		e.t.Fatalf("update score: %v", err)
	}
	item, err = e.matchSvc.FinishMatch(e.ctx, input.UserID, item.ID)
	if err != nil {
		e.t.Fatalf("finish match: %v", err)
	}
	return item
}

func (e *testEnv) setRecord(userID, matchID, memberID string, goals, assists int) {
	e.t.Helper()
	if _, err := e.matchSvc.UpsertRecord(e.ctx, UpsertRecordInput{
		UserID:   userID,
		MatchID:  matchID,
		MemberID: memberID,
		Goals:    goals,
		Assists:  assists,
	}); err != nil {
		e.t.Fatalf("upsert record: %v", err)
	}
}

func (e *testEnv) memberTotals(memberID string) (goals, assists, records int) {
	e.t.Helper()
	rows, err := e.matches.ListRecordsByMembers(e.ctx, []string{memberID})
	if err != nil {
		e.t.Fatalf("list records: %v", err)
	}
	for _, row := range rows {
		goals += row.Goals
		assists += row.Assists
	}
	return goals, assists, len(rows)
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 16, 0, 0, 0, time.UTC)
}
