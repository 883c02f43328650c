package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/teamsheet/internal/domain/user"
	"github.com/riskibarqy/teamsheet/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
	"github.com/riskibarqy/teamsheet/internal/platform/logging"
	"github.com/riskibarqy/teamsheet/internal/platform/metrics"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

type staticVerifier map[string]user.Principal

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type testServer struct {
	t             *testing.T
	router        http.Handler
	notifications *usecase.NotificationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	teamRepo := memory.NewTeamRepository(store)
	matchRepo := memory.NewMatchRepository(store)
	mergeRepo := memory.NewMergeRepository(store)
	ids := idgen.NewUUIDGenerator()
	codes := idgen.NewRandomCodeGenerator()
	logger := logging.NewNop()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewService(registry)

	notifications, err := usecase.NewNotificationService(memory.NewNotificationRepository(store), ids, nil, recorder, logger, 2)
	require.NoError(t, err)
	t.Cleanup(notifications.Close)

	statsSvc := usecase.NewStatsService(matchRepo, teamRepo, userRepo, nil)
	handler := NewHandler(
		usecase.NewUserService(userRepo, codes),
		usecase.NewTeamService(teamRepo, userRepo, ids, codes, notifications),
		usecase.NewMatchService(matchRepo, teamRepo, ids, statsSvc),
		usecase.NewMemberMergeService(mergeRepo, teamRepo, userRepo, ids, notifications, statsSvc, recorder),
		usecase.NewTeamMergeService(mergeRepo, teamRepo, matchRepo, ids, notifications, statsSvc, recorder),
		statsSvc,
		notifications,
		logger,
	)

	verifier := staticVerifier{
		"tok-owner": {UserID: "u-owner", Email: "owner@example.com"},
		"tok-ayu":   {UserID: "u-ayu", Email: "ayu@example.com"},
	}
	router := NewRouter(handler, verifier, logger, RouterOptions{
		SwaggerEnabled: true,
		MetricsHandler: metrics.NewMetricsHandler(registry),
		Recorder:       recorder,
	})
	return &testServer{t: t, router: router, notifications: notifications}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.Nil(t, out.Error, rec.Body.String())
	require.Equal(t, googleAPIVersion, out.APIVersion)
	return out.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) googleErrorBody {
	t.Helper()

	var out envelope[any]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.NotNil(t, out.Error, rec.Body.String())
	return *out.Error
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/v1/teams", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Status)

	rec = srv.do(http.MethodGet, "/v1/teams", "tok-unknown", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SystemRoutes(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeData[map[string]string](t, rec))

	rec = srv.do(http.MethodGet, "/openapi.yaml", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "title: Teamsheet API")

	rec = srv.do(http.MethodGet, "/docs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "url: '/openapi.yaml'")

	rec = srv.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `teamsheet_http_requests_total{method="GET",route="GET /healthz",status="200"} 1`)
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/v1/users/me", "tok-owner", nil).Code)

	rec := srv.do(http.MethodPost, "/v1/teams", "tok-owner", map[string]any{"name": "Alpha", "colour": "red"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, rec).Status)

	rec = srv.do(http.MethodPost, "/v1/teams", "tok-owner", map[string]any{"region": "Bandung"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_GuestRecordMergeFlow(t *testing.T) {
	srv := newTestServer(t)

	owner := decodeData[userDTO](t, srv.do(http.MethodPost, "/v1/users/me", "tok-owner", registerUserRequest{DisplayName: "Owner"}))
	ayu := decodeData[userDTO](t, srv.do(http.MethodPost, "/v1/users/me", "tok-ayu", registerUserRequest{DisplayName: "Ayu"}))
	require.Equal(t, "u-owner", owner.ID)
	require.Len(t, ayu.Code, user.CodeLength)

	rec := srv.do(http.MethodPost, "/v1/teams", "tok-owner", createTeamRequest{Name: "Alpha United", Region: "Bandung"})
	require.Equal(t, http.StatusCreated, rec.Code)
	team := decodeData[teamDTO](t, rec)

	found := decodeData[teamDTO](t, srv.do(http.MethodGet, "/v1/teams/lookup?code="+strings.ToLower(team.Code), "tok-ayu", nil))
	require.Equal(t, team.ID, found.ID)

	rec = srv.do(http.MethodPost, "/v1/teams/"+team.ID+"/guests", "tok-owner", addGuestMemberRequest{Name: "Budi"})
	require.Equal(t, http.StatusCreated, rec.Code)
	guest := decodeData[memberDTO](t, rec)
	require.True(t, guest.IsGuest)

	rec = srv.do(http.MethodPost, "/v1/teams/"+team.ID+"/matches", "tok-owner", scheduleMatchRequest{
		OpponentName: "Garuda",
		MatchDate:    "2026-03-07T16:00:00Z",
		IsHome:       true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	played := decodeData[matchDTO](t, rec)
	require.Equal(t, "named", played.Opponent.Kind)

	home, away := 3, 1
	require.Equal(t, http.StatusOK, srv.do(http.MethodPut, "/v1/matches/"+played.ID+"/score", "tok-owner", scoreRequest{Home: &home, Away: &away}).Code)
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/v1/matches/"+played.ID+"/finish", "tok-owner", nil).Code)
	rec = srv.do(http.MethodPut, "/v1/matches/"+played.ID+"/records", "tok-owner", upsertRecordRequest{MemberID: guest.ID, Goals: 2, Assists: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(http.MethodPost, "/v1/teams/"+team.ID+"/record-merges", "tok-owner", createRecordMergeRequest{
		GuestMemberID:  guest.ID,
		TargetUserCode: ayu.Code,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	request := decodeData[recordMergeRequestDTO](t, rec)
	require.Equal(t, "pending", request.Status)

	incoming := decodeData[[]recordMergeRequestDTO](t, srv.do(http.MethodGet, "/v1/record-merges/incoming", "tok-ayu", nil))
	require.Len(t, incoming, 1)
	require.Equal(t, request.ID, incoming[0].ID)

	srv.notifications.Wait()
	inbox := decodeData[[]notificationDTO](t, srv.do(http.MethodGet, "/v1/notifications", "tok-ayu", nil))
	require.NotEmpty(t, inbox)
	require.Equal(t, http.StatusOK, srv.do(http.MethodPost, "/v1/notifications/"+inbox[0].ID+"/read", "tok-ayu", nil).Code)
	require.Equal(t, http.StatusNotFound, srv.do(http.MethodPost, "/v1/notifications/"+inbox[0].ID+"/read", "tok-owner", nil).Code)

	rec = srv.do(http.MethodPost, "/v1/record-merges/"+request.ID+"/accept", "tok-ayu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	outcome := decodeData[memberMergeOutcomeDTO](t, rec)
	assert.Equal(t, guest.ID, outcome.GuestMemberID)
	assert.Equal(t, 1, outcome.Result.RecordsMoved)
	require.NotNil(t, outcome.Request)
	assert.Equal(t, "accepted", outcome.Request.Status)

	rec = srv.do(http.MethodPost, "/v1/record-merges/"+request.ID+"/accept", "tok-ayu", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	career := decodeData[careerDTO](t, srv.do(http.MethodGet, "/v1/users/me/career", "tok-ayu", nil))
	assert.Equal(t, playerTotalsDTO{Appearances: 1, Goals: 2, Assists: 1}, career.Total)

	summary := decodeData[teamSeasonSummaryDTO](t, srv.do(http.MethodGet, "/v1/teams/"+team.ID+"/stats/seasons/2026", "tok-ayu", nil))
	assert.Equal(t, 1, summary.Played)
	assert.Equal(t, 1, summary.Wins)
	assert.Equal(t, []string{"W"}, summary.Form)

	rec = srv.do(http.MethodGet, "/v1/teams/"+team.ID+"/stats/seasons/abc", "tok-ayu", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
