package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/teamsheet/internal/platform/logging"
)

func TestShouldTraceRequest(t *testing.T) {
	for _, path := range []string{"/healthz", "/livez", "/readyz", "/metrics", " /HEALTHZ "} {
		assert.False(t, shouldTraceRequest(path), path)
	}
	for _, path := range []string{"/v1/teams", "/v1/team-merges/req-1", "/docs"} {
		assert.True(t, shouldTraceRequest(path), path)
	}
}

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	assert.True(t, shouldCreateHTTPAPISpan("httpapi.Handler.SubmitDisputeScore"))
	assert.True(t, shouldCreateHTTPAPISpan("httpapi.RequireAuth"))
	assert.False(t, shouldCreateHTTPAPISpan("httpapi.RequestLogging"))
	assert.False(t, shouldCreateHTTPAPISpan("usecase.TeamService.CreateTeam"))
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "configured origin", allowed: []string{"https://app.teamsheet.example"}, method: http.MethodGet, origin: "https://app.teamsheet.example", wantStatus: http.StatusOK, wantOrigin: "https://app.teamsheet.example"},
		{name: "unknown origin", allowed: []string{"https://app.teamsheet.example"}, method: http.MethodGet, origin: "https://evil.example", wantStatus: http.StatusOK},
		{name: "wildcard preflight", allowed: []string{" * "}, method: http.MethodOptions, origin: "https://app.teamsheet.example", wantStatus: http.StatusNoContent, wantOrigin: "*"},
		{name: "options without origin reaches handler", allowed: []string{"*"}, method: http.MethodOptions, wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/teams", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tc.allowed, ok).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("nil map write") })
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "nil map write")
	assert.Equal(t, "INTERNAL", decodeError(t, rec).Status)
}

func TestStatusRecorder_CountsBytes(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusAccepted)
	_, err := rec.Write([]byte("queued"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, rec.status)
	assert.Equal(t, 6, rec.bytes)
}
