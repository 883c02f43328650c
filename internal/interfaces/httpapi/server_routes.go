package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func authorized(verifier TokenVerifier, fn http.HandlerFunc) http.Handler {
	return RequireAuth(verifier, fn)
}

func registerUserRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/users/me", authorized(verifier, handler.RegisterMe))
	mux.Handle("GET /v1/users/me", authorized(verifier, handler.GetMe))
	mux.Handle("GET /v1/users/me/career", authorized(verifier, handler.GetMyCareer))
	mux.Handle("GET /v1/users/code/{code}", authorized(verifier, handler.GetUserByCode))
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/teams", authorized(verifier, handler.CreateTeam))
	mux.Handle("GET /v1/teams", authorized(verifier, handler.ListMyTeams))
	mux.Handle("POST /v1/teams/join", authorized(verifier, handler.JoinTeam))
	mux.Handle("GET /v1/teams/lookup", authorized(verifier, handler.GetTeamByCode))
	mux.Handle("GET /v1/teams/{teamID}", authorized(verifier, handler.GetTeam))
	mux.Handle("GET /v1/teams/{teamID}/members", authorized(verifier, handler.ListMembers))
	mux.Handle("POST /v1/teams/{teamID}/members/{memberID}/approve", authorized(verifier, handler.ApproveMember))
	mux.Handle("POST /v1/teams/{teamID}/members/{memberID}/reject", authorized(verifier, handler.RejectMember))
	mux.Handle("PUT /v1/teams/{teamID}/members/{memberID}/role", authorized(verifier, handler.ChangeMemberRole))
	mux.Handle("POST /v1/teams/{teamID}/guests", authorized(verifier, handler.AddGuestMember))
	mux.Handle("POST /v1/teams/{teamID}/guest-teams", authorized(verifier, handler.CreateGuestTeam))
	mux.Handle("GET /v1/teams/{teamID}/guest-teams", authorized(verifier, handler.ListGuestTeams))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/teams/{teamID}/matches", authorized(verifier, handler.ScheduleMatch))
	mux.Handle("GET /v1/teams/{teamID}/matches", authorized(verifier, handler.ListTeamMatches))
	mux.Handle("GET /v1/matches/{matchID}", authorized(verifier, handler.GetMatch))
	mux.Handle("PUT /v1/matches/{matchID}/score", authorized(verifier, handler.UpdateMatchScore))
	mux.Handle("POST /v1/matches/{matchID}/finish", authorized(verifier, handler.FinishMatch))
	mux.Handle("POST /v1/matches/{matchID}/cancel", authorized(verifier, handler.CancelMatch))
	mux.Handle("POST /v1/matches/{matchID}/goals", authorized(verifier, handler.RecordGoal))
	mux.Handle("DELETE /v1/matches/{matchID}/goals/{goalID}", authorized(verifier, handler.DeleteGoal))
	mux.Handle("PUT /v1/matches/{matchID}/records", authorized(verifier, handler.UpsertRecord))
	mux.Handle("PUT /v1/matches/{matchID}/attendance", authorized(verifier, handler.SetAttendance))
	mux.Handle("GET /v1/matches/{matchID}/attendance", authorized(verifier, handler.ListAttendance))
	mux.Handle("POST /v1/matches/{matchID}/opponent-players", authorized(verifier, handler.AddOpponentPlayer))
}

func registerRecordMergeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/teams/{teamID}/record-merges", authorized(verifier, handler.CreateRecordMerge))
	mux.Handle("GET /v1/teams/{teamID}/record-merges", authorized(verifier, handler.ListTeamRecordMerges))
	mux.Handle("POST /v1/teams/{teamID}/record-merges/direct", authorized(verifier, handler.DirectRecordMerge))
	mux.Handle("GET /v1/record-merges/incoming", authorized(verifier, handler.ListIncomingRecordMerges))
	mux.Handle("POST /v1/record-merges/{requestID}/accept", authorized(verifier, handler.AcceptRecordMerge))
	mux.Handle("POST /v1/record-merges/{requestID}/reject", authorized(verifier, handler.RejectRecordMerge))
	mux.Handle("POST /v1/record-merges/{requestID}/cancel", authorized(verifier, handler.CancelRecordMerge))
}

func registerTeamMergeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/team-merges/targets", authorized(verifier, handler.SearchMergeTarget))
	mux.Handle("POST /v1/teams/{teamID}/team-merges/search", authorized(verifier, handler.FindRelatedMatches))
	mux.Handle("POST /v1/teams/{teamID}/team-merges", authorized(verifier, handler.CreateTeamMerge))
	mux.Handle("GET /v1/teams/{teamID}/team-merges", authorized(verifier, handler.ListTeamMerges))
	mux.Handle("GET /v1/team-merges/{requestID}", authorized(verifier, handler.GetTeamMerge))
	mux.Handle("POST /v1/team-merges/{requestID}/approve", authorized(verifier, handler.ApproveTeamMerge))
	mux.Handle("POST /v1/team-merges/{requestID}/reject", authorized(verifier, handler.RejectTeamMerge))
	mux.Handle("POST /v1/team-merges/{requestID}/cancel", authorized(verifier, handler.CancelTeamMerge))
	mux.Handle("POST /v1/team-merge-disputes/{disputeID}/scores", authorized(verifier, handler.SubmitDisputeScore))
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/{teamID}/stats/seasons/{season}", authorized(verifier, handler.GetTeamSeasonSummary))
	mux.Handle("GET /v1/teams/{teamID}/stats/seasons/{season}/leaderboards", authorized(verifier, handler.GetLeaderboards))
	mux.Handle("GET /v1/teams/{teamID}/stats/seasons/{season}/goal-distribution", authorized(verifier, handler.GetGoalDistribution))
	mux.Handle("GET /v1/members/{memberID}/career", authorized(verifier, handler.GetMemberCareer))
}

func registerNotificationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/notifications", authorized(verifier, handler.ListMyNotifications))
	mux.Handle("POST /v1/notifications/{notificationID}/read", authorized(verifier, handler.MarkNotificationRead))
}
