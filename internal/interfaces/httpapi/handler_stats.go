package httpapi

import (
	"net/http"
)

const defaultLeaderboardLimit = 10

func (h *Handler) GetTeamSeasonSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSeasonSummary")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID := pathParam(r, "teamID")
	season, err := parseIntParam(r.PathValue("season"), "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.statsService.TeamSeasonSummary(ctx, principal.UserID, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get team season summary failed", "user_id", principal.UserID, "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamSeasonSummaryToDTO(summary))
}

func (h *Handler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboards")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID := pathParam(r, "teamID")
	season, err := parseIntParam(r.PathValue("season"), "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := parseIntParam(r.URL.Query().Get("limit"), "limit", defaultLeaderboardLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	boards, err := h.statsService.Leaderboards(ctx, principal.UserID, teamID, season, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboards failed", "user_id", principal.UserID, "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardsToDTO(boards))
}

func (h *Handler) GetGoalDistribution(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGoalDistribution")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID := pathParam(r, "teamID")
	season, err := parseIntParam(r.PathValue("season"), "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	dist, err := h.statsService.GoalDistribution(ctx, principal.UserID, teamID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get goal distribution failed", "user_id", principal.UserID, "team_id", teamID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, goalDistributionToDTO(dist))
}

func (h *Handler) GetMemberCareer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMemberCareer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	memberID := pathParam(r, "memberID")
	career, err := h.statsService.MemberCareer(ctx, principal.UserID, memberID)
	if err != nil {
		h.logger.WarnContext(ctx, "get member career failed", "user_id", principal.UserID, "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, careerToDTO(career))
}

func (h *Handler) GetMyCareer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyCareer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	career, err := h.statsService.UserCareer(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get my career failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, careerToDTO(career))
}
