package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

func (h *Handler) ScheduleMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req scheduleMatchRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	matchDate, err := time.Parse(time.RFC3339, strings.TrimSpace(req.MatchDate))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: matchDate must be RFC3339", usecase.ErrInvalidInput))
		return
	}

	teamID := pathParam(r, "teamID")
	item, err := h.matchService.ScheduleMatch(ctx, usecase.ScheduleMatchInput{
		UserID:         principal.UserID,
		TeamID:         teamID,
		OpponentTeamID: req.OpponentTeamID,
		GuestTeamID:    req.GuestTeamID,
		OpponentName:   req.OpponentName,
		MatchDate:      matchDate,
		IsHome:         req.IsHome,
		Venue:          req.Venue,
		Quarters:       req.Quarters,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "schedule match failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(item))
}

func (h *Handler) ListTeamMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamMatches")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	matches, err := h.matchService.ListTeamMatches(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team matches failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, item := range matches {
		items = append(items, matchToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	details, err := h.matchService.GetMatch(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailsToDTO(details))
}

func (h *Handler) UpdateMatchScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchScore")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req scoreRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	item, err := h.matchService.UpdateScore(ctx, usecase.UpdateScoreInput{
		UserID:  principal.UserID,
		MatchID: matchID,
		Home:    *req.Home,
		Away:    *req.Away,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match score failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	item, err := h.matchService.FinishMatch(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "finish match failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	item, err := h.matchService.CancelMatch(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "cancel match failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) RecordGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordGoal")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordGoalRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	goalType := match.GoalType(req.Type)
	if goalType == "" {
		goalType = match.GoalTypeNormal
	}

	matchID := pathParam(r, "matchID")
	goal, updated, err := h.matchService.RecordGoal(ctx, usecase.RecordGoalInput{
		UserID:           principal.UserID,
		MatchID:          matchID,
		ScorerMemberID:   req.ScorerMemberID,
		OpponentPlayerID: req.OpponentPlayerID,
		AssistMemberID:   req.AssistMemberID,
		ForOpponent:      req.ForOpponent,
		Type:             goalType,
		Quarter:          req.Quarter,
		Minute:           req.Minute,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record goal failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recordedGoalDTO{Goal: goalToDTO(goal), Match: matchToDTO(updated)})
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGoal")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	goalID := pathParam(r, "goalID")
	updated, err := h.matchService.DeleteGoal(ctx, principal.UserID, matchID, goalID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete goal failed", "user_id", principal.UserID, "match_id", matchID, "goal_id", goalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertRecord")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req upsertRecordRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	rec, err := h.matchService.UpsertRecord(ctx, usecase.UpsertRecordInput{
		UserID:      principal.UserID,
		MatchID:     matchID,
		MemberID:    req.MemberID,
		Goals:       req.Goals,
		Assists:     req.Assists,
		MOM:         req.MOM,
		CleanSheets: req.CleanSheets,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert record failed", "user_id", principal.UserID, "match_id", matchID, "member_id", req.MemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recordToDTO(rec))
}

func (h *Handler) SetAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetAttendance")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setAttendanceRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	item, err := h.matchService.SetAttendance(ctx, usecase.SetAttendanceInput{
		UserID:   principal.UserID,
		MatchID:  matchID,
		MemberID: req.MemberID,
		Status:   match.AttendanceStatus(req.Status),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set attendance failed", "user_id", principal.UserID, "match_id", matchID, "member_id", req.MemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, attendanceToDTO(item))
}

func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAttendance")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	rows, err := h.matchService.ListAttendance(ctx, principal.UserID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list attendance failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]attendanceDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, attendanceToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddOpponentPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddOpponentPlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addOpponentPlayerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := pathParam(r, "matchID")
	player, err := h.matchService.AddOpponentPlayer(ctx, principal.UserID, matchID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "add opponent player failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, opponentPlayerDTO{ID: player.ID, MatchID: player.MatchID, Name: player.Name})
}
