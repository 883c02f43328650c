package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		UserID: principal.UserID,
		Name:   req.Name,
		Region: req.Region,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(item))
}

func (h *Handler) ListMyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTeams")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.teamService.ListMyTeams(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my teams failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTO(items))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := pathParam(r, "teamID")
	item, err := h.teamService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) GetTeamByCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamByCode")
	defer span.End()

	code := r.URL.Query().Get("code")
	item, err := h.teamService.GetByCode(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "get team by code failed", "code", code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req joinTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	member, err := h.teamService.JoinByCode(ctx, principal.UserID, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "join team failed", "user_id", principal.UserID, "code", req.Code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, memberToDTO(member, ""))
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMembers")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID := pathParam(r, "teamID")
	status := team.MemberStatus(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))

	views, err := h.teamService.ListMembers(ctx, usecase.ListMembersInput{
		UserID: principal.UserID,
		TeamID: teamID,
		Status: status,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list members failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]memberDTO, 0, len(views))
	for _, view := range views {
		items = append(items, memberToDTO(view.Member, view.Name))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ApproveMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveMember")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	input := usecase.ManageMemberInput{
		UserID:   principal.UserID,
		TeamID:   pathParam(r, "teamID"),
		MemberID: pathParam(r, "memberID"),
	}

	member, err := h.teamService.ApproveMember(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "approve member failed", "user_id", principal.UserID, "team_id", input.TeamID, "member_id", input.MemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberToDTO(member, ""))
}

func (h *Handler) RejectMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectMember")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	input := usecase.ManageMemberInput{
		UserID:   principal.UserID,
		TeamID:   pathParam(r, "teamID"),
		MemberID: pathParam(r, "memberID"),
	}

	if err := h.teamService.RejectMember(ctx, input); err != nil {
		h.logger.WarnContext(ctx, "reject member failed", "user_id", principal.UserID, "team_id", input.TeamID, "member_id", input.MemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"memberId": input.MemberID, "status": "rejected"})
}

func (h *Handler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ChangeMemberRole")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req changeRoleRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.ChangeRoleInput{
		UserID:   principal.UserID,
		TeamID:   pathParam(r, "teamID"),
		MemberID: pathParam(r, "memberID"),
		Role:     team.Role(req.Role),
	}
	member, err := h.teamService.ChangeRole(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "change member role failed", "user_id", principal.UserID, "member_id", input.MemberID, "role", req.Role, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberToDTO(member, ""))
}

func (h *Handler) AddGuestMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddGuestMember")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addGuestMemberRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	member, err := h.teamService.AddGuestMember(ctx, usecase.AddGuestMemberInput{
		UserID: principal.UserID,
		TeamID: teamID,
		Name:   req.Name,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add guest member failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, memberToDTO(member, ""))
}

func (h *Handler) CreateGuestTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGuestTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createGuestTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	guest, err := h.teamService.CreateGuestTeam(ctx, usecase.CreateGuestTeamInput{
		UserID: principal.UserID,
		TeamID: teamID,
		Name:   req.Name,
		Region: req.Region,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create guest team failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, guestTeamToDTO(guest))
}

func (h *Handler) ListGuestTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGuestTeams")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	guests, err := h.teamService.ListGuestTeams(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list guest teams failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]guestTeamDTO, 0, len(guests))
	for _, guest := range guests {
		items = append(items, guestTeamToDTO(guest))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
