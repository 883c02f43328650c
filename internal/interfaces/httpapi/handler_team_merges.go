package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

// SearchMergeTarget resolves the team code the requester typed in the merge wizard.
func (h *Handler) SearchMergeTarget(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchMergeTarget")
	defer span.End()

	code := r.URL.Query().Get("code")
	item, err := h.teamMergeService.SearchTeamByCode(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "search merge target failed", "code", code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) FindRelatedMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindRelatedMatches")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req findRelatedMatchesRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	candidates, err := h.teamMergeService.FindRelatedMatches(ctx, usecase.FindRelatedMatchesInput{
		UserID:       principal.UserID,
		TeamID:       teamID,
		TargetTeamID: req.TargetTeamID,
		GuestTeamID:  req.GuestTeamID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "find related matches failed", "user_id", principal.UserID, "team_id", teamID, "target_team_id", req.TargetTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, candidatesToDTO(candidates))
}

func (h *Handler) CreateTeamMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeamMerge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTeamMergeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	decisions := make([]usecase.MappingDecision, 0, len(req.Decisions))
	for _, decision := range req.Decisions {
		decisions = append(decisions, usecase.MappingDecision{
			RequesterMatchID: decision.RequesterMatchID,
			TargetMatchID:    decision.TargetMatchID,
			Action:           merge.Action(decision.Action),
		})
	}

	teamID := pathParam(r, "teamID")
	details, err := h.teamMergeService.CreateRequest(ctx, usecase.CreateTeamMergeInput{
		FindRelatedMatchesInput: usecase.FindRelatedMatchesInput{
			UserID:       principal.UserID,
			TeamID:       teamID,
			TargetTeamID: req.TargetTeamID,
			GuestTeamID:  req.GuestTeamID,
		},
		Decisions: decisions,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team merge failed", "user_id", principal.UserID, "team_id", teamID, "target_team_id", req.TargetTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamMergeDetailsToDTO(details))
}

func (h *Handler) ListTeamMerges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamMerges")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	requests, err := h.teamMergeService.ListByTeam(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team merges failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamMergeRequestsToDTO(requests))
}

func (h *Handler) GetTeamMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamMerge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := pathParam(r, "requestID")
	details, err := h.teamMergeService.GetRequest(ctx, principal.UserID, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team merge failed", "user_id", principal.UserID, "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamMergeDetailsToDTO(details))
}

func (h *Handler) ApproveTeamMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveTeamMerge", attribute.String("merge.request_id", pathParam(r, "requestID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := pathParam(r, "requestID")
	details, err := h.teamMergeService.Approve(ctx, principal.UserID, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "approve team merge failed", "user_id", principal.UserID, "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamMergeDetailsToDTO(details))
}

func (h *Handler) RejectTeamMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectTeamMerge")
	defer span.End()

	h.closeTeamMerge(w, r.WithContext(ctx), "reject", h.teamMergeService.Reject)
}

func (h *Handler) CancelTeamMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelTeamMerge")
	defer span.End()

	h.closeTeamMerge(w, r.WithContext(ctx), "cancel", h.teamMergeService.Cancel)
}

type teamMergeTransition func(ctx context.Context, userID, requestID string) (merge.TeamMergeRequest, error)

func (h *Handler) closeTeamMerge(w http.ResponseWriter, r *http.Request, verb string, transition teamMergeTransition) {
	ctx := r.Context()
	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := pathParam(r, "requestID")
	request, err := transition(ctx, principal.UserID, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, verb+" team merge failed", "user_id", principal.UserID, "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamMergeRequestToDTO(request))
}

func (h *Handler) SubmitDisputeScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitDisputeScore", attribute.String("merge.dispute_id", pathParam(r, "disputeID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitDisputeScoreRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	disputeID := pathParam(r, "disputeID")
	submission, err := h.teamMergeService.SubmitDisputeScore(ctx, usecase.SubmitDisputeScoreInput{
		UserID:    principal.UserID,
		DisputeID: disputeID,
		Home:      *req.Home,
		Away:      *req.Away,
		Side:      merge.Side(req.Side),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit dispute score failed", "user_id", principal.UserID, "dispute_id", disputeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, disputeSubmissionToDTO(submission))
}
