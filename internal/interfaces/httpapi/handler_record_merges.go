package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

func (h *Handler) CreateRecordMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRecordMerge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createRecordMergeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	request, err := h.memberMergeService.CreateRequest(ctx, usecase.CreateRecordMergeInput{
		UserID:         principal.UserID,
		TeamID:         teamID,
		GuestMemberID:  req.GuestMemberID,
		TargetUserCode: req.TargetUserCode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create record merge failed", "user_id", principal.UserID, "team_id", teamID, "guest_member_id", req.GuestMemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recordMergeRequestToDTO(request))
}

func (h *Handler) DirectRecordMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DirectRecordMerge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req directMergeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	outcome, err := h.memberMergeService.DirectMerge(ctx, usecase.DirectMergeInput{
		UserID:         principal.UserID,
		TeamID:         teamID,
		GuestMemberID:  req.GuestMemberID,
		TargetMemberID: req.TargetMemberID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "direct record merge failed", "user_id", principal.UserID, "team_id", teamID, "guest_member_id", req.GuestMemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberMergeOutcomeToDTO(outcome))
}

func (h *Handler) ListTeamRecordMerges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamRecordMerges")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := pathParam(r, "teamID")
	requests, err := h.memberMergeService.ListByTeam(ctx, principal.UserID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team record merges failed", "user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recordMergeRequestsToDTO(requests))
}

func (h *Handler) ListIncomingRecordMerges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListIncomingRecordMerges")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requests, err := h.memberMergeService.ListIncoming(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list incoming record merges failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recordMergeRequestsToDTO(requests))
}

func (h *Handler) AcceptRecordMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcceptRecordMerge", attribute.String("merge.request_id", pathParam(r, "requestID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := pathParam(r, "requestID")
	outcome, err := h.memberMergeService.Accept(ctx, principal.UserID, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept record merge failed", "user_id", principal.UserID, "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberMergeOutcomeToDTO(outcome))
}

func (h *Handler) RejectRecordMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectRecordMerge")
	defer span.End()

	h.closeRecordMerge(w, r.WithContext(ctx), "reject", h.memberMergeService.Reject)
}

func (h *Handler) CancelRecordMerge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelRecordMerge")
	defer span.End()

	h.closeRecordMerge(w, r.WithContext(ctx), "cancel", h.memberMergeService.Cancel)
}

type recordMergeTransition func(ctx context.Context, userID, requestID string) (merge.RecordMergeRequest, error)

func (h *Handler) closeRecordMerge(w http.ResponseWriter, r *http.Request, verb string, transition recordMergeTransition) {
	ctx := r.Context()
	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	requestID := pathParam(r, "requestID")
	request, err := transition(ctx, principal.UserID, requestID)
	if err != nil {
		h.logger.WarnContext(ctx, verb+" record merge failed", "user_id", principal.UserID, "request_id", requestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recordMergeRequestToDTO(request))
}
