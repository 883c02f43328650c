package httpapi

import (
	"net/http"

	"github.com/riskibarqy/teamsheet/internal/usecase"
)

// RegisterMe creates the caller's profile on first use and returns the existing one afterwards.
func (h *Handler) RegisterMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterMe")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req registerUserRequest
	if r.ContentLength != 0 {
		if err := h.decodeRequest(ctx, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	profile, err := h.userService.Register(ctx, usecase.RegisterUserInput{
		UserID:      principal.UserID,
		Email:       principal.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register user failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(profile))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.userService.GetMe(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get me failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(profile))
}

func (h *Handler) GetUserByCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserByCode")
	defer span.End()

	code := pathParam(r, "code")
	profile, err := h.userService.GetByCode(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "get user by code failed", "code", code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, publicUserDTO{
		ID:          profile.ID,
		Code:        profile.Code,
		DisplayName: profile.DisplayName,
	})
}
