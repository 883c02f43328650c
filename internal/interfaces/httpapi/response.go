package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "teamsheet"
)

// Responses follow the Google JSON style guide envelope.
type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorRules is checked in order; the first rule with a matching sentinel wins.
var errorRules = []struct {
	mapped  mappedError
	matches []error
}{
	{mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}, []error{usecase.ErrInvalidInput}},
	{mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}, []error{usecase.ErrNotFound}},
	{mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}, []error{usecase.ErrUnauthorized}},
	{mappedError{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}, []error{usecase.ErrForbidden}},
	{mappedError{http.StatusConflict, "alreadyMerged", "FAILED_PRECONDITION"}, []error{usecase.ErrAlreadyMerged, merge.ErrGuestAlreadyMerged}},
	{mappedError{http.StatusConflict, "invalidState", "FAILED_PRECONDITION"}, []error{
		usecase.ErrState, merge.ErrRequestNotPending, merge.ErrRequestClosed, merge.ErrMappingApplied, merge.ErrDisputeResolved,
	}},
	{mappedError{http.StatusConflict, "conflict", "ABORTED"}, []error{usecase.ErrConflict, merge.ErrDisputeStale}},
	{mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}, []error{usecase.ErrDependencyUnavailable}},
}

func mapError(_ context.Context, err error) mappedError {
	for _, rule := range errorRules {
		for _, target := range rule.matches {
			if errors.Is(err, target) {
				return rule.mapped
			}
		}
	}
	return internalError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, googleResponseEnvelope{APIVersion: googleAPIVersion, Data: data})
}

// writeError maps err onto the envelope. Unmapped errors become a generic 500
// so driver or network details never reach the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(ctx, err)
	message := err.Error()
	if mapped == internalError {
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.RecordError(err)
			span.SetStatus(codes.Error, "internal error")
		}
		message = "internal server error"
	}
	writeErrorBody(w, mapped, message)
}

func writeInternalError(_ context.Context, w http.ResponseWriter) {
	writeErrorBody(w, internalError, "internal server error")
}

func writeErrorBody(w http.ResponseWriter, mapped mappedError, message string) {
	writeJSON(w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}
