// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
	"github.com/classlive/meeting-access-service/pkg/constants"
)

// errorResponse is the wire shape of every error body.
type errorResponse struct {
	Message string `json:"message"`
}

// httpStatusFor maps the domain error taxonomy onto HTTP status codes.
func httpStatusFor(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeForbidden:
		return http.StatusForbidden
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(ctx, "error encoding response body", logging.ErrKey, err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := httpStatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err)
	} else {
		slog.DebugContext(ctx, "request rejected", logging.ErrKey, err, "status", status)
	}

	message := "internal server error"
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	writeJSON(ctx, w, status, errorResponse{Message: message})
}

// decodeJSON decodes a request body, mapping malformed JSON to a validation
// error rather than a 500. An empty body decodes to the zero value so
// optional-body endpoints accept bare POSTs.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return domain.NewValidationError("invalid request body", err)
}

// callerFrom returns the verified caller attached by the auth middleware,
// or nil for an unauthenticated guest.
func callerFrom(ctx context.Context) *models.Caller {
	caller, ok := ctx.Value(constants.CallerContextID).(*models.Caller)
	if !ok {
		return nil
	}
	return caller
}
