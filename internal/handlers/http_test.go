// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classlive/meeting-access-service/internal/domain"
)

func TestHttpStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "validation", err: domain.NewValidationError("bad input"), expected: http.StatusBadRequest},
		{name: "not found", err: domain.ErrMeetingNotFound, expected: http.StatusNotFound},
		{name: "forbidden", err: domain.NewForbiddenError("nope"), expected: http.StatusForbidden},
		{name: "conflict", err: domain.ErrRecordingActive, expected: http.StatusConflict},
		{name: "unavailable", err: domain.ErrSignerNotConfigured, expected: http.StatusServiceUnavailable},
		{name: "internal", err: domain.NewInternalError("boom"), expected: http.StatusInternalServerError},
		{name: "plain error", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, httpStatusFor(tt.err))
		})
	}
}

func TestWriteError_DomainMessage(t *testing.T) {
	recorder := httptest.NewRecorder()

	writeError(context.Background(), recorder, domain.NewForbiddenError("only the meeting host can update the meeting"))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.JSONEq(t, `{"message":"only the meeting host can update the meeting"}`, recorder.Body.String())
}

func TestWriteError_InternalHidesDetail(t *testing.T) {
	recorder := httptest.NewRecorder()

	writeError(context.Background(), recorder, errors.New("kv bucket exploded"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, recorder.Body.String())
}
