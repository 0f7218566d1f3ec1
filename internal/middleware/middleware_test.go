// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/infrastructure/auth"
	"github.com/classlive/meeting-access-service/pkg/constants"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(constants.RequestIDContextID).(string)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(constants.RequestIDHeader))
}

func TestRequestIDMiddleware_HonorsInboundID(t *testing.T) {
	handler := RequestIDMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set(constants.RequestIDHeader, "upstream-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id", rec.Header().Get(constants.RequestIDHeader))
}

func TestAuthorizationMiddleware_StoresHeaders(t *testing.T) {
	var authorization, principal string
	handler := AuthorizationMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		authorization, _ = r.Context().Value(constants.AuthorizationContextID).(string)
		principal, _ = r.Context().Value(constants.PrincipalContextID).(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set(constants.AuthorizationHeader, "Bearer token")
	req.Header.Set(constants.XOnBehalfOfHeader, "user-1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Bearer token", authorization)
	assert.Equal(t, "user-1", principal)
}

func TestAuthenticationMiddleware_NoTokenIsGuest(t *testing.T) {
	jwtAuth := &auth.MockJWTAuth{}

	var caller *models.Caller
	var called bool
	handler := AuthenticationMiddleware(jwtAuth)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		called = true
		caller, _ = r.Context().Value(constants.CallerContextID).(*models.Caller)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/meetings/m1/join", nil))

	assert.True(t, called)
	assert.Nil(t, caller)
	jwtAuth.AssertNotCalled(t, "ParseCaller", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticationMiddleware_ValidTokenAttachesCaller(t *testing.T) {
	jwtAuth := &auth.MockJWTAuth{}
	jwtAuth.On("ParseCaller", mock.Anything, "Bearer good", mock.Anything).
		Return(&models.Caller{UID: "user-1", Name: "Alice", Role: models.CallerRoleUser}, nil)

	var caller *models.Caller
	handler := AuthenticationMiddleware(jwtAuth)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		caller, _ = r.Context().Value(constants.CallerContextID).(*models.Caller)
	}))

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set(constants.AuthorizationHeader, "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if assert.NotNil(t, caller) {
		assert.Equal(t, "user-1", caller.UID)
	}
}

func TestAuthenticationMiddleware_InvalidTokenRejected(t *testing.T) {
	jwtAuth := &auth.MockJWTAuth{}
	jwtAuth.On("ParseCaller", mock.Anything, "Bearer bad", mock.Anything).
		Return(nil, errors.New("token is expired"))

	var called bool
	handler := AuthenticationMiddleware(jwtAuth)(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
	req.Header.Set(constants.AuthorizationHeader, "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"invalid bearer token"}`, rec.Body.String())
}
