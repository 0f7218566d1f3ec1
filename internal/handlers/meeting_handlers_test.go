// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/mocks"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/service"
	"github.com/classlive/meeting-access-service/pkg/constants"
)

type routerMocks struct {
	meetingRepo         *mocks.MockMeetingRepository
	waitingRequestRepo  *mocks.MockWaitingRequestRepository
	recordingRepo       *mocks.MockRecordingRepository
	personalMeetingRepo *mocks.MockPersonalMeetingRepository
	messageBuilder      *mocks.MockMessageBuilder
	captureClient       *mocks.MockCaptureClient
	credentialIssuer    *mocks.MockCredentialIssuer
}

type routerHasher struct{}

func (routerHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (routerHasher) Verify(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *routerMocks) {
	t.Helper()

	m := &routerMocks{
		meetingRepo:         &mocks.MockMeetingRepository{},
		waitingRequestRepo:  &mocks.MockWaitingRequestRepository{},
		recordingRepo:       &mocks.MockRecordingRepository{},
		personalMeetingRepo: &mocks.MockPersonalMeetingRepository{},
		messageBuilder:      &mocks.MockMessageBuilder{},
		captureClient:       &mocks.MockCaptureClient{},
		credentialIssuer:    &mocks.MockCredentialIssuer{},
	}

	clock := domain.FixedClock{Time: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	config := service.ServiceConfig{RecordingOutputDir: t.TempDir()}

	meetingService := service.NewMeetingService(
		m.meetingRepo, m.waitingRequestRepo, m.recordingRepo, m.personalMeetingRepo,
		m.messageBuilder, service.NewOccurrenceService(), routerHasher{}, clock, config,
	)
	admissionService := service.NewAdmissionService(
		m.meetingRepo, m.waitingRequestRepo, m.credentialIssuer, routerHasher{}, clock,
	)
	recordingService := service.NewRecordingService(
		m.meetingRepo, m.recordingRepo, m.captureClient, m.messageBuilder, clock, config,
	)
	personalMeetingService := service.NewPersonalMeetingService(
		m.meetingRepo, m.personalMeetingRepo, m.messageBuilder, clock,
	)

	router := NewRouter(RouterConfig{
		MeetingHandler:   NewMeetingHandler(meetingService, personalMeetingService),
		AdmissionHandler: NewAdmissionHandler(admissionService),
		RecordingHandler: NewRecordingHandler(recordingService),
		Ready:            meetingService.ServiceReady,
	})
	return router, m
}

func doRequest(router http.Handler, method, path string, body string, caller *models.Caller) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if caller != nil {
		ctx := context.WithValue(req.Context(), constants.CallerContextID, caller)
		req = req.WithContext(ctx)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/livez", "", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/readyz", "", nil).Code)
}

func TestCreateMeeting_SetsHostFromCaller(t *testing.T) {
	router, m := newTestRouter(t)

	var stored *models.Meeting
	m.meetingRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.Meeting)
	}).Return(nil)
	m.messageBuilder.On("SendIndexMeeting", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)

	caller := &models.Caller{UID: "alice", Name: "Alice", Role: models.CallerRoleUser}
	body := `{"title":"Standup","start_time":"2025-04-01T10:00:00Z","duration":30,"password":"sekret"}`
	recorder := doRequest(router, http.MethodPost, "/meetings", body, caller)

	require.Equal(t, http.StatusCreated, recorder.Code)
	require.NotNil(t, stored)
	require.NotNil(t, stored.HostUID)
	assert.Equal(t, "alice", *stored.HostUID)
	assert.Equal(t, "Alice", stored.HostName)
	assert.Equal(t, "hashed:sekret", stored.PasswordHash)

	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "Standup", response["title"])
	assert.NotContains(t, response, "password_hash", "hash never leaves the service")
}

func TestCreateMeeting_ValidationMapsTo400(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"title":"","start_time":"2025-04-01T10:00:00Z","duration":30}`
	recorder := doRequest(router, http.MethodPost, "/meetings", body, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "meeting title is required")
}

func TestGetMeeting_NotFoundMapsTo404(t *testing.T) {
	router, m := newTestRouter(t)

	m.meetingRepo.On("Get", mock.Anything, "nope").Return(nil, domain.ErrMeetingNotFound)
	m.meetingRepo.On("GetByCode", mock.Anything, "nope").Return(nil, domain.ErrMeetingNotFound)

	recorder := doRequest(router, http.MethodGet, "/meetings/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateMeeting_PasswordNullClearsProtection(t *testing.T) {
	router, m := newTestRouter(t)

	hostUID := "alice"
	meeting := &models.Meeting{
		UID:                 "meeting-1",
		Title:               "Sync",
		HostUID:             &hostUID,
		IsPasswordProtected: true,
		PasswordHash:        "hashed:old",
	}
	m.meetingRepo.On("GetWithRevision", mock.Anything, "meeting-1").Return(meeting, uint64(1), nil)

	var updated *models.Meeting
	m.meetingRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).Run(func(args mock.Arguments) {
		updated = args.Get(1).(*models.Meeting)
	}).Return(nil)
	m.messageBuilder.On("SendIndexMeeting", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	caller := &models.Caller{UID: "alice", Role: models.CallerRoleUser}
	recorder := doRequest(router, http.MethodPatch, "/meetings/meeting-1", `{"password":null}`, caller)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, updated)
	assert.False(t, updated.IsPasswordProtected)
	assert.Empty(t, updated.PasswordHash)
}

func TestUpdateMeeting_AbsentPasswordLeftAlone(t *testing.T) {
	router, m := newTestRouter(t)

	hostUID := "alice"
	meeting := &models.Meeting{
		UID:                 "meeting-1",
		Title:               "Sync",
		HostUID:             &hostUID,
		IsPasswordProtected: true,
		PasswordHash:        "hashed:old",
	}
	m.meetingRepo.On("GetWithRevision", mock.Anything, "meeting-1").Return(meeting, uint64(1), nil)

	var updated *models.Meeting
	m.meetingRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).Run(func(args mock.Arguments) {
		updated = args.Get(1).(*models.Meeting)
	}).Return(nil)
	m.messageBuilder.On("SendIndexMeeting", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	caller := &models.Caller{UID: "alice", Role: models.CallerRoleUser}
	recorder := doRequest(router, http.MethodPatch, "/meetings/meeting-1", `{"title":"Renamed"}`, caller)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.IsPasswordProtected)
}

func TestDeleteMeeting_ForbiddenMapsTo403(t *testing.T) {
	router, m := newTestRouter(t)

	hostUID := "alice"
	meeting := &models.Meeting{UID: "meeting-1", HostUID: &hostUID}
	m.meetingRepo.On("GetWithRevision", mock.Anything, "meeting-1").Return(meeting, uint64(1), nil)

	caller := &models.Caller{UID: "mallory", Role: models.CallerRoleUser}
	recorder := doRequest(router, http.MethodDelete, "/meetings/meeting-1", "", caller)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestGetPersonalMeeting_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	recorder := doRequest(router, http.MethodGet, "/meetings/personal-meeting/current", "", nil)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestGetPersonalMeeting_ReturnsMapping(t *testing.T) {
	router, m := newTestRouter(t)

	existing := &models.PersonalMeeting{
		UID:                 "pm-1",
		UserUID:             "alice",
		MeetingUID:          "meeting-1",
		PersonalMeetingCode: "ABCD-EFGH-JKMN",
	}
	m.personalMeetingRepo.On("GetByUser", mock.Anything, "alice").Return(existing, nil)

	caller := &models.Caller{UID: "alice", Role: models.CallerRoleUser}
	recorder := doRequest(router, http.MethodGet, "/meetings/personal-meeting/current", "", caller)

	require.Equal(t, http.StatusOK, recorder.Code)
	var response models.PersonalMeeting
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "meeting-1", response.MeetingUID)
	assert.Equal(t, "ABCD-EFGH-JKMN", response.PersonalMeetingCode)
}
