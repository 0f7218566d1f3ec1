// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/mocks"
	"github.com/classlive/meeting-access-service/internal/domain/models"
)

type recordingServiceMocks struct {
	meetingRepo    *mocks.MockMeetingRepository
	recordingRepo  *mocks.MockRecordingRepository
	captureClient  *mocks.MockCaptureClient
	messageBuilder *mocks.MockMessageBuilder
}

func newTestRecordingService(t *testing.T, clock domain.Clock) (*RecordingService, *recordingServiceMocks) {
	m := &recordingServiceMocks{
		meetingRepo:    &mocks.MockMeetingRepository{},
		recordingRepo:  &mocks.MockRecordingRepository{},
		captureClient:  &mocks.MockCaptureClient{},
		messageBuilder: &mocks.MockMessageBuilder{},
	}
	service := NewRecordingService(
		m.meetingRepo,
		m.recordingRepo,
		m.captureClient,
		m.messageBuilder,
		clock,
		ServiceConfig{RecordingOutputDir: t.TempDir()},
	)
	return service, m
}

func recordableMeeting() *models.Meeting {
	hostUID := "host-1"
	return &models.Meeting{
		UID:              "meeting-1",
		MeetingCode:      "ABCD-EFGH-JKMN",
		HostUID:          &hostUID,
		RecordingEnabled: true,
	}
}

func hostCaller() *models.Caller {
	return &models.Caller{UID: "host-1", Role: models.CallerRoleUser}
}

func TestRecordingService_StartRecording_LocalMode(t *testing.T) {
	clock := testClock()
	service, m := newTestRecordingService(t, clock)

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("ActiveExists", mock.Anything, "meeting-1").Return(false, nil)
	m.captureClient.On("IsConfigured").Return(true)
	m.captureClient.On("IsLocalMode").Return(true)

	var capturedDest domain.CaptureDestination
	m.captureClient.On("StartCompositeCapture", mock.Anything, "ABCD-EFGH-JKMN", mock.Anything).
		Run(func(args mock.Arguments) {
			capturedDest = args.Get(2).(domain.CaptureDestination)
		}).
		Return(&domain.CaptureSession{EgressID: "egress-1"}, nil)
	m.recordingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.messageBuilder.On("SendIndexRecording", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)

	recording, err := service.StartRecording(context.Background(), hostCaller(), "meeting-1")

	require.NoError(t, err)
	assert.Equal(t, models.RecordingStatusRecording, recording.Status)
	assert.Equal(t, "egress-1", recording.EgressID)
	assert.Equal(t, clock.Now(), recording.StartedAt)
	assert.True(t, strings.HasPrefix(recording.RecordingURL, "/recordings/ABCD-EFGH-JKMN-"))
	assert.True(t, strings.HasSuffix(recording.RecordingURL, ".mp4"))
	assert.Equal(t, service.Config.RecordingOutputDir, filepath.Dir(capturedDest.LocalPath))
	assert.Empty(t, capturedDest.ObjectKey)

	// The output directory must exist before the capture service writes into it.
	info, statErr := os.Stat(service.Config.RecordingOutputDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestRecordingService_StartRecording_CloudMode(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("ActiveExists", mock.Anything, "meeting-1").Return(false, nil)
	m.captureClient.On("IsConfigured").Return(true)
	m.captureClient.On("IsLocalMode").Return(false)

	var capturedDest domain.CaptureDestination
	m.captureClient.On("StartCompositeCapture", mock.Anything, "ABCD-EFGH-JKMN", mock.Anything).
		Run(func(args mock.Arguments) {
			capturedDest = args.Get(2).(domain.CaptureDestination)
		}).
		Return(&domain.CaptureSession{EgressID: "egress-1"}, nil)
	m.recordingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.messageBuilder.On("SendIndexRecording", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)

	recording, err := service.StartRecording(context.Background(), hostCaller(), "meeting-1")

	require.NoError(t, err)
	assert.Empty(t, recording.RecordingURL, "cloud URL is assigned after upload")
	assert.Empty(t, capturedDest.LocalPath)
	assert.True(t, strings.HasPrefix(capturedDest.ObjectKey, "ABCD-EFGH-JKMN-"))
	assert.True(t, strings.HasSuffix(capturedDest.ObjectKey, ".mp4"))
}

func TestRecordingService_StartRecording_Forbidden(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)

	caller := &models.Caller{UID: "stranger", Role: models.CallerRoleUser}
	_, err := service.StartRecording(context.Background(), caller, "meeting-1")

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	m.captureClient.AssertNotCalled(t, "StartCompositeCapture")
}

func TestRecordingService_StartRecording_RecordingDisabled(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	meeting := recordableMeeting()
	meeting.RecordingEnabled = false
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(meeting, nil)

	_, err := service.StartRecording(context.Background(), hostCaller(), "meeting-1")

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestRecordingService_StartRecording_CaptureNotConfigured(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.captureClient.On("IsConfigured").Return(false)

	_, err := service.StartRecording(context.Background(), hostCaller(), "meeting-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCaptureNotConfigured)
}

func TestRecordingService_StartRecording_AlreadyActive(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.captureClient.On("IsConfigured").Return(true)
	m.recordingRepo.On("ActiveExists", mock.Anything, "meeting-1").Return(true, nil)

	_, err := service.StartRecording(context.Background(), hostCaller(), "meeting-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecordingActive)
	m.captureClient.AssertNotCalled(t, "StartCompositeCapture")
	m.recordingRepo.AssertNotCalled(t, "Create")
}

func TestRecordingService_StartRecording_CaptureFailureIsFatal(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("ActiveExists", mock.Anything, "meeting-1").Return(false, nil)
	m.captureClient.On("IsConfigured").Return(true)
	m.captureClient.On("IsLocalMode").Return(false)
	m.captureClient.On("StartCompositeCapture", mock.Anything, "ABCD-EFGH-JKMN", mock.Anything).
		Return(nil, errors.New("egress unavailable"))

	_, err := service.StartRecording(context.Background(), hostCaller(), "meeting-1")

	require.Error(t, err)
	m.recordingRepo.AssertNotCalled(t, "Create")
}

func TestRecordingService_StartRecording_LostSlotRaceStopsOrphan(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("ActiveExists", mock.Anything, "meeting-1").Return(false, nil)
	m.captureClient.On("IsConfigured").Return(true)
	m.captureClient.On("IsLocalMode").Return(false)
	m.captureClient.On("StartCompositeCapture", mock.Anything, "ABCD-EFGH-JKMN", mock.Anything).
		Return(&domain.CaptureSession{EgressID: "egress-1"}, nil)
	m.recordingRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrRecordingActive)
	m.captureClient.On("StopCapture", mock.Anything, "egress-1").Return(nil)

	_, err := service.StartRecording(context.Background(), hostCaller(), "meeting-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecordingActive)
	m.captureClient.AssertCalled(t, "StopCapture", mock.Anything, "egress-1")
}

func TestRecordingService_StopRecording(t *testing.T) {
	clock := testClock()
	service, m := newTestRecordingService(t, clock)

	recording := &models.Recording{
		UID:        "rec-1",
		MeetingUID: "meeting-1",
		EgressID:   "egress-1",
		Status:     models.RecordingStatusRecording,
	}
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("GetWithRevision", mock.Anything, "meeting-1", "rec-1").
		Return(recording, uint64(2), nil)
	m.captureClient.On("StopCapture", mock.Anything, "egress-1").Return(nil)
	m.recordingRepo.On("Update", mock.Anything, mock.Anything, uint64(2)).Return(nil)
	m.messageBuilder.On("SendIndexRecording", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	stopped, err := service.StopRecording(context.Background(), hostCaller(), "meeting-1", "rec-1")

	require.NoError(t, err)
	assert.Equal(t, models.RecordingStatusCompleted, stopped.Status)
	require.NotNil(t, stopped.StoppedAt)
	assert.Equal(t, clock.Now(), *stopped.StoppedAt)
}

func TestRecordingService_StopRecording_UpstreamFailureStillCompletes(t *testing.T) {
	clock := testClock()
	service, m := newTestRecordingService(t, clock)

	recording := &models.Recording{
		UID:        "rec-1",
		MeetingUID: "meeting-1",
		EgressID:   "egress-1",
		Status:     models.RecordingStatusRecording,
	}
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("GetWithRevision", mock.Anything, "meeting-1", "rec-1").
		Return(recording, uint64(2), nil)
	m.captureClient.On("StopCapture", mock.Anything, "egress-1").
		Return(errors.New("egress session not found"))
	m.recordingRepo.On("Update", mock.Anything, mock.Anything, uint64(2)).Return(nil)
	m.messageBuilder.On("SendIndexRecording", mock.Anything, models.ActionUpdated, mock.Anything).Return(nil)

	stopped, err := service.StopRecording(context.Background(), hostCaller(), "meeting-1", "rec-1")

	require.NoError(t, err)
	assert.Equal(t, models.RecordingStatusCompleted, stopped.Status)
	require.NotNil(t, stopped.StoppedAt)
	m.recordingRepo.AssertCalled(t, "Update", mock.Anything, mock.Anything, uint64(2))
}

func TestRecordingService_StopRecording_IdempotentWhenNotActive(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	recording := &models.Recording{
		UID:        "rec-1",
		MeetingUID: "meeting-1",
		EgressID:   "egress-1",
		Status:     models.RecordingStatusCompleted,
	}
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("GetWithRevision", mock.Anything, "meeting-1", "rec-1").
		Return(recording, uint64(3), nil)

	stopped, err := service.StopRecording(context.Background(), hostCaller(), "meeting-1", "rec-1")

	require.NoError(t, err)
	assert.Equal(t, models.RecordingStatusCompleted, stopped.Status)
	m.captureClient.AssertNotCalled(t, "StopCapture")
	m.recordingRepo.AssertNotCalled(t, "Update")
}

func TestRecordingService_ListRecordings_Forbidden(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)

	caller := &models.Caller{UID: "stranger", Role: models.CallerRoleUser}
	_, err := service.ListRecordings(context.Background(), caller, "meeting-1")

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	m.recordingRepo.AssertNotCalled(t, "ListByMeeting")
}

func TestRecordingService_DeleteRecording_RemovesLocalFile(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	fileName := "ABCD-EFGH-JKMN-1234.mp4"
	path := filepath.Join(service.Config.RecordingOutputDir, fileName)
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644))

	recording := &models.Recording{
		UID:          "rec-1",
		MeetingUID:   "meeting-1",
		Status:       models.RecordingStatusCompleted,
		RecordingURL: "/recordings/" + fileName,
	}
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("Get", mock.Anything, "meeting-1", "rec-1").Return(recording, nil)
	m.recordingRepo.On("Delete", mock.Anything, "meeting-1", "rec-1").Return(nil)
	m.messageBuilder.On("SendDeleteIndexRecording", mock.Anything, "rec-1").Return(nil)

	err := service.DeleteRecording(context.Background(), hostCaller(), "meeting-1", "rec-1")

	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRecordingService_DeleteRecording_MissingFileIsNotAnError(t *testing.T) {
	service, m := newTestRecordingService(t, testClock())

	recording := &models.Recording{
		UID:          "rec-1",
		MeetingUID:   "meeting-1",
		Status:       models.RecordingStatusCompleted,
		RecordingURL: "/recordings/gone.mp4",
	}
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(recordableMeeting(), nil)
	m.recordingRepo.On("Get", mock.Anything, "meeting-1", "rec-1").Return(recording, nil)
	m.recordingRepo.On("Delete", mock.Anything, "meeting-1", "rec-1").Return(nil)
	m.messageBuilder.On("SendDeleteIndexRecording", mock.Anything, "rec-1").Return(nil)

	err := service.DeleteRecording(context.Background(), hostCaller(), "meeting-1", "rec-1")

	require.NoError(t, err)
}
