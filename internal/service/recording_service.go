// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
)

// RecordingService orchestrates server-side room captures against the
// external capture service and keeps the at-most-one-active invariant.
type RecordingService struct {
	MeetingRepository   domain.MeetingRepository
	RecordingRepository domain.RecordingRepository
	CaptureClient       domain.CaptureClient
	MessageBuilder      domain.MessageBuilder
	Clock               domain.Clock
	Config              ServiceConfig
}

// NewRecordingService creates a new RecordingService.
func NewRecordingService(
	meetingRepository domain.MeetingRepository,
	recordingRepository domain.RecordingRepository,
	captureClient domain.CaptureClient,
	messageBuilder domain.MessageBuilder,
	clock domain.Clock,
	config ServiceConfig,
) *RecordingService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &RecordingService{
		MeetingRepository:   meetingRepository,
		RecordingRepository: recordingRepository,
		CaptureClient:       captureClient,
		MessageBuilder:      messageBuilder,
		Clock:               clock,
		Config:              config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *RecordingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.RecordingRepository != nil &&
		s.CaptureClient != nil &&
		s.MessageBuilder != nil
}

// recordingFileName builds the destination file name for a capture.
func (s *RecordingService) recordingFileName(meeting *models.Meeting) string {
	return fmt.Sprintf("%s-%d.mp4", meeting.MeetingCode, s.Clock.Now().Unix())
}

// StartRecording begins a capture for a meeting room. Only the host or an
// admin may start one, the meeting must have recording enabled, and at most
// one capture may be active per meeting. A capture-service failure is fatal:
// no recording row is written.
func (s *RecordingService) StartRecording(ctx context.Context, caller *models.Caller, meetingUID string) (*models.Recording, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return nil, domain.NewForbiddenError("only the meeting host can start a recording")
	}
	if !meeting.RecordingEnabled {
		return nil, domain.NewValidationError("recording is not enabled for this meeting")
	}
	if !s.CaptureClient.IsConfigured() {
		return nil, domain.ErrCaptureNotConfigured
	}

	// Cheap read-side check; the store's active-slot claim below is the
	// authoritative guard against concurrent starts.
	active, err := s.RecordingRepository.ActiveExists(ctx, meeting.UID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.ErrRecordingActive
	}

	fileName := s.recordingFileName(meeting)
	dest := domain.CaptureDestination{}
	recordingURL := ""
	if s.CaptureClient.IsLocalMode() {
		if err := os.MkdirAll(s.Config.RecordingOutputDir, 0o755); err != nil {
			return nil, domain.NewInternalError("failed to create recording output directory", err)
		}
		dest.LocalPath = filepath.Join(s.Config.RecordingOutputDir, fileName)
		recordingURL = localRecordingURLPrefix + fileName
	} else {
		dest.ObjectKey = fileName
	}

	session, err := s.CaptureClient.StartCompositeCapture(ctx, meeting.MeetingCode, dest)
	if err != nil {
		slog.ErrorContext(ctx, "capture service failed to start recording",
			logging.ErrKey, err, "meeting_uid", meeting.UID)
		return nil, err
	}

	now := s.Clock.Now()
	recording := &models.Recording{
		UID:          uuid.NewString(),
		MeetingUID:   meeting.UID,
		EgressID:     session.EgressID,
		Status:       models.RecordingStatusRecording,
		StartedAt:    now,
		RecordingURL: recordingURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.RecordingRepository.Create(ctx, recording); err != nil {
		// Lost the active-slot race after the capture already started;
		// stop the orphaned session before reporting the conflict.
		if stopErr := s.CaptureClient.StopCapture(ctx, session.EgressID); stopErr != nil {
			slog.ErrorContext(ctx, "failed to stop orphaned capture session",
				logging.ErrKey, stopErr, "egress_id", session.EgressID)
		}
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexRecording(ctx, models.ActionCreated, *recording); err != nil {
		slog.ErrorContext(ctx, "error sending recording indexing message",
			logging.ErrKey, err, "recording_uid", recording.UID)
	}

	slog.DebugContext(ctx, "started recording",
		"meeting_uid", meeting.UID, "recording_uid", recording.UID, "egress_id", session.EgressID)

	return recording, nil
}

// StopRecording ends the capture session for a recording. The upstream stop
// is best-effort: the recording always transitions to completed with a stop
// timestamp even when the capture service errors, because the session is
// unrecoverable either way.
func (s *RecordingService) StopRecording(ctx context.Context, caller *models.Caller, meetingUID, recordingUID string) (*models.Recording, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return nil, domain.NewForbiddenError("only the meeting host can stop a recording")
	}

	recording, revision, err := s.RecordingRepository.GetWithRevision(ctx, meetingUID, recordingUID)
	if err != nil {
		return nil, err
	}
	if recording.Status != models.RecordingStatusRecording {
		return recording, nil
	}

	if recording.EgressID != "" {
		if err := s.CaptureClient.StopCapture(ctx, recording.EgressID); err != nil {
			slog.ErrorContext(ctx, "capture service failed to stop recording",
				logging.ErrKey, err, "recording_uid", recording.UID, "egress_id", recording.EgressID)
		}
	}

	now := s.Clock.Now()
	recording.Status = models.RecordingStatusCompleted
	recording.StoppedAt = &now
	recording.UpdatedAt = now

	if err := s.RecordingRepository.Update(ctx, recording, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexRecording(ctx, models.ActionUpdated, *recording); err != nil {
		slog.ErrorContext(ctx, "error sending recording indexing message",
			logging.ErrKey, err, "recording_uid", recording.UID)
	}

	slog.DebugContext(ctx, "stopped recording",
		"meeting_uid", meetingUID, "recording_uid", recordingUID)

	return recording, nil
}

// ListRecordings returns the recordings for a meeting. Only the host or an
// admin may view them.
func (s *RecordingService) ListRecordings(ctx context.Context, caller *models.Caller, meetingUID string) ([]*models.Recording, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return nil, domain.NewForbiddenError("only the meeting host can view recordings")
	}

	return s.RecordingRepository.ListByMeeting(ctx, meetingUID)
}

// DeleteRecording removes a recording row and, for local captures, the file
// it points at. File removal is best-effort.
func (s *RecordingService) DeleteRecording(ctx context.Context, caller *models.Caller, meetingUID, recordingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return domain.NewForbiddenError("only the meeting host can delete a recording")
	}

	recording, err := s.RecordingRepository.Get(ctx, meetingUID, recordingUID)
	if err != nil {
		return err
	}

	if err := s.RecordingRepository.Delete(ctx, meetingUID, recordingUID); err != nil {
		return err
	}

	if strings.HasPrefix(recording.RecordingURL, localRecordingURLPrefix) {
		path := filepath.Join(s.Config.RecordingOutputDir, filepath.Base(recording.RecordingURL))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to remove local recording file",
				logging.ErrKey, err, "recording_uid", recordingUID, "path", path)
		}
	}

	if err := s.MessageBuilder.SendDeleteIndexRecording(ctx, recordingUID); err != nil {
		slog.ErrorContext(ctx, "error sending recording deletion indexing message",
			logging.ErrKey, err, "recording_uid", recordingUID)
	}

	slog.DebugContext(ctx, "deleted recording",
		"meeting_uid", meetingUID, "recording_uid", recordingUID)

	return nil
}
