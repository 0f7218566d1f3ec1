// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
	"github.com/classlive/meeting-access-service/pkg/concurrent"
	"github.com/classlive/meeting-access-service/pkg/utils"
)

// MeetingService owns the meeting lifecycle: creation with recurring-series
// expansion, partial updates, and cascading deletion.
type MeetingService struct {
	MeetingRepository         domain.MeetingRepository
	WaitingRequestRepository  domain.WaitingRequestRepository
	RecordingRepository       domain.RecordingRepository
	PersonalMeetingRepository domain.PersonalMeetingRepository
	MessageBuilder            domain.MessageBuilder
	OccurrenceService         domain.OccurrenceService
	PasswordHasher            domain.PasswordHasher
	Clock                     domain.Clock
	Config                    ServiceConfig
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepository domain.MeetingRepository,
	waitingRequestRepository domain.WaitingRequestRepository,
	recordingRepository domain.RecordingRepository,
	personalMeetingRepository domain.PersonalMeetingRepository,
	messageBuilder domain.MessageBuilder,
	occurrenceService domain.OccurrenceService,
	passwordHasher domain.PasswordHasher,
	clock domain.Clock,
	config ServiceConfig,
) *MeetingService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &MeetingService{
		MeetingRepository:         meetingRepository,
		WaitingRequestRepository:  waitingRequestRepository,
		RecordingRepository:       recordingRepository,
		PersonalMeetingRepository: personalMeetingRepository,
		MessageBuilder:            messageBuilder,
		OccurrenceService:         occurrenceService,
		PasswordHasher:            passwordHasher,
		Clock:                     clock,
		Config:                    config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.WaitingRequestRepository != nil &&
		s.RecordingRepository != nil &&
		s.PersonalMeetingRepository != nil &&
		s.MessageBuilder != nil &&
		s.OccurrenceService != nil &&
		s.PasswordHasher != nil
}

// resolveMeeting fetches a meeting by UID, falling back to meeting code
// resolution so shareable codes work anywhere a meeting ID does.
func resolveMeeting(ctx context.Context, repo domain.MeetingRepository, idOrCode string) (*models.Meeting, error) {
	meeting, err := repo.Get(ctx, idOrCode)
	if err == nil {
		return meeting, nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return nil, err
	}
	return repo.GetByCode(ctx, idOrCode)
}

func (s *MeetingService) validateCreateMeetingPayload(ctx context.Context, meeting *models.Meeting) error {
	if meeting == nil {
		return domain.ErrValidationFailed
	}
	if strings.TrimSpace(meeting.Title) == "" {
		slog.WarnContext(ctx, "meeting title is required")
		return domain.NewValidationError("meeting title is required")
	}
	if meeting.Duration <= 0 {
		slog.WarnContext(ctx, "meeting duration must be positive", "duration", meeting.Duration)
		return domain.NewValidationError("meeting duration must be positive")
	}
	if meeting.StartTime.Before(s.Clock.Now()) {
		slog.WarnContext(ctx, "start time cannot be in the past", "start_time", meeting.StartTime)
		return domain.NewValidationError("start time cannot be in the past")
	}
	if meeting.WaitingRoomMode != "" && !meeting.WaitingRoomMode.IsValid() {
		slog.WarnContext(ctx, "invalid waiting room mode", "waiting_room_mode", meeting.WaitingRoomMode)
		return domain.NewValidationError("invalid waiting room mode")
	}
	if meeting.IsRecurring && meeting.RecurringPattern == "" {
		slog.WarnContext(ctx, "recurring meeting requires a pattern")
		return domain.NewValidationError("recurring meeting requires a recurring pattern")
	}
	return nil
}

// createWithFreshCode persists a meeting, regenerating the meeting code on
// collision. Collisions are vanishingly rare given the code space but the
// store treats the code index as authoritative, so retry rather than fail.
func (s *MeetingService) createWithFreshCode(ctx context.Context, meeting *models.Meeting) error {
	var lastErr error
	for attempt := 0; attempt < meetingCodeCreateAttempts; attempt++ {
		code, err := utils.GenerateMeetingCode()
		if err != nil {
			return domain.NewInternalError("failed to generate meeting code", err)
		}
		meeting.MeetingCode = code

		lastErr = s.MeetingRepository.Create(ctx, meeting)
		if lastErr == nil {
			return nil
		}
		if domain.GetErrorType(lastErr) != domain.ErrorTypeConflict {
			return lastErr
		}
		slog.WarnContext(ctx, "meeting code collision, regenerating",
			"meeting_code", code, "attempt", attempt+1)
	}
	return lastErr
}

// CreateMeeting creates a new meeting. A non-empty password turns password
// protection on. Recurring meetings synchronously materialize the remaining
// instances of the series; instance failures are logged and non-fatal, the
// root is returned either way.
func (s *MeetingService) CreateMeeting(ctx context.Context, meeting *models.Meeting, password string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	if err := s.validateCreateMeetingPayload(ctx, meeting); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	meeting.UID = uuid.NewString()
	meeting.CreatedAt = &now
	meeting.UpdatedAt = &now
	if meeting.WaitingRoomMode == "" {
		meeting.WaitingRoomMode = models.WaitingRoomModeManual
	}

	if password != "" {
		hash, err := s.PasswordHasher.Hash(password)
		if err != nil {
			slog.ErrorContext(ctx, "error hashing meeting password", logging.ErrKey, err)
			return nil, domain.NewInternalError("failed to hash meeting password", err)
		}
		meeting.PasswordHash = hash
		meeting.IsPasswordProtected = true
	} else {
		meeting.PasswordHash = ""
		meeting.IsPasswordProtected = false
	}

	if err := s.createWithFreshCode(ctx, meeting); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionCreated, *meeting); err != nil {
		slog.ErrorContext(ctx, "error sending meeting indexing message",
			logging.ErrKey, err, "meeting_uid", meeting.UID)
	}

	if meeting.IsRecurring {
		s.expandRecurringSeries(ctx, meeting)
	}

	slog.DebugContext(ctx, "created meeting",
		"meeting_uid", meeting.UID, "meeting_code", meeting.MeetingCode)

	return meeting, nil
}

// expandRecurringSeries materializes the remaining instances of a recurring
// series. The root is already committed, so instance failures leave a valid
// but shorter series; they are logged, never rolled back.
func (s *MeetingService) expandRecurringSeries(ctx context.Context, root *models.Meeting) {
	startTimes := s.OccurrenceService.InstanceStartTimes(root, s.Config.occurrenceCount())
	if len(startTimes) <= 1 {
		return
	}

	functions := make([]func() error, 0, len(startTimes)-1)
	for _, startTime := range startTimes[1:] {
		instance := *root
		instance.UID = uuid.NewString()
		instance.StartTime = startTime

		functions = append(functions, func() error {
			if err := s.createWithFreshCode(ctx, &instance); err != nil {
				return err
			}
			if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionCreated, instance); err != nil {
				slog.ErrorContext(ctx, "error sending meeting indexing message",
					logging.ErrKey, err, "meeting_uid", instance.UID)
			}
			return nil
		})
	}

	pool := concurrent.NewWorkerPool(len(functions))
	for _, err := range pool.RunAll(ctx, functions...) {
		slog.ErrorContext(ctx, "error materializing recurring meeting instance",
			logging.ErrKey, err, "root_meeting_uid", root.UID)
	}
}

// GetMeeting fetches one meeting by UID or meeting code.
func (s *MeetingService) GetMeeting(ctx context.Context, idOrCode string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	return resolveMeeting(ctx, s.MeetingRepository, idOrCode)
}

// ListMeetings fetches all meetings.
func (s *MeetingService) ListMeetings(ctx context.Context) ([]*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	return s.MeetingRepository.ListAll(ctx)
}

// UpdateMeeting applies a partial update to a meeting. Only the host or an
// admin may update. Password handling preserves the present-but-null
// distinction: an absent password leaves protection unchanged, an explicit
// null or empty value clears it, a non-empty value re-hashes it.
func (s *MeetingService) UpdateMeeting(ctx context.Context, caller *models.Caller, meetingUID string, update *models.MeetingUpdate) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	if update == nil {
		return nil, domain.ErrValidationFailed
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return nil, domain.NewForbiddenError("only the meeting host can update the meeting")
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, domain.NewValidationError("meeting title is required")
		}
		meeting.Title = *update.Title
	}
	if update.Description != nil {
		meeting.Description = *update.Description
	}
	if update.StartTime != nil {
		meeting.StartTime = *update.StartTime
	}
	if update.Duration != nil {
		if *update.Duration <= 0 {
			return nil, domain.NewValidationError("meeting duration must be positive")
		}
		meeting.Duration = *update.Duration
	}
	if update.WaitingRoomMode != nil {
		if !update.WaitingRoomMode.IsValid() {
			return nil, domain.NewValidationError("invalid waiting room mode")
		}
		meeting.WaitingRoomMode = *update.WaitingRoomMode
	}
	if update.HasWaitingRoom != nil {
		meeting.HasWaitingRoom = *update.HasWaitingRoom
	}
	if update.RecurringPattern != nil {
		meeting.RecurringPattern = *update.RecurringPattern
	}
	if update.RecordingEnabled != nil {
		meeting.RecordingEnabled = *update.RecordingEnabled
	}
	if update.PasswordSet {
		if update.Password == nil || *update.Password == "" {
			meeting.PasswordHash = ""
			meeting.IsPasswordProtected = false
		} else {
			hash, err := s.PasswordHasher.Hash(*update.Password)
			if err != nil {
				slog.ErrorContext(ctx, "error hashing meeting password", logging.ErrKey, err)
				return nil, domain.NewInternalError("failed to hash meeting password", err)
			}
			meeting.PasswordHash = hash
			meeting.IsPasswordProtected = true
		}
	}

	now := s.Clock.Now()
	meeting.UpdatedAt = &now

	if err := s.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return nil, err
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionUpdated, *meeting); err != nil {
		slog.ErrorContext(ctx, "error sending meeting indexing message",
			logging.ErrKey, err, "meeting_uid", meeting.UID)
	}

	return meeting, nil
}

// DeleteMeeting deletes a meeting and cascades to its waiting requests,
// recordings (local capture files included) and personal-meeting mappings.
// Only the host or an admin may delete.
func (s *MeetingService) DeleteMeeting(ctx context.Context, caller *models.Caller, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.ErrServiceUnavailable
	}

	meeting, revision, err := s.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return domain.NewForbiddenError("only the meeting host can delete the meeting")
	}

	// Snapshot recordings before they go so local files can be removed.
	recordings, err := s.RecordingRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing recordings for cascade",
			logging.ErrKey, err, "meeting_uid", meetingUID)
		recordings = nil
	}

	if err := s.MeetingRepository.Delete(ctx, meetingUID, revision); err != nil {
		return err
	}

	pool := concurrent.NewWorkerPool(3)
	for _, cascadeErr := range pool.RunAll(ctx,
		func() error {
			return s.WaitingRequestRepository.DeleteByMeeting(ctx, meetingUID)
		},
		func() error {
			return s.RecordingRepository.DeleteByMeeting(ctx, meetingUID)
		},
		func() error {
			return s.PersonalMeetingRepository.DeleteByMeeting(ctx, meetingUID)
		},
	) {
		slog.ErrorContext(ctx, "error cascading meeting deletion",
			logging.ErrKey, cascadeErr, "meeting_uid", meetingUID)
	}

	for _, recording := range recordings {
		s.removeLocalRecordingFile(ctx, recording)
		if err := s.MessageBuilder.SendDeleteIndexRecording(ctx, recording.UID); err != nil {
			slog.ErrorContext(ctx, "error sending recording deletion indexing message",
				logging.ErrKey, err, "recording_uid", recording.UID)
		}
	}

	if err := s.MessageBuilder.SendDeleteIndexMeeting(ctx, meetingUID); err != nil {
		slog.ErrorContext(ctx, "error sending meeting deletion indexing message",
			logging.ErrKey, err, "meeting_uid", meetingUID)
	}
	if err := s.MessageBuilder.SendMeetingDeleted(ctx, meetingUID); err != nil {
		slog.ErrorContext(ctx, "error sending meeting deleted message",
			logging.ErrKey, err, "meeting_uid", meetingUID)
	}

	slog.DebugContext(ctx, "deleted meeting", "meeting_uid", meetingUID)

	return nil
}

// removeLocalRecordingFile removes a locally stored capture file. Removal is
// best-effort; the stored rows are already authoritative.
func (s *MeetingService) removeLocalRecordingFile(ctx context.Context, recording *models.Recording) {
	if recording == nil || !strings.HasPrefix(recording.RecordingURL, localRecordingURLPrefix) {
		return
	}
	path := filepath.Join(s.Config.RecordingOutputDir, filepath.Base(recording.RecordingURL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.WarnContext(ctx, "failed to remove local recording file",
			logging.ErrKey, err, "recording_uid", recording.UID, "path", path)
	}
}

// GetMeetingTitle resolves a meeting title by UID for the request/reply
// messaging surface.
func (s *MeetingService) GetMeetingTitle(ctx context.Context, meetingUID string) (string, error) {
	if !s.ServiceReady() {
		return "", domain.ErrServiceUnavailable
	}
	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return "", err
	}
	return meeting.Title, nil
}
