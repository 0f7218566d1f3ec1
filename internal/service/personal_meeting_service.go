// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
	"github.com/classlive/meeting-access-service/pkg/utils"
)

// Personal meeting defaults. The room is always-available, so it gets the
// strictest admission mode and a waiting room by default; the host can
// loosen both afterwards through a normal meeting update.
const (
	personalMeetingDuration = 60
)

// PersonalMeetingService maintains the lazy 1:1 mapping from a user to their
// always-available personal room.
type PersonalMeetingService struct {
	MeetingRepository         domain.MeetingRepository
	PersonalMeetingRepository domain.PersonalMeetingRepository
	MessageBuilder            domain.MessageBuilder
	Clock                     domain.Clock
}

// NewPersonalMeetingService creates a new PersonalMeetingService.
func NewPersonalMeetingService(
	meetingRepository domain.MeetingRepository,
	personalMeetingRepository domain.PersonalMeetingRepository,
	messageBuilder domain.MessageBuilder,
	clock domain.Clock,
) *PersonalMeetingService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &PersonalMeetingService{
		MeetingRepository:         meetingRepository,
		PersonalMeetingRepository: personalMeetingRepository,
		MessageBuilder:            messageBuilder,
		Clock:                     clock,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *PersonalMeetingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.PersonalMeetingRepository != nil &&
		s.MessageBuilder != nil
}

// GetOrCreate returns the caller's personal meeting, creating both the
// underlying meeting and the mapping on first access. Repeated calls return
// the same meeting UID and code. Guests have no personal meeting.
func (s *PersonalMeetingService) GetOrCreate(ctx context.Context, caller *models.Caller) (*models.PersonalMeeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	if !caller.IsAuthenticated() {
		return nil, domain.NewForbiddenError("personal meetings require authentication")
	}

	existing, err := s.PersonalMeetingRepository.GetByUser(ctx, caller.UID)
	if err == nil {
		return existing, nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return nil, err
	}

	meeting, err := s.createPersonalRoom(ctx, caller)
	if err != nil {
		return nil, err
	}

	mapping := &models.PersonalMeeting{
		UID:                 uuid.NewString(),
		UserUID:             caller.UID,
		MeetingUID:          meeting.UID,
		PersonalMeetingCode: meeting.MeetingCode,
		CreatedAt:           s.Clock.Now(),
	}

	if err := s.PersonalMeetingRepository.Create(ctx, mapping); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// Lost the first-access race; the winner's mapping is the
			// stable one, so return it and drop ours.
			slog.WarnContext(ctx, "lost personal meeting creation race",
				"user_uid", caller.UID, "orphan_meeting_uid", meeting.UID)
			return s.PersonalMeetingRepository.GetByUser(ctx, caller.UID)
		}
		return nil, err
	}

	slog.DebugContext(ctx, "created personal meeting",
		"user_uid", caller.UID, "meeting_uid", meeting.UID)

	return mapping, nil
}

// createPersonalRoom creates the always-available meeting behind a personal
// room. It bypasses the scheduling validation of regular meeting creation:
// a personal room has no meaningful start time.
func (s *PersonalMeetingService) createPersonalRoom(ctx context.Context, caller *models.Caller) (*models.Meeting, error) {
	title := fmt.Sprintf("%s's Personal Meeting", caller.Name)
	if caller.Name == "" {
		title = "Personal Meeting"
	}

	now := s.Clock.Now()
	meeting := &models.Meeting{
		UID:             uuid.NewString(),
		Title:           title,
		StartTime:       now,
		Duration:        personalMeetingDuration,
		HostUID:         utils.StringPtr(caller.UID),
		HostName:        caller.Name,
		WaitingRoomMode: models.WaitingRoomModeManual,
		HasWaitingRoom:  true,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}

	var lastErr error
	for attempt := 0; attempt < meetingCodeCreateAttempts; attempt++ {
		code, err := utils.GenerateMeetingCode()
		if err != nil {
			return nil, domain.NewInternalError("failed to generate meeting code", err)
		}
		meeting.MeetingCode = code

		lastErr = s.MeetingRepository.Create(ctx, meeting)
		if lastErr == nil {
			break
		}
		if domain.GetErrorType(lastErr) != domain.ErrorTypeConflict {
			return nil, lastErr
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	if err := s.MessageBuilder.SendIndexMeeting(ctx, models.ActionCreated, *meeting); err != nil {
		slog.ErrorContext(ctx, "error sending meeting indexing message",
			logging.ErrKey, err, "meeting_uid", meeting.UID)
	}

	return meeting, nil
}
