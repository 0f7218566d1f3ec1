// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// MeetingRepository defines the interface for meeting storage operations.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, etc.)
type MeetingRepository interface {
	// Create persists a new meeting and claims its meeting code. It fails
	// with a conflict error if the code is already claimed by any meeting,
	// recurring instances included.
	Create(ctx context.Context, meeting *models.Meeting) error

	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)
	GetByCode(ctx context.Context, meetingCode string) (*models.Meeting, error)
	Exists(ctx context.Context, meetingUID string) (bool, error)
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error

	// Delete removes the meeting and releases its meeting code.
	Delete(ctx context.Context, meetingUID string, revision uint64) error

	ListAll(ctx context.Context) ([]*models.Meeting, error)
}

// WaitingRequestRepository defines the interface for waiting-room request storage.
type WaitingRequestRepository interface {
	Create(ctx context.Context, request *models.WaitingRequest) error
	Get(ctx context.Context, meetingUID, requestUID string) (*models.WaitingRequest, error)
	GetWithRevision(ctx context.Context, meetingUID, requestUID string) (*models.WaitingRequest, uint64, error)
	Update(ctx context.Context, request *models.WaitingRequest, revision uint64) error
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.WaitingRequest, error)
	DeleteByMeeting(ctx context.Context, meetingUID string) error
}

// RecordingRepository defines the interface for recording storage.
type RecordingRepository interface {
	// Create persists a new recording and, when its status is "recording",
	// claims the meeting's active-recording slot. It fails with a conflict
	// error if the slot is already claimed.
	Create(ctx context.Context, recording *models.Recording) error

	Get(ctx context.Context, meetingUID, recordingUID string) (*models.Recording, error)
	GetWithRevision(ctx context.Context, meetingUID, recordingUID string) (*models.Recording, uint64, error)

	// Update persists the recording and releases the meeting's
	// active-recording slot when the status is no longer "recording".
	Update(ctx context.Context, recording *models.Recording, revision uint64) error

	Delete(ctx context.Context, meetingUID, recordingUID string) error
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.Recording, error)
	ActiveExists(ctx context.Context, meetingUID string) (bool, error)
	DeleteByMeeting(ctx context.Context, meetingUID string) error
}

// PersonalMeetingRepository defines the interface for user personal-meeting mappings.
type PersonalMeetingRepository interface {
	// Create persists the mapping for a user. It fails with a conflict error
	// if the user already has one.
	Create(ctx context.Context, personalMeeting *models.PersonalMeeting) error

	GetByUser(ctx context.Context, userUID string) (*models.PersonalMeeting, error)
	DeleteByMeeting(ctx context.Context, meetingUID string) error
}
