// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
)

// NatsMeetingRepository is the NATS KV store repository for meetings.
// Alongside each meeting entity it maintains a meeting-code index entry whose
// exclusive creation is the uniqueness constraint on meeting codes.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
	keyBuilder *KeyBuilder
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(meetings INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](meetings, "meeting"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsMeetingRepository) entityKey(meetingUID string) string {
	return r.keyBuilder.EntityKey(KeyPrefixMeeting, meetingUID)
}

func (r *NatsMeetingRepository) codeKey(meetingCode string) string {
	return r.keyBuilder.IndexKey(KeyPrefixIndexCode, meetingCode)
}

func (r *NatsMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	// Claim the meeting code first so that two meetings can never share one,
	// recurring instances included.
	if err := r.CreateIndex(ctx, r.codeKey(meeting.MeetingCode), meeting.UID); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return domain.NewConflictError("meeting code already in use", err)
		}
		return err
	}

	if err := r.NatsBaseRepository.Create(ctx, r.entityKey(meeting.UID), meeting); err != nil {
		// Release the code claim so a retry with the same code can succeed.
		if delErr := r.DeleteIndex(ctx, r.codeKey(meeting.MeetingCode)); delErr != nil {
			slog.WarnContext(ctx, "failed to release meeting code after create failure",
				logging.ErrKey, delErr, "meeting_code", meeting.MeetingCode)
		}
		return err
	}

	return nil
}

func (r *NatsMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	meeting, _, err := r.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	return meeting, nil
}

func (r *NatsMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	meeting, revision, err := r.NatsBaseRepository.GetWithRevision(ctx, r.entityKey(meetingUID))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, 0, domain.ErrMeetingNotFound
		}
		return nil, 0, err
	}
	return meeting, revision, nil
}

func (r *NatsMeetingRepository) GetByCode(ctx context.Context, meetingCode string) (*models.Meeting, error) {
	meetingUID, err := r.GetIndex(ctx, r.codeKey(meetingCode))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, domain.ErrMeetingNotFound
		}
		return nil, err
	}
	return r.Get(ctx, meetingUID)
}

func (r *NatsMeetingRepository) Exists(ctx context.Context, meetingUID string) (bool, error) {
	return r.NatsBaseRepository.Exists(ctx, r.entityKey(meetingUID))
}

func (r *NatsMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, r.entityKey(meeting.UID), meeting, revision)
}

func (r *NatsMeetingRepository) Delete(ctx context.Context, meetingUID string, revision uint64) error {
	meeting, err := r.Get(ctx, meetingUID)
	if err != nil {
		return err
	}

	if err := r.NatsBaseRepository.Delete(ctx, r.entityKey(meetingUID), revision); err != nil {
		return err
	}

	// Release the meeting code. A failure here leaks an index entry but the
	// meeting itself is gone, so log and move on.
	if err := r.DeleteIndex(ctx, r.codeKey(meeting.MeetingCode)); err != nil {
		slog.WarnContext(ctx, "failed to delete meeting code index",
			logging.ErrKey, err, "meeting_uid", meetingUID, "meeting_code", meeting.MeetingCode)
	}

	return nil
}

func (r *NatsMeetingRepository) ListAll(ctx context.Context) ([]*models.Meeting, error) {
	meetings, err := r.ListEntities(ctx, KeyPrefixMeeting+"/")
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// Compile-time interface check
var _ domain.MeetingRepository = (*NatsMeetingRepository)(nil)
