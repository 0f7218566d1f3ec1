// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
)

// NatsRecordingRepository is the NATS KV store repository for recordings.
// The at-most-one-active-recording-per-meeting rule is enforced here, not in
// the services: creating a recording with status "recording" claims the
// meeting's active slot with an exclusive create, so two concurrent start
// requests cannot both succeed even though the service-level check is a
// read-then-act.
type NatsRecordingRepository struct {
	*NatsBaseRepository[models.Recording]
	keyBuilder *KeyBuilder
}

// NewNatsRecordingRepository creates a new NATS KV store repository for recordings.
func NewNatsRecordingRepository(recordings INatsKeyValue) *NatsRecordingRepository {
	return &NatsRecordingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Recording](recordings, "recording"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsRecordingRepository) entityKey(meetingUID, recordingUID string) string {
	return r.keyBuilder.ScopedEntityKey(KeyPrefixRecording, meetingUID, recordingUID)
}

func (r *NatsRecordingRepository) activeKey(meetingUID string) string {
	return r.keyBuilder.IndexKey(KeyPrefixIndexActive, meetingUID)
}

func (r *NatsRecordingRepository) meetingPrefix(meetingUID string) string {
	return r.keyBuilder.CompoundKey(KeyPrefixRecording, meetingUID) + "/"
}

func (r *NatsRecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	if recording.Status == models.RecordingStatusRecording {
		if err := r.CreateIndex(ctx, r.activeKey(recording.MeetingUID), recording.UID); err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeConflict {
				return domain.ErrRecordingActive
			}
			return err
		}
	}

	if err := r.NatsBaseRepository.Create(ctx, r.entityKey(recording.MeetingUID, recording.UID), recording); err != nil {
		if recording.Status == models.RecordingStatusRecording {
			if delErr := r.DeleteIndex(ctx, r.activeKey(recording.MeetingUID)); delErr != nil {
				slog.WarnContext(ctx, "failed to release active recording slot after create failure",
					logging.ErrKey, delErr, "meeting_uid", recording.MeetingUID)
			}
		}
		return err
	}

	return nil
}

func (r *NatsRecordingRepository) Get(ctx context.Context, meetingUID, recordingUID string) (*models.Recording, error) {
	recording, _, err := r.GetWithRevision(ctx, meetingUID, recordingUID)
	if err != nil {
		return nil, err
	}
	return recording, nil
}

func (r *NatsRecordingRepository) GetWithRevision(ctx context.Context, meetingUID, recordingUID string) (*models.Recording, uint64, error) {
	recording, revision, err := r.NatsBaseRepository.GetWithRevision(ctx, r.entityKey(meetingUID, recordingUID))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, 0, domain.ErrRecordingNotFound
		}
		return nil, 0, err
	}
	return recording, revision, nil
}

func (r *NatsRecordingRepository) Update(ctx context.Context, recording *models.Recording, revision uint64) error {
	if err := r.NatsBaseRepository.Update(ctx, r.entityKey(recording.MeetingUID, recording.UID), recording, revision); err != nil {
		return err
	}

	if recording.Status != models.RecordingStatusRecording {
		r.releaseActiveSlot(ctx, recording.MeetingUID, recording.UID)
	}

	return nil
}

// releaseActiveSlot deletes the meeting's active-recording slot if it is held
// by the given recording.
func (r *NatsRecordingRepository) releaseActiveSlot(ctx context.Context, meetingUID, recordingUID string) {
	holder, err := r.GetIndex(ctx, r.activeKey(meetingUID))
	if err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "failed to read active recording slot",
				logging.ErrKey, err, "meeting_uid", meetingUID)
		}
		return
	}
	if holder != recordingUID {
		return
	}
	if err := r.DeleteIndex(ctx, r.activeKey(meetingUID)); err != nil {
		slog.WarnContext(ctx, "failed to release active recording slot",
			logging.ErrKey, err, "meeting_uid", meetingUID)
	}
}

func (r *NatsRecordingRepository) Delete(ctx context.Context, meetingUID, recordingUID string) error {
	if err := r.DeleteWithoutRevision(ctx, r.entityKey(meetingUID, recordingUID)); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return domain.ErrRecordingNotFound
		}
		return err
	}

	r.releaseActiveSlot(ctx, meetingUID, recordingUID)
	return nil
}

func (r *NatsRecordingRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.Recording, error) {
	return r.ListEntities(ctx, r.meetingPrefix(meetingUID))
}

func (r *NatsRecordingRepository) ActiveExists(ctx context.Context, meetingUID string) (bool, error) {
	_, err := r.GetIndex(ctx, r.activeKey(meetingUID))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *NatsRecordingRepository) DeleteByMeeting(ctx context.Context, meetingUID string) error {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return err
	}

	prefix := r.meetingPrefix(meetingUID)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := r.DeleteWithoutRevision(ctx, key); err != nil {
			slog.WarnContext(ctx, "failed to delete recording during cascade",
				logging.ErrKey, err, "key", key, "meeting_uid", meetingUID)
		}
	}

	if err := r.DeleteIndex(ctx, r.activeKey(meetingUID)); err != nil {
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "failed to delete active recording slot during cascade",
				logging.ErrKey, err, "meeting_uid", meetingUID)
		}
	}

	return nil
}

// Compile-time interface check
var _ domain.RecordingRepository = (*NatsRecordingRepository)(nil)
