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

// NatsPersonalMeetingRepository is the NATS KV store repository for the 1:1
// user to personal-meeting mappings. Mappings are keyed by user UID, so the
// per-user uniqueness invariant is the key itself.
type NatsPersonalMeetingRepository struct {
	*NatsBaseRepository[models.PersonalMeeting]
	keyBuilder *KeyBuilder
}

// NewNatsPersonalMeetingRepository creates a new NATS KV store repository for personal meetings.
func NewNatsPersonalMeetingRepository(personalMeetings INatsKeyValue) *NatsPersonalMeetingRepository {
	return &NatsPersonalMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.PersonalMeeting](personalMeetings, "personal meeting"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsPersonalMeetingRepository) entityKey(userUID string) string {
	return r.keyBuilder.EntityKey(KeyPrefixPersonalMeeting, userUID)
}

func (r *NatsPersonalMeetingRepository) Create(ctx context.Context, personalMeeting *models.PersonalMeeting) error {
	return r.NatsBaseRepository.Create(ctx, r.entityKey(personalMeeting.UserUID), personalMeeting)
}

func (r *NatsPersonalMeetingRepository) GetByUser(ctx context.Context, userUID string) (*models.PersonalMeeting, error) {
	return r.NatsBaseRepository.Get(ctx, r.entityKey(userUID))
}

func (r *NatsPersonalMeetingRepository) DeleteByMeeting(ctx context.Context, meetingUID string) error {
	mappings, err := r.ListEntities(ctx, KeyPrefixPersonalMeeting+"/")
	if err != nil {
		return err
	}

	for _, mapping := range mappings {
		if mapping.MeetingUID != meetingUID {
			continue
		}
		if err := r.DeleteWithoutRevision(ctx, r.entityKey(mapping.UserUID)); err != nil {
			slog.WarnContext(ctx, "failed to delete personal meeting mapping during cascade",
				logging.ErrKey, err, "meeting_uid", meetingUID, "user_uid", mapping.UserUID)
		}
	}

	return nil
}

// Compile-time interface check
var _ domain.PersonalMeetingRepository = (*NatsPersonalMeetingRepository)(nil)
