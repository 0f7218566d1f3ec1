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

// NatsWaitingRequestRepository is the NATS KV store repository for
// waiting-room requests. Requests are keyed under their meeting so that a
// meeting's requests can be listed with a prefix scan and removed together
// when the meeting is deleted.
type NatsWaitingRequestRepository struct {
	*NatsBaseRepository[models.WaitingRequest]
	keyBuilder *KeyBuilder
}

// NewNatsWaitingRequestRepository creates a new NATS KV store repository for waiting requests.
func NewNatsWaitingRequestRepository(requests INatsKeyValue) *NatsWaitingRequestRepository {
	return &NatsWaitingRequestRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.WaitingRequest](requests, "waiting request"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsWaitingRequestRepository) entityKey(meetingUID, requestUID string) string {
	return r.keyBuilder.ScopedEntityKey(KeyPrefixWaitingRequest, meetingUID, requestUID)
}

func (r *NatsWaitingRequestRepository) meetingPrefix(meetingUID string) string {
	return r.keyBuilder.CompoundKey(KeyPrefixWaitingRequest, meetingUID) + "/"
}

func (r *NatsWaitingRequestRepository) Create(ctx context.Context, request *models.WaitingRequest) error {
	return r.NatsBaseRepository.Create(ctx, r.entityKey(request.MeetingUID, request.UID), request)
}

func (r *NatsWaitingRequestRepository) Get(ctx context.Context, meetingUID, requestUID string) (*models.WaitingRequest, error) {
	request, _, err := r.GetWithRevision(ctx, meetingUID, requestUID)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *NatsWaitingRequestRepository) GetWithRevision(ctx context.Context, meetingUID, requestUID string) (*models.WaitingRequest, uint64, error) {
	request, revision, err := r.NatsBaseRepository.GetWithRevision(ctx, r.entityKey(meetingUID, requestUID))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, 0, domain.ErrWaitingRequestNotFound
		}
		return nil, 0, err
	}
	return request, revision, nil
}

func (r *NatsWaitingRequestRepository) Update(ctx context.Context, request *models.WaitingRequest, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, r.entityKey(request.MeetingUID, request.UID), request, revision)
}

func (r *NatsWaitingRequestRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.WaitingRequest, error) {
	return r.ListEntities(ctx, r.meetingPrefix(meetingUID))
}

func (r *NatsWaitingRequestRepository) DeleteByMeeting(ctx context.Context, meetingUID string) error {
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
			slog.WarnContext(ctx, "failed to delete waiting request during cascade",
				logging.ErrKey, err, "key", key, "meeting_uid", meetingUID)
		}
	}

	return nil
}

// Compile-time interface check
var _ domain.WaitingRequestRepository = (*NatsWaitingRequestRepository)(nil)
