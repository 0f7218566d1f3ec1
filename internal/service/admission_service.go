// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
	"github.com/classlive/meeting-access-service/pkg/utils"
)

// Join outcome statuses returned to clients.
const (
	JoinStatusJoined  = "joined"
	JoinStatusWaiting = "waiting"
)

// JoinResult is the outcome of a join request: either immediate admission
// with a room credential, or a waiting-room ticket to poll.
type JoinResult struct {
	Status     string `json:"status"`
	Credential string `json:"credential,omitempty"`
	Identity   string `json:"identity,omitempty"`
	Room       string `json:"room,omitempty"`
	RequestUID string `json:"request_uid,omitempty"`
}

// PollResult is the current admission state of a waiting-room request. The
// credential is present only when the request is approved.
type PollResult struct {
	Status     models.WaitingRequestStatus `json:"status"`
	Credential string                      `json:"credential,omitempty"`
	Identity   string                      `json:"identity,omitempty"`
	Room       string                      `json:"room,omitempty"`
}

// AdmissionService decides who gets into a room and when: the waiting-room
// state machine, the password gate, and credential issuance.
type AdmissionService struct {
	MeetingRepository        domain.MeetingRepository
	WaitingRequestRepository domain.WaitingRequestRepository
	CredentialIssuer         domain.CredentialIssuer
	PasswordHasher           domain.PasswordHasher
	Clock                    domain.Clock
}

// NewAdmissionService creates a new AdmissionService.
func NewAdmissionService(
	meetingRepository domain.MeetingRepository,
	waitingRequestRepository domain.WaitingRequestRepository,
	credentialIssuer domain.CredentialIssuer,
	passwordHasher domain.PasswordHasher,
	clock domain.Clock,
) *AdmissionService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &AdmissionService{
		MeetingRepository:        meetingRepository,
		WaitingRequestRepository: waitingRequestRepository,
		CredentialIssuer:         credentialIssuer,
		PasswordHasher:           passwordHasher,
		Clock:                    clock,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *AdmissionService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.WaitingRequestRepository != nil &&
		s.CredentialIssuer != nil &&
		s.PasswordHasher != nil
}

// checkPassword enforces the meeting password gate. Hosts and admins are
// exempt. The two failure messages are distinct so clients can tell a missing
// password from a wrong one.
func (s *AdmissionService) checkPassword(meeting *models.Meeting, caller *models.Caller, password string) error {
	if !meeting.IsPasswordProtected {
		return nil
	}
	if models.IsHostOrAdmin(meeting, caller) {
		return nil
	}
	if password == "" {
		return domain.NewForbiddenError("meeting password required")
	}
	if err := s.PasswordHasher.Verify(meeting.PasswordHash, password); err != nil {
		return domain.NewForbiddenError("invalid meeting password")
	}
	return nil
}

// admitsImmediately is the admission predicate: hosts and admins always get
// in, auto mode admits everyone, auth-auto admits authenticated callers.
func admitsImmediately(meeting *models.Meeting, caller *models.Caller) bool {
	if models.IsHostOrAdmin(meeting, caller) {
		return true
	}
	switch meeting.WaitingRoomMode {
	case models.WaitingRoomModeAuto:
		return true
	case models.WaitingRoomModeAuthAuto:
		return caller.IsAuthenticated()
	}
	return false
}

// joinIdentity picks the participant identity for an immediate admit:
// authenticated callers keep a stable user identity, guests get a random one.
func joinIdentity(caller *models.Caller) (string, error) {
	if caller.IsAuthenticated() {
		return utils.UserIdentity(caller.UID), nil
	}
	return utils.GenerateGuestIdentity()
}

func displayName(caller *models.Caller, requestedName string) string {
	if name := strings.TrimSpace(requestedName); name != "" {
		return name
	}
	if caller != nil && caller.Name != "" {
		return caller.Name
	}
	return "Guest"
}

// RequestJoin processes a join request for a meeting identified by UID or
// meeting code. Callers admitted immediately receive a room credential;
// everyone else gets a pending waiting-room request to poll.
func (s *AdmissionService) RequestJoin(ctx context.Context, caller *models.Caller, meetingIDOrCode, name, password string) (*JoinResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := resolveMeeting(ctx, s.MeetingRepository, meetingIDOrCode)
	if err != nil {
		return nil, err
	}

	if err := s.checkPassword(meeting, caller, password); err != nil {
		slog.WarnContext(ctx, "join request failed password gate",
			"meeting_uid", meeting.UID)
		return nil, err
	}

	participantName := displayName(caller, name)

	if admitsImmediately(meeting, caller) {
		identity, err := joinIdentity(caller)
		if err != nil {
			return nil, domain.NewInternalError("failed to generate participant identity", err)
		}
		credential, err := s.CredentialIssuer.Mint(domain.RoomGrant{
			Room:     meeting.MeetingCode,
			Identity: identity,
			Name:     participantName,
			IsHost:   models.IsHostOrAdmin(meeting, caller),
		})
		if err != nil {
			return nil, err
		}
		slog.DebugContext(ctx, "admitted participant",
			"meeting_uid", meeting.UID, "identity", identity)
		return &JoinResult{
			Status:     JoinStatusJoined,
			Credential: credential,
			Identity:   identity,
			Room:       meeting.MeetingCode,
		}, nil
	}

	// Waiting-room participants always get a guest-style identity, even
	// when authenticated; the identity is fixed at creation so approval can
	// mint for the same participant later.
	identity, err := utils.GenerateGuestIdentity()
	if err != nil {
		return nil, domain.NewInternalError("failed to generate participant identity", err)
	}

	now := s.Clock.Now()
	request := &models.WaitingRequest{
		UID:        uuid.NewString(),
		MeetingUID: meeting.UID,
		Name:       participantName,
		Identity:   identity,
		Status:     models.WaitingRequestStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if caller.IsAuthenticated() {
		request.UserUID = utils.StringPtr(caller.UID)
	}

	if err := s.WaitingRequestRepository.Create(ctx, request); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "queued waiting-room request",
		"meeting_uid", meeting.UID, "request_uid", request.UID)

	return &JoinResult{
		Status:     JoinStatusWaiting,
		RequestUID: request.UID,
	}, nil
}

// ListWaiting returns the pending waiting-room requests for a meeting in
// arrival order. Only the host or an admin may view the list.
func (s *AdmissionService) ListWaiting(ctx context.Context, caller *models.Caller, meetingUID string) ([]*models.WaitingRequest, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return nil, domain.NewForbiddenError("only the meeting host can view the waiting room")
	}

	requests, err := s.WaitingRequestRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	pending := make([]*models.WaitingRequest, 0, len(requests))
	for _, request := range requests {
		if request.Status == models.WaitingRequestStatusPending {
			pending = append(pending, request)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	return pending, nil
}

// PollRequest returns the current state of a waiting-room request. No
// authorization is required: the request UID is the capability. A credential
// is minted on every poll that observes the approved status, using the
// identity fixed at creation, so polling is safe to repeat.
func (s *AdmissionService) PollRequest(ctx context.Context, meetingUID, requestUID string) (*PollResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	request, err := s.WaitingRequestRepository.Get(ctx, meetingUID, requestUID)
	if err != nil {
		return nil, err
	}

	result := &PollResult{Status: request.Status}
	if request.Status != models.WaitingRequestStatusApproved {
		return result, nil
	}

	// Credentials name the room by its shareable meeting code.
	meeting, err := s.MeetingRepository.Get(ctx, request.MeetingUID)
	if err != nil {
		return nil, err
	}

	credential, err := s.CredentialIssuer.Mint(domain.RoomGrant{
		Room:     meeting.MeetingCode,
		Identity: request.Identity,
		Name:     request.Name,
	})
	if err != nil {
		return nil, err
	}
	result.Credential = credential
	result.Identity = request.Identity
	result.Room = meeting.MeetingCode

	return result, nil
}

// resolveRequest transitions a waiting-room request to the given status. The
// transition is idempotent: resolving to the current status is a no-op, and
// the host may override a previous decision in either direction.
func (s *AdmissionService) resolveRequest(ctx context.Context, caller *models.Caller, meetingUID, requestUID string, status models.WaitingRequestStatus) (*models.WaitingRequest, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		return nil, err
	}
	if !models.IsHostOrAdmin(meeting, caller) {
		return nil, domain.NewForbiddenError("only the meeting host can resolve waiting-room requests")
	}

	request, revision, err := s.WaitingRequestRepository.GetWithRevision(ctx, meetingUID, requestUID)
	if err != nil {
		return nil, err
	}
	if request.Status == status {
		return request, nil
	}

	request.Status = status
	request.UpdatedAt = s.Clock.Now()

	if err := s.WaitingRequestRepository.Update(ctx, request, revision); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "resolved waiting-room request",
		"meeting_uid", meetingUID, "request_uid", requestUID, "status", status)

	return request, nil
}

// ApproveRequest admits a waiting participant. The participant picks up the
// credential on their next poll.
func (s *AdmissionService) ApproveRequest(ctx context.Context, caller *models.Caller, meetingUID, requestUID string) (*models.WaitingRequest, error) {
	return s.resolveRequest(ctx, caller, meetingUID, requestUID, models.WaitingRequestStatusApproved)
}

// DenyRequest turns a waiting participant away.
func (s *AdmissionService) DenyRequest(ctx context.Context, caller *models.Caller, meetingUID, requestUID string) (*models.WaitingRequest, error) {
	return s.resolveRequest(ctx, caller, meetingUID, requestUID, models.WaitingRequestStatusDenied)
}
