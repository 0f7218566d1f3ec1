// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/mocks"
	"github.com/classlive/meeting-access-service/internal/domain/models"
)

type personalMeetingServiceMocks struct {
	meetingRepo         *mocks.MockMeetingRepository
	personalMeetingRepo *mocks.MockPersonalMeetingRepository
	messageBuilder      *mocks.MockMessageBuilder
}

func newTestPersonalMeetingService(clock domain.Clock) (*PersonalMeetingService, *personalMeetingServiceMocks) {
	m := &personalMeetingServiceMocks{
		meetingRepo:         &mocks.MockMeetingRepository{},
		personalMeetingRepo: &mocks.MockPersonalMeetingRepository{},
		messageBuilder:      &mocks.MockMessageBuilder{},
	}
	service := NewPersonalMeetingService(
		m.meetingRepo,
		m.personalMeetingRepo,
		m.messageBuilder,
		clock,
	)
	return service, m
}

func TestPersonalMeetingService_GetOrCreate_FirstAccess(t *testing.T) {
	clock := testClock()
	service, m := newTestPersonalMeetingService(clock)

	m.personalMeetingRepo.On("GetByUser", mock.Anything, "alice").
		Return(nil, domain.NewNotFoundError("personal meeting not found"))

	var createdMeeting *models.Meeting
	m.meetingRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		createdMeeting = args.Get(1).(*models.Meeting)
	}).Return(nil)
	m.messageBuilder.On("SendIndexMeeting", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)
	m.personalMeetingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	caller := &models.Caller{UID: "alice", Name: "Alice", Role: models.CallerRoleUser}
	mapping, err := service.GetOrCreate(context.Background(), caller)

	require.NoError(t, err)
	require.NotNil(t, createdMeeting)
	assert.Equal(t, "alice", mapping.UserUID)
	assert.Equal(t, createdMeeting.UID, mapping.MeetingUID)
	assert.Equal(t, createdMeeting.MeetingCode, mapping.PersonalMeetingCode)
	assert.Equal(t, "Alice's Personal Meeting", createdMeeting.Title)
	assert.Equal(t, models.WaitingRoomModeManual, createdMeeting.WaitingRoomMode)
	assert.True(t, createdMeeting.HasWaitingRoom)
	require.NotNil(t, createdMeeting.HostUID)
	assert.Equal(t, "alice", *createdMeeting.HostUID)
	assert.Equal(t, clock.Now(), mapping.CreatedAt)
}

func TestPersonalMeetingService_GetOrCreate_ReturnsExistingMapping(t *testing.T) {
	service, m := newTestPersonalMeetingService(testClock())

	existing := &models.PersonalMeeting{
		UID:                 "pm-1",
		UserUID:             "alice",
		MeetingUID:          "meeting-1",
		PersonalMeetingCode: "ABCD-EFGH-JKMN",
	}
	m.personalMeetingRepo.On("GetByUser", mock.Anything, "alice").Return(existing, nil)

	caller := &models.Caller{UID: "alice", Name: "Alice", Role: models.CallerRoleUser}

	first, err := service.GetOrCreate(context.Background(), caller)
	require.NoError(t, err)
	second, err := service.GetOrCreate(context.Background(), caller)
	require.NoError(t, err)

	assert.Equal(t, first.MeetingUID, second.MeetingUID)
	assert.Equal(t, first.PersonalMeetingCode, second.PersonalMeetingCode)
	m.meetingRepo.AssertNotCalled(t, "Create")
}

func TestPersonalMeetingService_GetOrCreate_GuestForbidden(t *testing.T) {
	service, m := newTestPersonalMeetingService(testClock())

	_, err := service.GetOrCreate(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeForbidden, domain.GetErrorType(err))
	m.personalMeetingRepo.AssertNotCalled(t, "GetByUser")
}

func TestPersonalMeetingService_GetOrCreate_LostRaceReturnsWinner(t *testing.T) {
	service, m := newTestPersonalMeetingService(testClock())

	winner := &models.PersonalMeeting{
		UID:        "pm-winner",
		UserUID:    "alice",
		MeetingUID: "meeting-winner",
	}
	m.personalMeetingRepo.On("GetByUser", mock.Anything, "alice").
		Return(nil, domain.NewNotFoundError("personal meeting not found")).Once()
	m.meetingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.messageBuilder.On("SendIndexMeeting", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)
	m.personalMeetingRepo.On("Create", mock.Anything, mock.Anything).
		Return(domain.NewConflictError("user already has a personal meeting"))
	m.personalMeetingRepo.On("GetByUser", mock.Anything, "alice").Return(winner, nil).Once()

	caller := &models.Caller{UID: "alice", Name: "Alice", Role: models.CallerRoleUser}
	mapping, err := service.GetOrCreate(context.Background(), caller)

	require.NoError(t, err)
	assert.Equal(t, "meeting-winner", mapping.MeetingUID)
}

func TestPersonalMeetingService_GetOrCreate_UnnamedCaller(t *testing.T) {
	service, m := newTestPersonalMeetingService(testClock())

	m.personalMeetingRepo.On("GetByUser", mock.Anything, "bob").
		Return(nil, domain.NewNotFoundError("personal meeting not found"))

	var createdMeeting *models.Meeting
	m.meetingRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		createdMeeting = args.Get(1).(*models.Meeting)
	}).Return(nil)
	m.messageBuilder.On("SendIndexMeeting", mock.Anything, models.ActionCreated, mock.Anything).Return(nil)
	m.personalMeetingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	caller := &models.Caller{UID: "bob", Role: models.CallerRoleUser}
	_, err := service.GetOrCreate(context.Background(), caller)

	require.NoError(t, err)
	assert.Equal(t, "Personal Meeting", createdMeeting.Title)
}
