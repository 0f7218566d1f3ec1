// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// MockPersonalMeetingRepository implements PersonalMeetingRepository for testing
type MockPersonalMeetingRepository struct {
	mock.Mock
}

func (m *MockPersonalMeetingRepository) Create(ctx context.Context, personalMeeting *models.PersonalMeeting) error {
	args := m.Called(ctx, personalMeeting)
	return args.Error(0)
}

func (m *MockPersonalMeetingRepository) GetByUser(ctx context.Context, userUID string) (*models.PersonalMeeting, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PersonalMeeting), args.Error(1)
}

func (m *MockPersonalMeetingRepository) DeleteByMeeting(ctx context.Context, meetingUID string) error {
	args := m.Called(ctx, meetingUID)
	return args.Error(0)
}

// Compile-time interface check
var _ domain.PersonalMeetingRepository = (*MockPersonalMeetingRepository)(nil)
