// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// MockWaitingRequestRepository implements WaitingRequestRepository for testing
type MockWaitingRequestRepository struct {
	mock.Mock
}

func (m *MockWaitingRequestRepository) Create(ctx context.Context, request *models.WaitingRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockWaitingRequestRepository) Get(ctx context.Context, meetingUID, requestUID string) (*models.WaitingRequest, error) {
	args := m.Called(ctx, meetingUID, requestUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WaitingRequest), args.Error(1)
}

func (m *MockWaitingRequestRepository) GetWithRevision(ctx context.Context, meetingUID, requestUID string) (*models.WaitingRequest, uint64, error) {
	args := m.Called(ctx, meetingUID, requestUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.WaitingRequest), args.Get(1).(uint64), args.Error(2)
}

func (m *MockWaitingRequestRepository) Update(ctx context.Context, request *models.WaitingRequest, revision uint64) error {
	args := m.Called(ctx, request, revision)
	return args.Error(0)
}

func (m *MockWaitingRequestRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.WaitingRequest, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WaitingRequest), args.Error(1)
}

func (m *MockWaitingRequestRepository) DeleteByMeeting(ctx context.Context, meetingUID string) error {
	args := m.Called(ctx, meetingUID)
	return args.Error(0)
}

// Compile-time interface check
var _ domain.WaitingRequestRepository = (*MockWaitingRequestRepository)(nil)
