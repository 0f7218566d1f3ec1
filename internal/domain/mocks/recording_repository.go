// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// MockRecordingRepository implements RecordingRepository for testing
type MockRecordingRepository struct {
	mock.Mock
}

func (m *MockRecordingRepository) Create(ctx context.Context, recording *models.Recording) error {
	args := m.Called(ctx, recording)
	return args.Error(0)
}

func (m *MockRecordingRepository) Get(ctx context.Context, meetingUID, recordingUID string) (*models.Recording, error) {
	args := m.Called(ctx, meetingUID, recordingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recording), args.Error(1)
}

func (m *MockRecordingRepository) GetWithRevision(ctx context.Context, meetingUID, recordingUID string) (*models.Recording, uint64, error) {
	args := m.Called(ctx, meetingUID, recordingUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Recording), args.Get(1).(uint64), args.Error(2)
}

func (m *MockRecordingRepository) Update(ctx context.Context, recording *models.Recording, revision uint64) error {
	args := m.Called(ctx, recording, revision)
	return args.Error(0)
}

func (m *MockRecordingRepository) Delete(ctx context.Context, meetingUID, recordingUID string) error {
	args := m.Called(ctx, meetingUID, recordingUID)
	return args.Error(0)
}

func (m *MockRecordingRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.Recording, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recording), args.Error(1)
}

func (m *MockRecordingRepository) ActiveExists(ctx context.Context, meetingUID string) (bool, error) {
	args := m.Called(ctx, meetingUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordingRepository) DeleteByMeeting(ctx context.Context, meetingUID string) error {
	args := m.Called(ctx, meetingUID)
	return args.Error(0)
}

// Compile-time interface check
var _ domain.RecordingRepository = (*MockRecordingRepository)(nil)
