// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/classlive/meeting-access-service/internal/domain"
)

// MockCaptureClient implements CaptureClient for testing
type MockCaptureClient struct {
	mock.Mock
}

func (m *MockCaptureClient) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCaptureClient) IsLocalMode() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCaptureClient) StartCompositeCapture(ctx context.Context, roomName string, dest domain.CaptureDestination) (*domain.CaptureSession, error) {
	args := m.Called(ctx, roomName, dest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CaptureSession), args.Error(1)
}

func (m *MockCaptureClient) StopCapture(ctx context.Context, egressID string) error {
	args := m.Called(ctx, egressID)
	return args.Error(0)
}

// Compile-time interface check
var _ domain.CaptureClient = (*MockCaptureClient)(nil)
