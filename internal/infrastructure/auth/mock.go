// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// MockJWTAuth is a mock implementation of the IJWTAuth interface for testing
type MockJWTAuth struct {
	mock.Mock
}

func (m *MockJWTAuth) ParseCaller(ctx context.Context, bearerToken string, logger *slog.Logger) (*models.Caller, error) {
	args := m.Called(ctx, bearerToken, logger)
	if caller, ok := args.Get(0).(*models.Caller); ok {
		return caller, args.Error(1)
	}
	return nil, args.Error(1)
}

// Compile-time interface check
var _ IJWTAuth = (*MockJWTAuth)(nil)
