// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/classlive/meeting-access-service/internal/domain"
)

// MockCredentialIssuer implements CredentialIssuer for testing
type MockCredentialIssuer struct {
	mock.Mock
}

func (m *MockCredentialIssuer) Mint(grant domain.RoomGrant) (string, error) {
	args := m.Called(grant)
	return args.String(0), args.Error(1)
}

// Compile-time interface check
var _ domain.CredentialIssuer = (*MockCredentialIssuer)(nil)
