// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/classlive/meeting-access-service/internal/domain"
)

// BcryptHasher implements domain.PasswordHasher with bcrypt. The comparison
// is constant-time, so verification does not leak hash contents via timing.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a password hasher with the default bcrypt cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Compile-time interface check
var _ domain.PasswordHasher = (*BcryptHasher)(nil)
