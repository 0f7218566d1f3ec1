// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package utils

import (
	"crypto/rand"
	"fmt"

	"github.com/akamensky/base58"
)

// guestIdentityBytes is the entropy of a generated guest identity suffix.
const guestIdentityBytes = 8

// UserIdentity returns the room participant identity for an authenticated user.
func UserIdentity(userUID string) string {
	return "user-" + userUID
}

// GenerateGuestIdentity returns a fresh room participant identity for a guest.
func GenerateGuestIdentity() (string, error) {
	buf := make([]byte, guestIdentityBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate guest identity: %w", err)
	}
	return "guest-" + base58.Encode(buf), nil
}
