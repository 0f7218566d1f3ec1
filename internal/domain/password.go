// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package domain

// PasswordHasher is the opaque one-way hash and verify capability used for
// meeting passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify compares a candidate password against a stored hash using a
	// timing-safe comparison. It returns a nil error iff they match.
	Verify(hash, password string) error
}
