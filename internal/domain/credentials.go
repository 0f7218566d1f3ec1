// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package domain

// RoomGrant describes the access a participant is granted in a named room.
type RoomGrant struct {
	Room     string
	Identity string
	Name     string
	IsHost   bool
}

// CredentialIssuer mints opaque, time-limited bearer credentials granting a
// participant access to a named room. Minting is stateless token generation,
// so it is safe to repeat for the same grant. Implementations must return
// ErrSignerNotConfigured when signing keys are missing rather than failing
// generically.
type CredentialIssuer interface {
	Mint(grant RoomGrant) (string, error)
}
