// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

// Package credentials mints the signed room access tokens that participants
// present to the media server when joining a room.
package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/classlive/meeting-access-service/internal/domain"
)

const (
	// DefaultTokenTTL is how long a minted room token stays valid.
	DefaultTokenTTL = 24 * time.Hour

	// notBeforeLeeway tolerates clock skew between this service and the
	// media server validating the token.
	notBeforeLeeway = 10 * time.Second
)

// Config holds the signing configuration for the token issuer.
type Config struct {
	// APIKey identifies the signing key pair; it becomes the token issuer claim.
	APIKey string
	// APISecret is the HMAC signing secret shared with the media server.
	APISecret string
	// TokenTTL overrides DefaultTokenTTL when non-zero.
	TokenTTL time.Duration
}

// Issuer mints HS256-signed room access tokens. Minting is stateless, so the
// same grant can be minted repeatedly, e.g. on every poll of an approved
// waiting-room request.
type Issuer struct {
	config Config
	clock  domain.Clock
}

// NewIssuer creates a new room token issuer.
func NewIssuer(config Config, clock domain.Clock) *Issuer {
	if config.TokenTTL == 0 {
		config.TokenTTL = DefaultTokenTTL
	}
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Issuer{
		config: config,
		clock:  clock,
	}
}

// IsConfigured reports whether signing keys are present.
func (i *Issuer) IsConfigured() bool {
	return i.config.APIKey != "" && i.config.APISecret != ""
}

// Mint generates a signed room access token for the grant. Host grants carry
// room-admin rights; all grants may publish and subscribe.
func (i *Issuer) Mint(grant domain.RoomGrant) (string, error) {
	if !i.IsConfigured() {
		return "", domain.ErrSignerNotConfigured
	}

	now := i.clock.Now()
	claims := jwt.MapClaims{
		"iss":  i.config.APIKey,
		"sub":  grant.Identity,
		"nbf":  now.Add(-notBeforeLeeway).Unix(),
		"exp":  now.Add(i.config.TokenTTL).Unix(),
		"name": grant.Name,
		"video": map[string]any{
			"room":           grant.Room,
			"roomJoin":       true,
			"canPublish":     true,
			"canSubscribe":   true,
			"canPublishData": true,
			"roomAdmin":      grant.IsHost,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.config.APISecret))
	if err != nil {
		return "", domain.NewInternalError("failed to sign room token", err)
	}

	return signed, nil
}

// Compile-time interface check
var _ domain.CredentialIssuer = (*Issuer)(nil)
