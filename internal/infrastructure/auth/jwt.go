// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

// Package auth validates the platform-issued bearer tokens on incoming
// requests and resolves them to a verified caller identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/classlive/meeting-access-service/internal/domain/models"
)

const (
	// defaultJWKSURL is the default URL of the platform auth service JWKS endpoint.
	defaultJWKSURL = "http://classlive-auth.classlive.svc.cluster.local:4457/.well-known/jwks"
	// defaultAudience is the default audience expected in platform tokens.
	defaultAudience = "meeting-access-service"
	// jwksCacheTTL is how long fetched signing keys are cached.
	jwksCacheTTL = 5 * time.Minute
)

// PlatformClaims are the custom claims embedded in platform-issued tokens.
type PlatformClaims struct {
	Principal string `json:"principal"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Validate checks that the claims identify a principal.
func (c *PlatformClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig is the configuration for the JWT authentication.
type JWTAuthConfig struct {
	// JWKSURL is the URL of the JWKS endpoint.
	JWKSURL string
	// Audience is the expected audience of the JWT token.
	Audience string
	// MockLocalUserUID bypasses token validation and uses this user UID as
	// the caller. Only for local development.
	MockLocalUserUID string
}

// IJWTAuth validates a bearer token and resolves the verified caller.
type IJWTAuth interface {
	ParseCaller(ctx context.Context, bearerToken string, logger *slog.Logger) (*models.Caller, error)
}

// JWTAuth is the JWT authentication implementation backed by the platform
// auth service's JWKS endpoint.
type JWTAuth struct {
	config    JWTAuthConfig
	validator *validator.Validator
}

// NewJWTAuth creates a new JWTAuth from the given configuration.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	issuerURL := &url.URL{Scheme: jwksURL.Scheme, Host: jwksURL.Host, Path: "/"}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &PlatformClaims{}
		}),
		validator.WithAllowedClockSkew(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up JWT validator: %w", err)
	}

	return &JWTAuth{
		config:    config,
		validator: jwtValidator,
	}, nil
}

// ParseCaller validates the bearer token and returns the verified caller.
func (a *JWTAuth) ParseCaller(ctx context.Context, bearerToken string, logger *slog.Logger) (*models.Caller, error) {
	if a.config.MockLocalUserUID != "" {
		logger.WarnContext(ctx, "using mock local user UID, do not use in production",
			"user_uid", a.config.MockLocalUserUID)
		return &models.Caller{
			UID:  a.config.MockLocalUserUID,
			Role: models.CallerRoleUser,
		}, nil
	}

	if a.validator == nil {
		return nil, errors.New("JWT validator is not configured")
	}

	token := strings.TrimPrefix(bearerToken, "Bearer ")
	token = strings.TrimPrefix(token, "bearer ")

	parsed, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	custom, ok := claims.CustomClaims.(*PlatformClaims)
	if !ok {
		return nil, errors.New("unexpected custom claims type")
	}

	role := models.CallerRole(custom.Role)
	if !role.IsValid() {
		role = models.CallerRoleUser
	}

	return &models.Caller{
		UID:  custom.Principal,
		Name: custom.Name,
		Role: role,
	}, nil
}

// Compile-time interface check
var _ IJWTAuth = (*JWTAuth)(nil)
