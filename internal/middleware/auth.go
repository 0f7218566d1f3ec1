// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/classlive/meeting-access-service/internal/infrastructure/auth"
	"github.com/classlive/meeting-access-service/internal/logging"
	"github.com/classlive/meeting-access-service/pkg/constants"
)

// AuthorizationMiddleware creates a middleware that stores the raw
// authorization header and the on-behalf-of principal in the request context
// so outbound messages can forward them.
func AuthorizationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if authorization := r.Header.Get(constants.AuthorizationHeader); authorization != "" {
				ctx = context.WithValue(ctx, constants.AuthorizationContextID, authorization)
			}
			if principal := r.Header.Get(constants.XOnBehalfOfHeader); principal != "" {
				ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticationMiddleware creates a middleware that verifies the bearer
// token, if any, and attaches the resulting caller to the request context.
// Requests without a token pass through as guests; a token that fails
// verification is rejected.
func AuthenticationMiddleware(jwtAuth auth.IJWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := r.Header.Get(constants.AuthorizationHeader)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := jwtAuth.ParseCaller(ctx, token, slog.Default())
			if err != nil {
				slog.WarnContext(ctx, "rejecting invalid bearer token", logging.ErrKey, err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"invalid bearer token"}`))
				return
			}

			ctx = context.WithValue(ctx, constants.CallerContextID, caller)
			ctx = logging.AppendCtx(ctx, slog.String("caller_uid", caller.UID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
