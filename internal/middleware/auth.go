package middleware

import (
	"context"
	"net/http"

	"physicsclass-be/internal/auth"
	"physicsclass-be/internal/logger"
	"physicsclass-be/internal/utils"

	"go.uber.org/zap"
)

// TokenClaimsKey holds the parsed jwt.MapClaims of an authenticated request.
const TokenClaimsKey contextKey = "jwtClaims"

type contextKey string

// NewAuthMiddleware attaches the token's user to the request context.
// Requests without a token pass through anonymously; a token that fails
// verification is rejected with 401.
func NewAuthMiddleware(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := auth.ExtractAccessToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(raw, key)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("rejected access token", zap.Error(err))
				utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			if id := auth.IdentityFromClaims(claims); id.UserID != "" {
				ctx = utils.SetUserContext(ctx, id.UserID, id.Email, id.Role)
				ctx = logger.WithUserID(ctx, id.UserID)
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, TokenClaimsKey, claims)))
		})
	}
}
