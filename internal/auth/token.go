package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenCookie = "access_token"

var ErrInvalidToken = errors.New("invalid access token")

// Identity is the caller described by a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// ExtractAccessToken reads the access_token cookie first and falls back to
// a bearer Authorization header. It returns "" when neither is present.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(raw string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IdentityFromClaims reads user_id, email and role. UserID is empty when the
// token carries no usable user_id.
func IdentityFromClaims(claims jwt.MapClaims) Identity {
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Identity{
		UserID: claimString(claims["user_id"]),
		Email:  email,
		Role:   role,
	}
}

// claimString accepts string ids and the numeric ids older tokens carry.
func claimString(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return fmt.Sprintf("%.0f", id)
	default:
		return ""
	}
}
