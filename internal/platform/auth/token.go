package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims the identity service embeds in session tokens.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ParseToken extracts identity fields from a session token without verifying
// its signature. The token is only trusted to describe the locally persisted
// session; the backend re-validates it on every call.
func ParseToken(token string) (uid, email string, expiresAt time.Time, err error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", "", time.Time{}, fmt.Errorf("parse session token: %w", err)
	}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.Subject, claims.Email, expiresAt, nil
}
