package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/avelin/estate-notify/internal/core/errors"
)

// Claims defines the structured data the marketplace puts in its access tokens
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// Inspect parses an issued bearer token without verifying its signature.
// The client never holds the signing secret; the server re-verifies the token
// on every request. Inspection only extracts the recipient identity and
// rejects tokens that are already expired so we fail before dialing.
func Inspect(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrCredentialExpired
	}

	if claims.UserID == uuid.Nil {
		return nil, apperrors.ErrMissingIdentity
	}

	return claims, nil
}
