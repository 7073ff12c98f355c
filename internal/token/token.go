// Package token signs and verifies the HS256 bearer tokens shared by the
// HTTP auth middleware and the WebSocket handshake.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is how long an issued token stays valid.
const TTL = 24 * time.Hour

// Sign issues a token whose subject is the user's ID.
func Sign(userID uuid.UUID, secret []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": now.Add(TTL).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseUserID verifies the signature and expiry and returns the subject
// user ID. Only HS256 is accepted.
func ParseUserID(tokenStr string, secret []byte) (uuid.UUID, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	if !tok.Valid {
		return uuid.Nil, jwt.ErrTokenUnverifiable
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject: %w", err)
	}

	return uuid.Parse(sub)
}
