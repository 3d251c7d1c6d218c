// Package auth issues and verifies access tokens, hashes passwords and
// carries the authenticated caller through request contexts.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/passionpath/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims: the registered set plus the caller's
// id and email so GetUser does not need a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// GenerateToken signs an HS256 access token for the user valid for validityDuration.
func GenerateToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Email:  email,
	})
	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns its claims.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
