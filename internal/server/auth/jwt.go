// Package auth issues and verifies the HS256 session tokens handed to
// clients after login.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user data embedded into a session token.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Claims is the decoded session token: the identity plus the registered
// iat and exp claims, serialized as numeric dates.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// GenerateToken signs a token for identity that expires after validity.
func GenerateToken(identity Identity, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns its claims. Failures are
// *common.Error values of kind common.ErrInvalidToken, or
// common.ErrTokenExpired with the message "jwt expired".
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, common.NewError(common.ErrTokenExpired, "jwt expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, common.NewError(common.ErrInvalidToken, "invalid signature")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, common.NewError(common.ErrInvalidToken, "jwt malformed")
	default:
		return nil, common.NewError(common.ErrInvalidToken, "invalid token")
	}
}
