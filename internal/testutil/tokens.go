package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignAccessToken signs an HS256 access token in the shape the identity service issues.
func SignAccessToken(secret []byte, issuer, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"email":      email,
		"token_type": "access",
		"sub":        userID,
		"iss":        issuer,
		"iat":        jwt.NewNumericDate(now),
		"nbf":        jwt.NewNumericDate(now),
		"exp":        jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
