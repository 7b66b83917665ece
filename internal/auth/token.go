package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"social-service/internal/apperr"
)

// maxTokenLength rejects absurdly long bearer tokens before parsing.
const maxTokenLength = 500

const tokenTTL = time.Hour

// Claims carried by access tokens.
type Claims struct {
	UserID int    `json:"_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// IssueToken signs an access token for the user.
func IssueToken(secret string, userID int, name string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the caller's user id.
func ParseToken(secret, tokenStr string) (int, error) {
	if tokenStr == "" || len(tokenStr) >= maxTokenLength {
		return 0, apperr.Authf("request is denied, please log in")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, apperr.Wrap(apperr.Auth, "invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return 0, apperr.Authf("invalid token")
	}
	return claims.UserID, nil
}
