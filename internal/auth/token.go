package auth

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

var (
	ErrNoSecret     = errors.New("JWT_SECRET is not set")
	ErrInvalidToken = errors.New("invalid session token")
)

// ParseSessionToken validates the storefront session token and returns its
// claims. An empty token means "not authenticated" and is reported as such
// rather than as a parse failure.
func ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrNoSecret
	}

	jwtKey := []byte(secret)

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.CustomerID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
