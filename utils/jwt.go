package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceClaims identifies the calling adapter (e.g. the Discord bot
// process). The API is machine-to-machine; there are no end-user accounts.
type ServiceClaims struct {
	BotID string `json:"bot_id"`
	jwt.RegisteredClaims
}

// GenerateServiceToken issues an HS256 token for an adapter identity.
func GenerateServiceToken(secret, botID string, duration time.Duration) (string, error) {
	claims := ServiceClaims{
		BotID: botID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseServiceToken validates a token and returns its claims.
func ParseServiceToken(secret, tokenStr string) (*ServiceClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*ServiceClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
