package usecase

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"madjoke/src/core/domain"
)

// TokenService issues and verifies the bearer tokens used by the API.
// Tokens are HS256-signed and carry the user name as their only claim.
// They do not expire.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token claiming the given user name.
func (s *TokenService) Issue(userName string) (string, error) {
	claims := jwt.MapClaims{
		"userName": userName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and returns the claimed user name.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.NewUnauthorizedError("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.NewUnauthorizedError("invalid token claims")
	}
	userName, ok := claims["userName"].(string)
	if !ok || userName == "" {
		return "", domain.NewUnauthorizedError("token missing user name")
	}
	return userName, nil
}
