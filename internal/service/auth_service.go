package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/anxmeshhh/PrepIQ/internal/model"
)

// ErrInvalidToken is returned for malformed, forged or expired tokens
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService issues and validates session-scoped JWTs. A token only
// authorizes the WebSocket channel of the session it was minted for.
type AuthService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		jwtSecret: []byte(secret),
		tokenTTL:  4 * time.Hour,
	}
}

// IssueSessionToken creates a token bound to one session
func (s *AuthService) IssueSessionToken(sessionID string) (string, error) {
	claims := &model.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns its claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
