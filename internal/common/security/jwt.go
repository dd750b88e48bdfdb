package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and verifies the JWTs carrying the authenticated user
// identity. It is constructed once at startup and injected where needed.
type TokenManager struct {
	auth *jwtauth.JWTAuth
	exp  time.Duration
}

func NewTokenManager(secret []byte, exp time.Duration) *TokenManager {
	return &TokenManager{
		auth: jwtauth.New("HS256", secret, nil),
		exp:  exp,
	}
}

// Auth exposes the underlying verifier for the chi jwtauth middleware.
func (m *TokenManager) Auth() *jwtauth.JWTAuth {
	return m.auth
}

func (m *TokenManager) Generate(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(m.exp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
