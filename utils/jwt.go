package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	secretMu  sync.RWMutex
	secretKey = []byte("medischedule-dev-secret")
)

// SetTokenSecret replaces the HMAC key used for session tokens.
func SetTokenSecret(secret string) {
	if secret == "" {
		return
	}
	secretMu.Lock()
	secretKey = []byte(secret)
	secretMu.Unlock()
}

func currentSecret() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return secretKey
}

// GenerateToken creates a signed JWT whose subject is the session id.
// The token carries no role; the role is read from the session record.
func GenerateToken(sessionID string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(currentSecret())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return currentSecret(), nil
	})
}

// ExtractIDFromToken extracts the session id (subject) from a valid token.
func ExtractIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}

	return sub, nil
}
