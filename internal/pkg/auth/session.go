// internal/pkg/auth/session.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/shopease-cart/internal/config"
)

// SessionClaims carries the cart identity inside a signed session token.
// This is the cart's storage-slot identity only; it is not user
// authentication.
type SessionClaims struct {
	CartID string `json:"cart_id"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies cart session tokens
type SessionManager struct {
	config *config.Config
}

// NewSessionManager creates a new session manager
func NewSessionManager(cfg *config.Config) *SessionManager {
	return &SessionManager{
		config: cfg,
	}
}

// NewCartID mints a fresh cart identifier.
func (m *SessionManager) NewCartID() string {
	return uuid.NewString()
}

// Issue generates a signed session token for the given cart ID
func (m *SessionManager) Issue(cartID string) (string, error) {
	now := time.Now().UTC()

	claims := &SessionClaims{
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.Session.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.App.Name,
			Subject:   fmt.Sprintf("cart:%s", cartID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.Session.Secret))
}

// Parse validates a session token and returns the cart ID it carries
func (m *SessionManager) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Session.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	if claims.CartID == "" {
		return "", fmt.Errorf("session token missing cart ID")
	}

	return claims.CartID, nil
}
