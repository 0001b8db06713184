package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	// OwnerIDKey is the context key for the authenticated owner ID
	OwnerIDKey contextKey = "owner_id"
	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "session"
	// SessionDuration is how long a session token stays valid
	SessionDuration = 7 * 24 * time.Hour
)

// AuthMiddleware validates the session cookie and loads the owner ID
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// GenerateToken issues a signed session token for the owner.
func (m *AuthMiddleware) GenerateToken(ownerID uuid.UUID, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": ownerID.String(),
		"iat": now.Unix(),
		"exp": now.Add(SessionDuration).Unix(),
	})
	return token.SignedString(m.secret)
}

// Authenticate returns an Echo middleware that validates session cookies
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return unauthorizedError(c, "Missing session")
			}

			ownerID, err := m.parseToken(cookie.Value)
			if err != nil {
				log.Debug().Err(err).Msg("session token rejected")
				return unauthorizedError(c, "Invalid or expired session")
			}

			ctx := context.WithValue(c.Request().Context(), OwnerIDKey, ownerID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func (m *AuthMiddleware) parseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(sub)
}

// GetOwnerID extracts the authenticated owner ID from the context
func GetOwnerID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(OwnerIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
