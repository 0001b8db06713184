package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/ncastro/gymkeep-backend/internal/middleware"
	"github.com/ncastro/gymkeep-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles owner authentication HTTP requests
type AuthHandler struct {
	authService   *service.AuthService
	auth          *middleware.AuthMiddleware
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, auth *middleware.AuthMiddleware, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		auth:          auth,
		secureCookies: secureCookies,
	}
}

// RegisterRequest represents the register request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PINRequest represents a PIN set or unlock request body
type PINRequest struct {
	PIN string `json:"pin"`
}

// OwnerResponse represents an owner in API responses
type OwnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	HasPIN    bool   `json:"hasPin"`
	CreatedAt string `json:"createdAt"`
}

func toOwnerResponse(o *domain.Owner) OwnerResponse {
	return OwnerResponse{
		ID:        o.ID.String(),
		Name:      o.Name,
		Email:     o.Email,
		HasPIN:    o.PINHash != nil,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	owner, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return NewConflictError(c, "Email is already registered")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return NewValidationError(c, "Name, email and password are required", nil)
		default:
			log.Error().Err(err).Msg("Failed to register owner")
			return NewInternalError(c, "Failed to register")
		}
	}

	if err := h.setSessionCookie(c, owner.ID); err != nil {
		log.Error().Err(err).Msg("Failed to issue session token")
		return NewInternalError(c, "Failed to register")
	}

	return c.JSON(http.StatusCreated, toOwnerResponse(owner))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	owner, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return NewUnauthorizedError(c, "Invalid email or password")
		}
		log.Error().Err(err).Msg("Failed to log in owner")
		return NewInternalError(c, "Failed to log in")
	}

	if err := h.setSessionCookie(c, owner.ID); err != nil {
		log.Error().Err(err).Msg("Failed to issue session token")
		return NewInternalError(c, "Failed to log in")
	}

	return c.JSON(http.StatusOK, toOwnerResponse(owner))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	owner, err := h.authService.GetOwner(ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			return NewUnauthorizedError(c, "Account no longer exists")
		}
		log.Error().Err(err).Msg("Failed to load owner")
		return NewInternalError(c, "Failed to load account")
	}

	return c.JSON(http.StatusOK, toOwnerResponse(owner))
}

// SetPIN handles PUT /api/v1/auth/pin
func (h *AuthHandler) SetPIN(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req PINRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if err := h.authService.SetPIN(ownerID, req.PIN); err != nil {
		if errors.Is(err, domain.ErrInvalidPIN) {
			return NewValidationError(c, "PIN must be exactly 4 digits", []ValidationError{
				{Field: "pin", Message: "Must be 4 digits"},
			})
		}
		log.Error().Err(err).Msg("Failed to set PIN")
		return NewInternalError(c, "Failed to set PIN")
	}

	return c.NoContent(http.StatusNoContent)
}

// UnlockPIN handles POST /api/v1/auth/pin/unlock
func (h *AuthHandler) UnlockPIN(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req PINRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	err := h.authService.VerifyPIN(ownerID, req.PIN)
	switch {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, domain.ErrPINNotSet):
		return NewValidationError(c, "No PIN configured for this account", nil)
	case errors.Is(err, domain.ErrPINLocked):
		return NewLockedError(c, "Too many failed attempts. Try again later")
	case errors.Is(err, domain.ErrInvalidPIN):
		return NewUnauthorizedError(c, "Incorrect PIN")
	default:
		log.Error().Err(err).Msg("Failed to verify PIN")
		return NewInternalError(c, "Failed to verify PIN")
	}
}

func (h *AuthHandler) setSessionCookie(c echo.Context, ownerID uuid.UUID) error {
	token, err := h.auth.GenerateToken(ownerID, time.Now())
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(middleware.SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
