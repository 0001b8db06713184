package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ncastro/gymkeep-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReminderSecretHeader authenticates scheduler-triggered sweep requests.
const ReminderSecretHeader = "X-Reminder-Secret"

// ReminderHandler handles the scheduled reminder sweep endpoint
type ReminderHandler struct {
	reminderService *service.ReminderService
	secret          string
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService *service.ReminderService, secret string) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		secret:          secret,
	}
}

// Sweep handles POST /api/v1/reminders/sweep
func (h *ReminderHandler) Sweep(c echo.Context) error {
	provided := c.Request().Header.Get(ReminderSecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		return NewUnauthorizedError(c, "Invalid reminder secret")
	}

	result, err := h.reminderService.Sweep(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Reminder sweep failed")
		return NewInternalError(c, "Reminder sweep failed")
	}

	return c.JSON(http.StatusOK, result)
}
