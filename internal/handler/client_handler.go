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

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClientRequest represents the create client request body
type CreateClientRequest struct {
	Name          string  `json:"name"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	AddressNumber *string `json:"addressNumber,omitempty"`
}

// UpdateClientRequest represents the update client request body
type UpdateClientRequest struct {
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	AddressNumber *string `json:"addressNumber,omitempty"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	AddressNumber *string `json:"addressNumber"`
	CreatedAt     string  `json:"createdAt"`
}

// ClientRowResponse represents a client with its computed billing state
type ClientRowResponse struct {
	ClientResponse
	CurrentPlan        *string `json:"currentPlan"`
	CurrentDebt        string  `json:"currentDebt"`
	TotalPaidThisMonth string  `json:"totalPaidThisMonth"`
	NextDue            *string `json:"nextDue"`
	IsMonthFullyPaid   bool    `json:"isMonthFullyPaid"`
	Status             string  `json:"status"`
}

// MarkersResponse represents the calendar pre-fill payload
type MarkersResponse struct {
	Markers    map[string]string `json:"markers"`
	BaseDebt   string            `json:"baseDebt"`
	PeriodFrom *string           `json:"periodFrom"`
	PeriodTo   *string           `json:"periodTo"`
}

// EmailLogResponse represents an email log entry in API responses
type EmailLogResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Subject      string  `json:"subject"`
	DueDate      *string `json:"dueDate"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
	SentAt       string  `json:"sentAt"`
}

func toClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		AddressNumber: c.AddressNumber,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

func toClientRowResponse(row *domain.ClientRow) ClientRowResponse {
	var plan *string
	if row.CurrentPlan != "" {
		plan = &row.CurrentPlan
	}
	return ClientRowResponse{
		ClientResponse:     toClientResponse(&row.Client),
		CurrentPlan:        plan,
		CurrentDebt:        row.CurrentDebt.StringFixed(2),
		TotalPaidThisMonth: row.TotalPaidThisMonth.StringFixed(2),
		NextDue:            formatDatePtr(row.NextDue),
		IsMonthFullyPaid:   row.IsMonthFullyPaid,
		Status:             string(row.ComputedStatus),
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// ListClients handles GET /api/v1/clients
func (h *ClientHandler) ListClients(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var statusFilter *domain.ClientStatus
	switch c.QueryParam("status") {
	case "":
	case string(domain.StatusActive):
		s := domain.StatusActive
		statusFilter = &s
	case string(domain.StatusInactive):
		s := domain.StatusInactive
		statusFilter = &s
	default:
		return NewValidationError(c, "Invalid status filter", []ValidationError{
			{Field: "status", Message: "Must be active or inactive"},
		})
	}

	rows, err := h.clientService.ListRows(ownerID, statusFilter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list clients")
		return NewInternalError(c, "Failed to list clients")
	}

	response := make([]ClientRowResponse, len(rows))
	for i, row := range rows {
		response[i] = toClientRowResponse(row)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateClient handles POST /api/v1/clients
func (h *ClientHandler) CreateClient(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	client, err := h.clientService.CreateClient(ownerID, service.CreateClientInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		AddressNumber: req.AddressNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameRequired):
			return NewValidationError(c, "Name is required", []ValidationError{
				{Field: "name", Message: "Required"},
			})
		case errors.Is(err, domain.ErrNameTooLong):
			return NewValidationError(c, "Name is too long", []ValidationError{
				{Field: "name", Message: "Must be at most 255 characters"},
			})
		default:
			log.Error().Err(err).Msg("Failed to create client")
			return NewInternalError(c, "Failed to create client")
		}
	}

	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// GetClient handles GET /api/v1/clients/:id
func (h *ClientHandler) GetClient(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	client, err := h.clientService.GetClient(ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Msg("Failed to get client")
		return NewInternalError(c, "Failed to get client")
	}

	return c.JSON(http.StatusOK, toClientResponse(client))
}

// UpdateClient handles PUT /api/v1/clients/:id
func (h *ClientHandler) UpdateClient(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	var req UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	client, err := h.clientService.UpdateClient(ownerID, id, &domain.UpdateClientData{
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		AddressNumber: req.AddressNumber,
	})
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Msg("Failed to update client")
		return NewInternalError(c, "Failed to update client")
	}

	return c.JSON(http.StatusOK, toClientResponse(client))
}

// DeleteClient handles DELETE /api/v1/clients/:id
func (h *ClientHandler) DeleteClient(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	if err := h.clientService.DeleteClient(ownerID, id); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Msg("Failed to delete client")
		return NewInternalError(c, "Failed to delete client")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetMarkers handles GET /api/v1/clients/:id/markers
func (h *ClientHandler) GetMarkers(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	markers, err := h.clientService.GetMarkers(ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Msg("Failed to compute markers")
		return NewInternalError(c, "Failed to compute markers")
	}

	days := make(map[string]string, len(markers.Markers))
	for day, mark := range markers.Markers {
		days[day] = string(mark)
	}

	return c.JSON(http.StatusOK, MarkersResponse{
		Markers:    days,
		BaseDebt:   markers.BaseDebt.StringFixed(2),
		PeriodFrom: formatDatePtr(markers.PeriodFrom),
		PeriodTo:   formatDatePtr(markers.PeriodTo),
	})
}

// GetEmailHistory handles GET /api/v1/clients/:id/emails
func (h *ClientHandler) GetEmailHistory(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", nil)
	}

	entries, err := h.clientService.EmailHistory(ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Msg("Failed to load email history")
		return NewInternalError(c, "Failed to load email history")
	}

	response := make([]EmailLogResponse, len(entries))
	for i, e := range entries {
		response[i] = EmailLogResponse{
			ID:           e.ID.String(),
			Type:         string(e.Type),
			Subject:      e.Subject,
			DueDate:      formatDatePtr(e.DueDate),
			Status:       string(e.Status),
			ErrorMessage: e.ErrorMessage,
			SentAt:       e.SentAt.Format(time.RFC3339),
		}
	}
	return c.JSON(http.StatusOK, response)
}
