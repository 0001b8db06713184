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
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterPaymentRequest represents the register payment request body
type RegisterPaymentRequest struct {
	ClientID   string `json:"clientId"`
	Plan       string `json:"plan"`
	Amount     string `json:"amount,omitempty"`
	Discount   string `json:"discount,omitempty"`
	Debt       string `json:"debt,omitempty"`
	PeriodFrom string `json:"periodFrom,omitempty"`
	PeriodTo   string `json:"periodTo,omitempty"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              string  `json:"id"`
	ClientID        string  `json:"clientId"`
	Plan            string  `json:"plan"`
	Amount          string  `json:"amount"`
	Discount        string  `json:"discount"`
	Debt            string  `json:"debt"`
	PeriodFrom      *string `json:"periodFrom"`
	PeriodTo        *string `json:"periodTo"`
	NextPaymentDate *string `json:"nextPaymentDate"`
	CreatedAt       string  `json:"createdAt"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID.String(),
		ClientID:        p.ClientID.String(),
		Plan:            p.Plan,
		Amount:          p.Amount.StringFixed(2),
		Discount:        p.Discount.StringFixed(2),
		Debt:            p.Debt.StringFixed(2),
		PeriodFrom:      formatDatePtr(p.PeriodFrom),
		PeriodTo:        formatDatePtr(p.PeriodTo),
		NextPaymentDate: formatDatePtr(p.NextPaymentDate),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

// RegisterPayment handles POST /api/v1/payments
func (h *PaymentHandler) RegisterPayment(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req RegisterPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.RegisterPaymentInput{Plan: req.Plan}

	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return NewValidationError(c, "Invalid client ID", []ValidationError{
				{Field: "clientId", Message: "Must be a valid UUID"},
			})
		}
		input.ClientID = clientID
	}

	var err error
	if input.Amount, err = parseDecimal(req.Amount); err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}
	if input.Discount, err = parseDecimal(req.Discount); err != nil {
		return NewValidationError(c, "Invalid discount", []ValidationError{
			{Field: "discount", Message: "Must be a valid decimal number"},
		})
	}
	if input.Debt, err = parseDecimal(req.Debt); err != nil {
		return NewValidationError(c, "Invalid debt", []ValidationError{
			{Field: "debt", Message: "Must be a valid decimal number"},
		})
	}
	if input.PeriodFrom, err = parseDate(req.PeriodFrom); err != nil {
		return NewValidationError(c, "Invalid period start", []ValidationError{
			{Field: "periodFrom", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}
	if input.PeriodTo, err = parseDate(req.PeriodTo); err != nil {
		return NewValidationError(c, "Invalid period end", []ValidationError{
			{Field: "periodTo", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	payment, err := h.paymentService.RegisterPayment(ownerID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientRequired):
			return NewValidationError(c, "Client is required", []ValidationError{
				{Field: "clientId", Message: "Required"},
			})
		case errors.Is(err, domain.ErrPlanRequired):
			return NewValidationError(c, "Plan is required", []ValidationError{
				{Field: "plan", Message: "Required"},
			})
		case errors.Is(err, domain.ErrUnknownPlan):
			return NewValidationError(c, "Unknown plan", []ValidationError{
				{Field: "plan", Message: "Must be one of the configured plans"},
			})
		case errors.Is(err, domain.ErrNegativeAmount):
			return NewValidationError(c, "Amounts must not be negative", nil)
		case errors.Is(err, domain.ErrPeriodRequired):
			return NewValidationError(c, "Payment period is required", []ValidationError{
				{Field: "periodFrom", Message: "Required"},
				{Field: "periodTo", Message: "Required"},
			})
		case errors.Is(err, domain.ErrInvalidPeriod):
			return NewValidationError(c, "Period end must not be before period start", nil)
		case errors.Is(err, domain.ErrClientNotFound):
			return NewNotFoundError(c, "Client not found")
		default:
			log.Error().Err(err).Msg("Failed to register payment")
			return NewInternalError(c, "Failed to register payment")
		}
	}

	return c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// ListPayments handles GET /api/v1/payments?clientId=
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	ownerID := middleware.GetOwnerID(c)
	if ownerID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	clientID, err := uuid.Parse(c.QueryParam("clientId"))
	if err != nil {
		return NewValidationError(c, "Invalid client ID", []ValidationError{
			{Field: "clientId", Message: "Must be a valid UUID"},
		})
	}

	payments, err := h.paymentService.ListPayments(ownerID, clientID)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		log.Error().Err(err).Msg("Failed to list payments")
		return NewInternalError(c, "Failed to list payments")
	}

	response := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		response[i] = toPaymentResponse(p)
	}
	return c.JSON(http.StatusOK, response)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
