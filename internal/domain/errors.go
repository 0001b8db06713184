package domain

import "errors"

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternalError      = errors.New("internal error")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPINNotSet          = errors.New("pin not configured")
	ErrPINLocked          = errors.New("pin locked")
	ErrInvalidPIN         = errors.New("invalid pin")
	ErrClientNotFound     = errors.New("client not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrClientRequired     = errors.New("client is required")
	ErrPlanRequired       = errors.New("plan is required")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrPeriodRequired     = errors.New("payment period is required")
	ErrInvalidPeriod      = errors.New("period end before period start")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
)

// Validation constants
const (
	MaxClientNameLength = 255
)
