package domain

import (
	"time"

	"github.com/google/uuid"
)

// EmailType identifies which template an email was sent with.
type EmailType string

const (
	EmailUpcomingDue    EmailType = "upcoming_due"
	EmailPaymentReceipt EmailType = "payment_receipt"
)

// EmailStatus records the outcome of a send attempt.
type EmailStatus string

const (
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// EmailLog is an append-only audit row for every email send attempt.
type EmailLog struct {
	ID           uuid.UUID   `json:"id"`
	OwnerID      uuid.UUID   `json:"ownerId"`
	ClientID     uuid.UUID   `json:"clientId"`
	Type         EmailType   `json:"type"`
	Subject      string      `json:"subject"`
	DueDate      *time.Time  `json:"dueDate,omitempty"`
	Status       EmailStatus `json:"status"`
	ErrorMessage *string     `json:"errorMessage,omitempty"`
	SentAt       time.Time   `json:"sentAt"`
}

type EmailLogRepository interface {
	Create(entry *EmailLog) (*EmailLog, error)
	// GetByClient returns the client's email history ordered sent_at desc.
	GetByClient(ownerID, clientID uuid.UUID) ([]*EmailLog, error)
}
