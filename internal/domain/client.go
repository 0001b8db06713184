package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientStatus is the computed active/inactive classification of a client.
type ClientStatus string

const (
	StatusActive   ClientStatus = "active"
	StatusInactive ClientStatus = "inactive"
)

// Client is a gym member. Billing state is never stored on the client row;
// it is recomputed from the payment history on every read.
type Client struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"ownerId"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	AddressNumber *string   `json:"addressNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ClientRow is the computed list-view row: Client identity plus billing state
// derived from the payment history. Recomputed per request, never persisted.
type ClientRow struct {
	Client
	CurrentPlan        string          `json:"currentPlan"`
	CurrentDebt        decimal.Decimal `json:"currentDebt"`
	TotalPaidThisMonth decimal.Decimal `json:"totalPaidThisMonth"`
	NextDue            *time.Time      `json:"nextDue,omitempty"`
	IsMonthFullyPaid   bool            `json:"isMonthFullyPaid"`
	ComputedStatus     ClientStatus    `json:"computedStatus"`
}

// UpdateClientData carries the mutable contact fields. Name is immutable
// after creation.
type UpdateClientData struct {
	Email         *string
	Phone         *string
	Address       *string
	AddressNumber *string
}

// DueClient is a reminder-sweep row: a client whose computed next due date
// matches the sweep target, joined with the owner name for the email subject.
type DueClient struct {
	ClientID  uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Email     string
	OwnerName string
	DueDate   time.Time
}

type ClientRepository interface {
	Create(client *Client) (*Client, error)
	GetByID(ownerID, id uuid.UUID) (*Client, error)
	GetAllByOwner(ownerID uuid.UUID) ([]*Client, error)
	UpdateContact(ownerID, id uuid.UUID, data *UpdateClientData) (*Client, error)
	Delete(ownerID, id uuid.UUID) error
	// GetDueOn returns clients with a non-null email whose latest payment's
	// period_to equals the given date (day granularity).
	GetDueOn(date time.Time) ([]*DueClient, error)
}
