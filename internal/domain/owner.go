package domain

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a tenant: a gym whose staff manage clients and payments.
type Owner struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	PINHash           *string    `json:"-"`
	PINFailedAttempts int        `json:"-"`
	PINLockedUntil    *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type OwnerRepository interface {
	Create(owner *Owner) (*Owner, error)
	GetByID(id uuid.UUID) (*Owner, error)
	GetByEmail(email string) (*Owner, error)
	SetPIN(id uuid.UUID, pinHash *string) error
	UpdatePINState(id uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
}
