package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Membership plans. PlanDebtPayment is the sentinel plan used when a payment
// settles previously accrued debt instead of buying a new period.
const (
	PlanBasic       = "Basic"
	PlanFitness     = "Fitness"
	PlanProFitness  = "Pro fitness"
	PlanDebtPayment = "Pago deuda"
)

// Plans lists every accepted plan value.
var Plans = []string{PlanBasic, PlanFitness, PlanProFitness, PlanDebtPayment}

// IsKnownPlan reports whether plan is one of the accepted plan values.
func IsKnownPlan(plan string) bool {
	for _, p := range Plans {
		if p == plan {
			return true
		}
	}
	return false
}

// Payment is one immutable payment event. Debt holds the remaining debt
// *after* this payment; the billing calculator trusts it rather than
// re-deriving it from the full ledger. Seq is a monotonically increasing
// insertion key used to break created_at ties deterministically.
type Payment struct {
	ID              uuid.UUID       `json:"id"`
	Seq             int64           `json:"-"`
	ClientID        uuid.UUID       `json:"clientId"`
	OwnerID         uuid.UUID       `json:"ownerId"`
	Amount          decimal.Decimal `json:"amount"`
	Plan            string          `json:"plan"`
	Discount        decimal.Decimal `json:"discount"`
	Debt            decimal.Decimal `json:"debt"`
	PeriodFrom      *time.Time      `json:"periodFrom,omitempty"`
	PeriodTo        *time.Time      `json:"periodTo,omitempty"`
	NextPaymentDate *time.Time      `json:"nextPaymentDate,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type PaymentRepository interface {
	Create(payment *Payment) (*Payment, error)
	// GetByClient returns the client's full history ordered created_at desc, seq desc.
	GetByClient(ownerID, clientID uuid.UUID) ([]*Payment, error)
	// GetByClients returns the histories of all given clients keyed by client ID.
	GetByClients(ownerID uuid.UUID, clientIDs []uuid.UUID) (map[uuid.UUID][]*Payment, error)
}
