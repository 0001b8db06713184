package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ClientService handles client lifecycle and the computed list view.
type ClientService struct {
	clientRepo   domain.ClientRepository
	paymentRepo  domain.PaymentRepository
	emailLogRepo domain.EmailLogRepository
	billing      *BillingService
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo domain.ClientRepository, paymentRepo domain.PaymentRepository, emailLogRepo domain.EmailLogRepository, billing *BillingService) *ClientService {
	return &ClientService{
		clientRepo:   clientRepo,
		paymentRepo:  paymentRepo,
		emailLogRepo: emailLogRepo,
		billing:      billing,
	}
}

// CreateClientInput carries the fields for registering a client.
type CreateClientInput struct {
	Name          string
	Email         *string
	Phone         *string
	Address       *string
	AddressNumber *string
}

// CreateClient registers a new client for the owner.
func (s *ClientService) CreateClient(ownerID uuid.UUID, input CreateClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxClientNameLength {
		return nil, domain.ErrNameTooLong
	}

	return s.clientRepo.Create(&domain.Client{
		OwnerID:       ownerID,
		Name:          name,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		AddressNumber: input.AddressNumber,
	})
}

// GetClient returns a single client owned by ownerID.
func (s *ClientService) GetClient(ownerID, id uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByID(ownerID, id)
}

// UpdateClient updates a client's contact fields. Name is immutable.
func (s *ClientService) UpdateClient(ownerID, id uuid.UUID, data *domain.UpdateClientData) (*domain.Client, error) {
	return s.clientRepo.UpdateContact(ownerID, id, data)
}

// DeleteClient removes a client and, through the schema's cascade, its
// payment history.
func (s *ClientService) DeleteClient(ownerID, id uuid.UUID) error {
	return s.clientRepo.Delete(ownerID, id)
}

// ListRows returns the computed billing row for every client of the owner,
// optionally filtered by computed status. Each row is derived from the full
// payment history on every call.
func (s *ClientService) ListRows(ownerID uuid.UUID, statusFilter *domain.ClientStatus) ([]*domain.ClientRow, error) {
	clients, err := s.clientRepo.GetAllByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}

	histories, err := s.paymentRepo.GetByClients(ownerID, ids)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows := make([]*domain.ClientRow, 0, len(clients))
	for _, c := range clients {
		row := s.billing.ComputeRow(c, histories[c.ID], now)
		if statusFilter != nil && row.ComputedStatus != *statusFilter {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// EmailHistory returns the emails recorded for a client, newest first.
func (s *ClientService) EmailHistory(ownerID, clientID uuid.UUID) ([]*domain.EmailLog, error) {
	if _, err := s.clientRepo.GetByID(ownerID, clientID); err != nil {
		return nil, err
	}
	return s.emailLogRepo.GetByClient(ownerID, clientID)
}

// ClientMarkers is the calendar pre-fill payload for the payment form: the
// per-day paid/debt classification, the client's outstanding debt, and the
// still-unpaid period when one exists.
type ClientMarkers struct {
	Markers    map[string]DayMark
	BaseDebt   decimal.Decimal
	PeriodFrom *time.Time
	PeriodTo   *time.Time
}

// GetMarkers computes the day markers and open debt period for a client.
func (s *ClientService) GetMarkers(ownerID, clientID uuid.UUID) (*ClientMarkers, error) {
	if _, err := s.clientRepo.GetByID(ownerID, clientID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByClient(ownerID, clientID)
	if err != nil {
		return nil, err
	}

	currentDebt := decimal.Zero
	if last := LastPayment(payments); last != nil {
		currentDebt = last.Debt
	}

	out := &ClientMarkers{
		Markers:  BuildDayMarkers(payments, currentDebt),
		BaseDebt: currentDebt,
	}
	if currentDebt.GreaterThan(decimal.Zero) {
		if from, to, ok := OpenDebtPeriod(payments); ok {
			out.PeriodFrom = &from
			out.PeriodTo = &to
		}
	}
	return out, nil
}
