package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/ncastro/gymkeep-backend/internal/mailer"
	"github.com/ncastro/gymkeep-backend/internal/util"
)

// MockOwnerRepository is a mock implementation of domain.OwnerRepository
type MockOwnerRepository struct {
	Owners   map[uuid.UUID]*domain.Owner
	ByEmail  map[string]*domain.Owner
	CreateFn func(owner *domain.Owner) (*domain.Owner, error)
}

// NewMockOwnerRepository creates a new MockOwnerRepository
func NewMockOwnerRepository() *MockOwnerRepository {
	return &MockOwnerRepository{
		Owners:  make(map[uuid.UUID]*domain.Owner),
		ByEmail: make(map[string]*domain.Owner),
	}
}

// Create creates a new owner
func (m *MockOwnerRepository) Create(owner *domain.Owner) (*domain.Owner, error) {
	if m.CreateFn != nil {
		return m.CreateFn(owner)
	}
	if _, ok := m.ByEmail[owner.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	owner.ID = uuid.New()
	owner.CreatedAt = time.Now()
	m.Owners[owner.ID] = owner
	m.ByEmail[owner.Email] = owner
	return owner, nil
}

// GetByID retrieves an owner by ID
func (m *MockOwnerRepository) GetByID(id uuid.UUID) (*domain.Owner, error) {
	if owner, ok := m.Owners[id]; ok {
		return owner, nil
	}
	return nil, domain.ErrOwnerNotFound
}

// GetByEmail retrieves an owner by email
func (m *MockOwnerRepository) GetByEmail(email string) (*domain.Owner, error) {
	if owner, ok := m.ByEmail[email]; ok {
		return owner, nil
	}
	return nil, domain.ErrOwnerNotFound
}

// SetPIN stores the PIN hash and clears the lock state
func (m *MockOwnerRepository) SetPIN(id uuid.UUID, pinHash *string) error {
	owner, ok := m.Owners[id]
	if !ok {
		return domain.ErrOwnerNotFound
	}
	owner.PINHash = pinHash
	owner.PINFailedAttempts = 0
	owner.PINLockedUntil = nil
	return nil
}

// UpdatePINState updates the PIN failure counter and lock expiry
func (m *MockOwnerRepository) UpdatePINState(id uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	owner, ok := m.Owners[id]
	if !ok {
		return domain.ErrOwnerNotFound
	}
	owner.PINFailedAttempts = failedAttempts
	owner.PINLockedUntil = lockedUntil
	return nil
}

// AddOwner seeds an owner and returns it
func (m *MockOwnerRepository) AddOwner(name, email string) *domain.Owner {
	owner := &domain.Owner{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	m.Owners[owner.ID] = owner
	m.ByEmail[email] = owner
	return owner
}

// MockClientRepository is a mock implementation of domain.ClientRepository
type MockClientRepository struct {
	Clients  map[uuid.UUID]*domain.Client
	Due      []*domain.DueClient
	GetDueFn func(date time.Time) ([]*domain.DueClient, error)
	order    []uuid.UUID
}

// NewMockClientRepository creates a new MockClientRepository
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		Clients: make(map[uuid.UUID]*domain.Client),
	}
}

// Create creates a new client
func (m *MockClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	m.Clients[client.ID] = client
	m.order = append(m.order, client.ID)
	return client, nil
}

// GetByID retrieves a client by ID within an owner's account
func (m *MockClientRepository) GetByID(ownerID, id uuid.UUID) (*domain.Client, error) {
	client, ok := m.Clients[id]
	if !ok || client.OwnerID != ownerID {
		return nil, domain.ErrClientNotFound
	}
	return client, nil
}

// GetAllByOwner retrieves all clients for an owner in insertion order
func (m *MockClientRepository) GetAllByOwner(ownerID uuid.UUID) ([]*domain.Client, error) {
	var clients []*domain.Client
	for _, id := range m.order {
		if client, ok := m.Clients[id]; ok && client.OwnerID == ownerID {
			clients = append(clients, client)
		}
	}
	return clients, nil
}

// UpdateContact updates a client's contact fields
func (m *MockClientRepository) UpdateContact(ownerID, id uuid.UUID, data *domain.UpdateClientData) (*domain.Client, error) {
	client, err := m.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}
	client.Email = data.Email
	client.Phone = data.Phone
	client.Address = data.Address
	client.AddressNumber = data.AddressNumber
	return client, nil
}

// Delete removes a client
func (m *MockClientRepository) Delete(ownerID, id uuid.UUID) error {
	if _, err := m.GetByID(ownerID, id); err != nil {
		return err
	}
	delete(m.Clients, id)
	return nil
}

// GetDueOn returns the seeded due clients matching the date
func (m *MockClientRepository) GetDueOn(date time.Time) ([]*domain.DueClient, error) {
	if m.GetDueFn != nil {
		return m.GetDueFn(date)
	}
	var due []*domain.DueClient
	for _, d := range m.Due {
		if util.SameDay(d.DueDate, date) {
			due = append(due, d)
		}
	}
	return due, nil
}

// AddClient seeds a client and returns it
func (m *MockClientRepository) AddClient(ownerID uuid.UUID, name string, email *string) *domain.Client {
	client := &domain.Client{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	m.Clients[client.ID] = client
	m.order = append(m.order, client.ID)
	return client
}

// MockPaymentRepository is a mock implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	Payments map[uuid.UUID][]*domain.Payment
	CreateFn func(payment *domain.Payment) (*domain.Payment, error)
	nextSeq  int64
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		Payments: make(map[uuid.UUID][]*domain.Payment),
	}
}

// Create records a new payment
func (m *MockPaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	if m.CreateFn != nil {
		return m.CreateFn(payment)
	}
	m.nextSeq++
	payment.ID = uuid.New()
	payment.Seq = m.nextSeq
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	m.Payments[payment.ClientID] = append(m.Payments[payment.ClientID], payment)
	return payment, nil
}

// GetByClient retrieves a client's payments, newest first
func (m *MockPaymentRepository) GetByClient(ownerID, clientID uuid.UUID) ([]*domain.Payment, error) {
	payments := m.Payments[clientID]
	out := make([]*domain.Payment, len(payments))
	for i, p := range payments {
		out[len(payments)-1-i] = p
	}
	return out, nil
}

// GetByClients retrieves the payments of many clients grouped by client
func (m *MockPaymentRepository) GetByClients(ownerID uuid.UUID, clientIDs []uuid.UUID) (map[uuid.UUID][]*domain.Payment, error) {
	result := make(map[uuid.UUID][]*domain.Payment)
	for _, id := range clientIDs {
		if payments, err := m.GetByClient(ownerID, id); err == nil && len(payments) > 0 {
			result[id] = payments
		}
	}
	return result, nil
}

// MockEmailLogRepository is a mock implementation of domain.EmailLogRepository
type MockEmailLogRepository struct {
	Entries  []*domain.EmailLog
	CreateFn func(entry *domain.EmailLog) (*domain.EmailLog, error)
}

// NewMockEmailLogRepository creates a new MockEmailLogRepository
func NewMockEmailLogRepository() *MockEmailLogRepository {
	return &MockEmailLogRepository{}
}

// Create records an email delivery attempt
func (m *MockEmailLogRepository) Create(entry *domain.EmailLog) (*domain.EmailLog, error) {
	if m.CreateFn != nil {
		return m.CreateFn(entry)
	}
	entry.ID = uuid.New()
	entry.SentAt = time.Now()
	m.Entries = append(m.Entries, entry)
	return entry, nil
}

// GetByClient retrieves the emails recorded for a client, newest first
func (m *MockEmailLogRepository) GetByClient(ownerID, clientID uuid.UUID) ([]*domain.EmailLog, error) {
	var entries []*domain.EmailLog
	for i := len(m.Entries) - 1; i >= 0; i-- {
		e := m.Entries[i]
		if e.OwnerID == ownerID && e.ClientID == clientID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// MockMailer records sent emails and can be told to fail
type MockMailer struct {
	UpcomingDue    []mailer.UpcomingDueParams
	Receipts       []mailer.PaymentReceiptParams
	FailFor        map[string]bool
	FailEverything bool
}

// NewMockMailer creates a new MockMailer
func NewMockMailer() *MockMailer {
	return &MockMailer{FailFor: make(map[string]bool)}
}

// SendUpcomingDue records an upcoming-due reminder send
func (m *MockMailer) SendUpcomingDue(params mailer.UpcomingDueParams) error {
	if m.FailEverything || m.FailFor[params.To] {
		return fmt.Errorf("send failed for %s", params.To)
	}
	m.UpcomingDue = append(m.UpcomingDue, params)
	return nil
}

// SendPaymentReceipt records a payment receipt send
func (m *MockMailer) SendPaymentReceipt(params mailer.PaymentReceiptParams) error {
	if m.FailEverything || m.FailFor[params.To] {
		return fmt.Errorf("send failed for %s", params.To)
	}
	m.Receipts = append(m.Receipts, params)
	return nil
}
