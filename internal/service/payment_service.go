package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/ncastro/gymkeep-backend/internal/mailer"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PaymentService registers payments and sends the receipt email.
type PaymentService struct {
	paymentRepo  domain.PaymentRepository
	clientRepo   domain.ClientRepository
	ownerRepo    domain.OwnerRepository
	emailLogRepo domain.EmailLogRepository
	mailer       mailer.Mailer
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo domain.PaymentRepository,
	clientRepo domain.ClientRepository,
	ownerRepo domain.OwnerRepository,
	emailLogRepo domain.EmailLogRepository,
	m mailer.Mailer,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		clientRepo:   clientRepo,
		ownerRepo:    ownerRepo,
		emailLogRepo: emailLogRepo,
		mailer:       m,
	}
}

// RegisterPaymentInput carries the fields for recording a payment. For the
// debt settlement plan the remaining debt is derived server-side, a zero
// amount settles the full open debt, and the period fields are ignored.
type RegisterPaymentInput struct {
	ClientID   uuid.UUID
	Plan       string
	Amount     decimal.Decimal
	Discount   decimal.Decimal
	Debt       decimal.Decimal
	PeriodFrom *time.Time
	PeriodTo   *time.Time
}

// RegisterPayment validates and persists a payment, then attempts the
// receipt email. Email delivery is advisory: its outcome is recorded in the
// email log but never fails the registration.
func (s *PaymentService) RegisterPayment(ownerID uuid.UUID, input RegisterPaymentInput) (*domain.Payment, error) {
	if input.ClientID == uuid.Nil {
		return nil, domain.ErrClientRequired
	}
	if input.Plan == "" {
		return nil, domain.ErrPlanRequired
	}
	if !domain.IsKnownPlan(input.Plan) {
		return nil, domain.ErrUnknownPlan
	}
	if input.Amount.IsNegative() || input.Discount.IsNegative() || input.Debt.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}

	client, err := s.clientRepo.GetByID(ownerID, input.ClientID)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ClientID: client.ID,
		OwnerID:  ownerID,
		Plan:     input.Plan,
		Discount: input.Discount,
	}

	if input.Plan == domain.PlanDebtPayment {
		history, err := s.paymentRepo.GetByClient(ownerID, client.ID)
		if err != nil {
			return nil, err
		}
		last := LastPayment(history)
		baseDebt := decimal.Zero
		if last != nil {
			baseDebt = last.Debt
		}
		// The operator may lower the amount for a partial settlement. An
		// omitted or zero amount settles everything the discount leaves,
		// and an amount above the open debt is clamped down to it.
		amount := DebtPaymentAmount(baseDebt, input.Discount)
		if input.Amount.IsPositive() && input.Amount.LessThan(amount) {
			amount = input.Amount
		}
		payment.Amount = amount
		payment.Debt = DebtPaymentRemaining(baseDebt, amount, input.Discount)
		if from, to, ok := OpenDebtPeriod(history); ok {
			payment.PeriodFrom = &from
			payment.PeriodTo = &to
		}
	} else {
		if input.PeriodFrom == nil || input.PeriodTo == nil {
			return nil, domain.ErrPeriodRequired
		}
		if input.PeriodTo.Before(*input.PeriodFrom) {
			return nil, domain.ErrInvalidPeriod
		}
		payment.Amount = input.Amount
		payment.Debt = input.Debt
		payment.PeriodFrom = input.PeriodFrom
		payment.PeriodTo = input.PeriodTo
	}
	payment.NextPaymentDate = payment.PeriodTo

	created, err := s.paymentRepo.Create(payment)
	if err != nil {
		return nil, err
	}

	s.sendReceipt(ownerID, client, created)

	return created, nil
}

// ListPayments returns the payment history for a client, newest first.
func (s *PaymentService) ListPayments(ownerID, clientID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.clientRepo.GetByID(ownerID, clientID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByClient(ownerID, clientID)
}

// sendReceipt sends the payment receipt to the client when an address is on
// file and records the outcome. Failures are logged, not returned.
func (s *PaymentService) sendReceipt(ownerID uuid.UUID, client *domain.Client, payment *domain.Payment) {
	if client.Email == nil || *client.Email == "" {
		return
	}

	owner, err := s.ownerRepo.GetByID(ownerID)
	if err != nil {
		log.Error().Err(err).Str("client_id", client.ID.String()).Msg("receipt email skipped: owner lookup failed")
		return
	}

	dueDate := ""
	if payment.NextPaymentDate != nil {
		dueDate = payment.NextPaymentDate.Format("2006-01-02")
	}

	sendErr := s.mailer.SendPaymentReceipt(mailer.PaymentReceiptParams{
		To:         *client.Email,
		ClientName: client.Name,
		OwnerName:  owner.Name,
		Amount:     payment.Amount.StringFixed(2),
		Plan:       payment.Plan,
		DueDate:    dueDate,
	})

	entry := &domain.EmailLog{
		OwnerID:  ownerID,
		ClientID: client.ID,
		Type:     domain.EmailPaymentReceipt,
		Subject:  mailer.PaymentReceiptSubject(owner.Name),
		DueDate:  payment.NextPaymentDate,
		Status:   domain.EmailSent,
	}
	if sendErr != nil {
		msg := sendErr.Error()
		entry.Status = domain.EmailFailed
		entry.ErrorMessage = &msg
		log.Error().Err(sendErr).Str("client_id", client.ID.String()).Msg("receipt email failed")
	}

	if _, err := s.emailLogRepo.Create(entry); err != nil {
		log.Error().Err(err).Str("client_id", client.ID.String()).Msg("email log write failed")
	}
}
