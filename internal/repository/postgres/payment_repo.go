package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncastro/gymkeep-backend/internal/domain"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, seq, client_id, owner_id, amount, discount, debt, plan, period_from, period_to, next_payment_date, created_at`

// Create records a new payment
func (r *PaymentRepository) Create(payment *domain.Payment) (*domain.Payment, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(payment.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	discount, err := decimalToPgNumeric(payment.Discount)
	if err != nil {
		return nil, fmt.Errorf("invalid discount: %w", err)
	}
	debt, err := decimalToPgNumeric(payment.Debt)
	if err != nil {
		return nil, fmt.Errorf("invalid debt: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (client_id, owner_id, amount, discount, debt, plan, period_from, period_to, next_payment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+paymentColumns,
		payment.ClientID,
		payment.OwnerID,
		amount,
		discount,
		debt,
		payment.Plan,
		timePtrToPgDate(payment.PeriodFrom),
		timePtrToPgDate(payment.PeriodTo),
		timePtrToPgDate(payment.NextPaymentDate),
	)

	return scanPayment(row)
}

// GetByClient retrieves a client's payments, newest first
func (r *PaymentRepository) GetByClient(ownerID, clientID uuid.UUID) ([]*domain.Payment, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE owner_id = $1 AND client_id = $2
		ORDER BY created_at DESC, seq DESC`,
		ownerID, clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

// GetByClients retrieves the payments of many clients in one query, grouped
// by client. Clients without payments have no map entry.
func (r *PaymentRepository) GetByClients(ownerID uuid.UUID, clientIDs []uuid.UUID) (map[uuid.UUID][]*domain.Payment, error) {
	ctx := context.Background()

	result := make(map[uuid.UUID][]*domain.Payment)
	if len(clientIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE owner_id = $1 AND client_id = ANY($2)
		ORDER BY created_at DESC, seq DESC`,
		ownerID, clientIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result[payment.ClientID] = append(result[payment.ClientID], payment)
	}
	return result, rows.Err()
}

func collectPayments(rows pgx.Rows) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p                      domain.Payment
		amount, discount, debt pgtype.Numeric
		from, to, nextPayment  pgtype.Date
	)
	err := row.Scan(
		&p.ID,
		&p.Seq,
		&p.ClientID,
		&p.OwnerID,
		&amount,
		&discount,
		&debt,
		&p.Plan,
		&from,
		&to,
		&nextPayment,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Amount = pgNumericToDecimal(amount)
	p.Discount = pgNumericToDecimal(discount)
	p.Debt = pgNumericToDecimal(debt)
	p.PeriodFrom = pgDateToTimePtr(from)
	p.PeriodTo = pgDateToTimePtr(to)
	p.NextPaymentDate = pgDateToTimePtr(nextPayment)
	return &p, nil
}
