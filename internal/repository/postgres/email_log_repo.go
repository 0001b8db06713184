package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncastro/gymkeep-backend/internal/domain"
)

// EmailLogRepository implements domain.EmailLogRepository using PostgreSQL
type EmailLogRepository struct {
	pool *pgxpool.Pool
}

// NewEmailLogRepository creates a new EmailLogRepository
func NewEmailLogRepository(pool *pgxpool.Pool) *EmailLogRepository {
	return &EmailLogRepository{pool: pool}
}

const emailLogColumns = `id, owner_id, client_id, email_type, subject, due_date, status, error_message, sent_at`

// Create records an email delivery attempt
func (r *EmailLogRepository) Create(entry *domain.EmailLog) (*domain.EmailLog, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO email_logs (owner_id, client_id, email_type, subject, due_date, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+emailLogColumns,
		entry.OwnerID,
		entry.ClientID,
		string(entry.Type),
		entry.Subject,
		timePtrToPgDate(entry.DueDate),
		string(entry.Status),
		stringPtrToText(entry.ErrorMessage),
	)

	return scanEmailLog(row)
}

// GetByClient retrieves the emails recorded for a client, newest first
func (r *EmailLogRepository) GetByClient(ownerID, clientID uuid.UUID) ([]*domain.EmailLog, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+emailLogColumns+`
		FROM email_logs
		WHERE owner_id = $1 AND client_id = $2
		ORDER BY sent_at DESC`,
		ownerID, clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.EmailLog
	for rows.Next() {
		entry, err := scanEmailLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEmailLog(row pgx.Row) (*domain.EmailLog, error) {
	var (
		e         domain.EmailLog
		emailType string
		status    string
		dueDate   pgtype.Date
	)
	err := row.Scan(
		&e.ID,
		&e.OwnerID,
		&e.ClientID,
		&emailType,
		&e.Subject,
		&dueDate,
		&status,
		&e.ErrorMessage,
		&e.SentAt,
	)
	if err != nil {
		return nil, err
	}
	e.Type = domain.EmailType(emailType)
	e.Status = domain.EmailStatus(status)
	e.DueDate = pgDateToTimePtr(dueDate)
	return &e, nil
}
