package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ncastro/gymkeep-backend/internal/domain"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `id, owner_id, name, email, phone, address, address_number, created_at`

// Create creates a new client
func (r *ClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (owner_id, name, email, phone, address, address_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+clientColumns,
		client.OwnerID,
		client.Name,
		stringPtrToText(client.Email),
		stringPtrToText(client.Phone),
		stringPtrToText(client.Address),
		stringPtrToText(client.AddressNumber),
	)

	return scanClient(row)
}

// GetByID retrieves a client by its ID within an owner's account
func (r *ClientRepository) GetByID(ownerID, id uuid.UUID) (*domain.Client, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// GetAllByOwner retrieves all clients for an owner, oldest first
func (r *ClientRepository) GetAllByOwner(ownerID uuid.UUID) ([]*domain.Client, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// UpdateContact updates a client's contact fields
func (r *ClientRepository) UpdateContact(ownerID, id uuid.UUID, data *domain.UpdateClientData) (*domain.Client, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE clients
		SET email = $3, phone = $4, address = $5, address_number = $6
		WHERE owner_id = $1 AND id = $2
		RETURNING `+clientColumns,
		ownerID, id,
		stringPtrToText(data.Email),
		stringPtrToText(data.Phone),
		stringPtrToText(data.Address),
		stringPtrToText(data.AddressNumber),
	)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// Delete removes a client. Payments and email logs cascade at the schema
// level.
func (r *ClientRepository) Delete(ownerID, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM clients
		WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

// GetDueOn finds clients across all owners whose most recent payment falls
// due exactly on the given date and who have an email address on file.
func (r *ClientRepository) GetDueOn(date time.Time) ([]*domain.DueClient, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.owner_id, c.name, c.email, o.name, lp.next_payment_date
		FROM clients c
		JOIN owners o ON o.id = c.owner_id
		JOIN LATERAL (
			SELECT p.next_payment_date
			FROM payments p
			WHERE p.client_id = c.id
			ORDER BY p.created_at DESC, p.seq DESC
			LIMIT 1
		) lp ON true
		WHERE c.email IS NOT NULL
		  AND lp.next_payment_date = $1`,
		timeToPgDate(date),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []*domain.DueClient
	for rows.Next() {
		var d domain.DueClient
		if err := rows.Scan(&d.ClientID, &d.OwnerID, &d.Name, &d.Email, &d.OwnerName, &d.DueDate); err != nil {
			return nil, err
		}
		due = append(due, &d)
	}
	return due, rows.Err()
}

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.AddressNumber,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
