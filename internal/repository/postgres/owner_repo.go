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

// OwnerRepository implements domain.OwnerRepository using PostgreSQL
type OwnerRepository struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository creates a new OwnerRepository
func NewOwnerRepository(pool *pgxpool.Pool) *OwnerRepository {
	return &OwnerRepository{pool: pool}
}

const ownerColumns = `id, name, email, password_hash, pin_hash, pin_failed_attempts, pin_locked_until, created_at`

// Create creates a new owner account
func (r *OwnerRepository) Create(owner *domain.Owner) (*domain.Owner, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO owners (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+ownerColumns,
		owner.Name, owner.Email, owner.PasswordHash,
	)

	created, err := scanOwner(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an owner by its ID
func (r *OwnerRepository) GetByID(id uuid.UUID) (*domain.Owner, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		WHERE id = $1`,
		id,
	)

	owner, err := scanOwner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}
	return owner, nil
}

// GetByEmail retrieves an owner by email
func (r *OwnerRepository) GetByEmail(email string) (*domain.Owner, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+ownerColumns+`
		FROM owners
		WHERE email = $1`,
		email,
	)

	owner, err := scanOwner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, err
	}
	return owner, nil
}

// SetPIN stores the PIN hash and resets the failure counter
func (r *OwnerRepository) SetPIN(id uuid.UUID, pinHash *string) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE owners
		SET pin_hash = $2, pin_failed_attempts = 0, pin_locked_until = NULL
		WHERE id = $1`,
		id, stringPtrToText(pinHash),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOwnerNotFound
	}
	return nil
}

// UpdatePINState updates the PIN failure counter and lock expiry
func (r *OwnerRepository) UpdatePINState(id uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE owners
		SET pin_failed_attempts = $2, pin_locked_until = $3
		WHERE id = $1`,
		id, failedAttempts, timePtrToTimestamp(lockedUntil),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOwnerNotFound
	}
	return nil
}

func scanOwner(row pgx.Row) (*domain.Owner, error) {
	var o domain.Owner
	err := row.Scan(
		&o.ID,
		&o.Name,
		&o.Email,
		&o.PasswordHash,
		&o.PINHash,
		&o.PINFailedAttempts,
		&o.PINLockedUntil,
		&o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
