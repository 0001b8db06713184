package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ncastro/gymkeep-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	// maxPINAttempts is how many wrong PINs are tolerated before the
	// owner's PIN entry is locked.
	maxPINAttempts = 5
	// pinLockDuration is how long PIN entry stays locked after too many
	// failed attempts.
	pinLockDuration = 10 * time.Minute
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// AuthService handles owner registration, login and PIN verification.
type AuthService struct {
	ownerRepo domain.OwnerRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(ownerRepo domain.OwnerRepository) *AuthService {
	return &AuthService{ownerRepo: ownerRepo}
}

// Register creates an owner account with a bcrypt password hash.
func (s *AuthService) Register(name, email, password string) (*domain.Owner, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.ownerRepo.Create(&domain.Owner{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
}

// Login verifies the owner's credentials.
func (s *AuthService) Login(email, password string) (*domain.Owner, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	owner, err := s.ownerRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return owner, nil
}

// GetOwner returns the owner by id.
func (s *AuthService) GetOwner(id uuid.UUID) (*domain.Owner, error) {
	return s.ownerRepo.GetByID(id)
}

// SetPIN stores a bcrypt hash of a 4-digit PIN and clears any lock state.
func (s *AuthService) SetPIN(ownerID uuid.UUID, pin string) error {
	if !pinPattern.MatchString(pin) {
		return domain.ErrInvalidPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	h := string(hash)
	return s.ownerRepo.SetPIN(ownerID, &h)
}

// VerifyPIN checks the owner's PIN. After maxPINAttempts consecutive
// failures the PIN is locked for pinLockDuration; attempts during the lock
// return ErrPINLocked without being counted.
func (s *AuthService) VerifyPIN(ownerID uuid.UUID, pin string) error {
	owner, err := s.ownerRepo.GetByID(ownerID)
	if err != nil {
		return err
	}
	if owner.PINHash == nil {
		return domain.ErrPINNotSet
	}

	now := time.Now()
	if owner.PINLockedUntil != nil && owner.PINLockedUntil.After(now) {
		return domain.ErrPINLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(*owner.PINHash), []byte(pin)) != nil {
		attempts := owner.PINFailedAttempts + 1
		var lockedUntil *time.Time
		if attempts >= maxPINAttempts {
			until := now.Add(pinLockDuration)
			lockedUntil = &until
			attempts = 0
		}
		if err := s.ownerRepo.UpdatePINState(ownerID, attempts, lockedUntil); err != nil {
			return err
		}
		if lockedUntil != nil {
			return domain.ErrPINLocked
		}
		return domain.ErrInvalidPIN
	}

	return s.ownerRepo.UpdatePINState(ownerID, 0, nil)
}
