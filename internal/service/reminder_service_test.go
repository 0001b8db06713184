package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/ncastro/gymkeep-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dueClient(name, email, ownerName string, dueDate time.Time) *domain.DueClient {
	return &domain.DueClient{
		ClientID:  uuid.New(),
		OwnerID:   uuid.New(),
		Name:      name,
		Email:     email,
		OwnerName: ownerName,
		DueDate:   dueDate,
	}
}

func TestSweep_SendsToClientsDueInFiveDays(t *testing.T) {
	clientRepo := testutil.NewMockClientRepository()
	emailLogRepo := testutil.NewMockEmailLogRepository()
	mail := testutil.NewMockMailer()
	svc := NewReminderService(clientRepo, emailLogRepo, mail)

	now := date(2025, time.March, 10)
	target := date(2025, time.March, 15)

	clientRepo.Due = []*domain.DueClient{
		dueClient("Ana", "ana@example.com", "Gym Uno", target),
		dueClient("Bruno", "bruno@example.com", "Gym Uno", target),
		dueClient("Carla", "carla@example.com", "Gym Dos", target.AddDate(0, 0, 1)),
	}

	result, err := svc.Sweep(now)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	require.Len(t, mail.UpcomingDue, 2)
	assert.Equal(t, "2025-03-15", mail.UpcomingDue[0].DueDate)
	assert.Len(t, emailLogRepo.Entries, 2)
	for _, entry := range emailLogRepo.Entries {
		assert.Equal(t, domain.EmailUpcomingDue, entry.Type)
		assert.Equal(t, domain.EmailSent, entry.Status)
	}
}

func TestSweep_FailedSendIsRecordedAndDoesNotAbort(t *testing.T) {
	clientRepo := testutil.NewMockClientRepository()
	emailLogRepo := testutil.NewMockEmailLogRepository()
	mail := testutil.NewMockMailer()
	svc := NewReminderService(clientRepo, emailLogRepo, mail)

	now := date(2025, time.March, 10)
	target := date(2025, time.March, 15)

	clientRepo.Due = []*domain.DueClient{
		dueClient("Ana", "ana@example.com", "Gym Uno", target),
		dueClient("Bruno", "bruno@example.com", "Gym Uno", target),
		dueClient("Carla", "carla@example.com", "Gym Uno", target),
	}
	mail.FailFor["bruno@example.com"] = true

	result, err := svc.Sweep(now)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Candidates)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)

	require.Len(t, emailLogRepo.Entries, 3)
	failures := 0
	for _, entry := range emailLogRepo.Entries {
		if entry.Status == domain.EmailFailed {
			failures++
			require.NotNil(t, entry.ErrorMessage)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestSweep_NoCandidates(t *testing.T) {
	clientRepo := testutil.NewMockClientRepository()
	emailLogRepo := testutil.NewMockEmailLogRepository()
	mail := testutil.NewMockMailer()
	svc := NewReminderService(clientRepo, emailLogRepo, mail)

	result, err := svc.Sweep(date(2025, time.March, 10))
	require.NoError(t, err)

	assert.Equal(t, 0, result.Candidates)
	assert.Empty(t, mail.UpcomingDue)
	assert.Empty(t, emailLogRepo.Entries)
}
