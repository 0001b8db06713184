package service

import (
	"time"

	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/ncastro/gymkeep-backend/internal/mailer"
	"github.com/ncastro/gymkeep-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// reminderLeadDays is how many days before the due date the reminder goes out.
const reminderLeadDays = 5

// ReminderService sends upcoming-due reminder emails across all owners.
type ReminderService struct {
	clientRepo   domain.ClientRepository
	emailLogRepo domain.EmailLogRepository
	mailer       mailer.Mailer
}

// NewReminderService creates a new ReminderService
func NewReminderService(clientRepo domain.ClientRepository, emailLogRepo domain.EmailLogRepository, m mailer.Mailer) *ReminderService {
	return &ReminderService{
		clientRepo:   clientRepo,
		emailLogRepo: emailLogRepo,
		mailer:       m,
	}
}

// SweepResult summarizes one reminder sweep.
type SweepResult struct {
	TargetDate time.Time `json:"targetDate"`
	Candidates int       `json:"candidates"`
	Sent       int       `json:"sent"`
	Failed     int       `json:"failed"`
}

// Sweep finds every client whose next due date lands exactly reminderLeadDays
// from now and emails each one a reminder. Each attempt is recorded in the
// email log; a failed send never aborts the sweep.
func (s *ReminderService) Sweep(now time.Time) (*SweepResult, error) {
	target := util.StartOfDay(now).AddDate(0, 0, reminderLeadDays)

	due, err := s.clientRepo.GetDueOn(target)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{TargetDate: target, Candidates: len(due)}
	for _, c := range due {
		sendErr := s.mailer.SendUpcomingDue(mailer.UpcomingDueParams{
			To:         c.Email,
			ClientName: c.Name,
			OwnerName:  c.OwnerName,
			DueDate:    c.DueDate.Format("2006-01-02"),
		})

		dueDate := c.DueDate
		entry := &domain.EmailLog{
			OwnerID:  c.OwnerID,
			ClientID: c.ClientID,
			Type:     domain.EmailUpcomingDue,
			Subject:  mailer.UpcomingDueSubject(c.OwnerName),
			DueDate:  &dueDate,
			Status:   domain.EmailSent,
		}
		if sendErr != nil {
			msg := sendErr.Error()
			entry.Status = domain.EmailFailed
			entry.ErrorMessage = &msg
			result.Failed++
			log.Error().Err(sendErr).Str("client_id", c.ClientID.String()).Msg("reminder email failed")
		} else {
			result.Sent++
		}

		if _, err := s.emailLogRepo.Create(entry); err != nil {
			log.Error().Err(err).Str("client_id", c.ClientID.String()).Msg("email log write failed")
		}
	}

	log.Info().
		Str("target_date", target.Format("2006-01-02")).
		Int("candidates", result.Candidates).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("reminder sweep completed")

	return result, nil
}
