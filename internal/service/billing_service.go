package service

import (
	"sort"
	"time"

	"github.com/ncastro/gymkeep-backend/internal/domain"
	"github.com/ncastro/gymkeep-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DayMark classifies one calendar day of a client's billed history.
type DayMark string

const (
	MarkPaid DayMark = "paid"
	MarkDebt DayMark = "debt"
)

// dayKey is the map key format for day markers.
const dayKey = "2006-01-02"

// BillingService derives a client's billing state from its payment history.
// The payment rows are the single source of truth: nothing here reads stored
// aggregates, so recomputing over the same history is idempotent.
type BillingService struct {
	inactiveAfterDays int
}

// NewBillingService creates a BillingService with the given inactivity
// threshold in days.
func NewBillingService(inactiveAfterDays int) *BillingService {
	return &BillingService{inactiveAfterDays: inactiveAfterDays}
}

// LastPayment returns the payment with the greatest created_at, breaking ties
// by the greatest insertion seq. Returns nil for an empty history.
func LastPayment(payments []*domain.Payment) *domain.Payment {
	var last *domain.Payment
	for _, p := range payments {
		if last == nil {
			last = p
			continue
		}
		if p.CreatedAt.After(last.CreatedAt) ||
			(p.CreatedAt.Equal(last.CreatedAt) && p.Seq > last.Seq) {
			last = p
		}
	}
	return last
}

// ComputeRow builds the list-view row for a client from its full payment
// history. The history may arrive in any order.
func (s *BillingService) ComputeRow(client *domain.Client, payments []*domain.Payment, now time.Time) *domain.ClientRow {
	last := LastPayment(payments)

	row := &domain.ClientRow{
		Client:             *client,
		CurrentDebt:        decimal.Zero,
		TotalPaidThisMonth: totalPaidInMonth(payments, now),
	}

	if last != nil {
		row.CurrentDebt = last.Debt
		row.CurrentPlan = last.Plan
		if last.PeriodTo != nil {
			due := *last.PeriodTo
			row.NextDue = &due
		}
	}

	row.IsMonthFullyPaid = row.CurrentDebt.LessThanOrEqual(decimal.Zero)
	row.ComputedStatus = s.status(last, now)
	return row
}

// status classifies a client as inactive when it has no payments at all, or
// when now is more than the inactivity threshold past the later of the
// last-payment date and its due date. Day granularity throughout.
func (s *BillingService) status(last *domain.Payment, now time.Time) domain.ClientStatus {
	if last == nil {
		return domain.StatusInactive
	}

	anchor := last.CreatedAt
	if last.PeriodTo != nil && last.PeriodTo.After(anchor) {
		anchor = *last.PeriodTo
	}

	if util.DaysSince(now, anchor) > s.inactiveAfterDays {
		return domain.StatusInactive
	}
	return domain.StatusActive
}

// totalPaidInMonth sums the amounts of payments created within now's calendar
// month, start inclusive, end exclusive.
func totalPaidInMonth(payments []*domain.Payment, now time.Time) decimal.Decimal {
	monthStart, monthNext := util.MonthBounds(now)

	total := decimal.Zero
	for _, p := range payments {
		if !p.CreatedAt.Before(monthStart) && p.CreatedAt.Before(monthNext) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// BuildDayMarkers maps each billed calendar day to paid or debt. Payments are
// applied in created_at order (seq breaks ties) so the most recently recorded
// payment wins on overlapping days. When the client's aggregate debt is zero
// every marker is forced to paid, correcting markers left by payments that
// carried debt at the time but have since been settled.
func BuildDayMarkers(payments []*domain.Payment, currentDebt decimal.Decimal) map[string]DayMark {
	ordered := make([]*domain.Payment, len(payments))
	copy(ordered, payments)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	markers := make(map[string]DayMark)
	for _, p := range ordered {
		if p.PeriodFrom == nil || p.PeriodTo == nil {
			continue
		}
		mark := MarkPaid
		if p.Debt.GreaterThan(decimal.Zero) {
			mark = MarkDebt
		}
		from := util.StartOfDay(*p.PeriodFrom)
		to := util.StartOfDay(*p.PeriodTo)
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			markers[d.Format(dayKey)] = mark
		}
	}

	if currentDebt.LessThanOrEqual(decimal.Zero) {
		for k := range markers {
			markers[k] = MarkPaid
		}
	}
	return markers
}

// OpenDebtPeriod returns the period of the most recently recorded payment
// that still carries debt and has both period bounds set. Used to pre-fill
// the date range when settling an outstanding period. ok is false when no
// such payment exists.
func OpenDebtPeriod(payments []*domain.Payment) (from, to time.Time, ok bool) {
	var candidate *domain.Payment
	for _, p := range payments {
		if !p.Debt.GreaterThan(decimal.Zero) || p.PeriodFrom == nil || p.PeriodTo == nil {
			continue
		}
		if candidate == nil ||
			p.CreatedAt.After(candidate.CreatedAt) ||
			(p.CreatedAt.Equal(candidate.CreatedAt) && p.Seq > candidate.Seq) {
			candidate = p
		}
	}
	if candidate == nil {
		return time.Time{}, time.Time{}, false
	}
	return *candidate.PeriodFrom, *candidate.PeriodTo, true
}

// DebtPaymentAmount is the auto-computed amount for a debt-settlement
// payment: the outstanding debt minus the discount, clamped at zero.
func DebtPaymentAmount(baseDebt, discount decimal.Decimal) decimal.Decimal {
	amount := baseDebt.Sub(discount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// DebtPaymentRemaining is the debt left after a debt-settlement payment of
// the given amount and discount, clamped at zero. Together with
// DebtPaymentAmount it keeps amount + debt + discount == baseDebt for
// debt-settlement entries.
func DebtPaymentRemaining(baseDebt, amount, discount decimal.Decimal) decimal.Decimal {
	rest := baseDebt.Sub(amount).Sub(discount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
