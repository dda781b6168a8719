package store

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"budget-bites/state-svc/internal/domain"
)

var ErrBelowMinimumBudget = errors.New("below minimum budget")

func checkDailyBudget(amount decimal.Decimal) error {
	if amount.LessThan(domain.MinDailyBudget) {
		return fmt.Errorf("daily budget %s (min %s): %w", amount, domain.MinDailyBudget, ErrBelowMinimumBudget)
	}
	return nil
}

// SetDailyBudget rejects amounts under domain.MinDailyBudget and leaves state unchanged.
// The logged-in profile follows the new limit.
func (s *Store) SetDailyBudget(amount decimal.Decimal) error {
	if err := checkDailyBudget(amount); err != nil {
		return err
	}
	s.mutate(func() bool {
		s.budget.DailyBudget = amount
		if s.user != nil {
			s.user.DailyBudget = amount
		}
		return true
	})
	return nil
}

func (s *Store) SetMonthlyBudget(amount decimal.Decimal) error {
	if amount.LessThan(domain.MinMonthlyBudget) {
		return fmt.Errorf("monthly budget %s (min %s): %w", amount, domain.MinMonthlyBudget, ErrBelowMinimumBudget)
	}
	s.mutate(func() bool {
		s.budget.MonthlyBudget = amount
		return true
	})
	return nil
}

// RecordSpend adds a positive amount to both accumulators.
func (s *Store) RecordSpend(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	return s.mutate(func() bool {
		s.budget.SpentToday = s.budget.SpentToday.Add(amount)
		s.budget.SpentThisMonth = s.budget.SpentThisMonth.Add(amount)
		return true
	})
}

func (s *Store) ResetDailySpend() {
	s.mutate(func() bool {
		if s.budget.SpentToday.IsZero() {
			return false
		}
		s.budget.SpentToday = decimal.Zero
		return true
	})
}

func (s *Store) ResetMonthlySpend() {
	s.mutate(func() bool {
		if s.budget.SpentThisMonth.IsZero() {
			return false
		}
		s.budget.SpentThisMonth = decimal.Zero
		return true
	})
}

func (s *Store) Budget() domain.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}
