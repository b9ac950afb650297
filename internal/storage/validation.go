// Package storage provides the data persistence layer for the findeep
// application.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/findeep/findeep/internal/common"
	"github.com/findeep/findeep/internal/model"
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("%w: context cannot be nil", common.ErrValidation)
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", common.ErrValidation, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction record before a write.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction cannot be nil", common.ErrValidation)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: transaction missing ID", common.ErrValidation)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: transaction missing date", common.ErrValidation)
	}
	if txn.Description == "" {
		return fmt.Errorf("%w: transaction missing description", common.ErrValidation)
	}
	return nil
}

// validateCategory validates a single category record before a write.
func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category cannot be nil", common.ErrValidation)
	}
	if cat.ID == "" {
		return fmt.Errorf("%w: category missing ID", common.ErrValidation)
	}
	if strings.TrimSpace(cat.Name) == "" {
		return fmt.Errorf("%w: category missing name", common.ErrValidation)
	}
	if cat.Position < 0 {
		return fmt.Errorf("%w: category position cannot be negative", common.ErrValidation)
	}
	return nil
}

// validateBudget validates the singleton budget record before a write.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget cannot be nil", common.ErrValidation)
	}
	if budget.ID != model.BudgetID {
		return fmt.Errorf("%w: budget id must be %q", common.ErrValidation, model.BudgetID)
	}
	if budget.Income.IsNegative() {
		return fmt.Errorf("%w: income cannot be negative", common.ErrValidation)
	}
	switch budget.PayPeriod {
	case model.PayPeriodMonthly, model.PayPeriodBiweekly:
	default:
		return fmt.Errorf("%w: unknown pay period %q", common.ErrValidation, budget.PayPeriod)
	}
	return nil
}
