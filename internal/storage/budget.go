package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/findeep/findeep/internal/model"
)

// GetBudget returns the singleton budget record, or nil before the first
// save.
func (s *SQLiteStorage) GetBudget(ctx context.Context) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, income, pay_period
		FROM budget
		WHERE id = ?`

	var budget model.Budget
	err := s.db.QueryRowContext(ctx, query, model.BudgetID).Scan(
		&budget.ID, &budget.Income, &budget.PayPeriod,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No budget saved yet
	}
	if err != nil {
		return nil, unavailable("failed to query budget", err)
	}

	return &budget, nil
}

// PutBudget replaces the singleton budget record wholesale.
func (s *SQLiteStorage) PutBudget(ctx context.Context, budget model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(&budget); err != nil {
		return err
	}

	query := `
		INSERT INTO budget (id, income, pay_period, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			income = excluded.income,
			pay_period = excluded.pay_period,
			updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query,
		budget.ID, budget.Income, string(budget.PayPeriod),
	); err != nil {
		return unavailable("failed to put budget", err)
	}

	slog.Debug("stored budget", "income", budget.Income, "pay_period", budget.PayPeriod)
	return nil
}
