package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/findeep/findeep/internal/common"
	"github.com/findeep/findeep/internal/model"
)

// GetTransactions returns every transaction, in creation order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, description, amount, category, date
		FROM transactions
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("failed to query transactions", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(&txn.ID, &txn.Description, &txn.Amount, &txn.Category, &txn.Date); err != nil {
			return nil, unavailable("failed to scan transaction", err)
		}
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating transactions", err)
	}

	slog.Debug("retrieved transactions", "count", len(transactions))
	return transactions, nil
}

// GetTransaction returns a transaction by id, or nil when absent.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, description, amount, category, date
		FROM transactions
		WHERE id = ?`

	var txn model.Transaction
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&txn.ID, &txn.Description, &txn.Amount, &txn.Category, &txn.Date,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Transaction not found
	}
	if err != nil {
		return nil, unavailable("failed to query transaction", err)
	}

	return &txn, nil
}

// PutTransaction inserts or replaces a transaction keyed by its id.
// The last writer for a given id wins; nothing is merged.
func (s *SQLiteStorage) PutTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(&txn); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, description, amount, category, date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			amount = excluded.amount,
			category = excluded.category,
			date = excluded.date`

	if _, err := s.db.ExecContext(ctx, query,
		txn.ID, txn.Description, txn.Amount, txn.Category, txn.Date,
	); err != nil {
		return unavailable("failed to put transaction", err)
	}

	slog.Debug("stored transaction", "id", txn.ID, "category", txn.Category)
	return nil
}

// DeleteTransaction removes a transaction by id. Deleting a missing id
// reports ErrNotFound.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return unavailable("failed to delete transaction", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("failed to check delete result", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}

	return nil
}
