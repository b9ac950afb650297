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

// GetCategories returns all categories ordered by their explicit position.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, allocated, spent, position
		FROM categories
		ORDER BY position, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable("failed to query categories", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.Allocated, &cat.Spent, &cat.Position); err != nil {
			return nil, unavailable("failed to scan category", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating categories", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategory returns a category by id, or nil when absent.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, type, allocated, spent, position
		FROM categories
		WHERE id = ?`

	var cat model.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&cat.ID, &cat.Name, &cat.Type, &cat.Allocated, &cat.Spent, &cat.Position,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, unavailable("failed to query category", err)
	}

	return &cat, nil
}

// PutCategory inserts or replaces a category keyed by its id.
func (s *SQLiteStorage) PutCategory(ctx context.Context, cat model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(&cat); err != nil {
		return err
	}

	query := `
		INSERT INTO categories (id, name, type, allocated, spent, position)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			allocated = excluded.allocated,
			spent = excluded.spent,
			position = excluded.position`

	if _, err := s.db.ExecContext(ctx, query,
		cat.ID, cat.Name, string(cat.Type), cat.Allocated, cat.Spent, cat.Position,
	); err != nil {
		return unavailable("failed to put category", err)
	}

	slog.Debug("stored category", "id", cat.ID, "name", cat.Name)
	return nil
}

// DeleteCategory removes a category by id. Referencing transactions are
// left in place; they surface as uncategorized in derived views.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return unavailable("failed to delete category", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("failed to check delete result", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	return nil
}
