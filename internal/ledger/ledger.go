// Package ledger maintains the category collection and keeps each
// category's running spent total consistent as transactions change.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/findeep/findeep/internal/common"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/service"
)

// Ledger is the single mutation point for categories: every change to a
// category's spent, allocated, or position flows through it, so concurrent
// edits serialize here without extra locking.
type Ledger struct {
	storage service.Storage
	cats    []model.Category
}

// New creates a ledger backed by the given storage.
func New(storage service.Storage) *Ledger {
	return &Ledger{storage: storage}
}

// Load populates the in-memory category list from storage, in position
// order.
func (l *Ledger) Load(ctx context.Context) error {
	cats, err := l.storage.GetCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	l.cats = cats
	slog.Debug("loaded categories", "count", len(cats))
	return nil
}

// EnsureDefaults seeds the starter categories on an empty collection:
// Rent, Groceries, and Savings.
func (l *Ledger) EnsureDefaults(ctx context.Context) error {
	if len(l.cats) > 0 {
		return nil
	}

	defaults := []model.Category{
		{ID: model.NewID(), Name: "Rent", Type: model.CategoryTypeEssential, Position: 0},
		{ID: model.NewID(), Name: "Groceries", Type: model.CategoryTypeEssential, Position: 1},
		{ID: model.NewID(), Name: "Savings", Type: model.CategoryTypeSavings, Position: 2},
	}

	for _, cat := range defaults {
		if err := l.storage.PutCategory(ctx, cat); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
		l.cats = append(l.cats, cat)
	}

	slog.Info("seeded default categories", "count", len(defaults))
	return nil
}

// Categories returns a copy of the category list in display order.
func (l *Ledger) Categories() []model.Category {
	out := make([]model.Category, len(l.cats))
	copy(out, l.cats)
	return out
}

// Find returns the category with the given id, or nil.
func (l *Ledger) Find(id string) *model.Category {
	if idx := l.indexOf(id); idx >= 0 {
		cat := l.cats[idx]
		return &cat
	}
	return nil
}

// ApplyDelta adjusts a category's spent total by the signed delta. A delta
// for an unknown category name is dropped: the transaction is effectively
// uncategorized, which is a recoverable data-quality condition, not an
// error.
func (l *Ledger) ApplyDelta(ctx context.Context, category string, delta decimal.Decimal) error {
	for i := range l.cats {
		if l.cats[i].Name != category {
			continue
		}

		updated := l.cats[i]
		updated.Spent = updated.Spent.Add(delta)
		if err := l.storage.PutCategory(ctx, updated); err != nil {
			return fmt.Errorf("failed to update spent total for %q: %w", category, err)
		}
		l.cats[i] = updated
		return nil
	}

	slog.Debug("dropped spending delta for unknown category", "category", category, "delta", delta)
	return nil
}

// Reconcile recomputes every category's spent total from the full
// transaction collection and repairs any drift. Under normal operation the
// result is identical to the incrementally maintained state; it exists as
// the startup validation and repair path.
func (l *Ledger) Reconcile(ctx context.Context, txns []model.Transaction) (int, error) {
	totals := make(map[string]decimal.Decimal, len(l.cats))
	for _, txn := range txns {
		totals[txn.Category] = totals[txn.Category].Add(txn.Amount)
	}

	repaired := 0
	for i := range l.cats {
		want := totals[l.cats[i].Name]
		if l.cats[i].Spent.Equal(want) {
			continue
		}

		updated := l.cats[i]
		updated.Spent = want
		if err := l.storage.PutCategory(ctx, updated); err != nil {
			return repaired, fmt.Errorf("failed to reconcile category %q: %w", updated.Name, err)
		}
		slog.Warn("repaired drifted spent total",
			"category", updated.Name,
			"was", l.cats[i].Spent,
			"now", want)
		l.cats[i] = updated
		repaired++
	}

	return repaired, nil
}

// Reorder moves one category to a new index and reassigns every position to
// match the new sequence, persisting each changed record. Ids, names, and
// amounts are untouched: reordering is a pure permutation.
func (l *Ledger) Reorder(ctx context.Context, id string, newIndex int) error {
	oldIndex := l.indexOf(id)
	if oldIndex < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex >= len(l.cats) {
		newIndex = len(l.cats) - 1
	}
	if newIndex == oldIndex {
		return nil
	}

	reordered := arrayMove(l.Categories(), oldIndex, newIndex)
	for i := range reordered {
		if reordered[i].Position == i {
			continue
		}
		reordered[i].Position = i
		if err := l.storage.PutCategory(ctx, reordered[i]); err != nil {
			return fmt.Errorf("failed to persist reorder of %q: %w", reordered[i].Name, err)
		}
	}

	l.cats = reordered
	return nil
}

// AddCustom creates a user-defined category with zero amounts at the end of
// the list. Names are trimmed; empty names are rejected and duplicates are
// matched case-sensitively.
func (l *Ledger) AddCustom(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Category{}, fmt.Errorf("%w: category name is required", common.ErrValidation)
	}
	for _, cat := range l.cats {
		if cat.Name == name {
			return model.Category{}, fmt.Errorf("%w: %q", common.ErrDuplicateName, name)
		}
	}

	cat := model.Category{
		ID:       model.NewID(),
		Name:     name,
		Type:     model.CategoryTypeCustom,
		Position: len(l.cats),
	}

	if err := l.storage.PutCategory(ctx, cat); err != nil {
		return model.Category{}, fmt.Errorf("failed to add category: %w", err)
	}
	l.cats = append(l.cats, cat)

	slog.Info("added custom category", "name", name)
	return cat, nil
}

// Remove deletes a category without cascading: transactions referencing its
// name remain and surface as uncategorized in derived views. Remaining
// positions are compacted back to a contiguous sequence.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	if err := l.storage.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("failed to remove category: %w", err)
	}
	l.cats = append(l.cats[:idx], l.cats[idx+1:]...)

	for i := range l.cats {
		if l.cats[i].Position == i {
			continue
		}
		l.cats[i].Position = i
		if err := l.storage.PutCategory(ctx, l.cats[i]); err != nil {
			return fmt.Errorf("failed to compact positions: %w", err)
		}
	}

	return nil
}

// SetAllocatedLocal updates a category's allocation in memory only and
// returns the updated record for the caller to persist. This is the
// optimistic half of the allocation edit path.
func (l *Ledger) SetAllocatedLocal(id string, amount decimal.Decimal) (model.Category, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return model.Category{}, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	l.cats[idx].Allocated = amount
	return l.cats[idx], nil
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.cats {
		if l.cats[i].ID == id {
			return i
		}
	}
	return -1
}

// arrayMove shifts the element at oldIndex to newIndex, preserving the
// relative order of everything else.
func arrayMove(cats []model.Category, oldIndex, newIndex int) []model.Category {
	moved := cats[oldIndex]
	cats = append(cats[:oldIndex], cats[oldIndex+1:]...)
	cats = append(cats[:newIndex], append([]model.Category{moved}, cats[newIndex:]...)...)
	return cats
}
