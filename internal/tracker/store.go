// Package tracker owns the transaction collection: CRUD against persistent
// storage, the in-memory ordered view of it, and filtered listing.
package tracker

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/findeep/findeep/internal/common"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/service"
)

// SpentRecorder receives signed spending deltas as transactions change.
// The category ledger implements it.
type SpentRecorder interface {
	ApplyDelta(ctx context.Context, category string, delta decimal.Decimal) error
}

// Draft is a user-supplied transaction before normalization: the amount
// arrives as raw text and the date may be absent.
type Draft struct {
	Date        time.Time
	Description string
	Amount      string
	Category    string
}

// Store maintains the transaction collection. Mutations write to storage
// first and update the in-memory slice only once the write is acknowledged,
// so memory never runs ahead of a failed write.
type Store struct {
	storage service.Storage
	spent   SpentRecorder
	now     func() time.Time
	txns    []model.Transaction
}

// NewStore creates a transaction store backed by the given storage.
func NewStore(storage service.Storage, spent SpentRecorder) *Store {
	return &Store{
		storage: storage,
		spent:   spent,
		now:     time.Now,
	}
}

// Load populates the in-memory collection from storage. Records missing a
// date get the current time, keeping every transaction chartable.
func (s *Store) Load(ctx context.Context) error {
	txns, err := s.storage.GetTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	for i := range txns {
		if txns[i].Date.IsZero() {
			txns[i].Date = s.now()
		}
	}

	s.txns = txns
	slog.Debug("loaded transactions", "count", len(txns))
	return nil
}

// Add normalizes a draft, persists it, appends it to the in-memory
// collection, and records the spending delta against its category.
func (s *Store) Add(ctx context.Context, draft Draft) (model.Transaction, error) {
	description := strings.TrimSpace(draft.Description)
	if description == "" {
		return model.Transaction{}, fmt.Errorf("%w: description is required", common.ErrValidation)
	}
	if strings.TrimSpace(draft.Category) == "" {
		return model.Transaction{}, fmt.Errorf("%w: category is required", common.ErrValidation)
	}

	txn := model.Transaction{
		ID:          model.NewID(),
		Description: description,
		Amount:      ParseAmount(draft.Amount),
		Category:    draft.Category,
		Date:        draft.Date,
	}
	if txn.Date.IsZero() {
		txn.Date = s.now()
	}

	if err := s.storage.PutTransaction(ctx, txn); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to add transaction: %w", err)
	}
	s.txns = append(s.txns, txn)

	if err := s.spent.ApplyDelta(ctx, txn.Category, txn.Amount); err != nil {
		return txn, fmt.Errorf("transaction stored but spent total not updated: %w", err)
	}

	slog.Info("added transaction", "id", txn.ID, "category", txn.Category, "amount", txn.Amount)
	return txn, nil
}

// Update replaces an existing transaction wholesale. The referenced id must
// exist; ErrNotFound otherwise means the record was deleted concurrently.
func (s *Store) Update(ctx context.Context, txn model.Transaction) error {
	idx := s.indexOf(txn.ID)
	if idx < 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, txn.ID)
	}
	previous := s.txns[idx]

	if txn.Date.IsZero() {
		txn.Date = previous.Date
	}

	if err := s.storage.PutTransaction(ctx, txn); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	s.txns[idx] = txn

	// Net out the old record and apply the new one when the join key or
	// amount moved.
	if previous.Category != txn.Category || !previous.Amount.Equal(txn.Amount) {
		if err := s.spent.ApplyDelta(ctx, previous.Category, previous.Amount.Neg()); err != nil {
			return fmt.Errorf("transaction stored but spent total not updated: %w", err)
		}
		if err := s.spent.ApplyDelta(ctx, txn.Category, txn.Amount); err != nil {
			return fmt.Errorf("transaction stored but spent total not updated: %w", err)
		}
	}

	return nil
}

// Remove deletes a transaction from storage and memory and reverses its
// spending delta.
func (s *Store) Remove(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	removed := s.txns[idx]

	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("failed to remove transaction: %w", err)
	}
	s.txns = append(s.txns[:idx], s.txns[idx+1:]...)

	if err := s.spent.ApplyDelta(ctx, removed.Category, removed.Amount.Neg()); err != nil {
		return fmt.Errorf("transaction removed but spent total not updated: %w", err)
	}

	return nil
}

// All returns a copy of the in-memory collection in store order.
func (s *Store) All() []model.Transaction {
	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// ListFiltered returns a lazy, restartable sequence over the in-memory
// collection. category is either model.CategoryAll or an exact name match;
// the date range bounds matching transactions at the window start, with no
// upper bound.
func (s *Store) ListFiltered(category string, dateRange model.DateRange) iter.Seq[model.Transaction] {
	start, bounded := windowStart(s.now(), dateRange)
	return func(yield func(model.Transaction) bool) {
		for _, txn := range s.txns {
			if category != model.CategoryAll && txn.Category != category {
				continue
			}
			if bounded && txn.Date.Before(start) {
				continue
			}
			if !yield(txn) {
				return
			}
		}
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.txns {
		if s.txns[i].ID == id {
			return i
		}
	}
	return -1
}

// ParseAmount converts raw user input to a decimal amount; anything
// unparsable counts as zero rather than failing the action.
func ParseAmount(raw string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// windowStart computes the inclusive lower bound for a date range, anchored
// at local midnight the way the filter windows are defined: week is the
// last seven days, month and year start at the first day of the current
// calendar month or year. Unrecognized ranges impose no date filter.
func windowStart(now time.Time, dateRange model.DateRange) (time.Time, bool) {
	switch dateRange {
	case model.RangeWeek:
		return time.Date(now.Year(), now.Month(), now.Day()-7, 0, 0, 0, 0, now.Location()), true
	case model.RangeMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case model.RangeYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}
