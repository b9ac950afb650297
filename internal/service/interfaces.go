// Package service defines the interfaces between the domain components and
// the persistence layer.
package service

import (
	"context"

	"github.com/findeep/findeep/internal/model"
)

// Storage is the contract for the persistence layer: three record
// collections keyed by id, with insert-or-replace puts. Two puts for
// different keys never corrupt each other; two puts for the same key
// resolve in completion order (last writer wins, no merge). All operations
// are safe for concurrent use.
type Storage interface {
	// Transaction operations.
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	PutTransaction(ctx context.Context, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// Category operations. GetCategories returns categories ordered by
	// their explicit position.
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	PutCategory(ctx context.Context, cat model.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Budget singleton. GetBudget returns nil when no budget has been
	// saved yet.
	GetBudget(ctx context.Context) (*model.Budget, error)
	PutBudget(ctx context.Context, budget model.Budget) error

	// Migrate brings the schema to the expected version, creating missing
	// collections without touching existing ones.
	Migrate(ctx context.Context) error
	Close() error
}
