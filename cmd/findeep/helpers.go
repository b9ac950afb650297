package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/findeep/findeep/internal/config"
	"github.com/findeep/findeep/internal/engine"
	"github.com/findeep/findeep/internal/model"
	"github.com/findeep/findeep/internal/storage"
)

// initStorage opens the configured database and brings its schema up to
// date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openEngine opens storage and loads the full engine state. The returned
// cleanup drains background writes and closes the database.
func openEngine(ctx context.Context) (*engine.Engine, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(store)
	if err := eng.Start(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to load state: %w", err)
	}

	cleanup := func() {
		eng.Close()
		_ = store.Close()
	}
	return eng, cleanup, nil
}

// findCategory resolves a category by id or exact name for CLI arguments.
func findCategory(cats []model.Category, idOrName string) (model.Category, bool) {
	for _, cat := range cats {
		if cat.ID == idOrName || cat.Name == idOrName {
			return cat, true
		}
	}
	return model.Category{}, false
}
