// Shared helpers for shrinkray CLI commands.
package main

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/shrinkray/internal/sqlite"
)

// attachStore resolves the data directory, creates a SQLite store, and
// attaches it. The caller must defer store.Detach().
func attachStore() (*sqlite.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store := sqlite.NewStore()
	if err := store.Attach(dataDir); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// isNotFound returns true if the error wraps sqlite.ErrNotFound.
func isNotFound(err error) bool {
	return errors.Is(err, sqlite.ErrNotFound)
}
