// Package sqlite provides the public API for the SQLite counterexample
// store. It exposes the Store interface and factory function while
// keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/shrinkray/internal/sqlite"
	"github.com/mesh-intelligence/shrinkray/pkg/check"
)

// Store persists and queries counterexamples. It extends check.Store
// with lifecycle and read-side operations.
type Store interface {
	// Attach opens (or creates) the database under dataDir.
	Attach(dataDir string) error

	// Detach closes the database. Idempotent.
	Detach() error

	// Save persists a counterexample, generating a UUID v7 ID when
	// none is set. Returns the ID used.
	Save(ce *check.Counterexample) (string, error)

	// Get retrieves a counterexample by ID.
	Get(id string) (*check.Counterexample, error)

	// Delete removes a counterexample by ID.
	Delete(id string) error

	// Fetch returns counterexamples matching the filter, newest first.
	// Supported keys: "property", "seed". Empty filter returns all.
	Fetch(filter map[string]any) ([]*check.Counterexample, error)

	// Stats reports the overall count and the count per property.
	Stats() (int, map[string]int, error)
}

// NewStore creates a new SQLite counterexample store. The store is not
// attached; call Attach with a data directory to initialize.
//
// Example:
//
//	store := sqlite.NewStore()
//	if err := store.Attach(".shrinkray"); err != nil {
//	    return err
//	}
//	defer store.Detach()
//
//	runner := &check.Runner{Store: store}
func NewStore() Store {
	return sqlite.NewStore()
}
