package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/shrinkray/pkg/check"
)

// DatabaseFile is the SQLite file name inside the data directory.
const DatabaseFile = "shrinkray.db"

// Store lifecycle and operation errors.
var (
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrStoreDetached   = errors.New("store is detached")
	ErrNotFound        = errors.New("counterexample not found")
	ErrInvalidID       = errors.New("invalid counterexample ID")
	ErrInvalidData     = errors.New("invalid counterexample data")
)

// Compile-time interface check: Store must implement check.Store.
var _ check.Store = (*Store)(nil)

// Store persists counterexamples in a SQLite database. It satisfies
// check.Store. The zero value from NewStore is not attached; call Attach
// with a data directory before use.
type Store struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	dataDir  string
}

// NewStore creates an unattached store.
func NewStore() *Store {
	return &Store{}
}

// Attach opens (or creates) the database under dataDir, creating the
// directory and schema as needed. Returns ErrAlreadyAttached on a second
// call.
func (s *Store) Attach(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return ErrAlreadyAttached
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	for _, ddl := range []string{createCounterexamples, createPropertyIndex} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("initializing schema: %w", err)
		}
	}

	s.db = db
	s.dataDir = dataDir
	s.attached = true
	return nil
}

// Detach closes the database. Idempotent: detaching a detached store
// succeeds. After Detach, operations return ErrStoreDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	s.attached = false
	err := s.db.Close()
	s.db = nil
	return err
}

// Save persists a counterexample. When ExampleID is empty a UUID v7 is
// generated; CreatedAt defaults to now. Returns the ID used.
func (s *Store) Save(ce *check.Counterexample) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return "", ErrStoreDetached
	}
	if ce == nil || ce.Property == "" {
		return "", ErrInvalidData
	}

	id := ce.ExampleID
	if id == "" {
		newID, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		id = newID.String()
		ce.ExampleID = id
	}
	if ce.CreatedAt.IsZero() {
		ce.CreatedAt = time.Now().UTC()
	}

	valueJSON, err := json.Marshal(ce.Value)
	if err != nil {
		return "", fmt.Errorf("marshaling value: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO counterexamples
		 (example_id, property, value_json, seed, examples_tried, failure, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, ce.Property, string(valueJSON), ce.Seed, ce.ExamplesTried,
		ce.Failure, ce.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("saving counterexample %s: %w", id, err)
	}
	return id, nil
}

// Get retrieves a counterexample by ID.
// Returns ErrInvalidID for an empty ID, ErrNotFound when absent.
func (s *Store) Get(id string) (*check.Counterexample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrStoreDetached
	}
	if id == "" {
		return nil, ErrInvalidID
	}

	row := s.db.QueryRow(
		`SELECT example_id, property, value_json, seed, examples_tried, failure, created_at
		 FROM counterexamples WHERE example_id = ?`, id,
	)
	ce, err := hydrateCounterexample(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting counterexample %s: %w", id, err)
	}
	return ce, nil
}

// Delete removes a counterexample by ID.
// Returns ErrInvalidID for an empty ID, ErrNotFound when absent.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return ErrStoreDetached
	}
	if id == "" {
		return ErrInvalidID
	}

	result, err := s.db.Exec("DELETE FROM counterexamples WHERE example_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting counterexample %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting counterexample %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Fetch returns counterexamples matching the filter, newest first.
// Supported filter keys: "property" (string), "seed" (int64). An empty
// filter returns everything.
func (s *Store) Fetch(filter map[string]any) ([]*check.Counterexample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, ErrStoreDetached
	}

	query := `SELECT example_id, property, value_json, seed, examples_tried, failure, created_at
	          FROM counterexamples`
	var args []any
	var clauses []string
	for key, value := range filter {
		switch key {
		case "property":
			clauses = append(clauses, "property = ?")
			args = append(args, value)
		case "seed":
			clauses = append(clauses, "seed = ?")
			args = append(args, value)
		default:
			return nil, fmt.Errorf("unsupported filter key %q", key)
		}
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY created_at DESC, example_id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching counterexamples: %w", err)
	}
	defer rows.Close()

	var results []*check.Counterexample
	for rows.Next() {
		ce, err := hydrateCounterexample(rows)
		if err != nil {
			return nil, fmt.Errorf("fetching counterexamples: %w", err)
		}
		results = append(results, ce)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetching counterexamples: %w", err)
	}
	return results, nil
}

// Stats reports the stored totals: overall count and count per property.
func (s *Store) Stats() (int, map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return 0, nil, ErrStoreDetached
	}

	rows, err := s.db.Query(
		"SELECT property, COUNT(*) FROM counterexamples GROUP BY property ORDER BY property",
	)
	if err != nil {
		return 0, nil, fmt.Errorf("counting counterexamples: %w", err)
	}
	defer rows.Close()

	total := 0
	perProperty := make(map[string]int)
	for rows.Next() {
		var property string
		var count int
		if err := rows.Scan(&property, &count); err != nil {
			return 0, nil, fmt.Errorf("counting counterexamples: %w", err)
		}
		perProperty[property] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("counting counterexamples: %w", err)
	}
	return total, perProperty, nil
}

// scanner abstracts sql.Row and sql.Rows for hydration.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateCounterexample maps one row onto a check.Counterexample.
func hydrateCounterexample(row scanner) (*check.Counterexample, error) {
	var ce check.Counterexample
	var valueJSON, createdAt string
	if err := row.Scan(
		&ce.ExampleID, &ce.Property, &valueJSON, &ce.Seed,
		&ce.ExamplesTried, &ce.Failure, &createdAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(valueJSON), &ce.Value); err != nil {
		return nil, fmt.Errorf("unmarshaling value: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	ce.CreatedAt = ts
	return &ce, nil
}
