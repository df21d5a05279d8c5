// Package sqlite implements the SQLite counterexample store: minimal
// failing examples found by pkg/check are persisted here for later
// inspection and replay. Generation traces are never persisted; only the
// final shrunk variable values, the property name, and the seed that
// reproduces the run.
package sqlite

// Schema DDL. Unlike a scratch query cache, the store is durable across
// runs, so tables are created only when absent.
const createCounterexamples = `CREATE TABLE IF NOT EXISTS counterexamples (
    example_id TEXT PRIMARY KEY,
    property TEXT NOT NULL,
    value_json TEXT NOT NULL,
    seed INTEGER NOT NULL,
    examples_tried INTEGER NOT NULL,
    failure TEXT,
    created_at TEXT NOT NULL
);`

const createPropertyIndex = `CREATE INDEX IF NOT EXISTS idx_counterexamples_property
    ON counterexamples(property);`
