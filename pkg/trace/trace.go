package trace

import (
	"errors"
	"fmt"
	"math/rand"
)

// Trace and entry errors.
var (
	ErrEntryNotFound   = errors.New("trace entry not found")
	ErrSelfDependency  = errors.New("entry depends on itself")
	ErrDependencyOrder = errors.New("dependency does not precede its entry")
	ErrDanglingBinding = errors.New("variable bound to missing entry")
)

// Generator describes the origin of a generated value. Strategies in
// pkg/strategy satisfy this interface; the trace treats it as an opaque
// descriptor and never calls Generate on recorded origins.
type Generator interface {
	Generate(r *rand.Rand) any
	String() string
}

// Entry is a single recorded generation event.
type Entry struct {
	ID           string    // "t0", "t1", ... assigned in generation order.
	Origin       Generator // Generator that produced the value.
	Value        any
	Dependencies []string // IDs of earlier entries this draw may depend on.
	Metadata     map[string]any
}

// Trace is the ordered record of one generation pass: every entry in
// creation order plus name bindings onto entries. Entries are append-only
// during generation; shrinking works on clones, never the live trace.
type Trace struct {
	Entries             []*Entry
	VariableAssignments map[string]string // variable name -> entry ID
	nextID              int
}

// New returns an empty trace.
func New() *Trace {
	return &Trace{
		VariableAssignments: make(map[string]string),
	}
}

// AddEntry appends a new entry holding value and returns its ID.
// IDs are assigned from a monotonic counter and never reused within
// one trace, so generation order is recoverable from the entry slice.
func (t *Trace) AddEntry(origin Generator, value any, dependencies []string) string {
	id := fmt.Sprintf("t%d", t.nextID)
	t.nextID++

	t.Entries = append(t.Entries, &Entry{
		ID:           id,
		Origin:       origin,
		Value:        value,
		Dependencies: append([]string(nil), dependencies...),
	})
	return id
}

// Entry returns the entry with the given ID, or nil if no such entry exists.
func (t *Trace) Entry(id string) *Entry {
	for _, e := range t.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Len returns the number of entries.
func (t *Trace) Len() int {
	return len(t.Entries)
}

// AssignVariable binds name to an entry ID.
// Returns ErrEntryNotFound if no entry with that ID exists.
func (t *Trace) AssignVariable(name, id string) error {
	if t.Entry(id) == nil {
		return fmt.Errorf("assigning %q to %s: %w", name, id, ErrEntryNotFound)
	}
	t.VariableAssignments[name] = id
	return nil
}

// Clone returns an independent copy of the trace. Entries, dependency
// lists, metadata maps, and variable assignments are all copied; entry
// values are shared, which is safe because shrink trials replace whole
// values and never mutate them in place.
func (t *Trace) Clone() *Trace {
	clone := &Trace{
		Entries:             make([]*Entry, 0, len(t.Entries)),
		VariableAssignments: make(map[string]string, len(t.VariableAssignments)),
		nextID:              t.nextID,
	}
	for _, e := range t.Entries {
		ce := &Entry{
			ID:           e.ID,
			Origin:       e.Origin,
			Value:        e.Value,
			Dependencies: append([]string(nil), e.Dependencies...),
		}
		if e.Metadata != nil {
			ce.Metadata = make(map[string]any, len(e.Metadata))
			for k, v := range e.Metadata {
				ce.Metadata[k] = v
			}
		}
		clone.Entries = append(clone.Entries, ce)
	}
	for name, id := range t.VariableAssignments {
		clone.VariableAssignments[name] = id
	}
	return clone
}

// WithValue returns a clone of the trace in which the entry with the
// given ID holds value instead of its recorded value. All other entries
// are unchanged; dependents are not recomputed. A missing ID yields a
// plain clone.
func (t *Trace) WithValue(id string, value any) *Trace {
	clone := t.Clone()
	if e := clone.Entry(id); e != nil {
		e.Value = value
	}
	return clone
}

// WithoutEntry returns a clone of the trace with the given entry removed:
// the entry is deleted, variable assignments pointing at it are dropped,
// and its ID is stripped from every remaining entry's dependency list.
func (t *Trace) WithoutEntry(id string) *Trace {
	clone := t.Clone()

	entries := clone.Entries[:0]
	for _, e := range clone.Entries {
		if e.ID == id {
			continue
		}
		deps := e.Dependencies[:0]
		for _, dep := range e.Dependencies {
			if dep != id {
				deps = append(deps, dep)
			}
		}
		e.Dependencies = deps
		entries = append(entries, e)
	}
	clone.Entries = entries

	for name, bound := range clone.VariableAssignments {
		if bound == id {
			delete(clone.VariableAssignments, name)
		}
	}
	return clone
}

// Validate checks the structural invariants: every dependency names an
// entry created strictly earlier, no entry depends on itself, and every
// variable assignment references an existing entry.
func (t *Trace) Validate() error {
	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		for _, dep := range e.Dependencies {
			if dep == e.ID {
				return fmt.Errorf("entry %s: %w", e.ID, ErrSelfDependency)
			}
			if !seen[dep] {
				return fmt.Errorf("entry %s depends on %s: %w", e.ID, dep, ErrDependencyOrder)
			}
		}
		seen[e.ID] = true
	}
	for name, id := range t.VariableAssignments {
		if !seen[id] {
			return fmt.Errorf("variable %q -> %s: %w", name, id, ErrDanglingBinding)
		}
	}
	return nil
}
