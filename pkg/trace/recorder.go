package trace

import (
	"fmt"
	"math/rand"
	"reflect"
)

// Recorder wraps generation calls and stamps every draw into a trace.
//
// Each draw is conservatively recorded as depending on every earlier draw
// in the current scope, not just the ones it actually consumed. Generators
// that know their exact inputs can instead declare them explicitly with
// DrawWithDependencies.
type Recorder struct {
	trace *Trace
	rand  *rand.Rand
	deps  []string   // cumulative dependency accumulator for the current scope
	stack [][]string // saved accumulators for enclosing scopes
}

// NewRecorder returns a recorder writing to a fresh trace, drawing
// randomness from r.
func NewRecorder(r *rand.Rand) *Recorder {
	return &Recorder{
		trace: New(),
		rand:  r,
	}
}

// Trace returns the trace being recorded.
func (rec *Recorder) Trace() *Trace {
	return rec.trace
}

// Draw generates a value from g and records it with the cumulative
// dependency set of the current scope.
func (rec *Recorder) Draw(g Generator) any {
	value, _ := rec.DrawEntry(g)
	return value
}

// DrawEntry is Draw returning the new entry's ID alongside the value,
// so callers can bind names by identity with BindEntry instead of the
// equality search in RecordAssignment.
func (rec *Recorder) DrawEntry(g Generator) (any, string) {
	value := g.Generate(rec.rand)
	id := rec.trace.AddEntry(g, value, rec.deps)
	rec.deps = append(rec.deps, id)
	return value, id
}

// DrawWithDependencies generates a value from g and records exactly the
// declared dependencies instead of the cumulative scope. Every declared
// ID must name an existing entry. The new entry still joins the scope
// accumulator, so subsequent cumulative draws depend on it.
func (rec *Recorder) DrawWithDependencies(g Generator, dependencies ...string) (any, string, error) {
	for _, dep := range dependencies {
		if rec.trace.Entry(dep) == nil {
			return nil, "", fmt.Errorf("declared dependency %s: %w", dep, ErrEntryNotFound)
		}
	}
	value := g.Generate(rec.rand)
	id := rec.trace.AddEntry(g, value, dependencies)
	rec.deps = append(rec.deps, id)
	return value, id, nil
}

// PushScope saves the current dependency accumulator. Draws after
// PushScope still accumulate onto it; PopScope restores the saved state,
// discarding dependencies recorded since. Used to bound the cumulative
// window for nested structure generation, e.g. per loop iteration.
func (rec *Recorder) PushScope() {
	rec.stack = append(rec.stack, append([]string(nil), rec.deps...))
}

// PopScope restores the most recently pushed accumulator.
// A pop without a matching push is a no-op.
func (rec *Recorder) PopScope() {
	if len(rec.stack) == 0 {
		return
	}
	rec.deps = rec.stack[len(rec.stack)-1]
	rec.stack = rec.stack[:len(rec.stack)-1]
}

// RecordAssignment binds name to the most recently created entry whose
// value compares equal to value, scanning newest-first. When no entry
// matches (e.g. the value was transformed after generation), the binding
// is silently dropped; downstream queries on the name return empty sets.
func (rec *Recorder) RecordAssignment(name string, value any) {
	for i := len(rec.trace.Entries) - 1; i >= 0; i-- {
		e := rec.trace.Entries[i]
		if reflect.DeepEqual(e.Value, value) {
			rec.trace.VariableAssignments[name] = e.ID
			return
		}
	}
}

// BindEntry binds name to the entry with the given ID. Unlike
// RecordAssignment this is exact: an unknown ID is an error, and
// duplicate values cannot misbind.
func (rec *Recorder) BindEntry(name, id string) error {
	return rec.trace.AssignVariable(name, id)
}
