// Package shrink reduces a failing generation trace to a smaller trace
// that still reproduces the failure. The search is dataflow-aware: it
// runs three ordered phases over the trace's dependency graph instead of
// shrinking fields independently, so values generated from one another
// are never desynchronized.
package shrink

import (
	"reflect"
	"sort"

	"github.com/mesh-intelligence/shrinkray/pkg/trace"
)

// Predicate tests a reconstructed value. A non-nil error (or a panic,
// which is recovered) signals that the example still reproduces the
// failure, so the candidate is accepted; a nil return rejects it. The
// kind of error is never inspected: once shrinking begins, only "did it
// fail" matters, not whether it is the originally observed failure.
type Predicate func(values map[string]any) error

// Reconstruct maps every entry ID to its current value. This is the
// engine's only reconstruction: the original nested domain shape is not
// rebuilt. Callers needing it must regenerate from the (possibly shrunk)
// entries and variable assignments themselves.
func Reconstruct(tr *trace.Trace) map[string]any {
	values := make(map[string]any, tr.Len())
	for _, e := range tr.Entries {
		values[e.ID] = e.Value
	}
	return values
}

// Shrink runs the three shrink phases over tr and returns the
// reconstructed value and trace of the best still-failing state found.
// tr must be known to fail pred; it is never mutated, and the returned
// trace is guaranteed to still fail. Each phase runs exactly once, in
// order, on the output of the previous phase; callers wanting further
// reduction invoke Shrink again on the result.
func Shrink(tr *trace.Trace, pred Predicate) (map[string]any, *trace.Trace) {
	s := &Shrinker{pred: pred}

	current := tr
	if improved, ok := s.shrinkIndividualValues(current); ok {
		current = improved
	}
	if improved, ok := s.shrinkDependencyChains(current); ok {
		current = improved
	}
	if improved, ok := s.shrinkOptionalDependencies(current); ok {
		current = improved
	}
	return Reconstruct(current), current
}

// Shrinker holds the predicate across phases. Zero value is not usable;
// construct through Shrink.
type Shrinker struct {
	pred Predicate
}

// shrinkIndividualValues is Phase A: walk entries by dependency depth
// ascending and substitute a shrunk value for one entry at a time,
// leaving dependents untouched. The first candidate that still fails is
// accepted and the scan stops (first improvement, not exhaustive).
func (s *Shrinker) shrinkIndividualValues(tr *trace.Trace) (*trace.Trace, bool) {
	for _, e := range sortByDepth(tr) {
		candidate := Value(e.Value)
		if reflect.DeepEqual(candidate, e.Value) {
			continue
		}
		trial := tr.WithValue(e.ID, candidate)
		if s.stillFails(trial) {
			return trial, true
		}
	}
	return tr, false
}

// shrinkDependencyChains is Phase B: for each multi-member connected
// component, shrink the value of a root (an entry with no dependencies)
// and accept the first candidate that still fails. The first component
// to yield an accepted candidate ends the phase.
func (s *Shrinker) shrinkDependencyChains(tr *trace.Trace) (*trace.Trace, bool) {
	for _, component := range tr.ConnectedComponents() {
		if len(component) <= 1 {
			continue
		}
		// Entries in trace order keeps root selection deterministic.
		for _, e := range tr.Entries {
			if !component[e.ID] || len(e.Dependencies) > 0 {
				continue
			}
			candidate := Value(e.Value)
			if reflect.DeepEqual(candidate, e.Value) {
				continue
			}
			trial := tr.WithValue(e.ID, candidate)
			if s.stillFails(trial) {
				return trial, true
			}
		}
	}
	return tr, false
}

// shrinkOptionalDependencies is Phase C: entries with more than one
// reverse-dependent but at most one own dependency look like shared
// ancestors that may be only weakly load-bearing. Attempt outright
// removal and accept the first removal that still fails.
func (s *Shrinker) shrinkOptionalDependencies(tr *trace.Trace) (*trace.Trace, bool) {
	reverse := tr.ReverseDependencies()
	for _, e := range tr.Entries {
		if len(reverse[e.ID]) <= 1 || len(e.Dependencies) > 1 {
			continue
		}
		trial := tr.WithoutEntry(e.ID)
		if s.stillFails(trial) {
			return trial, true
		}
	}
	return tr, false
}

// stillFails reports whether the reconstructed value of tr still fails
// the predicate. A panic inside the predicate is recovered and treated
// the same as a returned error: the candidate still fails.
func (s *Shrinker) stillFails(tr *trace.Trace) (failed bool) {
	defer func() {
		if recover() != nil {
			failed = true
		}
	}()
	return s.pred(Reconstruct(tr)) != nil
}

// sortByDepth returns the trace's entries ordered by dependency depth
// ascending (leaves first), preserving trace order within a depth.
func sortByDepth(tr *trace.Trace) []*trace.Entry {
	depths := dependencyDepths(tr)
	entries := append([]*trace.Entry(nil), tr.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return depths[entries[i].ID] < depths[entries[j].ID]
	})
	return entries
}

// dependencyDepths computes 1 + max depth over dependencies for every
// entry, 0 for entries with none. The walk is iterative with an
// in-progress marker: a cycle would violate the trace's acyclicity
// invariant, and any entry caught in one is pinned at depth 0 rather
// than looping.
func dependencyDepths(tr *trace.Trace) map[string]int {
	depths := make(map[string]int, tr.Len())
	inProgress := make(map[string]bool)

	var stack []string
	for _, root := range tr.Entries {
		if _, done := depths[root.ID]; done {
			continue
		}
		stack = append(stack[:0], root.ID)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			if _, done := depths[id]; done {
				stack = stack[:len(stack)-1]
				continue
			}

			e := tr.Entry(id)
			if e == nil {
				// Dangling dependency; treat as a leaf.
				depths[id] = 0
				stack = stack[:len(stack)-1]
				continue
			}

			ready := true
			maxDepth := -1
			for _, dep := range e.Dependencies {
				d, done := depths[dep]
				switch {
				case done:
					if d > maxDepth {
						maxDepth = d
					}
				case inProgress[dep]:
					// In-progress dependency closes a cycle; it
					// contributes no depth.
				default:
					stack = append(stack, dep)
					ready = false
				}
			}
			if !ready {
				inProgress[id] = true
				continue
			}
			depths[id] = maxDepth + 1
			delete(inProgress, id)
			stack = stack[:len(stack)-1]
		}
	}
	return depths
}
