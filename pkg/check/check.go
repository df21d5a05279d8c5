// Package check runs property checks: it generates examples from a
// composite strategy, and on the first failure shrinks the failing
// example through pkg/shrink and reports (optionally persists) the
// minimal counterexample.
package check

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/mesh-intelligence/shrinkray/pkg/shrink"
	"github.com/mesh-intelligence/shrinkray/pkg/strategy"
	"github.com/mesh-intelligence/shrinkray/pkg/trace"
)

// Runner configuration errors.
var (
	ErrNoStrategy = errors.New("strategy must not be nil")
	ErrNoTest     = errors.New("test function must not be nil")
)

// DefaultMaxExamples is used when Runner.MaxExamples is zero.
const DefaultMaxExamples = 100

// Test is a property body. It receives the failing trace's variables by
// name (as recorded with RecordAssignment or BindEntry) and returns a
// non-nil error when the property is violated. Panics are recovered and
// treated as violations.
type Test func(vars map[string]any) error

// Counterexample is a minimal failing example as persisted by a Store.
type Counterexample struct {
	ExampleID     string         // UUID v7, generated by the store on save.
	Property      string         // Property name the example violates.
	Value         map[string]any // Shrunk variable values by name.
	Seed          int64          // Seed that reproduces the generation pass.
	ExamplesTried int            // Examples generated before the failure.
	Failure       string         // Message of the originally observed failure.
	CreatedAt     time.Time
}

// Store persists counterexamples. Implemented by pkg/sqlite.
type Store interface {
	Save(ce *Counterexample) (string, error)
}

// Failure describes a failed property check.
type Failure struct {
	Property      string
	Original      map[string]any // Variable values of the first failing example.
	Shrunk        map[string]any // Variable values after shrinking.
	Trace         *trace.Trace   // Shrunk trace; still fails the property.
	Err           error          // The originally observed failure.
	Seed          int64
	ExamplesTried int
}

// Runner drives property checks. The zero value is usable: 100 examples,
// time-based seed, no persistence, no progress output.
type Runner struct {
	MaxExamples int       // Examples to try before declaring the property holds.
	Seed        int64     // Generation seed; 0 picks one from the clock.
	Store       Store     // Optional; shrunk counterexamples are saved here.
	Report      io.Writer // Optional; progress and results are written here.
}

// Run checks that test holds for MaxExamples values generated by comp.
// It returns (nil, nil) when every example passes. On the first failing
// example it shrinks the generation trace, reports the minimal example,
// saves it to the Store when one is configured, and returns the Failure.
// The error return covers runner problems (bad arguments, store write
// failures), not property violations.
func (r *Runner) Run(property string, comp *strategy.CompositeStrategy, test Test) (*Failure, error) {
	if comp == nil {
		return nil, ErrNoStrategy
	}
	if test == nil {
		return nil, ErrNoTest
	}

	maxExamples := r.MaxExamples
	if maxExamples <= 0 {
		maxExamples = DefaultMaxExamples
	}
	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for i := 0; i < maxExamples; i++ {
		_, tr := comp.GenerateTraced(rng)
		pred := tracePredicate(tr, test)

		err := callPredicate(pred, shrink.Reconstruct(tr))
		if err == nil {
			continue
		}

		failure := r.shrinkFailure(property, tr, pred, err, seed, i+1)
		if r.Store != nil {
			if _, saveErr := r.Store.Save(&Counterexample{
				Property:      property,
				Value:         failure.Shrunk,
				Seed:          seed,
				ExamplesTried: failure.ExamplesTried,
				Failure:       err.Error(),
			}); saveErr != nil {
				return failure, fmt.Errorf("saving counterexample: %w", saveErr)
			}
		}
		return failure, nil
	}

	if r.Report != nil {
		fmt.Fprintf(r.Report, "%s: %d examples passed\n", property, maxExamples)
	}
	return nil, nil
}

// shrinkFailure runs the shrinker on a failing trace and assembles the
// Failure from the result.
func (r *Runner) shrinkFailure(property string, tr *trace.Trace, pred shrink.Predicate, cause error, seed int64, tried int) *Failure {
	original := namedValues(tr, shrink.Reconstruct(tr))
	if r.Report != nil {
		fmt.Fprintf(r.Report, "%s: example %d failed: %v\n", property, tried, cause)
		fmt.Fprintf(r.Report, "%s: failing example: %v\n", property, original)
	}

	_, shrunkTrace := shrink.Shrink(tr, pred)
	shrunk := namedValues(tr, shrink.Reconstruct(shrunkTrace))
	if r.Report != nil {
		fmt.Fprintf(r.Report, "%s: minimal failing example: %v\n", property, shrunk)
	}

	return &Failure{
		Property:      property,
		Original:      original,
		Shrunk:        shrunk,
		Trace:         shrunkTrace,
		Err:           cause,
		Seed:          seed,
		ExamplesTried: tried,
	}
}

// tracePredicate adapts a name-based test into the shrinker's
// ID-keyed predicate. The failing trace's variable assignments are
// fixed at adaptation time; entry IDs never change across shrink
// trials, so the projection stays valid. Variables whose entries a
// trial removed are simply absent from the projected map.
func tracePredicate(tr *trace.Trace, test Test) shrink.Predicate {
	assignments := make(map[string]string, len(tr.VariableAssignments))
	for name, id := range tr.VariableAssignments {
		assignments[name] = id
	}
	return func(values map[string]any) error {
		vars := make(map[string]any, len(assignments))
		for name, id := range assignments {
			if v, ok := values[id]; ok {
				vars[name] = v
			}
		}
		return test(vars)
	}
}

// namedValues projects an ID-keyed value map through the trace's
// variable assignments into a name-keyed map.
func namedValues(tr *trace.Trace, values map[string]any) map[string]any {
	vars := make(map[string]any, len(tr.VariableAssignments))
	for name, id := range tr.VariableAssignments {
		if v, ok := values[id]; ok {
			vars[name] = v
		}
	}
	return vars
}

// callPredicate invokes pred, converting a panic into an error so the
// generation loop sees panicking tests as ordinary violations.
func callPredicate(pred shrink.Predicate, values map[string]any) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("property panicked: %v", v)
		}
	}()
	return pred(values)
}

// Check runs a property with default settings: up to 100 examples, seed
// from the clock, no persistence.
func Check(property string, comp *strategy.CompositeStrategy, test Test) (*Failure, error) {
	r := &Runner{}
	return r.Run(property, comp, test)
}
