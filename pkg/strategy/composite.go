package strategy

import (
	"math/rand"

	"github.com/mesh-intelligence/shrinkray/pkg/trace"
)

// CompositeFunc builds a structured value by drawing parts through the
// recorder, optionally recording variable assignments for the parts so
// dependency queries and shrinking can address them by name.
type CompositeFunc func(draw *trace.Recorder) any

// CompositeStrategy composes structured values from other strategies.
// Plain Generate discards the trace; GenerateTraced keeps it for
// dependency analysis and shrinking.
type CompositeStrategy struct {
	fn CompositeFunc
}

// Composite returns a strategy built from a draw function.
func Composite(fn CompositeFunc) *CompositeStrategy {
	return &CompositeStrategy{fn: fn}
}

// Generate builds a value, discarding the generation trace.
func (c *CompositeStrategy) Generate(r *rand.Rand) any {
	value, _ := c.GenerateTraced(r)
	return value
}

// GenerateTraced builds a value under a fresh recorder and returns it
// together with the recorded trace. The caller owns the trace.
func (c *CompositeStrategy) GenerateTraced(r *rand.Rand) (any, *trace.Trace) {
	rec := trace.NewRecorder(r)
	value := c.fn(rec)
	return value, rec.Trace()
}

func (c *CompositeStrategy) String() string {
	return "composite"
}
