// Package trace records value generation as an append-only trace with a
// dependency graph between generated values. A Recorder wraps each draw,
// stamping it into the Trace with the set of earlier draws it may depend
// on; read-side queries over the resulting graph drive dataflow-aware
// shrinking in pkg/shrink.
package trace
