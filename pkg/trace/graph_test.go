package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamondTrace builds t0 <- t1, t0 <- t2, {t1,t2} <- t3, plus an
// isolated t4, and binds names to t0, t3, and t4.
func diamondTrace(t *testing.T) *Trace {
	t.Helper()
	tr := New()
	id0 := tr.AddEntry(nil, 1, nil)
	id1 := tr.AddEntry(nil, 2, []string{id0})
	id2 := tr.AddEntry(nil, 3, []string{id0})
	id3 := tr.AddEntry(nil, 4, []string{id1, id2})
	tr.AddEntry(nil, 5, nil)
	require.NoError(t, tr.AssignVariable("base", id0))
	require.NoError(t, tr.AssignVariable("top", id3))
	require.NoError(t, tr.AssignVariable("lone", "t4"))
	return tr
}

func TestDependencyGraph(t *testing.T) {
	tr := diamondTrace(t)
	graph := tr.DependencyGraph()

	assert.Len(t, graph, 5)
	assert.Empty(t, graph["t0"])
	assert.Equal(t, map[string]bool{"t0": true}, graph["t1"])
	assert.Equal(t, map[string]bool{"t0": true}, graph["t2"])
	assert.Equal(t, map[string]bool{"t1": true, "t2": true}, graph["t3"])
	assert.Empty(t, graph["t4"])
}

func TestReverseDependenciesIsTranspose(t *testing.T) {
	tr := diamondTrace(t)
	graph := tr.DependencyGraph()
	reverse := tr.ReverseDependencies()

	// Every forward edge appears reversed, and nothing else.
	edges := 0
	for child, parents := range graph {
		for parent := range parents {
			assert.True(t, reverse[parent][child],
				"edge %s->%s missing from transpose", child, parent)
			edges++
		}
	}
	reverseEdges := 0
	for _, children := range reverse {
		reverseEdges += len(children)
	}
	assert.Equal(t, edges, reverseEdges)
}

func TestVariableDependencies(t *testing.T) {
	tr := diamondTrace(t)

	deps := tr.VariableDependencies("top")
	assert.Equal(t, map[string]bool{"t0": true, "t1": true, "t2": true, "t3": true}, deps)

	assert.Equal(t, map[string]bool{"t0": true}, tr.VariableDependencies("base"))
	assert.Empty(t, tr.VariableDependencies("unbound"))
}

func TestVariableDependenciesClosureIsIdempotent(t *testing.T) {
	tr := diamondTrace(t)
	closure := tr.VariableDependencies("top")

	// Recomputing the closure from every member yields no new IDs.
	recomputed := make(map[string]bool)
	for id := range closure {
		e := tr.Entry(id)
		require.NotNil(t, e)
		recomputed[id] = true
		for _, dep := range e.Dependencies {
			recomputed[dep] = true
		}
	}
	assert.Equal(t, closure, recomputed)
}

func TestDependentVariables(t *testing.T) {
	tr := diamondTrace(t)

	// t1 and t2 are unnamed but must still be traversed on the way
	// from base up to top.
	assert.Equal(t, map[string]bool{"top": true}, tr.DependentVariables("base"))
	assert.Empty(t, tr.DependentVariables("top"))
	assert.Empty(t, tr.DependentVariables("lone"))
	assert.Empty(t, tr.DependentVariables("unbound"))
}

func TestConnectedComponentsPartition(t *testing.T) {
	tr := diamondTrace(t)
	components := tr.ConnectedComponents()

	require.Len(t, components, 2)
	assert.Equal(t, map[string]bool{"t0": true, "t1": true, "t2": true, "t3": true}, components[0])
	assert.Equal(t, map[string]bool{"t4": true}, components[1])

	// Every ID appears in exactly one component.
	seen := make(map[string]int)
	for _, component := range components {
		for id := range component {
			seen[id]++
		}
	}
	assert.Len(t, seen, tr.Len())
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %s in %d components", id, count)
	}
}

func TestConnectedComponentsEmptyTrace(t *testing.T) {
	assert.Empty(t, New().ConnectedComponents())
}
