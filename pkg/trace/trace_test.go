package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEntryAssignsSequentialIDs(t *testing.T) {
	tr := New()

	id0 := tr.AddEntry(nil, 10, nil)
	id1 := tr.AddEntry(nil, 20, []string{id0})
	id2 := tr.AddEntry(nil, 30, []string{id0, id1})

	assert.Equal(t, "t0", id0)
	assert.Equal(t, "t1", id1)
	assert.Equal(t, "t2", id2)
	assert.Equal(t, 3, tr.Len())
	assert.NoError(t, tr.Validate())
}

func TestAddEntryCopiesDependencies(t *testing.T) {
	tr := New()
	id0 := tr.AddEntry(nil, 1, nil)

	deps := []string{id0}
	id1 := tr.AddEntry(nil, 2, deps)
	deps[0] = "mutated"

	assert.Equal(t, []string{id0}, tr.Entry(id1).Dependencies)
}

func TestEntryLookup(t *testing.T) {
	tr := New()
	id := tr.AddEntry(nil, 42, nil)

	e := tr.Entry(id)
	require.NotNil(t, e)
	assert.Equal(t, 42, e.Value)

	assert.Nil(t, tr.Entry("t99"))
}

func TestAssignVariable(t *testing.T) {
	tr := New()
	id := tr.AddEntry(nil, 5, nil)

	assert.NoError(t, tr.AssignVariable("x", id))
	assert.Equal(t, id, tr.VariableAssignments["x"])

	err := tr.AssignVariable("y", "t42")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, bound := tr.VariableAssignments["y"]
	assert.False(t, bound)
}

func TestCloneIsIndependent(t *testing.T) {
	tr := New()
	id0 := tr.AddEntry(nil, 10, nil)
	id1 := tr.AddEntry(nil, 20, []string{id0})
	require.NoError(t, tr.AssignVariable("x", id0))

	clone := tr.Clone()
	clone.Entry(id0).Value = 999
	clone.Entry(id1).Dependencies[0] = "mutated"
	clone.VariableAssignments["x"] = id1
	clone.AddEntry(nil, 30, nil)

	assert.Equal(t, 10, tr.Entry(id0).Value)
	assert.Equal(t, []string{id0}, tr.Entry(id1).Dependencies)
	assert.Equal(t, id0, tr.VariableAssignments["x"])
	assert.Equal(t, 2, tr.Len())
}

func TestCloneContinuesIDSequence(t *testing.T) {
	tr := New()
	tr.AddEntry(nil, 1, nil)
	tr.AddEntry(nil, 2, nil)

	clone := tr.Clone()
	id := clone.AddEntry(nil, 3, nil)

	// IDs are never reused within one trace lineage.
	assert.Equal(t, "t2", id)
}

func TestWithValueSubstitutesOneEntry(t *testing.T) {
	tr := New()
	id0 := tr.AddEntry(nil, 80, nil)
	id1 := tr.AddEntry(nil, 70, []string{id0})

	trial := tr.WithValue(id0, 40)

	assert.Equal(t, 40, trial.Entry(id0).Value)
	assert.Equal(t, 70, trial.Entry(id1).Value, "dependents must not be recomputed")
	assert.Equal(t, 80, tr.Entry(id0).Value, "original trace must not change")
}

func TestWithValueMissingIDYieldsPlainClone(t *testing.T) {
	tr := New()
	tr.AddEntry(nil, 1, nil)

	trial := tr.WithValue("t9", 2)
	assert.Equal(t, 1, trial.Entries[0].Value)
	assert.Equal(t, 1, trial.Len())
}

func TestWithoutEntryRemovesAllReferences(t *testing.T) {
	// Five entries; t0 is depended on by t1 and t2, t3/t4 are a separate
	// chain. Removing t0 must leave a consistent four-entry trace.
	tr := New()
	id0 := tr.AddEntry(nil, 0, nil)
	id1 := tr.AddEntry(nil, 0, []string{id0})
	id2 := tr.AddEntry(nil, 0, []string{id0})
	id3 := tr.AddEntry(nil, 0, nil)
	id4 := tr.AddEntry(nil, 0, []string{id3})
	require.NoError(t, tr.AssignVariable("root", id0))
	require.NoError(t, tr.AssignVariable("leaf", id4))

	trial := tr.WithoutEntry(id0)

	assert.Equal(t, 4, trial.Len())
	assert.Nil(t, trial.Entry(id0))
	for _, e := range trial.Entries {
		assert.NotContains(t, e.Dependencies, id0)
	}
	_, bound := trial.VariableAssignments["root"]
	assert.False(t, bound, "assignment to removed entry must be dropped")
	assert.Equal(t, id4, trial.VariableAssignments["leaf"])
	assert.NoError(t, trial.Validate())

	assert.Empty(t, trial.Entry(id1).Dependencies)
	assert.Empty(t, trial.Entry(id2).Dependencies)

	// Original unchanged.
	assert.Equal(t, 5, tr.Len())
	assert.Equal(t, id0, tr.VariableAssignments["root"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Trace
		wantErr error
	}{
		{
			name: "valid trace",
			build: func() *Trace {
				tr := New()
				id0 := tr.AddEntry(nil, 1, nil)
				tr.AddEntry(nil, 2, []string{id0})
				return tr
			},
		},
		{
			name: "self dependency",
			build: func() *Trace {
				tr := New()
				id := tr.AddEntry(nil, 1, nil)
				tr.Entry(id).Dependencies = []string{id}
				return tr
			},
			wantErr: ErrSelfDependency,
		},
		{
			name: "dependency on later entry",
			build: func() *Trace {
				tr := New()
				id0 := tr.AddEntry(nil, 1, nil)
				id1 := tr.AddEntry(nil, 2, nil)
				tr.Entry(id0).Dependencies = []string{id1}
				return tr
			},
			wantErr: ErrDependencyOrder,
		},
		{
			name: "dangling variable binding",
			build: func() *Trace {
				tr := New()
				tr.AddEntry(nil, 1, nil)
				tr.VariableAssignments["x"] = "t9"
				return tr
			},
			wantErr: ErrDanglingBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
