package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shrinkray/pkg/trace"
)

func TestCompositeGenerateTraced(t *testing.T) {
	comp := Composite(func(draw *trace.Recorder) any {
		width := draw.Draw(Integers(1, 10)).(int)
		height := draw.Draw(Integers(1, 10)).(int)
		draw.RecordAssignment("width", width)
		draw.RecordAssignment("height", height)
		return map[string]any{"width": width, "height": height}
	})

	value, tr := comp.GenerateTraced(rand.New(rand.NewSource(7)))

	rect, ok := value.(map[string]any)
	require.True(t, ok)
	require.Equal(t, 2, tr.Len())
	assert.NoError(t, tr.Validate())

	// Height is drawn after width, so the second entry depends on the first.
	assert.Empty(t, tr.Entries[0].Dependencies)
	assert.Equal(t, []string{tr.Entries[0].ID}, tr.Entries[1].Dependencies)

	wID, bound := tr.VariableAssignments["width"]
	require.True(t, bound)
	assert.Equal(t, rect["width"], tr.Entry(wID).Value)
	hID, bound := tr.VariableAssignments["height"]
	require.True(t, bound)
	assert.Equal(t, rect["height"], tr.Entry(hID).Value)
}

func TestCompositeGenerateTracedFreshRecorderPerCall(t *testing.T) {
	comp := Composite(func(draw *trace.Recorder) any {
		return draw.Draw(Integers(0, 100))
	})

	r := rand.New(rand.NewSource(1))
	_, tr1 := comp.GenerateTraced(r)
	_, tr2 := comp.GenerateTraced(r)

	assert.Equal(t, 1, tr1.Len())
	assert.Equal(t, 1, tr2.Len())
	assert.NotSame(t, tr1, tr2)
	assert.Equal(t, "t0", tr2.Entries[0].ID, "IDs restart for each trace")
}

func TestCompositeDeterministicPerSeed(t *testing.T) {
	comp := Composite(func(draw *trace.Recorder) any {
		a := draw.Draw(Integers(0, 1000)).(int)
		b := draw.Draw(Strings(1, 5, "xyz")).(string)
		return []any{a, b}
	})

	v1, _ := comp.GenerateTraced(rand.New(rand.NewSource(99)))
	v2, _ := comp.GenerateTraced(rand.New(rand.NewSource(99)))
	assert.Equal(t, v1, v2)
}

func TestCompositeScopedDraws(t *testing.T) {
	comp := Composite(func(draw *trace.Recorder) any {
		n := draw.Draw(Integers(1, 3)).(int)
		items := make([]any, 0, n)
		for i := 0; i < n; i++ {
			draw.PushScope()
			items = append(items, draw.Draw(Integers(0, 9)))
			draw.PopScope()
		}
		return items
	})

	_, tr := comp.GenerateTraced(rand.New(rand.NewSource(3)))
	require.NoError(t, tr.Validate())

	// Every item entry depends only on the length entry, not on the
	// items drawn before it.
	for _, e := range tr.Entries[1:] {
		assert.Equal(t, []string{tr.Entries[0].ID}, e.Dependencies)
	}
}

func TestCompositeString(t *testing.T) {
	comp := Composite(func(draw *trace.Recorder) any { return nil })
	assert.Equal(t, "composite", comp.String())
}
