package shrink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueInt(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"positive halves", 80, 40},
		{"odd truncates", 7, 3},
		{"one reaches zero", 1, 0},
		{"zero is fixed point", 0, 0},
		{"negative moves toward zero", -8, -4},
		{"minus one reaches zero", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

func TestValueIntNeverGrowsMagnitude(t *testing.T) {
	for _, v := range []int{100, 13, 2, 1, 0, -1, -2, -13, -100} {
		got := Value(v).(int)
		if got < 0 {
			got = -got
		}
		abs := v
		if abs < 0 {
			abs = -abs
		}
		assert.LessOrEqual(t, got, abs, "shrinking %d", v)
	}
}

func TestValueIntConvergesToZero(t *testing.T) {
	for _, start := range []int{1 << 30, -(1 << 30), 7, -7} {
		v := start
		for i := 0; i < 64; i++ {
			v = Value(v).(int)
		}
		assert.Equal(t, 0, v, "starting from %d", start)
	}
}

func TestValueInt64(t *testing.T) {
	assert.Equal(t, int64(50), Value(int64(100)))
	assert.Equal(t, int64(0), Value(int64(-1)))
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"even halves", "abcdefgh", "abcd"},
		{"odd rounds down", "abcde", "ab"},
		{"single rune unchanged", "a", "a"},
		{"empty unchanged", "", ""},
		{"multibyte runes counted as runes", "日本語のテスト", "日本語"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

func TestValueSlice(t *testing.T) {
	in := []any{1, 2, 3, 4, 5, 6, 7, 8}
	got := Value(in).([]any)
	assert.Equal(t, []any{1, 2, 3, 4}, got)

	got[0] = 99
	assert.Equal(t, 1, in[0], "candidate must not alias the original")

	single := []any{1}
	assert.Equal(t, single, Value(single))
	assert.Empty(t, Value([]any{}))
}

func TestValueUnsupportedKindsUnchanged(t *testing.T) {
	for _, v := range []any{true, 3.14, nil, map[string]any{"k": 1}} {
		assert.Equal(t, v, Value(v))
	}
}
