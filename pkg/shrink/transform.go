package shrink

// Type-specific shrink transforms. Each is a pure function from value to
// candidate value; a value with no defined transform comes back unchanged,
// which terminates shrinking for that entry.

// Value returns a reduced candidate for v, or v itself when no transform
// applies or v is already minimal. Integers halve toward zero with a fixed
// point at 0; strings and slices truncate to the first half of their
// length.
func Value(v any) any {
	switch x := v.(type) {
	case int:
		return shrinkInt(x)
	case int64:
		return shrinkInt64(x)
	case string:
		return shrinkString(x)
	case []any:
		return shrinkSlice(x)
	}
	return v
}

// shrinkInt halves toward zero. Go integer division truncates toward
// zero, so positives stay non-negative and negatives reach 0 through -1.
func shrinkInt(v int) int {
	return v / 2
}

func shrinkInt64(v int64) int64 {
	return v / 2
}

// shrinkString truncates to the first half of the rune count.
// Single-rune and empty strings are left unchanged.
func shrinkString(v string) string {
	runes := []rune(v)
	if len(runes) <= 1 {
		return v
	}
	return string(runes[:len(runes)/2])
}

// shrinkSlice truncates to the first half of the length. The result is a
// copy so the candidate never aliases the original backing array.
func shrinkSlice(v []any) []any {
	if len(v) <= 1 {
		return v
	}
	return append([]any(nil), v[:len(v)/2]...)
}
