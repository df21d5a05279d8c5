// Package strategy provides value generation strategies for property
// testing: primitives (integers, floats, strings, booleans, lists,
// choices), the Map/Filter combinators, and draw-function composition
// for structured values recorded through pkg/trace.
package strategy

import (
	"fmt"
	"math/rand"
	"strings"
)

// Strategy generates values of one declared domain. Generate returns any;
// callers type-assert to the concrete value type. Strategies are
// stateless: all randomness comes from the supplied source, so a fixed
// seed reproduces a generation pass exactly. Every Strategy satisfies
// trace.Generator.
type Strategy interface {
	Generate(r *rand.Rand) any
	String() string
}

// defaultAlphabet is the character set Strings draws from when none is given.
const defaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// filterRetries bounds how many draws Filter attempts before giving up.
const filterRetries = 100

type integerStrategy struct {
	min, max int
}

// Integers returns a strategy generating ints uniformly in [min, max].
func Integers(min, max int) Strategy {
	return integerStrategy{min: min, max: max}
}

func (s integerStrategy) Generate(r *rand.Rand) any {
	if s.max <= s.min {
		return s.min
	}
	return s.min + r.Intn(s.max-s.min+1)
}

func (s integerStrategy) String() string {
	return fmt.Sprintf("integers(%d, %d)", s.min, s.max)
}

type floatStrategy struct {
	min, max float64
}

// Floats returns a strategy generating float64s uniformly in [min, max).
func Floats(min, max float64) Strategy {
	return floatStrategy{min: min, max: max}
}

func (s floatStrategy) Generate(r *rand.Rand) any {
	return s.min + r.Float64()*(s.max-s.min)
}

func (s floatStrategy) String() string {
	return fmt.Sprintf("floats(%g, %g)", s.min, s.max)
}

type stringStrategy struct {
	minLen, maxLen int
	alphabet       []rune
}

// Strings returns a strategy generating strings whose rune length is
// uniform in [minLen, maxLen], drawn from alphabet. An empty alphabet
// selects letters, digits, and punctuation.
func Strings(minLen, maxLen int, alphabet string) Strategy {
	if alphabet == "" {
		alphabet = defaultAlphabet
	}
	return stringStrategy{minLen: minLen, maxLen: maxLen, alphabet: []rune(alphabet)}
}

func (s stringStrategy) Generate(r *rand.Rand) any {
	length := s.minLen
	if s.maxLen > s.minLen {
		length += r.Intn(s.maxLen - s.minLen + 1)
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteRune(s.alphabet[r.Intn(len(s.alphabet))])
	}
	return b.String()
}

func (s stringStrategy) String() string {
	return fmt.Sprintf("strings(%d, %d)", s.minLen, s.maxLen)
}

type booleanStrategy struct{}

// Booleans returns a strategy generating true or false with equal odds.
func Booleans() Strategy {
	return booleanStrategy{}
}

func (booleanStrategy) Generate(r *rand.Rand) any {
	return r.Intn(2) == 1
}

func (booleanStrategy) String() string {
	return "booleans()"
}

type listStrategy struct {
	element        Strategy
	minLen, maxLen int
}

// Lists returns a strategy generating []any of elements from element,
// with length uniform in [minLen, maxLen].
func Lists(element Strategy, minLen, maxLen int) Strategy {
	return listStrategy{element: element, minLen: minLen, maxLen: maxLen}
}

func (s listStrategy) Generate(r *rand.Rand) any {
	length := s.minLen
	if s.maxLen > s.minLen {
		length += r.Intn(s.maxLen - s.minLen + 1)
	}
	values := make([]any, length)
	for i := range values {
		values[i] = s.element.Generate(r)
	}
	return values
}

func (s listStrategy) String() string {
	return fmt.Sprintf("lists(%s, %d, %d)", s.element, s.minLen, s.maxLen)
}

type choiceStrategy struct {
	choices []any
}

// Choices returns a strategy picking uniformly from the given values.
func Choices(values ...any) Strategy {
	return choiceStrategy{choices: values}
}

func (s choiceStrategy) Generate(r *rand.Rand) any {
	return s.choices[r.Intn(len(s.choices))]
}

func (s choiceStrategy) String() string {
	return fmt.Sprintf("choices(%d values)", len(s.choices))
}

type mappedStrategy struct {
	base Strategy
	fn   func(any) any
}

// Map returns a strategy applying fn to every value generated by base.
func Map(base Strategy, fn func(any) any) Strategy {
	return mappedStrategy{base: base, fn: fn}
}

func (s mappedStrategy) Generate(r *rand.Rand) any {
	return s.fn(s.base.Generate(r))
}

func (s mappedStrategy) String() string {
	return fmt.Sprintf("map(%s)", s.base)
}

type filteredStrategy struct {
	base Strategy
	keep func(any) bool
}

// Filter returns a strategy discarding values from base that fail keep.
// Generation retries a bounded number of times; if no value passes, it
// panics, since a filter that rejects everything is a usage error in the
// strategy definition rather than a runtime condition to handle.
func Filter(base Strategy, keep func(any) bool) Strategy {
	return filteredStrategy{base: base, keep: keep}
}

func (s filteredStrategy) Generate(r *rand.Rand) any {
	for i := 0; i < filterRetries; i++ {
		if v := s.base.Generate(r); s.keep(v) {
			return v
		}
	}
	panic(fmt.Sprintf("filter(%s): no value satisfied the predicate after %d draws", s.base, filterRetries))
}

func (s filteredStrategy) String() string {
	return fmt.Sprintf("filter(%s)", s.base)
}
