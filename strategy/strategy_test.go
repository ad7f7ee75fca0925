package strategy

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter/gen"
)

func TestIntRangeShrinksTowardsMin(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v, err := IntRange(0, 100).NewValue(rng)
	if err != nil {
		t.Fatalf("unexpected error creating value: %v", err)
	}

	start := v.Get()
	if start < 0 || start > 100 {
		t.Fatalf("generated value outside range: %v", start)
	}

	// Accept every reduction. The value must converge to the minimum.
	for v.Shrink() {
		cur := v.Get()
		if cur < 0 || cur > 100 {
			t.Fatalf("shrunk value outside range: %v", cur)
		}
	}
	if v.Get() != 0 {
		t.Fatalf("accepted shrinks should converge to the range minimum. Got: %v", v.Get())
	}
}

func TestIntRangeComplicateRestores(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	v, err := IntRange(10, 100).NewValue(rng)
	if err != nil {
		t.Fatalf("unexpected error creating value: %v", err)
	}

	before := v.Get()
	if !v.Shrink() {
		t.Fatalf("value %v should shrink", before)
	}
	rejected := v.Get()
	if !v.Complicate() {
		t.Fatalf("complicate should undo the shrink")
	}
	if v.Get() != before {
		t.Fatalf("complicate should restore %v. Got: %v", before, v.Get())
	}

	// A rejected reduction is never proposed again.
	if v.Shrink() {
		if v.Get() <= rejected {
			t.Fatalf("shrink after complicate proposed %v, at or below the rejected %v", v.Get(), rejected)
		}
	}
}

func TestIntRangeEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := IntRange(5, 4).NewValue(rng); err == nil {
		t.Fatalf("empty range should not produce a value")
	}
}

func TestJustDoesNotShrink(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v, err := Just("increment").NewValue(rng)
	if err != nil {
		t.Fatalf("unexpected error creating value: %v", err)
	}
	if v.Get() != "increment" {
		t.Fatalf("unexpected value: %v", v.Get())
	}
	if v.Shrink() {
		t.Fatalf("Just values should not shrink")
	}
	if v.Complicate() {
		t.Fatalf("nothing to complicate")
	}
}

func TestMapDelegatesShrink(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := Map(IntRange(0, 50), func(n int) int { return n * 2 })
	v, err := s.NewValue(rng)
	if err != nil {
		t.Fatalf("unexpected error creating value: %v", err)
	}
	if v.Get()%2 != 0 {
		t.Fatalf("mapped value should be even. Got: %v", v.Get())
	}
	for v.Shrink() {
	}
	if v.Get() != 0 {
		t.Fatalf("mapped value should shrink to 0. Got: %v", v.Get())
	}
}

func TestFilterRejectsInvalidShrinks(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	s := Filter(IntRange(0, 100), func(n int) bool { return n >= 10 })
	v, err := s.NewValue(rng)
	if err != nil {
		t.Fatalf("unexpected error creating value: %v", err)
	}
	if v.Get() < 10 {
		t.Fatalf("generated value violates the filter: %v", v.Get())
	}
	for v.Shrink() {
		if v.Get() < 10 {
			t.Fatalf("shrunk value violates the filter: %v", v.Get())
		}
	}
	if v.Get() < 10 {
		t.Fatalf("final value violates the filter: %v", v.Get())
	}
}

func TestFilterExhausted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := Filter(Just(5), func(n int) bool { return false })
	_, err := s.NewValue(rng)
	if !errors.Is(err, FilteredError) {
		t.Fatalf("unexpected error. Got: %v. Expected: %v", err, FilteredError)
	}
}

func TestOneOfPicksFromOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	s := OneOf(Just("increment"), Just("reset"))
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		v, err := s.NewValue(rng)
		if err != nil {
			t.Fatalf("unexpected error creating value: %v", err)
		}
		seen[v.Get()] = true
	}
	if !seen["increment"] || !seen["reset"] {
		t.Fatalf("100 draws should produce both options. Got: %v", seen)
	}
}

func TestOneOfWeightedNoOptions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := OneOfWeighted[string]()
	if _, err := s.NewValue(rng); err == nil {
		t.Fatalf("expected an error when there are no options")
	}
}

func TestFromGenStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	s := FromGen[int64](gen.Int64Range(5, 100))
	v, err := s.NewValue(rng)
	if err != nil {
		t.Fatalf("unexpected error creating value: %v", err)
	}
	if v.Get() < 5 || v.Get() > 100 {
		t.Fatalf("generated value outside range: %v", v.Get())
	}
	for v.Shrink() {
		if v.Get() < 5 || v.Get() > 100 {
			t.Fatalf("shrunk value outside range: %v", v.Get())
		}
	}
}

func TestFromGenComplicateRestores(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	s := FromGen[int64](gen.Int64Range(0, 100))
	v, err := s.NewValue(rng)
	if err != nil {
		t.Fatalf("unexpected error creating value: %v", err)
	}
	before := v.Get()
	if !v.Shrink() {
		t.Skipf("value %v produced no shrink candidates", before)
	}
	if !v.Complicate() {
		t.Fatalf("complicate should undo the shrink")
	}
	if v.Get() != before {
		t.Fatalf("complicate should restore %v. Got: %v", before, v.Get())
	}
}
