package lattice

import (
	"go/constant"
	"math"
)

// Bottom yields the abstract value of unreachable expressions.
func (elementFactory) Bottom() AbstractValue {
	return bottomValue
}

// Unknown yields the abstract value admitting every value.
func (elementFactory) Unknown() AbstractValue {
	return unknownValue
}

// IntSet creates the abstract value for exactly the given integers.
func (elementFactory) IntSet(xs ...int64) AbstractValue {
	return normalize(AbstractValue{kind: IntSet, ints: makeIntSet(xs)})
}

// DoubleSet creates the abstract value for exactly the given floating point numbers.
func (elementFactory) DoubleSet(xs ...float64) AbstractValue {
	return normalize(AbstractValue{kind: DoubleSet, doubles: makeDoubleSet(xs)})
}

// StringSet creates the abstract value for exactly the given strings.
func (elementFactory) StringSet(xs ...string) AbstractValue {
	return normalize(AbstractValue{kind: StringSet, strs: makeStringSet(xs)})
}

// BooleanSet creates the abstract value for exactly the given booleans.
func (elementFactory) BooleanSet(xs ...bool) AbstractValue {
	return normalize(AbstractValue{kind: BooleanSet, bools: makeBoolSet(xs)})
}

// ArrayLenSet creates the abstract value for exactly the given lengths.
func (elementFactory) ArrayLenSet(xs ...int) AbstractValue {
	return normalize(AbstractValue{kind: ArrayLenSet, lens: makeLenSet(xs)})
}

// IntRange creates the abstract value for every integer in [from, to].
// Bounds out of order yield ⊥.
func (elementFactory) IntRange(from, to int64) AbstractValue {
	return normalize(AbstractValue{kind: IntRange, rng: create(from, to)})
}

// FromInterval creates the abstract value for every integer in the interval.
func (elementFactory) FromInterval(i Interval) AbstractValue {
	return normalize(AbstractValue{kind: IntRange, rng: i})
}

// FromConstant converts a constant to the abstract value holding exactly that constant.
// Integers not representable as int64, complex numbers and unknown constants are
// abstracted as ⊤.
func (elementFactory) FromConstant(c constant.Value) AbstractValue {
	switch c.Kind() {
	case constant.Int:
		if x, exact := constant.Int64Val(c); exact {
			return elFact.IntSet(x)
		}
	case constant.Float:
		x, _ := constant.Float64Val(c)
		return elFact.DoubleSet(x)
	case constant.String:
		return elFact.StringSet(constant.StringVal(c))
	case constant.Bool:
		return elFact.BooleanSet(constant.BoolVal(c))
	}
	return unknownValue
}

// normalize enforces the representation invariants of abstract values:
//   - empty payloads become ⊥,
//   - the empty interval becomes ⊥ and the full interval becomes ⊤,
//   - integer sets larger than MaxValues widen to their enclosing interval,
//   - other enumerated sets larger than MaxValues widen to ⊤.
//
// Every abstract value handed out by the package passes through normalize.
func normalize(v AbstractValue) AbstractValue {
	switch v.kind {
	case Bottom:
		return bottomValue
	case Unknown:
		return unknownValue
	case IntRange:
		switch {
		case v.rng.IsNothing():
			return bottomValue
		case v.rng.IsEverything():
			return unknownValue
		}
		return AbstractValue{kind: IntRange, rng: v.rng}
	case IntSet:
		switch n := v.ints.Len(); {
		case n == 0:
			return bottomValue
		case n > MaxValues:
			return normalize(AbstractValue{kind: IntRange, rng: intHull(v.ints)})
		}
		return AbstractValue{kind: IntSet, ints: v.ints}
	case DoubleSet:
		return normalizeSet(v.doubles, func(s valueSet[float64]) AbstractValue {
			return AbstractValue{kind: DoubleSet, doubles: s}
		})
	case StringSet:
		return normalizeSet(v.strs, func(s valueSet[string]) AbstractValue {
			return AbstractValue{kind: StringSet, strs: s}
		})
	case BooleanSet:
		return normalizeSet(v.bools, func(s boolSet) AbstractValue {
			return AbstractValue{kind: BooleanSet, bools: s}
		})
	case ArrayLenSet:
		return normalizeSet(v.lens, func(s valueSet[int]) AbstractValue {
			return AbstractValue{kind: ArrayLenSet, lens: s}
		})
	}
	panic(errPatternMatch(v.kind))
}

func normalizeSet[S interface{ Len() int }](s S, mk func(S) AbstractValue) AbstractValue {
	switch n := s.Len(); {
	case n == 0:
		return bottomValue
	case n > MaxValues:
		return unknownValue
	}
	return mk(s)
}

// intHull computes the smallest interval containing every member of the set.
func intHull(s valueSet[int64]) Interval {
	xs := s.Values()
	if len(xs) == 0 {
		return nothing
	}
	return Interval{from: xs[0], to: xs[len(xs)-1]}
}

// asInterval computes the smallest interval containing every value of an IntSet
// or IntRange. Other shapes yield false.
func (v AbstractValue) asInterval() (Interval, bool) {
	switch v.kind {
	case IntRange:
		return v.rng, true
	case IntSet:
		return intHull(v.ints), true
	}
	return nothing, false
}

// asIntSet enumerates the integers of an IntSet, or of an IntRange holding at
// most MaxValues values.
func (v AbstractValue) asIntSet() (valueSet[int64], bool) {
	switch v.kind {
	case IntSet:
		return v.ints, true
	case IntRange:
		if xs, ok := v.rng.Values(); ok {
			return makeIntSet(xs), true
		}
	}
	return valueSet[int64]{}, false
}

// asDoubleSet converts the values of a DoubleSet, IntSet or a narrow IntRange
// to floating point numbers. Integers without an exact float64 representation
// fail the conversion.
func (v AbstractValue) asDoubleSet() (valueSet[float64], bool) {
	if v.kind == DoubleSet {
		return v.doubles, true
	}
	ints, ok := v.asIntSet()
	if !ok {
		return valueSet[float64]{}, false
	}
	exact := true
	ds := mapValues(ints, func(x int64) (float64, bool) {
		f, ok := exactFloat(x)
		exact = exact && ok
		return f, ok
	})
	if !exact {
		return valueSet[float64]{}, false
	}
	return makeDoubleSet(ds), true
}

// exactFloat converts x to float64 if no precision is lost.
func exactFloat(x int64) (float64, bool) {
	f := float64(x)
	if f >= math.MaxInt64 || int64(f) != x {
		// 2⁶³ is the nearest float64 to MaxInt64 but is out of range.
		return f, false
	}
	return f, true
}

// Constants enumerates the abstract value as constants. It fails if the abstract
// value is ⊤, an IntRange wider than MaxValues, or holds a floating point number
// without a constant representation, e.g., NaN or an infinity.
func (v AbstractValue) Constants() ([]constant.Value, bool) {
	switch v.kind {
	case Bottom:
		return []constant.Value{}, true
	case Unknown:
		return nil, false
	case IntRange, IntSet:
		ints, ok := v.asIntSet()
		if !ok {
			return nil, false
		}
		return mapValues(ints, func(x int64) (constant.Value, bool) {
			return constant.MakeInt64(x), true
		}), true
	case DoubleSet:
		if !v.doubles.Forall(func(x float64) bool {
			return !math.IsNaN(x) && !math.IsInf(x, 0)
		}) {
			return nil, false
		}
		return mapValues(v.doubles, func(x float64) (constant.Value, bool) {
			return constant.MakeFloat64(x), true
		}), true
	case StringSet:
		return mapValues(v.strs, func(x string) (constant.Value, bool) {
			return constant.MakeString(x), true
		}), true
	case BooleanSet:
		return mapValues(v.bools, func(x bool) (constant.Value, bool) {
			return constant.MakeBool(x), true
		}), true
	case ArrayLenSet:
		return mapValues(v.lens, func(x int) (constant.Value, bool) {
			return constant.MakeInt64(int64(x)), true
		}), true
	}
	panic(errPatternMatch(v.kind))
}
