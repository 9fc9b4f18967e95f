package lattice

import "math"

// ValueLattice is the lattice of abstract values.
type ValueLattice struct{}

// valueLattice is a singleton instantiation of the abstract value lattice.
var valueLattice = &ValueLattice{}

// Value yields the abstract value lattice.
func (latticeFactory) Value() *ValueLattice {
	return valueLattice
}

// Top returns the abstract value ⊤.
func (*ValueLattice) Top() AbstractValue {
	return unknownValue
}

// Bot returns the abstract value ⊥.
func (*ValueLattice) Bot() AbstractValue {
	return bottomValue
}

func (*ValueLattice) String() string {
	return colorize.Lattice("AbstractValue")
}

// Join computes the least upper bound v ⊔ o.
//
// If either operand is a subtype of the other, the wider one is the result.
// Otherwise, integer sets and intervals are joined at the interval level. Integers joined with
// floating point numbers are converted, if the conversion is exact and the integers
// can be enumerated. All other mismatched shapes join to ⊤.
func (v AbstractValue) Join(o AbstractValue) AbstractValue {
	switch {
	case v.kind == Bottom:
		return o
	case o.kind == Bottom:
		return v
	case v.kind == Unknown || o.kind == Unknown:
		return unknownValue
	case IsSubtype(v, o) && IsSubtype(o, v):
		// Equal sets of values in different shapes, e.g., [3, 4] and {3, 4}.
		if o.kind < v.kind {
			return o
		}
		return v
	case IsSubtype(v, o):
		return o
	case IsSubtype(o, v):
		return v
	}

	if v.kind == o.kind {
		switch v.kind {
		case IntRange:
			return elFact.FromInterval(v.rng.Union(o.rng))
		case IntSet:
			return normalize(AbstractValue{kind: IntSet, ints: v.ints.Union(o.ints)})
		case DoubleSet:
			return normalize(AbstractValue{kind: DoubleSet, doubles: v.doubles.Union(o.doubles)})
		case StringSet:
			return normalize(AbstractValue{kind: StringSet, strs: v.strs.Union(o.strs)})
		case BooleanSet:
			return normalize(AbstractValue{kind: BooleanSet, bools: v.bools.Union(o.bools)})
		case ArrayLenSet:
			return normalize(AbstractValue{kind: ArrayLenSet, lens: v.lens.Union(o.lens)})
		}
		panic(errPatternMatch(v.kind))
	}

	switch {
	case v.isInteger() && o.isInteger():
		// One side is an IntSet and the other an IntRange.
		i1, _ := v.asInterval()
		i2, _ := o.asInterval()
		return elFact.FromInterval(i1.Union(i2))
	case v.isInteger() && o.kind == DoubleSet:
		return joinDoubles(v, o)
	case v.kind == DoubleSet && o.isInteger():
		return joinDoubles(o, v)
	}
	return unknownValue
}

func joinDoubles(ints, doubles AbstractValue) AbstractValue {
	ds, ok := ints.asDoubleSet()
	if !ok {
		return unknownValue
	}
	return normalize(AbstractValue{kind: DoubleSet, doubles: ds.Union(doubles.doubles)})
}

// Meet computes the greatest lower bound v ⊓ o.
//
// If either operand is a subtype of the other, it is the result. Otherwise, overlapping
// integer and floating point values are intersected. All other combinations meet at ⊥.
func (v AbstractValue) Meet(o AbstractValue) AbstractValue {
	switch {
	case IsSubtype(v, o):
		return v
	case IsSubtype(o, v):
		return o
	case v.kind == Bottom || o.kind == Bottom:
		return bottomValue
	}

	if v.kind == o.kind {
		switch v.kind {
		case IntRange:
			return elFact.FromInterval(v.rng.Intersect(o.rng))
		case IntSet:
			return normalize(AbstractValue{kind: IntSet, ints: v.ints.Intersect(o.ints)})
		case DoubleSet:
			return normalize(AbstractValue{kind: DoubleSet, doubles: v.doubles.Intersect(o.doubles)})
		case StringSet:
			return normalize(AbstractValue{kind: StringSet, strs: v.strs.Intersect(o.strs)})
		case BooleanSet:
			return normalize(AbstractValue{kind: BooleanSet, bools: v.bools.Intersect(o.bools)})
		case ArrayLenSet:
			return normalize(AbstractValue{kind: ArrayLenSet, lens: v.lens.Intersect(o.lens)})
		}
		panic(errPatternMatch(v.kind))
	}

	switch {
	case v.kind == IntSet && o.kind == IntRange:
		return normalize(AbstractValue{kind: IntSet, ints: v.ints.Filter(o.rng.Contains)})
	case v.kind == IntRange && o.kind == IntSet:
		return o.Meet(v)
	case v.isInteger() && o.kind == DoubleSet:
		return meetDoubles(v, o)
	case v.kind == DoubleSet && o.isInteger():
		return meetDoubles(o, v)
	}
	return bottomValue
}

// meetDoubles keeps the integral floating point numbers that are also integers of ints.
func meetDoubles(ints, doubles AbstractValue) AbstractValue {
	xs := mapValues(doubles.doubles, func(f float64) (int64, bool) {
		x := int64(f)
		if ef, ok := exactFloat(x); !ok || ef != f {
			return 0, false
		}
		switch ints.kind {
		case IntRange:
			return x, ints.rng.Contains(x)
		case IntSet:
			return x, ints.ints.Contains(x)
		}
		return 0, false
	})
	return elFact.IntSet(xs...)
}

// IsSubtype checks whether every value admitted by narrow is admitted by wide.
//
// Integers and floating point numbers are related when enumerated integers convert
// exactly to members of a DoubleSet. Any other pair of distinct shapes is unrelated.
func IsSubtype(narrow, wide AbstractValue) bool {
	switch {
	case wide.kind == Unknown || narrow.kind == Bottom:
		return true
	case narrow.kind == Unknown || wide.kind == Bottom:
		return false
	}

	switch narrow.kind {
	case IntRange:
		switch wide.kind {
		case IntRange:
			return wide.rng.ContainsInterval(narrow.rng)
		case IntSet:
			ints, ok := narrow.asIntSet()
			return ok && ints.SubsetOf(wide.ints)
		case DoubleSet:
			ds, ok := narrow.asDoubleSet()
			return ok && ds.SubsetOf(wide.doubles)
		}
	case IntSet:
		switch wide.kind {
		case IntRange:
			return narrow.ints.Forall(wide.rng.Contains)
		case IntSet:
			return narrow.ints.SubsetOf(wide.ints)
		case DoubleSet:
			ds, ok := narrow.asDoubleSet()
			return ok && ds.SubsetOf(wide.doubles)
		}
	case DoubleSet:
		return wide.kind == DoubleSet && narrow.doubles.SubsetOf(wide.doubles)
	case StringSet:
		return wide.kind == StringSet && narrow.strs.SubsetOf(wide.strs)
	case BooleanSet:
		return wide.kind == BooleanSet && narrow.bools.SubsetOf(wide.bools)
	case ArrayLenSet:
		return wide.kind == ArrayLenSet && narrow.lens.SubsetOf(wide.lens)
	default:
		panic(errPatternMatch(narrow.kind))
	}
	return false
}

// Leq computes v ⊑ o.
func (v AbstractValue) Leq(o AbstractValue) bool {
	return IsSubtype(v, o)
}

// Geq computes v ⊒ o.
func (v AbstractValue) Geq(o AbstractValue) bool {
	return IsSubtype(o, v)
}

// Eq checks whether both abstract values have the same shape and payload.
func (v AbstractValue) Eq(o AbstractValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Bottom, Unknown:
		return true
	case IntRange:
		return v.rng.Eq(o.rng)
	case IntSet:
		return v.ints.Eq(o.ints)
	case DoubleSet:
		return v.doubles.Eq(o.doubles)
	case StringSet:
		return v.strs.Eq(o.strs)
	case BooleanSet:
		return v.bools.Eq(o.bools)
	case ArrayLenSet:
		return v.lens.Eq(o.lens)
	}
	panic(errPatternMatch(v.kind))
}

func (v AbstractValue) isInteger() bool {
	return v.kind == IntRange || v.kind == IntSet
}

// Widen extrapolates the growth from old to next, such that ascending chains of
// widened values are finite. Integer bounds that grow jump to the limits of int64.
// Other shapes are joined, as their ascending chains are bounded by MaxValues.
func Widen(old, next AbstractValue) AbstractValue {
	joined := old.Join(next)
	switch {
	case joined.Leq(old):
		return old
	case old.kind == Bottom:
		return joined
	}

	i1, ok1 := old.asInterval()
	i2, ok2 := joined.asInterval()
	if !ok1 || !ok2 {
		return joined
	}

	from, to := i2.from, i2.to
	if from < i1.from {
		from = math.MinInt64
	}
	if to > i1.to {
		to = math.MaxInt64
	}
	return elFact.IntRange(from, to)
}
