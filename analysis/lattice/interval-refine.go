package lattice

import "math"

// The refinement operators narrow an interval i under the assumption that a
// comparison `x op y` was observed to hold, for some x ∈ i and y ∈ o.
// They never widen i and yield the empty interval when the comparison cannot hold.

// RefineLessThan narrows i given x < y.
func (i Interval) RefineLessThan(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case o.to == math.MinInt64:
		return nothing
	}
	return create(i.from, min64(i.to, o.to-1))
}

// RefineLessThanEq narrows i given x <= y.
func (i Interval) RefineLessThanEq(o Interval) Interval {
	if i.IsNothing() || o.IsNothing() {
		return nothing
	}
	return create(i.from, min64(i.to, o.to))
}

// RefineGreaterThan narrows i given x > y.
func (i Interval) RefineGreaterThan(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case o.from == math.MaxInt64:
		return nothing
	}
	return create(max64(i.from, o.from+1), i.to)
}

// RefineGreaterThanEq narrows i given x >= y.
func (i Interval) RefineGreaterThanEq(o Interval) Interval {
	if i.IsNothing() || o.IsNothing() {
		return nothing
	}
	return create(max64(i.from, o.from), i.to)
}

// RefineEqualTo narrows i given x == y.
func (i Interval) RefineEqualTo(o Interval) Interval {
	return i.Intersect(o)
}

// RefineNotEqualTo narrows i given x != y. Only a constant y at either
// end of i can be excluded.
func (i Interval) RefineNotEqualTo(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case !o.IsConstant():
		return i
	case i.IsConstant() && i.from == o.from:
		return nothing
	case i.from == o.from:
		return Interval{from: i.from + 1, to: i.to}
	case i.to == o.from:
		return Interval{from: i.from, to: i.to - 1}
	}
	return i
}
