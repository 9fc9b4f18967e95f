package lattice

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Interval is a closed range [from, to] of 64-bit signed integers, or the
// empty interval. Intervals are immutable values; every operation returns
// a fresh interval.
//
// The empty interval is represented by any pair with from > to and must only be
// detected with IsNothing, as its bounds carry no meaning.
type Interval struct {
	from int64
	to   int64
}

// NewInterval creates the interval [from, to]. It fails with ErrInvalidInterval
// if from > to.
func NewInterval(from, to int64) (Interval, error) {
	if from > to {
		return nothing, fmt.Errorf("%w: [%d, %d]", ErrInvalidInterval, from, to)
	}
	return Interval{from: from, to: to}, nil
}

// Interval creates the interval [from, to]. It fails with ErrInvalidInterval
// if from > to.
func (elementFactory) Interval(from, to int64) (Interval, error) {
	return NewInterval(from, to)
}

// IntervalSingleton creates the interval [x, x].
func (elementFactory) IntervalSingleton(x int64) Interval {
	return Interval{from: x, to: x}
}

// create is the private construction path. Bounds out of order yield the empty interval.
func create(from, to int64) Interval {
	if from > to {
		return nothing
	}
	return Interval{from: from, to: to}
}

// From returns the lower bound. Meaningless for the empty interval.
func (i Interval) From() int64 {
	return i.from
}

// To returns the upper bound. Meaningless for the empty interval.
func (i Interval) To() int64 {
	return i.to
}

// Bounds unpacks the interval bounds.
func (i Interval) Bounds() (int64, int64) {
	return i.from, i.to
}

// IsNothing checks whether the interval is empty.
func (i Interval) IsNothing() bool {
	return i.from > i.to
}

// IsEverything checks whether the interval is [MinInt64, MaxInt64].
func (i Interval) IsEverything() bool {
	return i.from == math.MinInt64 && i.to == math.MaxInt64
}

// IsConstant checks whether the interval contains exactly one value.
func (i Interval) IsConstant() bool {
	return i.from == i.to
}

// Contains checks whether x ∈ i.
func (i Interval) Contains(x int64) bool {
	return i.from <= x && x <= i.to
}

// ContainsInterval checks whether o ⊆ i.
func (i Interval) ContainsInterval(o Interval) bool {
	switch {
	case o.IsNothing():
		return true
	case i.IsNothing():
		return false
	}
	return i.from <= o.from && o.to <= i.to
}

// Eq checks for equality. All empty intervals are equal.
func (i Interval) Eq(o Interval) bool {
	if i.IsNothing() || o.IsNothing() {
		return i.IsNothing() == o.IsNothing()
	}
	return i.from == o.from && i.to == o.to
}

// Union computes the smallest interval enclosing both i and o:
//
//	[l1, h1] ∪ [l2, h2] = [min(l1, l2), max(h1, h2)]
func (i Interval) Union(o Interval) Interval {
	switch {
	case i.IsNothing():
		return o
	case o.IsNothing():
		return i
	}
	return Interval{from: min64(i.from, o.from), to: max64(i.to, o.to)}
}

// Intersect computes the interval of values in both i and o, or the empty interval
// if they are disjoint.
func (i Interval) Intersect(o Interval) Interval {
	if i.IsNothing() || o.IsNothing() {
		return nothing
	}
	return create(max64(i.from, o.from), min64(i.to, o.to))
}

// Size returns the number of values in the interval.
func (i Interval) Size() *big.Int {
	if i.IsNothing() {
		return new(big.Int)
	}
	size := new(big.Int).Sub(big.NewInt(i.to), big.NewInt(i.from))
	return size.Add(size, big.NewInt(1))
}

// IsWiderThan checks whether the interval holds more than n values.
func (i Interval) IsWiderThan(n int64) bool {
	return i.Size().Cmp(big.NewInt(n)) > 0
}

// Values enumerates the interval in ascending order. The second result is false
// and nothing is enumerated if the interval holds more than MaxValues values.
func (i Interval) Values() ([]int64, bool) {
	if i.IsWiderThan(MaxValues) {
		return nil, false
	}
	if i.IsNothing() {
		return []int64{}, true
	}

	vs := make([]int64, 0, MaxValues)
	for x := i.from; ; x++ {
		vs = append(vs, x)
		if x == i.to {
			break
		}
	}
	return vs, true
}

func (i Interval) String() string {
	if i.IsNothing() {
		return colorize.Element("∅")
	}
	return "[" + colorize.Element(strconv.FormatInt(i.from, 10)) +
		", " + colorize.Element(strconv.FormatInt(i.to, 10)) + "]"
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
