package lattice

import (
	"math"
	"math/big"
	"math/bits"
)

var (
	bigMinInt64 = big.NewInt(math.MinInt64)
	bigMaxInt64 = big.NewInt(math.MaxInt64)
)

// isWithinInt32 checks whether both bounds are representable as int32.
// Sums, differences and products of such bounds cannot overflow int64.
func (i Interval) isWithinInt32() bool {
	return i.from >= math.MinInt32 && i.to <= math.MaxInt32
}

// bigHull converts the hull of arbitrary precision bounds back to an interval.
// If any bound is outside of int64, the result is Everything.
func bigHull(bounds ...*big.Int) Interval {
	lo, hi := bounds[0], bounds[0]
	for _, b := range bounds[1:] {
		if b.Cmp(lo) < 0 {
			lo = b
		}
		if b.Cmp(hi) > 0 {
			hi = b
		}
	}
	if lo.Cmp(bigMinInt64) < 0 || hi.Cmp(bigMaxInt64) > 0 {
		return everything
	}
	return create(lo.Int64(), hi.Int64())
}

// Plus computes {x + y | x ∈ i, y ∈ o}, or Everything if the sum may leave int64.
func (i Interval) Plus(o Interval) Interval {
	if i.IsNothing() || o.IsNothing() {
		return nothing
	}
	if i.isWithinInt32() && o.isWithinInt32() {
		return create(i.from+o.from, i.to+o.to)
	}
	return bigHull(
		new(big.Int).Add(big.NewInt(i.from), big.NewInt(o.from)),
		new(big.Int).Add(big.NewInt(i.to), big.NewInt(o.to)),
	)
}

// Minus computes {x - y | x ∈ i, y ∈ o}, or Everything if the difference may leave int64.
func (i Interval) Minus(o Interval) Interval {
	if i.IsNothing() || o.IsNothing() {
		return nothing
	}
	if i.isWithinInt32() && o.isWithinInt32() {
		return create(i.from-o.to, i.to-o.from)
	}
	return bigHull(
		new(big.Int).Sub(big.NewInt(i.from), big.NewInt(o.to)),
		new(big.Int).Sub(big.NewInt(i.to), big.NewInt(o.from)),
	)
}

// Times computes {x * y | x ∈ i, y ∈ o}, or Everything if the product may leave int64.
func (i Interval) Times(o Interval) Interval {
	if i.IsNothing() || o.IsNothing() {
		return nothing
	}
	if i.isWithinInt32() && o.isWithinInt32() {
		p1, p2, p3, p4 := i.from*o.from, i.from*o.to, i.to*o.from, i.to*o.to
		return create(
			min64(min64(p1, p2), min64(p3, p4)),
			max64(max64(p1, p2), max64(p3, p4)),
		)
	}
	mul := func(a, b int64) *big.Int {
		return new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	}
	return bigHull(
		mul(i.from, o.from),
		mul(i.from, o.to),
		mul(i.to, o.from),
		mul(i.to, o.to),
	)
}

// Divide computes the truncated quotients {x / y | x ∈ i, y ∈ o, y ≠ 0}.
// Division by zero is not modelled: a divisor of exactly {0} yields the empty interval,
// and divisors straddling zero are treated as if zero was excluded.
//
// MinInt64 / -1 wraps around to MinInt64, as it does at run time.
func (i Interval) Divide(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case o.from == 0 && o.to == 0:
		return nothing
	case i.from == math.MinInt64 && o.Contains(-1):
		switch {
		case i.to != math.MinInt64:
			// MinInt64 / -1 = MinInt64, and (MinInt64 + 1) / -1 = MaxInt64.
			return everything
		case o.from == -1 && o.to == -1:
			// [MinInt64, MinInt64] / [-1, -1]
			return i
		default:
			// The dividend is exactly MinInt64, but the divisor holds more than -1.
			// Divide by the parts of the divisor without -1, and add the wrapped quotient.
			res := i
			if o.from <= -2 {
				res = res.Union(i.divide(Interval{from: o.from, to: -2}))
			}
			if o.to >= 1 {
				res = res.Union(i.divide(Interval{from: 1, to: o.to}))
			}
			return res
		}
	}
	return i.divide(o)
}

// divide performs the sign case analysis of division. It assumes that
// MinInt64 / -1 cannot occur and that o ≠ [0, 0].
func (i Interval) divide(o Interval) Interval {
	var from, to int64
	switch {
	case i.from > 0 && o.from >= 0:
		// i positive, o non-negative
		from = i.from / max64(o.to, 1)
		to = i.to / max64(o.from, 1)
	case i.from > 0 && o.to <= 0:
		// i positive, o non-positive
		from = i.to / min64(o.to, -1)
		to = i.from / min64(o.from, -1)
	case i.from > 0:
		// i positive, o straddles zero
		from = -i.to
		to = i.to
	case i.to < 0 && o.from >= 0:
		// i negative, o non-negative
		from = i.from / max64(o.from, 1)
		to = i.to / max64(o.to, 1)
	case i.to < 0 && o.to <= 0:
		// i negative, o non-positive
		from = i.to / min64(o.from, -1)
		to = i.from / min64(o.to, -1)
	case i.to < 0:
		// i negative, o straddles zero
		from = i.from
		to = -i.from
	case o.from >= 0:
		// i straddles zero, o non-negative
		from = i.from / max64(o.from, 1)
		to = i.to / max64(o.from, 1)
	case o.to <= 0:
		// i straddles zero, o non-positive
		from = i.to / min64(o.to, -1)
		to = i.from / min64(o.to, -1)
	default:
		// both straddle zero
		from = min64(i.from, -i.to)
		to = max64(-i.from, i.to)
	}
	return create(from, to)
}

// Remainder over-approximates {x % y | x ∈ i, y ∈ o, y ≠ 0}.
// The result is the intersection of two enclosing intervals:
//  1. x % y has the sign of x and |x % y| ≤ |x|, and is never MinInt64.
//  2. |x % y| < |y| ≤ max(|o.from|, |o.to|).
func (i Interval) Remainder(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case o.from == 0 && o.to == 0:
		return nothing
	}

	var byDivisor Interval
	if o.from == math.MinInt64 {
		// |MinInt64| is not representable.
		byDivisor = Interval{from: math.MinInt64 + 1, to: math.MaxInt64}
	} else {
		m := max64(abs64(o.from), abs64(o.to))
		byDivisor = Interval{from: -(m - 1), to: m - 1}
	}

	from := i.from
	if from == math.MinInt64 {
		from++
	}
	byDividend := Interval{from: min64(0, from), to: max64(0, i.to)}

	return byDividend.Intersect(byDivisor)
}

// ShiftLeft computes {x << y | x ∈ i, y ∈ o}. Shift distances outside of [0, 63]
// give up with Everything, as does any result leaving int64.
func (i Interval) ShiftLeft(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case o.from < 0 || o.to > 63:
		return everything
	}

	// The smallest result shifts a non-negative lower bound the least, and
	// a negative lower bound the most. Conversely for the largest result.
	fromShift, toShift := o.from, o.to
	if i.from < 0 {
		fromShift = o.to
	}
	if i.to < 0 {
		toShift = o.from
	}

	if o.to <= 31 && i.isWithinInt32() {
		return create(i.from<<uint64(fromShift), i.to<<uint64(toShift))
	}
	return bigHull(
		new(big.Int).Lsh(big.NewInt(i.from), uint(fromShift)),
		new(big.Int).Lsh(big.NewInt(i.to), uint(toShift)),
	)
}

// SignedShiftRight computes {x >> y | x ∈ i, y ∈ o}. Negative shift distances
// give up with Everything; distances beyond 63 saturate.
func (i Interval) SignedShiftRight(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case o.from < 0:
		return everything
	}

	lo, hi := min64(o.from, 63), min64(o.to, 63)

	// A non-negative lower bound is smallest when shifted the most, and a negative
	// lower bound when shifted the least. Conversely for the upper bound.
	fromShift, toShift := hi, lo
	if i.from < 0 {
		fromShift = lo
	}
	if i.to < 0 {
		toShift = hi
	}
	return create(i.from>>uint64(fromShift), i.to>>uint64(toShift))
}

// UnaryPlus computes {+x | x ∈ i}.
func (i Interval) UnaryPlus() Interval {
	return i
}

// UnaryMinus computes {-x | x ∈ i}. Negating MinInt64 wraps around to MinInt64,
// so an interval containing MinInt64 and any other value yields Everything.
func (i Interval) UnaryMinus() Interval {
	switch {
	case i.IsNothing():
		return nothing
	case i.from == math.MinInt64 && i.to != math.MinInt64:
		return everything
	case i.from == math.MinInt64:
		return i
	}
	return Interval{from: -i.to, to: -i.from}
}

// BitwiseComplement computes {^x | x ∈ i}.
func (i Interval) BitwiseComplement() Interval {
	if i.IsNothing() {
		return nothing
	}
	return Interval{from: ^i.to, to: ^i.from}
}

// And over-approximates {x & y | x ∈ i, y ∈ o}.
func (i Interval) And(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case i.from >= 0 && o.from >= 0:
		return Interval{from: 0, to: min64(i.to, o.to)}
	case i.from >= 0:
		return Interval{from: 0, to: i.to}
	case o.from >= 0:
		return Interval{from: 0, to: o.to}
	case i.to < 0 && o.to < 0:
		// The sign bit survives, and no other bit is added.
		return Interval{from: math.MinInt64, to: min64(i.to, o.to)}
	}
	return everything
}

// Or over-approximates {x | y | x ∈ i, y ∈ o}.
func (i Interval) Or(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case i.from >= 0 && o.from >= 0:
		return Interval{from: max64(i.from, o.from), to: bitMask(max64(i.to, o.to))}
	case i.to < 0 && o.to < 0:
		return Interval{from: max64(i.from, o.from), to: -1}
	}
	return everything
}

// Xor over-approximates {x ^ y | x ∈ i, y ∈ o}.
func (i Interval) Xor(o Interval) Interval {
	switch {
	case i.IsNothing() || o.IsNothing():
		return nothing
	case i.from >= 0 && o.from >= 0:
		return Interval{from: 0, to: bitMask(max64(i.to, o.to))}
	case i.to < 0 && o.to < 0:
		// x ^ y = ^x ^ ^y, where ^x and ^y are non-negative.
		return Interval{from: 0, to: bitMask(max64(^i.from, ^o.from))}
	}
	return everything
}

// AndNot over-approximates {x &^ y | x ∈ i, y ∈ o}.
func (i Interval) AndNot(o Interval) Interval {
	return i.And(o.BitwiseComplement())
}

// bitMask returns the smallest value of the form 2ⁿ - 1 that is at least x, for x ≥ 0.
func bitMask(x int64) int64 {
	n := bits.Len64(uint64(x))
	if n >= 63 {
		return math.MaxInt64
	}
	return int64(1)<<uint(n) - 1
}

// abs64 computes |x| for x ≠ MinInt64.
func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
