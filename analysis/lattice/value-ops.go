package lattice

import (
	"go/token"
	"go/types"
	"math"
	"unicode"
)

// BinaryOp computes the abstract result of `x op y` with Go's run-time semantics
// for 64-bit integers, 64-bit floating point numbers, strings and booleans.
// Results of narrower types must be passed through Convert.
//
// Enumerated operands are evaluated pairwise. Pairs that panic at run-time, such as
// division by zero, contribute no values. Integer operands that cannot be enumerated
// are evaluated with interval arithmetic.
func BinaryOp(op token.Token, x, y AbstractValue) AbstractValue {
	switch {
	case x.kind == Bottom || y.kind == Bottom:
		return bottomValue
	case isComparison(op):
		return compare(op, x, y)
	case x.kind == Unknown || y.kind == Unknown:
		return unknownValue
	}

	x, y = x.lensAsInts(), y.lensAsInts()

	switch {
	case x.isInteger() && y.isInteger() && !isIntegerOp(op):
		return unknownValue
	case x.kind == IntSet && y.kind == IntSet:
		return elFact.IntSet(pairwise(x.ints, y.ints, func(a, b int64) (int64, bool) {
			return evalInt(op, a, b)
		})...)
	case x.isInteger() && y.isInteger():
		i1, _ := x.asInterval()
		i2, _ := y.asInterval()
		if res, ok := evalInterval(op, i1, i2); ok {
			return elFact.FromInterval(res)
		}
		return unknownValue
	case x.kind == DoubleSet || y.kind == DoubleSet:
		d1, ok1 := x.asDoubleSet()
		d2, ok2 := y.asDoubleSet()
		if !ok1 || !ok2 || !isFloatOp(op) {
			return unknownValue
		}
		return elFact.DoubleSet(pairwise(d1, d2, func(a, b float64) (float64, bool) {
			return evalFloat(op, a, b)
		})...)
	case x.kind == StringSet && y.kind == StringSet && op == token.ADD:
		return elFact.StringSet(pairwise(x.strs, y.strs, func(a, b string) (string, bool) {
			return a + b, true
		})...)
	case x.kind == BooleanSet && y.kind == BooleanSet && (op == token.LAND || op == token.LOR):
		return elFact.BooleanSet(pairwise(x.bools, y.bools, func(a, b bool) (bool, bool) {
			if op == token.LAND {
				return a && b, true
			}
			return a || b, true
		})...)
	}
	return unknownValue
}

// UnaryOp computes the abstract result of `op x`.
func UnaryOp(op token.Token, x AbstractValue) AbstractValue {
	switch x.kind {
	case Bottom:
		return bottomValue
	case Unknown:
		return unknownValue
	}

	x = x.lensAsInts()

	switch op {
	case token.ADD:
		if x.isInteger() || x.kind == DoubleSet {
			return x
		}
	case token.SUB:
		switch x.kind {
		case IntRange:
			return elFact.FromInterval(x.rng.UnaryMinus())
		case IntSet:
			return elFact.IntSet(mapValues(x.ints, func(a int64) (int64, bool) {
				return -a, true
			})...)
		case DoubleSet:
			return elFact.DoubleSet(mapValues(x.doubles, func(a float64) (float64, bool) {
				return -a, true
			})...)
		}
	case token.XOR:
		switch x.kind {
		case IntRange:
			return elFact.FromInterval(x.rng.BitwiseComplement())
		case IntSet:
			return elFact.IntSet(mapValues(x.ints, func(a int64) (int64, bool) {
				return ^a, true
			})...)
		}
	case token.NOT:
		if x.kind == BooleanSet {
			return elFact.BooleanSet(mapValues(x.bools, func(a bool) (bool, bool) {
				return !a, true
			})...)
		}
	}
	return unknownValue
}

// Refine narrows x under the assumption that `x op y` holds, where op is a comparison.
// The result is ⊥ if the comparison cannot hold.
func Refine(op token.Token, x, y AbstractValue) AbstractValue {
	switch {
	case x.kind == Bottom || y.kind == Bottom:
		return bottomValue
	case !isComparison(op) || y.kind == Unknown:
		return x
	}

	if xi, yi := x.lensAsInts(), y.lensAsInts(); (xi.isInteger() || x.kind == Unknown) && yi.isInteger() {
		return refineInt(op, x, yi)
	}

	switch {
	case x.kind == Unknown && op == token.EQL:
		return y
	case x.kind == DoubleSet:
		ys, ok := y.asDoubleSet()
		if !ok {
			return x
		}
		return normalize(AbstractValue{kind: DoubleSet, doubles: x.doubles.Filter(func(a float64) bool {
			return ys.Exists(func(b float64) bool {
				return compareOrdered(op, a, b)
			})
		})})
	case x.isInteger() && y.kind == DoubleSet && op == token.EQL:
		return x.Meet(y)
	case x.kind == StringSet && y.kind == StringSet:
		return normalize(AbstractValue{kind: StringSet, strs: x.strs.Filter(func(a string) bool {
			return y.strs.Exists(func(b string) bool {
				return compareOrdered(op, a, b)
			})
		})})
	case x.kind == BooleanSet && y.kind == BooleanSet && (op == token.EQL || op == token.NEQ):
		return normalize(AbstractValue{kind: BooleanSet, bools: x.bools.Filter(func(a bool) bool {
			// a == b for EQL, and a != b for NEQ.
			return y.bools.Contains(a == (op == token.EQL))
		})})
	}
	return x
}

// refineInt narrows an integer (or unknown) x against integers y.
func refineInt(op token.Token, x, y AbstractValue) AbstractValue {
	yi, _ := y.asInterval()

	switch x.kind {
	case IntSet, ArrayLenSet:
		xs := x.lensAsInts()
		if y.kind == IntSet {
			// Keep the members of x satisfying the comparison with some member of y.
			return x.filterInts(func(a int64) bool {
				return !y.ints.Forall(func(b int64) bool {
					return !compareInts(op, a, b)
				})
			})
		}
		xi, _ := xs.asInterval()
		refined := refineInterval(op, xi, yi)
		return x.filterInts(refined.Contains)
	case IntRange:
		return elFact.FromInterval(refineInterval(op, x.rng, yi))
	case Unknown:
		return elFact.FromInterval(refineInterval(op, everything, yi))
	}
	return x
}

// filterInts keeps the integers of an IntSet or ArrayLenSet satisfying the predicate.
func (v AbstractValue) filterInts(pred func(int64) bool) AbstractValue {
	switch v.kind {
	case IntSet:
		return normalize(AbstractValue{kind: IntSet, ints: v.ints.Filter(pred)})
	case ArrayLenSet:
		return normalize(AbstractValue{kind: ArrayLenSet, lens: v.lens.Filter(func(n int) bool {
			return pred(int64(n))
		})})
	}
	return v
}

func refineInterval(op token.Token, i, o Interval) Interval {
	switch op {
	case token.LSS:
		return i.RefineLessThan(o)
	case token.LEQ:
		return i.RefineLessThanEq(o)
	case token.GTR:
		return i.RefineGreaterThan(o)
	case token.GEQ:
		return i.RefineGreaterThanEq(o)
	case token.EQL:
		return i.RefineEqualTo(o)
	case token.NEQ:
		return i.RefineNotEqualTo(o)
	}
	return i
}

// Convert computes the abstract result of converting x to the basic type t.
// Integer conversions wrap around as they do at run-time. Conversions without a
// precise abstraction yield ⊤.
func Convert(x AbstractValue, t *types.Basic) AbstractValue {
	switch x.kind {
	case Bottom:
		return bottomValue
	case Unknown:
		return unknownValue
	}

	x = x.lensAsInts()
	info := t.Info()

	switch {
	case info&types.IsInteger != 0:
		if x.kind == DoubleSet {
			// Float to integer conversions truncate. Out of range values are
			// implementation-specific.
			xs := make([]int64, 0, x.doubles.Len())
			if !x.doubles.Forall(func(f float64) bool {
				f = math.Trunc(f)
				if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
					return false
				}
				xs = append(xs, int64(f))
				return true
			}) {
				return unknownValue
			}
			x = elFact.IntSet(xs...)
		}
		if !x.isInteger() {
			return unknownValue
		}
		return convertInt(x, t.Kind())
	case info&types.IsFloat != 0:
		ds, ok := x.asDoubleSet()
		if !ok {
			return unknownValue
		}
		if t.Kind() == types.Float32 {
			return elFact.DoubleSet(mapValues(ds, func(f float64) (float64, bool) {
				return float64(float32(f)), true
			})...)
		}
		return normalize(AbstractValue{kind: DoubleSet, doubles: ds})
	case info&types.IsString != 0:
		switch {
		case x.kind == StringSet:
			return x
		case x.kind == IntSet:
			return elFact.StringSet(mapValues(x.ints, func(a int64) (string, bool) {
				if a < 0 || a > unicode.MaxRune {
					return string(unicode.ReplacementChar), true
				}
				return string(rune(a)), true
			})...)
		}
	case info&types.IsBoolean != 0:
		if x.kind == BooleanSet {
			return x
		}
	}
	return unknownValue
}

// convertInt converts an IntSet or IntRange to an integer type.
func convertInt(x AbstractValue, kind types.BasicKind) AbstractValue {
	var (
		wrap   func(int64) int64
		narrow func(Interval) Interval
	)
	switch kind {
	case types.Int, types.Int64, types.UntypedInt, types.UntypedRune:
		return x
	case types.Uint, types.Uint64, types.Uintptr:
		// Negative values become unsigned values beyond the range of int64.
		if i, _ := x.asInterval(); i.from < 0 {
			return unknownValue
		}
		return x
	case types.Int32:
		wrap, narrow = func(a int64) int64 { return int64(int32(a)) }, Interval.ToInt32Range
	case types.Int16:
		wrap, narrow = func(a int64) int64 { return int64(int16(a)) }, Interval.ToInt16Range
	case types.Int8:
		wrap, narrow = func(a int64) int64 { return int64(int8(a)) }, Interval.ToInt8Range
	case types.Uint32:
		wrap, narrow = func(a int64) int64 { return int64(uint32(a)) }, Interval.ToUint32Range
	case types.Uint16:
		wrap, narrow = func(a int64) int64 { return int64(uint16(a)) }, Interval.ToUint16Range
	case types.Uint8:
		wrap, narrow = func(a int64) int64 { return int64(uint8(a)) }, Interval.ToUint8Range
	default:
		return unknownValue
	}

	if x.kind == IntSet {
		return elFact.IntSet(mapValues(x.ints, func(a int64) (int64, bool) {
			return wrap(a), true
		})...)
	}
	return elFact.FromInterval(narrow(x.rng))
}

// Len computes the abstract length of a value. Strings have the length of their
// UTF-8 encoding.
func Len(x AbstractValue) AbstractValue {
	switch x.kind {
	case Bottom:
		return bottomValue
	case StringSet:
		return elFact.IntSet(mapValues(x.strs, func(s string) (int64, bool) {
			return int64(len(s)), true
		})...)
	case ArrayLenSet:
		return x.lensAsInts()
	}
	return elFact.IntRange(0, math.MaxInt64)
}

func isIntegerOp(op token.Token) bool {
	_, ok := evalInterval(op, nothing, nothing)
	return ok
}

func isFloatOp(op token.Token) bool {
	switch op {
	case token.ADD, token.SUB, token.MUL, token.QUO:
		return true
	}
	return false
}

func isComparison(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	}
	return false
}

// compare computes the possible outcomes of `x op y`.
func compare(op token.Token, x, y AbstractValue) AbstractValue {
	if x.kind == Unknown || y.kind == Unknown {
		return Consts().AnyBoolean()
	}

	x, y = x.lensAsInts(), y.lensAsInts()

	switch {
	case x.kind == IntSet && y.kind == IntSet:
		return elFact.BooleanSet(pairwise(x.ints, y.ints, func(a, b int64) (bool, bool) {
			return compareInts(op, a, b), true
		})...)
	case x.isInteger() && y.isInteger():
		i1, _ := x.asInterval()
		i2, _ := y.asInterval()
		return compareIntervals(op, i1, i2)
	case x.kind == DoubleSet || y.kind == DoubleSet:
		d1, ok1 := x.asDoubleSet()
		d2, ok2 := y.asDoubleSet()
		if !ok1 || !ok2 {
			return Consts().AnyBoolean()
		}
		return elFact.BooleanSet(pairwise(d1, d2, func(a, b float64) (bool, bool) {
			return compareOrdered(op, a, b), true
		})...)
	case x.kind == StringSet && y.kind == StringSet:
		return elFact.BooleanSet(pairwise(x.strs, y.strs, func(a, b string) (bool, bool) {
			return compareOrdered(op, a, b), true
		})...)
	case x.kind == BooleanSet && y.kind == BooleanSet && (op == token.EQL || op == token.NEQ):
		return elFact.BooleanSet(pairwise(x.bools, y.bools, func(a, b bool) (bool, bool) {
			return (a == b) == (op == token.EQL), true
		})...)
	}
	return Consts().AnyBoolean()
}

// compareIntervals decides `x op y` for every x ∈ i and y ∈ o at once where
// the bounds allow it.
func compareIntervals(op token.Token, i, o Interval) AbstractValue {
	var always, never bool
	switch op {
	case token.LSS:
		always, never = i.to < o.from, i.from >= o.to
	case token.LEQ:
		always, never = i.to <= o.from, i.from > o.to
	case token.GTR:
		always, never = i.from > o.to, i.to <= o.from
	case token.GEQ:
		always, never = i.from >= o.to, i.to < o.from
	case token.EQL:
		always, never = i.IsConstant() && i.Eq(o), i.Intersect(o).IsNothing()
	case token.NEQ:
		always, never = i.Intersect(o).IsNothing(), i.IsConstant() && i.Eq(o)
	}

	switch {
	case always:
		return elFact.BooleanSet(true)
	case never:
		return elFact.BooleanSet(false)
	}
	return Consts().AnyBoolean()
}

func compareInts(op token.Token, a, b int64) bool {
	return compareOrdered(op, a, b)
}

func compareOrdered[T int64 | float64 | string](op token.Token, a, b T) bool {
	switch op {
	case token.EQL:
		return a == b
	case token.NEQ:
		return a != b
	case token.LSS:
		return a < b
	case token.LEQ:
		return a <= b
	case token.GTR:
		return a > b
	case token.GEQ:
		return a >= b
	}
	panic(errPatternMatch(op))
}

func evalInt(op token.Token, a, b int64) (int64, bool) {
	switch op {
	case token.ADD:
		return a + b, true
	case token.SUB:
		return a - b, true
	case token.MUL:
		return a * b, true
	case token.QUO:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case token.REM:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case token.SHL:
		if b < 0 {
			return 0, false
		}
		return a << uint64(b), true
	case token.SHR:
		if b < 0 {
			return 0, false
		}
		return a >> uint64(b), true
	case token.AND:
		return a & b, true
	case token.OR:
		return a | b, true
	case token.XOR:
		return a ^ b, true
	case token.AND_NOT:
		return a &^ b, true
	}
	return 0, false
}

func evalInterval(op token.Token, i, o Interval) (Interval, bool) {
	switch op {
	case token.ADD:
		return i.Plus(o), true
	case token.SUB:
		return i.Minus(o), true
	case token.MUL:
		return i.Times(o), true
	case token.QUO:
		return i.Divide(o), true
	case token.REM:
		return i.Remainder(o), true
	case token.SHL:
		return i.ShiftLeft(o), true
	case token.SHR:
		return i.SignedShiftRight(o), true
	case token.AND:
		return i.And(o), true
	case token.OR:
		return i.Or(o), true
	case token.XOR:
		return i.Xor(o), true
	case token.AND_NOT:
		return i.AndNot(o), true
	}
	return nothing, false
}

func evalFloat(op token.Token, a, b float64) (float64, bool) {
	switch op {
	case token.ADD:
		return a + b, true
	case token.SUB:
		return a - b, true
	case token.MUL:
		return a * b, true
	case token.QUO:
		return a / b, true
	}
	return 0, false
}

// lensAsInts views an ArrayLenSet as the IntSet of its lengths.
func (v AbstractValue) lensAsInts() AbstractValue {
	if v.kind != ArrayLenSet {
		return v
	}
	return elFact.IntSet(mapValues(v.lens, func(n int) (int64, bool) {
		return int64(n), true
	})...)
}

// pairwise applies f to every pair of members, dropping pairs for which f fails.
func pairwise[S members[T], T, U any](s1, s2 S, f func(T, T) (U, bool)) []U {
	res := make([]U, 0, s1.Len()*s2.Len())
	s1.ForEach(func(a T) {
		s2.ForEach(func(b T) {
			if u, ok := f(a, b); ok {
				res = append(res, u)
			}
		})
	})
	return res
}
