package lattice

import (
	"strconv"
	"strings"
)

// Kind enumerates the shapes of abstract values.
type Kind int

const (
	// Bottom is the value of expressions that are never evaluated.
	Bottom Kind = iota
	// Unknown is any value of the static type.
	Unknown
	// IntRange is every integer in an interval.
	IntRange
	// IntSet is exactly the enumerated integers.
	IntSet
	// DoubleSet is exactly the enumerated floating point numbers.
	DoubleSet
	// StringSet is exactly the enumerated strings.
	StringSet
	// BooleanSet is exactly the enumerated booleans.
	BooleanSet
	// ArrayLenSet is exactly the enumerated lengths of an array, slice or string.
	ArrayLenSet
)

func (k Kind) String() string {
	switch k {
	case Bottom:
		return "Bottom"
	case Unknown:
		return "Unknown"
	case IntRange:
		return "IntRange"
	case IntSet:
		return "IntSet"
	case DoubleSet:
		return "DoubleSet"
	case StringSet:
		return "StringSet"
	case BooleanSet:
		return "BooleanSet"
	case ArrayLenSet:
		return "ArrayLenSet"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// AbstractValue over-approximates the set of run-time values of an expression.
// It is a tagged union: only the payload matching the kind is meaningful.
// Abstract values are immutable, and are always normalized, i.e., enumerated
// payloads are non-empty and hold at most MaxValues members.
type AbstractValue struct {
	kind Kind

	rng     Interval
	ints    valueSet[int64]
	doubles valueSet[float64]
	strs    valueSet[string]
	bools   boolSet
	lens    valueSet[int]
}

// Kind returns the shape of the abstract value.
func (v AbstractValue) Kind() Kind {
	return v.kind
}

// IsBot checks whether the abstract value is ⊥.
func (v AbstractValue) IsBot() bool {
	return v.kind == Bottom
}

// IsTop checks whether the abstract value is ⊤.
func (v AbstractValue) IsTop() bool {
	return v.kind == Unknown
}

// Interval retrieves the interval of an IntRange value.
func (v AbstractValue) Interval() (Interval, bool) {
	if v.kind != IntRange {
		return nothing, false
	}
	return v.rng, true
}

// Ints retrieves the members of an IntSet value in ascending order.
func (v AbstractValue) Ints() ([]int64, bool) {
	if v.kind != IntSet {
		return nil, false
	}
	return v.ints.Values(), true
}

// Doubles retrieves the members of a DoubleSet value in ascending order.
func (v AbstractValue) Doubles() ([]float64, bool) {
	if v.kind != DoubleSet {
		return nil, false
	}
	return v.doubles.Values(), true
}

// Strings retrieves the members of a StringSet value in ascending order.
func (v AbstractValue) Strings() ([]string, bool) {
	if v.kind != StringSet {
		return nil, false
	}
	return v.strs.Values(), true
}

// Booleans retrieves the members of a BooleanSet value, false first.
func (v AbstractValue) Booleans() ([]bool, bool) {
	if v.kind != BooleanSet {
		return nil, false
	}
	return v.bools.Values(), true
}

// ArrayLens retrieves the members of an ArrayLenSet value in ascending order.
func (v AbstractValue) ArrayLens() ([]int, bool) {
	if v.kind != ArrayLenSet {
		return nil, false
	}
	return v.lens.Values(), true
}

// Size returns the number of enumerated members, or -1 for values that are
// not enumerated.
func (v AbstractValue) Size() int {
	switch v.kind {
	case Bottom:
		return 0
	case Unknown, IntRange:
		return -1
	case IntSet:
		return v.ints.Len()
	case DoubleSet:
		return v.doubles.Len()
	case StringSet:
		return v.strs.Len()
	case BooleanSet:
		return v.bools.Len()
	case ArrayLenSet:
		return v.lens.Len()
	}
	panic(errPatternMatch(v.kind))
}

func (v AbstractValue) String() string {
	switch v.kind {
	case Bottom:
		return colorize.Element("⊥")
	case Unknown:
		return colorize.Element("⊤")
	case IntRange:
		return colorize.Kind("IntRange") + v.rng.String()
	case IntSet:
		return colorize.Kind("IntSet") + setString(v.ints, func(x int64) string {
			return strconv.FormatInt(x, 10)
		})
	case DoubleSet:
		return colorize.Kind("DoubleSet") + setString(v.doubles, func(x float64) string {
			return strconv.FormatFloat(x, 'g', -1, 64)
		})
	case StringSet:
		return colorize.Kind("StringSet") + setString(v.strs, strconv.Quote)
	case BooleanSet:
		return colorize.Kind("BooleanSet") + setString(v.bools, strconv.FormatBool)
	case ArrayLenSet:
		return colorize.Kind("ArrayLenSet") + setString(v.lens, strconv.Itoa)
	}
	panic(errPatternMatch(v.kind))
}

func setString[S members[T], T any](s S, str func(T) string) string {
	strs := mapValues(s, func(x T) (string, bool) {
		return colorize.Element(str(x)), true
	})
	return "{" + strings.Join(strs, ", ") + "}"
}
