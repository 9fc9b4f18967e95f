package lattice

import "math"

// MaxValues bounds the number of discrete values an enumerated abstract value may
// hold. Larger integer sets are widened to their enclosing IntRange, all other
// shapes to Unknown.
const MaxValues = 10

// Interval constants. Intervals are values, so handing them out is safe.
var (
	everything = Interval{from: math.MinInt64, to: math.MaxInt64}
	nothing    = Interval{from: math.MaxInt64, to: math.MinInt64}

	int32Everything  = Interval{from: math.MinInt32, to: math.MaxInt32}
	int16Everything  = Interval{from: math.MinInt16, to: math.MaxInt16}
	int8Everything   = Interval{from: math.MinInt8, to: math.MaxInt8}
	uint32Everything = Interval{from: 0, to: math.MaxUint32}
	uint16Everything = Interval{from: 0, to: math.MaxUint16}
	uint8Everything  = Interval{from: 0, to: math.MaxUint8}
)

// Abstract value constants.
var (
	bottomValue  = AbstractValue{kind: Bottom}
	unknownValue = AbstractValue{kind: Unknown}
)

type consts struct{}

// Consts is a factory for commonly used constants.
func Consts() consts {
	return consts{}
}

// Everything is the interval [MinInt64, MaxInt64].
func (consts) Everything() Interval {
	return everything
}

// Nothing is the empty interval.
func (consts) Nothing() Interval {
	return nothing
}

// Booleans yields the abstract values for true and false.
func (consts) Booleans() (TRUE, FALSE AbstractValue) {
	return elFact.BooleanSet(true), elFact.BooleanSet(false)
}

// AnyBoolean is the boolean set {false, true}.
func (consts) AnyBoolean() AbstractValue {
	return elFact.BooleanSet(false, true)
}

// Everything is the interval containing every int64.
func Everything() Interval {
	return everything
}

// Nothing is the empty interval.
func Nothing() Interval {
	return nothing
}
