package lattice

// IntervalLattice represents the lattice of 64-bit integer intervals.
type IntervalLattice struct{}

// intervalLattice is a singleton instantiation of the interval lattice.
var intervalLattice = &IntervalLattice{}

// Interval yields the interval lattice.
func (latticeFactory) Interval() *IntervalLattice {
	return intervalLattice
}

// Top yields [MinInt64, MaxInt64].
func (*IntervalLattice) Top() Interval {
	return everything
}

// Bot yields the empty interval.
func (*IntervalLattice) Bot() Interval {
	return nothing
}

func (*IntervalLattice) String() string {
	return "[" + colorize.Lattice("int64") +
		", " + colorize.Lattice("int64") + "]"
}
