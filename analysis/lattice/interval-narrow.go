package lattice

// Narrowing conversions follow two's complement wraparound per element. When the
// wrapped values of an interval are not contiguous in the target type, the result
// is every value of the target type.

// ToInt32Range computes {int64(int32(x)) | x ∈ i}.
func (i Interval) ToInt32Range() Interval {
	return i.narrow(int32Everything, func(x int64) int64 { return int64(int32(x)) })
}

// ToInt16Range computes {int64(int16(x)) | x ∈ i}.
func (i Interval) ToInt16Range() Interval {
	return i.narrow(int16Everything, func(x int64) int64 { return int64(int16(x)) })
}

// ToInt8Range computes {int64(int8(x)) | x ∈ i}.
func (i Interval) ToInt8Range() Interval {
	return i.narrow(int8Everything, func(x int64) int64 { return int64(int8(x)) })
}

// ToUint32Range computes {int64(uint32(x)) | x ∈ i}.
func (i Interval) ToUint32Range() Interval {
	return i.narrow(uint32Everything, func(x int64) int64 { return int64(uint32(x)) })
}

// ToUint16Range computes {int64(uint16(x)) | x ∈ i}.
func (i Interval) ToUint16Range() Interval {
	return i.narrow(uint16Everything, func(x int64) int64 { return int64(uint16(x)) })
}

// ToUint8Range computes {int64(uint8(x)) | x ∈ i}.
func (i Interval) ToUint8Range() Interval {
	return i.narrow(uint8Everything, func(x int64) int64 { return int64(uint8(x)) })
}

func (i Interval) narrow(target Interval, wrap func(int64) int64) Interval {
	if i.IsNothing() {
		return nothing
	}
	if i.Size().Cmp(target.Size()) > 0 {
		return target
	}
	if from, to := wrap(i.from), wrap(i.to); from <= to {
		return Interval{from: from, to: to}
	}
	return target
}
