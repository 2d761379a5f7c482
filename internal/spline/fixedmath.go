package spline

import "math/bits"

// mulDivU32 computes floor(a*b/c) with an exact 128-bit intermediate
// (math/bits.Mul64 + math/bits.Div64), saturating at math.MaxUint32 on
// overflow instead of wrapping. c == 0 is forbidden by the host contract
// (spec §7 "Divide-by-zero"); callers substitute a nominal floor before
// calling in rather than relying on this function to pick one, except where
// noted.
func mulDivU32(a, b, c uint64) uint32 {
	if c == 0 {
		c = 1
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 1<<32 - 1
	}
	q, _ := bits.Div64(hi, lo, c)
	return saturateU32(q)
}

// mulU32 computes a*b without scaling, saturating at math.MaxUint32.
func mulU32(a, b uint32) uint32 {
	return saturateU32(uint64(a) * uint64(b))
}

// shiftRightU64 computes (a >> shift) as a saturated uint32.
func shiftRightU64(a uint64, shift uint) uint32 {
	return saturateU32(a >> shift)
}

func saturateU32(x uint64) uint32 {
	if x > 1<<32-1 {
		return 1<<32 - 1
	}
	return uint32(x)
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func clampU32(x, lo, hi uint32) uint32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func maxU16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

// satIncU16 increments a counter without wrapping past math.MaxUint16.
func satIncU16(v uint16) uint16 {
	if v == 1<<16-1 {
		return v
	}
	return v + 1
}

// satIncU8 increments a counter without wrapping past math.MaxUint8.
func satIncU8(v uint8) uint8 {
	if v == 1<<8-1 {
		return v
	}
	return v + 1
}

// satDecU8 decrements a counter without going below zero.
func satDecU8(v uint8) uint8 {
	if v == 0 {
		return 0
	}
	return v - 1
}

// divFloor divides with a nominal floor substituted for a zero denominator
// (spec §7 Divide-by-zero policy), returning a saturated uint32.
func divFloor(num uint64, den, floor uint32) uint32 {
	if den == 0 {
		den = floor
	}
	return saturateU32(num / uint64(den))
}
