package vmath

import (
	"math"
	"math/bits"
)

// Q32.32 Fixed Point constants
const (
	Shift  = 32
	Scale  = 1 << Shift
	ScaleF = float64(Scale)
	Half   = 1 << (Shift - 1)
)

// --- Arithmetic ---

func FromInt(i int) int64       { return int64(i) << Shift }
func FromFloat(f float64) int64 { return int64(f * Scale) }
func ToFloat(f int64) float64   { return float64(f) / Scale }

// Round returns the nearest integer of a Q32.32 value
func Round(f int64) int { return int((f + Half) >> Shift) }

func Mul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}

	hi, lo := bits.Mul64(ua, ub)
	// Q32.32 * Q32.32 = Q64.64, shift right 32 for Q32.32
	result := int64((hi << 32) | (lo >> 32))

	if negative {
		return -result
	}
	return result
}

func Div(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}

	// a << 32 as 128-bit: hi = a >> 32, lo = a << 32
	hi := ua >> 32
	lo := ua << 32

	// Quotient would not fit in 64 bits
	if hi >= ub {
		if negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}

	quo, _ := bits.Div64(hi, lo, ub)
	if quo > math.MaxInt64 {
		if negative {
			return math.MinInt64
		}
		return math.MaxInt64
	}

	if negative {
		return -int64(quo)
	}
	return int64(quo)
}

// Sqrt returns Q32.32 square root using Newton-Raphson
func Sqrt(x int64) int64 {
	if x <= 0 {
		return 0
	}

	guess := x
	if guess > Scale {
		guess = Scale
		for guess < x>>1 {
			guess <<= 1
		}
	} else {
		guess = x >> 1
		if guess == 0 {
			guess = 1
		}
	}

	for i := 0; i < 12; i++ {
		if guess == 0 {
			return 0
		}
		guess = (guess + Div(x, guess)) >> 1
	}
	return guess
}
