package math

import "math"

// Pi as float32.
const Pi = float32(math.Pi)

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * Pi / 180
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Sin returns sin(a).
func Sin(a float32) float32 { return float32(math.Sin(float64(a))) }

// Cos returns cos(a).
func Cos(a float32) float32 { return float32(math.Cos(float64(a))) }

// Tan returns tan(a).
func Tan(a float32) float32 { return float32(math.Tan(float64(a))) }

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }

// Floor returns the greatest integer value <= x.
func Floor(x float32) float32 { return float32(math.Floor(float64(x))) }

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func acos(x float32) float32 { return float32(math.Acos(float64(Clamp(x, -1, 1)))) }
