// Package fixed provides the two sub-pixel fixed-point units used by the
// rasterizer back-ends: 24.8 (256 units/pixel) for the analytic exact-area
// sweep, and 26.6 (64 units/pixel) for the tiled multi-sample sweep.
//
// Carrying the unit in the type, rather than passing around bare int32s,
// prevents accidental cross-unit arithmetic between the two back-ends.
package fixed

import "math"

// Int24_8 is a value in 24.8 fixed point: 256 units per pixel.
type Int24_8 int32

// Int26_6 is a value in 26.6 fixed point: 64 units per pixel.
type Int26_6 int32

const (
	// Shift24_8 is the number of fractional bits in Int24_8.
	Shift24_8 = 8
	// Shift26_6 is the number of fractional bits in Int26_6.
	Shift26_6 = 6

	// OneFromFloat24_8 is one pixel in 24.8 units.
	OneFromFloat24_8 = 1 << Shift24_8
	// OneFromFloat26_6 is one pixel in 26.6 units.
	OneFromFloat26_6 = 1 << Shift26_6

	// FullCoverage24_8 is 2*(256^2), the "full coverage" constant for the
	// exact-area sweep: the absolute value of cover*2*unit - area at full
	// opacity.
	FullCoverage24_8 = 2 * OneFromFloat24_8 * OneFromFloat24_8
)

// FromFloat24_8 rounds a floating point pixel coordinate to 24.8, with
// round-to-nearest at segment emission time.
func FromFloat24_8(v float64) Int24_8 {
	return Int24_8(math.Round(v * OneFromFloat24_8))
}

// ToFloat returns v as a floating point pixel coordinate.
func (v Int24_8) ToFloat() float64 {
	return float64(v) / OneFromFloat24_8
}

// Floor returns the integer pixel row/column v falls in.
func (v Int24_8) Floor() int32 {
	return int32(v) >> Shift24_8
}

// FromFloat26_6 rounds a floating point pixel coordinate to 26.6.
func FromFloat26_6(v float64) Int26_6 {
	return Int26_6(math.Round(v * OneFromFloat26_6))
}

// ToFloat returns v as a floating point pixel coordinate.
func (v Int26_6) ToFloat() float64 {
	return float64(v) / OneFromFloat26_6
}

// Floor returns the integer pixel row/column v falls in.
func (v Int26_6) Floor() int32 {
	return int32(v) >> Shift26_6
}
