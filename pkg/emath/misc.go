package emath

import "math"

// Some functions that only operate on basic types, that are useful

const TwoPi = 2 * math.Pi

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055*math.Pow(f, 1.0/2.4) - 0.055
}

// WrapPhase maps any angle into (-π, π].
func WrapPhase(phi float64) float64 {
	w := math.Mod(phi+math.Pi, TwoPi)
	if w <= 0 {
		w += TwoPi
	}
	return w - math.Pi
}

// NormalizeAngle is WrapPhase for rotations; the pose code reads better with it.
func NormalizeAngle(theta float64) float64 { return WrapPhase(theta) }

func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180.0 }
func Rad2Deg(rad float64) float64 { return rad * 180.0 / math.Pi }
