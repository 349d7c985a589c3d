// Package phaseplane models the phase of one spectral component of a
// periodic pattern across an image patch as a plane,
//
//	phi(x,y) = A*x + B*y + C
//
// The gradient (A,B) is the local spatial frequency, in radians per pixel;
// its direction is the orientation of the pattern's period axis and its
// magnitude sets the period in pixels. C places the pattern along that
// axis, to within one period.
//
// Nothing here is validated. A plane with A=B=0 (no spatial frequency
// found) gives NaN or Inf from the period and position queries; check
// Valid() first if that can happen.
package phaseplane

import (
	"fmt"
	"math"

	"github.com/abworrall/phasepose/pkg/emath"
)

type Plane struct {
	A float64 // d(phi)/dx, radians per pixel
	B float64 // d(phi)/dy, radians per pixel
	C float64 // phi at the reference origin
}

func New(a, b, c float64) Plane { return Plane{A: a, B: b, C: c} }

func NewFromVector(v [3]float64) Plane { return Plane{A: v[0], B: v[1], C: v[2]} }

func (p Plane) Vector() [3]float64 { return [3]float64{p.A, p.B, p.C} }

func (p Plane) String() string {
	return fmt.Sprintf("Plane[a=%.6f, b=%.6f, c=%.6f]", p.A, p.B, p.C)
}

// Valid is false when there is no gradient, i.e. no usable spatial frequency.
func (p Plane) Valid() bool {
	return p.A*p.A+p.B*p.B > 0
}

func (p Plane) gradientNorm() float64 { return math.Sqrt(p.A*p.A + p.B*p.B) }

// Phase is the (unwrapped) phase at pixel (x,y), relative to the origin
// the plane was fitted against. Note the row-first argument order.
func (p Plane) Phase(y, x float64) float64 {
	return p.A*x + p.B*y + p.C
}

// Angle is the direction of the phase gradient, in radians from the
// image x axis.
func (p Plane) Angle() float64 {
	return math.Atan2(p.B, p.A)
}

// PixelicPeriod is the pattern period along the gradient, in pixels.
func (p Plane) PixelicPeriod() float64 {
	return emath.TwoPi / p.gradientNorm()
}

// Position converts the phase at (x,y) into a displacement along the
// plane's axis. With a known physicalPeriod the result is in the same
// physical units; with physicalPeriod <= 0 it falls back to pixels.
// periodShift picks which of the repeated solutions, one period apart,
// is the real one.
func (p Plane) Position(physicalPeriod, y, x float64, periodShift int) float64 {
	turns := p.Phase(y, x)/emath.TwoPi + float64(periodShift)
	if physicalPeriod > 0 {
		return physicalPeriod * turns
	}
	return p.PixelicPeriod() * turns
}

// PositionPixels is the pixel variant without a physical period. The shift
// is added to the raw phase, not scaled by 2π.
func (p Plane) PositionPixels(y, x float64, periodShift int) float64 {
	return (1 / p.gradientNorm()) * (p.Phase(y, x) + float64(periodShift))
}

// Flip is the same phase surface seen from the other side: every
// coefficient changes sign.
func (p Plane) Flip() Plane {
	return Plane{A: -p.A, B: -p.B, C: -p.C}
}

// TurnClockwise90 re-expresses the plane in a frame turned 90deg clockwise.
func (p Plane) TurnClockwise90() Plane {
	return Plane{A: -p.B, B: p.A, C: p.C}
}

// TurnAntiClockwise90 re-expresses the plane in a frame turned 90deg
// anticlockwise.
func (p Plane) TurnAntiClockwise90() Plane {
	return Plane{A: p.B, B: -p.A, C: p.C}
}

// Turn180 negates the gradient and keeps the offset; unlike Flip.
func (p Plane) Turn180() Plane {
	return Plane{A: -p.A, B: -p.B, C: p.C}
}

// TurnQuarters applies n quarter turns, clockwise for positive n.
func (p Plane) TurnQuarters(n int) Plane {
	n %= 4
	if n < 0 {
		n += 4
	}
	switch n {
	case 1:
		return p.TurnClockwise90()
	case 2:
		return p.Turn180()
	case 3:
		return p.TurnAntiClockwise90()
	}
	return p
}
