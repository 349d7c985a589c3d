package phaseplane

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/phasepose/pkg/emath"
)

var ErrDegenerateFit = errors.New("degenerate plane fit")

// Fit does a weighted least squares fit of a plane to an unwrapped phase
// grid. Pixel coordinates are taken relative to the grid center
// (Dx()/2, Dy()/2), so the fitted C is the phase at the center. A nil
// weights grid weighs every sample equally.
func Fit(phase, weights *emath.FloatGrid) (Plane, error) {
	if phase == nil || phase.IsEmpty() {
		return Plane{}, fmt.Errorf("plane fit: %w: no samples", ErrDegenerateFit)
	}
	if weights != nil && (weights.Dx() != phase.Dx() || weights.Dy() != phase.Dy()) {
		return Plane{}, fmt.Errorf("plane fit: weights are %dx%d, phase is %dx%d",
			weights.Dx(), weights.Dy(), phase.Dx(), phase.Dy())
	}

	cx, cy := phase.Center()

	// Accumulate the normal equations, N.v = r
	var sxx, sxy, sx, syy, sy, sw, rx, ry, r float64
	for y := 0; y < phase.Dy(); y++ {
		for x := 0; x < phase.Dx(); x++ {
			w := 1.0
			if weights != nil {
				w = weights.Get(x, y)
			}
			if w <= 0 {
				continue
			}
			fx, fy, phi := float64(x-cx), float64(y-cy), phase.Get(x, y)
			sxx += w * fx * fx
			sxy += w * fx * fy
			sx += w * fx
			syy += w * fy * fy
			sy += w * fy
			sw += w
			rx += w * fx * phi
			ry += w * fy * phi
			r += w * phi
		}
	}

	n := mat.NewSymDense(3, []float64{
		sxx, sxy, sx,
		sxy, syy, sy,
		sx, sy, sw,
	})
	rhs := mat.NewVecDense(3, []float64{rx, ry, r})

	var chol mat.Cholesky
	if ok := chol.Factorize(n); !ok {
		return Plane{}, fmt.Errorf("plane fit over %dx%d: %w: normal equations not positive definite",
			phase.Dx(), phase.Dy(), ErrDegenerateFit)
	}

	var v mat.VecDense
	if err := chol.SolveVecTo(&v, rhs); err != nil {
		return Plane{}, fmt.Errorf("plane fit over %dx%d: %w: %v", phase.Dx(), phase.Dy(), ErrDegenerateFit, err)
	}

	return New(v.AtVec(0), v.AtVec(1), v.AtVec(2)), nil
}

// FitResidual is the weighted RMS difference, in radians, between the
// grid and the plane, using the same centered coordinates as Fit.
func FitResidual(phase, weights *emath.FloatGrid, p Plane) float64 {
	cx, cy := phase.Center()
	sum, sw := 0.0, 0.0
	for y := 0; y < phase.Dy(); y++ {
		for x := 0; x < phase.Dx(); x++ {
			w := 1.0
			if weights != nil {
				w = weights.Get(x, y)
			}
			if w <= 0 {
				continue
			}
			d := phase.Get(x, y) - p.Phase(float64(y-cy), float64(x-cx))
			sum += w * d * d
			sw += w
		}
	}
	if sw == 0 {
		return math.NaN()
	}
	return math.Sqrt(sum / sw)
}
