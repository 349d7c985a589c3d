package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/abworrall/phasepose/pkg/emath"
)

func absC(c complex128) float64 { return cmplx.Abs(c) }

// PhaseMap demodulates one peak: the spectrum is multiplied by a Gaussian
// of width sigma bins centered on the peak, transformed back, and the
// argument of the result is returned as a wrapped phase map in (-π, π].
// The modulus comes back too, normalised to a max of 1, as a confidence
// map for the plane fit.
func (s *Spectrum) PhaseMap(p Peak, sigma float64) (phase, amplitude emath.FloatGrid) {
	return s.PhaseMapAt(float64(p.U), float64(p.V), sigma)
}

// PhaseMapAt is PhaseMap with the filter centered on a fractional bin,
// e.g. a frequency refined by a first plane fit. Centering off the true
// frequency tilts the recovered phase, so this matters.
func (s *Spectrum) PhaseMapAt(u0, v0, sigma float64) (phase, amplitude emath.FloatGrid) {
	if sigma <= 0 {
		sigma = 1
	}

	filtered := make([]complex128, len(s.Coeff))
	for i, c := range s.Coeff {
		u, v := s.signed(i)
		du, dv := float64(u)-u0, float64(v)-v0
		g := math.Exp(-(du*du + dv*dv) / (2 * sigma * sigma))
		if g < 1e-12 {
			continue
		}
		filtered[i] = c * complex(g, 0)
	}
	s.fft2(filtered, false)

	phase = emath.NewFloatGrid(s.W, s.H)
	amplitude = emath.NewFloatGrid(s.W, s.H)
	maxAmp := 0.0
	for i, c := range filtered {
		x, y := i%s.W, i/s.W
		phi := cmplx.Phase(c)
		if phi <= -math.Pi {
			phi = math.Pi
		}
		phase.Set(x, y, phi)

		a := cmplx.Abs(c)
		amplitude.Set(x, y, a)
		if a > maxAmp {
			maxAmp = a
		}
	}
	if maxAmp > 0 {
		for i, v := range amplitude.Values() {
			amplitude.Values()[i] = v / maxAmp
		}
	}

	return phase, amplitude
}
