package spectrum

import (
	"fmt"
	"math"

	"github.com/abworrall/phasepose/pkg/emath"
)

// A Peak is a spectral maximum, at signed frequency bins (U,V).
type Peak struct {
	U, V      int
	Magnitude float64

	w, h int
}

// Frequency is the peak's spatial frequency in cycles per pixel.
func (p Peak) Frequency() (float64, float64) {
	return float64(p.U) / float64(p.w), float64(p.V) / float64(p.h)
}

// Angle is the direction of the frequency vector in the image, radians.
func (p Peak) Angle() float64 {
	fx, fy := p.Frequency()
	return math.Atan2(fy, fx)
}

// Period is the pattern period along the peak direction, in pixels.
func (p Peak) Period() float64 {
	fx, fy := p.Frequency()
	return 1 / math.Hypot(fx, fy)
}

func (p Peak) String() string {
	return fmt.Sprintf("Peak[(%d,%d) |%.1f|, %.2fpx @ %.1fdeg]", p.U, p.V, p.Magnitude, p.Period(), emath.Rad2Deg(p.Angle()))
}

type PeakSearch struct {
	MinRadius           float64 // bins; ignore everything this close to DC
	MinPeakRatio        float64 // a peak must be this many times the mean magnitude
	OrthogonalityTolDeg float64 // how far off 90deg the second peak may be
}

// FindPeaks looks for the two period axes of the pattern. Real input has
// a symmetric spectrum, so only the half plane V>0 (plus V==0, U>0) is
// searched; the first peak is the strongest there, the second is the
// strongest that is roughly orthogonal to it. ok is false if either is
// missing or too weak, i.e. no pattern.
func (s *Spectrum) FindPeaks(ps PeakSearch) (first, second Peak, ok bool) {
	mean := 0.0
	for _, c := range s.Coeff[1:] {
		mean += absC(c)
	}
	if len(s.Coeff) > 1 {
		mean /= float64(len(s.Coeff) - 1)
	}

	candidates := []Peak{}
	for i, c := range s.Coeff {
		u, v := s.signed(i)
		if v < 0 || (v == 0 && u <= 0) {
			continue
		}
		if math.Hypot(float64(u), float64(v)) < ps.MinRadius {
			continue
		}
		candidates = append(candidates, Peak{U: u, V: v, Magnitude: absC(c), w: s.W, h: s.H})
	}

	first, ok = strongest(candidates, func(Peak) bool { return true })
	if !ok || first.Magnitude < ps.MinPeakRatio*mean {
		return Peak{}, Peak{}, false
	}

	tol := emath.Deg2Rad(ps.OrthogonalityTolDeg)
	second, ok = strongest(candidates, func(p Peak) bool {
		d := math.Abs(emath.NormalizeAngle(p.Angle() - first.Angle()))
		if d > math.Pi/2 {
			d = math.Pi - d
		}
		return math.Abs(math.Pi/2-d) <= tol
	})
	if !ok || second.Magnitude < ps.MinPeakRatio*mean {
		return Peak{}, Peak{}, false
	}

	return first, second, true
}

func strongest(peaks []Peak, accept func(Peak) bool) (Peak, bool) {
	best, found := Peak{}, false
	for _, p := range peaks {
		if accept(p) && (!found || p.Magnitude > best.Magnitude) {
			best, found = p, true
		}
	}
	return best, found && best.Magnitude > 0
}
