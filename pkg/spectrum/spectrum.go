// Package spectrum does the Fourier side of the pipeline: it transforms a
// grayscale snapshot of a periodic pattern, finds the two spectral peaks
// of the pattern's period axes, and demodulates each one into a wrapped
// phase map.
package spectrum

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/abworrall/phasepose/pkg/emath"
)

// A Spectrum is the 2D DFT of a real grid. Coefficients are row-major and
// unshifted, so DC is at [0]. A Spectrum holds FFT work buffers, so it is
// not safe for concurrent use.
type Spectrum struct {
	W, H  int
	Coeff []complex128

	rowFFT *fourier.CmplxFFT
	colFFT *fourier.CmplxFFT
}

// New transforms g. g is not modified.
func New(g *emath.FloatGrid) *Spectrum {
	s := &Spectrum{
		W:      g.Dx(),
		H:      g.Dy(),
		Coeff:  make([]complex128, g.Dx()*g.Dy()),
		rowFFT: fourier.NewCmplxFFT(g.Dx()),
		colFFT: fourier.NewCmplxFFT(g.Dy()),
	}
	for i, v := range g.Values() {
		s.Coeff[i] = complex(v, 0)
	}
	s.fft2(s.Coeff, true)
	return s
}

// fft2 runs the 2D transform in place: rows, then columns.
func (s *Spectrum) fft2(a []complex128, forward bool) {
	tmp := make([]complex128, s.W)
	for y := 0; y < s.H; y++ {
		copy(tmp, a[y*s.W:(y+1)*s.W])
		if forward {
			s.rowFFT.Coefficients(tmp, tmp)
		} else {
			s.rowFFT.Sequence(tmp, tmp)
		}
		copy(a[y*s.W:(y+1)*s.W], tmp)
	}

	col := make([]complex128, s.H)
	for x := 0; x < s.W; x++ {
		for y := 0; y < s.H; y++ {
			col[y] = a[y*s.W+x]
		}
		if forward {
			s.colFFT.Coefficients(col, col)
		} else {
			s.colFFT.Sequence(col, col)
		}
		for y := 0; y < s.H; y++ {
			a[y*s.W+x] = col[y]
		}
	}
}

// index maps signed frequency bins onto the coefficient slice.
func (s *Spectrum) index(u, v int) int {
	u = ((u % s.W) + s.W) % s.W
	v = ((v % s.H) + s.H) % s.H
	return v*s.W + u
}

// signed maps a coefficient slice index back to signed frequency bins.
func (s *Spectrum) signed(i int) (int, int) {
	u, v := i%s.W, i/s.W
	if 2*u >= s.W {
		u -= s.W
	}
	if 2*v >= s.H {
		v -= s.H
	}
	return u, v
}

func (s *Spectrum) At(u, v int) complex128     { return s.Coeff[s.index(u, v)] }
func (s *Spectrum) Magnitude(u, v int) float64 { return cmplx.Abs(s.At(u, v)) }

// MagnitudeGrid returns log(1+|F|) with DC in the middle, for looking at.
func (s *Spectrum) MagnitudeGrid() emath.FloatGrid {
	g := emath.NewFloatGrid(s.W, s.H)
	for i, c := range s.Coeff {
		u, v := s.signed(i)
		g.Set(u+s.W/2, v+s.H/2, math.Log1p(cmplx.Abs(c)))
	}
	return g
}

// RemoveMean subtracts the mean so DC doesn't swamp the peak search.
func RemoveMean(g *emath.FloatGrid) {
	g.AddScalar(-g.Mean())
}

// HannWindow applies a separable raised cosine window in place, to cut
// the leakage from the snapshot edges.
func HannWindow(g *emath.FloatGrid) {
	w, h := g.Dx(), g.Dy()
	hann := func(i, n int) float64 {
		if n < 2 {
			return 1
		}
		return 0.5 - 0.5*math.Cos(emath.TwoPi*float64(i)/float64(n-1))
	}
	for y := 0; y < h; y++ {
		wy := hann(y, h)
		for x := 0; x < w; x++ {
			g.Set(x, y, g.Get(x, y)*wy*hann(x, w))
		}
	}
}
