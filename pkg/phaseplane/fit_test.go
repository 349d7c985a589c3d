package phaseplane

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/phasepose/pkg/emath"
)

func planeGrid(p Plane, w, h int) emath.FloatGrid {
	g := emath.NewFloatGrid(w, h)
	cx, cy := g.Center()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, p.Phase(float64(y-cy), float64(x-cx)))
		}
	}
	return g
}

func TestFitExactPlane(t *testing.T) {
	truth := New(0.42, -0.17, 2.5)
	g := planeGrid(truth, 24, 18)

	p, err := Fit(&g, nil)
	require.NoError(t, err)
	assert.InDelta(t, truth.A, p.A, 1e-10)
	assert.InDelta(t, truth.B, p.B, 1e-10)
	assert.InDelta(t, truth.C, p.C, 1e-10)
	assert.InDelta(t, 0.0, FitResidual(&g, nil, p), 1e-9)
}

func TestFitWeightedIgnoresZeroWeights(t *testing.T) {
	truth := New(-0.3, 0.8, -1)
	g := planeGrid(truth, 16, 16)
	weights := g.NewFromThis()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x < 4 {
				g.Set(x, y, 1000) // garbage, but weightless
				continue
			}
			weights.Set(x, y, 1+float64(y))
		}
	}

	p, err := Fit(&g, &weights)
	require.NoError(t, err)
	assert.InDelta(t, truth.A, p.A, 1e-10)
	assert.InDelta(t, truth.B, p.B, 1e-10)
	assert.InDelta(t, truth.C, p.C, 1e-10)
}

func TestFitNoisyPlane(t *testing.T) {
	truth := New(0.25, 0.6, 0.1)
	g := planeGrid(truth, 64, 64)
	rng := rand.New(rand.NewSource(1))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			g.Set(x, y, g.Get(x, y)+rng.NormFloat64()*0.05)
		}
	}

	p, err := Fit(&g, nil)
	require.NoError(t, err)
	assert.InDelta(t, truth.A, p.A, 1e-3)
	assert.InDelta(t, truth.B, p.B, 1e-3)
	assert.InDelta(t, truth.C, p.C, 1e-2)
	assert.InDelta(t, 0.05, FitResidual(&g, nil, p), 0.01)
}

func TestFitDegenerate(t *testing.T) {
	row := emath.NewFloatGrid(10, 1)
	_, err := Fit(&row, nil)
	assert.ErrorIs(t, err, ErrDegenerateFit)

	_, err = Fit(nil, nil)
	assert.ErrorIs(t, err, ErrDegenerateFit)

	g := emath.NewFloatGrid(4, 4)
	w := emath.NewFloatGrid(3, 4)
	_, err = Fit(&g, &w)
	assert.Error(t, err)
}
