package unwrap

import (
	"math"

	"github.com/abworrall/phasepose/pkg/emath"
)

// A scanVisitor sees each sample right after scanLine has corrected it:
// its index, its raw value, the wrap count applied to it, and the wrap
// count before this step.
type scanVisitor func(i int, raw float64, count, prev int)

// scanLine walks s from start in steps of dir (+1 or -1) until it runs off
// the end. Each raw sample is compared with the raw sample before it
// (prevRaw for the first one) to update a running wrap count, starting at
// seed, and is then replaced by raw + count*2π. It returns the final wrap
// count.
func scanLine(s emath.Strip, start, dir int, prevRaw float64, seed int, visit scanVisitor) int {
	count := seed
	for i := start; i >= 0 && i < s.Len(); i += dir {
		raw := s.At(i)
		prev := count
		count += wrapStep(raw - prevRaw)
		s.Set(i, raw+float64(count)*emath.TwoPi)
		if visit != nil {
			visit(i, raw, count, prev)
		}
		prevRaw = raw
	}
	return count
}

// wrapStep says how the wrap count moves for a raw difference d between
// neighbours. A difference of exactly -π counts as a wrap, +π does not.
func wrapStep(d float64) int {
	switch {
	case d > math.Pi:
		return -1
	case d <= -math.Pi:
		return 1
	}
	return 0
}
