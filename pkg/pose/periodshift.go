package pose

import (
	"math"

	"github.com/abworrall/phasepose/pkg/emath"
	"github.com/abworrall/phasepose/pkg/phaseplane"
)

// A PeriodShiftResolver picks the period index for a plane: phase alone
// only fixes position to within one period. The coarse estimate is in
// the plane's own position convention (i.e. what plane.Position should
// return), in the same units as the period.
type PeriodShiftResolver interface {
	PeriodShift(coarse float64, plane phaseplane.Plane, physicalPeriod float64) int
}

// FixedShift ignores the estimate; FixedShift(0) is the usual choice when
// the camera can't have moved by more than half a period.
type FixedShift int

func (f FixedShift) PeriodShift(float64, phaseplane.Plane, float64) int { return int(f) }

// NearestShift picks the shift that puts the position closest to the
// coarse estimate, e.g. from marker size or the previous frame.
type NearestShift struct{}

func (NearestShift) PeriodShift(coarse float64, plane phaseplane.Plane, physicalPeriod float64) int {
	period := physicalPeriod
	if period <= 0 {
		period = plane.PixelicPeriod()
	}
	return int(math.Round(coarse/period - plane.Phase(0, 0)/emath.TwoPi))
}

// ResolveShifts fills in the period shifts for a reconstruction from a
// coarse pose position (pose convention, so the signs flip).
func ResolveShifts(r PeriodShiftResolver, p1, p2 phaseplane.Plane, opts Reconstruction, coarseX, coarseY float64) Reconstruction {
	opts.PeriodShift1 = r.PeriodShift(-coarseX, p1, opts.PhysicalPeriod)
	opts.PeriodShift2 = r.PeriodShift(-coarseY, p2, opts.PhysicalPeriod)
	return opts
}
