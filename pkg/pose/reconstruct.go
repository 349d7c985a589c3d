package pose

import (
	"errors"
	"math"

	"github.com/abworrall/phasepose/pkg/emath"
	"github.com/abworrall/phasepose/pkg/phaseplane"
)

// ErrPatternNotFound means there was no usable pair of phase planes, so
// there is no pose for this candidate.
var ErrPatternNotFound = errors.New("pattern not found")

type Reconstruction struct {
	PhysicalPeriod float64 // pattern units per period; <= 0 if not known
	PixelScale     float64 // pattern units per pixel; only used when PhysicalPeriod is not known

	PeriodShift1 int // which period instance along plane 1
	PeriodShift2 int // and along plane 2
}

// Reconstruct builds a 2D pose from two orthogonal phase planes, both
// fitted about the snapshot center. Plane 1 carries x and the rotation,
// plane 2 carries y; its gradient should point a quarter turn
// anticlockwise from plane 1's (see AlignSecondPlane).
func Reconstruct(p1, p2 phaseplane.Plane, opts Reconstruction) (Pose, error) {
	if !p1.Valid() || !p2.Valid() {
		return Pose{}, ErrPatternNotFound
	}

	// The planes map pattern to camera; the pose is the other way round,
	// hence the signs.
	x := -p1.Position(opts.PhysicalPeriod, 0, 0, opts.PeriodShift1)
	y := -p2.Position(opts.PhysicalPeriod, 0, 0, opts.PeriodShift2)
	alpha := p1.Angle()

	pixelSize := 1.0
	if opts.PhysicalPeriod > 0 {
		pixelSize = opts.PhysicalPeriod / p1.PixelicPeriod()
	} else if opts.PixelScale > 0 {
		pixelSize = opts.PixelScale
		x *= opts.PixelScale
		y *= opts.PixelScale
	}

	return New2D(x, y, alpha, pixelSize), nil
}

// AlignSecondPlane returns p2, or p2.Flip(), whichever has its gradient
// closer to a quarter turn anticlockwise from p1's. Spectral peaks come in
// ± pairs, so the sign of the second plane is otherwise arbitrary.
func AlignSecondPlane(p1, p2 phaseplane.Plane) phaseplane.Plane {
	want := p1.Angle() + math.Pi/2
	if math.Abs(emath.NormalizeAngle(p2.Angle()-want)) > math.Pi/2 {
		return p2.Flip()
	}
	return p2
}

// Orthogonality is how far, in radians, p2's gradient is from a quarter
// turn off p1's, ignoring direction.
func Orthogonality(p1, p2 phaseplane.Plane) float64 {
	d := math.Abs(emath.NormalizeAngle(p2.Angle() - p1.Angle()))
	if d > math.Pi/2 {
		d = math.Pi - d
	}
	return math.Abs(math.Pi/2 - d)
}

// CompensateSnapshotOffset moves a 2D pose that was measured at a
// snapshot center over to another image point, usually the image center.
// (dx,dy) is that point minus the snapshot center, in pixels. The move is
// done in the pattern frame using the pose's own rotation and pixel size.
func (p Pose) CompensateSnapshotOffset(dx, dy float64) Pose {
	m := emath.Identity().Scale(-p.PixelSize).RotateRad(-p.Alpha)
	tx, ty := m.Apply(dx, dy)
	return p.Translate(tx, ty)
}
