// Package pose holds the camera pose recovered from a periodic pattern,
// and the reconstruction of that pose from a pair of orthogonal phase
// planes.
//
// A Pose places the camera in the pattern frame: (X,Y,Z) is where the
// camera reference point sits in pattern units, and Alpha/Beta/Gamma
// rotate camera axes into pattern axes (about z, y and x). A 2D pose only
// uses X, Y, Alpha and PixelSize.
package pose

import (
	"fmt"
)

type Pose struct {
	X, Y, Z            float64
	Alpha, Beta, Gamma float64 // radians
	PixelSize          float64 // pattern units per image pixel; 2D only
	Is3D               bool
}

func New2D(x, y, alpha, pixelSize float64) Pose {
	return Pose{X: x, Y: y, Alpha: alpha, PixelSize: pixelSize}
}

func New3D(x, y, z, alpha, beta, gamma float64) Pose {
	return Pose{X: x, Y: y, Z: z, Alpha: alpha, Beta: beta, Gamma: gamma, Is3D: true}
}

func (p Pose) String() string {
	if p.Is3D {
		return fmt.Sprintf("[ x=%g; y=%g; z=%g; alpha=%g; beta=%g; gamma=%g ]",
			p.X, p.Y, p.Z, p.Alpha, p.Beta, p.Gamma)
	}
	return fmt.Sprintf("[ x=%g; y=%g; alpha=%g; pixelSize=%g ]", p.X, p.Y, p.Alpha, p.PixelSize)
}

// Translate moves the pose by (dx,dy) in pattern units.
func (p Pose) Translate(dx, dy float64) Pose {
	p.X += dx
	p.Y += dy
	return p
}

// Flip is the pose seen from the back of the pattern: the pattern frame
// turned by 180deg about its own x axis.
func (p Pose) Flip() Pose { return p.reframe(flipX) }

// Rotate90 is the pose in a pattern frame turned a quarter turn
// anticlockwise about its z axis.
func (p Pose) Rotate90() Pose { return p.reframe(quarterZ) }

func (p Pose) Rotate180() Pose { return p.reframe(halfZ) }
