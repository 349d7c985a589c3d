package pose

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Exact pattern frame changes, so quarter turns don't pick up rounding
// from cos(π/2).
var (
	flipX    = mat.NewDense(3, 3, []float64{1, 0, 0, 0, -1, 0, 0, 0, -1})
	quarterZ = mat.NewDense(3, 3, []float64{0, -1, 0, 1, 0, 0, 0, 0, 1})
	halfZ    = mat.NewDense(3, 3, []float64{-1, 0, 0, 0, -1, 0, 0, 0, 1})
)

// rotation returns Rz(alpha)·Ry(beta)·Rx(gamma).
func rotation(alpha, beta, gamma float64) *mat.Dense {
	ca, sa := math.Cos(alpha), math.Sin(alpha)
	cb, sb := math.Cos(beta), math.Sin(beta)
	cg, sg := math.Cos(gamma), math.Sin(gamma)

	rz := mat.NewDense(3, 3, []float64{ca, -sa, 0, sa, ca, 0, 0, 0, 1})
	ry := mat.NewDense(3, 3, []float64{cb, 0, sb, 0, 1, 0, -sb, 0, cb})
	rx := mat.NewDense(3, 3, []float64{1, 0, 0, 0, cg, -sg, 0, sg, cg})

	var r mat.Dense
	r.Mul(rz, ry)
	r.Mul(&r, rx)
	return &r
}

// eulerAngles inverts rotation(). At gimbal lock (beta = ±π/2) alpha is
// reported as 0 and the whole turn goes into gamma.
func eulerAngles(r mat.Matrix) (alpha, beta, gamma float64) {
	cb := math.Hypot(r.At(0, 0), r.At(1, 0))
	beta = math.Atan2(-r.At(2, 0), cb)
	if cb < 1e-12 {
		return 0, beta, math.Atan2(-r.At(1, 2), r.At(1, 1))
	}
	alpha = math.Atan2(r.At(1, 0), r.At(0, 0))
	gamma = math.Atan2(r.At(2, 1), r.At(2, 2))
	return alpha, beta, gamma
}

func (p Pose) rotation() *mat.Dense {
	if !p.Is3D {
		return rotation(p.Alpha, 0, 0)
	}
	return rotation(p.Alpha, p.Beta, p.Gamma)
}

func (p Pose) translation() *mat.VecDense {
	z := p.Z
	if !p.Is3D {
		z = 0
	}
	return mat.NewVecDense(3, []float64{p.X, p.Y, z})
}

// CameraToPatternTransformationMatrix is the homogeneous 4x4 matrix that
// maps camera coordinates into pattern coordinates.
func (p Pose) CameraToPatternTransformationMatrix() *mat.Dense {
	return homogeneous(p.rotation(), p.translation())
}

// PatternToCameraTransformationMatrix is the rigid inverse of
// CameraToPatternTransformationMatrix.
func (p Pose) PatternToCameraTransformationMatrix() *mat.Dense {
	rt := mat.DenseCopyOf(p.rotation().T())

	var t mat.VecDense
	t.MulVec(rt, p.translation())
	t.ScaleVec(-1, &t)

	return homogeneous(rt, &t)
}

func homogeneous(r *mat.Dense, t *mat.VecDense) *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, r.At(i, j))
		}
		m.Set(i, 3, t.AtVec(i))
	}
	m.Set(3, 3, 1)
	return m
}

// reframe expresses the pose in a new pattern frame, given the rotation q
// that takes old pattern coordinates to new ones.
func (p Pose) reframe(q *mat.Dense) Pose {
	var r mat.Dense
	r.Mul(q, p.rotation())

	var t mat.VecDense
	t.MulVec(q, p.translation())

	alpha, beta, gamma := eulerAngles(&r)
	if !p.Is3D {
		return New2D(t.AtVec(0), t.AtVec(1), alpha, p.PixelSize)
	}
	return New3D(t.AtVec(0), t.AtVec(1), t.AtVec(2), alpha, beta, gamma)
}
