// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "math"

// Camera is a perspective camera. Project is the only operation the capture
// path needs; there is no full projection matrix because nothing here
// rasterizes 3D geometry.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	// FOV is the vertical field of view in degrees.
	FOV float64

	// Aspect is width/height of the output surface.
	Aspect float64

	// Near is the minimum eye-space depth considered in front of the camera.
	Near float64
}

// DefaultCamera looks at the origin from two units along +Z.
func DefaultCamera() Camera {
	return Camera{
		Position: Vec3{0, 0, 2},
		Target:   Vec3{0, 0, 0},
		Up:       Vec3{0, 1, 0},
		FOV:      45,
		Aspect:   1,
		Near:     0.01,
	}
}

// Project maps a world point to normalized device coordinates in [-1, 1].
// ok is false when the point lies at or behind the near plane; callers must
// not use the coordinates in that case.
func (c Camera) Project(p Vec3) (ndcX, ndcY float64, ok bool) {
	forward := c.Target.Sub(c.Position).Normalize()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward)

	v := p.Sub(c.Position)
	z := v.Dot(forward)
	if z <= c.Near {
		return 0, 0, false
	}

	f := 1 / math.Tan(c.FOV*math.Pi/360)
	aspect := c.Aspect
	if aspect == 0 {
		aspect = 1
	}
	ndcX = f * v.Dot(right) / (z * aspect)
	ndcY = f * v.Dot(up) / z
	return ndcX, ndcY, true
}
