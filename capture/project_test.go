// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"image"
	"testing"

	"github.com/gogpu/relight/scene"
)

func centeredBox(half float64) scene.Box {
	return scene.Box{
		Min: scene.Vec3{X: -half, Y: -half, Z: -half},
		Max: scene.Vec3{X: half, Y: half, Z: half},
	}
}

func TestProjectBoundsCenteredSubject(t *testing.T) {
	cam := scene.DefaultCamera()
	r := ProjectBounds(cam, centeredBox(0.5), 100, 100)

	full := image.Rect(0, 0, 100, 100)
	if r == full {
		t.Fatal("centered subject projected to the full frame")
	}
	if !r.In(full) {
		t.Errorf("rect %v escapes the frame", r)
	}
	center := image.Pt(50, 50)
	if !center.In(r) {
		t.Errorf("rect %v does not contain the frame center", r)
	}
	// The default camera is on the axis, so the crop must be symmetric.
	if r.Min.X != 100-r.Max.X || r.Min.Y != 100-r.Max.Y {
		t.Errorf("rect %v not symmetric about the center", r)
	}
}

func TestProjectBoundsBehindCamera(t *testing.T) {
	cam := scene.DefaultCamera() // at z=2 looking toward the origin
	box := scene.Box{
		Min: scene.Vec3{X: -1, Y: -1, Z: 3},
		Max: scene.Vec3{X: 1, Y: 1, Z: 4},
	}
	r := ProjectBounds(cam, box, 64, 48)
	if r != image.Rect(0, 0, 64, 48) {
		t.Errorf("subject behind camera = %v, want full frame", r)
	}
}

func TestProjectBoundsOffFrustum(t *testing.T) {
	cam := scene.DefaultCamera()
	// In front of the camera but far off to the side.
	box := scene.Box{
		Min: scene.Vec3{X: 100, Y: 100, Z: 0},
		Max: scene.Vec3{X: 101, Y: 101, Z: 0.1},
	}
	r := ProjectBounds(cam, box, 64, 48)
	if r != image.Rect(0, 0, 64, 48) {
		t.Errorf("off-frustum subject = %v, want full frame", r)
	}
}

func TestProjectBoundsClampsPartialOverlap(t *testing.T) {
	cam := scene.DefaultCamera()
	// Wide box extending past the left edge of the frame.
	box := scene.Box{
		Min: scene.Vec3{X: -50, Y: -0.2, Z: -0.1},
		Max: scene.Vec3{X: 0, Y: 0.2, Z: 0.1},
	}
	r := ProjectBounds(cam, box, 100, 100)
	if r.Min.X != 0 {
		t.Errorf("left edge = %d, want clamped to 0", r.Min.X)
	}
	if r.Max.X > 51 || r.Max.X < 49 {
		t.Errorf("right edge = %d, want near the frame center", r.Max.X)
	}
}
