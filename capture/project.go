// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"image"
	"math"

	"github.com/gogpu/relight/scene"
)

// ProjectBounds computes the enclosing pixel rectangle of a world-space box
// on a width x height surface: the eight corners are projected to normalized
// device coordinates, mapped to pixels (top-left origin), and the enclosing
// axis-aligned rectangle is clamped to the surface.
//
// A degenerate subject — every corner behind the near plane, or the
// projection entirely off-surface — yields the full frame instead of an
// empty rectangle.
func ProjectBounds(cam scene.Camera, box scene.Box, width, height int) image.Rectangle {
	full := image.Rect(0, 0, width, height)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range box.Corners() {
		ndcX, ndcY, ok := cam.Project(corner)
		if !ok {
			continue
		}
		px := (ndcX + 1) / 2 * float64(width)
		py := (1 - ndcY) / 2 * float64(height)
		minX = math.Min(minX, px)
		minY = math.Min(minY, py)
		maxX = math.Max(maxX, px)
		maxY = math.Max(maxY, py)
	}
	if minX > maxX {
		return full
	}

	r := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(full)
	if r.Empty() {
		return full
	}
	return r
}
