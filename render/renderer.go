// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
	"github.com/gogpu/relight/scene"
)

// Frame is one deterministic render request: a source image on the relief
// plane, the light and material shading it, and optionally the compiled
// effect graph replacing the raw source colors.
type Frame struct {
	// Source is the inspected image. Its luminance doubles as the height
	// field driving the relief shading.
	Source *relight.Pixmap

	// Effect is the active effect's compiled graph, or nil to render the
	// unmodified source.
	Effect *graph.Graph

	Light    scene.Light
	Material scene.Material
}

// Renderer produces frames of the relit scene.
//
// Renderers are stateless between Render calls; the same renderer can be
// used with different targets and frames. Renderers are NOT safe for
// concurrent use.
type Renderer interface {
	// Render draws one frame into the high-precision target. The target
	// dimensions define the output resolution; the source image is sampled
	// to fit. The frame is not modified and can be rendered again.
	Render(dst *FloatTarget, f Frame) error
}
