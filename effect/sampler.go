// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import "github.com/gogpu/relight/graph"

// lumaAt is the shared kernel sampler: it samples the source image at
// uv + offset and reduces the RGB sample to BT.601 luminance. Every
// convolution-based effect goes through this helper so their Sobel taps are
// bit-for-bit identical.
func lumaAt(g *graph.Graph, uv, offset *graph.Node) *graph.Node {
	return graph.Luma(g.Sample(graph.Add(uv, offset)).RGB())
}

// sobelGradient builds the shared 8-tap Sobel stencil over the luminance
// field. invRes is the (1/width, 1/height) texel-size uniform. The center
// tap is excluded; it has zero weight in both kernels.
//
//	Gx = [-1 0 1; -2 0 2; -1 0 1]   Gy = [-1 -2 -1; 0 0 0; 1 2 1]
//
// Rows run top to bottom in a y-down coordinate system, so Gy is positive
// toward the bottom of the image.
func sobelGradient(g *graph.Graph, uv, invRes *graph.Node) (gx, gy *graph.Node) {
	ix := invRes.X()
	iy := invRes.Y()
	nx := graph.Neg(ix)
	ny := graph.Neg(iy)
	zero := g.Const(0)
	two := g.Const(2)

	tl := lumaAt(g, uv, graph.Vec(nx, ny))
	l := lumaAt(g, uv, graph.Vec(nx, zero))
	bl := lumaAt(g, uv, graph.Vec(nx, iy))
	t := lumaAt(g, uv, graph.Vec(zero, ny))
	b := lumaAt(g, uv, graph.Vec(zero, iy))
	tr := lumaAt(g, uv, graph.Vec(ix, ny))
	r := lumaAt(g, uv, graph.Vec(ix, zero))
	br := lumaAt(g, uv, graph.Vec(ix, iy))

	gx = graph.Sub(
		graph.Add(graph.Add(tr, graph.Mul(two, r)), br),
		graph.Add(graph.Add(tl, graph.Mul(two, l)), bl),
	)
	gy = graph.Sub(
		graph.Add(graph.Add(bl, graph.Mul(two, b)), br),
		graph.Add(graph.Add(tl, graph.Mul(two, t)), tr),
	)
	return gx, gy
}

// invResUniform registers the reserved texel-size uniform.
func invResUniform(g *graph.Graph, invResX, invResY float64) *graph.Node {
	return g.Uniform(uniformInvRes, float32(invResX), float32(invResY))
}

// opaque wraps an RGB node into the final RGBA result with alpha 1, clamping
// the color to [0,1] first. All effects compose their output through this.
func opaque(g *graph.Graph, rgb *graph.Node) *graph.Node {
	return graph.Vec(graph.Clamp01(rgb), g.Const(1))
}

// grayToRGB replicates a scalar into an RGB vector.
func grayToRGB(v *graph.Node) *graph.Node {
	return graph.Vec(v, v, v)
}
