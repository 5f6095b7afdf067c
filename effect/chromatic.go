// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// ChromaticAberration splits the color channels radially around a center
// point: red samples outward, green stays, blue samples inward. A radial
// vignette fades the result toward the frame edge.
//
// Parameters: intensity in [0, 0.1], centerX and centerY in [0, 1].
func ChromaticAberration() *Definition {
	defaults := func() Params {
		return Params{"intensity": 0.02, "centerX": 0.5, "centerY": 0.5}
	}
	return &Definition{
		name:     "Chromatic Aberration",
		defaults: defaults,
		build: func(src *relight.Pixmap, _, _ float64) (*Instance, error) {
			g := graph.New(src)
			intensity := g.Uniform("intensity", 0.02)
			center := g.Uniform("center", 0.5, 0.5)
			uv := g.UV()

			dir := graph.Sub(uv, center)
			shift := graph.Mul(dir, intensity)
			r := g.Sample(graph.Add(uv, shift)).X()
			gr := g.Sample(uv).Y()
			b := g.Sample(graph.Sub(uv, shift)).Z()

			// Vignette: full strength within 0.3 of the center, fading out
			// to zero at 0.9. smoothstep with descending edges is undefined
			// in WGSL, so the complement form is used.
			dist := graph.Length(dir)
			vignette := graph.Sub(g.Const(1),
				graph.Smoothstep(g.Const(0.3), g.Const(0.9), dist))

			rgb := graph.Mul(graph.Vec(r, gr, b), vignette)
			g.SetResult(opaque(g, rgb))

			return newInstance(g, defaults(), func(g *graph.Graph, p Params) error {
				if err := setFloats(g, p, "intensity"); err != nil {
					return err
				}
				cx, _ := p.Float("centerX")
				cy, _ := p.Float("centerY")
				return g.SetUniform("center", float32(cx), float32(cy))
			}), nil
		},
	}
}
