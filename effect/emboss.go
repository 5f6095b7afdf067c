// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"math"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// Emboss renders directional relief: the luminance gradient projected onto
// the emboss direction, scaled and biased to mid-gray.
//
//	val = (Gx*cos(angle) + Gy*sin(angle)) * strength + 0.5
//
// Parameters: strength in [0, 5], angle in [0, 360] degrees. The cosine and
// sine of the angle are recomputed host-side on every parameter update and
// uploaded as a single vec2 uniform; the GPU never evaluates trigonometry.
func Emboss() *Definition {
	defaults := func() Params {
		return Params{"strength": 1.0, "angle": 45.0}
	}
	return &Definition{
		name:     "Emboss",
		defaults: defaults,
		build: func(src *relight.Pixmap, invResX, invResY float64) (*Instance, error) {
			g := graph.New(src)
			invRes := invResUniform(g, invResX, invResY)
			strength := g.Uniform("strength", 1)
			dir := g.Uniform("direction", 1, 0) // (cos angle, sin angle)
			uv := g.UV()

			gx, gy := sobelGradient(g, uv, invRes)
			proj := graph.Add(
				graph.Mul(gx, dir.X()),
				graph.Mul(gy, dir.Y()),
			)
			v := graph.Clamp01(graph.Add(graph.Mul(proj, strength), g.Const(0.5)))
			g.SetResult(opaque(g, grayToRGB(v)))

			return newInstance(g, defaults(), func(g *graph.Graph, p Params) error {
				if err := setFloats(g, p, "strength"); err != nil {
					return err
				}
				angle, _ := p.Float("angle")
				rad := angle * math.Pi / 180
				return g.SetUniform("direction",
					float32(math.Cos(rad)), float32(math.Sin(rad)))
			}), nil
		},
	}
}
