// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// NormalMap visualizes the surface normal estimated from the luminance
// gradient: n = normalize(-Gx*strength, -Gy*strength, 1), remapped from
// [-1,1] to [0,1] for display.
//
// Parameters: strength in [0, 10].
func NormalMap() *Definition {
	return &Definition{
		name: "Normal Map",
		defaults: func() Params {
			return Params{"strength": 2.5}
		},
		build: func(src *relight.Pixmap, invResX, invResY float64) (*Instance, error) {
			g := graph.New(src)
			invRes := invResUniform(g, invResX, invResY)
			strength := g.Uniform("strength", 2.5)
			uv := g.UV()

			gx, gy := sobelGradient(g, uv, invRes)
			n := graph.Normalize(graph.Vec(
				graph.Neg(graph.Mul(gx, strength)),
				graph.Neg(graph.Mul(gy, strength)),
				g.Const(1),
			))
			half := g.Const(0.5)
			rgb := graph.Add(graph.Mul(n, half), half)
			g.SetResult(opaque(g, rgb))

			return newInstance(g, Params{"strength": 2.5}, func(g *graph.Graph, p Params) error {
				return setFloats(g, p, "strength")
			}), nil
		},
	}
}
