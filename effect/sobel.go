// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// Sobel renders the thresholded edge magnitude of the luminance gradient:
// mag = clamp(sqrt(Gx^2 + Gy^2), 0, 1); out = step(threshold, mag) * mag.
// The invert parameter flips black and white via a linear mix, so toggling
// it is a uniform write, not a rebuild.
//
// Parameters: threshold in [0, 1], invert (bool).
func Sobel() *Definition {
	defaults := func() Params {
		return Params{"threshold": 0.1, "invert": false}
	}
	return &Definition{
		name:     "Sobel Edge",
		defaults: defaults,
		build: func(src *relight.Pixmap, invResX, invResY float64) (*Instance, error) {
			g := graph.New(src)
			invRes := invResUniform(g, invResX, invResY)
			threshold := g.Uniform("threshold", 0.1)
			invert := g.Uniform("invert", 0)
			uv := g.UV()

			gx, gy := sobelGradient(g, uv, invRes)
			mag := graph.Clamp01(graph.Length(graph.Vec(gx, gy)))
			edge := graph.Mul(graph.Step(threshold, mag), mag)
			one := g.Const(1)
			v := graph.Mix(edge, graph.Sub(one, edge), invert)
			g.SetResult(opaque(g, grayToRGB(v)))

			return newInstance(g, defaults(), func(g *graph.Graph, p Params) error {
				if err := setFloats(g, p, "threshold"); err != nil {
					return err
				}
				inv, _ := p.Bool("invert")
				return g.SetUniform("invert", boolUniform(inv))
			}), nil
		},
	}
}
