// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// Grayscale converts the image to luminance with adjustable channel weights.
// Raw weights are normalized by their sum host-side (floored at 0.001 to
// avoid division by zero) before the dot product, so the effective
// coefficients always sum to one: all weights set to 1.0 behave as 1/3 each.
//
// Parameters: rWeight, gWeight, bWeight, each in [0, 1].
func Grayscale() *Definition {
	defaults := func() Params {
		return Params{
			"rWeight": relight.LumaR,
			"gWeight": relight.LumaG,
			"bWeight": relight.LumaB,
		}
	}
	return &Definition{
		name:     "Grayscale",
		defaults: defaults,
		build: func(src *relight.Pixmap, _, _ float64) (*Instance, error) {
			g := graph.New(src)
			weights := g.Uniform("weights", 0.299, 0.587, 0.114)
			uv := g.UV()

			rgb := g.Sample(uv).RGB()
			v := graph.Dot(rgb, weights)
			g.SetResult(opaque(g, grayToRGB(v)))

			return newInstance(g, defaults(), func(g *graph.Graph, p Params) error {
				r, _ := p.Float("rWeight")
				gw, _ := p.Float("gWeight")
				b, _ := p.Float("bWeight")
				sum := r + gw + b
				if sum < 0.001 {
					sum = 0.001
				}
				return g.SetUniform("weights",
					float32(r/sum), float32(gw/sum), float32(b/sum))
			}), nil
		},
	}
}
