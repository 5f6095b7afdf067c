// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"math"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// Classic print screen angles, in degrees.
const (
	plateAngleC = 15.0
	plateAngleM = 75.0
	plateAngleY = 0.0
	plateAngleK = 45.0
)

// HalftoneCMYK simulates four-color process printing. The source is
// decomposed into cyan, magenta, yellow and black plates; each plate is a
// rotated dot screen at its traditional angle (C 15, M 75, Y 0, K 45
// degrees) and the plates composite subtractively onto white paper:
//
//	R = (1-c)*(1-k)  G = (1-m)*(1-k)  B = (1-y)*(1-k)
//
// Dot radius grows with the square root of ink coverage so perceived
// density scales linearly with dot area. The pixelSize parameter quantizes
// the sampling positions, giving the blocky look of low-resolution print.
//
// Parameters: pixelSize in [1, 20], dotSize in [2, 40], and per-plate ink
// strengths strengthC, strengthM, strengthY, strengthK, each in [0, 2].
func HalftoneCMYK() *Definition {
	defaults := func() Params {
		return Params{
			"pixelSize": 2.0,
			"dotSize":   6.0,
			"strengthC": 1.0,
			"strengthM": 1.0,
			"strengthY": 1.0,
			"strengthK": 1.0,
		}
	}
	return &Definition{
		name:     "Halftone CMYK",
		defaults: defaults,
		build: func(src *relight.Pixmap, invResX, invResY float64) (*Instance, error) {
			g := graph.New(src)
			invRes := invResUniform(g, invResX, invResY)
			pixelSize := g.Uniform("pixelSize", 2)
			dotSize := g.Uniform("dotSize", 6)
			strengths := g.Uniform("strengths", 1, 1, 1, 1)
			uv := g.UV()

			p := graph.Div(uv, invRes)
			rMax := graph.Mul(dotSize, g.Const(0.5*sqrt2))
			aa := g.Const(halftoneAA)
			one := g.Const(1)

			// plate screens a single ink: rotate into the plate grid, find
			// the cell center, quantize it to the pixelation grid, decompose
			// the sampled color into the plate's coverage and shade the dot.
			plate := func(angleDeg float64, ink func(rgb, k *graph.Node) *graph.Node, strength *graph.Node) *graph.Node {
				rad := angleDeg * math.Pi / 180
				c := g.Const(float32(math.Cos(rad)))
				s := g.Const(float32(math.Sin(rad)))
				pr := graph.Vec(
					graph.Sub(graph.Mul(p.X(), c), graph.Mul(p.Y(), s)),
					graph.Add(graph.Mul(p.X(), s), graph.Mul(p.Y(), c)),
				)
				cell := graph.Floor(graph.Div(pr, dotSize))
				centerPr := graph.Mul(graph.Add(cell, g.Const(0.5)), dotSize)
				cc := graph.Vec(
					graph.Add(graph.Mul(centerPr.X(), c), graph.Mul(centerPr.Y(), s)),
					graph.Sub(graph.Mul(centerPr.Y(), c), graph.Mul(centerPr.X(), s)),
				)
				ccq := graph.Mul(
					graph.Add(graph.Floor(graph.Div(cc, pixelSize)), g.Const(0.5)),
					pixelSize,
				)
				rgb := g.Sample(graph.Mul(ccq, invRes)).RGB()
				k := graph.Sub(one, graph.Max(graph.Max(rgb.X(), rgb.Y()), rgb.Z()))
				cov := graph.Clamp01(graph.Mul(ink(rgb, k), strength))
				radius := graph.Mul(graph.Sqrt(cov), rMax)
				d := graph.Length(graph.Sub(pr, centerPr))
				return graph.Sub(one,
					graph.Smoothstep(graph.Sub(radius, aa), graph.Add(radius, aa), d))
			}

			// CMY extraction guards against division by zero on pure black.
			chroma := func(channel func(rgb *graph.Node) *graph.Node) func(rgb, k *graph.Node) *graph.Node {
				return func(rgb, k *graph.Node) *graph.Node {
					denom := graph.Max(graph.Sub(one, k), g.Const(0.001))
					return graph.Div(graph.Sub(graph.Sub(one, channel(rgb)), k), denom)
				}
			}
			cPlate := plate(plateAngleC, chroma((*graph.Node).X), strengths.X())
			mPlate := plate(plateAngleM, chroma((*graph.Node).Y), strengths.Y())
			yPlate := plate(plateAngleY, chroma((*graph.Node).Z), strengths.Z())
			kPlate := plate(plateAngleK, func(_, k *graph.Node) *graph.Node { return k }, strengths.W())

			paper := graph.Sub(one, kPlate)
			rgb := graph.Vec(
				graph.Mul(graph.Sub(one, cPlate), paper),
				graph.Mul(graph.Sub(one, mPlate), paper),
				graph.Mul(graph.Sub(one, yPlate), paper),
			)
			g.SetResult(opaque(g, rgb))

			return newInstance(g, defaults(), func(g *graph.Graph, p Params) error {
				if err := setFloats(g, p, "pixelSize", "dotSize"); err != nil {
					return err
				}
				sc, _ := p.Float("strengthC")
				sm, _ := p.Float("strengthM")
				sy, _ := p.Float("strengthY")
				sk, _ := p.Float("strengthK")
				return g.SetUniform("strengths",
					float32(sc), float32(sm), float32(sy), float32(sk))
			}), nil
		},
	}
}
