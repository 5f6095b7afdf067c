// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"math"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// Halftone mode values for the "mode" parameter.
const (
	HalftoneModeDots  = 0.0
	HalftoneModeRings = 1.0
	HalftoneModeGooey = 2.0
)

// halftoneAA is the anti-aliasing edge width of dot boundaries, in pixels.
const halftoneAA = 1.0

// sqrt2 scales the maximum dot radius so a fully dark cell is covered to
// its corners.
const sqrt2 = 1.41421356

// Halftone reproduces continuous tone as a rotated dot screen. The image is
// quantized into cells of dotSize pixels along a grid rotated by angle; each
// cell samples the source at its center and the sampled luminance drives the
// dot radius (darker means larger). Dot edges are anti-aliased with a one
// pixel smoothstep.
//
// Parameters: dotSize in [2, 40] pixels, angle in [0, 180] degrees, color
// (bool; false paints black dots on white, true tints dots by the sampled
// color), mode (dots, rings, or gooey), ringThickness in pixels for the
// rings mode. The screen rotation is uploaded as a host-computed cos/sin
// pair; mode switching is a uniform write selecting between the three
// coverage variants evaluated in the same graph.
func Halftone() *Definition {
	defaults := func() Params {
		return Params{
			"dotSize":       8.0,
			"angle":         45.0,
			"color":         false,
			"mode":          HalftoneModeDots,
			"ringThickness": 1.5,
		}
	}
	return &Definition{
		name:     "Halftone",
		defaults: defaults,
		build: func(src *relight.Pixmap, invResX, invResY float64) (*Instance, error) {
			g := graph.New(src)
			invRes := invResUniform(g, invResX, invResY)
			dotSize := g.Uniform("dotSize", 8)
			rot := g.Uniform("rotation", 1, 0) // (cos angle, sin angle)
			colorFlag := g.Uniform("color", 0)
			mode := g.Uniform("mode", 0)
			ringThickness := g.Uniform("ringThickness", 1.5)
			uv := g.UV()

			// Work in rotated pixel space.
			p := graph.Div(uv, invRes)
			c, s := rot.X(), rot.Y()
			pr := graph.Vec(
				graph.Sub(graph.Mul(p.X(), c), graph.Mul(p.Y(), s)),
				graph.Add(graph.Mul(p.X(), s), graph.Mul(p.Y(), c)),
			)
			cell := graph.Floor(graph.Div(pr, dotSize))
			centerPr := graph.Mul(graph.Add(cell, g.Const(0.5)), dotSize)

			// Back-rotate the cell center into image space for sampling.
			cc := graph.Vec(
				graph.Add(graph.Mul(centerPr.X(), c), graph.Mul(centerPr.Y(), s)),
				graph.Sub(graph.Mul(centerPr.Y(), c), graph.Mul(centerPr.X(), s)),
			)
			sampled := g.Sample(graph.Mul(cc, invRes))
			luma := graph.Luma(sampled.RGB())

			rMax := graph.Mul(dotSize, g.Const(0.5*sqrt2))
			radius := graph.Mul(graph.Sub(g.Const(1), luma), rMax)
			d := graph.Length(graph.Sub(pr, centerPr))
			aa := g.Const(halftoneAA)
			one := g.Const(1)

			covDots := graph.Sub(one,
				graph.Smoothstep(graph.Sub(radius, aa), graph.Add(radius, aa), d))
			covRings := graph.Sub(one,
				graph.Smoothstep(ringThickness, graph.Add(ringThickness, aa),
					graph.Abs(graph.Sub(d, radius))))
			covGooey := graph.Sub(one,
				graph.Smoothstep(graph.Mul(radius, g.Const(0.5)),
					graph.Mul(radius, g.Const(1.5)), d))

			cov := graph.Add(
				graph.Add(
					graph.Mul(covDots, modeMask(g, mode, HalftoneModeDots)),
					graph.Mul(covRings, modeMask(g, mode, HalftoneModeRings)),
				),
				graph.Mul(covGooey, modeMask(g, mode, HalftoneModeGooey)),
			)

			ink := graph.Mul(sampled.RGB(), colorFlag) // black unless color mode
			white := g.Const(1, 1, 1)
			rgb := graph.Mix(white, ink, cov)
			g.SetResult(opaque(g, rgb))

			return newInstance(g, defaults(), func(g *graph.Graph, p Params) error {
				if err := setFloats(g, p, "dotSize", "mode", "ringThickness"); err != nil {
					return err
				}
				angle, _ := p.Float("angle")
				rad := angle * math.Pi / 180
				if err := g.SetUniform("rotation",
					float32(math.Cos(rad)), float32(math.Sin(rad))); err != nil {
					return err
				}
				colored, _ := p.Bool("color")
				return g.SetUniform("color", boolUniform(colored))
			}), nil
		},
	}
}

// modeMask returns 1 where the mode uniform equals k and 0 elsewhere.
func modeMask(g *graph.Graph, mode *graph.Node, k float64) *graph.Node {
	diff := graph.Abs(graph.Sub(mode, g.Const(float32(k))))
	return graph.Sub(g.Const(1), graph.Step(g.Const(0.5), diff))
}
