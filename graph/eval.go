// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gogpu/relight"
)

// Eval evaluates the graph for the pixel (px, py) of a width x height output
// grid and returns the RGBA result. It is the reference semantics for the
// compiled WGSL kernel: all arithmetic is float32.
func (g *Graph) Eval(px, py, width, height int) [4]float32 {
	if g.result == nil {
		panic("graph: eval without result")
	}
	if len(g.evalDone) < len(g.nodes) {
		g.evalVals = make([][4]float32, len(g.nodes))
		g.evalDone = make([]bool, len(g.nodes))
	}
	for i := range g.evalDone {
		g.evalDone[i] = false
	}
	u := (float32(px) + 0.5) / float32(width)
	v := (float32(py) + 0.5) / float32(height)
	return g.evalNode(g.result, u, v)
}

// EvalUV evaluates the graph at an arbitrary texture coordinate.
func (g *Graph) EvalUV(u, v float32) [4]float32 {
	if g.result == nil {
		panic("graph: eval without result")
	}
	if len(g.evalDone) < len(g.nodes) {
		g.evalVals = make([][4]float32, len(g.nodes))
		g.evalDone = make([]bool, len(g.nodes))
	}
	for i := range g.evalDone {
		g.evalDone[i] = false
	}
	return g.evalNode(g.result, u, v)
}

// EvalImage evaluates the graph over a full width x height grid, writing one
// RGBA float32 quadruple per pixel into dst. When a kernel executor is
// registered the compiled kernel runs on the GPU; any executor failure falls
// back transparently to the CPU evaluator.
func (g *Graph) EvalImage(dst []float32, width, height int) error {
	if len(dst) < width*height*4 {
		return fmt.Errorf("graph: dst too small: %d < %d", len(dst), width*height*4)
	}
	if exec := relight.ActiveExecutor(); exec != nil && exec.Supported() {
		if c, err := g.Compile(); err == nil {
			uniforms := g.PackUniforms(width, height)
			tex := g.texture
			err = exec.Execute(c.Spec(), uniforms, tex.Data(), tex.Width(), tex.Height(), dst, width, height)
			if err == nil {
				return nil
			}
			if !errors.Is(err, relight.ErrFallbackToCPU) {
				relight.Logger().Warn("GPU kernel execution failed, using CPU",
					"executor", exec.Name(), "err", err)
			}
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := g.Eval(x, y, width, height)
			copy(dst[(y*width+x)*4:], px[:])
		}
	}
	return nil
}

func (g *Graph) evalNode(n *Node, u, v float32) [4]float32 {
	if g.evalDone[n.id] {
		return g.evalVals[n.id]
	}
	var out [4]float32
	switch n.op {
	case opConst:
		copy(out[:], n.consts)
	case opUV:
		out[0], out[1] = u, v
	case opUniform:
		copy(out[:], n.slot.values)
	case opSample:
		uv := g.evalNode(n.args[0], u, v)
		out = g.sampleBilinear(uv[0], uv[1])
	case opSwizzle:
		a := g.evalNode(n.args[0], u, v)
		for i, l := range n.lanes {
			out[i] = a[l]
		}
	case opVec:
		i := 0
		for _, arg := range n.args {
			a := g.evalNode(arg, u, v)
			for c := 0; c < arg.width; c++ {
				out[i] = a[c]
				i++
			}
		}
	case opNeg:
		a := g.evalNode(n.args[0], u, v)
		for i := 0; i < n.width; i++ {
			out[i] = -a[i]
		}
	case opAbs:
		a := g.evalNode(n.args[0], u, v)
		for i := 0; i < n.width; i++ {
			out[i] = math32.Abs(a[i])
		}
	case opFloor:
		a := g.evalNode(n.args[0], u, v)
		for i := 0; i < n.width; i++ {
			out[i] = math32.Floor(a[i])
		}
	case opFract:
		a := g.evalNode(n.args[0], u, v)
		for i := 0; i < n.width; i++ {
			out[i] = a[i] - math32.Floor(a[i])
		}
	case opSqrt:
		a := g.evalNode(n.args[0], u, v)
		for i := 0; i < n.width; i++ {
			out[i] = math32.Sqrt(a[i])
		}
	case opSin:
		a := g.evalNode(n.args[0], u, v)
		for i := 0; i < n.width; i++ {
			out[i] = math32.Sin(a[i])
		}
	case opCos:
		a := g.evalNode(n.args[0], u, v)
		for i := 0; i < n.width; i++ {
			out[i] = math32.Cos(a[i])
		}
	case opPow:
		a := splat(g.evalNode(n.args[0], u, v), n.args[0].width, n.width)
		b := splat(g.evalNode(n.args[1], u, v), n.args[1].width, n.width)
		for i := 0; i < n.width; i++ {
			out[i] = math32.Pow(a[i], b[i])
		}
	case opLuma:
		a := g.evalNode(n.args[0], u, v)
		out[0] = 0.299*a[0] + 0.587*a[1] + 0.114*a[2]
	case opDot:
		a := g.evalNode(n.args[0], u, v)
		b := g.evalNode(n.args[1], u, v)
		var sum float32
		for i := 0; i < n.args[0].width; i++ {
			sum += a[i] * b[i]
		}
		out[0] = sum
	case opLength:
		a := g.evalNode(n.args[0], u, v)
		var sum float32
		for i := 0; i < n.args[0].width; i++ {
			sum += a[i] * a[i]
		}
		out[0] = math32.Sqrt(sum)
	case opNormalize:
		a := g.evalNode(n.args[0], u, v)
		var sum float32
		for i := 0; i < n.width; i++ {
			sum += a[i] * a[i]
		}
		if l := math32.Sqrt(sum); l > 0 {
			for i := 0; i < n.width; i++ {
				out[i] = a[i] / l
			}
		}
	case opAdd, opSub, opMul, opDiv, opMin, opMax, opStep:
		a := splat(g.evalNode(n.args[0], u, v), n.args[0].width, n.width)
		b := splat(g.evalNode(n.args[1], u, v), n.args[1].width, n.width)
		for i := 0; i < n.width; i++ {
			out[i] = evalBinary(n.op, a[i], b[i])
		}
	case opClamp:
		x := splat(g.evalNode(n.args[0], u, v), n.args[0].width, n.width)
		lo := splat(g.evalNode(n.args[1], u, v), n.args[1].width, n.width)
		hi := splat(g.evalNode(n.args[2], u, v), n.args[2].width, n.width)
		for i := 0; i < n.width; i++ {
			out[i] = math32.Min(math32.Max(x[i], lo[i]), hi[i])
		}
	case opMix:
		a := splat(g.evalNode(n.args[0], u, v), n.args[0].width, n.width)
		b := splat(g.evalNode(n.args[1], u, v), n.args[1].width, n.width)
		t := splat(g.evalNode(n.args[2], u, v), n.args[2].width, n.width)
		for i := 0; i < n.width; i++ {
			out[i] = a[i] + (b[i]-a[i])*t[i]
		}
	case opSmoothstep:
		e0 := splat(g.evalNode(n.args[0], u, v), n.args[0].width, n.width)
		e1 := splat(g.evalNode(n.args[1], u, v), n.args[1].width, n.width)
		x := splat(g.evalNode(n.args[2], u, v), n.args[2].width, n.width)
		for i := 0; i < n.width; i++ {
			out[i] = smoothstep(e0[i], e1[i], x[i])
		}
	default:
		panic(fmt.Sprintf("graph: unhandled op %d", n.op))
	}
	g.evalVals[n.id] = out
	g.evalDone[n.id] = true
	return out
}

func evalBinary(op Op, a, b float32) float32 {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	case opMin:
		return math32.Min(a, b)
	case opMax:
		return math32.Max(a, b)
	case opStep:
		// step(edge, x)
		if b >= a {
			return 1
		}
		return 0
	}
	panic("graph: not a binary op")
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// splat broadcasts a scalar value across width lanes.
func splat(v [4]float32, from, to int) [4]float32 {
	if from == 1 && to > 1 {
		return [4]float32{v[0], v[0], v[0], v[0]}
	}
	return v
}

// sampleBilinear samples the source texture with bilinear filtering and
// clamp-to-edge addressing, matching the sample_src helper in the compiled
// kernel. Texel centers sit at (i+0.5)/width.
func (g *Graph) sampleBilinear(u, v float32) [4]float32 {
	tex := g.texture
	w, h := tex.Width(), tex.Height()
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	p00 := texel(tex, x0, y0, w, h)
	p10 := texel(tex, x0+1, y0, w, h)
	p01 := texel(tex, x0, y0+1, w, h)
	p11 := texel(tex, x0+1, y0+1, w, h)

	var out [4]float32
	for i := 0; i < 4; i++ {
		top := p00[i] + (p10[i]-p00[i])*tx
		bot := p01[i] + (p11[i]-p01[i])*tx
		out[i] = top + (bot-top)*ty
	}
	return out
}

func texel(tex *relight.Pixmap, x, y, w, h int) [4]float32 {
	if x < 0 {
		x = 0
	} else if x >= w {
		x = w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h {
		y = h - 1
	}
	d := tex.Data()
	i := (y*w + x) * 4
	return [4]float32{
		float32(d[i+0]) / 255,
		float32(d[i+1]) / 255,
		float32(d[i+2]) / 255,
		float32(d[i+3]) / 255,
	}
}
