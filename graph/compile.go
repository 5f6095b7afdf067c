// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/relight"
)

// Compiled is the WGSL form of a graph. It is produced at most once per
// graph; uniform updates and texture swaps never invalidate it.
type Compiled struct {
	// WGSL is the complete compute kernel source.
	WGSL string

	// Entry is the compute entry point name.
	Entry string

	// UniformVec4s is the length of the uniform array in the kernel,
	// including the two reserved slots: output size at index 0 and
	// source texture size at index 1.
	UniformVec4s int
}

// Spec returns the executor-facing kernel description.
func (c *Compiled) Spec() relight.KernelSpec {
	return relight.KernelSpec{
		WGSL:         c.WGSL,
		Entry:        c.Entry,
		UniformWords: c.UniformVec4s * 4,
	}
}

// Compile emits the WGSL compute kernel for the graph. The output is
// deterministic: compiling the same graph twice yields identical source.
// The result is cached; subsequent calls return the same Compiled.
func (g *Graph) Compile() (*Compiled, error) {
	if g.compiled != nil {
		return g.compiled, nil
	}
	if g.result == nil {
		return nil, fmt.Errorf("graph: compile without result")
	}

	e := &emitter{g: g, names: make(map[int]string)}
	resultVar := e.emit(g.result)

	var b strings.Builder
	n := len(g.slots) + 2
	fmt.Fprintf(&b, "struct Params {\n    data: array<vec4<f32>, %d>,\n}\n\n", n)
	b.WriteString("@group(0) @binding(0) var<uniform> params: Params;\n")
	b.WriteString("@group(0) @binding(1) var<storage, read> src_pixels: array<u32>;\n")
	b.WriteString("@group(0) @binding(2) var<storage, read_write> out_pixels: array<vec4<f32>>;\n\n")
	// The source image is a packed-RGBA8 storage buffer rather than a
	// texture binding: sampling in shader code keeps GPU results
	// bit-identical to the CPU evaluator, which frame capture relies on.
	b.WriteString("fn src_texel(x: i32, y: i32) -> vec4<f32> {\n")
	b.WriteString("    let sw = i32(params.data[1].x);\n")
	b.WriteString("    let sh = i32(params.data[1].y);\n")
	b.WriteString("    let cx = clamp(x, 0, sw - 1);\n")
	b.WriteString("    let cy = clamp(y, 0, sh - 1);\n")
	b.WriteString("    return unpack4x8unorm(src_pixels[cy * sw + cx]);\n")
	b.WriteString("}\n\n")
	b.WriteString("fn sample_src(uv: vec2<f32>) -> vec4<f32> {\n")
	b.WriteString("    let fx = uv.x * params.data[1].x - 0.5;\n")
	b.WriteString("    let fy = uv.y * params.data[1].y - 0.5;\n")
	b.WriteString("    let x0 = i32(floor(fx));\n")
	b.WriteString("    let y0 = i32(floor(fy));\n")
	b.WriteString("    let tx = fx - floor(fx);\n")
	b.WriteString("    let ty = fy - floor(fy);\n")
	b.WriteString("    let top = mix(src_texel(x0, y0), src_texel(x0 + 1, y0), tx);\n")
	b.WriteString("    let bot = mix(src_texel(x0, y0 + 1), src_texel(x0 + 1, y0 + 1), tx);\n")
	b.WriteString("    return mix(top, bot, ty);\n")
	b.WriteString("}\n\n")
	b.WriteString("@compute @workgroup_size(8, 8, 1)\n")
	b.WriteString("fn main(@builtin(global_invocation_id) gid: vec3<u32>) {\n")
	b.WriteString("    let size = params.data[0].xy;\n")
	b.WriteString("    if (f32(gid.x) >= size.x || f32(gid.y) >= size.y) {\n        return;\n    }\n")
	b.WriteString("    let uv = (vec2<f32>(f32(gid.x), f32(gid.y)) + vec2<f32>(0.5, 0.5)) / size;\n")
	for _, line := range e.lines {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "    out_pixels[gid.y * u32(size.x) + gid.x] = %s;\n", resultVar)
	b.WriteString("}\n")

	g.compiled = &Compiled{
		WGSL:         b.String(),
		Entry:        "main",
		UniformVec4s: n,
	}
	relight.Logger().Debug("graph compiled",
		"uniforms", len(g.slots), "nodes", len(g.nodes), "bytes", len(g.compiled.WGSL))
	return g.compiled, nil
}

// PackUniforms serializes the current uniform values into the layout the
// compiled kernel expects: slot 0 carries (width, height, 1/width, 1/height)
// of the output grid, slot 1 the same quadruple for the bound source
// texture, and each registered uniform occupies one vec4 after them.
func (g *Graph) PackUniforms(width, height int) []float32 {
	out := make([]float32, (len(g.slots)+2)*4)
	packSize(out[0:4], width, height)
	if g.texture != nil {
		packSize(out[4:8], g.texture.Width(), g.texture.Height())
	}
	for _, slot := range g.slots {
		copy(out[(slot.index+2)*4:], slot.values)
	}
	return out
}

func packSize(dst []float32, width, height int) {
	dst[0] = float32(width)
	dst[1] = float32(height)
	if width > 0 {
		dst[2] = 1 / float32(width)
	}
	if height > 0 {
		dst[3] = 1 / float32(height)
	}
}

// emitter walks the DAG and emits one let-binding per operation node,
// reusing bindings for shared subexpressions.
type emitter struct {
	g     *Graph
	names map[int]string
	lines []string
}

func (e *emitter) emit(n *Node) string {
	if s, ok := e.names[n.id]; ok {
		return s
	}
	var s string
	switch n.op {
	case opConst:
		s = wgslConst(n.consts)
	case opUV:
		s = "uv"
	case opUniform:
		s = fmt.Sprintf("params.data[%d]%s", n.slot.index+2, vec4Swizzle(n.width))
	case opSwizzle:
		s = e.emit(n.args[0]) + "." + lanesName(n.lanes)
	default:
		s = e.emitOp(n)
	}
	e.names[n.id] = s
	return s
}

// emitOp emits a let-binding for an operation node and returns its name.
func (e *emitter) emitOp(n *Node) string {
	name := fmt.Sprintf("v%d", n.id)
	var expr string
	switch n.op {
	case opAdd:
		expr = e.binary(n, "+")
	case opSub:
		expr = e.binary(n, "-")
	case opMul:
		expr = e.binary(n, "*")
	case opDiv:
		expr = e.binary(n, "/")
	case opNeg:
		expr = "-(" + e.emit(n.args[0]) + ")"
	case opDot:
		expr = fmt.Sprintf("dot(%s, %s)", e.emit(n.args[0]), e.emit(n.args[1]))
	case opLength:
		expr = fmt.Sprintf("length(%s)", e.emit(n.args[0]))
	case opNormalize:
		expr = fmt.Sprintf("normalize(%s)", e.emit(n.args[0]))
	case opMin:
		expr = e.call(n, "min", n.args...)
	case opMax:
		expr = e.call(n, "max", n.args...)
	case opClamp:
		expr = e.call(n, "clamp", n.args...)
	case opMix:
		// mix accepts a scalar blend factor natively.
		expr = fmt.Sprintf("mix(%s, %s, %s)",
			e.broadcast(n.args[0], n.width), e.broadcast(n.args[1], n.width), e.emit(n.args[2]))
	case opStep:
		expr = e.call(n, "step", n.args...)
	case opSmoothstep:
		expr = e.call(n, "smoothstep", n.args...)
	case opAbs:
		expr = fmt.Sprintf("abs(%s)", e.emit(n.args[0]))
	case opFloor:
		expr = fmt.Sprintf("floor(%s)", e.emit(n.args[0]))
	case opFract:
		expr = fmt.Sprintf("fract(%s)", e.emit(n.args[0]))
	case opSqrt:
		expr = fmt.Sprintf("sqrt(%s)", e.emit(n.args[0]))
	case opSin:
		expr = fmt.Sprintf("sin(%s)", e.emit(n.args[0]))
	case opCos:
		expr = fmt.Sprintf("cos(%s)", e.emit(n.args[0]))
	case opPow:
		expr = e.call(n, "pow", n.args...)
	case opSample:
		expr = fmt.Sprintf("sample_src(%s)", e.emit(n.args[0]))
	case opLuma:
		expr = fmt.Sprintf("dot(%s, vec3<f32>(0.299, 0.587, 0.114))", e.emit(n.args[0]))
	case opVec:
		parts := make([]string, len(n.args))
		for i, a := range n.args {
			parts[i] = e.emit(a)
		}
		expr = fmt.Sprintf("vec%d<f32>(%s)", n.width, strings.Join(parts, ", "))
	default:
		panic(fmt.Sprintf("graph: unhandled op %d", n.op))
	}
	e.lines = append(e.lines, fmt.Sprintf("let %s = %s;", name, expr))
	return name
}

// binary emits an infix arithmetic expression with explicit broadcasting.
func (e *emitter) binary(n *Node, op string) string {
	return fmt.Sprintf("(%s %s %s)",
		e.broadcast(n.args[0], n.width), op, e.broadcast(n.args[1], n.width))
}

// call emits a builtin call with all operands broadcast to the result width.
func (e *emitter) call(n *Node, fn string, args ...*Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.broadcast(a, n.width)
	}
	return fmt.Sprintf("%s(%s)", fn, strings.Join(parts, ", "))
}

// broadcast wraps a scalar expression in a vector constructor when the
// consuming operation is vector-width. WGSL builtins require matching widths.
func (e *emitter) broadcast(a *Node, width int) string {
	s := e.emit(a)
	if a.width == 1 && width > 1 {
		return fmt.Sprintf("vec%d<f32>(%s)", width, s)
	}
	return s
}

func wgslConst(vals []float32) string {
	if len(vals) == 1 {
		return wgslFloat(vals[0])
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = wgslFloat(v)
	}
	return fmt.Sprintf("vec%d<f32>(%s)", len(vals), strings.Join(parts, ", "))
}

// wgslFloat formats a float32 as a valid WGSL f32 literal.
func wgslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func vec4Swizzle(width int) string {
	switch width {
	case 1:
		return ".x"
	case 2:
		return ".xy"
	case 3:
		return ".xyz"
	default:
		return ""
	}
}

func lanesName(lanes []int) string {
	const names = "xyzw"
	var b strings.Builder
	for _, l := range lanes {
		b.WriteByte(names[l])
	}
	return b.String()
}
