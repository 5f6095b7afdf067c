// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import "fmt"

// binaryWidth resolves the result width for a component-wise binary op.
// Mixed widths are allowed only when one operand is scalar (broadcast).
func binaryWidth(op string, a, b *Node) int {
	if a.width == b.width {
		return a.width
	}
	if a.width == 1 {
		return b.width
	}
	if b.width == 1 {
		return a.width
	}
	panic(fmt.Sprintf("graph: %s width mismatch %d vs %d", op, a.width, b.width))
}

// Add returns a + b.
func Add(a, b *Node) *Node { return a.g.newNode(opAdd, binaryWidth("Add", a, b), a, b) }

// Sub returns a - b.
func Sub(a, b *Node) *Node { return a.g.newNode(opSub, binaryWidth("Sub", a, b), a, b) }

// Mul returns a * b component-wise.
func Mul(a, b *Node) *Node { return a.g.newNode(opMul, binaryWidth("Mul", a, b), a, b) }

// Div returns a / b component-wise.
func Div(a, b *Node) *Node { return a.g.newNode(opDiv, binaryWidth("Div", a, b), a, b) }

// Neg returns -a.
func Neg(a *Node) *Node { return a.g.newNode(opNeg, a.width, a) }

// Dot returns the dot product of two equal-width vectors as a scalar.
func Dot(a, b *Node) *Node {
	if a.width != b.width {
		panic(fmt.Sprintf("graph: Dot width mismatch %d vs %d", a.width, b.width))
	}
	return a.g.newNode(opDot, 1, a, b)
}

// Length returns the Euclidean length of a vector as a scalar.
func Length(a *Node) *Node { return a.g.newNode(opLength, 1, a) }

// Normalize returns a scaled to unit length.
func Normalize(a *Node) *Node { return a.g.newNode(opNormalize, a.width, a) }

// Min returns the component-wise minimum.
func Min(a, b *Node) *Node { return a.g.newNode(opMin, binaryWidth("Min", a, b), a, b) }

// Max returns the component-wise maximum.
func Max(a, b *Node) *Node { return a.g.newNode(opMax, binaryWidth("Max", a, b), a, b) }

// Clamp returns x constrained to [lo, hi] component-wise.
func Clamp(x, lo, hi *Node) *Node {
	binaryWidth("Clamp", x, lo)
	binaryWidth("Clamp", x, hi)
	return x.g.newNode(opClamp, x.width, x, lo, hi)
}

// Clamp01 returns x constrained to [0, 1].
func Clamp01(x *Node) *Node {
	zero := x.g.Const(0)
	one := x.g.Const(1)
	return Clamp(x, zero, one)
}

// Mix returns the linear blend a*(1-t) + b*t.
func Mix(a, b, t *Node) *Node {
	w := binaryWidth("Mix", a, b)
	if t.width != 1 && t.width != w {
		panic(fmt.Sprintf("graph: Mix factor width %d", t.width))
	}
	return a.g.newNode(opMix, w, a, b, t)
}

// Step returns 0 where x < edge and 1 elsewhere, component-wise.
func Step(edge, x *Node) *Node {
	return x.g.newNode(opStep, binaryWidth("Step", edge, x), edge, x)
}

// Smoothstep returns the Hermite interpolation of x between edge0 and edge1.
func Smoothstep(edge0, edge1, x *Node) *Node {
	binaryWidth("Smoothstep", edge0, edge1)
	binaryWidth("Smoothstep", x, edge0)
	return x.g.newNode(opSmoothstep, x.width, edge0, edge1, x)
}

// Abs returns the component-wise absolute value.
func Abs(a *Node) *Node { return a.g.newNode(opAbs, a.width, a) }

// Floor returns the component-wise floor.
func Floor(a *Node) *Node { return a.g.newNode(opFloor, a.width, a) }

// Fract returns the component-wise fractional part, x - floor(x).
func Fract(a *Node) *Node { return a.g.newNode(opFract, a.width, a) }

// Sqrt returns the component-wise square root.
func Sqrt(a *Node) *Node { return a.g.newNode(opSqrt, a.width, a) }

// Sin returns the component-wise sine. Angle-valued effect parameters should
// instead upload host-computed cos/sin pairs; Sin exists for spatial terms
// that genuinely vary per pixel.
func Sin(a *Node) *Node { return a.g.newNode(opSin, a.width, a) }

// Cos returns the component-wise cosine.
func Cos(a *Node) *Node { return a.g.newNode(opCos, a.width, a) }

// Pow returns a raised to the power b, component-wise.
func Pow(a, b *Node) *Node { return a.g.newNode(opPow, binaryWidth("Pow", a, b), a, b) }

// Luma reduces an RGB vector (width 3) to BT.601 luminance.
func Luma(rgb *Node) *Node {
	if rgb.width != 3 {
		panic("graph: Luma input must have width 3")
	}
	return rgb.g.newNode(opLuma, 1, rgb)
}

// Vec concatenates scalar and vector nodes into a wider vector. The total
// width must be 2 to 4.
func Vec(parts ...*Node) *Node {
	if len(parts) == 0 {
		panic("graph: Vec needs at least one part")
	}
	w := 0
	for _, p := range parts {
		w += p.width
	}
	if w < 2 || w > 4 {
		panic(fmt.Sprintf("graph: Vec total width %d out of range", w))
	}
	return parts[0].g.newNode(opVec, w, parts...)
}

// swizzle extracts lanes from a vector.
func swizzle(a *Node, lanes ...int) *Node {
	for _, l := range lanes {
		if l < 0 || l >= a.width {
			panic(fmt.Sprintf("graph: swizzle lane %d out of range for width %d", l, a.width))
		}
	}
	n := a.g.newNode(opSwizzle, len(lanes), a)
	n.lanes = append([]int(nil), lanes...)
	return n
}

// X returns the first component of a vector.
func (n *Node) X() *Node { return swizzle(n, 0) }

// Y returns the second component of a vector.
func (n *Node) Y() *Node { return swizzle(n, 1) }

// Z returns the third component of a vector.
func (n *Node) Z() *Node { return swizzle(n, 2) }

// W returns the fourth component of a vector.
func (n *Node) W() *Node { return swizzle(n, 3) }

// XY returns the first two components of a vector.
func (n *Node) XY() *Node { return swizzle(n, 0, 1) }

// RGB returns the first three components of an RGBA vector.
func (n *Node) RGB() *Node { return swizzle(n, 0, 1, 2) }
