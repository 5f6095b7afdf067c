// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"fmt"

	"github.com/gogpu/relight"
)

// Op identifies a node operation.
type Op uint8

// Node operations.
const (
	opConst Op = iota
	opUV
	opUniform
	opSample
	opAdd
	opSub
	opMul
	opDiv
	opNeg
	opDot
	opLength
	opNormalize
	opMin
	opMax
	opClamp
	opMix
	opStep
	opSmoothstep
	opAbs
	opFloor
	opFract
	opSqrt
	opSin
	opCos
	opPow
	opVec
	opSwizzle
	opLuma
)

// Node is one operation in a graph. Nodes are created through Graph builder
// methods and the package-level op constructors; they are immutable once
// created. Width is the component count of the node's value (1 to 4).
type Node struct {
	g      *Graph
	op     Op
	width  int
	args   []*Node
	consts []float32    // opConst payload
	slot   *uniformSlot // opUniform payload
	lanes  []int        // opSwizzle payload
	id     int
}

// Width returns the component count of the node's value.
func (n *Node) Width() int { return n.width }

// uniformSlot holds the live value of one named uniform leaf.
type uniformSlot struct {
	name   string
	values []float32
	index  int // slot order; determines uniform block packing
}

// Graph is a per-pixel kernel under construction or in use. It owns a single
// sampleable source texture, a set of named uniforms, and a result node of
// width 4 (RGBA).
type Graph struct {
	nodes    []*Node
	texture  *relight.Pixmap
	slots    []*uniformSlot
	slotByName map[string]*uniformSlot
	result   *Node
	compiled *Compiled

	// version increments on every SetUniform so executors know to re-upload
	// the uniform block without touching the pipeline.
	version uint64
	// texVersion increments on every SwapTexture.
	texVersion uint64

	// eval scratch, reused across Eval calls.
	evalVals [][4]float32
	evalDone []bool
}

// New creates an empty graph sampling the given source image.
func New(src *relight.Pixmap) *Graph {
	if src == nil {
		panic("graph: nil source image")
	}
	return &Graph{
		texture:    src,
		slotByName: make(map[string]*uniformSlot),
	}
}

// Texture returns the current source image.
func (g *Graph) Texture() *relight.Pixmap { return g.texture }

// TextureVersion returns a counter that increments on every SwapTexture.
func (g *Graph) TextureVersion() uint64 { return g.texVersion }

// Version returns a counter that increments on every SetUniform.
func (g *Graph) Version() uint64 { return g.version }

// SwapTexture rebinds the sampled source image without any structural
// change: the compiled kernel, uniform values, and node DAG are untouched.
func (g *Graph) SwapTexture(src *relight.Pixmap) {
	if src == nil {
		panic("graph: nil source image")
	}
	g.texture = src
	g.texVersion++
}

// newNode appends a node to the graph and returns it.
func (g *Graph) newNode(op Op, width int, args ...*Node) *Node {
	for _, a := range args {
		if a.g != g {
			panic("graph: mixing nodes from different graphs")
		}
	}
	n := &Node{g: g, op: op, width: width, args: args, id: len(g.nodes)}
	g.nodes = append(g.nodes, n)
	return n
}

// Const creates a constant node. One value yields a scalar, two to four
// values yield a vector of that width.
func (g *Graph) Const(vals ...float32) *Node {
	if len(vals) < 1 || len(vals) > 4 {
		panic(fmt.Sprintf("graph: const width %d out of range", len(vals)))
	}
	n := g.newNode(opConst, len(vals))
	n.consts = append([]float32(nil), vals...)
	return n
}

// UV returns the builtin texture coordinate of the pixel being evaluated,
// in [0,1] with (0,0) at the top-left texel.
func (g *Graph) UV() *Node {
	return g.newNode(opUV, 2)
}

// Uniform registers a named mutable leaf with the given initial value and
// returns its node. One initial value yields a scalar uniform, two to four a
// vector. Registering the same name twice is a programming defect.
func (g *Graph) Uniform(name string, initial ...float32) *Node {
	if len(initial) < 1 || len(initial) > 4 {
		panic(fmt.Sprintf("graph: uniform %q width %d out of range", name, len(initial)))
	}
	if _, dup := g.slotByName[name]; dup {
		panic(fmt.Sprintf("graph: duplicate uniform %q", name))
	}
	slot := &uniformSlot{
		name:   name,
		values: append([]float32(nil), initial...),
		index:  len(g.slots),
	}
	g.slots = append(g.slots, slot)
	g.slotByName[name] = slot

	n := g.newNode(opUniform, len(initial))
	n.slot = slot
	return n
}

// SetUniform updates a live uniform value. The value count must match the
// width the uniform was registered with. SetUniform never invalidates the
// compiled kernel; only the packed uniform block changes.
func (g *Graph) SetUniform(name string, vals ...float32) error {
	slot, ok := g.slotByName[name]
	if !ok {
		return fmt.Errorf("graph: unknown uniform %q", name)
	}
	if len(vals) != len(slot.values) {
		return fmt.Errorf("graph: uniform %q expects %d values, got %d",
			name, len(slot.values), len(vals))
	}
	copy(slot.values, vals)
	g.version++
	return nil
}

// UniformValue returns a copy of the current value of a named uniform.
func (g *Graph) UniformValue(name string) ([]float32, bool) {
	slot, ok := g.slotByName[name]
	if !ok {
		return nil, false
	}
	return append([]float32(nil), slot.values...), true
}

// Sample samples the source texture at uv (width 2) with bilinear filtering
// and clamp-to-edge addressing, returning an RGBA node.
func (g *Graph) Sample(uv *Node) *Node {
	if uv.width != 2 {
		panic("graph: Sample uv must have width 2")
	}
	return g.newNode(opSample, 4, uv)
}

// SetResult fixes the graph output. The result must be an RGBA node
// (width 4). SetResult may be called once.
func (g *Graph) SetResult(n *Node) {
	if n.g != g {
		panic("graph: result node belongs to a different graph")
	}
	if n.width != 4 {
		panic("graph: result must have width 4")
	}
	if g.result != nil {
		panic("graph: result already set")
	}
	g.result = n
}

// Result returns the graph output node, or nil if SetResult was not called.
func (g *Graph) Result() *Node { return g.result }
