// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"fmt"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/graph"
)

// Params is a flat key to numeric-or-boolean record describing an effect's
// user-facing parameters. Values are float64 or bool, which keeps the record
// lossless through JSON settings round-trips.
type Params map[string]any

// Clone returns a deep copy of the record.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Float returns the numeric value of a key.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p[key].(float64)
	return v, ok
}

// Bool returns the boolean value of a key.
func (p Params) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

// Definition is an immutable effect descriptor: a unique name, a defaults
// constructor, and a pure builder producing a live Instance.
type Definition struct {
	name     string
	defaults func() Params
	build    func(src *relight.Pixmap, invResX, invResY float64) (*Instance, error)
}

// Name returns the effect's unique display name.
func (d *Definition) Name() string { return d.name }

// Defaults returns a fresh default parameter record.
func (d *Definition) Defaults() Params { return d.defaults() }

// Build compiles a live instance of the effect for the given source image.
// invResX and invResY are the UV extent of one texel (1/width, 1/height).
func (d *Definition) Build(src *relight.Pixmap, invResX, invResY float64) (*Instance, error) {
	inst, err := d.build(src, invResX, invResY)
	if err != nil {
		return nil, fmt.Errorf("effect %q: %w", d.name, err)
	}
	// Sync uniforms with the default record through the regular update path
	// so derived values (trig, normalized weights) are computed once here.
	if err := inst.SetParams(d.defaults()); err != nil {
		return nil, fmt.Errorf("effect %q: defaults: %w", d.name, err)
	}
	return inst, nil
}

// applyFunc writes a full parameter record into graph uniforms. It runs on
// every SetParams call and is where host-side derived values (cos/sin pairs,
// weight normalization) are computed.
type applyFunc func(g *graph.Graph, p Params) error

// Instance is a live compiled effect owned by the runtime state machine.
// It couples the compiled graph with its parameter record.
type Instance struct {
	g      *graph.Graph
	params Params
	apply  applyFunc
}

func newInstance(g *graph.Graph, defaults Params, apply applyFunc) *Instance {
	return &Instance{g: g, params: defaults.Clone(), apply: apply}
}

// ColorNode returns the compiled graph to attach to the render material.
func (in *Instance) ColorNode() *graph.Graph { return in.g }

// UpdateTexture rebinds the sampled source image without recompiling the
// graph. The texel-size uniform, if the effect registered one, follows the
// new image dimensions.
func (in *Instance) UpdateTexture(src *relight.Pixmap) {
	in.g.SwapTexture(src)
	if _, ok := in.g.UniformValue(uniformInvRes); ok {
		ix, iy := src.InverseResolution()
		// Registered width is always 2; the error path is unreachable.
		_ = in.g.SetUniform(uniformInvRes, float32(ix), float32(iy))
	}
}

// Params returns a copy of the current parameter record.
func (in *Instance) Params() Params { return in.params.Clone() }

// SetParams merges the given keys into the parameter record and writes the
// resulting uniform values. Unknown keys and type mismatches are rejected;
// the graph is never rebuilt.
func (in *Instance) SetParams(p Params) error {
	for k, v := range p {
		cur, ok := in.params[k]
		if !ok {
			return fmt.Errorf("effect: unknown parameter %q", k)
		}
		switch v.(type) {
		case float64:
			if _, isF := cur.(float64); !isF {
				return fmt.Errorf("effect: parameter %q expects %T", k, cur)
			}
		case bool:
			if _, isB := cur.(bool); !isB {
				return fmt.Errorf("effect: parameter %q expects %T", k, cur)
			}
		default:
			return fmt.Errorf("effect: parameter %q has unsupported type %T", k, v)
		}
		in.params[k] = v
	}
	return in.apply(in.g, in.params)
}

// uniformInvRes is the reserved uniform carrying (1/width, 1/height) for
// effects that sample at texel offsets. UpdateTexture keeps it current.
const uniformInvRes = "invRes"

// boolUniform converts a boolean parameter to its 0/1 uniform encoding.
func boolUniform(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// setFloats copies same-named float parameters into scalar uniforms.
func setFloats(g *graph.Graph, p Params, keys ...string) error {
	for _, k := range keys {
		v, ok := p.Float(k)
		if !ok {
			return fmt.Errorf("effect: missing parameter %q", k)
		}
		if err := g.SetUniform(k, float32(v)); err != nil {
			return err
		}
	}
	return nil
}
