// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"errors"
	"fmt"

	"github.com/gogpu/relight"
)

// ErrUnknownEffect is returned by Select for a name the registry does not
// know. The runtime falls back to the pass-through state.
var ErrUnknownEffect = errors.New("effect: unknown effect")

// Runtime is the effect state machine: it owns the selected effect instance
// and rebuilds or rebinds it as the selection and the source image change.
//
// The source image may arrive after the selection (settings are restored
// before the first capture is loaded). Selection and parameters are kept as
// pending state and materialize into a live instance once an image exists.
//
// Runtime is confined to the render goroutine and is not safe for concurrent
// use.
type Runtime struct {
	reg  *Registry
	src  *relight.Pixmap
	name string
	inst *Instance

	// pending holds parameter overrides for a selection that has no live
	// instance yet. Applied and cleared on build.
	pending Params
}

// NewRuntime returns a runtime in the pass-through state.
func NewRuntime(reg *Registry) *Runtime {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Runtime{reg: reg}
}

// Registry returns the registry the runtime selects from.
func (rt *Runtime) Registry() *Registry { return rt.reg }

// EffectName returns the selected effect name, or NoneName.
func (rt *Runtime) EffectName() string {
	if rt.name == "" {
		return NoneName
	}
	return rt.name
}

// Active returns the live instance, or nil in the pass-through state or
// while no source image is bound.
func (rt *Runtime) Active() *Instance { return rt.inst }

// Select switches the active effect. NoneName (or the empty string) enters
// the pass-through state. An unknown name also enters the pass-through
// state, logs a warning and returns ErrUnknownEffect, so a stale name in a
// restored settings file degrades to no effect instead of failing the load.
func (rt *Runtime) Select(name string) error {
	rt.clear()
	if name == "" || name == NoneName {
		return nil
	}
	if _, ok := rt.reg.Lookup(name); !ok {
		relight.Logger().Warn("unknown effect selected, falling back to none",
			"effect", name)
		return fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	rt.name = name
	return rt.materialize()
}

// Restore re-applies a persisted selection and parameter record in one step.
// Unknown parameter keys are dropped with a warning rather than rejected;
// they come from settings written by other versions.
func (rt *Runtime) Restore(name string, params Params) error {
	if err := rt.Select(name); err != nil {
		return err
	}
	if rt.name == "" || len(params) == 0 {
		return nil
	}
	def, _ := rt.reg.Lookup(rt.name)
	known := def.Defaults()
	kept := make(Params, len(params))
	for k, v := range params {
		if _, ok := known[k]; !ok {
			relight.Logger().Warn("dropping unknown effect parameter",
				"effect", name, "param", k)
			continue
		}
		kept[k] = v
	}
	return rt.SetParams(kept)
}

// UpdateTexture binds a new source image. A live instance is rebound in
// place without recompiling; a pending selection is built now.
func (rt *Runtime) UpdateTexture(src *relight.Pixmap) error {
	rt.src = src
	if rt.inst != nil {
		rt.inst.UpdateTexture(src)
		return nil
	}
	return rt.materialize()
}

// SetParams merges parameter values into the selection. With no live
// instance yet the values are held and applied when the image arrives.
func (rt *Runtime) SetParams(p Params) error {
	if rt.inst != nil {
		return rt.inst.SetParams(p)
	}
	if rt.name == "" {
		return errors.New("effect: no effect selected")
	}
	if rt.pending == nil {
		rt.pending = make(Params, len(p))
	}
	for k, v := range p {
		rt.pending[k] = v
	}
	return nil
}

// SetParam sets a single parameter value. Interactive controls bind to
// this; batch updates go through SetParams.
func (rt *Runtime) SetParam(key string, val any) error {
	return rt.SetParams(Params{key: val})
}

// Params returns the effective parameter record of the selection: live
// instance values, or defaults overlaid with pending values, or nil in the
// pass-through state.
func (rt *Runtime) Params() Params {
	if rt.inst != nil {
		return rt.inst.Params()
	}
	if rt.name == "" {
		return nil
	}
	def, _ := rt.reg.Lookup(rt.name)
	out := def.Defaults()
	for k, v := range rt.pending {
		out[k] = v
	}
	return out
}

func (rt *Runtime) clear() {
	rt.name = ""
	rt.inst = nil
	rt.pending = nil
}

// materialize builds the instance for the current selection if both a
// selection and a source image exist.
func (rt *Runtime) materialize() error {
	if rt.name == "" || rt.src == nil {
		return nil
	}
	def, _ := rt.reg.Lookup(rt.name)
	ix, iy := rt.src.InverseResolution()
	inst, err := def.Build(rt.src, ix, iy)
	if err != nil {
		rt.clear()
		return err
	}
	if len(rt.pending) > 0 {
		if err := inst.SetParams(rt.pending); err != nil {
			rt.clear()
			return err
		}
	}
	rt.pending = nil
	rt.inst = inst
	return nil
}
