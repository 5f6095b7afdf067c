// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

// NoneName is the sentinel name for the pass-through state with no effect
// applied. It is always the first entry in the default registry.
const NoneName = "None"

// Registry is an ordered set of effect definitions. Order is presentation
// order in menus; lookup is by name.
type Registry struct {
	order []*Definition
	byKey map[string]*Definition
}

// NewRegistry builds a registry from the given definitions, in order.
// Duplicate names panic: they are programmer errors.
func NewRegistry(defs ...*Definition) *Registry {
	r := &Registry{byKey: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if _, dup := r.byKey[d.name]; dup {
			panic("effect: duplicate definition " + d.name)
		}
		r.order = append(r.order, d)
		r.byKey[d.name] = d
	}
	return r
}

// DefaultRegistry returns the built-in effect set.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NormalMap(),
		Sobel(),
		Emboss(),
		Grayscale(),
		ChromaticAberration(),
		Halftone(),
		HalftoneCMYK(),
	)
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.byKey[name]
	return d, ok
}

// Names returns the registered effect names in presentation order, with
// NoneName prepended.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.order)+1)
	out = append(out, NoneName)
	for _, d := range r.order {
		out = append(out, d.name)
	}
	return out
}
