// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/effect"
	"github.com/gogpu/relight/graph"
	"github.com/gogpu/relight/scene"
)

// ErrNoSource is returned when a render or capture is requested before a
// source image is loaded.
var ErrNoSource = errors.New("render: no source image loaded")

// Engine owns one relighting session: the source image, the scene state
// (light, camera, material), the effect runtime, the renderer, and the
// frame loop. It is confined to the render goroutine.
type Engine struct {
	renderer Renderer
	loop     *Loop
	present  *PixmapTarget

	src      *relight.Pixmap
	light    scene.Light
	camera   scene.Camera
	material scene.Material
	effects  *effect.Runtime

	// scratch is the float frame reused by RenderPresent.
	scratch *FloatTarget
}

// NewEngine creates an engine presenting to a surface of the given size.
func NewEngine(width, height int) *Engine {
	present := NewPixmapTarget(width, height)
	e := &Engine{
		renderer: NewSoftwareRenderer(),
		present:  present,
		loop:     NewLoop(present),
		light:    scene.DefaultLight(),
		camera:   scene.DefaultCamera(),
		material: scene.DefaultMaterial(),
		effects:  effect.NewRuntime(nil),
	}
	e.camera.Aspect = float64(width) / float64(height)
	e.loop.SetOnFrame(func(RenderTarget) { e.RenderPresent() })
	return e
}

// SetSource loads a new source image, rebinding the active effect's texture
// without recompiling.
func (e *Engine) SetSource(src *relight.Pixmap) error {
	if src == nil {
		return errors.New("render: nil source image")
	}
	e.src = src
	return e.effects.UpdateTexture(src)
}

// Source returns the loaded source image, or nil.
func (e *Engine) Source() *relight.Pixmap { return e.src }

// Loop returns the frame loop.
func (e *Engine) Loop() *Loop { return e.loop }

// Present returns the presentable surface.
func (e *Engine) Present() *PixmapTarget { return e.present }

// Effects returns the effect runtime.
func (e *Engine) Effects() *effect.Runtime { return e.effects }

// Light returns the current light.
func (e *Engine) Light() scene.Light { return e.light }

// SetLight replaces the light, normalizing azimuth and elevation.
func (e *Engine) SetLight(l scene.Light) { e.light = l.Normalized() }

// Camera returns the current camera.
func (e *Engine) Camera() scene.Camera { return e.camera }

// SetCamera replaces the camera.
func (e *Engine) SetCamera(c scene.Camera) { e.camera = c }

// Material returns the current material.
func (e *Engine) Material() scene.Material { return e.material }

// SetMaterial replaces the material.
func (e *Engine) SetMaterial(m scene.Material) { e.material = m }

// Frame returns the frame descriptor for the current session state.
func (e *Engine) Frame() Frame {
	var g *graph.Graph
	if inst := e.effects.Active(); inst != nil {
		g = inst.ColorNode()
	}
	return Frame{
		Source:   e.src,
		Effect:   g,
		Light:    e.light,
		Material: e.material,
	}
}

// RenderInto renders one deterministic frame of the current state into an
// offscreen float target. This is the render primitive the capture path
// drives while it holds the target lease.
func (e *Engine) RenderInto(dst *FloatTarget) error {
	if e.src == nil {
		return ErrNoSource
	}
	return e.renderer.Render(dst, e.Frame())
}

// RenderPresent renders the current state and encodes it into the
// presentable surface through the shared tone mapping path.
func (e *Engine) RenderPresent() error {
	if e.src == nil {
		return ErrNoSource
	}
	w, h := e.present.Width(), e.present.Height()
	if e.scratch == nil || e.scratch.Width() != w || e.scratch.Height() != h {
		e.scratch = NewFloatTarget(w, h)
	}
	if err := e.renderer.Render(e.scratch, e.Frame()); err != nil {
		return err
	}
	encoded := EncodeFrame(e.scratch, e.material.Dither)
	copy(e.present.Pixels(), encoded.Data())
	return nil
}

// ApplySettings restores a persisted session record: light, material, and
// the active effect with its parameters. An unknown effect name degrades to
// the pass-through state, logged by the effect runtime.
func (e *Engine) ApplySettings(s scene.Settings) error {
	e.SetLight(scene.Light{Azimuth: s.Light.Azimuth, Elevation: s.Light.Elevation})
	e.material = s.Material

	if s.Effect == nil {
		return e.effects.Select(effect.NoneName)
	}
	return e.effects.Restore(s.Effect.Name, effect.Params(s.Effect.Params))
}

// CaptureSettings exports the current session state as a settings record.
// Re-applying the record reproduces the identical visual state.
func (e *Engine) CaptureSettings() scene.Settings {
	s := scene.Settings{
		Light:    scene.LightSettings{Azimuth: e.light.Azimuth, Elevation: e.light.Elevation},
		Material: e.material,
	}
	if name := e.effects.EffectName(); name != effect.NoneName {
		s.Effect = &scene.EffectSettings{
			Name:   name,
			Params: map[string]any(e.effects.Params()),
		}
	}
	return s
}
