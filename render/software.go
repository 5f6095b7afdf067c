// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/gogpu/relight"
)

// reliefScale converts the luminance gradient of the source into surface
// slope for the relief shading.
const reliefScale = 2.0

// SoftwareRenderer renders the relit scene on the CPU.
//
// The source luminance acts as a height field: its Sobel gradient yields a
// per-pixel surface normal, which is Phong-shaded against the scene light.
// Effect-graph evaluation is delegated to graph.EvalImage, so a registered
// GPU kernel executor accelerates the effect pass while the shading pass
// stays on the CPU.
type SoftwareRenderer struct {
	// base and lum are scratch buffers reused across frames.
	base []float32
	lum  []float32
}

// NewSoftwareRenderer creates a CPU renderer.
func NewSoftwareRenderer() *SoftwareRenderer {
	return &SoftwareRenderer{}
}

// Render draws one frame into dst.
func (r *SoftwareRenderer) Render(dst *FloatTarget, f Frame) error {
	if dst == nil {
		return errors.New("render: nil target")
	}
	if f.Source == nil {
		return errors.New("render: nil source image")
	}
	w, h := dst.Width(), dst.Height()
	if w <= 0 || h <= 0 {
		return errors.New("render: empty target")
	}

	if len(r.base) < w*h*4 {
		r.base = make([]float32, w*h*4)
		r.lum = make([]float32, w*h)
	}
	base := r.base[:w*h*4]
	lum := r.lum[:w*h]

	// Base color pass: the effect graph output, or the plain source.
	if f.Effect != nil {
		if err := f.Effect.EvalImage(base, w, h); err != nil {
			return err
		}
	} else {
		for y := 0; y < h; y++ {
			v := (float32(y) + 0.5) / float32(h)
			for x := 0; x < w; x++ {
				u := (float32(x) + 0.5) / float32(w)
				px := sampleLinear(f.Source, u, v)
				copy(base[(y*w+x)*4:], px[:])
			}
		}
	}

	// Height field: source luminance at target resolution. The relief
	// always follows the original image, even when an effect replaces the
	// displayed colors.
	for y := 0; y < h; y++ {
		v := (float32(y) + 0.5) / float32(h)
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			px := sampleLinear(f.Source, u, v)
			lum[y*w+x] = float32(relight.LumaR)*px[0] +
				float32(relight.LumaG)*px[1] +
				float32(relight.LumaB)*px[2]
		}
	}

	d := f.Light.Normalized().Direction()
	// Image y runs down, world y runs up.
	lx, ly, lz := float32(d.X), float32(-d.Y), float32(d.Z)
	m := f.Material

	shade := func(x, y int) {
		gx, gy := sobelAt(lum, w, h, x, y)
		nx, ny, nz := -gx*reliefScale, -gy*reliefScale, float32(1)
		inv := 1 / math32.Sqrt(nx*nx+ny*ny+nz*nz)
		nx, ny, nz = nx*inv, ny*inv, nz*inv

		diff := nx*lx + ny*ly + nz*lz
		if diff < 0 {
			diff = 0
		}

		// Half-vector specular with the viewer on +Z.
		hx, hy, hz := lx, ly, lz+1
		hinv := 1 / math32.Sqrt(hx*hx+hy*hy+hz*hz)
		nh := (nx*hx + ny*hy + nz*hz) * hinv
		var spec float32
		if nh > 0 && m.Specular > 0 {
			spec = math32.Pow(nh, float32(m.Shininess)) * float32(m.Specular)
		}

		light := float32(m.Ambient) + diff*float32(m.Diffuse)
		i := (y*w + x) * 4
		for c := 0; c < 3; c++ {
			base[i+c] = base[i+c]*light + spec
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			shade(x, y)
		}
	}

	copy(dst.FloatPixels(), base)
	return nil
}

// sobelAt computes the luminance gradient at (x, y) with the standard Sobel
// stencil, clamping reads to the grid edge.
func sobelAt(lum []float32, w, h, x, y int) (gx, gy float32) {
	at := func(xx, yy int) float32 {
		if xx < 0 {
			xx = 0
		} else if xx >= w {
			xx = w - 1
		}
		if yy < 0 {
			yy = 0
		} else if yy >= h {
			yy = h - 1
		}
		return lum[yy*w+xx]
	}
	tl, t, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
	l, rr := at(x-1, y), at(x+1, y)
	bl, b, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)
	gx = (tr + 2*rr + br) - (tl + 2*l + bl)
	gy = (bl + 2*b + br) - (tl + 2*t + tr)
	return gx, gy
}

// sampleLinear samples a pixmap with bilinear filtering and clamp-to-edge
// addressing, matching the graph evaluator's sampler.
func sampleLinear(pm *relight.Pixmap, u, v float32) [4]float32 {
	w, h := pm.Width(), pm.Height()
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	x0 := int(math32.Floor(fx))
	y0 := int(math32.Floor(fy))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	at := func(x, y int) [4]float32 {
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
		d := pm.Data()
		i := (y*w + x) * 4
		return [4]float32{
			float32(d[i+0]) / 255,
			float32(d[i+1]) / 255,
			float32(d[i+2]) / 255,
			float32(d[i+3]) / 255,
		}
	}
	p00, p10 := at(x0, y0), at(x0+1, y0)
	p01, p11 := at(x0, y0+1), at(x0+1, y0+1)

	var out [4]float32
	for i := 0; i < 4; i++ {
		top := p00[i] + (p10[i]-p00[i])*tx
		bot := p01[i] + (p11[i]-p01[i])*tx
		out[i] = top + (bot-top)*ty
	}
	return out
}

var _ Renderer = (*SoftwareRenderer)(nil)
