// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/relight"
)

// RenderTarget defines where rendering output goes.
//
// Two implementations exist: PixmapTarget, the 8-bit presentable surface,
// and FloatTarget, the high-precision offscreen target used by capture.
// Float targets report zero Stride and nil Pixels; their data lives in
// FloatPixels.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to 8-bit pixel data, or nil when the
	// target is not byte-addressable.
	Pixels() []byte

	// Stride returns the number of bytes per row, or 0 when Pixels is nil.
	Stride() int
}

// PixmapTarget is the presentable 8-bit target backed by a relight.Pixmap.
type PixmapTarget struct {
	pm *relight.Pixmap
}

// NewPixmapTarget creates a presentable target of the given size.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{pm: relight.NewPixmap(width, height)}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int { return t.pm.Width() }

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int { return t.pm.Height() }

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte { return t.pm.Data() }

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int { return t.pm.Width() * 4 }

// Pixmap returns the backing pixmap. The pixmap shares memory with the
// target.
func (t *PixmapTarget) Pixmap() *relight.Pixmap { return t.pm }

// Image returns the target contents as an *image.RGBA copy.
func (t *PixmapTarget) Image() *image.RGBA { return t.pm.ToImage() }

// Resize replaces the backing pixmap. The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.pm = relight.NewPixmap(width, height)
}

var _ RenderTarget = (*PixmapTarget)(nil)

// FloatTarget is the offscreen high-precision target: linear-light RGBA
// float32, four values per pixel, row-major, no padding. Capture renders
// into one of these, reads it back, and quantizes through the shared tone
// mapping path.
type FloatTarget struct {
	width  int
	height int
	pix    []float32
}

// NewFloatTarget creates an offscreen float target of the given size.
func NewFloatTarget(width, height int) *FloatTarget {
	return &FloatTarget{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*4),
	}
}

// Width returns the target width in pixels.
func (t *FloatTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *FloatTarget) Height() int { return t.height }

// Format returns the pixel format (RGBA32Float).
func (t *FloatTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA32Float
}

// Pixels returns nil; float targets are not byte-addressable.
func (t *FloatTarget) Pixels() []byte { return nil }

// Stride returns 0; float targets are not byte-addressable.
func (t *FloatTarget) Stride() int { return 0 }

// FloatPixels returns the backing float buffer, four values per pixel.
func (t *FloatTarget) FloatPixels() []float32 { return t.pix }

// At returns the RGBA value of one pixel.
func (t *FloatTarget) At(x, y int) [4]float32 {
	i := (y*t.width + x) * 4
	return [4]float32{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// Set writes the RGBA value of one pixel.
func (t *FloatTarget) Set(x, y int, v [4]float32) {
	i := (y*t.width + x) * 4
	copy(t.pix[i:i+4], v[:])
}

var _ RenderTarget = (*FloatTarget)(nil)
