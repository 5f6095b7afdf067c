// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/relight"
)

// bayer4 is the 4x4 ordered-dither threshold matrix, values 0..15.
var bayer4 = [4][4]float32{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// ToneMap compresses a linear-light value into displayable range with the
// Reinhard operator, v/(1+v). Values at or below zero map to zero.
func ToneMap(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return v / (1 + v)
}

// srgbEncode applies the sRGB transfer function to a linear value in [0,1].
func srgbEncode(v float32) float32 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math32.Pow(v, 1/2.4) - 0.055
}

// ditherOffset returns the ordered-dither perturbation for pixel (x, y),
// centered on zero and spanning one 8-bit quantization step.
func ditherOffset(x, y int) float32 {
	return (bayer4[y&3][x&3]/16 - 0.5) / 255
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// EncodeFrame converts a linear-light float frame to the presentable 8-bit
// form: Reinhard tone map, sRGB gamma encode, optional ordered dithering,
// then quantization. This is the single color pipeline shared by the live
// display and the capture path, so captured frames match the on-screen
// appearance. Alpha is gamma-exempt and always encoded linearly.
func EncodeFrame(src *FloatTarget, dither bool) *relight.Pixmap {
	w, h := src.Width(), src.Height()
	out := relight.NewPixmap(w, h)
	pix := src.FloatPixels()
	data := out.Data()

	for y := 0; y < h; y++ {
		var d float32
		for x := 0; x < w; x++ {
			if dither {
				d = ditherOffset(x, y)
			}
			i := (y*w + x) * 4
			for c := 0; c < 3; c++ {
				v := srgbEncode(ToneMap(pix[i+c]))
				data[i+c] = quantize(v + d)
			}
			data[i+3] = quantize(pix[i+3])
		}
	}
	return out
}
