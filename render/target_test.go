// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPixmapTarget(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"small", 100, 100},
		{"medium", 800, 600},
		{"wide", 1000, 100},
		{"tall", 100, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := NewPixmapTarget(tt.width, tt.height)
			if target.Width() != tt.width || target.Height() != tt.height {
				t.Errorf("size = %dx%d, want %dx%d",
					target.Width(), target.Height(), tt.width, tt.height)
			}
			if target.Format() != gputypes.TextureFormatRGBA8Unorm {
				t.Errorf("format = %v", target.Format())
			}
			if len(target.Pixels()) != tt.width*tt.height*4 {
				t.Errorf("pixels len = %d", len(target.Pixels()))
			}
			if target.Stride() != tt.width*4 {
				t.Errorf("stride = %d, want %d", target.Stride(), tt.width*4)
			}
		})
	}
}

func TestPixmapTargetResize(t *testing.T) {
	target := NewPixmapTarget(8, 8)
	target.Resize(16, 4)
	if target.Width() != 16 || target.Height() != 4 {
		t.Errorf("size after resize = %dx%d", target.Width(), target.Height())
	}
	if len(target.Pixels()) != 16*4*4 {
		t.Errorf("pixels len = %d", len(target.Pixels()))
	}
}

func TestFloatTarget(t *testing.T) {
	target := NewFloatTarget(4, 3)
	if target.Width() != 4 || target.Height() != 3 {
		t.Errorf("size = %dx%d", target.Width(), target.Height())
	}
	if target.Pixels() != nil {
		t.Error("float target exposed byte pixels")
	}
	if target.Stride() != 0 {
		t.Errorf("stride = %d, want 0", target.Stride())
	}
	if len(target.FloatPixels()) != 4*3*4 {
		t.Errorf("float pixels len = %d", len(target.FloatPixels()))
	}

	want := [4]float32{0.1, 0.2, 0.3, 1}
	target.Set(2, 1, want)
	if got := target.At(2, 1); got != want {
		t.Errorf("At(2,1) = %v, want %v", got, want)
	}
	if got := target.At(0, 0); got != ([4]float32{}) {
		t.Errorf("untouched pixel = %v, want zero", got)
	}
}
