// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package relight

import (
	"image/color"
	"math"
	"testing"
)

// Verify at compile time that RGBA converts to the standard interface.
var _ color.Color = RGBA{}.Color()

func TestColorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
	}{
		{"black", Black},
		{"white", White},
		{"red", Red},
		{"half gray", Gray},
		{"translucent", RGBA2(0.2, 0.4, 0.6, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromColor(tt.c.Color())
			const eps = 1.0 / 255
			if math.Abs(got.R-tt.c.R) > eps || math.Abs(got.G-tt.c.G) > eps ||
				math.Abs(got.B-tt.c.B) > eps || math.Abs(got.A-tt.c.A) > eps {
				t.Errorf("round trip = %+v, want %+v", got, tt.c)
			}
		})
	}
}

func TestColorClamps(t *testing.T) {
	c := RGBA{R: 2, G: -1, B: 0.5, A: 1}.Color().(color.NRGBA)
	if c.R != 255 {
		t.Errorf("R = %d, want clamped to 255", c.R)
	}
	if c.G != 0 {
		t.Errorf("G = %d, want clamped to 0", c.G)
	}
}

func TestLuminance(t *testing.T) {
	if got := White.Luminance(); math.Abs(got-1) > 1e-9 {
		t.Errorf("white luma = %v, want 1", got)
	}
	if got := Black.Luminance(); got != 0 {
		t.Errorf("black luma = %v, want 0", got)
	}
	// Green dominates the BT.601 weighting.
	if Green.Luminance() <= Red.Luminance() || Red.Luminance() <= Blue.Luminance() {
		t.Errorf("luma ordering g=%v r=%v b=%v, want g > r > b",
			Green.Luminance(), Red.Luminance(), Blue.Luminance())
	}
}

func TestLerp(t *testing.T) {
	mid := Black.Lerp(White, 0.5)
	if mid.R != 0.5 || mid.G != 0.5 || mid.B != 0.5 || mid.A != 1 {
		t.Errorf("mid = %+v, want 0.5 gray", mid)
	}
	if got := Red.Lerp(Blue, 0); got != Red {
		t.Errorf("t=0 = %+v, want start color", got)
	}
	if got := Red.Lerp(Blue, 1); got != Blue {
		t.Errorf("t=1 = %+v, want end color", got)
	}
}

func TestClamp01(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{
		{-0.5, 0}, {0, 0}, {0.25, 0.25}, {1, 1}, {3, 1},
	} {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
