// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package effect

import (
	"math"
	"testing"

	"github.com/gogpu/relight"
)

func gray(v float64) relight.RGBA { return relight.RGB(v, v, v) }

func flatPixmap(w, h int, c relight.RGBA) *relight.Pixmap {
	pm := relight.NewPixmap(w, h)
	pm.Clear(c)
	return pm
}

func buildOn(t *testing.T, d *Definition, src *relight.Pixmap) *Instance {
	t.Helper()
	ix, iy := src.InverseResolution()
	inst, err := d.Build(src, ix, iy)
	if err != nil {
		t.Fatalf("Build(%s): %v", d.Name(), err)
	}
	return inst
}

// evalMean evaluates the instance over the full image and returns the mean of
// the RGB channels.
func evalMean(t *testing.T, in *Instance, w, h int) float64 {
	t.Helper()
	g := in.ColorNode()
	var sum float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := g.Eval(x, y, w, h)
			sum += float64(px[0]+px[1]+px[2]) / 3
		}
	}
	return sum / float64(w*h)
}

func TestDefinitionsBuildWithDefaults(t *testing.T) {
	src := flatPixmap(8, 8, gray(0.5))
	for _, d := range DefaultRegistry().order {
		inst := buildOn(t, d, src)
		got := inst.Params()
		want := d.Defaults()
		if len(got) != len(want) {
			t.Errorf("%s: params = %v, want %v", d.Name(), got, want)
		}
		px := inst.ColorNode().Eval(3, 3, 8, 8)
		if px[3] != 1 {
			t.Errorf("%s: alpha = %v, want 1", d.Name(), px[3])
		}
	}
}

func TestSetParamsRoundTrip(t *testing.T) {
	src := flatPixmap(8, 8, relight.White)
	inst := buildOn(t, Sobel(), src)

	if err := inst.SetParams(Params{"threshold": 0.42, "invert": true}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	p := inst.Params()
	if v, _ := p.Float("threshold"); math.Abs(v-0.42) > 1e-6 {
		t.Errorf("threshold = %v, want 0.42", v)
	}
	if v, _ := p.Bool("invert"); !v {
		t.Error("invert = false, want true")
	}

	vals, ok := inst.ColorNode().UniformValue("threshold")
	if !ok || math.Abs(float64(vals[0])-0.42) > 1e-6 {
		t.Errorf("threshold uniform = %v, want [0.42]", vals)
	}
}

func TestSetParamsRejectsUnknownAndMistyped(t *testing.T) {
	src := flatPixmap(8, 8, relight.White)
	inst := buildOn(t, Sobel(), src)

	if err := inst.SetParams(Params{"bogus": 1.0}); err == nil {
		t.Error("unknown key accepted")
	}
	if err := inst.SetParams(Params{"threshold": true}); err == nil {
		t.Error("bool for float key accepted")
	}
	if err := inst.SetParams(Params{"invert": 0.5}); err == nil {
		t.Error("float for bool key accepted")
	}
}

func TestUpdateTextureKeepsGraphRefreshesInvRes(t *testing.T) {
	src := flatPixmap(8, 8, gray(0.5))
	inst := buildOn(t, NormalMap(), src)
	g := inst.ColorNode()

	before, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	texVer := g.TextureVersion()

	inst.UpdateTexture(flatPixmap(16, 32, gray(0.25)))

	if g.TextureVersion() != texVer+1 {
		t.Errorf("texture version = %d, want %d", g.TextureVersion(), texVer+1)
	}
	vals, ok := g.UniformValue("invRes")
	if !ok {
		t.Fatal("invRes uniform missing")
	}
	if math.Abs(float64(vals[0])-1.0/16) > 1e-7 || math.Abs(float64(vals[1])-1.0/32) > 1e-7 {
		t.Errorf("invRes = %v, want [1/16 1/32]", vals)
	}
	after, err := g.Compile()
	if err != nil {
		t.Fatalf("Compile after swap: %v", err)
	}
	if before.WGSL != after.WGSL {
		t.Error("texture swap changed the compiled kernel")
	}
}

func TestSobelFlatImageIsBlack(t *testing.T) {
	src := flatPixmap(8, 8, gray(0.5))
	inst := buildOn(t, Sobel(), src)

	px := inst.ColorNode().Eval(4, 4, 8, 8)
	if px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("flat image edge = %v, want black", px)
	}

	if err := inst.SetParams(Params{"invert": true}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	px = inst.ColorNode().Eval(4, 4, 8, 8)
	if px[0] != 1 || px[1] != 1 || px[2] != 1 {
		t.Errorf("inverted flat image edge = %v, want white", px)
	}
}

func TestSobelDetectsVerticalEdge(t *testing.T) {
	src := relight.NewPixmap(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := relight.Black
			if x >= 4 {
				c = relight.White
			}
			src.SetPixel(x, y, c)
		}
	}
	inst := buildOn(t, Sobel(), src)
	g := inst.ColorNode()

	onEdge := g.Eval(4, 4, 8, 8)
	offEdge := g.Eval(1, 4, 8, 8)
	if onEdge[0] <= 0.5 {
		t.Errorf("edge response = %v, want > 0.5", onEdge[0])
	}
	if offEdge[0] != 0 {
		t.Errorf("flat region response = %v, want 0", offEdge[0])
	}
}

func TestNormalMapFlatImagePointsUp(t *testing.T) {
	src := flatPixmap(8, 8, gray(0.5))
	inst := buildOn(t, NormalMap(), src)

	px := inst.ColorNode().Eval(4, 4, 8, 8)
	want := [3]float64{0.5, 0.5, 1}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(px[i])-want[i]) > 1e-5 {
			t.Errorf("channel %d = %v, want %v", i, px[i], want[i])
		}
	}
}

func TestEmbossFlatImageIsMidGray(t *testing.T) {
	src := flatPixmap(8, 8, gray(0.3))
	inst := buildOn(t, Emboss(), src)
	px := inst.ColorNode().Eval(4, 4, 8, 8)
	if math.Abs(float64(px[0])-0.5) > 1e-5 {
		t.Errorf("flat emboss = %v, want 0.5", px[0])
	}

	// The direction uniform is the host-computed (cos, sin) pair.
	if err := inst.SetParams(Params{"angle": 90.0}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	vals, _ := inst.ColorNode().UniformValue("direction")
	if math.Abs(float64(vals[0])) > 1e-6 || math.Abs(float64(vals[1])-1) > 1e-6 {
		t.Errorf("direction = %v, want [0 1]", vals)
	}
}

func TestGrayscaleNormalizesWeights(t *testing.T) {
	src := flatPixmap(8, 8, relight.RGB(0.2, 0.4, 0.8))
	inst := buildOn(t, Grayscale(), src)

	if err := inst.SetParams(Params{"rWeight": 1.0, "gWeight": 1.0, "bWeight": 1.0}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	vals, _ := inst.ColorNode().UniformValue("weights")
	for i, v := range vals[:3] {
		if math.Abs(float64(v)-1.0/3) > 1e-6 {
			t.Errorf("weight %d = %v, want 1/3", i, v)
		}
	}

	px := inst.ColorNode().Eval(4, 4, 8, 8)
	want := (0.2 + 0.4 + 0.8) / 3
	if math.Abs(float64(px[0])-want) > 0.01 {
		t.Errorf("gray value = %v, want %v", px[0], want)
	}
	if px[0] != px[1] || px[1] != px[2] {
		t.Errorf("output not gray: %v", px)
	}

	// All-zero weights fall back to the division floor instead of NaN.
	if err := inst.SetParams(Params{"rWeight": 0.0, "gWeight": 0.0, "bWeight": 0.0}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	px = inst.ColorNode().Eval(4, 4, 8, 8)
	if math.IsNaN(float64(px[0])) {
		t.Error("zero weights produced NaN")
	}
}

func TestChromaticAberrationCenterIsUnshifted(t *testing.T) {
	c := relight.RGB(0.25, 0.5, 0.75)
	src := flatPixmap(16, 16, c)
	inst := buildOn(t, ChromaticAberration(), src)

	px := inst.ColorNode().Eval(7, 7, 16, 16)
	want := [3]float64{c.R, c.G, c.B}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(px[i])-want[i]) > 0.01 {
			t.Errorf("channel %d = %v, want %v", i, px[i], want[i])
		}
	}
}

func TestChromaticAberrationVignetteDarkensCorners(t *testing.T) {
	src := flatPixmap(32, 32, relight.White)
	inst := buildOn(t, ChromaticAberration(), src)
	g := inst.ColorNode()

	center := g.Eval(15, 15, 32, 32)
	corner := g.Eval(0, 0, 32, 32)
	if corner[1] >= center[1] {
		t.Errorf("corner %v not darker than center %v", corner[1], center[1])
	}
}

func TestHalftoneDotAtCellCenter(t *testing.T) {
	src := flatPixmap(16, 16, relight.Black)
	inst := buildOn(t, Halftone(), src)
	if err := inst.SetParams(Params{"angle": 0.0, "dotSize": 8.0}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	g := inst.ColorNode()

	// Black input: full-radius dot, so the cell center is solid ink.
	px := g.Eval(4, 4, 16, 16)
	if px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("cell center = %v, want black ink", px)
	}

	// White input: zero radius, so a pixel away from the center stays paper.
	inst.UpdateTexture(flatPixmap(16, 16, relight.White))
	px = g.Eval(0, 0, 16, 16)
	if px[0] != 1 || px[1] != 1 || px[2] != 1 {
		t.Errorf("paper = %v, want white", px)
	}
}

func TestHalftoneColorModeTintsInk(t *testing.T) {
	c := relight.RGB(0.8, 0.2, 0.1)
	src := flatPixmap(16, 16, c)
	inst := buildOn(t, Halftone(), src)
	if err := inst.SetParams(Params{"angle": 0.0, "dotSize": 8.0, "color": true}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}

	// Inside the dot the ink carries the sampled color, not black.
	px := inst.ColorNode().Eval(4, 4, 16, 16)
	if px[0] <= px[1] || px[0] <= px[2] {
		t.Errorf("tinted ink = %v, want red-dominant", px)
	}
}

func TestHalftoneModesDiffer(t *testing.T) {
	src := flatPixmap(32, 32, gray(0.5))
	inst := buildOn(t, Halftone(), src)

	means := make(map[float64]float64)
	for _, mode := range []float64{HalftoneModeDots, HalftoneModeRings, HalftoneModeGooey} {
		if err := inst.SetParams(Params{"mode": mode}); err != nil {
			t.Fatalf("SetParams(mode=%v): %v", mode, err)
		}
		means[mode] = evalMean(t, inst, 32, 32)
	}
	if means[HalftoneModeDots] == means[HalftoneModeRings] {
		t.Error("dots and rings modes render identically")
	}
}

func TestHalftoneCMYKExtremes(t *testing.T) {
	inst := buildOn(t, HalftoneCMYK(), flatPixmap(24, 24, relight.Black))
	if m := evalMean(t, inst, 24, 24); m > 0.15 {
		t.Errorf("black input mean = %v, want < 0.15", m)
	}

	inst.UpdateTexture(flatPixmap(24, 24, relight.White))
	if m := evalMean(t, inst, 24, 24); m < 0.85 {
		t.Errorf("white input mean = %v, want > 0.85", m)
	}
}

func TestHalftoneCMYKDensityMonotone(t *testing.T) {
	inst := buildOn(t, HalftoneCMYK(), flatPixmap(24, 24, gray(0.25)))
	dark := evalMean(t, inst, 24, 24)
	inst.UpdateTexture(flatPixmap(24, 24, gray(0.75)))
	light := evalMean(t, inst, 24, 24)
	if dark >= light {
		t.Errorf("darker input %v not darker than lighter input %v", dark, light)
	}
}

func TestHalftoneCMYKDotAreaTracksCoverage(t *testing.T) {
	// Isolate the black plate on two flat gray patches. Dot radius grows
	// with sqrt(coverage), so the inked area fraction, measured as mean
	// darkness, must scale linearly with coverage: doubling the coverage
	// roughly doubles the ink, where a linear-radius law would quadruple it.
	inst := buildOn(t, HalftoneCMYK(), flatPixmap(48, 48, gray(0.8)))
	if err := inst.SetParams(Params{
		"strengthC": 0.0, "strengthM": 0.0, "strengthY": 0.0, "pixelSize": 1.0,
	}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	inkAt := func(v float64) float64 {
		inst.UpdateTexture(flatPixmap(48, 48, gray(v)))
		return 1 - evalMean(t, inst, 48, 48)
	}

	low := inkAt(0.8)  // coverage 0.2
	high := inkAt(0.6) // coverage 0.4
	if low <= 0 {
		t.Fatalf("low-coverage ink = %v, want > 0", low)
	}
	ratio := high / low
	if ratio < 1.5 || ratio > 3.0 {
		t.Errorf("ink ratio = %v, want about 2 (area law), 4 would mean linear radius", ratio)
	}
}

func TestHalftoneCMYKStrengthZeroRemovesPlate(t *testing.T) {
	// Pure red input inks the magenta and yellow plates. Zeroing their
	// strengths leaves only paper.
	inst := buildOn(t, HalftoneCMYK(), flatPixmap(24, 24, relight.RGB(1, 0, 0)))
	inked := evalMean(t, inst, 24, 24)
	if err := inst.SetParams(Params{
		"strengthC": 0.0, "strengthM": 0.0, "strengthY": 0.0, "strengthK": 0.0,
	}); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	blank := evalMean(t, inst, 24, 24)
	if blank <= inked {
		t.Errorf("zero-strength mean %v not brighter than default %v", blank, inked)
	}
	if blank < 0.95 {
		t.Errorf("zero-strength mean = %v, want near 1", blank)
	}
}
