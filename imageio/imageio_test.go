// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package imageio

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// solidPNG encodes a width x height image filled with c.
func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLoadBytesPNG(t *testing.T) {
	pm, err := LoadBytes(solidPNG(t, 6, 4, color.RGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if pm.Width() != 6 || pm.Height() != 4 {
		t.Errorf("size = %dx%d, want 6x4", pm.Width(), pm.Height())
	}
	if got := pm.GetPixel(0, 0); got.R != 1 || got.G != 0 {
		t.Errorf("pixel = %+v, want red", got)
	}
}

func TestLoadBytesBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	pm, err := LoadBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if pm.Width() != 3 || pm.Height() != 3 {
		t.Errorf("size = %dx%d, want 3x3", pm.Width(), pm.Height())
	}
}

func TestLoadBytesRejectsGarbage(t *testing.T) {
	if _, err := LoadBytes([]byte("not an image at all")); err == nil {
		t.Error("garbage accepted")
	}
}

func TestLoadZIPPicksFirstImageByName(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	// Written out of order: selection must follow name order, not archive
	// order.
	for _, e := range []struct {
		name  string
		color color.RGBA
	}{
		{"z_last.png", color.RGBA{B: 255, A: 255}},
		{"readme.txt", color.RGBA{}},
		{"a_first.png", color.RGBA{R: 255, A: 255}},
	} {
		w, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if e.name == "readme.txt" {
			if _, err := w.Write([]byte("notes")); err != nil {
				t.Fatalf("write entry: %v", err)
			}
			continue
		}
		if _, err := w.Write(solidPNG(t, 2, 2, e.color)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	pm, err := LoadBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if got := pm.GetPixel(0, 0); got.R != 1 || got.B != 0 {
		t.Errorf("pixel = %+v, want the red a_first.png entry", got)
	}
}

func TestLoadZIPWithoutImages(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("readme.txt")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte("no pictures here")); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := LoadBytes(buf.Bytes()); !errors.Is(err, ErrNoImage) {
		t.Errorf("err = %v, want ErrNoImage", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "src.png")
	if err := os.WriteFile(name, solidPNG(t, 5, 5, color.RGBA{G: 255, A: 255}), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	pm, err := Load(name)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pm.Width() != 5 {
		t.Errorf("width = %d, want 5", pm.Width())
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLoadReader(t *testing.T) {
	pm, err := LoadReader(bytes.NewReader(solidPNG(t, 2, 2, color.RGBA{A: 255})))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if pm.Width() != 2 || pm.Height() != 2 {
		t.Errorf("size = %dx%d, want 2x2", pm.Width(), pm.Height())
	}
}
