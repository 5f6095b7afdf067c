// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/render"
	"github.com/gogpu/relight/scene"
)

func testEngine(t *testing.T, w, h int) *render.Engine {
	t.Helper()
	eng := render.NewEngine(w, h)
	src := relight.NewPixmap(w, h)
	src.Clear(relight.White)
	if err := eng.SetSource(src); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	return eng
}

func TestSnapshotProducesDecodablePNG(t *testing.T) {
	eng := testEngine(t, 16, 16)
	data, err := Snapshot(context.Background(), eng, SnapshotOptions{})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("size = %dx%d, want 16x16", b.Dx(), b.Dy())
	}
	if eng.Loop().Paused() {
		t.Error("loop still paused after snapshot")
	}
	if eng.Loop().Target() != render.RenderTarget(eng.Present()) {
		t.Error("presentable target not restored")
	}
}

func TestSnapshotCustomResolution(t *testing.T) {
	eng := testEngine(t, 16, 16)
	data, err := Snapshot(context.Background(), eng, SnapshotOptions{Width: 32, Height: 24})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("size = %v, want 32x24", img.Bounds())
	}
}

func TestSnapshotCropsToSubject(t *testing.T) {
	eng := testEngine(t, 32, 32)
	subject := scene.Box{
		Min: scene.Vec3{X: -0.25, Y: -0.25, Z: -0.1},
		Max: scene.Vec3{X: 0.25, Y: 0.25, Z: 0.1},
	}
	data, err := Snapshot(context.Background(), eng, SnapshotOptions{Subject: &subject})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() >= 32 || img.Bounds().Dy() >= 32 {
		t.Errorf("crop = %v, want smaller than the 32x32 frame", img.Bounds())
	}
}

func TestSnapshotDegenerateSubjectCapturesFullFrame(t *testing.T) {
	eng := testEngine(t, 16, 16)
	behind := scene.Box{
		Min: scene.Vec3{X: -1, Y: -1, Z: 3},
		Max: scene.Vec3{X: 1, Y: 1, Z: 4},
	}
	data, err := Snapshot(context.Background(), eng, SnapshotOptions{Subject: &behind})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Errorf("size = %v, want full 16x16 frame", img.Bounds())
	}
}

func TestSnapshotWithoutSourceFailsBeforeMutation(t *testing.T) {
	eng := render.NewEngine(8, 8)
	if _, err := Snapshot(context.Background(), eng, SnapshotOptions{}); !errors.Is(err, render.ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
	if eng.Loop().Paused() {
		t.Error("failed snapshot left the loop paused")
	}
}

func TestSnapshotRestoresLoopOnFailure(t *testing.T) {
	eng := testEngine(t, 8, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Snapshot(ctx, eng, SnapshotOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if eng.Loop().Paused() {
		t.Error("failed snapshot left the loop paused")
	}
	if eng.Loop().Target() != render.RenderTarget(eng.Present()) {
		t.Error("failed snapshot left the target redirected")
	}
}

func TestSnapshotWhileLeased(t *testing.T) {
	eng := testEngine(t, 8, 8)
	lease, err := eng.Loop().AcquireLease(render.NewFloatTarget(8, 8))
	if err != nil {
		t.Fatalf("AcquireLease: %v", err)
	}
	defer lease.Release()
	if _, err := Snapshot(context.Background(), eng, SnapshotOptions{}); !errors.Is(err, render.ErrTargetLeased) {
		t.Errorf("err = %v, want ErrTargetLeased", err)
	}
}
