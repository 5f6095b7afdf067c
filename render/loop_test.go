// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"
)

func TestLoopTickAndPause(t *testing.T) {
	loop := NewLoop(NewPixmapTarget(4, 4))
	ticks := 0
	loop.SetOnFrame(func(RenderTarget) { ticks++ })

	loop.Tick()
	loop.Tick()
	if ticks != 2 {
		t.Fatalf("ticks = %d, want 2", ticks)
	}

	loop.Pause()
	loop.Tick()
	if ticks != 2 {
		t.Errorf("paused loop ticked")
	}
	loop.Resume()
	loop.Tick()
	if ticks != 3 {
		t.Errorf("resumed loop did not tick")
	}
}

func TestLoopPauseNests(t *testing.T) {
	loop := NewLoop(NewPixmapTarget(4, 4))
	loop.Pause()
	loop.Pause()
	loop.Resume()
	if !loop.Paused() {
		t.Error("loop resumed with one Pause outstanding")
	}
	loop.Resume()
	if loop.Paused() {
		t.Error("loop still paused")
	}
}

func TestLeaseRedirectsAndRestores(t *testing.T) {
	present := NewPixmapTarget(4, 4)
	loop := NewLoop(present)
	offscreen := NewFloatTarget(8, 8)

	lease, err := loop.AcquireLease(offscreen)
	if err != nil {
		t.Fatalf("AcquireLease: %v", err)
	}
	if loop.Target() != RenderTarget(offscreen) {
		t.Error("output not redirected to the offscreen target")
	}
	if !loop.Paused() {
		t.Error("loop not paused while leased")
	}

	lease.Release()
	if loop.Target() != RenderTarget(present) {
		t.Error("presentable target not restored")
	}
	if loop.Paused() {
		t.Error("loop still paused after release")
	}
}

func TestLeaseIsExclusive(t *testing.T) {
	loop := NewLoop(NewPixmapTarget(4, 4))
	lease, err := loop.AcquireLease(NewFloatTarget(4, 4))
	if err != nil {
		t.Fatalf("AcquireLease: %v", err)
	}
	if _, err := loop.AcquireLease(NewFloatTarget(4, 4)); !errors.Is(err, ErrTargetLeased) {
		t.Errorf("second lease err = %v, want ErrTargetLeased", err)
	}
	lease.Release()
	second, err := loop.AcquireLease(NewFloatTarget(4, 4))
	if err != nil {
		t.Fatalf("lease after release: %v", err)
	}
	second.Release()
}

func TestLeaseReleaseIdempotent(t *testing.T) {
	loop := NewLoop(NewPixmapTarget(4, 4))
	loop.Pause()
	lease, err := loop.AcquireLease(NewFloatTarget(4, 4))
	if err != nil {
		t.Fatalf("AcquireLease: %v", err)
	}
	lease.Release()
	lease.Release()
	// The caller's own Pause must survive a double release.
	if !loop.Paused() {
		t.Error("double release consumed an unrelated pause")
	}
}
