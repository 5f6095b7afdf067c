// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"sync"

	"github.com/gogpu/relight"
)

// ErrTargetLeased is returned by AcquireLease while another lease is held.
var ErrTargetLeased = errors.New("render: target already leased")

// Loop is the vsync-style frame loop. The host calls Tick on every display
// refresh; the loop invokes the frame callback with the current output
// target unless it is paused.
//
// Capture operations do not call Pause directly. They take a Lease, which
// pauses the loop and redirects output to an offscreen target in one step,
// and restores both on Release no matter how the capture ends.
//
// Loop is safe for concurrent use.
type Loop struct {
	mu      sync.Mutex
	present RenderTarget
	target  RenderTarget
	pause   int
	leased  bool
	onFrame func(RenderTarget)
}

// NewLoop creates a loop presenting to the given surface.
func NewLoop(present RenderTarget) *Loop {
	return &Loop{present: present, target: present}
}

// SetOnFrame installs the per-frame callback.
func (l *Loop) SetOnFrame(fn func(RenderTarget)) {
	l.mu.Lock()
	l.onFrame = fn
	l.mu.Unlock()
}

// Target returns the current output binding: the presentable surface, or
// the leased offscreen target while a capture is in progress.
func (l *Loop) Target() RenderTarget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

// Tick runs one frame. It is a no-op while the loop is paused or no
// callback is installed.
func (l *Loop) Tick() {
	l.mu.Lock()
	fn, target := l.onFrame, l.target
	paused := l.pause > 0
	l.mu.Unlock()
	if paused || fn == nil {
		return
	}
	fn(target)
}

// Pause suspends frame callbacks. Calls nest; each Pause needs a matching
// Resume.
func (l *Loop) Pause() {
	l.mu.Lock()
	l.pause++
	l.mu.Unlock()
}

// Resume re-enables frame callbacks after a matching Pause.
func (l *Loop) Resume() {
	l.mu.Lock()
	if l.pause > 0 {
		l.pause--
	}
	l.mu.Unlock()
}

// Paused reports whether frame callbacks are currently suspended.
func (l *Loop) Paused() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pause > 0
}

// AcquireLease pauses the loop and redirects output to the offscreen
// target, returning the lease that undoes both. Only one lease can be held
// at a time; a second acquisition fails with ErrTargetLeased.
func (l *Loop) AcquireLease(offscreen RenderTarget) (*Lease, error) {
	if offscreen == nil {
		return nil, errors.New("render: nil offscreen target")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.leased {
		return nil, ErrTargetLeased
	}
	l.leased = true
	l.pause++
	l.target = offscreen
	relight.Logger().Debug("render target leased",
		"width", offscreen.Width(), "height", offscreen.Height())
	return &Lease{loop: l, offscreen: offscreen}, nil
}

// Lease is a scoped exclusive claim on the render output. While held, the
// loop is paused and output goes to the offscreen target.
type Lease struct {
	loop      *Loop
	offscreen RenderTarget
	released  bool
}

// Target returns the leased offscreen target.
func (le *Lease) Target() RenderTarget { return le.offscreen }

// Release restores the presentable target and resumes the loop. It is
// idempotent and runs unconditionally in capture cleanup paths, so a failed
// readback can never leave the display paused or redirected.
func (le *Lease) Release() {
	if le.released {
		return
	}
	le.released = true
	l := le.loop
	l.mu.Lock()
	l.target = l.present
	if l.pause > 0 {
		l.pause--
	}
	l.leased = false
	l.mu.Unlock()
	relight.Logger().Debug("render target lease released")
}
