// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/render"
	"github.com/gogpu/relight/scene"
)

// SnapshotOptions configures a single-frame capture.
type SnapshotOptions struct {
	// Width and Height set the capture resolution. Zero uses the size of
	// the presentable surface.
	Width, Height int

	// Subject, when set, crops the output to the projected bounds of this
	// world-space box. A subject outside the frustum captures the full
	// frame.
	Subject *scene.Box

	// Dither enables ordered dithering before 8-bit quantization.
	Dither bool
}

// Snapshot captures one frame of the engine's current state and returns it
// PNG-encoded. The render loop is paused and redirected under a lease for
// the duration; the deferred release restores the live display even when
// the capture fails.
func Snapshot(ctx context.Context, eng *render.Engine, opts SnapshotOptions) ([]byte, error) {
	// Fail before any stateful mutation.
	if eng.Source() == nil {
		return nil, render.ErrNoSource
	}
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = eng.Present().Width(), eng.Present().Height()
	}

	target := render.NewFloatTarget(w, h)
	lease, err := eng.Loop().AcquireLease(target)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := eng.RenderInto(target); err != nil {
		return nil, err
	}
	pm := render.EncodeFrame(target, opts.Dither)

	img := pm.ToImage()
	rect := img.Bounds()
	if opts.Subject != nil {
		rect = ProjectBounds(eng.Camera(), *opts.Subject, w, h)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img.SubImage(rect)); err != nil {
		return nil, fmt.Errorf("capture: encode snapshot: %w", err)
	}
	relight.Logger().Debug("snapshot captured",
		"width", rect.Dx(), "height", rect.Dy(), "bytes", buf.Len())
	return buf.Bytes(), nil
}
