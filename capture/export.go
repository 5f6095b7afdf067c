// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"sync/atomic"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/render"
	"github.com/gogpu/relight/scene"
	"github.com/spf13/afero"
)

// Format selects the animation export container.
type Format string

const (
	// FormatZIP writes one numbered PNG per sweep step into a ZIP archive.
	FormatZIP Format = "zip"

	// FormatGIF writes an animated GIF with Floyd-Steinberg quantization.
	FormatGIF Format = "gif"
)

// Errors returned by ExportAnimation before any stateful mutation begins.
var (
	ErrExportInFlight    = errors.New("capture: export already in flight")
	ErrUnsupportedFormat = errors.New("capture: unsupported export format")
)

// ExportOptions configures an animation export.
type ExportOptions struct {
	// Steps is the number of frames in the sweep. Must be positive.
	Steps int

	// FromAzimuth and ToAzimuth bound the light sweep in degrees. The
	// azimuth at step i is From + (To-From)*i/(Steps-1); elevation stays
	// at the engine's current value.
	FromAzimuth, ToAzimuth float64

	// Width and Height set the frame resolution. Zero uses the size of
	// the presentable surface.
	Width, Height int

	// Format selects the container. Empty means FormatZIP.
	Format Format

	// Dither enables ordered dithering before 8-bit quantization.
	Dither bool

	// DelayCS is the GIF inter-frame delay in hundredths of a second.
	// Zero means 5 (20 fps). Ignored for ZIP.
	DelayCS int

	// Progress, when set, receives the integer percent complete after
	// each step. Values are monotonically non-decreasing and end at 100.
	Progress func(percent int)
}

// exportInFlight guards against re-entrant export: a second export started
// while one runs (e.g., from a progress callback) is rejected, not queued.
var exportInFlight atomic.Bool

// ExportAnimation renders a light sweep and writes it to path on fsys (nil
// means the OS filesystem). Frames are produced strictly sequentially:
// each step sets the azimuth, renders, and reads back before the next
// begins. The loop lease and the engine's light are restored in deferred
// cleanup regardless of outcome; ctx is consulted between steps.
func ExportAnimation(ctx context.Context, eng *render.Engine, fsys afero.Fs, path string, opts ExportOptions) error {
	// Every check here runs before any stateful mutation.
	switch opts.Format {
	case "", FormatZIP, FormatGIF:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
	if opts.Steps <= 0 {
		return fmt.Errorf("capture: export needs a positive step count, got %d", opts.Steps)
	}
	if eng.Source() == nil {
		return render.ErrNoSource
	}
	if !exportInFlight.CompareAndSwap(false, true) {
		return ErrExportInFlight
	}
	defer exportInFlight.Store(false)

	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = eng.Present().Width(), eng.Present().Height()
	}

	target := render.NewFloatTarget(w, h)
	lease, err := eng.Loop().AcquireLease(target)
	if err != nil {
		return err
	}
	defer lease.Release()

	saved := eng.Light()
	defer eng.SetLight(saved)

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", path, err)
	}
	defer f.Close()

	azimuths := scene.Sweep(opts.FromAzimuth, opts.ToAzimuth, opts.Steps)
	relight.Logger().Info("animation export started",
		"steps", opts.Steps, "format", containerName(opts.Format), "path", path)

	if opts.Format == FormatGIF {
		return exportGIF(ctx, eng, target, f, azimuths, opts)
	}
	return exportZIP(ctx, eng, target, f, azimuths, opts)
}

// renderStep produces the encoded frame for one sweep step. Set azimuth,
// render, read back — in that order, never reordered.
func renderStep(ctx context.Context, eng *render.Engine, target *render.FloatTarget, azimuth float64, dither bool) (*relight.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := eng.Light()
	l.Azimuth = azimuth
	eng.SetLight(l)
	if err := eng.RenderInto(target); err != nil {
		return nil, err
	}
	return render.EncodeFrame(target, dither), nil
}

func exportZIP(ctx context.Context, eng *render.Engine, target *render.FloatTarget, out io.Writer, azimuths []float64, opts ExportOptions) error {
	zw := zip.NewWriter(out)
	for i, az := range azimuths {
		pm, err := renderStep(ctx, eng, target, az, opts.Dither)
		if err != nil {
			return err
		}
		entry, err := zw.Create(frameName(i))
		if err != nil {
			return fmt.Errorf("capture: create archive entry %d: %w", i, err)
		}
		if err := pm.EncodePNG(entry); err != nil {
			return fmt.Errorf("capture: encode frame %d: %w", i, err)
		}
		reportProgress(opts.Progress, i+1, len(azimuths))
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("capture: finalize archive: %w", err)
	}
	return nil
}

func exportGIF(ctx context.Context, eng *render.Engine, target *render.FloatTarget, out io.Writer, azimuths []float64, opts ExportOptions) error {
	delay := opts.DelayCS
	if delay <= 0 {
		delay = 5
	}
	anim := &gif.GIF{LoopCount: 0}
	for i, az := range azimuths {
		pm, err := renderStep(ctx, eng, target, az, opts.Dither)
		if err != nil {
			return err
		}
		src := pm.ToImage()
		frame := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(frame, frame.Bounds(), src, image.Point{})
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
		reportProgress(opts.Progress, i+1, len(azimuths))
	}
	if err := gif.EncodeAll(out, anim); err != nil {
		return fmt.Errorf("capture: encode gif: %w", err)
	}
	return nil
}

// frameName returns the archive entry name for step i. Zero padding keeps
// lexicographic order equal to numeric order.
func frameName(i int) string {
	return fmt.Sprintf("frame_%04d.png", i)
}

func reportProgress(fn func(int), done, total int) {
	if fn != nil {
		fn(done * 100 / total)
	}
}

func containerName(f Format) string {
	if f == "" {
		return string(FormatZIP)
	}
	return string(f)
}
