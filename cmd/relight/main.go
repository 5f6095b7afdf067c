// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command relight renders a raking-light view of an image and exports
// snapshots or animated light sweeps.
//
// Usage:
//
//	relight -input painting.png -effect "Normal Map" -out normals.png
//	relight -input scan.zip -sweep 36 -format gif -out sweep.gif
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/relight"
	"github.com/gogpu/relight/capture"
	"github.com/gogpu/relight/effect"
	"github.com/gogpu/relight/imageio"
	"github.com/gogpu/relight/render"
	"github.com/gogpu/relight/scene"

	// Enable GPU kernel execution when a device is available.
	_ "github.com/gogpu/relight/gpu"
)

// paramFlags collects repeated -param k=v flags into an effect parameter
// record. Values parse as float, then bool, then string.
type paramFlags map[string]any

func (p paramFlags) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (p paramFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		p[k] = f
		return nil
	}
	if b, err := strconv.ParseBool(v); err == nil {
		p[k] = b
		return nil
	}
	p[k] = v
	return nil
}

func main() {
	var (
		input      = flag.String("input", "", "source image or archive (png, jpeg, gif, bmp, tiff, zip, 7z)")
		effectName = flag.String("effect", "", "effect to apply (empty for none)")
		azimuth    = flag.Float64("azimuth", 315, "light azimuth in degrees")
		elevation  = flag.Float64("elevation", 45, "light elevation in degrees")
		sweep      = flag.Int("sweep", 0, "animation steps for a full 360-degree sweep (0 for a single snapshot)")
		format     = flag.String("format", "zip", "sweep container: zip or gif")
		dither     = flag.Bool("dither", false, "dither before 8-bit quantization")
		output     = flag.String("out", "", "output file (default snapshot.png or sweep.<format>)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	params := paramFlags{}
	flag.Var(params, "param", "effect parameter as key=value (repeatable)")
	flag.Parse()

	if *verbose {
		relight.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if *input == "" {
		log.Fatal("missing -input")
	}

	src, err := imageio.Load(*input)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}

	eng := render.NewEngine(src.Width(), src.Height())
	if err := eng.SetSource(src); err != nil {
		log.Fatalf("Failed to set source: %v", err)
	}
	eng.SetLight(scene.Light{Azimuth: *azimuth, Elevation: *elevation})

	if *effectName != "" {
		if err := eng.Effects().Select(*effectName); err != nil {
			log.Fatalf("Failed to select effect: %v (have: %s)",
				err, strings.Join(eng.Effects().Registry().Names(), ", "))
		}
		if len(params) > 0 {
			if err := eng.Effects().SetParams(effect.Params(params)); err != nil {
				log.Fatalf("Failed to set effect parameters: %v", err)
			}
		}
	}

	ctx := context.Background()
	if *sweep > 0 {
		exportSweep(ctx, eng, *sweep, *format, *dither, *output)
		return
	}
	snapshot(ctx, eng, *dither, *output)
}

func snapshot(ctx context.Context, eng *render.Engine, dither bool, out string) {
	if out == "" {
		out = "snapshot.png"
	}
	data, err := capture.Snapshot(ctx, eng, capture.SnapshotOptions{Dither: dither})
	if err != nil {
		log.Fatalf("Snapshot failed: %v", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	log.Printf("Snapshot saved to %s (%dx%d)", out, eng.Present().Width(), eng.Present().Height())
}

func exportSweep(ctx context.Context, eng *render.Engine, steps int, format string, dither bool, out string) {
	if out == "" {
		out = "sweep." + format
	}
	last := -1
	err := capture.ExportAnimation(ctx, eng, nil, out, capture.ExportOptions{
		Steps:       steps,
		FromAzimuth: 0,
		ToAzimuth:   360,
		Format:      capture.Format(format),
		Dither:      dither,
		Progress: func(p int) {
			if p/10 != last/10 {
				log.Printf("Export %d%%", p)
			}
			last = p
		},
	})
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	log.Printf("Sweep saved to %s (%d frames)", out, steps)
}
