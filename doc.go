// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package relight renders a 2D image on a relightable 3D surface and
// reproduces the raking-light inspection technique used in Reflectance
// Transformation Imaging (RTI).
//
// # Overview
//
// relight is a Pure Go library designed to integrate with the GoGPU
// ecosystem. It provides two subsystems:
//
//   - A shader-graph effect pipeline: image-processing filters (normal map,
//     Sobel edges, emboss, grayscale, chromatic aberration, halftone, CMYK
//     halftone) built as typed node graphs that compile once to WGSL and
//     expose live uniforms for parameter updates without recompilation.
//   - A deterministic frame-capture and animation-export engine: offscreen
//     high-precision rendering, exact pixel readback, tone mapping, optional
//     dithering, cropping, and PNG/ZIP/GIF encoding.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/relight/effect"
//	    "github.com/gogpu/relight/imageio"
//	)
//
//	src, _ := imageio.Load("coin.png")
//	rt := effect.NewRuntime(effect.DefaultRegistry())
//	rt.UpdateTexture(src)
//	rt.Select("Normal Map")
//	rt.SetParam("strength", 4.0)
//
// # Architecture
//
// The library is organized into:
//   - Root package: Pixmap, RGBA, logging, kernel executor registry
//   - graph: shader-graph IR with WGSL compile step and CPU evaluator
//   - effect: effect definitions, registry, runtime state machine
//   - scene: light, camera, material, settings serialization
//   - render: render targets, software renderer, loop lease
//   - capture: screen-rect projection, snapshot, animation export
//   - gpu: optional wgpu compute execution (blank import to enable)
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - UV coordinates in [0,1] with (0,0) at the top-left texel
//
// # Rendering
//
// The CPU evaluator is always available and is the reference semantics for
// every compiled graph. Importing the gpu package registers a wgpu compute
// executor; when execution on the device fails the library transparently
// falls back to the CPU path.
package relight

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)