// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws the relit frame: the source image shaded by the
// synthetic raking light, with the active effect graph applied per pixel.
//
// # Core pieces
//
//   - RenderTarget: where output goes. PixmapTarget is the 8-bit presentable
//     surface; FloatTarget is the high-precision offscreen target the capture
//     path renders into before tone mapping.
//   - Renderer: produces one deterministic frame of the scene into a
//     FloatTarget. Effect-graph evaluation goes through the graph package,
//     which transparently uses a registered GPU kernel executor and falls
//     back to the CPU evaluator otherwise.
//   - Loop: the vsync-style frame loop with pause/resume. Capture operations
//     never call Pause directly; they take a Lease that redirects output to
//     an offscreen target and restores everything on Release, success or
//     failure.
//   - Engine: session state (light, camera, material, effect runtime) plus
//     settings import/export.
//
// # Color pipeline
//
// The renderer works in linear float32. Presenting or capturing quantizes
// through one shared path: Reinhard tone map, sRGB gamma encode, optional
// ordered dithering, 8-bit truncation. Snapshots therefore match the
// on-screen appearance exactly.
//
// # Thread safety
//
// The renderer and engine are confined to the render goroutine. Loop and
// Lease are safe for concurrent use.
package render
