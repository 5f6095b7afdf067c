// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture implements deterministic frame capture and animation
// export on top of the render engine.
//
// Both Snapshot and ExportAnimation render into an offscreen high-precision
// target held under an exclusive lease: the live loop is paused and its
// output redirected for the duration of the capture, and the lease release
// in a deferred cleanup restores the presentable surface unconditionally,
// success or failure. Captured frames pass through the same tone-mapping
// pipeline as the live display, so exports match the on-screen appearance.
//
// Snapshot optionally crops the frame to the projected bounds of a world
// subject; a subject entirely outside the frustum degrades to a full-frame
// capture rather than an error. ExportAnimation sweeps the light azimuth
// over a fixed number of steps, strictly sequentially, and writes either a
// ZIP of numbered PNG frames or an animated GIF.
package capture
