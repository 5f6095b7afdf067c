// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package effect provides the image effect catalog for relight: normal map,
// Sobel edge, emboss, grayscale, chromatic aberration, halftone, and CMYK
// halftone, plus the registry and the runtime state machine that owns the
// live compiled instance.
//
// Each effect is a pure builder from (source image, inverse resolution) to a
// compiled shader graph and a flat parameter record. Parameter updates write
// uniforms on the live graph and never trigger a rebuild; expensive values
// derived from parameters (cosine/sine of angles, normalized weights) are
// computed host-side in the update path and uploaded as uniforms.
package effect
