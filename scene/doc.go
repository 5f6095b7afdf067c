// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene holds the non-pixel state of a relighting session: the
// synthetic light, the camera, the surface material, and the serializable
// settings record tying them together.
package scene
