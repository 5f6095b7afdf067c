// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

// Material describes how the relief surface responds to the light.
type Material struct {
	// Shininess is the Phong specular exponent.
	Shininess float64 `json:"shininess"`

	// Diffuse scales the diffuse lighting term.
	Diffuse float64 `json:"diffuse"`

	// Specular scales the specular highlight term.
	Specular float64 `json:"specular"`

	// Ambient is the constant light floor so shadowed regions stay legible.
	Ambient float64 `json:"ambient"`

	// Dither enables ordered dithering when the presented frame is
	// quantized to 8 bits. Capture carries its own dither option.
	Dither bool `json:"dither"`
}

// DefaultMaterial returns the standard inspection material.
func DefaultMaterial() Material {
	return Material{
		Shininess: 32,
		Diffuse:   1,
		Specular:  0.4,
		Ambient:   0.15,
		Dither:    true,
	}
}
