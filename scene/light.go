// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "math"

// Light is the synthetic raking light. Azimuth is the compass direction of
// the light in degrees, normalized to [0, 360); elevation is the angle above
// the surface plane in degrees, clamped to [0, 90]. Elevation 90 is straight
// overhead, low elevations produce the grazing light that makes surface
// relief visible.
type Light struct {
	Azimuth   float64
	Elevation float64
}

// DefaultLight returns a light at azimuth 315 (upper-left), elevation 45.
func DefaultLight() Light {
	return Light{Azimuth: 315, Elevation: 45}
}

// Normalized returns the light with azimuth wrapped to [0, 360) and
// elevation clamped to [0, 90].
func (l Light) Normalized() Light {
	az := math.Mod(l.Azimuth, 360)
	if az < 0 {
		az += 360
	}
	el := l.Elevation
	if el < 0 {
		el = 0
	} else if el > 90 {
		el = 90
	}
	return Light{Azimuth: az, Elevation: el}
}

// Direction returns the unit vector pointing from the surface toward the
// light. The surface lies in the XY plane with +Z up; azimuth 0 points along
// +X and grows counter-clockwise.
func (l Light) Direction() Vec3 {
	n := l.Normalized()
	az := n.Azimuth * math.Pi / 180
	el := n.Elevation * math.Pi / 180
	return Vec3{
		X: math.Cos(el) * math.Cos(az),
		Y: math.Cos(el) * math.Sin(az),
		Z: math.Sin(el),
	}
}

// Sweep returns the azimuth trajectory of an animated light sweep: steps
// values from from to to inclusive, evenly spaced. The value at step i is
// from + (to-from)*i/(steps-1). A single step yields just from; zero or
// negative steps yield nil.
func Sweep(from, to float64, steps int) []float64 {
	if steps <= 0 {
		return nil
	}
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = from
		return out
	}
	span := to - from
	for i := range out {
		out[i] = from + span*float64(i)/float64(steps-1)
	}
	return out
}
