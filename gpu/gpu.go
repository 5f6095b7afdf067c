//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu registers the wgpu kernel executor for hardware-accelerated
// effect graph evaluation.
//
// Import this package to run compiled image kernels on the GPU. Graph
// evaluation (and everything layered on it: the renderer, frame capture,
// animation export) picks up the executor automatically.
//
// If GPU initialization fails (no Vulkan available, no adapters), the
// registration is skipped with a warning and evaluation falls back to CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/relight/gpu" // enable GPU kernel execution
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/relight"
)

func init() {
	if err := relight.RegisterExecutor(NewExecutor()); err != nil {
		relight.Logger().Warn("GPU kernel executor not available", "err", err)
	}
}

// SetDeviceProvider configures the executor to use a shared GPU device from
// an external provider (e.g., a gogpu window). This avoids creating a
// separate GPU instance when the host application already owns one.
//
// The provider must also implement gpucontext.HalProvider for direct HAL
// access. Call this after the blank import has registered the executor.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return relight.SetExecutorDeviceProvider(provider)
}
