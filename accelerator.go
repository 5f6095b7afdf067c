// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package relight

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the kernel executor cannot handle this
// operation. The caller should transparently fall back to CPU evaluation.
var ErrFallbackToCPU = errors.New("relight: falling back to CPU evaluation")

// KernelSpec describes one compiled per-pixel image kernel ready for
// execution. The WGSL source is produced by the graph package's compile
// step; executors never see the node graph itself.
type KernelSpec struct {
	// WGSL is the complete compute shader source.
	WGSL string

	// Entry is the compute entry point name, typically "main".
	Entry string

	// UniformWords is the size of the uniform block in 32-bit words.
	UniformWords int
}

// KernelExecutor is an optional GPU execution provider for compiled kernels.
//
// When registered via RegisterExecutor, graph evaluation tries the executor
// first. If the executor returns ErrFallbackToCPU or any error, evaluation
// transparently falls back to the CPU path.
//
// Implementations are provided by GPU backend packages (relight/gpu).
// Users opt in to GPU execution via blank import:
//
//	import _ "github.com/gogpu/relight/gpu" // enables GPU kernel execution
type KernelExecutor interface {
	// Name returns the executor name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// Supported reports whether the executor can run compute kernels at all.
	// This is a fast check used to fail before any stateful mutation begins.
	Supported() bool

	// Execute runs the kernel over a width x height grid. src is the source
	// image in RGBA8 row-major layout with no padding; uniforms is the packed
	// uniform block; dst receives one RGBA float32 quadruple per pixel.
	// Returns ErrFallbackToCPU if the kernel cannot run on the device.
	Execute(spec KernelSpec, uniforms []float32, src []uint8, srcW, srcH int, dst []float32, width, height int) error
}

// DeviceProviderAware is an optional interface for executors that can share
// GPU resources with an external provider (e.g., a gogpu window).
// When SetDeviceProvider is called, the executor reuses the provided GPU
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	execMu   sync.RWMutex
	executor KernelExecutor
)

// RegisterExecutor registers a kernel executor for optional GPU execution.
//
// Only one executor can be registered. Subsequent calls replace the previous
// one. The executor's Init() method is called during registration. If Init()
// fails, the executor is not registered and the error is returned.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    relight.RegisterExecutor(NewWGPUExecutor())
//	}
func RegisterExecutor(e KernelExecutor) error {
	if e == nil {
		return errors.New("relight: nil executor")
	}
	if err := e.Init(); err != nil {
		return err
	}

	execMu.Lock()
	old := executor
	executor = e
	execMu.Unlock()

	if old != nil {
		old.Close()
	}
	propagateLogger(e, Logger())
	Logger().Info("kernel executor registered", "name", e.Name())
	return nil
}

// ActiveExecutor returns the registered kernel executor, or nil if GPU
// execution is not enabled.
func ActiveExecutor() KernelExecutor {
	execMu.RLock()
	defer execMu.RUnlock()
	return executor
}

// SetExecutorDeviceProvider configures the registered executor to use a
// shared GPU device from an external provider. Returns an error if no
// executor is registered or it does not support device sharing.
func SetExecutorDeviceProvider(provider any) error {
	execMu.RLock()
	e := executor
	execMu.RUnlock()
	if e == nil {
		return errors.New("relight: no executor registered")
	}
	aware, ok := e.(DeviceProviderAware)
	if !ok {
		return errors.New("relight: executor does not support device sharing")
	}
	return aware.SetDeviceProvider(provider)
}