//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/relight"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

const fenceTimeout = 5 * time.Second

// Executor runs compiled image kernels on a wgpu/hal compute device.
//
// One compute pipeline is built per distinct kernel source and cached, so
// uniform updates and texture swaps reuse the pipeline; the steady-state
// cost of a frame is three buffer writes and one dispatch.
//
// Readback convention, pinned here once: kernel output is copied out of a
// storage buffer, which wgpu returns tightly packed, top-left origin,
// row-major. The 256-byte row alignment constraint applies to texture
// copies only, so this path needs no stride or orientation normalization.
type Executor struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	pipelines map[string]*kernelPipeline

	log            *slog.Logger
	ready          bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

// kernelPipeline holds the per-kernel GPU objects, keyed by WGSL source.
type kernelPipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

var _ relight.KernelExecutor = (*Executor)(nil)

// NewExecutor creates an uninitialized executor. Init must be called before
// Execute; RegisterExecutor does this automatically.
func NewExecutor() *Executor {
	return &Executor{pipelines: make(map[string]*kernelPipeline)}
}

func (e *Executor) Name() string { return "wgpu" }

// SetLogger configures the executor's logger. Called by relight when the
// package-level logger changes.
func (e *Executor) SetLogger(l *slog.Logger) {
	e.mu.Lock()
	e.log = l
	e.mu.Unlock()
}

// logger must be called with mu held.
func (e *Executor) logger() *slog.Logger {
	if e.log != nil {
		return e.log
	}
	return relight.Logger()
}

// Init opens the GPU device. It is safe to call more than once.
func (e *Executor) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("gpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("gpu: open device: %w", err)
	}

	e.instance = instance
	e.device = openDev.Device
	e.queue = openDev.Queue
	e.ready = true
	e.logger().Info("GPU kernel executor initialized", "adapter", selected.Info.Name)
	return nil
}

// Supported reports whether the executor can run compute kernels. It is the
// fast capability check callers use before starting stateful work.
func (e *Executor) Supported() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Close releases all GPU resources. Shared devices installed through
// SetDeviceProvider are not destroyed.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyPipelines()
	if !e.externalDevice {
		if e.device != nil {
			e.device.Destroy()
		}
		if e.instance != nil {
			e.instance.Destroy()
		}
	}
	e.instance = nil
	e.device = nil
	e.queue = nil
	e.ready = false
	e.externalDevice = false
}

// SetDeviceProvider switches the executor to a shared GPU device from an
// external provider (e.g., a gogpu window). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (e *Executor) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Drop resources we created ourselves; cached pipelines belong to the
	// old device and must be rebuilt lazily on the shared one.
	e.destroyPipelines()
	if !e.externalDevice && e.device != nil {
		e.device.Destroy()
	}
	if e.instance != nil {
		e.instance.Destroy()
		e.instance = nil
	}

	e.device = device
	e.queue = queue
	e.externalDevice = true
	e.ready = true
	e.logger().Info("GPU kernel executor switched to shared device")
	return nil
}

// Execute runs one compiled kernel over a width x height grid and reads the
// result back into dst. Returns ErrFallbackToCPU when no device is ready.
func (e *Executor) Execute(spec relight.KernelSpec, uniforms []float32, src []uint8, srcW, srcH int, dst []float32, width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return relight.ErrFallbackToCPU
	}
	if len(src) < srcW*srcH*4 {
		return fmt.Errorf("gpu: source buffer too small: %d < %d", len(src), srcW*srcH*4)
	}
	if len(dst) < width*height*4 {
		return fmt.Errorf("gpu: dst buffer too small: %d < %d", len(dst), width*height*4)
	}

	kp, err := e.pipelineFor(spec)
	if err != nil {
		e.logger().Warn("kernel pipeline build failed", "err", err)
		return relight.ErrFallbackToCPU
	}

	uniformBytes := floatsToBytes(uniforms)
	srcWords := packPixelWords(src, srcW*srcH)
	outSize := uint64(width*height) * 16 // one vec4<f32> per pixel

	paramsBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_params", Size: uint64(len(uniformBytes)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create params buffer: %w", err)
	}
	defer e.device.DestroyBuffer(paramsBuf)

	srcBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_src", Size: uint64(len(srcWords)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create source buffer: %w", err)
	}
	defer e.device.DestroyBuffer(srcBuf)

	outBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_out", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create output buffer: %w", err)
	}
	defer e.device.DestroyBuffer(outBuf)

	stagingBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kernel_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer e.device.DestroyBuffer(stagingBuf)

	e.queue.WriteBuffer(paramsBuf, 0, uniformBytes)
	e.queue.WriteBuffer(srcBuf, 0, srcWords)

	bg, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "kernel_bind", Layout: kp.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: uint64(len(uniformBytes))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: uint64(len(srcWords))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer e.device.DestroyBindGroup(bg)

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "kernel_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("kernel"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "kernel_pass"})
	pass.SetPipeline(kp.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((uint32(width)+7)/8, (uint32(height)+7)/8, 1)
	pass.End()
	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)
	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := e.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu: wait for kernel: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := e.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("gpu: readback: %w", err)
	}
	decodeFloats(readback, dst[:width*height*4])
	e.logger().Debug("kernel executed", "size", fmt.Sprintf("%dx%d", width, height), "readback", len(readback))
	return nil
}

// pipelineFor returns the cached compute pipeline for the kernel, building
// it on first use. Must be called with mu held.
func (e *Executor) pipelineFor(spec relight.KernelSpec) (*kernelPipeline, error) {
	if kp, ok := e.pipelines[spec.WGSL]; ok {
		return kp, nil
	}

	spirv, err := compileToSPIRV(spec.WGSL)
	if err != nil {
		return nil, fmt.Errorf("compile kernel: %w", err)
	}
	shader, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "image_kernel",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}

	bindLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kernel_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		e.device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	pipeLayout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "kernel_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		e.device.DestroyBindGroupLayout(bindLayout)
		e.device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	pipeline, err := e.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "kernel_pipeline", Layout: pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: spec.Entry},
	})
	if err != nil {
		e.device.DestroyPipelineLayout(pipeLayout)
		e.device.DestroyBindGroupLayout(bindLayout)
		e.device.DestroyShaderModule(shader)
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}

	kp := &kernelPipeline{shader: shader, bindLayout: bindLayout, pipeLayout: pipeLayout, pipeline: pipeline}
	e.pipelines[spec.WGSL] = kp
	return kp, nil
}

// destroyPipelines must be called with mu held.
func (e *Executor) destroyPipelines() {
	if e.device == nil {
		e.pipelines = make(map[string]*kernelPipeline)
		return
	}
	for _, kp := range e.pipelines {
		e.device.DestroyComputePipeline(kp.pipeline)
		e.device.DestroyPipelineLayout(kp.pipeLayout)
		e.device.DestroyBindGroupLayout(kp.bindLayout)
		e.device.DestroyShaderModule(kp.shader)
	}
	e.pipelines = make(map[string]*kernelPipeline)
}

// compileToSPIRV compiles WGSL to SPIR-V words. SPIR-V is little-endian
// 32-bit words.
func compileToSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// packPixelWords packs RGBA8 pixel bytes into the little-endian u32 layout
// unpack4x8unorm expects: R in the low byte through A in the high byte.
func packPixelWords(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		si := i * 4
		packed := uint32(data[si+0]) |
			uint32(data[si+1])<<8 |
			uint32(data[si+2])<<16 |
			uint32(data[si+3])<<24
		binary.LittleEndian.PutUint32(out[i*4:], packed)
	}
	return out
}

// floatsToBytes serializes float32 values as little-endian bytes for
// buffer upload.
func floatsToBytes(vals []float32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// decodeFloats deserializes a little-endian float32 readback into dst.
func decodeFloats(data []byte, dst []float32) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
}
