// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graph implements a typed dataflow IR for per-pixel image kernels.
//
// A Graph is a DAG of operations (texture sampling, arithmetic, clamping,
// interpolation) built once per effect. It compiles to a WGSL compute kernel
// exactly once and exposes named mutable leaves (uniforms) whose values can
// change between draws without recompilation. The CPU evaluator in this
// package is the reference semantics for the compiled WGSL: both operate on
// float32 and must agree on every operation.
//
// Graphs are not safe for concurrent use. The effect runtime owns each graph
// exclusively for its lifetime, matching the single render-thread model.
package graph
