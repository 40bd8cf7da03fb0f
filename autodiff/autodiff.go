// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// An Engine records the operations applied to its tensors as a graph of
// producer links. Calling Backward on a scalar result walks that graph once in
// reverse topological order and accumulates gradients into every leaf that
// requires them.
//
// Example:
//
//	import (
//	    "github.com/born-ml/autograd/autodiff"
//	    "github.com/born-ml/autograd/backend/cpu"
//	    "github.com/born-ml/autograd/tensor"
//	)
//
//	func main() {
//	    engine := autodiff.New(cpu.New())
//	    w, _ := autodiff.FromSlice(engine, []float64{0.5, -1}, tensor.Shape{2}, true)
//	    loss := w.Mul(w).Sum()
//	    if err := loss.Backward(); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(w.Grad().Float64s()) // [1 -2]
//	}
package autodiff

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/tensor"
)

// Engine records operations and runs backward passes.
type Engine = autodiff.Engine

// Tensor is a value tracked by an Engine.
type Tensor = autodiff.Tensor

// Node records one application of an operation.
type Node = autodiff.Node

// Operation is the contract for differentiable primitives, including custom
// ones passed to Engine.Apply.
type Operation = ops.Operation

// GraphStats summarizes the graph reachable from a root.
type GraphStats = autodiff.GraphStats

// Option configures an Engine.
type Option = autodiff.Option

// BackwardOption configures a backward pass.
type BackwardOption = autodiff.BackwardOption

// Errors returned by the engine; test with errors.Is.
var (
	ErrNoGradientPath    = autodiff.ErrNoGradientPath
	ErrShapeMismatch     = autodiff.ErrShapeMismatch
	ErrAmbiguousGradient = autodiff.ErrAmbiguousGradient
	ErrGraphAlreadyFreed = autodiff.ErrGraphAlreadyFreed
	ErrCycleDetected     = autodiff.ErrCycleDetected
	ErrStaleIntermediate = autodiff.ErrStaleIntermediate
	ErrInPlaceOnTracked  = autodiff.ErrInPlaceOnTracked
)

// New creates an engine computing with backend.
func New(backend tensor.Backend, opts ...Option) *Engine {
	return autodiff.New(backend, opts...)
}

// WithName sets the engine name used in log lines.
func WithName(name string) Option { return autodiff.WithName(name) }

// WithStaleCheck toggles detection of saved tensors modified in place.
func WithStaleCheck(enabled bool) Option { return autodiff.WithStaleCheck(enabled) }

// WithGradEnabled sets the initial tracking mode.
func WithGradEnabled(enabled bool) Option { return autodiff.WithGradEnabled(enabled) }

// WithSeed sets the gradient of the backward root.
func WithSeed(seed *tensor.RawTensor) BackwardOption { return autodiff.WithSeed(seed) }

// RetainGraph keeps the graph alive after a backward pass.
func RetainGraph() BackwardOption { return autodiff.RetainGraph() }

// FromSlice creates a leaf tensor from a Go slice.
func FromSlice[T tensor.Float](e *Engine, data []T, shape tensor.Shape, requiresGrad bool) (*Tensor, error) {
	return autodiff.FromSlice(e, data, shape, requiresGrad)
}

// BinaryCrossEntropyWithLogits returns the mean binary cross-entropy between
// logits and targets.
func BinaryCrossEntropyWithLogits(logits, targets *Tensor) *Tensor {
	return autodiff.BinaryCrossEntropyWithLogits(logits, targets)
}
