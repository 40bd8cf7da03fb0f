// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the raw tensor values and the numeric backend
// contract used by the autodiff engine.
//
// # Overview
//
// RawTensor is an untracked, reference-counted buffer with a shape, a dtype
// and a device. Views share storage and a version counter that increases on
// every in-place write. Backend is the numeric library interface; backend/cpu
// provides the CPU implementation.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/autograd/backend/cpu"
//	    "github.com/born-ml/autograd/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromFloat64s([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, tensor.Float32, tensor.CPU)
//	    y := backend.MatMul(x, x)
//	    fmt.Println(y.Float64s()) // [7 10 15 22]
//	}
package tensor
