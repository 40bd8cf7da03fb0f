// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"errors"
	"fmt"

	"github.com/born-ml/autograd/autodiff"
	"github.com/born-ml/autograd/backend/cpu"
	"github.com/born-ml/autograd/tensor"
)

// Gradients from every path into a tensor are summed.
func Example() {
	engine := autodiff.New(cpu.New())
	x, _ := autodiff.FromSlice(engine, []float64{1.5}, tensor.Shape{1}, true)

	a := x.MulScalar(2)
	b := x.MulScalar(3)
	loss := a.Add(b)

	if err := loss.Backward(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(x.Grad().Item())

	err := loss.Backward()
	fmt.Println(errors.Is(err, autodiff.ErrGraphAlreadyFreed))
	// Output:
	// 5
	// true
}

func ExampleEngine_NoGrad() {
	engine := autodiff.New(cpu.New())
	x, _ := autodiff.FromSlice(engine, []float64{2}, tensor.Shape{1}, true)

	restore := engine.NoGrad()
	y := x.Mul(x)
	restore()

	fmt.Println(y.RequiresGrad(), errors.Is(y.Backward(), autodiff.ErrNoGradientPath))
	// Output: false true
}
