// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the parameter registry used to collect trainable
// tensors and their gradients.
package nn

import (
	"github.com/born-ml/autograd/autodiff"
	"github.com/born-ml/autograd/internal/nn"
)

// Parameter is a named leaf tensor that requires gradients.
type Parameter = nn.Parameter

// ParameterSet is an ordered collection of uniquely named parameters.
type ParameterSet = nn.ParameterSet

// NewParameter marks t as requiring grad and wraps it.
//
// Example:
//
//	weight, err := nn.NewParameter("linear.weight", engine.Randn(shape, tensor.Float32, rng, false))
func NewParameter(name string, t *autodiff.Tensor) (*Parameter, error) {
	return nn.NewParameter(name, t)
}

// NewParameterSet creates a set holding params in order.
func NewParameterSet(params ...*Parameter) (*ParameterSet, error) {
	return nn.NewParameterSet(params...)
}
