// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides parameter update rules.
package optim

import (
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/nn"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	sgd := optim.NewSGD(params, optim.SGDConfig{LR: 0.01, Momentum: 0.9})
func NewSGD(params *nn.ParameterSet, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}
