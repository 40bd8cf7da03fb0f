package optim

import (
	"github.com/pkg/errors"

	"github.com/born-ml/autograd/internal/nn"
	"github.com/born-ml/autograd/internal/tensor"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     *nn.ParameterSet
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter]*tensor.RawTensor
}

// SGDConfig holds configuration for SGD.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor in [0, 1) (default: 0)
}

// NewSGD creates a new SGD optimizer over params.
func NewSGD(params *nn.ParameterSet, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter]*tensor.RawTensor),
	}
}

// Step updates every parameter with a gradient. Parameters that did not take
// part in the backward pass are skipped.
func (s *SGD) Step() error {
	for _, p := range s.params.All() {
		grad := p.Grad()
		if grad == nil {
			continue
		}
		param := p.Tensor()
		backend := param.Engine().Backend()

		step := grad
		if s.momentum != 0 {
			v, ok := s.velocities[p]
			if ok {
				v = backend.Add(backend.MulScalar(v, s.momentum), grad)
			} else {
				v = backend.Add(backend.Zeros(grad.Shape(), grad.DType()), grad)
			}
			s.velocities[p] = v
			step = v
		}

		if err := param.ApplyUpdate(backend.MulScalar(step, s.lr)); err != nil {
			return errors.Wrapf(err, "sgd: update %q", p.Name())
		}
	}
	return nil
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	s.params.ZeroGrad()
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Velocity returns the momentum buffer of p, or nil if none exists yet.
func (s *SGD) Velocity(p *nn.Parameter) *tensor.RawTensor {
	return s.velocities[p]
}
