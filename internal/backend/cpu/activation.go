package cpu

import (
	"math"

	"github.com/born-ml/autograd/internal/tensor"
)

// Sigmoid computes 1 / (1 + exp(-x)) without overflowing for large |x|.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sigmoid", x, sigmoid)
}

// ReLU computes max(0, x).
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Step returns 1 where x > 0 and 0 elsewhere. It is the derivative mask of ReLU.
func (cpu *CPUBackend) Step(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("step", x, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}
