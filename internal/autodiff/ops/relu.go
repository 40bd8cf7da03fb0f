package ops

import "github.com/born-ml/autograd/internal/tensor"

// ReLUOp represents output = max(0, x).
//
// Backward: grad_x = outputGrad where x > 0, else 0.
type ReLUOp struct {
	record
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp() *ReLUOp {
	return &ReLUOp{}
}

// Name returns "ReLU".
func (op *ReLUOp) Name() string { return "ReLU" }

// Forward computes max(0, x).
func (op *ReLUOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.ReLU(inputs[0]))
}

// Saved returns the input.
func (op *ReLUOp) Saved() []*tensor.RawTensor {
	return op.inputs
}

// Backward masks the gradient with x > 0.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, backend.Step(op.inputs[0]))}
}
