package ops

import "github.com/born-ml/autograd/internal/tensor"

// SubOp represents element-wise subtraction: output = a - b.
//
// Backward: grad_a = outputGrad, grad_b = -outputGrad.
type SubOp struct {
	record
}

// NewSubOp creates a new SubOp.
func NewSubOp() *SubOp {
	return &SubOp{}
}

// Name returns "Sub".
func (op *SubOp) Name() string { return "Sub" }

// Forward computes a - b.
func (op *SubOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 2)
	return op.keep(inputs, backend.Sub(inputs[0], inputs[1]))
}

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		backend.SumTo(outputGrad, a.Shape()),
		backend.SumTo(backend.Neg(outputGrad), b.Shape()),
	}
}
