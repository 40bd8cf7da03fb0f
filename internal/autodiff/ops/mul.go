package ops

import "github.com/born-ml/autograd/internal/tensor"

// MulOp represents element-wise multiplication: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = outputGrad * b
//   - d(a*b)/db = a, so grad_b = outputGrad * a
type MulOp struct {
	record
}

// NewMulOp creates a new MulOp.
func NewMulOp() *MulOp {
	return &MulOp{}
}

// Name returns "Mul".
func (op *MulOp) Name() string { return "Mul" }

// Forward computes a * b.
func (op *MulOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 2)
	return op.keep(inputs, backend.Mul(inputs[0], inputs[1]))
}

// Saved returns both operands.
func (op *MulOp) Saved() []*tensor.RawTensor {
	return op.inputs
}

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		backend.SumTo(backend.Mul(outputGrad, b), a.Shape()),
		backend.SumTo(backend.Mul(outputGrad, a), b.Shape()),
	}
}
