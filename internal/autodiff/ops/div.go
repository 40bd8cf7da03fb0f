package ops

import "github.com/born-ml/autograd/internal/tensor"

// DivOp represents element-wise division: output = a / b.
//
// Backward pass:
//   - grad_a = outputGrad / b
//   - grad_b = -outputGrad * a / b²
type DivOp struct {
	record
}

// NewDivOp creates a new DivOp.
func NewDivOp() *DivOp {
	return &DivOp{}
}

// Name returns "Div".
func (op *DivOp) Name() string { return "Div" }

// Forward computes a / b.
func (op *DivOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 2)
	return op.keep(inputs, backend.Div(inputs[0], inputs[1]))
}

// Saved returns both operands.
func (op *DivOp) Saved() []*tensor.RawTensor {
	return op.inputs
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	gradA := backend.Div(outputGrad, b)
	gradB := backend.Neg(backend.Div(backend.Mul(outputGrad, a), backend.Mul(b, b)))
	return []*tensor.RawTensor{
		backend.SumTo(gradA, a.Shape()),
		backend.SumTo(gradB, b.Shape()),
	}
}
