package ops

import "github.com/born-ml/autograd/internal/tensor"

// AddOp represents an element-wise addition operation: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
//
// If broadcasting was used in forward pass, gradients are summed back to the
// input shapes.
type AddOp struct {
	record
}

// NewAddOp creates a new AddOp.
func NewAddOp() *AddOp {
	return &AddOp{}
}

// Name returns "Add".
func (op *AddOp) Name() string { return "Add" }

// Forward computes a + b.
func (op *AddOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 2)
	return op.keep(inputs, backend.Add(inputs[0], inputs[1]))
}

// Backward passes the gradient through to both inputs.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		backend.SumTo(outputGrad, a.Shape()),
		backend.SumTo(outputGrad, b.Shape()),
	}
}
