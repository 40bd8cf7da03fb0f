package ops

import "github.com/born-ml/autograd/internal/tensor"

// ExpOp represents output = exp(x).
//
// Backward reuses the output: grad_x = outputGrad * exp(x).
type ExpOp struct {
	record
}

// NewExpOp creates a new ExpOp.
func NewExpOp() *ExpOp {
	return &ExpOp{}
}

// Name returns "Exp".
func (op *ExpOp) Name() string { return "Exp" }

// Forward computes exp(x).
func (op *ExpOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Exp(inputs[0]))
}

// Saved returns the output.
func (op *ExpOp) Saved() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.output}
}

// Backward computes outputGrad * exp(x).
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Mul(outputGrad, op.output)}
}
