package ops

import "github.com/born-ml/autograd/internal/tensor"

// TanhOp represents output = tanh(x).
//
// Backward: grad_x = outputGrad * (1 - tanh²(x)).
type TanhOp struct {
	record
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp() *TanhOp {
	return &TanhOp{}
}

// Name returns "Tanh".
func (op *TanhOp) Name() string { return "Tanh" }

// Forward computes tanh(x).
func (op *TanhOp) Forward(inputs []*tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	expect(op.Name(), inputs, 1)
	return op.keep(inputs, backend.Tanh(inputs[0]))
}

// Saved returns the output.
func (op *TanhOp) Saved() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.output}
}

// Backward computes outputGrad * (1 - tanh²).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	t := op.output
	local := backend.AddScalar(backend.Neg(backend.Mul(t, t)), 1)
	return []*tensor.RawTensor{backend.Mul(outputGrad, local)}
}
